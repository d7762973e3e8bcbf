package game

// session is one participant's interactive state. All access goes through
// the Service, which holds the lock.
type session struct {
	id          string
	participant string
	roundIdx    int
	choices     map[int]map[string]Choice
	scores      []float64
	locked      map[int]struct{}
}

func newSession(id, participant string) *session {
	return &session{
		id:          id,
		participant: participant,
		choices:     make(map[int]map[string]Choice),
		locked:      make(map[int]struct{}),
	}
}

func (s *session) isLocked(idx int) bool {
	_, ok := s.locked[idx]
	return ok
}

// roundChoices returns the recorded choices for idx with Hold filled in for
// every unset ticker.
func (s *session) roundChoices(idx int) map[string]Choice {
	out := make(map[string]Choice, len(Tickers))
	for _, t := range Tickers {
		out[t] = ChoiceHold
	}
	for t, c := range s.choices[idx] {
		out[t] = c
	}
	return out
}

func (s *session) setChoice(idx int, ticker string, choice Choice) {
	if s.choices[idx] == nil {
		s.choices[idx] = make(map[string]Choice, len(Tickers))
	}
	s.choices[idx][ticker] = choice
}

func (s *session) lock(idx int, score float64) {
	s.scores = append(s.scores, score)
	s.locked[idx] = struct{}{}
}

// resetPlayer clears decisions and scores but keeps the participant name.
func (s *session) resetPlayer() {
	s.roundIdx = 0
	s.choices = make(map[int]map[string]Choice)
	s.scores = nil
	s.locked = make(map[int]struct{})
}
