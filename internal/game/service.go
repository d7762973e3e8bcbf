package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"traderoom/internal/submitlog"
)

// Service orchestrates round navigation, scoring and submission for all live
// sessions. Sessions are process-local; the submission log is the only state
// shared beyond this process.
type Service struct {
	rounds *Rounds
	store  submitlog.Store
	log    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session

	now func() time.Time
}

func NewService(rounds *Rounds, store submitlog.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		rounds:   rounds,
		store:    store,
		log:      logger,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// CreateSession opens a session, optionally pre-naming the participant.
func (s *Service) CreateSession(participant string) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := newSession(uuid.NewString(), strings.TrimSpace(participant))
	s.sessions[sess.id] = sess
	s.log.Info("session created", "session_id", sess.id, "participant", sess.participant)
	return SessionView{
		SessionID:   sess.id,
		Participant: sess.participant,
		RoundsTotal: s.rounds.Len(),
	}
}

func (s *Service) SetParticipant(sessionID, participant string) error {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return ErrNoParticipant
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.participant = participant
	return nil
}

// SelectChoice records a Buy/Sell/Hold decision for one ticker of the
// session's current round. Locked rounds reject edits.
func (s *Service) SelectChoice(sessionID, ticker string, choice Choice) error {
	if !ValidTicker(ticker) {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
	if _, err := choice.Sign(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if sess.isLocked(sess.roundIdx) {
		return ErrAlreadyLocked
	}
	sess.setChoice(sess.roundIdx, ticker, choice)
	return nil
}

// Submit scores the current round with the recorded choices, locks it and
// appends a row to the submission log. Re-submission of a locked round is
// rejected so the log never carries duplicate rows for one round.
func (s *Service) Submit(ctx context.Context, sessionID string) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return SubmitResult{}, err
	}
	if sess.participant == "" {
		return SubmitResult{}, ErrNoParticipant
	}
	if sess.isLocked(sess.roundIdx) {
		return SubmitResult{}, ErrAlreadyLocked
	}

	row, err := s.rounds.Row(sess.roundIdx)
	if err != nil {
		return SubmitResult{}, err
	}
	choices := sess.roundChoices(sess.roundIdx)
	score, err := ScoreRound(row, choices)
	if err != nil {
		return SubmitResult{}, err
	}

	rec := submitlog.Record{
		Timestamp:   s.now(),
		Participant: sess.participant,
		Round:       row.Round,
		Headline:    row.Headline,
		Choices:     make(map[string]string, len(Tickers)),
		Returns:     row.Returns,
		RoundScore:  score,
	}
	for t, c := range choices {
		rec.Choices[t] = string(c)
	}
	stored, err := s.store.Append(ctx, rec)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("persist submission: %w", err)
	}

	sess.lock(sess.roundIdx, score)
	s.log.Info("round submitted",
		"participant", sess.participant,
		"round", row.Round,
		"round_score", score,
		"cum_score_after", stored.CumScoreAfter,
	)
	return SubmitResult{
		Round:         row.Round,
		RoundScore:    score,
		CumScoreAfter: stored.CumScoreAfter,
	}, nil
}

// Advance moves to the next round. The current round must be locked first.
func (s *Service) Advance(sessionID string) (RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return RoundView{}, err
	}
	if !sess.isLocked(sess.roundIdx) {
		return RoundView{}, ErrNotLocked
	}
	if sess.roundIdx >= s.rounds.Len()-1 {
		return s.roundView(sess)
	}
	sess.roundIdx++
	return s.roundView(sess)
}

// Retreat moves back one round. Purely a view change: prior choices and
// scores stay locked.
func (s *Service) Retreat(sessionID string) (RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return RoundView{}, err
	}
	if sess.roundIdx == 0 {
		return RoundView{}, ErrAtFirstRound
	}
	sess.roundIdx--
	return s.roundView(sess)
}

func (s *Service) ResetPlayer(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.resetPlayer()
	s.log.Info("player reset", "session_id", sess.id, "participant", sess.participant)
	return nil
}

// DestroySession is the reset-everything action: the session disappears,
// participant included. The submission log is untouched.
func (s *Service) DestroySession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.log.Info("session destroyed", "session_id", sessionID)
	return nil
}

func (s *Service) Round(sessionID string) (RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return RoundView{}, err
	}
	return s.roundView(sess)
}

func (s *Service) Scores(sessionID string) (ScoreTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(sessionID)
	if err != nil {
		return ScoreTable{}, err
	}
	table := ScoreTable{Participant: sess.participant, Rows: make([]ScoreRow, 0, len(sess.scores))}
	cum := 0.0
	for i, score := range sess.scores {
		cum += score
		table.Rows = append(table.Rows, ScoreRow{Round: i + 1, Score: score, CumScore: cum})
	}
	table.CumScore = cum
	return table, nil
}

// Leaderboard derives the ranking from the full submission log. It needs no
// session, so spectators can call it freely.
func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeLeaderboard(records), nil
}

// ClearLog wipes every submission. Admin only; live sessions keep their
// local state.
func (s *Service) ClearLog(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.log.Warn("submission log cleared")
	return nil
}

func (s *Service) session(id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) roundView(sess *session) (RoundView, error) {
	row, err := s.rounds.Row(sess.roundIdx)
	if err != nil {
		return RoundView{}, err
	}
	locked := sess.isLocked(sess.roundIdx)
	return RoundView{
		RoundIndex:  sess.roundIdx,
		Round:       row.Round,
		RoundsTotal: s.rounds.Len(),
		Headline:    row.Headline,
		Choices:     sess.roundChoices(sess.roundIdx),
		Locked:      locked,
		CanAdvance:  locked && sess.roundIdx < s.rounds.Len()-1,
		CanRetreat:  sess.roundIdx > 0,
	}, nil
}
