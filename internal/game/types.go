package game

type SessionView struct {
	SessionID   string `json:"session_id"`
	Participant string `json:"participant"`
	RoundsTotal int    `json:"rounds_total"`
}

// RoundView is the display data for one session's current round.
type RoundView struct {
	RoundIndex  int               `json:"round_index"`
	Round       int               `json:"round"`
	RoundsTotal int               `json:"rounds_total"`
	Headline    string            `json:"headline"`
	Choices     map[string]Choice `json:"choices"`
	Locked      bool              `json:"locked"`
	CanAdvance  bool              `json:"can_advance"`
	CanRetreat  bool              `json:"can_retreat"`
}

type SubmitResult struct {
	Round         int     `json:"round"`
	RoundScore    float64 `json:"round_score"`
	CumScoreAfter float64 `json:"cum_score_after"`
}

type ScoreRow struct {
	Round    int     `json:"round"`
	Score    float64 `json:"score"`
	CumScore float64 `json:"cum_score"`
}

// ScoreTable is the session-scoped running score view. The cumulative column
// here is display-only; the authoritative cumulative score lives in the
// submission log.
type ScoreTable struct {
	Participant string     `json:"participant"`
	Rows        []ScoreRow `json:"rows"`
	CumScore    float64    `json:"cum_score"`
}

type LeaderboardEntry struct {
	Participant string  `json:"participant"`
	LatestRound int     `json:"latest_round"`
	LatestScore float64 `json:"latest_score"`
	CumScore    float64 `json:"cum_score"`
}
