// Package submitlog persists one row per submitted round per participant and
// maintains each participant's running cumulative score across appends.
package submitlog

import (
	"context"
	"sort"
	"time"
)

// Record is one immutable submission row. CumScoreAfter is recomputed for
// all of a participant's rows on every append, so the value read back may be
// newer than the value passed in.
type Record struct {
	Timestamp     time.Time
	Participant   string
	Round         int
	Headline      string
	Choices       map[string]string
	Returns       map[string]float64
	RoundScore    float64
	CumScoreAfter float64
}

type Store interface {
	// Append persists rec and recomputes the participant's cumulative
	// scores. The returned record carries the recomputed CumScoreAfter.
	Append(ctx context.Context, rec Record) (Record, error)
	ReadAll(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
	Close() error
}

// recomputeCum rewrites CumScoreAfter for every record of participant as a
// running sum ordered by timestamp, with round number breaking ties.
func recomputeCum(records []Record, participant string) {
	idx := make([]int, 0, len(records))
	for i, r := range records {
		if r.Participant == participant {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := records[idx[a]], records[idx[b]]
		if !ra.Timestamp.Equal(rb.Timestamp) {
			return ra.Timestamp.Before(rb.Timestamp)
		}
		return ra.Round < rb.Round
	})
	sum := 0.0
	for _, i := range idx {
		sum += records[i].RoundScore
		records[i].CumScoreAfter = sum
	}
}
