package game

import (
	"sort"

	"traderoom/internal/submitlog"
)

// ComputeLeaderboard groups the submission log by participant, takes each
// participant's chronologically last record (round number breaks timestamp
// ties) for the latest round and score, and ranks by that record's stored
// cumulative score, descending. The sort is stable, so equal totals keep
// first-submission order.
func ComputeLeaderboard(records []submitlog.Record) []LeaderboardEntry {
	latest := make(map[string]submitlog.Record)
	order := make([]string, 0)
	for _, rec := range records {
		prev, seen := latest[rec.Participant]
		if !seen {
			order = append(order, rec.Participant)
			latest[rec.Participant] = rec
			continue
		}
		if rec.Timestamp.After(prev.Timestamp) ||
			(rec.Timestamp.Equal(prev.Timestamp) && rec.Round > prev.Round) {
			latest[rec.Participant] = rec
		}
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, participant := range order {
		rec := latest[participant]
		entries = append(entries, LeaderboardEntry{
			Participant: participant,
			LatestRound: rec.Round,
			LatestScore: rec.RoundScore,
			CumScore:    rec.CumScoreAfter,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CumScore > entries[j].CumScore
	})
	return entries
}
