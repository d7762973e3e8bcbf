package game

import (
	"testing"
	"time"

	"traderoom/internal/submitlog"
)

func logRecord(participant string, round int, at time.Time, roundScore, cum float64) submitlog.Record {
	return submitlog.Record{
		Timestamp:     at,
		Participant:   participant,
		Round:         round,
		RoundScore:    roundScore,
		CumScoreAfter: cum,
	}
}

func TestComputeLeaderboardEmpty(t *testing.T) {
	got := ComputeLeaderboard(nil)
	if len(got) != 0 {
		t.Fatalf("ComputeLeaderboard(nil) = %+v, want empty", got)
	}
}

func TestComputeLeaderboardPicksLatestRecord(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []submitlog.Record{
		logRecord("Team A", 1, base, 3.0, 3.0),
		logRecord("Team A", 2, base.Add(time.Minute), -1.0, 2.0),
		logRecord("Team A", 3, base.Add(2*time.Minute), 0.5, 2.5),
	}
	got := ComputeLeaderboard(records)
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	want := LeaderboardEntry{Participant: "Team A", LatestRound: 3, LatestScore: 0.5, CumScore: 2.5}
	if got[0] != want {
		t.Fatalf("entry = %+v, want %+v", got[0], want)
	}
}

func TestComputeLeaderboardRoundBreaksTimestampTie(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []submitlog.Record{
		logRecord("Team A", 2, at, 1.0, 4.0),
		logRecord("Team A", 1, at, 3.0, 3.0),
	}
	got := ComputeLeaderboard(records)
	if got[0].LatestRound != 2 || got[0].CumScore != 4.0 {
		t.Fatalf("entry = %+v, want round 2 cum 4.0", got[0])
	}
}

func TestComputeLeaderboardRanksDescending(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []submitlog.Record{
		logRecord("Team A", 1, base, 1.0, 1.0),
		logRecord("Team B", 1, base.Add(time.Second), 5.0, 5.0),
		logRecord("Team C", 1, base.Add(2*time.Second), -2.0, -2.0),
	}
	got := ComputeLeaderboard(records)
	order := []string{got[0].Participant, got[1].Participant, got[2].Participant}
	if order[0] != "Team B" || order[1] != "Team A" || order[2] != "Team C" {
		t.Fatalf("ranking = %v, want [Team B, Team A, Team C]", order)
	}
}

func TestComputeLeaderboardStableOnTies(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []submitlog.Record{
		logRecord("Team A", 1, base, 2.0, 2.0),
		logRecord("Team B", 1, base.Add(time.Second), 2.0, 2.0),
	}
	got := ComputeLeaderboard(records)
	if got[0].Participant != "Team A" || got[1].Participant != "Team B" {
		t.Fatalf("tied ranking = [%s, %s], want first-submission order", got[0].Participant, got[1].Participant)
	}
}
