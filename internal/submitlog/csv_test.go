package submitlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testTickers = []string{"CEN", "FBU", "AIR", "FPH", "WHS"}

func testRecord(participant string, round int, at time.Time, score float64) Record {
	choices := make(map[string]string, len(testTickers))
	returns := make(map[string]float64, len(testTickers))
	for _, t := range testTickers {
		choices[t] = "Hold"
		returns[t] = 0.0
	}
	choices["CEN"] = "Buy"
	returns["CEN"] = score
	return Record{
		Timestamp:   at,
		Participant: participant,
		Round:       round,
		Headline:    "Rate cut surprise",
		Choices:     choices,
		Returns:     returns,
		RoundScore:  score,
	}
}

func newTestCSV(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSV(filepath.Join(t.TempDir(), "submissions.csv"), testTickers)
}

func TestCSVReadAllMissingFileIsEmpty(t *testing.T) {
	store := newTestCSV(t)
	records, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from missing file, want 0", len(records))
	}
}

func TestCSVAppendCreatesFileAndRoundTrips(t *testing.T) {
	store := newTestCSV(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	stored, err := store.Append(ctx, testRecord("Team A", 1, at, 2.0))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if stored.CumScoreAfter != 2.0 {
		t.Fatalf("CumScoreAfter = %v, want 2.0", stored.CumScoreAfter)
	}
	if _, err := os.Stat(store.path); err != nil {
		t.Fatalf("log file not created: %v", err)
	}

	records, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if !rec.Timestamp.Equal(at) {
		t.Fatalf("Timestamp = %v, want %v", rec.Timestamp, at)
	}
	if rec.Participant != "Team A" || rec.Round != 1 || rec.Headline != "Rate cut surprise" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Choices["CEN"] != "Buy" || rec.Choices["WHS"] != "Hold" {
		t.Fatalf("choices = %+v", rec.Choices)
	}
	if rec.Returns["CEN"] != 2.0 || rec.RoundScore != 2.0 || rec.CumScoreAfter != 2.0 {
		t.Fatalf("scores = %+v", rec)
	}
}

func TestCSVAppendRecomputesCumulative(t *testing.T) {
	store := newTestCSV(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, testRecord("Team A", 1, base, 3.0)); err != nil {
		t.Fatalf("Append round 1: %v", err)
	}
	stored, err := store.Append(ctx, testRecord("Team A", 2, base.Add(time.Minute), -1.0))
	if err != nil {
		t.Fatalf("Append round 2: %v", err)
	}
	if stored.CumScoreAfter != 2.0 {
		t.Fatalf("CumScoreAfter = %v, want 2.0", stored.CumScoreAfter)
	}

	records, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if records[0].CumScoreAfter != 3.0 || records[1].CumScoreAfter != 2.0 {
		t.Fatalf("cums = [%v, %v], want [3, 2]", records[0].CumScoreAfter, records[1].CumScoreAfter)
	}
}

func TestCSVAppendKeepsOtherParticipants(t *testing.T) {
	store := newTestCSV(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, testRecord("Team A", 1, base, 3.0)); err != nil {
		t.Fatalf("Append A: %v", err)
	}
	stored, err := store.Append(ctx, testRecord("Team B", 1, base.Add(time.Second), 1.5))
	if err != nil {
		t.Fatalf("Append B: %v", err)
	}
	// Team B's running sum is its own; Team A's rows stay intact.
	if stored.CumScoreAfter != 1.5 {
		t.Fatalf("Team B cum = %v, want 1.5", stored.CumScoreAfter)
	}

	records, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Participant != "Team A" || records[0].CumScoreAfter != 3.0 {
		t.Fatalf("Team A row disturbed: %+v", records[0])
	}
}

func TestCSVClear(t *testing.T) {
	store := newTestCSV(t)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if _, err := store.Append(ctx, testRecord("Team A", 1, at, 3.0)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records after clear, want 0", len(records))
	}
}

func TestCSVCorruptLogReadsEmpty(t *testing.T) {
	store := newTestCSV(t)
	if err := os.WriteFile(store.path, []byte("not,a,submission\nlog,at,all\n"), 0o644); err != nil {
		t.Fatalf("write corrupt log: %v", err)
	}
	records, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records from corrupt log, want 0", len(records))
	}

	// A fresh append starts the log over.
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	stored, err := store.Append(context.Background(), testRecord("Team A", 1, at, 3.0))
	if err != nil {
		t.Fatalf("Append over corrupt log: %v", err)
	}
	if stored.CumScoreAfter != 3.0 {
		t.Fatalf("CumScoreAfter = %v, want 3.0", stored.CumScoreAfter)
	}
}
