package submitlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "submissions.db"), testTickers)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteAppendAndReadAll(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	stored, err := store.Append(ctx, testRecord("Team A", 1, at, 2.0))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if stored.CumScoreAfter != 2.0 {
		t.Fatalf("CumScoreAfter = %v, want 2.0", stored.CumScoreAfter)
	}

	records, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if !rec.Timestamp.Equal(at) || rec.Participant != "Team A" || rec.Round != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Choices["CEN"] != "Buy" || rec.Choices["FPH"] != "Hold" {
		t.Fatalf("choices = %+v", rec.Choices)
	}
	if rec.Returns["CEN"] != 2.0 || rec.CumScoreAfter != 2.0 {
		t.Fatalf("scores = %+v", rec)
	}
}

func TestSQLiteCumulativePerParticipant(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := store.Append(ctx, testRecord("Team A", 1, base, 3.0)); err != nil {
		t.Fatalf("Append A1: %v", err)
	}
	if _, err := store.Append(ctx, testRecord("Team B", 1, base.Add(time.Second), 1.0)); err != nil {
		t.Fatalf("Append B1: %v", err)
	}
	stored, err := store.Append(ctx, testRecord("Team A", 2, base.Add(time.Minute), -1.0))
	if err != nil {
		t.Fatalf("Append A2: %v", err)
	}
	if stored.CumScoreAfter != 2.0 {
		t.Fatalf("Team A cum = %v, want 2.0", stored.CumScoreAfter)
	}

	records, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Insertion order is preserved; Team B's sum is untouched by Team A's rows.
	if records[1].Participant != "Team B" || records[1].CumScoreAfter != 1.0 {
		t.Fatalf("Team B row = %+v", records[1])
	}
	if records[0].CumScoreAfter != 3.0 || records[2].CumScoreAfter != 2.0 {
		t.Fatalf("Team A cums = [%v, %v], want [3, 2]", records[0].CumScoreAfter, records[2].CumScoreAfter)
	}
}

func TestSQLiteClear(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()
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

	// The log starts fresh, cumulative included.
	stored, err := store.Append(ctx, testRecord("Team A", 1, at.Add(time.Hour), 1.0))
	if err != nil {
		t.Fatalf("Append after clear: %v", err)
	}
	if stored.CumScoreAfter != 1.0 {
		t.Fatalf("CumScoreAfter = %v after clear, want 1.0", stored.CumScoreAfter)
	}
}
