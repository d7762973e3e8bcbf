package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeRoundsCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game_config.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRounds(t *testing.T) {
	path := writeRoundsCSV(t, `round,headline,CEN,FBU,AIR,FPH,WHS
2,"Second round",1.0,2.0,3.0,4.0,5.0
1,"Rate cut surprise",2.0,-1.0,0.5,1.0,-0.5
`)
	rounds, err := LoadRounds(path)
	if err != nil {
		t.Fatalf("LoadRounds: %v", err)
	}
	if rounds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rounds.Len())
	}

	// Rows come back sorted ascending by round number.
	first, err := rounds.Row(0)
	if err != nil {
		t.Fatalf("Row(0): %v", err)
	}
	if first.Round != 1 || first.Headline != "Rate cut surprise" {
		t.Fatalf("Row(0) = %+v, want round 1", first)
	}
	if first.Returns["CEN"] != 2.0 || first.Returns["WHS"] != -0.5 {
		t.Fatalf("Row(0) returns = %+v", first.Returns)
	}

	second, err := rounds.Row(1)
	if err != nil {
		t.Fatalf("Row(1): %v", err)
	}
	if second.Round != 2 {
		t.Fatalf("Row(1).Round = %d, want 2", second.Round)
	}

	if _, err := rounds.Row(2); err == nil {
		t.Fatalf("expected out-of-range error for Row(2)")
	}
	if _, err := rounds.Row(-1); err == nil {
		t.Fatalf("expected out-of-range error for Row(-1)")
	}
}

func TestLoadRoundsMissingColumn(t *testing.T) {
	path := writeRoundsCSV(t, `round,headline,CEN,FBU,AIR,FPH
1,"A",2.0,-1.0,0.5,1.0
`)
	if _, err := LoadRounds(path); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig for missing WHS column, got %v", err)
	}
}

func TestLoadRoundsBadCells(t *testing.T) {
	badRound := writeRoundsCSV(t, `round,headline,CEN,FBU,AIR,FPH,WHS
zero,"A",2.0,-1.0,0.5,1.0,-0.5
`)
	if _, err := LoadRounds(badRound); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig for bad round number, got %v", err)
	}

	badReturn := writeRoundsCSV(t, `round,headline,CEN,FBU,AIR,FPH,WHS
1,"A",up,-1.0,0.5,1.0,-0.5
`)
	if _, err := LoadRounds(badReturn); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig for bad return, got %v", err)
	}
}

func TestLoadRoundsMissingFile(t *testing.T) {
	if _, err := LoadRounds(filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig for missing file, got %v", err)
	}
}

func TestLoadRoundsIdempotent(t *testing.T) {
	path := writeRoundsCSV(t, `round,headline,CEN,FBU,AIR,FPH,WHS
1,"A",2.0,-1.0,0.5,1.0,-0.5
`)
	a, err := LoadRounds(path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	b, err := LoadRounds(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	rowA, _ := a.Row(0)
	rowB, _ := b.Row(0)
	if rowA.Round != rowB.Round || rowA.Headline != rowB.Headline {
		t.Fatalf("repeated loads differ: %+v vs %+v", rowA, rowB)
	}
}
