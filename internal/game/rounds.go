package game

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// RoundRow is one configured round: a headline plus a signed return per ticker.
type RoundRow struct {
	Round    int
	Headline string
	Returns  map[string]float64
}

// Rounds is the immutable round configuration, sorted ascending by round
// number and indexed by position.
type Rounds struct {
	rows []RoundRow
}

// LoadRounds reads the round configuration CSV. Required columns: round,
// headline and one numeric column per ticker. Any missing column or
// unparseable cell wraps ErrBadConfig; callers treat that as fatal.
func LoadRounds(path string) (*Rounds, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrBadConfig, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrBadConfig, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrBadConfig, path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	required := append([]string{"round", "headline"}, Tickers...)
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadConfig, name)
		}
	}

	rows := make([]RoundRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		round, err := strconv.Atoi(strings.TrimSpace(rec[cols["round"]]))
		if err != nil || round <= 0 {
			return nil, fmt.Errorf("%w: row %d: bad round number %q", ErrBadConfig, n+2, rec[cols["round"]])
		}
		row := RoundRow{
			Round:    round,
			Headline: strings.TrimSpace(rec[cols["headline"]]),
			Returns:  make(map[string]float64, len(Tickers)),
		}
		for _, t := range Tickers {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[t]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: bad %s return %q", ErrBadConfig, n+2, t, rec[cols[t]])
			}
			row.Returns[t] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no rounds", ErrBadConfig, path)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Round < rows[j].Round })
	return &Rounds{rows: rows}, nil
}

func (r *Rounds) Len() int {
	return len(r.rows)
}

// Row returns the round at zero-based position idx.
func (r *Rounds) Row(idx int) (RoundRow, error) {
	if idx < 0 || idx >= len(r.rows) {
		return RoundRow{}, fmt.Errorf("round index %d out of range [0,%d)", idx, len(r.rows))
	}
	return r.rows[idx], nil
}
