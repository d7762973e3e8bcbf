package submitlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CSVStore keeps the whole log in one flat CSV file, rewriting it on every
// append so prior rows pick up recomputed cumulative scores. A single mutex
// serializes writers within this process; concurrent writers from other
// processes are not coordinated.
type CSVStore struct {
	path    string
	tickers []string
	mu      sync.Mutex
}

func NewCSV(path string, tickers []string) *CSVStore {
	return &CSVStore{path: path, tickers: tickers}
}

func (s *CSVStore) Append(ctx context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An unreadable or missing log starts over empty rather than failing
	// the submission.
	records, err := s.readAll()
	if err != nil {
		records = nil
	}
	records = append(records, rec)
	recomputeCum(records, rec.Participant)

	if err := s.rewrite(records); err != nil {
		return Record{}, err
	}
	return records[len(records)-1], nil
}

func (s *CSVStore) ReadAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readAll()
	if err != nil {
		return nil, nil
	}
	return records, nil
}

func (s *CSVStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear submission log: %w", err)
	}
	return nil
}

func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) header() []string {
	cols := []string{"timestamp", "participant", "round", "headline"}
	for _, t := range s.tickers {
		cols = append(cols, "choice_"+t)
	}
	for _, t := range s.tickers {
		cols = append(cols, "return_"+t)
	}
	return append(cols, "round_score", "cum_score_after")
}

func (s *CSVStore) readAll() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range s.header() {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("submission log missing column %q", name)
		}
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := s.parseRow(row, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *CSVStore) parseRow(row []string, cols map[string]int) (Record, error) {
	var rec Record
	ts, err := time.Parse(time.RFC3339, row[cols["timestamp"]])
	if err != nil {
		return rec, fmt.Errorf("bad timestamp %q: %w", row[cols["timestamp"]], err)
	}
	round, err := strconv.Atoi(row[cols["round"]])
	if err != nil {
		return rec, fmt.Errorf("bad round %q: %w", row[cols["round"]], err)
	}
	score, err := strconv.ParseFloat(row[cols["round_score"]], 64)
	if err != nil {
		return rec, fmt.Errorf("bad round_score %q: %w", row[cols["round_score"]], err)
	}
	cum, err := strconv.ParseFloat(row[cols["cum_score_after"]], 64)
	if err != nil {
		return rec, fmt.Errorf("bad cum_score_after %q: %w", row[cols["cum_score_after"]], err)
	}

	rec = Record{
		Timestamp:     ts,
		Participant:   row[cols["participant"]],
		Round:         round,
		Headline:      row[cols["headline"]],
		Choices:       make(map[string]string, len(s.tickers)),
		Returns:       make(map[string]float64, len(s.tickers)),
		RoundScore:    score,
		CumScoreAfter: cum,
	}
	for _, t := range s.tickers {
		rec.Choices[t] = row[cols["choice_"+t]]
		ret, err := strconv.ParseFloat(row[cols["return_"+t]], 64)
		if err != nil {
			return rec, fmt.Errorf("bad return_%s %q: %w", t, row[cols["return_"+t]], err)
		}
		rec.Returns[t] = ret
	}
	return rec, nil
}

// rewrite replaces the log atomically within this process: write a sibling
// temp file, then rename over the target.
func (s *CSVStore) rewrite(records []Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".submissions-*.csv")
	if err != nil {
		return fmt.Errorf("rewrite submission log: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(s.header()); err != nil {
		tmp.Close()
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.Format(time.RFC3339),
			rec.Participant,
			strconv.Itoa(rec.Round),
			rec.Headline,
		}
		for _, t := range s.tickers {
			row = append(row, rec.Choices[t])
		}
		for _, t := range s.tickers {
			row = append(row, formatScore(rec.Returns[t]))
		}
		row = append(row, formatScore(rec.RoundScore), formatScore(rec.CumScoreAfter))
		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rewrite submission log: %w", err)
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
