package submitlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	submitted_at  TEXT NOT NULL,
	participant   TEXT NOT NULL,
	round         INTEGER NOT NULL,
	headline      TEXT NOT NULL,
	round_score   REAL NOT NULL,
	cum_score     REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS submission_legs (
	submission_id INTEGER NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
	ticker        TEXT NOT NULL,
	choice        TEXT NOT NULL,
	return_value  REAL NOT NULL,
	PRIMARY KEY (submission_id, ticker)
);
CREATE INDEX IF NOT EXISTS idx_submissions_participant ON submissions(participant, submitted_at);
`

// SQLiteStore is the embedded-database backend. Same append/readAll/clear
// contract as the CSV store, with the cumulative recompute done inside one
// transaction per append.
type SQLiteStore struct {
	db      *sql.DB
	tickers []string
}

func NewSQLite(path string, tickers []string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open submission db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init submission db: %w", err)
	}
	return &SQLiteStore{db: db, tickers: tickers}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) (Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO submissions (submitted_at, participant, round, headline, round_score, cum_score)
		VALUES (?, ?, ?, ?, ?, 0)
	`, rec.Timestamp.Format(time.RFC3339), rec.Participant, rec.Round, rec.Headline, rec.RoundScore)
	if err != nil {
		return Record{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, err
	}
	for _, t := range s.tickers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO submission_legs (submission_id, ticker, choice, return_value)
			VALUES (?, ?, ?, ?)
		`, id, t, rec.Choices[t], rec.Returns[t]); err != nil {
			return Record{}, err
		}
	}

	// Running cumulative per participant, ordered by time then round.
	rows, err := tx.QueryContext(ctx, `
		SELECT id, round_score FROM submissions
		WHERE participant = ?
		ORDER BY submitted_at, round, id
	`, rec.Participant)
	if err != nil {
		return Record{}, err
	}
	type pair struct {
		id    int64
		score float64
	}
	var all []pair
	for rows.Next() {
		var p pair
		if err := rows.Scan(&p.id, &p.score); err != nil {
			rows.Close()
			return Record{}, err
		}
		all = append(all, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Record{}, err
	}

	sum := 0.0
	cumAfter := 0.0
	for _, p := range all {
		sum += p.score
		if _, err := tx.ExecContext(ctx, `UPDATE submissions SET cum_score = ? WHERE id = ?`, sum, p.id); err != nil {
			return Record{}, err
		}
		if p.id == id {
			cumAfter = sum
		}
	}

	if err := tx.Commit(); err != nil {
		return Record{}, err
	}
	rec.CumScoreAfter = cumAfter
	return rec, nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, submitted_at, participant, round, headline, round_score, cum_score
		FROM submissions
		ORDER BY id
	`)
	if err != nil {
		// Same availability stance as the CSV backend: an unreadable
		// log reads as empty.
		return nil, nil
	}
	defer rows.Close()

	ids := make([]int64, 0)
	out := make([]Record, 0)
	for rows.Next() {
		var (
			id  int64
			ts  string
			rec Record
		)
		if err := rows.Scan(&id, &ts, &rec.Participant, &rec.Round, &rec.Headline, &rec.RoundScore, &rec.CumScoreAfter); err != nil {
			return nil, err
		}
		when, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("bad submitted_at %q: %w", ts, err)
		}
		rec.Timestamp = when
		rec.Choices = make(map[string]string, len(s.tickers))
		rec.Returns = make(map[string]float64, len(s.tickers))
		ids = append(ids, id)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		legs, err := s.db.QueryContext(ctx, `
			SELECT ticker, choice, return_value FROM submission_legs WHERE submission_id = ?
		`, id)
		if err != nil {
			return nil, err
		}
		for legs.Next() {
			var (
				ticker, choice string
				ret            float64
			)
			if err := legs.Scan(&ticker, &choice, &ret); err != nil {
				legs.Close()
				return nil, err
			}
			out[i].Choices[ticker] = choice
			out[i].Returns[ticker] = ret
		}
		legs.Close()
		if err := legs.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM submissions`); err != nil {
		return fmt.Errorf("clear submission db: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
