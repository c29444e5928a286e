// Package store keeps a history of finished solves in a sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/domino14/countdown/game"
	"github.com/domino14/countdown/operation"
	"github.com/domino14/countdown/solver"
)

var ErrNoResult = errors.New("nothing to record")

const schema = `
CREATE TABLE IF NOT EXISTS solves (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	target        INTEGER NOT NULL,
	numbers       TEXT NOT NULL,
	solutions     INTEGER NOT NULL,
	best_distance INTEGER NOT NULL,
	best          TEXT NOT NULL,
	expanded      INTEGER NOT NULL,
	threads       INTEGER NOT NULL,
	elapsed_ns    INTEGER NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS solves_target ON solves(target);
`

// Record is one stored solve. Best is the trace of the best candidate, with
// operations separated by ", ".
type Record struct {
	ID           int64
	Target       uint64
	Numbers      []uint64
	Solutions    int
	BestDistance uint64
	Best         string
	Expanded     uint64
	Threads      int
	Elapsed      time.Duration
	CreatedAt    time.Time
}

func (r Record) String() string {
	return fmt.Sprintf("#%d %s target %d, numbers %s: %d solutions, best distance %d (%s) in %v",
		r.ID, r.CreatedAt.Format(time.DateTime), r.Target, encodeNumbers(r.Numbers),
		r.Solutions, r.BestDistance, r.Best, r.Elapsed)
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-results-db")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a finished solve of g and returns the new record's id.
func (s *Store) Save(ctx context.Context, g *game.Game, res *solver.Result, threads int) (int64, error) {
	if g == nil || res == nil {
		return 0, ErrNoResult
	}
	best := ""
	if res.Best != nil {
		best = strings.Join(lo.Map(res.Best.Operations(), func(op operation.Operation, _ int) string {
			return op.String()
		}), ", ")
	}
	r, err := s.db.ExecContext(ctx,
		`INSERT INTO solves (target, numbers, solutions, best_distance, best, expanded, threads, elapsed_ns, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		// uint64 values are stored by bit pattern.
		int64(g.Target), encodeNumbers(g.Numbers.Values()), res.Solutions, int64(res.BestDistance),
		best, int64(res.Expanded), threads, int64(res.Elapsed), time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("saving solve: %w", err)
	}
	return r.LastInsertId()
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.query(ctx, `SELECT id, target, numbers, solutions, best_distance, best, expanded, threads, elapsed_ns, created_at
		FROM solves ORDER BY id DESC LIMIT ?`, limit)
}

// ForTarget returns every record for the given target, oldest first.
func (s *Store) ForTarget(ctx context.Context, target uint64) ([]Record, error) {
	return s.query(ctx, `SELECT id, target, numbers, solutions, best_distance, best, expanded, threads, elapsed_ns, created_at
		FROM solves WHERE target = ? ORDER BY id`, int64(target))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec                    Record
			target, dist, expanded int64
			elapsed, created       int64
			numbers                string
		)
		err := rows.Scan(&rec.ID, &target, &numbers, &rec.Solutions, &dist, &rec.Best,
			&expanded, &rec.Threads, &elapsed, &created)
		if err != nil {
			return nil, err
		}
		rec.Numbers, err = decodeNumbers(numbers)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.ID, err)
		}
		rec.Target = uint64(target)
		rec.BestDistance = uint64(dist)
		rec.Expanded = uint64(expanded)
		rec.Elapsed = time.Duration(elapsed)
		rec.CreatedAt = time.Unix(0, created)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func encodeNumbers(nums []uint64) string {
	return strings.Join(lo.Map(nums, func(n uint64, _ int) string {
		return strconv.FormatUint(n, 10)
	}), " ")
}

func decodeNumbers(s string) ([]uint64, error) {
	fields := strings.Fields(s)
	nums := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}
