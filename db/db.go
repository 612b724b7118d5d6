package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"

	_ "github.com/mattn/go-sqlite3"
)

var logCtx = logging.PackageCtx("db")

type SQLiteStorage struct {
	db      *sql.DB
	verbose bool
}

func InitDBStorage(conn *sql.DB) error {
	statements := []string{
		`create table if not exists activations(
			position int,
			code int,
			codes text,
			surface int,
			layout text,
			ts datetime)`,
		`create index if not exists activations_tsix on activations (ts ASC)`,
		`create index if not exists activations_layoutix on activations (layout, position)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("could not prepare storage: %q: %w", stmt, err)
		}
	}

	return nil
}

func NewStorageFromConnection(conn *sql.DB, verbose bool) (*SQLiteStorage, error) {
	if err := InitDBStorage(conn); err != nil {
		return nil, err
	}

	return &SQLiteStorage{db: conn, verbose: verbose}, nil
}

func NewStorageFromPath(path string, verbose bool) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", dataSource(path))
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	// Every :memory: connection is a separate database.
	if isMemory(path) {
		conn.SetMaxOpenConns(1)
	}

	return NewStorageFromConnection(conn, verbose)
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// dataSource enables WAL for files so the history scan does not block writers.
func dataSource(path string) string {
	if isMemory(path) || strings.Contains(path, "?") {
		return path
	}

	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

func (s *SQLiteStorage) Store(activation *model.Activation) error {
	return s.StoreAt(activation, time.Now())
}

// StoreAt records activation as if it happened at ts.
func (s *SQLiteStorage) StoreAt(activation *model.Activation, ts time.Time) error {
	codes, err := json.Marshal(activation.Codes)
	if err != nil {
		return fmt.Errorf("could not encode codes %v: %w", activation.Codes, err)
	}

	_, err = s.db.Exec(`insert into activations(position, code, codes, surface, layout, ts)
	    values(?, ?, ?, ?, ?, ?)`,
		activation.Position, activation.PrimaryCode, string(codes), activation.Surface, activation.Layout, ts.UTC())
	if err != nil {
		return fmt.Errorf("could not store activation: %w", err)
	}

	if s.verbose {
		slog.DebugContext(logCtx, "stored activation", "position", activation.Position, "layout", activation.Layout)
	}

	return nil
}

// GatherAll counts activations per key of every layout.
func (s *SQLiteStorage) GatherAll() ([]model.MinimalActivation, error) {
	rows, err := s.db.Query(
		`select position, layout, count(*) as cnt
        from activations
        group by layout, position
        order by layout, position`)
	if err != nil {
		return nil, fmt.Errorf("could not count activations: %w", err)
	}

	defer rows.Close()

	result := make([]model.MinimalActivation, 0)

	for rows.Next() {
		var item model.MinimalActivation

		if err := rows.Scan(&item.Position, &item.Layout, &item.Count); err != nil {
			return nil, fmt.Errorf("could not read activation count: %w", err)
		}

		result = append(result, item)
	}

	return result, rows.Err()
}

// AllIterator walks the history in chronological order. Rows that cannot be
// read end the walk early.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.ActivationWithTimestamp], error) {
	rows, err := s.db.Query(
		`select position, code, codes, surface, layout, ts
        from activations
        order by ts`)
	if err != nil {
		return nil, fmt.Errorf("could not read history: %w", err)
	}

	return func(yield func(model.ActivationWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				item  model.ActivationWithTimestamp
				codes string
			)

			err := rows.Scan(&item.Position, &item.PrimaryCode, &codes, &item.Surface, &item.Layout, &item.Timestamp)
			if err != nil {
				slog.ErrorContext(logCtx, "could not read history row", "error", err)

				return
			}

			if err := json.Unmarshal([]byte(codes), &item.Codes); err != nil {
				slog.ErrorContext(logCtx, "could not decode codes", "codes", codes, "error", err)

				return
			}

			if !yield(item) {
				return
			}
		}
	}, nil
}

// Merge copies the history of every input into output.
func Merge(inputs []*SQLiteStorage, output *SQLiteStorage) error {
	for i, input := range inputs {
		items, err := input.AllIterator()
		if err != nil {
			return fmt.Errorf("could not read input %d: %w", i, err)
		}

		count := 0

		for item := range items {
			if err := output.StoreAt(&item.Activation, item.Timestamp); err != nil {
				return fmt.Errorf("could not merge input %d: %w", i, err)
			}

			count++
		}

		slog.InfoContext(logCtx, "merged history", "input", i, "activations", count)
	}

	return nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.ErrorContext(logCtx, "could not close storage", "error", err)
	}
}
