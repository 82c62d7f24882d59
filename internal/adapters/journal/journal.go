// Package journal persists every dispatched event to SQLite so a show can
// be inspected or replayed later.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/metrics"
)

//go:embed schema.sql
var schema string

const (
	dirPermissions     = 0o750
	msPerSecond        = 1000
	connectionTimeout  = 5 * time.Second
	defaultBusyTimeout = 5
	defaultQueryLimit  = 1000
	sinkName           = "journal"
)

// Config describes the database file.
type Config struct {
	Path        string
	BusyTimeout int // seconds
}

// Entry is one journaled dispatch.
type Entry struct {
	Seq        int64
	Beat       float64 // clock beat when the event was dispatched
	RecordedAt time.Time
	Event      model.Event
}

// Journal is an append-only event log.
type Journal struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates the database file if needed and applies the schema.
func Open(ctx context.Context, cfg Config) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL", cfg.Path, busy*msPerSecond)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("verifying journal connection: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("applying journal schema: %w", err)
	}

	return &Journal{db: db, path: cfg.Path, now: time.Now}, nil
}

// Path returns the database file path.
func (j *Journal) Path() string { return j.path }

// Record appends ev, dispatched at beat.
func (j *Journal) Record(ctx context.Context, beat float64, ev model.Event) error { //nolint:gocritic // hugeParam: events are values
	var custom sql.NullString
	if ev.Custom != nil {
		b, err := json.Marshal(ev.Custom.Map())
		if err != nil {
			return fmt.Errorf("encoding custom data: %w", err)
		}
		custom = sql.NullString{String: string(b), Valid: true}
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (event_id, beat, event_time, event_type, event_value, custom, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, beat, ev.Time, ev.Type, ev.Value, custom, j.now().UnixNano())
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	metrics.RecordSinkWrite(sinkName)
	return nil
}

// Events returns entries whose event time lies in [from, to], oldest first.
// A non-positive limit uses the default.
func (j *Journal) Events(ctx context.Context, from, to float64, limit int) ([]Entry, error) {
	if to < from {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, from, to)
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, event_id, beat, event_time, event_type, event_value, custom, recorded_at
		 FROM events WHERE event_time BETWEEN ? AND ?
		 ORDER BY seq LIMIT ?`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			custom sql.NullString
			nanos  int64
		)
		if err := rows.Scan(&e.Seq, &e.Event.ID, &e.Beat, &e.Event.Time, &e.Event.Type, &e.Event.Value, &custom, &nanos); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.RecordedAt = time.Unix(0, nanos)
		if custom.Valid {
			var raw map[string]any
			if err := json.Unmarshal([]byte(custom.String), &raw); err != nil {
				return nil, fmt.Errorf("%w: seq %d: %w", ErrCorruptEntry, e.Seq, err)
			}
			cd, err := model.DecodeCustomData(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: seq %d: %w", ErrCorruptEntry, e.Seq, err)
			}
			e.Event.Custom = cd
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return out, nil
}

// Count returns the number of journaled events.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// HealthCheck runs a trivial query.
func (j *Journal) HealthCheck(ctx context.Context) error {
	var result int
	if err := j.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("journal health check failed: %w", err)
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("closing journal: %w", err)
	}
	return nil
}
