package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/MarcoPinkman/Hawkeye/internal/metrics"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)
)

// timestampLayout is fixed-width so lexical order matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS event_logs (
	event_id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_timestamp TEXT NOT NULL,
	event_code TEXT NOT NULL,
	event_description TEXT NOT NULL DEFAULT '',
	event_video_url TEXT NOT NULL DEFAULT '',
	event_detection_explanation_by_ai TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_event_logs_timestamp ON event_logs(event_timestamp);
`

// Store reads the event_logs table.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open connects to the event log database. For sqlite the busy timeout and
// WAL pragmas are applied to every pooled connection.
func Open(driver, dsn string) (*Store, error) {
	if driver == "sqlite" && !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping event log: %w", err)
	}
	return NewStore(db), nil
}

// NewStore wraps an existing pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, log: xlog.WithComponent("eventlog")}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the event_logs table. The console itself only
// reads; the mock control plane and tests write.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create event_logs: %w", err)
	}
	return nil
}

// Insert stores rec and returns its assigned ID.
func (s *Store) Insert(ctx context.Context, rec Record) (int64, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO event_logs (event_timestamp, event_code, event_description, event_video_url, event_detection_explanation_by_ai)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC().Format(timestampLayout), rec.Code, rec.Description, rec.VideoURL, rec.Explanation)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return res.LastInsertId()
}

// Recent implements Source.
func (s *Store) Recent(ctx context.Context) []Record {
	recs, err := s.fetch(ctx)
	if err != nil {
		metrics.EventLogFetches.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("fetch event log")
		return []Record{}
	}
	metrics.EventLogFetches.WithLabelValues("ok").Inc()
	return recs
}

func (s *Store) fetch(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, event_timestamp, event_code, event_description, event_video_url, event_detection_explanation_by_ai
		 FROM event_logs
		 ORDER BY event_timestamp DESC, event_id DESC
		 LIMIT ?`, MaxRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, MaxRecords)
	for rows.Next() {
		var rec Record
		var ts string
		if err := rows.Scan(&rec.ID, &ts, &rec.Code, &rec.Description, &rec.VideoURL, &rec.Explanation); err != nil {
			return nil, err
		}
		rec.Timestamp = parseTimestamp(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// parseTimestamp accepts the layouts the detection service has been seen
// to write. Unparseable values yield the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
