package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openclaw/urlqr/qrgen"
)

// Source tags where a generation attempt came from.
type Source string

const (
	SourceMenu Source = "menu"
	SourceCLI  Source = "cli"
	SourceAPI  Source = "api"
)

// Entry is one recorded generation attempt.
type Entry struct {
	ID        int64  `json:"id"`
	InputURL  string `json:"input_url"`
	Payload   string `json:"payload,omitempty"`
	Path      string `json:"path,omitempty"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Source    Source `json:"source"`
	CreatedAt int64  `json:"created_at"`
}

// NewEntry converts the outcome of generating raw into an Entry.
func NewEntry(raw string, res qrgen.Result, src Source) *Entry {
	return &Entry{
		InputURL: raw,
		Payload:  res.Payload,
		Path:     res.Path,
		Success:  res.OK,
		Message:  res.Message,
		Source:   src,
	}
}

// HistoryStore keeps generation attempts in SQLite.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    input_url TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL DEFAULT '',
    success INTEGER NOT NULL DEFAULT 0,
    message TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
`

const createHistoryIndexes = `
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath and
// initialises the schema.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{createHistoryTable, createHistoryIndexes} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db, now: time.Now}, nil
}

// Record inserts e. ID and CreatedAt are assigned by the store and written
// back into e.
func (s *HistoryStore) Record(ctx context.Context, e *Entry) error {
	const query = `
		INSERT INTO history (input_url, payload, path, success, message, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	e.CreatedAt = s.now().Unix()
	res, err := s.db.ExecContext(ctx, query,
		e.InputURL,
		e.Payload,
		e.Path,
		boolToInt(e.Success),
		e.Message,
		string(e.Source),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	const query = `
		SELECT id, input_url, payload, path, success, message, source, created_at
		FROM history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var success int
		var source string
		if err := rows.Scan(&e.ID, &e.InputURL, &e.Payload, &e.Path, &success, &e.Message, &source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Success = success != 0
		e.Source = Source(source)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
