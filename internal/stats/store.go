// Package stats provides SQLite-based persistence for player lifetime
// stats, achievement unlock timestamps and append-only run logs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// UnlockEntry is one persisted achievement unlock.
type UnlockEntry struct {
	Name       string
	UnlockedAt time.Time
}

// RunLog is one recorded run with its ordered log entries.
type RunLog struct {
	ID        int64
	Level     int
	StartedAt time.Time
	Outcome   string // "playing", "win" or "lose"
	Entries   []RunLogEntry
}

// RunLogEntry is one appended event: an item selection or a scored frame.
type RunLogEntry struct {
	Seq    int
	Kind   string // "select" or "score"
	Detail string // item name, or comma-joined component totals
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("stats: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("stats: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("stats: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("stats: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS stats (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS unlocks (
			name TEXT PRIMARY KEY,
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			outcome TEXT NOT NULL DEFAULT 'playing',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS run_log_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES run_logs(id),
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_run_log_entries_run ON run_log_entries(run_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Incr adds delta to a lifetime counter, creating it at zero first.
func (s *Store) Incr(key string, delta int64) error {
	_, err := s.db.Exec(
		`INSERT INTO stats (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = value + excluded.value`,
		key, delta,
	)
	if err != nil {
		return fmt.Errorf("stats: cannot increment %s: %w", key, err)
	}
	return nil
}

// SetMax raises a lifetime counter to v if v is larger.
func (s *Store) SetMax(key string, v int64) error {
	_, err := s.db.Exec(
		`INSERT INTO stats (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = MAX(value, excluded.value)`,
		key, v,
	)
	if err != nil {
		return fmt.Errorf("stats: cannot raise %s: %w", key, err)
	}
	return nil
}

// Get returns a lifetime counter, zero when absent.
func (s *Store) Get(key string) (int64, error) {
	var v sql.NullInt64
	err := s.db.QueryRow("SELECT value FROM stats WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stats: cannot read %s: %w", key, err)
	}
	return v.Int64, nil
}

// All returns the whole flat key→value stats record.
func (s *Store) All() (map[string]int64, error) {
	rows, err := s.db.Query("SELECT key, value FROM stats ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("stats: cannot query stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var k string
		var v int64
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("stats: cannot scan row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: row iteration error: %w", err)
	}
	return out, nil
}

// Unlock records an achievement unlock timestamp. Returns true the
// first time; repeated unlocks are no-ops.
func (s *Store) Unlock(name string) (bool, error) {
	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO unlocks (name) VALUES (?)", name,
	)
	if err != nil {
		return false, fmt.Errorf("stats: cannot unlock %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("stats: cannot inspect unlock %s: %w", name, err)
	}
	return n > 0, nil
}

// Unlocks returns all recorded unlocks, oldest first.
func (s *Store) Unlocks() ([]UnlockEntry, error) {
	rows, err := s.db.Query("SELECT name, unlocked_at FROM unlocks ORDER BY unlocked_at")
	if err != nil {
		return nil, fmt.Errorf("stats: cannot query unlocks: %w", err)
	}
	defer rows.Close()

	var out []UnlockEntry
	for rows.Next() {
		var e UnlockEntry
		var at any
		if err := rows.Scan(&e.Name, &at); err != nil {
			return nil, fmt.Errorf("stats: cannot scan row: %w", err)
		}
		e.UnlockedAt = parseTime(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: row iteration error: %w", err)
	}
	return out, nil
}

// BeginRun opens a new append-only run log and returns its id.
func (s *Store) BeginRun(level int) (int64, error) {
	res, err := s.db.Exec("INSERT INTO run_logs (level) VALUES (?)", level)
	if err != nil {
		return 0, fmt.Errorf("stats: cannot begin run log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("stats: cannot get run log ID: %w", err)
	}
	return id, nil
}

// AppendRunEntry appends one log entry to an open run.
func (s *Store) AppendRunEntry(runID int64, seq int, kind, detail string) error {
	_, err := s.db.Exec(
		"INSERT INTO run_log_entries (run_id, seq, kind, detail) VALUES (?, ?, ?, ?)",
		runID, seq, kind, detail,
	)
	if err != nil {
		return fmt.Errorf("stats: cannot append run entry: %w", err)
	}
	return nil
}

// FinishRun seals a run log with its outcome.
func (s *Store) FinishRun(runID int64, outcome string) error {
	_, err := s.db.Exec("UPDATE run_logs SET outcome = ? WHERE id = ?", outcome, runID)
	if err != nil {
		return fmt.Errorf("stats: cannot finish run log: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first, with their entries.
func (s *Store) RecentRuns(limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level, outcome, started_at
		 FROM run_logs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: cannot query run logs: %w", err)
	}
	defer rows.Close()

	var runs []RunLog
	for rows.Next() {
		var r RunLog
		var at any
		if err := rows.Scan(&r.ID, &r.Level, &r.Outcome, &at); err != nil {
			return nil, fmt.Errorf("stats: cannot scan row: %w", err)
		}
		r.StartedAt = parseTime(at)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats: row iteration error: %w", err)
	}

	for i := range runs {
		entries, err := s.runEntries(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Entries = entries
	}
	return runs, nil
}

func (s *Store) runEntries(runID int64) ([]RunLogEntry, error) {
	rows, err := s.db.Query(
		"SELECT seq, kind, detail FROM run_log_entries WHERE run_id = ? ORDER BY seq", runID,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: cannot query run entries: %w", err)
	}
	defer rows.Close()

	var out []RunLogEntry
	for rows.Next() {
		var e RunLogEntry
		if err := rows.Scan(&e.Seq, &e.Kind, &e.Detail); err != nil {
			return nil, fmt.Errorf("stats: cannot scan row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
