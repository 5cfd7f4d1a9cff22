// Package snapshot persists detection runs in SQLite so prior results can be
// listed and reused without re-running detection.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"chapterize/internal/chapters"
)

// Run is one persisted detection result.
type Run struct {
	ID              string
	SourcePath      string
	DurationSeconds float64
	Method          string
	Language        string
	CreatedAt       time.Time
	Chapters        chapters.List
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the snapshot database and applies the
// schema.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("snapshot: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: ensure directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("snapshot: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS detection_runs (
            id TEXT PRIMARY KEY,
            source_path TEXT NOT NULL,
            duration_seconds REAL NOT NULL,
            method TEXT NOT NULL,
            language TEXT NOT NULL,
            created_at TEXT NOT NULL,
            chapters_json TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_runs_source ON detection_runs (source_path, created_at);
    `)
	if err != nil {
		return fmt.Errorf("snapshot: apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns where the database lives on disk.
func (s *Store) Path() string {
	return s.path
}

// SaveRun persists a detection result and returns its generated run ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	payload, err := chapters.EncodeSnapshot(run.Chapters)
	if err != nil {
		return "", fmt.Errorf("snapshot: encode chapters: %w", err)
	}

	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO detection_runs (
            id, source_path, duration_seconds, method, language, created_at, chapters_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		run.SourcePath,
		run.DurationSeconds,
		run.Method,
		run.Language,
		createdAt.Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("snapshot: insert run: %w", err)
	}
	return id, nil
}

const runColumns = "id, source_path, duration_seconds, method, language, created_at, chapters_json"

// LatestForSource returns the most recent run for a source path, or nil when
// none exists.
func (s *Store) LatestForSource(ctx context.Context, sourcePath string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM detection_runs WHERE source_path = ? ORDER BY created_at DESC LIMIT 1`,
		sourcePath,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: latest for source: %w", err)
	}
	return run, nil
}

// GetRun fetches one run by ID, or nil when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM detection_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs ordered newest first, bounded by limit (0 = all).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM detection_runs ORDER BY created_at DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Remove deletes one run by ID.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM detection_runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("snapshot: delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("snapshot: rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every stored run.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM detection_runs`)
	if err != nil {
		return 0, fmt.Errorf("snapshot: clear runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
		payload    string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourcePath,
		&run.DurationSeconds,
		&run.Method,
		&run.Language,
		&createdRaw,
		&payload,
	); err != nil {
		return nil, err
	}

	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	list, err := chapters.DecodeSnapshot([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode chapters: %w", err)
	}
	run.Chapters = list
	return &run, nil
}
