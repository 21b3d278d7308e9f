// Package sqlite provides the SQLite-backed learned-answer store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.LearnedAnswerStore = (*Store)(nil)

// Store persists learned answers in SQLite, keyed by the normalised
// question.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store in dataDir. If dataDir is empty it
// defaults to ~/.recall/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "learned.db")

	// WAL mode for better concurrency between CLI invocations.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate applies pending .up.sql files in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Lookup finds a record by normalised question and atomically bumps its
// access count.
func (s *Store) Lookup(ctx context.Context, question string) (*domain.LearnedAnswer, error) {
	key := domain.NormalizeQuestion(question)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE learned_answers
		SET access_count = access_count + 1, last_accessed = ?
		WHERE question_norm = ?
	`, now, key)
	if err != nil {
		return nil, fmt.Errorf("updating access count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	rec, err := scanAnswer(tx.QueryRowContext(ctx, `
		SELECT question, answer, confidence, source, source_query,
		       created_at, last_accessed, access_count
		FROM learned_answers
		WHERE question_norm = ?
	`, key))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return rec, nil
}

// Save upserts a record. New records start with an access count of 1;
// a conflict on the normalised question overwrites the answer fields
// but preserves the accumulated access count and original creation
// time.
func (s *Store) Save(ctx context.Context, rec domain.LearnedAnswer) error {
	key := domain.NormalizeQuestion(rec.Question)
	if key == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	lastAccessed := rec.LastAccessed
	if lastAccessed.IsZero() {
		lastAccessed = createdAt
	}

	// A freshly learned answer counts its own creation as one access.
	accessCount := rec.AccessCount
	if accessCount <= 0 {
		accessCount = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learned_answers
			(question_norm, question, answer, confidence, source, source_query,
			 created_at, last_accessed, access_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(question_norm) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			confidence = excluded.confidence,
			source = excluded.source,
			source_query = excluded.source_query,
			last_accessed = excluded.last_accessed
	`, key, rec.Question, rec.Answer, rec.Confidence, string(rec.Source), rec.SourceQuery,
		createdAt, lastAccessed, accessCount)
	if err != nil {
		return fmt.Errorf("saving learned answer: %w", err)
	}
	return nil
}

// List returns records ordered newest first, up to limit. A
// non-positive limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]domain.LearnedAnswer, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, confidence, source, source_query,
		       created_at, last_accessed, access_count
		FROM learned_answers
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing learned answers: %w", err)
	}
	defer rows.Close()

	var out []domain.LearnedAnswer
	for rows.Next() {
		var rec domain.LearnedAnswer
		var source string
		if err := rows.Scan(&rec.Question, &rec.Answer, &rec.Confidence, &source,
			&rec.SourceQuery, &rec.CreatedAt, &rec.LastAccessed, &rec.AccessCount); err != nil {
			return nil, fmt.Errorf("scanning learned answer: %w", err)
		}
		rec.Source = domain.AnswerSource(source)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating learned answers: %w", err)
	}
	return out, nil
}

// Forget removes the record for the normalised question.
func (s *Store) Forget(ctx context.Context, question string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM learned_answers WHERE question_norm = ?",
		domain.NormalizeQuestion(question))
	if err != nil {
		return false, fmt.Errorf("deleting learned answer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete: %w", err)
	}
	return affected > 0, nil
}

// Stats reports cache totals.
func (s *Store) Stats(ctx context.Context) (domain.LearnedStats, error) {
	var stats domain.LearnedStats
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(confidence), 0) FROM learned_answers")
	if err := row.Scan(&stats.Total, &stats.AvgConfidence); err != nil {
		return domain.LearnedStats{}, fmt.Errorf("reading stats: %w", err)
	}
	return stats, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowScanner abstracts *sql.Row for scanAnswer.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row rowScanner) (*domain.LearnedAnswer, error) {
	var rec domain.LearnedAnswer
	var source string
	err := row.Scan(&rec.Question, &rec.Answer, &rec.Confidence, &source,
		&rec.SourceQuery, &rec.CreatedAt, &rec.LastAccessed, &rec.AccessCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning learned answer: %w", err)
	}
	rec.Source = domain.AnswerSource(source)
	return &rec, nil
}
