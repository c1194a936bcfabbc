package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"resumeready/internal/errors"
	"resumeready/internal/types"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore provides SQLite-based persistence
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	if dbPath == MemoryPath {
		dsn = MemoryPath
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to open database", err)
	}

	if dbPath == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to connect to database", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to initialize schema", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS resumes (
		id TEXT PRIMARY KEY,
		name TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT,
		company TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		resume_id TEXT,
		job_id TEXT,
		kind TEXT NOT NULL,
		composite INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_resume_id ON analyses(resume_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveResume saves a resume, keeping its original creation time on update.
func (s *SQLiteStore) SaveResume(ctx context.Context, r types.ResumeContent) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeStoreFailed, "failed to marshal resume", err)
	}

	now := s.now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resumes (id, name, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at, data = excluded.data
	`, r.ID, r.Name, now, now, string(data))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeStoreFailed, "failed to save resume", err)
	}
	return r.ID, nil
}

// GetResume retrieves a resume by ID
func (s *SQLiteStore) GetResume(ctx context.Context, id string) (types.ResumeContent, error) {
	var r types.ResumeContent
	err := s.getDocument(ctx, `SELECT data FROM resumes WHERE id = ?`, "resume", id, &r)
	return r, err
}

// DeleteResume deletes a resume
func (s *SQLiteStore) DeleteResume(ctx context.Context, id string) error {
	return s.delete(ctx, `DELETE FROM resumes WHERE id = ?`, "resume", id)
}

// SaveJob saves a job posting, keeping its original creation time on update.
func (s *SQLiteStore) SaveJob(ctx context.Context, j types.JobData) (string, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	data, err := json.Marshal(j)
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeStoreFailed, "failed to marshal job", err)
	}

	now := s.now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, company, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, company = excluded.company,
			updated_at = excluded.updated_at, data = excluded.data
	`, j.ID, j.Title, j.Company, now, now, string(data))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeStoreFailed, "failed to save job", err)
	}
	return j.ID, nil
}

// GetJob retrieves a job posting by ID
func (s *SQLiteStore) GetJob(ctx context.Context, id string) (types.JobData, error) {
	var j types.JobData
	err := s.getDocument(ctx, `SELECT data FROM jobs WHERE id = ?`, "job", id, &j)
	return j, err
}

// DeleteJob deletes a job posting
func (s *SQLiteStore) DeleteJob(ctx context.Context, id string) error {
	return s.delete(ctx, `DELETE FROM jobs WHERE id = ?`, "job", id)
}

// SaveAnalysis stores payload under rec.ID, replacing any previous record.
// A zero CreatedAt is set to the current time.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, rec AnalysisRecord, payload any) error {
	if rec.ID == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "analysis record has no ID", nil)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, "failed to marshal analysis", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses (id, resume_id, job_id, kind, composite, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ResumeID, rec.JobID, rec.Kind, rec.Composite, rec.CreatedAt.UnixMilli(), string(data))
	if err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "failed to save analysis", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis record and decodes its payload into out.
// A nil out skips decoding.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string, out any) (AnalysisRecord, error) {
	var (
		rec       AnalysisRecord
		createdAt int64
		data      string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, resume_id, job_id, kind, composite, created_at, data FROM analyses WHERE id = ?
	`, id).Scan(&rec.ID, &rec.ResumeID, &rec.JobID, &rec.Kind, &rec.Composite, &createdAt, &data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return rec, notFound("analysis", id)
	}
	if err != nil {
		return rec, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to get analysis", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt)

	if out != nil {
		if err := json.Unmarshal([]byte(data), out); err != nil {
			return rec, errors.NewInternalError(errors.ErrCodeStoreFailed, "failed to unmarshal analysis", err)
		}
	}
	return rec, nil
}

// ListAnalyses lists the most recent analyses first. A non-positive limit
// returns every record.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resume_id, job_id, kind, composite, created_at FROM analyses
		ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to list analyses", err)
	}
	defer rows.Close()

	records := make([]AnalysisRecord, 0)
	for rows.Next() {
		var (
			rec       AnalysisRecord
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.ResumeID, &rec.JobID, &rec.Kind, &rec.Composite, &createdAt); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to scan analysis", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to list analyses", err)
	}
	return records, nil
}

func (s *SQLiteStore) getDocument(ctx context.Context, query, kind, id string, out any) error {
	var data string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return notFound(kind, id)
	}
	if err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, fmt.Sprintf("failed to get %s", kind), err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return errors.NewInternalError(errors.ErrCodeStoreFailed, fmt.Sprintf("failed to unmarshal %s", kind), err)
	}
	return nil
}

func (s *SQLiteStore) delete(ctx context.Context, query, kind, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, fmt.Sprintf("failed to delete %s", kind), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(kind, id)
	}
	return nil
}

func notFound(kind, id string) *errors.AppError {
	return errors.NewValidationError(errors.ErrCodeNotFound, fmt.Sprintf("%s not found: %s", kind, id), nil).
		WithContext("id", id)
}
