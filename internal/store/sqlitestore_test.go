package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"resumeready/internal/errors"
	"resumeready/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestResumeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	resume := types.ResumeContent{
		Name:   "Ada Lovelace",
		Skills: []string{"Go"},
		Experience: []types.Experience{{
			Title: "Engineer", Company: "Acme", Bullets: []string{"Shipped billing"},
		}},
	}
	id, err := s.SaveResume(ctx, resume)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetResume(ctx, id)
	require.NoError(t, err)
	resume.ID = id
	assert.Equal(t, resume, got)

	got.Name = "Ada King"
	sameID, err := s.SaveResume(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, id, sameID)

	updated, err := s.GetResume(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.Name)

	require.NoError(t, s.DeleteResume(ctx, id))
	_, err = s.GetResume(ctx, id)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.True(t, errors.HasCode(s.DeleteResume(ctx, id), errors.ErrCodeNotFound))
}

func TestJobRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := types.JobData{ID: "job-1", Title: "Staff Engineer", Company: "Globex", Requirements: []string{"Go"}}
	id, err := s.SaveJob(ctx, job)
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)

	got, err := s.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, job, got)

	_, err = s.GetJob(ctx, "missing")
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "missing", appErr.Context["id"])

	require.NoError(t, s.DeleteJob(ctx, id))
}

type payload struct {
	Composite int      `json:"composite"`
	Notes     []string `json:"notes"`
}

func TestAnalyses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a1", "a2", "a3"} {
		rec := AnalysisRecord{
			ID:        id,
			ResumeID:  "r1",
			Kind:      "plan",
			Composite: 50 + i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.SaveAnalysis(ctx, rec, payload{Composite: rec.Composite, Notes: []string{id}}))
	}

	var p payload
	rec, err := s.GetAnalysis(ctx, "a2", &p)
	require.NoError(t, err)
	assert.Equal(t, 51, rec.Composite)
	assert.Equal(t, "r1", rec.ResumeID)
	assert.True(t, rec.CreatedAt.Equal(base.Add(time.Minute)))
	assert.Equal(t, payload{Composite: 51, Notes: []string{"a2"}}, p)

	_, err = s.GetAnalysis(ctx, "a1", nil)
	assert.NoError(t, err)

	list, err := s.ListAnalyses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a3", list[0].ID)
	assert.Equal(t, "a2", list[1].ID)

	all, err := s.ListAnalyses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.GetAnalysis(ctx, "nope", &p)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	err = s.SaveAnalysis(ctx, AnalysisRecord{}, p)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
}

func TestSaveAnalysisDefaultsCreatedAt(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.SaveAnalysis(context.Background(), AnalysisRecord{ID: "x", Kind: "analysis"}, map[string]int{"a": 1}))

	rec, err := s.GetAnalysis(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.True(t, rec.CreatedAt.Equal(fixed))
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resumeready.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveJob(ctx, types.JobData{Title: "SRE"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	job, err := reopened.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SRE", job.Title)
}
