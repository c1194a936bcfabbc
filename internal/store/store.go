// Package store persists resumes, job postings and analysis results as JSON
// documents keyed by ID.
package store

import (
	"context"
	"time"

	"resumeready/internal/types"
)

// Store is the key/value persistence layer behind the HTTP and CLI surfaces.
type Store interface {
	// SaveResume stores r, assigning an ID when r.ID is empty, and returns the ID.
	SaveResume(ctx context.Context, r types.ResumeContent) (string, error)
	GetResume(ctx context.Context, id string) (types.ResumeContent, error)
	DeleteResume(ctx context.Context, id string) error

	SaveJob(ctx context.Context, j types.JobData) (string, error)
	GetJob(ctx context.Context, id string) (types.JobData, error)
	DeleteJob(ctx context.Context, id string) error

	// SaveAnalysis stores payload as JSON under rec.ID.
	SaveAnalysis(ctx context.Context, rec AnalysisRecord, payload any) error
	// GetAnalysis decodes the payload stored under id into out.
	GetAnalysis(ctx context.Context, id string, out any) (AnalysisRecord, error)
	ListAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error)

	Close() error
}

// AnalysisRecord is the indexed metadata of one stored analysis.
type AnalysisRecord struct {
	ID        string    `json:"id" yaml:"id"`
	ResumeID  string    `json:"resumeId,omitempty" yaml:"resumeId,omitempty"`
	JobID     string    `json:"jobId,omitempty" yaml:"jobId,omitempty"`
	Kind      string    `json:"kind" yaml:"kind"`
	Composite int       `json:"composite" yaml:"composite"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}
