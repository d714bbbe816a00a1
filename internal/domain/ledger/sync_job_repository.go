package ledger

import (
	"context"

	"github.com/google/uuid"
)

// SyncJobRepository defines the persistence port for the job ledger
type SyncJobRepository interface {
	// Create inserts a new job row
	Create(ctx context.Context, job *SyncJob) error

	// Update persists the job's terminal fields. The orchestrator calls this
	// exactly once per job, after the run ends.
	Update(ctx context.Context, job *SyncJob) error

	// FindByID finds a job by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SyncJob, error)

	// FindLastSuccess returns the most recent SUCCESS job for a provider,
	// by end time, or shared.ErrNotFound when the provider has none
	FindLastSuccess(ctx context.Context, providerID uuid.UUID) (*SyncJob, error)

	// ListByProvider returns a provider's jobs, newest first
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]SyncJob, error)

	// ListRecent returns the most recent jobs across all providers
	ListRecent(ctx context.Context, limit int) ([]SyncJob, error)
}
