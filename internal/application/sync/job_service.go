package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/ledger"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const defaultJobListLimit = 50

// JobService exposes read access to the job ledger
type JobService struct {
	jobRepo      ledger.SyncJobRepository
	providerRepo catalog.ProviderRepository
}

// NewJobService creates a new JobService
func NewJobService(jobRepo ledger.SyncJobRepository, providerRepo catalog.ProviderRepository) *JobService {
	return &JobService{jobRepo: jobRepo, providerRepo: providerRepo}
}

// ListJobs returns job summaries, newest first, optionally filtered to
// one provider key
func (s *JobService) ListJobs(ctx context.Context, providerKey string, limit int) ([]JobSummaryResponse, error) {
	if limit <= 0 {
		limit = defaultJobListLimit
	}

	var jobs []ledger.SyncJob
	var err error
	if providerKey != "" {
		prov, findErr := s.providerRepo.FindByKey(ctx, providerKey)
		if findErr != nil {
			if errors.Is(findErr, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PROVIDER_NOT_FOUND", fmt.Sprintf("provider %q not found", providerKey))
			}
			return nil, findErr
		}
		jobs, err = s.jobRepo.ListByProvider(ctx, prov.ID, limit)
	} else {
		jobs, err = s.jobRepo.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]JobSummaryResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, ToJobSummaryResponse(&jobs[i]))
	}
	return out, nil
}

// GetJob returns one job with its full structured log
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToJobResponse(job), nil
}
