package sync

import (
	"time"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/ledger"
	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/google/uuid"
)

// JobResponse is the API shape of one sync job
type JobResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProviderID    uuid.UUID        `json:"providerId"`
	Status        string           `json:"status"`
	StartedAt     time.Time        `json:"startedAt"`
	EndedAt       *time.Time       `json:"endedAt,omitempty"`
	FetchedCount  int              `json:"fetchedCount"`
	UpsertedCount int              `json:"upsertedCount"`
	ErrorMessage  string           `json:"errorMessage,omitempty"`
	Logs          []ledger.LogLine `json:"logs,omitempty"`
}

// ToJobResponse converts a job entity to its API shape
func ToJobResponse(job *ledger.SyncJob) *JobResponse {
	return &JobResponse{
		ID:            job.ID,
		ProviderID:    job.ProviderID,
		Status:        job.Status.String(),
		StartedAt:     job.StartedAt,
		EndedAt:       job.EndedAt,
		FetchedCount:  job.FetchedCount,
		UpsertedCount: job.UpsertedCount,
		ErrorMessage:  job.ErrorMessage,
		Logs:          job.Logs,
	}
}

// JobSummaryResponse is the list shape of a sync job, without logs
type JobSummaryResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProviderID    uuid.UUID  `json:"providerId"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	FetchedCount  int        `json:"fetchedCount"`
	UpsertedCount int        `json:"upsertedCount"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
}

// ToJobSummaryResponse converts a job entity to its list shape
func ToJobSummaryResponse(job *ledger.SyncJob) JobSummaryResponse {
	return JobSummaryResponse{
		ID:            job.ID,
		ProviderID:    job.ProviderID,
		Status:        job.Status.String(),
		StartedAt:     job.StartedAt,
		EndedAt:       job.EndedAt,
		FetchedCount:  job.FetchedCount,
		UpsertedCount: job.UpsertedCount,
		ErrorMessage:  job.ErrorMessage,
	}
}

// ProviderResponse is the API shape of one provider
type ProviderResponse struct {
	ID           uuid.UUID `json:"id"`
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Enabled      bool      `json:"enabled"`
	ProductCount int64     `json:"productCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToProviderResponse converts a provider entity to its API shape
func ToProviderResponse(p *catalog.Provider, productCount int64) ProviderResponse {
	return ProviderResponse{
		ID:           p.ID,
		Key:          p.Key,
		Name:         p.Name,
		Description:  p.Description,
		Enabled:      p.Enabled,
		ProductCount: productCount,
		UpdatedAt:    p.UpdatedAt,
	}
}

// TestResultResponse is the API shape of a connectivity probe
type TestResultResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LatencyMs int64  `json:"latencyMs"`
}

// ToTestResultResponse converts an adapter probe result to its API shape
func ToTestResultResponse(r provider.TestResult) TestResultResponse {
	return TestResultResponse{
		Success:   r.Success,
		Message:   r.Message,
		LatencyMs: r.LatencyMs,
	}
}
