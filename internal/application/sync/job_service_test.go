package sync

import (
	"context"
	"testing"

	"github.com/catalogsync/backend/internal/domain/catalog"
	"github.com/catalogsync/backend/internal/domain/ledger"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJobService_ListJobs_AllProviders(t *testing.T) {
	jobRepo := new(MockSyncJobRepository)
	providerRepo := new(MockProviderRepository)
	service := NewJobService(jobRepo, providerRepo)
	ctx := context.Background()

	jobs := []ledger.SyncJob{*ledger.NewSyncJob(uuid.New()), *ledger.NewSyncJob(uuid.New())}
	jobRepo.On("ListRecent", ctx, defaultJobListLimit).Return(jobs, nil)

	out, err := service.ListJobs(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	providerRepo.AssertNotCalled(t, "FindByKey", mock.Anything, mock.Anything)
}

func TestJobService_ListJobs_ByProvider(t *testing.T) {
	jobRepo := new(MockSyncJobRepository)
	providerRepo := new(MockProviderRepository)
	service := NewJobService(jobRepo, providerRepo)
	ctx := context.Background()

	prov, err := catalog.NewProvider("nod", "NOD")
	require.NoError(t, err)
	providerRepo.On("FindByKey", ctx, "nod").Return(prov, nil)
	jobRepo.On("ListByProvider", ctx, prov.ID, 10).Return([]ledger.SyncJob{*ledger.NewSyncJob(prov.ID)}, nil)

	out, err := service.ListJobs(ctx, "nod", 10)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestJobService_ListJobs_UnknownProvider(t *testing.T) {
	jobRepo := new(MockSyncJobRepository)
	providerRepo := new(MockProviderRepository)
	service := NewJobService(jobRepo, providerRepo)
	ctx := context.Background()

	providerRepo.On("FindByKey", ctx, "ghost").Return(nil, shared.ErrNotFound)

	_, err := service.ListJobs(ctx, "ghost", 0)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROVIDER_NOT_FOUND", domainErr.Code)
}

func TestJobService_GetJob(t *testing.T) {
	jobRepo := new(MockSyncJobRepository)
	providerRepo := new(MockProviderRepository)
	service := NewJobService(jobRepo, providerRepo)
	ctx := context.Background()

	job := ledger.NewSyncJob(uuid.New())
	job.AppendLog("info", "starting sync")
	require.NoError(t, job.Complete(3, 3))
	jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)

	out, err := service.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, out.ID)
	assert.Equal(t, ledger.JobStatusSuccess.String(), out.Status)
	assert.Len(t, out.Logs, 1)

	jobRepo.On("FindByID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	_, err = service.GetJob(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
