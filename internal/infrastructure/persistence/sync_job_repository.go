package persistence

import (
	"context"
	"errors"

	"github.com/catalogsync/backend/internal/domain/ledger"
	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSyncJobRepository implements SyncJobRepository using GORM
type GormSyncJobRepository struct {
	db *gorm.DB
}

// NewGormSyncJobRepository creates a new GormSyncJobRepository
func NewGormSyncJobRepository(db *gorm.DB) *GormSyncJobRepository {
	return &GormSyncJobRepository{db: db}
}

// Create inserts a new job row
func (r *GormSyncJobRepository) Create(ctx context.Context, job *ledger.SyncJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Update persists the job's current state
func (r *GormSyncJobRepository) Update(ctx context.Context, job *ledger.SyncJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// FindByID finds a job by its ID
func (r *GormSyncJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SyncJob, error) {
	var job ledger.SyncJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindLastSuccess returns the most recent SUCCESS job for a provider by end time
func (r *GormSyncJobRepository) FindLastSuccess(ctx context.Context, providerID uuid.UUID) (*ledger.SyncJob, error) {
	var job ledger.SyncJob
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ?", providerID, ledger.JobStatusSuccess).
		Order("ended_at DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListByProvider returns a provider's jobs, newest first
func (r *GormSyncJobRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]ledger.SyncJob, error) {
	var jobs []ledger.SyncJob
	query := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListRecent returns the most recent jobs across all providers
func (r *GormSyncJobRepository) ListRecent(ctx context.Context, limit int) ([]ledger.SyncJob, error) {
	var jobs []ledger.SyncJob
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Ensure GormSyncJobRepository implements SyncJobRepository
var _ ledger.SyncJobRepository = (*GormSyncJobRepository)(nil)
