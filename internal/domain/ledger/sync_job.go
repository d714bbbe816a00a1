package ledger

import (
	"time"

	"github.com/catalogsync/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a sync job
type JobStatus string

const (
	// JobStatusPending indicates the job row exists but has not started
	JobStatusPending JobStatus = "PENDING"
	// JobStatusRunning indicates the sync is in progress
	JobStatusRunning JobStatus = "RUNNING"
	// JobStatusSuccess indicates the sync completed normally
	JobStatusSuccess JobStatus = "SUCCESS"
	// JobStatusPartial indicates the sync completed with tolerated item failures.
	// Reserved: the current orchestrator absorbs secondary failures silently
	// and never produces it.
	JobStatusPartial JobStatus = "PARTIAL"
	// JobStatusFailed indicates the sync aborted
	JobStatusFailed JobStatus = "FAILED"
)

// IsValid returns true if the status is a known job status
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusSuccess, JobStatusPartial, JobStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a final state
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSuccess, JobStatusPartial, JobStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// LogLine is one timestamped entry of a job's structured log
type LogLine struct {
	At      time.Time `json:"ts"`
	Level   string    `json:"level"`
	Message string    `json:"msg"`
}

// SyncJob is the ledger record of one sync attempt for one provider.
// It is append-only while running and mutated exactly once afterwards to
// reach a terminal state; it is never re-opened.
type SyncJob struct {
	shared.BaseEntity
	ProviderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status        JobStatus  `gorm:"type:varchar(20);not null;index"`
	StartedAt     time.Time  `gorm:"not null"`
	EndedAt       *time.Time `gorm:"index"`
	FetchedCount  int        `gorm:"not null;default:0"`
	UpsertedCount int        `gorm:"not null;default:0"`
	ErrorMessage  string     `gorm:"type:text"`
	Logs          []LogLine  `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (SyncJob) TableName() string {
	return "sync_jobs"
}

// NewSyncJob creates a job in the RUNNING state, started now
func NewSyncJob(providerID uuid.UUID) *SyncJob {
	return &SyncJob{
		BaseEntity: shared.NewBaseEntity(),
		ProviderID: providerID,
		Status:     JobStatusRunning,
		StartedAt:  time.Now(),
		Logs:       make([]LogLine, 0),
	}
}

// AppendLog records one structured log line on the job
func (j *SyncJob) AppendLog(level, message string) {
	j.Logs = append(j.Logs, LogLine{At: time.Now(), Level: level, Message: message})
}

// Complete moves the job to SUCCESS with final counters
func (j *SyncJob) Complete(fetched, upserted int) error {
	return j.finish(JobStatusSuccess, fetched, upserted, "")
}

// Fail moves the job to FAILED with the captured error message. Counters
// reflect whatever progress was committed before the failure.
func (j *SyncJob) Fail(fetched, upserted int, errorMessage string) error {
	return j.finish(JobStatusFailed, fetched, upserted, errorMessage)
}

func (j *SyncJob) finish(status JobStatus, fetched, upserted int, errorMessage string) error {
	if j.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	now := time.Now()
	j.Status = status
	j.EndedAt = &now
	j.FetchedCount = fetched
	j.UpsertedCount = upserted
	j.ErrorMessage = errorMessage
	j.Touch()
	return nil
}
