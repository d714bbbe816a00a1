package handler

import (
	"strconv"

	"github.com/catalogsync/backend/internal/application/sync"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SyncHandler handles sync trigger and job ledger endpoints
type SyncHandler struct {
	BaseHandler
	syncService *sync.SyncService
	jobService  *sync.JobService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *sync.SyncService, jobService *sync.JobService) *SyncHandler {
	return &SyncHandler{syncService: syncService, jobService: jobService}
}

// RunSyncRequest is the body of POST /sync
type RunSyncRequest struct {
	ProviderKey string `json:"providerKey" binding:"required"`
}

// RunSync triggers one synchronous sync job.
// POST /api/v1/sync
func (h *SyncHandler) RunSync(c *gin.Context) {
	var req RunSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "providerKey is required")
		return
	}

	jobID, err := h.syncService.RunSync(c.Request.Context(), req.ProviderKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"jobId": jobID})
}

// RunSyncAll triggers one job per enabled provider.
// POST /api/v1/sync/all
func (h *SyncHandler) RunSyncAll(c *gin.Context) {
	jobIDs, err := h.syncService.RunSyncAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if jobIDs == nil {
		jobIDs = []uuid.UUID{}
	}
	h.Created(c, gin.H{"jobIds": jobIDs})
}

// ListJobs returns job summaries, optionally filtered by provider.
// GET /api/v1/sync/jobs?provider=&limit=
func (h *SyncHandler) ListJobs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), c.Query("provider"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jobs)
}

// GetJob returns one job with its full log.
// GET /api/v1/sync/jobs/:id
func (h *SyncHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid job id")
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}
