package handler

import (
	"github.com/catalogsync/backend/internal/application/sync"
	"github.com/gin-gonic/gin"
)

// ProviderHandler handles the provider roster endpoints
type ProviderHandler struct {
	BaseHandler
	providerService *sync.ProviderService
	syncService     *sync.SyncService
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(providerService *sync.ProviderService, syncService *sync.SyncService) *ProviderHandler {
	return &ProviderHandler{providerService: providerService, syncService: syncService}
}

// List returns all providers.
// GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.providerService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, providers)
}

// UpdateProviderRequest is the body of PATCH /providers/:key
type UpdateProviderRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// Update toggles a provider's enabled flag.
// PATCH /api/v1/providers/:key
func (h *ProviderHandler) Update(c *gin.Context) {
	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "enabled is required")
		return
	}

	prov, err := h.providerService.SetEnabled(c.Request.Context(), c.Param("key"), *req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prov)
}

// Test probes a provider's feed with the configured credentials.
// POST /api/v1/providers/:key/test
func (h *ProviderHandler) Test(c *gin.Context) {
	result, err := h.syncService.TestProvider(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sync.ToTestResultResponse(result))
}
