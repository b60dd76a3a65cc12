package locations

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/response"
)

// Handler handles location HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a locations handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// UpsertRequest is the body for POST and PATCH on locations.
type UpsertRequest struct {
	Name string `json:"name" binding:"required"`
}

func orgParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		response.MissingParams(c, "invalid organization id")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /locations/:orgId.
func (h *Handler) List(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	list, err := h.repo.ListActiveByOrganization(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to list locations")
		return
	}
	response.OK(c, "locations fetched", gin.H{"locations": list})
}

// Get handles GET /locations/:orgId/:locationId.
func (h *Handler) Get(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("locationId"))
	if err != nil {
		response.MissingParams(c, "invalid location id")
		return
	}
	loc, err := h.repo.GetActive(c.Request.Context(), orgID, id)
	if err != nil {
		response.NotFound(c, "location not found")
		return
	}
	response.OK(c, "location fetched", gin.H{"location": loc})
}

// Create handles POST /locations/:orgId.
func (h *Handler) Create(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "name is required")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		response.MissingBody(c, "name is required")
		return
	}

	taken, err := h.repo.NameTaken(c.Request.Context(), orgID, uuid.Nil, name)
	if err != nil {
		response.Internal(c, "failed to check location")
		return
	}
	if taken {
		response.Duplicate(c, "a location with this name already exists")
		return
	}

	loc := &models.Location{OrganizationID: orgID, Name: name, IsActive: true}
	if err := h.repo.Create(c.Request.Context(), loc); err != nil {
		response.Internal(c, "failed to create location")
		return
	}
	response.Created(c, "location created", gin.H{"location": loc})
}

// Update handles PATCH /locations/:orgId/:locationId.
func (h *Handler) Update(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("locationId"))
	if err != nil {
		response.MissingParams(c, "invalid location id")
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "name is required")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))

	taken, err := h.repo.NameTaken(c.Request.Context(), orgID, id, name)
	if err != nil {
		response.Internal(c, "failed to check location")
		return
	}
	if taken {
		response.Duplicate(c, "a location with this name already exists")
		return
	}

	if err := h.repo.Update(c.Request.Context(), orgID, id, name); err != nil {
		response.NotFound(c, "location not found")
		return
	}
	response.OK(c, "location updated", nil)
}

// Delete handles DELETE /locations/:orgId/:locationId. Soft delete.
func (h *Handler) Delete(c *gin.Context) {
	orgID, ok := orgParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("locationId"))
	if err != nil {
		response.MissingParams(c, "invalid location id")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), orgID, id); err != nil {
		response.Internal(c, "failed to delete location")
		return
	}
	response.OK(c, "location deleted", nil)
}
