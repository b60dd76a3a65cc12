package organizations

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// UpsertRequest is the body for POST and PATCH on organizations.
type UpsertRequest struct {
	Name   string `json:"name" binding:"required"`
	Domain string `json:"domain" binding:"required"`
}

// List handles GET /organizations.
func (h *Handler) List(c *gin.Context) {
	orgs, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list organizations")
		return
	}
	response.OK(c, "organizations fetched", gin.H{"organizations": orgs})
}

// Get handles GET /organizations/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.MissingParams(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetActiveByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	response.OK(c, "organization fetched", gin.H{"organization": org})
}

// Create handles POST /organizations.
func (h *Handler) Create(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "name and domain are required")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	domain := strings.TrimSpace(req.Domain)
	if name == "" || domain == "" {
		response.MissingBody(c, "name and domain are required")
		return
	}

	taken, err := h.repo.DomainTaken(c.Request.Context(), uuid.Nil, domain)
	if err != nil {
		response.Internal(c, "failed to check organization")
		return
	}
	if taken {
		response.Duplicate(c, "an organization with this domain already exists")
		return
	}

	org := &models.Organization{Name: name, Domain: domain, IsActive: true}
	if err := h.repo.Create(c.Request.Context(), org); err != nil {
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, "organization created", gin.H{"organization": org})
}

// Update handles PATCH /organizations/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.MissingParams(c, "invalid organization id")
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "name and domain are required")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	domain := strings.TrimSpace(req.Domain)

	taken, err := h.repo.DomainTaken(c.Request.Context(), id, domain)
	if err != nil {
		response.Internal(c, "failed to check organization")
		return
	}
	if taken {
		response.Duplicate(c, "an organization with this domain already exists")
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, name, domain); err != nil {
		response.NotFound(c, "organization not found")
		return
	}
	response.OK(c, "organization updated", nil)
}

// Delete handles DELETE /organizations/:id. Soft delete: flips is_active.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.MissingParams(c, "invalid organization id")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete organization")
		return
	}
	response.OK(c, "organization deleted", nil)
}
