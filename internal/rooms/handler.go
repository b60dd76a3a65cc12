package rooms

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meetbook/backend/internal/bookings"
	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/response"
	"github.com/meetbook/backend/pkg/timeutil"
)

// Handler handles room HTTP endpoints.
type Handler struct {
	repo        *Repository
	bookingRepo *bookings.Repository
}

// NewHandler creates a rooms handler.
func NewHandler(repo *Repository, bookingRepo *bookings.Repository) *Handler {
	return &Handler{repo: repo, bookingRepo: bookingRepo}
}

// UpsertRequest is the body for POST and PATCH on rooms.
type UpsertRequest struct {
	Title    string `json:"title" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
}

func locationParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("locationId"))
	if err != nil {
		response.MissingParams(c, "invalid location id")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /rooms/:locationId. Each room carries the derived
// is_available flag.
func (h *Handler) List(c *gin.Context) {
	locationID, ok := locationParam(c)
	if !ok {
		return
	}
	list, err := h.repo.ListActiveByLocation(c.Request.Context(), locationID, time.Now())
	if err != nil {
		response.Internal(c, "failed to list rooms")
		return
	}
	response.OK(c, "rooms fetched", gin.H{"rooms": list})
}

// Get handles GET /rooms/:locationId/:roomId. Includes today's remaining
// bookings for the room.
func (h *Handler) Get(c *gin.Context) {
	locationID, ok := locationParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		response.MissingParams(c, "invalid room id")
		return
	}
	room, err := h.repo.GetActive(c.Request.Context(), locationID, id)
	if err != nil {
		response.NotFound(c, "room not found")
		return
	}
	now := timeutil.ToMinute(time.Now())
	upcoming, err := h.bookingRepo.ListUpcomingToday(c.Request.Context(), room.ID, now)
	if err != nil {
		response.Internal(c, "failed to load bookings")
		return
	}
	room.Bookings = upcoming
	room.IsAvailable = !inProgress(upcoming, now)
	response.OK(c, "room fetched", gin.H{"room": room})
}

// Create handles POST /rooms/:locationId.
func (h *Handler) Create(c *gin.Context) {
	locationID, ok := locationParam(c)
	if !ok {
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "title and capacity are required")
		return
	}
	title := strings.ToLower(strings.TrimSpace(req.Title))
	if title == "" {
		response.MissingBody(c, "title and capacity are required")
		return
	}

	taken, err := h.repo.TitleTaken(c.Request.Context(), locationID, uuid.Nil, title)
	if err != nil {
		response.Internal(c, "failed to check room")
		return
	}
	if taken {
		response.Duplicate(c, "a room with this title already exists")
		return
	}

	room := &models.Room{LocationID: locationID, Title: title, Capacity: req.Capacity, IsActive: true, IsAvailable: true}
	if err := h.repo.Create(c.Request.Context(), room); err != nil {
		response.Internal(c, "failed to create room")
		return
	}
	response.Created(c, "room created", gin.H{"room": room})
}

// Update handles PATCH /rooms/:locationId/:roomId.
func (h *Handler) Update(c *gin.Context) {
	locationID, ok := locationParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		response.MissingParams(c, "invalid room id")
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "title and capacity are required")
		return
	}
	title := strings.ToLower(strings.TrimSpace(req.Title))

	taken, err := h.repo.TitleTaken(c.Request.Context(), locationID, id, title)
	if err != nil {
		response.Internal(c, "failed to check room")
		return
	}
	if taken {
		response.Duplicate(c, "a room with this title already exists")
		return
	}

	if err := h.repo.Update(c.Request.Context(), locationID, id, title, req.Capacity); err != nil {
		response.NotFound(c, "room not found")
		return
	}
	response.OK(c, "room updated", nil)
}

// Delete handles DELETE /rooms/:locationId/:roomId. Soft delete.
func (h *Handler) Delete(c *gin.Context) {
	locationID, ok := locationParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		response.MissingParams(c, "invalid room id")
		return
	}
	if err := h.repo.Deactivate(c.Request.Context(), locationID, id); err != nil {
		response.Internal(c, "failed to delete room")
		return
	}
	response.OK(c, "room deleted", nil)
}

func inProgress(list []models.Booking, now time.Time) bool {
	for _, b := range list {
		if !b.FromTime.After(now) && !b.ToTime.Before(now) {
			return true
		}
	}
	return false
}
