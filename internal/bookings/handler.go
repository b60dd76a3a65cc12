package bookings

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetbook/backend/internal/auth"
	"github.com/meetbook/backend/internal/calendar"
	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/queue"
	"github.com/meetbook/backend/pkg/response"
	"github.com/meetbook/backend/pkg/timeutil"
)

// CreateRequest is the body for POST /bookings/:roomId. Date and times are
// RFC3339 strings; guests is a comma-delimited list of attendee emails.
type CreateRequest struct {
	Summary         string `json:"summary" binding:"required"`
	Description     string `json:"description"`
	Date            string `json:"date" binding:"required"`
	FromTime        string `json:"from_time" binding:"required"`
	ToTime          string `json:"to_time" binding:"required"`
	Guests          string `json:"guests"`
	IsCalendarEvent bool   `json:"is_calendar_event"`
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	repo     *Repository
	cal      calendar.Service
	queue    *queue.Queue
	timezone string
	logger   *zap.Logger
}

// NewHandler creates a bookings handler. cal may be nil when no calendar
// service is configured; calendar-event bookings then fail upfront.
func NewHandler(repo *Repository, cal calendar.Service, q *queue.Queue, timezone string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, cal: cal, queue: q, timezone: timezone, logger: logger}
}

func roomParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		response.MissingParams(c, "invalid room id")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /bookings/:roomId. Returns today's active bookings that
// have not yet ended, ordered by start time.
func (h *Handler) List(c *gin.Context) {
	roomID, ok := roomParam(c)
	if !ok {
		return
	}
	list, err := h.repo.ListUpcomingToday(c.Request.Context(), roomID, time.Now())
	if err != nil {
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, "bookings fetched", gin.H{"bookings": list})
}

// Get handles GET /bookings/:roomId/:bookingId.
func (h *Handler) Get(c *gin.Context) {
	roomID, ok := roomParam(c)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.MissingParams(c, "invalid booking id")
		return
	}
	b, err := h.repo.GetActive(c.Request.Context(), roomID, bookingID)
	if err != nil {
		response.NotFound(c, "booking not found")
		return
	}
	response.OK(c, "booking fetched", gin.H{"booking": b})
}

// Create handles POST /bookings/:roomId.
//
// Order of operations: validate, normalize, overlap pre-check, external
// calendar create, transactional insert (which re-checks the overlap). The
// calendar call precedes the local write so a calendar failure leaves local
// state unchanged; if the local write fails after an event was created, a
// compensating cleanup job deletes the orphaned event.
func (h *Handler) Create(c *gin.Context) {
	roomID, ok := roomParam(c)
	if !ok {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "summary, date, from_time and to_time are required")
		return
	}

	rawDate, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}
	rawFrom, err := time.Parse(time.RFC3339, req.FromTime)
	if err != nil {
		response.BadRequest(c, "invalid from_time")
		return
	}
	rawTo, err := time.Parse(time.RFC3339, req.ToTime)
	if err != nil {
		response.BadRequest(c, "invalid to_time")
		return
	}

	date := timeutil.ToDay(rawDate)
	from := timeutil.ToMinute(rawFrom)
	to := timeutil.ToMinute(rawTo)
	now := timeutil.ToMinute(time.Now())

	if from.Before(now) || to.Before(now) {
		response.BadRequest(c, "from_time and to_time must not be in the past")
		return
	}
	if to.Sub(from) < time.Minute {
		response.BadRequest(c, "booking must be at least one minute long")
		return
	}

	overlap, err := h.repo.HasOverlap(c.Request.Context(), roomID, date, from, to)
	if err != nil {
		response.Internal(c, "failed to check availability")
		return
	}
	if overlap {
		response.Conflict(c, "room is already booked for this time")
		return
	}

	var eventID *string
	if req.IsCalendarEvent {
		if h.cal == nil {
			response.External(c, "calendar service is not configured")
			return
		}
		id, err := h.cal.CreateEvent(c.Request.Context(), calendar.Event{
			Summary:     req.Summary,
			Description: req.Description,
			Start:       from,
			End:         to,
			TimeZone:    h.timezone,
			Attendees:   splitGuests(req.Guests),
		})
		if err != nil {
			h.logger.Warn("calendar event create failed", zap.Error(err))
			response.External(c, "failed to create calendar event")
			return
		}
		eventID = &id
	}

	userID := c.MustGet(auth.ContextUserID).(uuid.UUID)
	b := &models.Booking{
		RoomID:          roomID,
		UserID:          userID,
		EventID:         eventID,
		Summary:         strings.ToLower(strings.TrimSpace(req.Summary)),
		Description:     strings.TrimSpace(req.Description),
		Date:            date,
		FromTime:        from,
		ToTime:          to,
		Guests:          req.Guests,
		IsCalendarEvent: req.IsCalendarEvent,
		IsActive:        true,
	}
	if err := h.repo.CreateIfFree(c.Request.Context(), b); err != nil {
		if eventID != nil {
			h.enqueueCleanup(c, *eventID, roomID, err)
		}
		if errors.Is(err, ErrOverlap) {
			response.Conflict(c, "room is already booked for this time")
			return
		}
		h.logger.Error("booking insert failed", zap.Error(err))
		response.Internal(c, "failed to create booking")
		return
	}
	response.Created(c, "booking created", gin.H{"booking": b})
}

// Cancel handles DELETE /bookings/:roomId/:bookingId. Deletes the calendar
// event first when one exists; a calendar failure aborts the cancellation so
// local and external state never diverge. The local change is a soft delete.
func (h *Handler) Cancel(c *gin.Context) {
	roomID, ok := roomParam(c)
	if !ok {
		return
	}
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.MissingParams(c, "invalid booking id")
		return
	}

	b, err := h.repo.Get(c.Request.Context(), roomID, bookingID)
	if err != nil {
		response.NotFound(c, "booking not found")
		return
	}

	if b.IsActive && b.IsCalendarEvent && b.EventID != nil {
		if h.cal == nil {
			response.External(c, "calendar service is not configured")
			return
		}
		if err := h.cal.DeleteEvent(c.Request.Context(), *b.EventID); err != nil {
			h.logger.Warn("calendar event delete failed", zap.Error(err))
			response.External(c, "failed to delete calendar event")
			return
		}
	}

	if err := h.repo.Deactivate(c.Request.Context(), roomID, bookingID); err != nil {
		response.Internal(c, "failed to cancel booking")
		return
	}
	response.OK(c, "booking cancelled", nil)
}

// enqueueCleanup schedules deletion of a calendar event whose booking write
// failed, so the external calendar reconverges with local state.
func (h *Handler) enqueueCleanup(c *gin.Context, eventID string, roomID uuid.UUID, cause error) {
	if h.queue == nil {
		h.logger.Warn("no cleanup queue; calendar event orphaned",
			zap.String("event_id", eventID), zap.Error(cause))
		return
	}
	err := h.queue.EnqueueCalendarCleanup(c.Request.Context(), queue.CalendarCleanupPayload{
		EventID: eventID,
		RoomID:  roomID,
		Reason:  cause.Error(),
	})
	if err != nil {
		h.logger.Error("enqueue calendar cleanup failed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

func splitGuests(guests string) []string {
	if guests == "" {
		return nil
	}
	var out []string
	for _, g := range strings.Split(guests, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
