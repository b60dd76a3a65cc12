package rooms

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meetbook/backend/internal/bookings"
	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/pkg/database"
	"github.com/meetbook/backend/pkg/response"
	"github.com/meetbook/backend/pkg/timeutil"
)

type fixture struct {
	db         *gorm.DB
	router     *gin.Engine
	locationID uuid.UUID
	userID     uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:?_time_format=sqlite"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	org := &models.Organization{Name: "acme", Domain: "acme.com", IsActive: true}
	require.NoError(t, db.Create(org).Error)
	loc := &models.Location{OrganizationID: org.ID, Name: "hq", IsActive: true}
	require.NoError(t, db.Create(loc).Error)
	user := &models.User{OrganizationID: org.ID, Username: "jo", Email: "jo@acme.com", Role: "member"}
	require.NoError(t, db.Create(user).Error)

	h := NewHandler(NewRepository(db), bookings.NewRepository(db))
	router := gin.New()
	router.GET("/rooms/:locationId", h.List)
	router.POST("/rooms/:locationId", h.Create)
	router.GET("/rooms/:locationId/:roomId", h.Get)
	router.PATCH("/rooms/:locationId/:roomId", h.Update)
	router.DELETE("/rooms/:locationId/:roomId", h.Delete)

	return &fixture{db: db, router: router, locationID: loc.ID, userID: user.ID}
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) seedRoom(t *testing.T, title string) *models.Room {
	t.Helper()
	room := &models.Room{LocationID: f.locationID, Title: title, Capacity: 6, IsActive: true}
	require.NoError(t, f.db.Create(room).Error)
	return room
}

func (f *fixture) seedBooking(t *testing.T, roomID uuid.UUID, from, to time.Time) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Booking{
		RoomID:   roomID,
		UserID:   f.userID,
		Summary:  "seeded",
		Date:     timeutil.ToDay(time.Now()),
		FromTime: from,
		ToTime:   to,
		IsActive: true,
	}).Error)
}

type roomsEnvelope struct {
	Data struct {
		Rooms []models.Room `json:"rooms"`
	} `json:"data"`
}

type roomEnvelope struct {
	Data struct {
		Room models.Room `json:"room"`
	} `json:"data"`
}

func TestCreateRoom(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/rooms/"+f.locationID.String(), gin.H{"title": "  Atlas  ", "capacity": 8})
	require.Equal(t, http.StatusCreated, w.Code)

	var room models.Room
	require.NoError(t, f.db.First(&room, "location_id = ?", f.locationID).Error)
	assert.Equal(t, "atlas", room.Title)
	assert.Equal(t, 8, room.Capacity)
	assert.True(t, room.IsActive)
}

func TestCreateRoomDuplicateTitle(t *testing.T) {
	f := setup(t)
	f.seedRoom(t, "atlas")

	// Titles are compared case-insensitively within the location.
	w := f.do(http.MethodPost, "/rooms/"+f.locationID.String(), gin.H{"title": "ATLAS", "capacity": 4})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeDuplicateEntity, body.Code)
}

func TestCreateRoomValidation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing title", gin.H{"capacity": 4}},
		{"zero capacity", gin.H{"title": "atlas", "capacity": 0}},
		{"negative capacity", gin.H{"title": "atlas", "capacity": -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/rooms/"+f.locationID.String(), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListRoomsAvailability(t *testing.T) {
	f := setup(t)
	busy := f.seedRoom(t, "busy")
	free := f.seedRoom(t, "free")
	upcoming := f.seedRoom(t, "upcoming")

	now := timeutil.ToMinute(time.Now())
	f.seedBooking(t, busy.ID, now.Add(-10*time.Minute), now.Add(20*time.Minute))
	// A booking later today does not make the room unavailable now.
	f.seedBooking(t, upcoming.ID, now.Add(2*time.Hour), now.Add(3*time.Hour))

	w := f.do(http.MethodGet, "/rooms/"+f.locationID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body roomsEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Rooms, 3)

	available := map[uuid.UUID]bool{}
	for _, r := range body.Data.Rooms {
		available[r.ID] = r.IsAvailable
	}
	assert.False(t, available[busy.ID])
	assert.True(t, available[free.ID])
	assert.True(t, available[upcoming.ID])
}

func TestGetRoomIncludesTodaysBookings(t *testing.T) {
	f := setup(t)
	room := f.seedRoom(t, "atlas")

	now := timeutil.ToMinute(time.Now())
	f.seedBooking(t, room.ID, now.Add(time.Hour), now.Add(2*time.Hour))
	f.seedBooking(t, room.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour))

	w := f.do(http.MethodGet, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body roomEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Room.IsAvailable)
	require.Len(t, body.Data.Room.Bookings, 1)
}

func TestGetRoomInProgressBooking(t *testing.T) {
	f := setup(t)
	room := f.seedRoom(t, "atlas")

	now := timeutil.ToMinute(time.Now())
	f.seedBooking(t, room.ID, now.Add(-10*time.Minute), now.Add(20*time.Minute))

	w := f.do(http.MethodGet, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body roomEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Data.Room.IsAvailable)
}

func TestUpdateRoom(t *testing.T) {
	f := setup(t)
	room := f.seedRoom(t, "atlas")

	w := f.do(http.MethodPatch, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), gin.H{"title": "Zeus", "capacity": 12})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Room
	require.NoError(t, f.db.First(&got, "id = ?", room.ID).Error)
	assert.Equal(t, "zeus", got.Title)
	assert.Equal(t, 12, got.Capacity)

	w = f.do(http.MethodPatch, "/rooms/"+f.locationID.String()+"/"+uuid.New().String(), gin.H{"title": "ghost", "capacity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRoomKeepsOwnTitle(t *testing.T) {
	f := setup(t)
	room := f.seedRoom(t, "atlas")

	// Changing only the capacity must not trip the duplicate-title check.
	w := f.do(http.MethodPatch, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), gin.H{"title": "atlas", "capacity": 20})
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Room
	require.NoError(t, f.db.First(&got, "id = ?", room.ID).Error)
	assert.Equal(t, 20, got.Capacity)
	assert.Equal(t, "atlas", got.Title)
}

func TestUpdateRoomToTakenTitle(t *testing.T) {
	f := setup(t)
	f.seedRoom(t, "atlas")
	room := f.seedRoom(t, "zeus")

	w := f.do(http.MethodPatch, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), gin.H{"title": "atlas", "capacity": 6})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteRoom(t *testing.T) {
	f := setup(t)
	room := f.seedRoom(t, "atlas")

	w := f.do(http.MethodDelete, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/rooms/"+f.locationID.String()+"/"+room.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/rooms/"+f.locationID.String(), nil)
	var body roomsEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data.Rooms)

	// The title becomes reusable once the room is gone.
	w = f.do(http.MethodPost, "/rooms/"+f.locationID.String(), gin.H{"title": "atlas", "capacity": 4})
	assert.Equal(t, http.StatusCreated, w.Code)
}
