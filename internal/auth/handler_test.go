package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meetbook/backend/internal/auth"
	"github.com/meetbook/backend/internal/middleware"
	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/internal/organizations"
	"github.com/meetbook/backend/pkg/database"
	"github.com/meetbook/backend/pkg/response"
)

type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fixture struct {
	db     *gorm.DB
	router *gin.Engine
	jwt    *auth.JWTService
}

func setup(t *testing.T, verifier auth.Verifier) *fixture {
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

	jwtService := auth.NewJWTService("test-secret", 24)
	h := auth.NewHandler(auth.NewRepository(db), organizations.NewRepository(db), verifier, jwtService, nil, zap.NewNop())

	router := gin.New()
	router.POST("/auth/google", h.GoogleLogin)
	api := router.Group("")
	api.Use(middleware.Auth(jwtService, nil))
	api.GET("/auth/me", h.Me)

	return &fixture{db: db, router: router, jwt: jwtService}
}

func (f *fixture) login(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"token": token})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/google", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGoogleLogin(t *testing.T) {
	f := setup(t, &fakeVerifier{identity: &auth.Identity{
		Name: "Jo Smith", Email: "jo@acme.com", Picture: "https://example.com/jo.png",
	}})

	w := f.login(t, "valid-google-token")
	require.Equal(t, http.StatusOK, w.Code)

	// The user was created and linked to the domain's organization.
	var user models.User
	require.NoError(t, f.db.First(&user, "email = ?", "jo@acme.com").Error)
	assert.Equal(t, "Jo Smith", user.Username)
	assert.Equal(t, "member", user.Role)
	assert.False(t, user.LastLogin.IsZero())

	// Session is issued both as a cookie and in the payload.
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, auth.SessionCookie+"=")

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	claims, err := f.jwt.Validate(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "jo@acme.com", claims.Email)
}

func TestGoogleLoginUpsertsExistingUser(t *testing.T) {
	verifier := &fakeVerifier{identity: &auth.Identity{
		Name: "Jo Smith", Email: "jo@acme.com",
	}}
	f := setup(t, verifier)

	require.Equal(t, http.StatusOK, f.login(t, "t1").Code)

	verifier.identity.Name = "Jo S. Renamed"
	require.Equal(t, http.StatusOK, f.login(t, "t2").Code)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var user models.User
	require.NoError(t, f.db.First(&user, "email = ?", "jo@acme.com").Error)
	assert.Equal(t, "Jo S. Renamed", user.Username)
}

func TestGoogleLoginUnknownDomain(t *testing.T) {
	f := setup(t, &fakeVerifier{identity: &auth.Identity{
		Name: "Stranger", Email: "x@unknown.org",
	}})

	w := f.login(t, "valid-but-unroutable")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No session cookie and no user row on a failed login.
	assert.Empty(t, w.Header().Get("Set-Cookie"))
	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGoogleLoginDeletedOrganization(t *testing.T) {
	f := setup(t, &fakeVerifier{identity: &auth.Identity{
		Name: "Jo", Email: "jo@acme.com",
	}})
	require.NoError(t, f.db.Model(&models.Organization{}).
		Where("domain = ?", "acme.com").
		Update("is_active", false).Error)

	w := f.login(t, "token")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoogleLoginVerifierFailure(t *testing.T) {
	f := setup(t, &fakeVerifier{err: assert.AnError})

	w := f.login(t, "bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeUnauthorized, body.Code)
}

func TestGoogleLoginMalformedEmail(t *testing.T) {
	for _, email := range []string{"no-at-sign", "trailing@"} {
		f := setup(t, &fakeVerifier{identity: &auth.Identity{Name: "Jo", Email: email}})
		w := f.login(t, "token")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "email %q", email)
	}
}

func TestGoogleLoginMissingToken(t *testing.T) {
	f := setup(t, &fakeVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	f := setup(t, &fakeVerifier{identity: &auth.Identity{
		Name: "Jo Smith", Email: "jo@acme.com",
	}})
	w := f.login(t, "token")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Data struct {
			User models.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "jo@acme.com", me.Data.User.Email)
}

func TestMeSessionViaCookie(t *testing.T) {
	f := setup(t, &fakeVerifier{identity: &auth.Identity{
		Name: "Jo Smith", Email: "jo@acme.com",
	}})
	w := f.login(t, "token")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMeUnauthorized(t *testing.T) {
	f := setup(t, &fakeVerifier{})

	tests := []struct {
		name   string
		header string
	}{
		{"no credential", ""},
		{"garbage token", "Bearer not.a.token"},
		{"wrong scheme", "Basic abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
