package auth

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetbook/backend/internal/models"
	"github.com/meetbook/backend/internal/organizations"
	"github.com/meetbook/backend/pkg/response"
)

// Gin context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextOrgID     = "organization_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
	ContextClaims    = "session_claims"
)

// SessionCookie is the cookie carrying the session credential.
const SessionCookie = "session_token"

// GoogleLoginRequest is the body for POST /auth/google.
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	users    *Repository
	orgs     *organizations.Repository
	verifier Verifier
	jwt      *JWTService
	sessions *Sessions
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(users *Repository, orgs *organizations.Repository, verifier Verifier, jwt *JWTService, sessions *Sessions, logger *zap.Logger) *Handler {
	return &Handler{users: users, orgs: orgs, verifier: verifier, jwt: jwt, sessions: sessions, logger: logger}
}

// GoogleLogin handles POST /auth/google. Verifies the Google ID token, maps
// the email domain to an active organization, upserts the user and issues a
// session credential as both a cookie and a bearer token.
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.MissingBody(c, "token is required")
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		h.logger.Warn("identity verification failed", zap.Error(err))
		response.Unauthorized(c, "identity verification failed")
		return
	}

	at := strings.LastIndex(identity.Email, "@")
	if at < 0 || at == len(identity.Email)-1 {
		response.Unauthorized(c, "identity email is malformed")
		return
	}
	domain := identity.Email[at+1:]

	org, err := h.orgs.GetActiveByDomain(c.Request.Context(), domain)
	if err != nil {
		response.NotFound(c, "no organization registered for this email domain")
		return
	}

	user, err := h.users.UpsertByEmail(c.Request.Context(), &models.User{
		OrganizationID: org.ID,
		Username:       identity.Name,
		Email:          identity.Email,
		Picture:        identity.Picture,
		Role:           "member",
		LastLogin:      time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("user upsert failed", zap.Error(err))
		response.Internal(c, "failed to save user")
		return
	}

	token, err := h.jwt.Generate(user.ID, org.ID, user.Email, user.Role)
	if err != nil {
		response.Internal(c, "failed to issue session")
		return
	}

	c.SetCookie(SessionCookie, token, int(h.jwt.TTL().Seconds()), "/", "", true, true)
	response.OK(c, "login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"picture":    user.Picture,
			"role":       user.Role,
			"last_login": user.LastLogin,
			"organization": gin.H{
				"id":     org.ID,
				"name":   org.Name,
				"domain": org.Domain,
			},
		},
	})
}

// Logout handles POST /auth/logout. Revokes the current session credential
// until its natural expiry and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	claimsVal, ok := c.Get(ContextClaims)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}
	claims := claimsVal.(*Claims)

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.sessions.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		h.logger.Error("session revoke failed", zap.Error(err))
		response.Internal(c, "failed to revoke session")
		return
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", true, true)
	response.OK(c, "logout successful", nil)
}

// Me handles GET /auth/me. Returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(uuid.UUID)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, "user fetched", gin.H{"user": user})
}
