package handlers

import (
	"net/http"

	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *services.AuthService
	errs        errorMapper
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, errs: errorMapper{log: log}}
}

// Register handles user registration.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration data"
// @Success 201 {object} models.User
// @Failure 400 {object} Envelope
// @Failure 422 {object} Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, user)
}

// Login handles user login.
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.Session
// @Failure 401 {object} Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, session)
}

// Refresh issues a new token for the authenticated user.
// @Summary Refresh access token
// @Tags auth
// @Security Bearer
// @Produce json
// @Success 200 {object} services.Session
// @Failure 401 {object} Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.authService.Refresh(c.Request.Context(), userID)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, session)
}

// ChangePassword updates the user's password after checking the current one.
// @Summary Change password
// @Tags users
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body services.ChangePasswordRequest true "Passwords"
// @Success 200 {object} Envelope
// @Failure 401 {object} Envelope
// @Router /users/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, messageResponse{Message: "password updated"})
}
