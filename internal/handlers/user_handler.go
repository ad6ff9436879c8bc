package handlers

import (
	"net/http"

	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the authenticated user's profile and targets.
type UserHandler struct {
	userService *services.UserService
	errs        errorMapper
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, errs: errorMapper{log: log}}
}

// GetMe returns the current user's profile.
// @Summary Get profile
// @Tags users
// @Security Bearer
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// UpdateMe changes the current user's name and/or e-mail.
// @Summary Update profile
// @Tags users
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} Envelope
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// GetTargets returns the daily macro targets.
// @Summary Get daily targets
// @Tags users
// @Security Bearer
// @Produce json
// @Success 200 {object} services.Targets
// @Router /users/me/targets [get]
func (h *UserHandler) GetTargets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	targets, err := h.userService.GetTargets(c.Request.Context(), userID)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, targets)
}

// UpdateTargets changes any subset of the daily targets.
// @Summary Update daily targets
// @Tags users
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body services.UpdateTargetsRequest true "Targets"
// @Success 200 {object} services.Targets
// @Failure 422 {object} Envelope
// @Router /users/me/targets [put]
func (h *UserHandler) UpdateTargets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateTargetsRequest
	if !bindJSON(c, &req) {
		return
	}

	targets, err := h.userService.UpdateTargets(c.Request.Context(), userID, req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, targets)
}
