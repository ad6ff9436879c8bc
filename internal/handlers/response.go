package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/macro-tracker/internal/middleware"
	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned in the envelope.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeDefaultFoodImmutable = "DEFAULT_FOOD_IMMUTABLE"
	CodeNotFound             = "NOT_FOUND"
	CodeEmailExists          = "EMAIL_ALREADY_EXISTS"
	CodeFoodInUse            = "FOOD_IN_USE"
	CodeInternal             = "INTERNAL_ERROR"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a machine code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

func validationFailed(c *gin.Context, message string) {
	respondError(c, http.StatusUnprocessableEntity, CodeValidation, message)
}

// errorMapper translates service errors into envelope responses.
type errorMapper struct {
	log *zap.Logger
}

func (m errorMapper) fail(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		validationFailed(c, verr.Message)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrWrongPassword):
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailExists):
		respondError(c, http.StatusBadRequest, CodeEmailExists, err.Error())
	case errors.Is(err, services.ErrFoodInUse):
		respondError(c, http.StatusBadRequest, CodeFoodInUse, err.Error())
	case errors.Is(err, services.ErrFoodForbidden),
		errors.Is(err, services.ErrMealForbidden):
		respondError(c, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, services.ErrDefaultFoodImmutable):
		respondError(c, http.StatusForbidden, CodeDefaultFoodImmutable, err.Error())
	case errors.Is(err, services.ErrFoodNotFound),
		errors.Is(err, services.ErrMealNotFound),
		errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		_ = c.Error(err)
		m.log.Error("request failed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		validationFailed(c, bindingMessage(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		validationFailed(c, bindingMessage(err))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		validationFailed(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
	}
	return id, ok
}
