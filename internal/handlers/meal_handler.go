package handlers

import (
	"net/http"
	"time"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/nutrition"
	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MealHandler handles meal record endpoints.
type MealHandler struct {
	mealService *services.MealService
	errs        errorMapper
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(mealService *services.MealService, log *zap.Logger) *MealHandler {
	return &MealHandler{mealService: mealService, errs: errorMapper{log: log}}
}

// MealFood is the food reference embedded in a meal item. Serving size and
// per-serving nutrients are only filled in the detail view.
type MealFood struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	ServingUnit models.ServingUnit `json:"serving_unit"`
	ServingSize *float64           `json:"serving_size,omitempty"`
	*nutrition.Nutrients
}

// MealItemResponse is one line of a meal with its snapshot nutrients.
type MealItemResponse struct {
	ID       uint     `json:"id"`
	Food     MealFood `json:"food"`
	Quantity float64  `json:"quantity"`
	nutrition.Nutrients
}

// MealResponse is a meal record with its items and totals.
type MealResponse struct {
	ID         uint                `json:"id"`
	RecordDate string              `json:"record_date"`
	MealType   models.MealType     `json:"meal_type"`
	Memo       *string             `json:"memo"`
	Items      []MealItemResponse  `json:"items"`
	Totals     nutrition.Nutrients `json:"totals"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func newMealResponse(m *models.MealRecord, detail bool) MealResponse {
	resp := MealResponse{
		ID:         m.ID,
		RecordDate: nutrition.FormatDate(m.RecordDate),
		MealType:   m.MealType,
		Items:      make([]MealItemResponse, len(m.Items)),
		Totals:     m.Totals(),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Memo != "" {
		memo := m.Memo
		resp.Memo = &memo
	}
	for i, item := range m.Items {
		resp.Items[i] = MealItemResponse{
			ID:        item.ID,
			Food:      newMealFood(item, detail),
			Quantity:  item.Quantity,
			Nutrients: item.Nutrients,
		}
	}
	return resp
}

func newMealFood(item models.MealItem, detail bool) MealFood {
	mf := MealFood{ID: item.FoodID}
	if item.Food == nil {
		return mf
	}
	mf.Name = item.Food.Name
	mf.ServingUnit = item.Food.ServingUnit
	if detail {
		size := item.Food.ServingSize
		perServing := item.Food.Nutrients
		mf.ServingSize = &size
		mf.Nutrients = &perServing
	}
	return mf
}

// List returns the user's meal records.
// @Summary List meals
// @Tags meals
// @Security Bearer
// @Produce json
// @Param date query string false "Exact day (YYYY-MM-DD)"
// @Param start_date query string false "Range start (inclusive)"
// @Param end_date query string false "Range end (inclusive)"
// @Param meal_type query string false "breakfast, lunch, dinner or snack"
// @Success 200 {array} MealResponse
// @Router /meals [get]
func (h *MealHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var q services.ListMealsQuery
	if !bindQuery(c, &q) {
		return
	}

	meals, err := h.mealService.List(c.Request.Context(), userID, q)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	resp := make([]MealResponse, len(meals))
	for i := range meals {
		resp[i] = newMealResponse(&meals[i], false)
	}
	respond(c, http.StatusOK, resp)
}

// Create records a meal with its items.
// @Summary Create a meal record
// @Tags meals
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body services.CreateMealRequest true "Meal data"
// @Success 201 {object} MealResponse
// @Failure 422 {object} Envelope
// @Router /meals [post]
func (h *MealHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, newMealResponse(meal, false))
}

// Get returns one meal with full food details.
// @Summary Get meal by ID
// @Tags meals
// @Security Bearer
// @Produce json
// @Param id path int true "Meal ID"
// @Success 200 {object} MealResponse
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /meals/{id} [get]
func (h *MealHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	meal, err := h.mealService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, newMealResponse(meal, true))
}

// Update changes scalar fields and, when items are sent, replaces them all.
// @Summary Update a meal record
// @Tags meals
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "Meal ID"
// @Param request body services.UpdateMealRequest true "Fields to change"
// @Success 200 {object} MealResponse
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /meals/{id} [put]
func (h *MealHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, newMealResponse(meal, false))
}

// Delete removes a meal record and its items.
// @Summary Delete a meal record
// @Tags meals
// @Security Bearer
// @Produce json
// @Param id path int true "Meal ID"
// @Success 200 {object} Envelope
// @Failure 403 {object} Envelope
// @Router /meals/{id} [delete]
func (h *MealHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.mealService.Delete(c.Request.Context(), userID, id); err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, messageResponse{Message: "meal deleted"})
}
