package handlers

import (
	"net/http"

	"github.com/example/macro-tracker/internal/models"
	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FoodHandler handles food-related endpoints.
type FoodHandler struct {
	foodService *services.FoodService
	errs        errorMapper
}

// NewFoodHandler creates a new FoodHandler.
func NewFoodHandler(foodService *services.FoodService, log *zap.Logger) *FoodHandler {
	return &FoodHandler{foodService: foodService, errs: errorMapper{log: log}}
}

// PFCBalance is the calorie share of each macronutrient in percent.
type PFCBalance struct {
	Protein      int `json:"protein"`
	Fat          int `json:"fat"`
	Carbohydrate int `json:"carbohydrate"`
}

// FoodResponse is a food with its PFC balance.
type FoodResponse struct {
	models.Food
	PFCBalance PFCBalance `json:"pfc_balance"`
}

// FoodListResponse is one page of foods.
type FoodListResponse struct {
	Foods      []FoodResponse      `json:"foods"`
	Pagination services.Pagination `json:"pagination"`
}

func newFoodResponse(f *models.Food) FoodResponse {
	p, fa, c := f.PFCRatio()
	return FoodResponse{
		Food:       *f,
		PFCBalance: PFCBalance{Protein: p, Fat: fa, Carbohydrate: c},
	}
}

// List returns the foods visible to the user.
// @Summary List foods
// @Tags foods
// @Security Bearer
// @Produce json
// @Param q query string false "Name search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} FoodListResponse
// @Router /foods [get]
func (h *FoodHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var q services.ListFoodsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.foodService.List(c.Request.Context(), userID, q)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	resp := FoodListResponse{
		Foods:      make([]FoodResponse, len(page.Foods)),
		Pagination: page.Pagination,
	}
	for i := range page.Foods {
		resp.Foods[i] = newFoodResponse(&page.Foods[i])
	}
	respond(c, http.StatusOK, resp)
}

// Create creates a new food item.
// @Summary Create a new food item
// @Tags foods
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body services.CreateFoodRequest true "Food data"
// @Success 201 {object} FoodResponse
// @Failure 422 {object} Envelope
// @Router /foods [post]
func (h *FoodHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.foodService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, newFoodResponse(food))
}

// Get retrieves a food item by ID.
// @Summary Get food by ID
// @Tags foods
// @Security Bearer
// @Produce json
// @Param id path int true "Food ID"
// @Success 200 {object} FoodResponse
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /foods/{id} [get]
func (h *FoodHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	food, err := h.foodService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, newFoodResponse(food))
}

// Update applies a partial update to an owned food.
// @Summary Update a food item
// @Tags foods
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "Food ID"
// @Param request body services.UpdateFoodRequest true "Fields to change"
// @Success 200 {object} FoodResponse
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /foods/{id} [put]
func (h *FoodHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.foodService.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, newFoodResponse(food))
}

// Delete removes an owned food that no meal item references.
// @Summary Delete a food item
// @Tags foods
// @Security Bearer
// @Produce json
// @Param id path int true "Food ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 403 {object} Envelope
// @Router /foods/{id} [delete]
func (h *FoodHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.foodService.Delete(c.Request.Context(), userID, id); err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, messageResponse{Message: "food deleted"})
}
