package handlers

import (
	"net/http"

	"github.com/example/macro-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SummaryHandler serves daily and monthly nutrition summaries.
type SummaryHandler struct {
	summaryService *services.SummaryService
	errs           errorMapper
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService *services.SummaryService, log *zap.Logger) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, errs: errorMapper{log: log}}
}

// Daily returns totals, targets and achievement for one day.
// @Summary Daily summary
// @Tags summary
// @Security Bearer
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} services.DailySummary
// @Failure 422 {object} Envelope
// @Router /summary/daily [get]
func (h *SummaryHandler) Daily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var q services.DailyQuery
	if !bindQuery(c, &q) {
		return
	}

	summary, err := h.summaryService.Daily(c.Request.Context(), userID, q)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, summary)
}

// Monthly returns one entry per calendar day and the average over logged days.
// @Summary Monthly summary
// @Tags summary
// @Security Bearer
// @Produce json
// @Param year query int true "Year (YYYY)"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} services.MonthlySummary
// @Failure 422 {object} Envelope
// @Router /summary/monthly [get]
func (h *SummaryHandler) Monthly(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var q services.MonthlyQuery
	if !bindQuery(c, &q) {
		return
	}

	summary, err := h.summaryService.Monthly(c.Request.Context(), userID, q)
	if err != nil {
		h.errs.fail(c, err)
		return
	}

	respond(c, http.StatusOK, summary)
}
