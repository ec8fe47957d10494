package handlers

import (
	"context"
	"net/http"
	"strings"

	"massobook/models"
	"massobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SlotResolver returns the open slot labels for a "YYYY-MM-DD" date.
type SlotResolver interface {
	Resolve(ctx context.Context, rawDate string) ([]string, error)
}

type AvailabilityHandler struct {
	Resolver SlotResolver
}

type slotsRequest struct {
	Date string `json:"date"`
}

// GetAvailableSlots serves POST {"date": "YYYY-MM-DD"}.
func (h *AvailabilityHandler) GetAvailableSlots(c *gin.Context) {
	var req slotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	h.respond(c, req.Date)
}

// GetAvailableSlotsQuery serves GET ?date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetAvailableSlotsQuery(c *gin.Context) {
	h.respond(c, c.Query("date"))
}

func (h *AvailabilityHandler) respond(c *gin.Context, rawDate string) {
	logger := getLogger(c)
	rawDate = strings.TrimSpace(rawDate)
	if rawDate == "" {
		utils.JSONError(c, http.StatusBadRequest, "date is required", "expected format YYYY-MM-DD")
		return
	}

	slots, err := h.Resolver.Resolve(c.Request.Context(), rawDate)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}

	logger.Info("available slots resolved", zap.String("date", rawDate), zap.Int("count", len(slots)))
	c.JSON(http.StatusOK, models.AvailableSlotsResponse{Slots: slots})
}
