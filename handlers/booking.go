package handlers

import (
	"context"
	"errors"
	"net/http"

	"massobook/models"
	"massobook/services/booking"
	"massobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BookingCreator writes a booking to the provider's calendar.
type BookingCreator interface {
	CreateBooking(ctx context.Context, input models.BookingRequestInput) (models.BookingResponse, error)
}

type BookingHandler struct {
	Bookings BookingCreator
}

// CreateBooking serves POST with a booking request body.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	logger := getLogger(c)

	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			utils.JSONError(c, http.StatusBadRequest, "Missing or invalid fields", booking.DescribeValidation(err))
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}

	resp, err := h.Bookings.CreateBooking(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
