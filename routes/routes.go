package routes

import (
	"net/http"
	"time"

	"massobook/handlers"
	"massobook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	SlotsPath         = "/api/slots"
	BookingsPath      = "/api/bookings"
	LegacySlotsPath   = "/functions/v1/get-available-slots"
	LegacyBookingPath = "/functions/v1/create-booking-event"
)

// CORSConfig is permissive: the booking widget is embedded on third-party sites.
func CORSConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"authorization", "x-client-info", "apikey", "content-type"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RegisterSlotRoutes registers the availability endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST(SlotsPath, hb.Availability.GetAvailableSlots)
	r.GET(SlotsPath, hb.Availability.GetAvailableSlotsQuery)
	r.OPTIONS(SlotsPath, noContent)

	r.POST(LegacySlotsPath, hb.Availability.GetAvailableSlots)
	r.OPTIONS(LegacySlotsPath, noContent)
}

// RegisterBookingRoutes registers the booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST(BookingsPath, hb.Booking.CreateBooking)
	r.OPTIONS(BookingsPath, noContent)

	r.POST(LegacyBookingPath, hb.Booking.CreateBooking)
	r.OPTIONS(LegacyBookingPath, noContent)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// CORS runs ahead of mw so that rejected requests still carry CORS headers
// and preflights never reach the rate limiter.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, mw ...gin.HandlerFunc) {
	r.Use(cors.New(CORSConfig()))
	r.Use(mw...)

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, utils.ErrorResponse{Error: "Method Not Allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{Error: "Not Found"})
	})

	RegisterSlotRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}
