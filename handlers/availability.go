package handlers

import (
	"net/http"

	"marketplace/models"
	"marketplace/services/availability"
	"marketplace/services/booking"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the public, read-only availability queries.
type AvailabilityHandler struct {
	Bookings booking.BookingService
}

func (h *AvailabilityHandler) CheckPartyAvailabilityHandler(c *gin.Context) {
	var q models.PartyAvailabilityQuery
	if !bind(c, &q) {
		return
	}
	res, err := h.Bookings.CheckPartyAvailability(c.Request.Context(), c.Param("vendorID"), q)
	respondAvailability(c, res, err)
}

func (h *AvailabilityHandler) CheckEventAvailabilityHandler(c *gin.Context) {
	var q models.EventAvailabilityQuery
	if !bind(c, &q) {
		return
	}
	res, err := h.Bookings.CheckEventAvailability(c.Request.Context(), c.Param("vendorID"), q)
	respondAvailability(c, res, err)
}

// respondAvailability answers 200 for both outcomes; a taken slot is not an error for a query.
func respondAvailability(c *gin.Context, res *availability.Result, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AvailabilityHandler) DayScheduleHandler(c *gin.Context) {
	itemType, ok := itemTypeParam(c)
	if !ok {
		return
	}
	schedule, err := h.Bookings.DaySchedule(c.Request.Context(), itemType, c.Param("vendorID"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}
