package handlers

import (
	"net/http"

	"marketplace/models"
	"marketplace/services/booking"
	"marketplace/services/catalog"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	Catalog  catalog.CatalogService
	Bookings booking.BookingService
}

func (h *ItemHandler) DashboardHandler(c *gin.Context) {
	vendorID, ok := vendorIDFrom(c)
	if !ok {
		return
	}
	d, err := h.Catalog.Dashboard(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ItemHandler) ListItemsHandler(c *gin.Context) {
	vendorID, ok := vendorIDFrom(c)
	if !ok {
		return
	}
	itemType, ok := itemTypeParam(c)
	if !ok {
		return
	}
	items, err := h.Catalog.ListItems(c.Request.Context(), vendorID, itemType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemType": itemType, "items": items})
}

// CreateItemHandler binds the body for the :itemType listing and creates it. Party bookings and
// events answer 409 with the conflicting reservations when their window is taken.
func (h *ItemHandler) CreateItemHandler(c *gin.Context) {
	vendorID, ok := vendorIDFrom(c)
	if !ok {
		return
	}
	itemType, ok := itemTypeParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	switch itemType {
	case models.ItemGiftCard:
		var req models.GiftCardRequest
		if !bind(c, &req) {
			return
		}
		card, err := h.Catalog.CreateGiftCard(ctx, vendorID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, card)

	case models.ItemGiftCardPromotion:
		var req models.GiftCardPromotionRequest
		if !bind(c, &req) {
			return
		}
		promo, err := h.Catalog.CreatePromotion(ctx, vendorID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, promo)

	case models.ItemPartyBooking:
		var req models.PartyBookingRequest
		if !bind(c, &req) {
			return
		}
		out, err := h.Bookings.CreatePartyBooking(ctx, vendorID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		if !out.Admitted() {
			respondConflict(c, out.Conflicts, out.Free)
			return
		}
		c.JSON(http.StatusCreated, out.Item)

	case models.ItemEvent:
		var req models.EventRequest
		if !bind(c, &req) {
			return
		}
		out, err := h.Bookings.CreateEvent(ctx, vendorID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		if !out.Admitted() {
			respondConflict(c, out.Conflicts, out.Free)
			return
		}
		c.JSON(http.StatusCreated, out.Item)
	}
}

func (h *ItemHandler) ToggleActiveHandler(c *gin.Context) {
	vendorID, ok := vendorIDFrom(c)
	if !ok {
		return
	}
	itemType, ok := itemTypeParam(c)
	if !ok {
		return
	}
	res, err := h.Catalog.ToggleActive(c.Request.Context(), vendorID, itemType, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(res.Conflicts) > 0 {
		respondConflict(c, res.Conflicts, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return false
	}
	return true
}
