package handlers

import (
	"errors"
	"net/http"

	"marketplace/middleware"
	"marketplace/models"
	"marketplace/services/availability"
	"marketplace/services/booking"
	"marketplace/services/catalog"
	"marketplace/services/vendor"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// conflictResponse is the body of a 409 for a taken slot.
type conflictResponse struct {
	Message   string               `json:"message"`
	Reason    string               `json:"reason"`
	Conflicts []models.Reservation `json:"conflicts"`
	Free      []models.TimeWindow  `json:"free,omitempty"`
}

func respondConflict(c *gin.Context, conflicts []models.Reservation, free []models.TimeWindow) {
	c.JSON(http.StatusConflict, conflictResponse{
		Message:   "slot unavailable",
		Reason:    availability.SlotConflict,
		Conflicts: conflicts,
		Free:      free,
	})
}

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	if ve, ok := availability.AsValidationError(err); ok {
		utils.JSONValidationError(c, string(ve.Kind), ve.Field, ve.Message)
		return
	}
	var le *catalog.ListingError
	if errors.As(err, &le) {
		utils.JSONValidationError(c, "InvalidListing", le.Field, le.Message)
		return
	}

	switch {
	case errors.Is(err, booking.ErrMalformedRequest):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
	case errors.Is(err, booking.ErrVendorNotFound), errors.Is(err, vendor.ErrVendorNotFound):
		utils.JSONError(c, http.StatusNotFound, "Vendor not found", "")
	case errors.Is(err, booking.ErrListingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Listing not found", "")
	case errors.Is(err, booking.ErrFeatureDisabled):
		utils.JSONError(c, http.StatusForbidden, "Listing type disabled", err.Error())
	case errors.Is(err, booking.ErrDuplicateEvent), errors.Is(err, vendor.ErrVendorExists):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, booking.ErrNotReservable), errors.Is(err, catalog.ErrUnknownItemType), errors.Is(err, vendor.ErrInvalidVendor):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, booking.ErrGuardBusy):
		c.Header("Retry-After", "1")
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	default:
		utils.GetLogger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// itemTypeParam resolves the :itemType path parameter.
func itemTypeParam(c *gin.Context) (models.ItemType, bool) {
	t, ok := models.ParseItemType(c.Param("itemType"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "Unknown item type", c.Param("itemType"))
	}
	return t, ok
}

// vendorIDFrom returns the vendor id set by JWTAuthVendorMiddleware.
func vendorIDFrom(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.VendorIDKey)
	if id == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Vendor not authenticated", "")
		return "", false
	}
	return id, true
}
