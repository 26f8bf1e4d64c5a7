// File: handlers/bundle.go
package handlers

import (
	vendorRepoPkg "marketplace/database/repository/vendor"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	VendorRepo vendorRepoPkg.VendorRepository
	AuthCache  *redis.Client

	// Vendor endpoints
	RegisterVendorHandler gin.HandlerFunc
	GetMeHandler          gin.HandlerFunc
	UpdateSettingsHandler gin.HandlerFunc
	DashboardHandler      gin.HandlerFunc

	// Listing endpoints
	ListItemsHandler    gin.HandlerFunc
	CreateItemHandler   gin.HandlerFunc
	ToggleActiveHandler gin.HandlerFunc

	// Availability endpoints
	CheckPartyAvailabilityHandler gin.HandlerFunc
	CheckEventAvailabilityHandler gin.HandlerFunc
	DayScheduleHandler            gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(vendors *VendorHandler, items *ItemHandler, avail *AvailabilityHandler, repo vendorRepoPkg.VendorRepository, authCache *redis.Client) *HandlerBundle {
	return &HandlerBundle{
		VendorRepo: repo,
		AuthCache:  authCache,

		RegisterVendorHandler: vendors.RegisterVendorHandler,
		GetMeHandler:          vendors.GetMeHandler,
		UpdateSettingsHandler: vendors.UpdateSettingsHandler,
		DashboardHandler:      items.DashboardHandler,

		ListItemsHandler:    items.ListItemsHandler,
		CreateItemHandler:   items.CreateItemHandler,
		ToggleActiveHandler: items.ToggleActiveHandler,

		CheckPartyAvailabilityHandler: avail.CheckPartyAvailabilityHandler,
		CheckEventAvailabilityHandler: avail.CheckEventAvailabilityHandler,
		DayScheduleHandler:            avail.DayScheduleHandler,
	}
}
