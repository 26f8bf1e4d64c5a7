package handlers

import (
	"net/http"

	"marketplace/models"
	"marketplace/services/vendor"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	Service vendor.VendorService
}

func (h *VendorHandler) RegisterVendorHandler(c *gin.Context) {
	var req models.VendorRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	resp, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VendorHandler) GetMeHandler(c *gin.Context) {
	vendorID, ok := vendorIDFrom(c)
	if !ok {
		return
	}
	v, err := h.Service.GetByID(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VendorHandler) UpdateSettingsHandler(c *gin.Context) {
	vendorID, ok := vendorIDFrom(c)
	if !ok {
		return
	}
	var req models.VendorSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	v, err := h.Service.UpdateSettings(c.Request.Context(), vendorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated", "vendor": v})
}
