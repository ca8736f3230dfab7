// internal/handlers/accessory.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type AccessoryHandler struct {
	accessoryService *services.AccessoryService
}

func NewAccessoryHandler(accessoryService *services.AccessoryService) *AccessoryHandler {
	return &AccessoryHandler{accessoryService: accessoryService}
}

// GET /accessories
// The storefront renders an empty shelf rather than an error page, so a
// failed query answers an empty list.
func (h *AccessoryHandler) GetAccessories(c *gin.Context) {
	accessories, err := h.accessoryService.ListAccessories(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Warn("Failed to list accessories")
		accessories = []models.Accessory{}
	}

	utils.SuccessResponse(c, gin.H{
		"accessories": accessories,
	})
}

// POST /accessories
func (h *AccessoryHandler) CreateAccessory(c *gin.Context) {
	var req services.AccessoryRequest
	if !bindJSON(c, &req) {
		return
	}

	accessory, err := h.accessoryService.CreateAccessory(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyAccessoryNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated),
		"accessory": accessory,
	})
}

// PUT /accessories/:id
func (h *AccessoryHandler) UpdateAccessory(c *gin.Context) {
	var req services.AccessoryRequest
	if !bindJSON(c, &req) {
		return
	}

	accessory, err := h.accessoryService.UpdateAccessory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyAccessoryNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated),
		"accessory": accessory,
	})
}

// DELETE /accessories/:id
func (h *AccessoryHandler) DeleteAccessory(c *gin.Context) {
	if err := h.accessoryService.DeleteAccessory(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, i18n.KeyAccessoryNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}
