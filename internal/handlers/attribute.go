// internal/handlers/attribute.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type AttributeHandler struct {
	attributeService *services.AttributeService
}

func NewAttributeHandler(attributeService *services.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributeService: attributeService}
}

// GET /attributes
func (h *AttributeHandler) GetAttributes(c *gin.Context) {
	attributes, err := h.attributeService.ListAttributes(c.Request.Context(), c.Query("type"))
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"attributes": attributes,
	})
}

// POST /attributes
func (h *AttributeHandler) CreateAttribute(c *gin.Context) {
	var req services.AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	attribute, err := h.attributeService.CreateAttribute(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyAttributeNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated),
		"attribute": attribute,
	})
}

// PUT /attributes/:id
func (h *AttributeHandler) UpdateAttribute(c *gin.Context) {
	var req services.AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	attribute, err := h.attributeService.UpdateAttribute(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyAttributeNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated),
		"attribute": attribute,
	})
}

// DELETE /attributes/:id
func (h *AttributeHandler) DeleteAttribute(c *gin.Context) {
	if err := h.attributeService.DeleteAttribute(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, i18n.KeyAttributeNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}
