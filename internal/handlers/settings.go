// internal/handlers/settings.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

const maxSettingKeyLength = 100

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GET /settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, settings)
}

// POST /settings
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	var invalid []utils.ValidationError
	for key := range values {
		if key == "" || len(key) > maxSettingKeyLength {
			invalid = append(invalid, utils.ValidationError{Field: key, Tag: "max", Message: "setting key must be 1-100 characters"})
		}
	}
	if len(invalid) > 0 {
		utils.ValidationErrorResponse(c, invalid)
		return
	}

	if err := h.settingsService.SaveSettings(c.Request.Context(), values); err != nil {
		utils.ServerError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySettingsSaved),
		"settings": settings,
	})
}
