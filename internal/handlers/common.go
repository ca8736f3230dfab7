// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

// bindJSON decodes and validates a request body, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// handleServiceError maps service sentinels to responses. Anything else is
// an unexpected failure.
func handleServiceError(c *gin.Context, err error, notFoundKey string) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	case errors.Is(err, services.ErrSeriesInUse):
		utils.ErrorResponse(c, http.StatusBadRequest, "SERIES_IN_USE", i18n.T(lang, i18n.KeySeriesInUse), nil)
	case errors.Is(err, services.ErrSlugTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "slug"))
	case errors.Is(err, services.ErrAttributeExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAttributeExists))
	case errors.Is(err, services.ErrLabelExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyLabelExists))
	case errors.Is(err, services.ErrInvalidStatus):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyReviewInvalidStatus), nil)
	case errors.Is(err, services.ErrAIUnavailable):
		utils.ServiceUnavailableResponse(c, "AI_UNAVAILABLE", i18n.T(lang, i18n.KeyAIUnavailable))
	case errors.Is(err, services.ErrGenerationFailed):
		utils.ReportError(c, err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "GENERATION_FAILED", i18n.T(lang, i18n.KeyGenerationFailed), nil)
	default:
		utils.ServerError(c, err)
	}
}
