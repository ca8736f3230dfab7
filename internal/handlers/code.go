// internal/handlers/code.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type CodeHandler struct {
	codeService *services.CodeService
}

func NewCodeHandler(codeService *services.CodeService) *CodeHandler {
	return &CodeHandler{codeService: codeService}
}

// GET /codes
func (h *CodeHandler) GetCodes(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	codes, total, err := h.codeService.ListCodes(c.Request.Context(), c.Query("product_id"), params)
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(codes, total, params))
}

// POST /codes
func (h *CodeHandler) CreateCodes(c *gin.Context) {
	var req services.CreateCodesRequest
	if !bindJSON(c, &req) {
		return
	}

	codes, err := h.codeService.CreateCodes(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated),
		"codes":   codes,
	})
}

// DELETE /codes/:id
func (h *CodeHandler) DeleteCode(c *gin.Context) {
	if err := h.codeService.DeleteCode(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, i18n.KeyCodeNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}

// GET /codes/verify/:code
func (h *CodeHandler) VerifyCode(c *gin.Context) {
	result, err := h.codeService.VerifyCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleServiceError(c, err, i18n.KeyCodeNotFound)
		return
	}

	utils.SuccessResponse(c, result)
}
