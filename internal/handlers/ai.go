// internal/handlers/ai.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// POST /chat
func (h *AIHandler) Chat(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.aiService.Chat(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}
	if reply == "" {
		reply = i18n.T(lang, i18n.KeyChatApology)
	}

	utils.SuccessResponse(c, gin.H{
		"reply": reply,
	})
}

// POST /admin/generate-product
func (h *AIHandler) GenerateProduct(c *gin.Context) {
	var req services.GenerateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.aiService.GenerateProduct(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}
