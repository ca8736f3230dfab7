// internal/handlers/search.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// GET /search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
