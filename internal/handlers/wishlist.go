// internal/handlers/wishlist.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// GET /wishlists
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	items, err := h.wishlistService.ListWishlist(c.Request.Context(), userID)
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items": items,
	})
}

// POST /wishlists
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.wishlistService.AddToWishlist(c.Request.Context(), userID, req.ProductID); err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": req.ProductID,
	})
}

// DELETE /wishlists?productId=
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID := c.Query("productId")
	if productID == "" {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "productId"), nil)
		return
	}

	if err := h.wishlistService.RemoveFromWishlist(c.Request.Context(), userID, productID); err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyWishlistRemoved),
	})
}
