// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type ReviewHandler struct {
	reviewService       *services.ReviewService
	notificationService *services.NotificationService
}

func NewReviewHandler(reviewService *services.ReviewService, notificationService *services.NotificationService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:       reviewService,
		notificationService: notificationService,
	}
}

// GET /reviews?productId=
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListApproved(c.Request.Context(), c.Query("productId"))
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"reviews": reviews,
	})
}

// POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	identity, ok := utils.GetIdentity(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), identity, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	if h.notificationService.Enabled() {
		pending := *review
		go func() {
			if err := h.notificationService.NotifyReviewSubmitted(&pending); err != nil {
				logrus.WithError(err).WithField("review_id", pending.ID).Warn("Review notification failed")
			}
		}()
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated),
		"review":  review,
	})
}

// GET /admin/reviews?status=
func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		handleServiceError(c, err, i18n.KeyReviewNotFound)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(reviews, total, params))
}

// PATCH /admin/reviews/:id
func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	var req services.ModerateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.ModerateReview(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyReviewNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated),
		"review":  review,
	})
}

// DELETE /admin/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, i18n.KeyReviewNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}
