package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillbazar/backend/internal/http/handlers/common"
	"github.com/skillbazar/backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой отзывов.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview обрабатывает POST /api/gigs/:id/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id услуги")
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "рейтинг должен быть от 1 до 5")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), gigID, userID, req.Rating, req.Comment)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListGigReviews обрабатывает GET /api/gigs/:id/reviews.
func (h *ReviewHandler) ListGigReviews(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id услуги")
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListGigReviews(c.Request.Context(), gigID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ListFreelancerReviews обрабатывает GET /api/users/:id/reviews.
func (h *ReviewHandler) ListFreelancerReviews(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id пользователя")
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListFreelancerReviews(c.Request.Context(), freelancerID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
