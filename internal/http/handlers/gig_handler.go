package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/http/handlers/common"
	"github.com/skillbazar/backend/internal/repository"
	"github.com/skillbazar/backend/internal/service"
)

// GigHandler предоставляет HTTP слой каталога услуг.
type GigHandler struct {
	gigs *service.GigService
}

// NewGigHandler создаёт хэндлер.
func NewGigHandler(gigs *service.GigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

// ListCategories обрабатывает GET /api/categories.
func (h *GigHandler) ListCategories(c *gin.Context) {
	categories, err := h.gigs.ListCategories(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListGigs обрабатывает GET /api/gigs.
func (h *GigHandler) ListGigs(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	params := repository.GigFilterParams{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		PriceMin:  common.ParseFloatQuery(c, "price_min"),
		PriceMax:  common.ParseFloatQuery(c, "price_max"),
		Limit:     limit,
		Offset:    offset,
	}

	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			common.RespondBadRequest(c, "неверный category_id")
			return
		}
		params.CategoryID = &categoryID
	} else if slug := c.Query("category"); slug != "" {
		category, err := h.gigs.GetCategoryBySlug(c.Request.Context(), slug)
		if err != nil {
			common.RespondBadRequest(c, "категория не найдена")
			return
		}
		params.CategoryID = &category.ID
	}

	result, err := h.gigs.ListGigs(c.Request.Context(), params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gigs":     result.Gigs,
		"total":    result.Total,
		"limit":    result.Limit,
		"offset":   result.Offset,
		"has_more": result.HasMore,
	})
}

// GetGig обрабатывает GET /api/gigs/:id.
func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id услуги")
		return
	}

	gig, err := h.gigs.GetGig(c.Request.Context(), gigID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gig": gig})
}

// GetGigBySlug обрабатывает GET /api/gigs/slug/:slug.
func (h *GigHandler) GetGigBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		common.RespondBadRequest(c, "slug обязателен")
		return
	}

	gig, err := h.gigs.GetGigBySlug(c.Request.Context(), slug)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gig": gig})
}

// ListMyGigs обрабатывает GET /api/gigs/my.
func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigs, err := h.gigs.ListMyGigs(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gigs": gigs})
}

type gigRequest struct {
	CategoryID   uuid.UUID  `json:"category_id" binding:"required"`
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Price        float64    `json:"price" binding:"required"`
	DeliveryTime int        `json:"delivery_time" binding:"required"`
	ImageID      *uuid.UUID `json:"image_id"`
	IsActive     *bool      `json:"is_active"`
}

// CreateGig обрабатывает POST /api/gigs.
func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req gigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.CreateGig(c.Request.Context(), userID, service.GigInput{
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryTime: req.DeliveryTime,
		ImageID:      req.ImageID,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gig": gig})
}

// UpdateGig обрабатывает PUT /api/gigs/:id.
func (h *GigHandler) UpdateGig(c *gin.Context) {
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

	var req gigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.UpdateGig(c.Request.Context(), gigID, userID, service.GigInput{
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryTime: req.DeliveryTime,
		ImageID:      req.ImageID,
	}, req.IsActive)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"gig": gig})
}

// DeleteGig обрабатывает DELETE /api/gigs/:id.
func (h *GigHandler) DeleteGig(c *gin.Context) {
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

	if err := h.gigs.DeleteGig(c.Request.Context(), gigID, userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "услуга удалена", nil)
}
