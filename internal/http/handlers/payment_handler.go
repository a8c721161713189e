package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/http/handlers/common"
	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/service"
)

// PaymentHandler предоставляет HTTP слой симулированной оплаты.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler создаёт хэндлер.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Initiate обрабатывает POST /api/orders/:id/payments.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id заказа")
		return
	}

	var req struct {
		Provider string `json:"provider" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var result *service.InitiationResult
	switch req.Provider {
	case models.PaymentProviderKhalti:
		result, err = h.payments.InitiateKhalti(c.Request.Context(), orderID, userID)
	case models.PaymentProviderEsewa:
		result, err = h.payments.InitiateEsewa(c.Request.Context(), orderID, userID)
	default:
		common.RespondBadRequest(c, "провайдер должен быть khalti или esewa")
		return
	}
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Latest обрабатывает GET /api/orders/:id/payments.
func (h *PaymentHandler) Latest(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id заказа")
		return
	}

	payment, err := h.payments.LatestPayment(c.Request.Context(), orderID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// Success обрабатывает POST /api/orders/:id/payment-success.
func (h *PaymentHandler) Success(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id заказа")
		return
	}

	var req struct {
		Pidx uuid.UUID `json:"pidx" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "pidx обязателен")
		return
	}

	order, err := h.payments.ConfirmSuccess(c.Request.Context(), orderID, userID, req.Pidx)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "оплата прошла успешно",
		"order":   order,
	})
}

// Failure обрабатывает POST /api/orders/:id/payment-failure.
func (h *PaymentHandler) Failure(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id заказа")
		return
	}

	var req struct {
		Pidx uuid.UUID `json:"pidx" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "pidx обязателен")
		return
	}

	if err := h.payments.ConfirmFailure(c.Request.Context(), orderID, userID, req.Pidx); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "оплата не прошла, попробуйте ещё раз", nil)
}
