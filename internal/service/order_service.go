package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/domain/valueobject"
	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
	"github.com/skillbazar/backend/internal/validation"
)

// OrderRepository описывает зависимости OrderService от слоя хранилища.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveryDate *time.Time) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Order, error)
	GetUserOrderStats(ctx context.Context, userID uuid.UUID) (map[string]int, error)
}

// GigReaderForOrder возвращает услуги для оформления заказа.
type GigReaderForOrder interface {
	GetGigByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
}

// ReviewChecker проверяет наличие отзыва покупателя на услугу.
type ReviewChecker interface {
	GetByGigAndReviewer(ctx context.Context, gigID, reviewerID uuid.UUID) (*models.Review, error)
}

// OrderService инкапсулирует жизненный цикл заказа.
type OrderService struct {
	repo    OrderRepository
	gigs    GigReaderForOrder
	users   UserReader
	reviews ReviewChecker
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderRepository, gigs GigReaderForOrder, users UserReader, reviews ReviewChecker) *OrderService {
	return &OrderService{repo: repo, gigs: gigs, users: users, reviews: reviews}
}

// OrderDetail дополняет заказ расчётом оплаты и возможностью оставить отзыв.
type OrderDetail struct {
	Order     *models.Order                `json:"order"`
	Breakdown *valueobject.PaymentBreakdown `json:"payment_breakdown,omitempty"`
	CanReview bool                          `json:"can_review"`
}

// CreateOrder оформляет заказ на активную услугу.
// Сумма и исполнитель фиксируются по состоянию услуги на момент заказа.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID, gigID uuid.UUID, requirements *string) (*models.Order, error) {
	buyer, err := s.users.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if !models.CanBuy(buyer.UserType) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только покупатель может оформлять заказы")
	}

	gig, err := s.gigs.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	// Неактивная услуга недоступна для заказа и неотличима от несуществующей
	if !gig.IsActive {
		return nil, apperror.ErrGigNotFound
	}

	if gig.FreelancerID == buyerID {
		return nil, apperror.ErrSelfOrder
	}

	if requirements != nil {
		if err := validation.ValidateRequirements(*requirements); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	order := &models.Order{
		GigID:        gig.ID,
		BuyerID:      buyerID,
		FreelancerID: gig.FreelancerID,
		Amount:       gig.Price,
		Status:       models.OrderStatusPending,
		Requirements: requirements,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder возвращает заказ участнику с расчётом оплаты.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != userID && order.FreelancerID != userID {
		return nil, apperror.ErrForbidden
	}

	detail := &OrderDetail{Order: order}

	if breakdown, err := valueobject.NewPaymentBreakdown(order.Amount); err == nil {
		detail.Breakdown = &breakdown
	}

	if userID == order.BuyerID && order.Status == models.OrderStatusCompleted {
		existing, err := s.reviews.GetByGigAndReviewer(ctx, order.GigID, userID)
		if err == nil && existing == nil {
			detail.CanReview = true
		}
	}

	return detail, nil
}

// UpdateStatus переводит заказ в новый статус. Доступно только исполнителю,
// переходы ограничены машиной состояний.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, userID uuid.UUID, newStatus string) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.FreelancerID != userID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "статус заказа меняет только исполнитель")
	}

	current, err := valueobject.NewOrderStatus(order.Status)
	if err != nil {
		return nil, err
	}

	target, err := valueobject.NewOrderStatus(newStatus)
	if err != nil {
		return nil, err
	}

	next, err := current.TransitionTo(target)
	if err != nil {
		return nil, err
	}

	var deliveryDate *time.Time
	if next == valueobject.OrderStatusCompleted {
		now := time.Now()
		deliveryDate = &now
	}

	return s.repo.UpdateStatus(ctx, orderID, string(next), deliveryDate)
}

// CancelOrder удаляет ещё не оплаченный заказ покупателя.
// Заказ в работе отменить нельзя, его завершает или отменяет исполнитель.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, buyerID uuid.UUID) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.BuyerID != buyerID {
		return apperror.ErrForbidden
	}

	if order.Status != models.OrderStatusPending {
		return apperror.New(apperror.ErrCodeConflict, "отменить можно только неоплаченный заказ")
	}

	return s.repo.Delete(ctx, orderID)
}

// OrderLists разделяет заказы пользователя по ролям.
type OrderLists struct {
	Purchases []models.Order `json:"purchases"`
	Sales     []models.Order `json:"sales"`
	Stats     map[string]int `json:"stats"`
}

// ListOrders возвращает заказы пользователя с учётом его типа.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) (*OrderLists, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lists := &OrderLists{
		Purchases: []models.Order{},
		Sales:     []models.Order{},
	}

	if models.CanBuy(user.UserType) {
		purchases, err := s.repo.ListByBuyer(ctx, userID)
		if err != nil {
			return nil, err
		}
		if purchases != nil {
			lists.Purchases = purchases
		}
	}

	if models.CanSell(user.UserType) {
		sales, err := s.repo.ListByFreelancer(ctx, userID)
		if err != nil {
			return nil, err
		}
		if sales != nil {
			lists.Sales = sales
		}
	}

	stats, err := s.repo.GetUserOrderStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	lists.Stats = stats

	return lists, nil
}
