package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

func newOrderService() (*OrderService, *mockOrderRepo, *mockCatalogRepo, *mockUserRepo, *mockReviewRepo) {
	orderRepo := new(mockOrderRepo)
	catalogRepo := new(mockCatalogRepo)
	userRepo := new(mockUserRepo)
	reviewRepo := new(mockReviewRepo)
	svc := NewOrderService(orderRepo, catalogRepo, userRepo, reviewRepo)
	return svc, orderRepo, catalogRepo, userRepo, reviewRepo
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	svc, orderRepo, catalogRepo, userRepo, _ := newOrderService()
	ctx := context.Background()

	buyerID := uuid.New()
	freelancerID := uuid.New()
	gigID := uuid.New()

	buyer := &models.User{ID: buyerID, UserType: models.UserTypeBuyer}
	gig := &models.Gig{ID: gigID, FreelancerID: freelancerID, Price: 2500, IsActive: true}

	userRepo.On("GetByID", ctx, buyerID).Return(buyer, nil)
	catalogRepo.On("GetGigByID", ctx, gigID).Return(gig, nil)
	orderRepo.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.CreateOrder(ctx, buyerID, gigID, nil)

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, freelancerID, order.FreelancerID)
	assert.Equal(t, 2500.0, order.Amount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderService_CreateOrder_OwnGig(t *testing.T) {
	svc, _, catalogRepo, userRepo, _ := newOrderService()
	ctx := context.Background()

	userID := uuid.New()
	gigID := uuid.New()

	user := &models.User{ID: userID, UserType: models.UserTypeBoth}
	gig := &models.Gig{ID: gigID, FreelancerID: userID, Price: 1000, IsActive: true}

	userRepo.On("GetByID", ctx, userID).Return(user, nil)
	catalogRepo.On("GetGigByID", ctx, gigID).Return(gig, nil)

	_, err := svc.CreateOrder(ctx, userID, gigID, nil)

	assert.ErrorIs(t, err, apperror.ErrSelfOrder)
}

func TestOrderService_CreateOrder_InactiveGig(t *testing.T) {
	svc, _, catalogRepo, userRepo, _ := newOrderService()
	ctx := context.Background()

	buyerID := uuid.New()
	gigID := uuid.New()

	buyer := &models.User{ID: buyerID, UserType: models.UserTypeBuyer}
	gig := &models.Gig{ID: gigID, FreelancerID: uuid.New(), Price: 1000, IsActive: false}

	userRepo.On("GetByID", ctx, buyerID).Return(buyer, nil)
	catalogRepo.On("GetGigByID", ctx, gigID).Return(gig, nil)

	_, err := svc.CreateOrder(ctx, buyerID, gigID, nil)

	assert.ErrorIs(t, err, apperror.ErrGigNotFound)
}

func TestOrderService_CreateOrder_FreelancerCannotBuy(t *testing.T) {
	svc, _, _, userRepo, _ := newOrderService()
	ctx := context.Background()

	freelancerID := uuid.New()
	freelancer := &models.User{ID: freelancerID, UserType: models.UserTypeFreelancer}

	userRepo.On("GetByID", ctx, freelancerID).Return(freelancer, nil)

	_, err := svc.CreateOrder(ctx, freelancerID, uuid.New(), nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestOrderService_GetOrder_BreakdownAndCanReview(t *testing.T) {
	svc, orderRepo, _, _, reviewRepo := newOrderService()
	ctx := context.Background()

	buyerID := uuid.New()
	orderID := uuid.New()
	gigID := uuid.New()

	order := &models.Order{
		ID:           orderID,
		GigID:        gigID,
		BuyerID:      buyerID,
		FreelancerID: uuid.New(),
		Amount:       2500,
		Status:       models.OrderStatusCompleted,
	}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	reviewRepo.On("GetByGigAndReviewer", ctx, gigID, buyerID).Return(nil, nil)

	detail, err := svc.GetOrder(ctx, orderID, buyerID)

	assert.NoError(t, err)
	assert.NotNil(t, detail.Breakdown)
	assert.Equal(t, 125.0, detail.Breakdown.PlatformFee)
	assert.Equal(t, 2625.0, detail.Breakdown.Total)
	assert.True(t, detail.CanReview)
}

func TestOrderService_GetOrder_NotParticipant(t *testing.T) {
	svc, orderRepo, _, _, _ := newOrderService()
	ctx := context.Background()

	orderID := uuid.New()
	order := &models.Order{
		ID:           orderID,
		BuyerID:      uuid.New(),
		FreelancerID: uuid.New(),
		Amount:       500,
		Status:       models.OrderStatusPending,
	}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)

	_, err := svc.GetOrder(ctx, orderID, uuid.New())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOrderService_UpdateStatus_OnlyFreelancer(t *testing.T) {
	svc, orderRepo, _, _, _ := newOrderService()
	ctx := context.Background()

	orderID := uuid.New()
	buyerID := uuid.New()
	order := &models.Order{
		ID:           orderID,
		BuyerID:      buyerID,
		FreelancerID: uuid.New(),
		Status:       models.OrderStatusInProgress,
	}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)

	_, err := svc.UpdateStatus(ctx, orderID, buyerID, models.OrderStatusCompleted)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	svc, orderRepo, _, _, _ := newOrderService()
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()
	order := &models.Order{
		ID:           orderID,
		BuyerID:      uuid.New(),
		FreelancerID: freelancerID,
		Status:       models.OrderStatusCompleted,
	}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)

	_, err := svc.UpdateStatus(ctx, orderID, freelancerID, models.OrderStatusInProgress)

	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestOrderService_UpdateStatus_CompletedSetsDeliveryDate(t *testing.T) {
	svc, orderRepo, _, _, _ := newOrderService()
	ctx := context.Background()

	orderID := uuid.New()
	freelancerID := uuid.New()
	order := &models.Order{
		ID:           orderID,
		BuyerID:      uuid.New(),
		FreelancerID: freelancerID,
		Status:       models.OrderStatusInProgress,
	}
	completed := &models.Order{ID: orderID, Status: models.OrderStatusCompleted}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	orderRepo.On("UpdateStatus", ctx, orderID, models.OrderStatusCompleted, mock.MatchedBy(func(d *time.Time) bool {
		return d != nil
	})).Return(completed, nil)

	updated, err := svc.UpdateStatus(ctx, orderID, freelancerID, models.OrderStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_CancelOrder_PendingOnly(t *testing.T) {
	svc, orderRepo, _, _, _ := newOrderService()
	ctx := context.Background()

	orderID := uuid.New()
	buyerID := uuid.New()
	order := &models.Order{
		ID:      orderID,
		BuyerID: buyerID,
		Status:  models.OrderStatusInProgress,
	}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)

	err := svc.CancelOrder(ctx, orderID, buyerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestOrderService_CancelOrder_Success(t *testing.T) {
	svc, orderRepo, _, _, _ := newOrderService()
	ctx := context.Background()

	orderID := uuid.New()
	buyerID := uuid.New()
	order := &models.Order{
		ID:      orderID,
		BuyerID: buyerID,
		Status:  models.OrderStatusPending,
	}

	orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	orderRepo.On("Delete", ctx, orderID).Return(nil)

	err := svc.CancelOrder(ctx, orderID, buyerID)

	assert.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_ListOrders_SplitsByRole(t *testing.T) {
	svc, orderRepo, _, userRepo, _ := newOrderService()
	ctx := context.Background()

	userID := uuid.New()
	user := &models.User{ID: userID, UserType: models.UserTypeBoth}

	purchases := []models.Order{{ID: uuid.New()}}
	sales := []models.Order{{ID: uuid.New()}, {ID: uuid.New()}}

	userRepo.On("GetByID", ctx, userID).Return(user, nil)
	orderRepo.On("ListByBuyer", ctx, userID).Return(purchases, nil)
	orderRepo.On("ListByFreelancer", ctx, userID).Return(sales, nil)
	orderRepo.On("GetUserOrderStats", ctx, userID).Return(map[string]int{"total": 3, "completed": 1}, nil)

	lists, err := svc.ListOrders(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, lists.Purchases, 1)
	assert.Len(t, lists.Sales, 2)
	assert.Equal(t, 3, lists.Stats["total"])
}

func TestOrderService_ListOrders_RepoError(t *testing.T) {
	svc, orderRepo, _, userRepo, _ := newOrderService()
	ctx := context.Background()

	userID := uuid.New()
	user := &models.User{ID: userID, UserType: models.UserTypeBuyer}

	userRepo.On("GetByID", ctx, userID).Return(user, nil)
	orderRepo.On("ListByBuyer", ctx, userID).Return(nil, errors.New("db down"))

	_, err := svc.ListOrders(ctx, userID)

	assert.Error(t, err)
}
