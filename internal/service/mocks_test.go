package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) UpdatePhoto(ctx context.Context, userID uuid.UUID, photoID *uuid.UUID) error {
	args := m.Called(ctx, userID, photoID)
	return args.Error(0)
}

func (m *mockUserRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockUserRepo) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockUserRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCatalogRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCatalogRepo) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCatalogRepo) CreateGig(ctx context.Context, gig *models.Gig) error {
	args := m.Called(ctx, gig)
	if args.Error(0) == nil {
		gig.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCatalogRepo) GetGigByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func (m *mockCatalogRepo) GetGigBySlug(ctx context.Context, slug string) (*models.Gig, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func (m *mockCatalogRepo) ListGigs(ctx context.Context, params repository.GigFilterParams) (*repository.GigListResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GigListResult), args.Error(1)
}

func (m *mockCatalogRepo) ListGigsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]models.Gig), args.Error(1)
}

func (m *mockCatalogRepo) UpdateGig(ctx context.Context, gig *models.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *mockCatalogRepo) DeleteGig(ctx context.Context, id, freelancerID uuid.UUID) error {
	args := m.Called(ctx, id, freelancerID)
	return args.Error(0)
}

func (m *mockCatalogRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCatalogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, deliveryDate *time.Time) (*models.Order, error) {
	args := m.Called(ctx, id, status, deliveryDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) GetUserOrderStats(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *mockOrderRepo) HasCompletedOrder(ctx context.Context, gigID, buyerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, gigID, buyerID)
	return args.Bool(0), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) CreateWithAggregates(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) GetByGigAndReviewer(ctx context.Context, gigID, reviewerID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, gigID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByGig(ctx context.Context, gigID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, gigID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, freelancerID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	if args.Error(0) == nil {
		payment.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPaymentRepo) GetByOrderAndPidx(ctx context.Context, orderID, pidx uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, orderID, pidx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) GetLatestByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ConfirmCompleted(ctx context.Context, paymentID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, paymentID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) Create(ctx context.Context, conv *models.Conversation, first, second uuid.UUID) error {
	args := m.Called(ctx, conv, first, second)
	if args.Error(0) == nil {
		conv.ID = uuid.New()
		conv.Participants = []uuid.UUID{first, second}
	}
	return args.Error(0)
}

func (m *mockConversationRepo) GetByParticipants(ctx context.Context, first, second uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, first, second)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationRepo) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockConversationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConversationPreview), args.Error(1)
}

func (m *mockConversationRepo) AddMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func (m *mockConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubReplyGenerator возвращает предсказуемые тексты вместо случайных.
type stubReplyGenerator struct{}

func (stubReplyGenerator) Welcome(name string) string {
	return fmt.Sprintf("Hi! I'm %s.", name)
}

func (stubReplyGenerator) Reply(_, name string) string {
	return fmt.Sprintf("Thanks! I'm %s.", name)
}

// recordingNotifier запоминает доставленные уведомления.
type recordingNotifier struct {
	delivered []uuid.UUID
}

func (n *recordingNotifier) NotifyNewMessage(recipientID uuid.UUID, _ *models.Message) {
	n.delivered = append(n.delivered, recipientID)
}
