package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
	"github.com/skillbazar/backend/internal/validation"
)

// ReviewRepository описывает зависимости ReviewService от слоя хранилища.
type ReviewRepository interface {
	CreateWithAggregates(ctx context.Context, review *models.Review) error
	GetByGigAndReviewer(ctx context.Context, gigID, reviewerID uuid.UUID) (*models.Review, error)
	ListByGig(ctx context.Context, gigID uuid.UUID, limit, offset int) ([]models.Review, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error)
}

// OrderCheckerForReview проверяет наличие завершённого заказа.
type OrderCheckerForReview interface {
	HasCompletedOrder(ctx context.Context, gigID, buyerID uuid.UUID) (bool, error)
}

// ReviewService инкапсулирует бизнес-логику отзывов.
type ReviewService struct {
	repo   ReviewRepository
	gigs   GigReaderForOrder
	orders OrderCheckerForReview
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewRepository, gigs GigReaderForOrder, orders OrderCheckerForReview) *ReviewService {
	return &ReviewService{repo: repo, gigs: gigs, orders: orders}
}

// CreateReview создаёт отзыв на услугу. Доступно покупателю
// с завершённым заказом, один отзыв на услугу от пользователя.
// Агрегаты услуги и фрилансера пересчитываются атомарно вместе со вставкой.
func (s *ReviewService) CreateReview(ctx context.Context, gigID, reviewerID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("комментарий", comment, 0, validation.MaxCommentLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	gig, err := s.gigs.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if gig.FreelancerID == reviewerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя оставить отзыв на собственную услугу")
	}

	// Без завершённого заказа покупателя подходящий заказ просто не найден
	completed, err := s.orders.HasCompletedOrder(ctx, gigID, reviewerID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, apperror.ErrOrderNotFound
	}

	existing, err := s.repo.GetByGigAndReviewer(ctx, gigID, reviewerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateReview
	}

	review := &models.Review{
		GigID:        gigID,
		ReviewerID:   reviewerID,
		FreelancerID: gig.FreelancerID,
		Rating:       rating,
		Comment:      comment,
	}

	if err := s.repo.CreateWithAggregates(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// ListGigReviews возвращает отзывы на услугу.
func (s *ReviewService) ListGigReviews(ctx context.Context, gigID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByGig(ctx, gigID, limit, offset)
}

// ListFreelancerReviews возвращает отзывы на все услуги фрилансера.
func (s *ReviewService) ListFreelancerReviews(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByFreelancer(ctx, freelancerID, limit, offset)
}
