package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillbazar/backend/internal/domain/valueobject"
	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

// ReviewRepository отвечает за отзывы и пересчёт агрегатов рейтинга.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт новый экземпляр.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateWithAggregates сохраняет отзыв и пересчитывает агрегаты услуги
// и фрилансера в одной транзакции. Строки услуги и фрилансера блокируются,
// чтобы конкурентные отзывы не потеряли обновления.
func (r *ReviewRepository) CreateWithAggregates(ctx context.Context, review *models.Review) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("review repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedGigID uuid.UUID
	if err = tx.QueryRowxContext(ctx, `SELECT id FROM gigs WHERE id = $1 FOR UPDATE`, review.GigID).Scan(&lockedGigID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperror.ErrGigNotFound
			return err
		}
		return fmt.Errorf("review repository: lock gig %w", err)
	}

	var lockedUserID uuid.UUID
	if err = tx.QueryRowxContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, review.FreelancerID).Scan(&lockedUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = apperror.ErrUserNotFound
			return err
		}
		return fmt.Errorf("review repository: lock freelancer %w", err)
	}

	insertQuery := `
		INSERT INTO reviews (gig_id, reviewer_id, freelancer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowxContext(
		ctx,
		insertQuery,
		review.GigID,
		review.ReviewerID,
		review.FreelancerID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			err = apperror.ErrDuplicateReview
			return err
		}
		return fmt.Errorf("review repository: insert %w", err)
	}

	// Агрегаты услуги: средняя оценка с округлением до сотых и число отзывов.
	// Строка услуги заблокирована выше, конкурентный пересчёт сериализован.
	var gigRatings []int
	if err = tx.SelectContext(ctx, &gigRatings, `SELECT rating FROM reviews WHERE gig_id = $1`, review.GigID); err != nil {
		return fmt.Errorf("review repository: load gig ratings %w", err)
	}
	gigRating, gigTotal := valueobject.ReviewAggregate(gigRatings)
	gigAggQuery := `UPDATE gigs SET rating = $2, total_reviews = $3, updated_at = NOW() WHERE id = $1`
	if _, err = tx.ExecContext(ctx, gigAggQuery, review.GigID, gigRating, gigTotal); err != nil {
		return fmt.Errorf("review repository: recompute gig aggregates %w", err)
	}

	// Агрегаты фрилансера: по всем отзывам на все его услуги
	var freelancerRatings []int
	if err = tx.SelectContext(ctx, &freelancerRatings, `SELECT rating FROM reviews WHERE freelancer_id = $1`, review.FreelancerID); err != nil {
		return fmt.Errorf("review repository: load freelancer ratings %w", err)
	}
	userRating, userTotal := valueobject.ReviewAggregate(freelancerRatings)
	userAggQuery := `UPDATE users SET rating = $2, total_reviews = $3, updated_at = NOW() WHERE id = $1`
	if _, err = tx.ExecContext(ctx, userAggQuery, review.FreelancerID, userRating, userTotal); err != nil {
		return fmt.Errorf("review repository: recompute freelancer aggregates %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("review repository: commit %w", err)
	}

	return nil
}

// GetByGigAndReviewer проверяет, оставлял ли пользователь отзыв на услугу.
func (r *ReviewRepository) GetByGigAndReviewer(ctx context.Context, gigID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE gig_id = $1 AND reviewer_id = $2`, gigID, reviewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("review repository: get by gig and reviewer %w", err)
	}
	return &review, nil
}

// ListByGig возвращает отзывы на услугу, новые первыми.
func (r *ReviewRepository) ListByGig(ctx context.Context, gigID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := `SELECT * FROM reviews WHERE gig_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &reviews, query, gigID, limit, offset); err != nil {
		return nil, fmt.Errorf("review repository: list by gig %w", err)
	}
	return reviews, nil
}

// ListByFreelancer возвращает отзывы на все услуги фрилансера, новые первыми.
func (r *ReviewRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := `SELECT * FROM reviews WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &reviews, query, freelancerID, limit, offset); err != nil {
		return nil, fmt.Errorf("review repository: list by freelancer %w", err)
	}
	return reviews, nil
}
