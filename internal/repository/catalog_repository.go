package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

var ErrCategoryNotFound = errors.New("категория не найдена")

// CatalogRepository отвечает за категории и услуги.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository создаёт новый экземпляр.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories возвращает все категории в алфавитном порядке.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	query := `SELECT * FROM categories ORDER BY name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("catalog repository: list categories %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug возвращает категорию по slug.
func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, `SELECT * FROM categories WHERE slug = $1`, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("catalog repository: get category by slug %w", err)
	}
	return &category, nil
}

// GetCategoryByID возвращает категорию по идентификатору.
func (r *CatalogRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, `SELECT * FROM categories WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("catalog repository: get category by id %w", err)
	}
	return &category, nil
}

// CreateGig сохраняет новую услугу.
func (r *CatalogRepository) CreateGig(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (freelancer_id, category_id, title, slug, description, price, delivery_time, image_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		gig.FreelancerID,
		gig.CategoryID,
		gig.Title,
		gig.Slug,
		gig.Description,
		gig.Price,
		gig.DeliveryTime,
		gig.ImageID,
		gig.IsActive,
	).Scan(&gig.ID, &gig.CreatedAt, &gig.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog repository: create gig %w", err)
	}
	return nil
}

// GetGigByID возвращает услугу по идентификатору.
func (r *CatalogRepository) GetGigByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.GetContext(ctx, &gig, `SELECT * FROM gigs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, fmt.Errorf("catalog repository: get gig by id %w", err)
	}
	return &gig, nil
}

// GetGigBySlug возвращает услугу по slug.
func (r *CatalogRepository) GetGigBySlug(ctx context.Context, slug string) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.GetContext(ctx, &gig, `SELECT * FROM gigs WHERE slug = $1`, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, fmt.Errorf("catalog repository: get gig by slug %w", err)
	}
	return &gig, nil
}

// GigFilterParams содержит параметры фильтрации и поиска услуг.
type GigFilterParams struct {
	CategoryID *uuid.UUID
	Search     string
	PriceMin   *float64
	PriceMax   *float64
	SortBy     string // "date", "price", "rating", "popular"
	SortOrder  string // "asc", "desc"
	Limit      int
	Offset     int
}

// GigListResult содержит список услуг и метаданные пагинации.
type GigListResult struct {
	Gigs    []models.Gig
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// ListGigs возвращает активные услуги с пагинацией, фильтрацией и поиском.
func (r *CatalogRepository) ListGigs(ctx context.Context, params GigFilterParams) (*GigListResult, error) {
	countQuery := `SELECT COUNT(*) FROM gigs g WHERE g.is_active = TRUE`
	query := `SELECT g.* FROM gigs g WHERE g.is_active = TRUE`

	args := []interface{}{}
	argIndex := 1

	if params.CategoryID != nil {
		clause := fmt.Sprintf(" AND g.category_id = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.CategoryID)
		argIndex++
	}

	if params.Search != "" {
		clause := fmt.Sprintf(" AND (g.title ILIKE $%d OR g.description ILIKE $%d)", argIndex, argIndex)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.PriceMin != nil {
		clause := fmt.Sprintf(" AND g.price >= $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.PriceMin)
		argIndex++
	}
	if params.PriceMax != nil {
		clause := fmt.Sprintf(" AND g.price <= $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.PriceMax)
		argIndex++
	}

	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	switch params.SortBy {
	case "price":
		query += " ORDER BY g.price " + sortOrder
	case "rating":
		query += " ORDER BY g.rating " + sortOrder + ", g.total_reviews DESC"
	case "popular":
		query += " ORDER BY g.views " + sortOrder
	default: // "date"
		query += " ORDER BY g.created_at " + sortOrder
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("catalog repository: count gigs %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++
	query += fmt.Sprintf(" OFFSET $%d", argIndex)
	args = append(args, offset)

	var gigs []models.Gig
	if err := r.db.SelectContext(ctx, &gigs, query, args...); err != nil {
		return nil, fmt.Errorf("catalog repository: list gigs %w", err)
	}

	return &GigListResult{
		Gigs:    gigs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

// ListGigsByFreelancer возвращает услуги фрилансера, включая неактивные.
func (r *CatalogRepository) ListGigsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	var gigs []models.Gig
	query := `SELECT * FROM gigs WHERE freelancer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &gigs, query, freelancerID); err != nil {
		return nil, fmt.Errorf("catalog repository: list gigs by freelancer %w", err)
	}
	return gigs, nil
}

// UpdateGig изменяет услугу владельца.
func (r *CatalogRepository) UpdateGig(ctx context.Context, gig *models.Gig) error {
	query := `
		UPDATE gigs
		SET category_id = $3,
		    title = $4,
		    slug = $5,
		    description = $6,
		    price = $7,
		    delivery_time = $8,
		    image_id = $9,
		    is_active = $10,
		    updated_at = NOW()
		WHERE id = $1 AND freelancer_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		gig.ID,
		gig.FreelancerID,
		gig.CategoryID,
		gig.Title,
		gig.Slug,
		gig.Description,
		gig.Price,
		gig.DeliveryTime,
		gig.ImageID,
		gig.IsActive,
	).Scan(&gig.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrGigNotFound
		}
		return fmt.Errorf("catalog repository: update gig %w", err)
	}
	return nil
}

// DeleteGig удаляет услугу владельца.
func (r *CatalogRepository) DeleteGig(ctx context.Context, id, freelancerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = $1 AND freelancer_id = $2`, id, freelancerID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			// На услугу уже ссылаются заказы или отзывы, вместо удаления деактивируем
			return r.DeactivateGig(ctx, id, freelancerID)
		}
		return fmt.Errorf("catalog repository: delete gig %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog repository: delete gig rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrGigNotFound
	}
	return nil
}

// DeactivateGig скрывает услугу из каталога.
func (r *CatalogRepository) DeactivateGig(ctx context.Context, id, freelancerID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE gigs SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND freelancer_id = $2`, id, freelancerID)
	if err != nil {
		return fmt.Errorf("catalog repository: deactivate gig %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog repository: deactivate gig rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrGigNotFound
	}
	return nil
}

// IncrementViews увеличивает счётчик просмотров услуги.
func (r *CatalogRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE gigs SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog repository: increment views %w", err)
	}
	return nil
}

// SlugExists проверяет занятость slug услуги.
func (r *CatalogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM gigs WHERE slug = $1`, slug); err != nil {
		return false, fmt.Errorf("catalog repository: slug exists %w", err)
	}
	return count > 0, nil
}
