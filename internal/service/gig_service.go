package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
	"github.com/skillbazar/backend/internal/repository"
	"github.com/skillbazar/backend/internal/validation"
)

// CatalogRepository описывает зависимости GigService от слоя хранилища.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateGig(ctx context.Context, gig *models.Gig) error
	GetGigByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	GetGigBySlug(ctx context.Context, slug string) (*models.Gig, error)
	ListGigs(ctx context.Context, params repository.GigFilterParams) (*repository.GigListResult, error)
	ListGigsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error)
	UpdateGig(ctx context.Context, gig *models.Gig) error
	DeleteGig(ctx context.Context, id, freelancerID uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// UserReader возвращает пользователей для проверок прав.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// GigService инкапсулирует бизнес-логику каталога услуг.
type GigService struct {
	repo  CatalogRepository
	users UserReader
}

// NewGigService создаёт сервис каталога.
func NewGigService(repo CatalogRepository, users UserReader) *GigService {
	return &GigService{repo: repo, users: users}
}

// ListCategories возвращает все категории.
func (s *GigService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// GigInput содержит данные услуги при создании или изменении.
type GigInput struct {
	CategoryID   uuid.UUID
	Title        string
	Description  string
	Price        float64
	DeliveryTime int
	ImageID      *uuid.UUID
}

// CreateGig публикует новую услугу фрилансера.
func (s *GigService) CreateGig(ctx context.Context, freelancerID uuid.UUID, in GigInput) (*models.Gig, error) {
	user, err := s.users.GetByID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	if !models.CanSell(user.UserType) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "только фрилансер может публиковать услуги")
	}

	if err := s.validateGigInput(ctx, in); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	gig := &models.Gig{
		FreelancerID: freelancerID,
		CategoryID:   in.CategoryID,
		Title:        in.Title,
		Slug:         slug,
		Description:  in.Description,
		Price:        in.Price,
		DeliveryTime: in.DeliveryTime,
		ImageID:      in.ImageID,
		IsActive:     true,
	}

	if err := s.repo.CreateGig(ctx, gig); err != nil {
		return nil, err
	}

	return gig, nil
}

// GetGig возвращает услугу и увеличивает счётчик просмотров.
func (s *GigService) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	gig, err := s.repo.GetGigByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Просмотр не должен ломать чтение
	_ = s.repo.IncrementViews(ctx, gig.ID)
	gig.Views++

	return gig, nil
}

// GetGigBySlug возвращает услугу по slug и увеличивает счётчик просмотров.
func (s *GigService) GetGigBySlug(ctx context.Context, slug string) (*models.Gig, error) {
	gig, err := s.repo.GetGigBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	_ = s.repo.IncrementViews(ctx, gig.ID)
	gig.Views++

	return gig, nil
}

// GetCategoryBySlug возвращает категорию по slug для фильтрации каталога.
func (s *GigService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, slug)
}

// ListGigs возвращает активные услуги каталога.
func (s *GigService) ListGigs(ctx context.Context, params repository.GigFilterParams) (*repository.GigListResult, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	return s.repo.ListGigs(ctx, params)
}

// ListMyGigs возвращает услуги фрилансера, включая скрытые.
func (s *GigService) ListMyGigs(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	return s.repo.ListGigsByFreelancer(ctx, freelancerID)
}

// UpdateGig изменяет услугу владельца.
func (s *GigService) UpdateGig(ctx context.Context, gigID, freelancerID uuid.UUID, in GigInput, isActive *bool) (*models.Gig, error) {
	gig, err := s.repo.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}

	if err := s.validateGigInput(ctx, in); err != nil {
		return nil, err
	}

	if in.Title != gig.Title {
		slug, err := s.uniqueSlug(ctx, in.Title)
		if err != nil {
			return nil, err
		}
		gig.Slug = slug
	}

	gig.CategoryID = in.CategoryID
	gig.Title = in.Title
	gig.Description = in.Description
	gig.Price = in.Price
	gig.DeliveryTime = in.DeliveryTime
	gig.ImageID = in.ImageID
	if isActive != nil {
		gig.IsActive = *isActive
	}

	if err := s.repo.UpdateGig(ctx, gig); err != nil {
		return nil, err
	}

	return gig, nil
}

// DeleteGig удаляет или скрывает услугу владельца.
func (s *GigService) DeleteGig(ctx context.Context, gigID, freelancerID uuid.UUID) error {
	gig, err := s.repo.GetGigByID(ctx, gigID)
	if err != nil {
		return err
	}
	if gig.FreelancerID != freelancerID {
		return apperror.ErrForbidden
	}
	return s.repo.DeleteGig(ctx, gigID, freelancerID)
}

// validateGigInput проверяет поля услуги.
func (s *GigService) validateGigInput(ctx context.Context, in GigInput) error {
	if err := validation.ValidateGigTitle(in.Title); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateGigDescription(in.Description); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDeliveryTime(in.DeliveryTime); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if _, err := s.repo.GetCategoryByID(ctx, in.CategoryID); err != nil {
		return apperror.New(apperror.ErrCodeValidation, "категория не найдена")
	}
	return nil
}

// uniqueSlug строит slug и при коллизии добавляет числовой суффикс.
func (s *GigService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := validation.Slugify(title)
	if base == "" {
		base = "gig"
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
