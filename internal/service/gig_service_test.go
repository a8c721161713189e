package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
	"github.com/skillbazar/backend/internal/repository"
)

func newGigService() (*GigService, *mockCatalogRepo, *mockUserRepo) {
	catalogRepo := new(mockCatalogRepo)
	userRepo := new(mockUserRepo)
	svc := NewGigService(catalogRepo, userRepo)
	return svc, catalogRepo, userRepo
}

func validGigInput(categoryID uuid.UUID) GigInput {
	return GigInput{
		CategoryID:   categoryID,
		Title:        "Дизайн логотипа",
		Description:  "Нарисую уникальный логотип для вашего бренда",
		Price:        2500,
		DeliveryTime: 3,
	}
}

func TestGigService_CreateGig_Success(t *testing.T) {
	svc, catalogRepo, userRepo := newGigService()
	ctx := context.Background()

	freelancerID := uuid.New()
	categoryID := uuid.New()
	freelancer := &models.User{ID: freelancerID, UserType: models.UserTypeFreelancer}
	category := &models.Category{ID: categoryID}

	userRepo.On("GetByID", ctx, freelancerID).Return(freelancer, nil)
	catalogRepo.On("GetCategoryByID", ctx, categoryID).Return(category, nil)
	catalogRepo.On("SlugExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	catalogRepo.On("CreateGig", ctx, mock.AnythingOfType("*models.Gig")).Return(nil)

	gig, err := svc.CreateGig(ctx, freelancerID, validGigInput(categoryID))

	assert.NoError(t, err)
	assert.NotNil(t, gig)
	assert.True(t, gig.IsActive)
	assert.Equal(t, freelancerID, gig.FreelancerID)
}

func TestGigService_CreateGig_BuyerForbidden(t *testing.T) {
	svc, _, userRepo := newGigService()
	ctx := context.Background()

	buyerID := uuid.New()
	buyer := &models.User{ID: buyerID, UserType: models.UserTypeBuyer}

	userRepo.On("GetByID", ctx, buyerID).Return(buyer, nil)

	_, err := svc.CreateGig(ctx, buyerID, validGigInput(uuid.New()))

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestGigService_CreateGig_InvalidPrice(t *testing.T) {
	svc, _, userRepo := newGigService()
	ctx := context.Background()

	freelancerID := uuid.New()
	freelancer := &models.User{ID: freelancerID, UserType: models.UserTypeFreelancer}

	userRepo.On("GetByID", ctx, freelancerID).Return(freelancer, nil)

	in := validGigInput(uuid.New())
	in.Price = 0

	_, err := svc.CreateGig(ctx, freelancerID, in)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestGigService_CreateGig_SlugCollision(t *testing.T) {
	svc, catalogRepo, userRepo := newGigService()
	ctx := context.Background()

	freelancerID := uuid.New()
	categoryID := uuid.New()
	freelancer := &models.User{ID: freelancerID, UserType: models.UserTypeBoth}
	category := &models.Category{ID: categoryID}

	in := validGigInput(categoryID)
	in.Title = "Logo design"

	userRepo.On("GetByID", ctx, freelancerID).Return(freelancer, nil)
	catalogRepo.On("GetCategoryByID", ctx, categoryID).Return(category, nil)
	catalogRepo.On("SlugExists", ctx, "logo-design").Return(true, nil)
	catalogRepo.On("SlugExists", ctx, "logo-design-2").Return(false, nil)
	catalogRepo.On("CreateGig", ctx, mock.AnythingOfType("*models.Gig")).Return(nil)

	gig, err := svc.CreateGig(ctx, freelancerID, in)

	assert.NoError(t, err)
	assert.Equal(t, "logo-design-2", gig.Slug)
}

func TestGigService_GetGig_IncrementsViews(t *testing.T) {
	svc, catalogRepo, _ := newGigService()
	ctx := context.Background()

	gigID := uuid.New()
	gig := &models.Gig{ID: gigID, Views: 7}

	catalogRepo.On("GetGigByID", ctx, gigID).Return(gig, nil)
	catalogRepo.On("IncrementViews", ctx, gigID).Return(nil)

	got, err := svc.GetGig(ctx, gigID)

	assert.NoError(t, err)
	assert.Equal(t, 8, got.Views)
	catalogRepo.AssertCalled(t, "IncrementViews", ctx, gigID)
}

func TestGigService_ListGigs_ClampsLimit(t *testing.T) {
	svc, catalogRepo, _ := newGigService()
	ctx := context.Background()

	result := &repository.GigListResult{Gigs: []models.Gig{}, Limit: 20}

	catalogRepo.On("ListGigs", ctx, mock.MatchedBy(func(p repository.GigFilterParams) bool {
		return p.Limit == 20
	})).Return(result, nil)

	_, err := svc.ListGigs(ctx, repository.GigFilterParams{Limit: 500})

	assert.NoError(t, err)
	catalogRepo.AssertExpectations(t)
}

func TestGigService_UpdateGig_NotOwner(t *testing.T) {
	svc, catalogRepo, _ := newGigService()
	ctx := context.Background()

	gigID := uuid.New()
	gig := &models.Gig{ID: gigID, FreelancerID: uuid.New()}

	catalogRepo.On("GetGigByID", ctx, gigID).Return(gig, nil)

	_, err := svc.UpdateGig(ctx, gigID, uuid.New(), validGigInput(uuid.New()), nil)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestGigService_DeleteGig_NotOwner(t *testing.T) {
	svc, catalogRepo, _ := newGigService()
	ctx := context.Background()

	gigID := uuid.New()
	gig := &models.Gig{ID: gigID, FreelancerID: uuid.New()}

	catalogRepo.On("GetGigByID", ctx, gigID).Return(gig, nil)

	err := svc.DeleteGig(ctx, gigID, uuid.New())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	catalogRepo.AssertNotCalled(t, "DeleteGig", mock.Anything, mock.Anything, mock.Anything)
}
