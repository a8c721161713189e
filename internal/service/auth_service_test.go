package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
	"github.com/skillbazar/backend/internal/repository"
)

func newAuthService() (*AuthService, *mockUserRepo, *TokenManager) {
	repo := new(mockUserRepo)
	tokens := NewTokenManager("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 720*time.Hour)
	svc := NewAuthService(repo, tokens)
	return svc, repo, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	repo.On("GetByUsername", ctx, "ram_thapa").Return(nil, apperror.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "Ram@Example.com",
		Password: "secret-password",
		Username: "ram_thapa",
	}, nil)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "ram@example.com", result.User.Email)
	assert.Equal(t, models.UserTypeBuyer, result.User.UserType)
	assert.True(t, result.User.IsActive)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ram@example.com",
		Password: "1234567",
		Username: "ram",
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "not-an-email",
		Password: "secret-password",
		Username: "ram",
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_InvalidUserType(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ram@example.com",
		Password: "secret-password",
		Username: "ram",
		UserType: "admin",
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	repo.On("GetByUsername", ctx, "ram").Return(nil, apperror.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repository.ErrEmailTaken)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ram@example.com",
		Password: "secret-password",
		Username: "ram",
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	existing := &models.User{ID: uuid.New(), Username: "ram"}
	repo.On("GetByUsername", ctx, "ram").Return(existing, nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ram@example.com",
		Password: "secret-password",
		Username: "ram",
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestAuthService_SetProfilePhoto(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	userID := uuid.New()
	photoID := uuid.New()
	updated := &models.User{ID: userID, PhotoID: &photoID}

	repo.On("UpdatePhoto", ctx, userID, &photoID).Return(nil)
	repo.On("GetByID", ctx, userID).Return(updated, nil)

	user, err := svc.SetProfilePhoto(ctx, userID, &photoID)

	assert.NoError(t, err)
	assert.Equal(t, &photoID, user.PhotoID)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ram@example.com",
		PasswordHash: string(hash),
		UserType:     models.UserTypeBuyer,
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "ram@example.com").Return(user, nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "ram@example.com", Password: "secret-password"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ram@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "ram@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ram@example.com", Password: "wrong"}, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ram@example.com",
		PasswordHash: string(hash),
		IsActive:     false,
	}

	repo.On("GetByEmail", ctx, "ram@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ram@example.com", Password: "secret-password"}, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperror.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"}, nil)

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	svc, repo, tokens := newAuthService()
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), UserType: models.UserTypeBuyer, IsActive: true}

	pair, _, refreshExp, err := tokens.GeneratePair(user)
	assert.NoError(t, err)

	session := &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	repo.On("GetSessionByToken", ctx, pair.RefreshToken).Return(session, nil)
	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("DeleteSession", ctx, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Refresh(ctx, pair.RefreshToken, nil)

	assert.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, result.TokenPair.RefreshToken)
	repo.AssertCalled(t, "DeleteSession", ctx, pair.RefreshToken)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt", nil)

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthService_UpdateProfile_InvalidUserType(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	userID := uuid.New()
	user := &models.User{ID: userID, UserType: models.UserTypeBuyer}

	repo.On("GetByID", ctx, userID).Return(user, nil)

	bad := "admin"
	_, err := svc.UpdateProfile(ctx, userID, ProfileUpdateInput{UserType: &bad})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_UpdateProfile_NegativeHourlyRate(t *testing.T) {
	svc, repo, _ := newAuthService()
	ctx := context.Background()

	userID := uuid.New()
	user := &models.User{ID: userID, UserType: models.UserTypeFreelancer}

	repo.On("GetByID", ctx, userID).Return(user, nil)

	rate := -10.0
	_, err := svc.UpdateProfile(ctx, userID, ProfileUpdateInput{HourlyRate: &rate})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
