package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/service"
)

func authTestRouter(tokens *service.TokenManager) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var seenUserID uuid.UUID

	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		seenUserID = c.MustGet(ContextUserIDKey).(uuid.UUID)
		c.Status(http.StatusOK)
	})
	return r, &seenUserID
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	tokens := service.NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	r, _ := authTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tokens := service.NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	r, _ := authTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	tokens := service.NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	r, _ := authTestRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	r, seenUserID := authTestRouter(tokens)

	user := &models.User{ID: uuid.New(), UserType: models.UserTypeBuyer}
	pair, _, _, err := tokens.GeneratePair(user)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, *seenUserID)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	issuer := service.NewTokenManager("issuer-secret", "r-secret", time.Minute, time.Hour)
	verifier := service.NewTokenManager("other-secret", "r-secret", time.Minute, time.Hour)
	r, _ := authTestRouter(verifier)

	user := &models.User{ID: uuid.New(), UserType: models.UserTypeBuyer}
	pair, _, _, err := issuer.GeneratePair(user)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
