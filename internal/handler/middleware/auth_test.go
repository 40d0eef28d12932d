//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"saverly/internal/domain/user"
	"saverly/internal/pkg/jwt"
	"saverly/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockIdentityResolver struct {
	mock.Mock
}

func (m *mockIdentityResolver) Resolve(token string) (usecase.Principal, error) {
	args := m.Called(token)
	return args.Get(0).(usecase.Principal), args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	consumer := usecase.Principal{UserID: uuid.New(), Role: user.RoleConsumer}
	merchant := usecase.Principal{UserID: uuid.New(), Role: user.RoleBusiness}

	resolver := new(mockIdentityResolver)
	resolver.On("Resolve", "consumer-token").Return(consumer, nil)
	resolver.On("Resolve", "merchant-token").Return(merchant, nil)
	resolver.On("Resolve", "stale-token").Return(usecase.Principal{}, jwt.ErrExpiredToken)

	auth := NewAuthMiddleware(resolver)
	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.String(http.StatusOK, id.String())
	})
	r.POST("/confirm", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleBusiness), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(method, path, authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("principal is stored on the context", func(t *testing.T) {
		w := do(http.MethodGet, "/me", "Bearer consumer-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, consumer.UserID.String(), w.Body.String())
	})

	t.Run("missing or malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/me", "").Code)
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/me", "Basic abc").Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/me", "Bearer stale-token").Code)
	})

	t.Run("role floor", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "/confirm", "Bearer consumer-token").Code)
		assert.Equal(t, http.StatusOK, do(http.MethodPost, "/confirm", "Bearer merchant-token").Code)
	})
}
