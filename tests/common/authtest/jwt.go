//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"saverly/internal/domain/user"
	"saverly/internal/pkg/config"
	"saverly/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) service(t *testing.T) *jwt.Service {
	t.Helper()
	ttl, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return jwt.NewService(h.cfg.Secret, h.cfg.Audience, ttl)
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service(t).Issue(userID, role, time.Now())
	require.NoError(t, err)
	return token
}

// CreateExpiredToken backdates the token by a day so it is past expiry and any leeway.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service(t).Issue(userID, role, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	return token
}

// Sealer returns the QR payload sealer configured for the app under test.
func (h *JWTHelper) Sealer() *jwt.PayloadSealer {
	return jwt.NewPayloadSealer(h.cfg.PayloadSecret)
}
