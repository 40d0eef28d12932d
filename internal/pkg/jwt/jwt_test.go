//go:build unit

package jwt_test

import (
	"strings"
	"testing"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/domain/user"
	"saverly/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Verify(t *testing.T) {
	svc := jwt.NewService("secret", "authenticated", time.Hour)
	userID := uuid.New()
	now := time.Now()

	t.Run("subject and app role", func(t *testing.T) {
		token, err := svc.Issue(userID, user.RoleBusiness, now)
		require.NoError(t, err)

		id, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, jwt.Identity{UserID: userID, Role: "business"}, id)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other", "authenticated", time.Hour).Issue(userID, user.RoleConsumer, now)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		token, err := jwt.NewService("secret", "service_role", time.Hour).Issue(userID, user.RoleConsumer, now)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired beyond leeway", func(t *testing.T) {
		token, err := svc.Issue(userID, user.RoleConsumer, now.Add(-time.Hour-time.Minute))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("small clock skew is tolerated", func(t *testing.T) {
		token, err := svc.Issue(userID, user.RoleConsumer, now.Add(-time.Hour-2*time.Second))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

func TestPayloadSealer(t *testing.T) {
	sealer := jwt.NewPayloadSealer("payload-secret")
	issued := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	claims := redemption.PayloadClaims{
		RedemptionID: uuid.New(),
		CouponID:     uuid.New(),
		UserID:       uuid.New(),
		BusinessID:   uuid.New(),
		IssuedAt:     issued,
		ExpiresAt:    issued.Add(redemption.TokenTTL),
		Version:      redemption.PayloadVersion,
	}

	t.Run("opens what it seals, even after expiry", func(t *testing.T) {
		payload, err := sealer.Seal(claims)
		require.NoError(t, err)

		got, err := sealer.Open(payload)
		require.NoError(t, err)
		assert.Equal(t, claims, got)
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		payload, err := sealer.Seal(claims)
		require.NoError(t, err)

		parts := strings.Split(payload, ".")
		require.Len(t, parts, 3)
		forged := claims
		forged.RedemptionID = uuid.New()
		other, err := jwt.NewPayloadSealer("attacker").Seal(forged)
		require.NoError(t, err)
		tampered := strings.Split(other, ".")[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

		_, err = sealer.Open(tampered)
		assert.ErrorIs(t, err, redemption.ErrInvalidPayload)
	})

	t.Run("payload signed with another key is rejected", func(t *testing.T) {
		payload, err := jwt.NewPayloadSealer("attacker").Seal(claims)
		require.NoError(t, err)
		_, err = sealer.Open(payload)
		assert.ErrorIs(t, err, redemption.ErrInvalidPayload)
	})
}
