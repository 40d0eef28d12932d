package jwt

import (
	"time"

	"saverly/internal/domain/redemption"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type payloadClaims struct {
	RedemptionID uuid.UUID `json:"rid"`
	CouponID     uuid.UUID `json:"cid"`
	UserID       uuid.UUID `json:"uid"`
	BusinessID   uuid.UUID `json:"bid"`
	Version      string    `json:"v"`
	jwt.RegisteredClaims
}

// PayloadSealer signs QR payloads as compact HS256 tokens. Expiry is not checked here: the
// store decides whether a redemption is still pending, using the server clock.
type PayloadSealer struct {
	secretKey []byte
	parser    *jwt.Parser
}

func NewPayloadSealer(secretKey string) *PayloadSealer {
	return &PayloadSealer{
		secretKey: []byte(secretKey),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (s *PayloadSealer) Seal(c redemption.PayloadClaims) (string, error) {
	claims := payloadClaims{
		RedemptionID: c.RedemptionID,
		CouponID:     c.CouponID,
		UserID:       c.UserID,
		BusinessID:   c.BusinessID,
		Version:      c.Version,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        c.RedemptionID.String(),
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

func (s *PayloadSealer) Open(payload string) (redemption.PayloadClaims, error) {
	var claims payloadClaims
	_, err := s.parser.ParseWithClaims(payload, &claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	})
	if err != nil || claims.RedemptionID == uuid.Nil {
		return redemption.PayloadClaims{}, redemption.ErrInvalidPayload
	}

	return redemption.PayloadClaims{
		RedemptionID: claims.RedemptionID,
		CouponID:     claims.CouponID,
		UserID:       claims.UserID,
		BusinessID:   claims.BusinessID,
		IssuedAt:     numericTime(claims.IssuedAt),
		ExpiresAt:    numericTime(claims.ExpiresAt),
		Version:      claims.Version,
	}, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time.UTC()
}
