package jwt

import (
	"errors"
	"time"

	"saverly/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const clockLeeway = 5 * time.Second

// bearerClaims mirror the access tokens minted by the auth provider: the subject is the user id
// and the application role travels in a custom claim.
type bearerClaims struct {
	AppRole string `json:"app_role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what a verified bearer token says about its holder.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// Service verifies bearer tokens signed with the secret shared with the auth provider.
type Service struct {
	secretKey []byte
	audience  string
	ttl       time.Duration
	parser    *jwt.Parser
}

// NewService builds a verifier. An empty audience skips the aud check.
func NewService(secretKey, audience string, ttl time.Duration) *Service {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockLeeway),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &Service{
		secretKey: []byte(secretKey),
		audience:  audience,
		ttl:       ttl,
		parser:    jwt.NewParser(opts...),
	}
}

// Issue mints a token the way the auth provider would. Used by tooling and tests that share the secret.
func (s *Service) Issue(userID uuid.UUID, role user.Role, issuedAt time.Time) (string, error) {
	claims := bearerClaims{
		AppRole: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

func (s *Service) Verify(tokenString string) (Identity, error) {
	var claims bearerClaims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, ErrExpiredToken
	case err != nil:
		return Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: userID, Role: claims.AppRole}, nil
}
