package usecase

import (
	"saverly/internal/domain/user"
	"saverly/internal/pkg/jwt"

	"github.com/google/uuid"
)

// Principal is the caller behind a bearer token.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

type IdentityResolver interface {
	Resolve(token string) (Principal, error)
}

type bearerResolver struct {
	verifier *jwt.Service
}

func NewIdentityResolver(verifier *jwt.Service) IdentityResolver {
	return &bearerResolver{verifier: verifier}
}

// Resolve treats a token without an app role as a consumer's: the auth provider only stamps the
// claim on merchant and staff accounts.
func (r *bearerResolver) Resolve(token string) (Principal, error) {
	id, err := r.verifier.Verify(token)
	if err != nil {
		return Principal{}, err
	}
	if id.Role == "" {
		return Principal{UserID: id.UserID, Role: user.RoleConsumer}, nil
	}

	role, err := user.NewRole(id.Role)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: id.UserID, Role: role}, nil
}
