package usecase

import (
	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/pkg/jwt"
)

var ErrUnauthenticated = errs.New("unauthenticated")

// TokenValidator turns an identity provider access token into the caller.
type TokenValidator interface {
	ValidateToken(tokenString string) (user.Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (user.Principal, error) {
	claims, err := t.jwtService.Verify(tokenString)
	if err != nil {
		return user.Principal{}, errs.Mark(err, ErrUnauthenticated)
	}

	userID, err := claims.UserID()
	if err != nil {
		return user.Principal{}, errs.Mark(err, ErrUnauthenticated)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return user.Principal{}, errs.Mark(errs.Wrapf(err, "role %q", claims.Role), ErrUnauthenticated)
	}

	return user.Principal{UserID: userID, Role: role}, nil
}
