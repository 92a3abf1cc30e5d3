//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"houseboat-booking/internal/domain/user"
	"houseboat-booking/internal/pkg/config"
	"houseboat-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the identity provider does.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, h.cfg.Options()).Issue(userID, role)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken is already past the verifier's leeway when returned.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	opts := h.cfg.Options()
	opts.TTL = -(h.cfg.Leeway + time.Minute)
	token, err := jwt.NewService(h.cfg.Secret, opts).Issue(userID, role)
	require.NoError(t, err)
	return token
}
