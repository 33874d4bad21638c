// Package identity resolves authenticated identities from bearer tokens.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/gorm"
)

// ErrUnauthenticated is returned when no identity can be resolved for a
// request. Mutating operations fail with it before any side effect.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// ErrNotAuthorized is returned when a resolved identity attempts an
// operation on a resource it does not own.
var ErrNotAuthorized = errors.New("identity: not authorized")

// Identity is the resolved authenticated user.
type Identity struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
}

// Provider resolves a bearer token to an identity.
type Provider interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// DBProvider resolves tokens against the user_accounts table.
type DBProvider struct {
	DB *gorm.DB
}

// Resolve looks up the account holding the given token.
func (p *DBProvider) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var acct models.UserAccount
	err := p.DB.WithContext(ctx).Where("token = ?", token).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("identity: resolve token: %w", err)
	}
	return &Identity{
		ID:          acct.ID,
		DisplayName: acct.DisplayName,
		Email:       acct.Email,
		Role:        acct.Role,
	}, nil
}

// StaticProvider resolves tokens from a fixed map. Used in tests.
type StaticProvider struct {
	Identities map[string]Identity // token → identity
}

// Resolve returns the identity mapped to token, or ErrUnauthenticated.
func (p *StaticProvider) Resolve(ctx context.Context, token string) (*Identity, error) {
	id, ok := p.Identities[token]
	if !ok {
		return nil, ErrUnauthenticated
	}
	return &id, nil
}
