package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a user account.
type CreateOpts struct {
	DisplayName string
	Email       string
	Role        string // client (default) or worker
	Token       string // generated when empty
}

// GenerateUserID creates a unique account ID in usr-xxxxxxxx format.
func GenerateUserID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("identity: generate ID: %w", err)
	}
	return "usr-" + hex.EncodeToString(b), nil
}

// GenerateToken creates an opaque bearer secret.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("identity: generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CreateAccount registers a user account. Workers also get an empty
// profile row so their public page resolves immediately.
func CreateAccount(gormDB *gorm.DB, opts CreateOpts) (*models.UserAccount, error) {
	if opts.DisplayName == "" {
		return nil, fmt.Errorf("identity: display name is required")
	}
	switch opts.Role {
	case "":
		opts.Role = models.RoleClient
	case models.RoleClient, models.RoleWorker:
	default:
		return nil, fmt.Errorf("identity: unknown role %q", opts.Role)
	}

	id, err := generateUniqueUserID(gormDB)
	if err != nil {
		return nil, err
	}
	token := opts.Token
	if token == "" {
		token, err = GenerateToken()
		if err != nil {
			return nil, err
		}
	}

	acct := models.UserAccount{
		ID:          id,
		DisplayName: opts.DisplayName,
		Email:       opts.Email,
		Role:        opts.Role,
		Token:       token,
	}
	if err := gormDB.Create(&acct).Error; err != nil {
		return nil, fmt.Errorf("identity: create account: %w", err)
	}

	if acct.Role == models.RoleWorker {
		profile := models.WorkerProfile{
			UserID:      acct.ID,
			DisplayName: acct.DisplayName,
		}
		if err := gormDB.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("identity: create worker profile: %w", err)
		}
	}
	return &acct, nil
}

// generateUniqueUserID generates an ID and retries once on collision.
func generateUniqueUserID(gormDB *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateUserID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := gormDB.Model(&models.UserAccount{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("identity: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("identity: failed to generate unique ID after retries")
}
