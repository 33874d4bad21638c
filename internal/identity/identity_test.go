package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.UserAccount{}, &models.WorkerProfile{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestGenerateUserID_Format(t *testing.T) {
	id, err := GenerateUserID()
	if err != nil {
		t.Fatalf("GenerateUserID: %v", err)
	}
	if !strings.HasPrefix(id, "usr-") {
		t.Errorf("ID %q missing usr- prefix", id)
	}
	// usr- (4 chars) + 8 hex chars = 12 total
	if len(id) != 12 {
		t.Errorf("ID length = %d, want 12; id = %q", len(id), id)
	}
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if len(tok) != 32 {
		t.Errorf("token length = %d, want 32", len(tok))
	}

	other, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if tok == other {
		t.Error("two generated tokens are equal")
	}
}

func TestCreateAccountClient(t *testing.T) {
	db := openTestDB(t)

	acct, err := CreateAccount(db, CreateOpts{DisplayName: "Salem", Email: "salem@example.tn"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if acct.Role != models.RoleClient {
		t.Errorf("Role = %q, want client default", acct.Role)
	}
	if acct.Token == "" {
		t.Error("no token generated")
	}

	// Clients do not get a worker profile.
	var count int64
	db.Model(&models.WorkerProfile{}).Count(&count)
	if count != 0 {
		t.Errorf("client account created %d worker profiles", count)
	}
}

func TestCreateAccountWorker(t *testing.T) {
	db := openTestDB(t)

	acct, err := CreateAccount(db, CreateOpts{DisplayName: "Karim", Role: models.RoleWorker})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	var p models.WorkerProfile
	if err := db.Where("user_id = ?", acct.ID).First(&p).Error; err != nil {
		t.Fatalf("worker profile missing: %v", err)
	}
	if p.DisplayName != "Karim" {
		t.Errorf("profile DisplayName = %q", p.DisplayName)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	db := openTestDB(t)

	if _, err := CreateAccount(db, CreateOpts{Role: models.RoleClient}); err == nil {
		t.Error("expected error for missing display name")
	}
	if _, err := CreateAccount(db, CreateOpts{DisplayName: "X", Role: "admin"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestDBProviderResolve(t *testing.T) {
	db := openTestDB(t)
	acct, err := CreateAccount(db, CreateOpts{DisplayName: "Salem", Token: "secret-token"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	p := &DBProvider{DB: db}
	ident, err := p.Resolve(context.Background(), "secret-token")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ident.ID != acct.ID || ident.DisplayName != "Salem" {
		t.Errorf("identity = %+v", ident)
	}

	if _, err := p.Resolve(context.Background(), "wrong"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve(wrong) = %v, want ErrUnauthenticated", err)
	}
	if _, err := p.Resolve(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve(empty) = %v, want ErrUnauthenticated", err)
	}
}

func TestStaticProviderResolve(t *testing.T) {
	p := &StaticProvider{Identities: map[string]Identity{
		"tok": {ID: "usr-1", DisplayName: "Test"},
	}}

	ident, err := p.Resolve(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ident.ID != "usr-1" {
		t.Errorf("identity = %+v", ident)
	}
	if _, err := p.Resolve(context.Background(), "nope"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Resolve(nope) = %v, want ErrUnauthenticated", err)
	}
}
