package auth

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/Zwubman/team-work-supply-tracker/internal/users"
	pkgAuth "github.com/Zwubman/team-work-supply-tracker/pkg/auth"
	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
	"github.com/Zwubman/team-work-supply-tracker/pkg/db/models"
	"github.com/Zwubman/team-work-supply-tracker/pkg/enums"
	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
	"github.com/Zwubman/team-work-supply-tracker/pkg/security"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	createFn      func(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	findByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, dto)
	}
	return dto.ToModel(), nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "supplytracker-test",
		ExpirationMinutes:      120,
		RefreshTokenTTLMinutes: 43200,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo userRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestService_Register(t *testing.T) {
	repo := &fakeUserRepo{
		createFn: func(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
			if dto.Email != "supplier@example.com" {
				t.Fatalf("expected normalized email, got %q", dto.Email)
			}
			if dto.Role != enums.RoleSupplier {
				t.Fatalf("expected supplier role, got %q", dto.Role)
			}
			if dto.PasswordHash == "" || dto.PasswordHash == "hunter2secret" {
				t.Fatal("expected hashed password")
			}
			return dto.ToModel(), nil
		},
	}

	svc := newTestService(t, repo)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "  Sam Supplier ",
		Email:    " Supplier@Example.COM ",
		Password: "hunter2secret",
		Role:     "supplier",
	})
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if resp.User == nil || resp.User.Name != "Sam Supplier" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestService_RegisterDefaultsRole(t *testing.T) {
	repo := &fakeUserRepo{
		createFn: func(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
			if dto.Role != enums.RoleUser {
				t.Fatalf("expected default user role, got %q", dto.Role)
			}
			return dto.ToModel(), nil
		},
	}

	svc := newTestService(t, repo)
	if _, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Plain User",
		Email:    "user@example.com",
		Password: "hunter2secret",
	}); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
}

func TestService_RegisterInvalidRole(t *testing.T) {
	svc := newTestService(t, &fakeUserRepo{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Bad Role",
		Email:    "bad@example.com",
		Password: "hunter2secret",
		Role:     "superadmin",
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{
		createFn: func(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
			return nil, errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		},
	}

	svc := newTestService(t, repo)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Dup",
		Email:    "dup@example.com",
		Password: "hunter2secret",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	hash, err := security.HashPassword("hunter2secret", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account := &models.User{
		ID:           uuid.New(),
		Name:         "Alice Admin",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         enums.RoleAdmin,
	}

	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			if email != "alice@example.com" {
				return nil, gorm.ErrRecordNotFound
			}
			return account, nil
		},
	}

	svc := newTestService(t, repo)
	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Alice@Example.com ",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("unexpected login error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens to be minted")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != account.ID {
		t.Fatalf("expected subject %s, got %s", account.ID, claims.UserID)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role claim, got %q", claims.Role)
	}
}

func TestService_LoginWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("correct-password", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &fakeUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email, PasswordHash: hash, Role: enums.RoleUser}, nil
		},
	}

	svc := newTestService(t, repo)
	_, err = svc.Login(context.Background(), LoginRequest{Email: "x@example.com", Password: "wrong"})
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestService_LoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, &fakeUserRepo{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
	got := pkgerrors.As(err)
	if got.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if got.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic credentials message, got %q", got.Message())
	}
}
