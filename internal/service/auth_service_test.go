package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/smartdesk/internal/config"
	"github.com/spec-kit/smartdesk/internal/domain"
	apperrors "github.com/spec-kit/smartdesk/pkg/util/errorutil"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = "u-" + user.Email
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func testAuthConfig() config.Config {
	var cfg config.Config
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.BcryptCost = 4
	cfg.Auth.MinPasswordLength = 6
	return cfg
}

func TestSignupCoercesUnknownRole(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserRepo())

	user, token, _, err := svc.Signup(context.Background(), "Ann", "ANN@Example.com ", "hunter22", domain.UserRole("superuser"))
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Role != domain.UserRoleUser {
		t.Fatalf("role = %q, want user", user.Role)
	}
	if user.Email != "ann@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if token == "" {
		t.Fatal("token not issued")
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserRepo())

	_, _, _, err := svc.Signup(context.Background(), "Ann", "ann@example.com", "abc", domain.UserRoleUser)
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testAuthConfig(), repo)

	if _, _, _, err := svc.Signup(context.Background(), "Ann", "ann@example.com", "hunter22", domain.UserRoleUser); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, _, _, err := svc.Signup(context.Background(), "Ann Again", "Ann@example.com", "hunter22", domain.UserRoleUser)
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testAuthConfig(), repo)

	if _, _, _, err := svc.Signup(context.Background(), "Ann", "ann@example.com", "hunter22", domain.UserRoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, token, _, err := svc.Login(context.Background(), "ann@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || user.Email != "ann@example.com" {
		t.Fatalf("unexpected login result: %+v", user)
	}

	_, _, _, err = svc.Login(context.Background(), "ann@example.com", "wrong-pass")
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}

	_, _, _, err = svc.Login(context.Background(), "ghost@example.com", "hunter22")
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "UNAUTHORIZED" {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}
