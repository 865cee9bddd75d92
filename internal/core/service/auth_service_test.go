package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffhub/employee-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[created.Username] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubLimiter struct {
	allowed bool
	err     error
	lastKey string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.lastKey = key
	return l.allowed, l.err
}

func newAuthService(repo *stubUserRepo, limiter *stubLimiter) *AuthService {
	return NewAuthService(repo, NewTokenIssuer("secret", time.Hour), limiter, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: true})

	res, err := svc.Register(context.Background(), "alice", "pass123", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.ID == "" {
		t.Fatalf("expected generated id")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected role to default to user, got %s", res.User.Role)
	}
	if res.User.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token with registration response")
	}
}

func TestAuthService_Register_AdminAlwaysRejected(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: true})

	if _, err := svc.Register(context.Background(), "mallory", "pass123", domain.RoleAdmin); err != domain.ErrAdminRegistration {
		t.Fatalf("expected ErrAdminRegistration, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: true})

	var ve *domain.ValidationError
	if _, err := svc.Register(context.Background(), "", "", ""); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	} else if len(ve.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", ve.Violations)
	}

	if _, err := svc.Register(context.Background(), "bob", "pass123", "superuser"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: true})

	if _, err := svc.Register(context.Background(), "bob", "pass123", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "other", ""); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: true}
	svc := newAuthService(repo, limiter)

	if _, err := svc.Register(context.Background(), "carol", "s3cret", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol", "s3cret", "10.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if limiter.lastKey != "carol:10.0.0.1" {
		t.Fatalf("unexpected limiter key: %s", limiter.lastKey)
	}

	claims, err := NewTokenIssuer("secret", time.Hour).Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != res.User.ID {
		t.Fatalf("token subject %s does not match user id %s", claims.Subject, res.User.ID)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: true})

	_, _ = svc.Register(context.Background(), "dave", "goodpass", "")
	if _, err := svc.Login(context.Background(), "dave", "badpass", "10.0.0.1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: true})

	// Unknown usernames yield the same error as a bad password.
	if _, err := svc.Login(context.Background(), "ghost", "pass", "10.0.0.1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RateLimited(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &stubLimiter{allowed: false})

	if _, err := svc.Login(context.Background(), "dave", "goodpass", "10.0.0.1"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterOutageDoesNotBlock(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubLimiter{err: errors.New("redis down")})

	_, _ = svc.Register(context.Background(), "erin", "pass123", "")
	if _, err := svc.Login(context.Background(), "erin", "pass123", "10.0.0.1"); err != nil {
		t.Fatalf("expected login to succeed during limiter outage, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// SeedAdmin
// ---------------------------------------------------------------------------

func TestAuthService_SeedAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubLimiter{allowed: true})

	if err := svc.SeedAdmin(context.Background(), "admin", "rootpass"); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := svc.SeedAdmin(context.Background(), "admin", "rootpass"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(repo.users))
	}

	admin, err := repo.FindByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("admin not found: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
}

func TestAuthService_SeedAdmin_SkipsWhenUnconfigured(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &stubLimiter{allowed: true})

	if err := svc.SeedAdmin(context.Background(), "", ""); err != nil {
		t.Fatalf("expected nil for missing credentials, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no accounts, got %d", len(repo.users))
	}
}
