package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

type stubAuthRepo struct {
	users  map[string]*domain.User // keyed by email
	nextID int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "secret1" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected default role %q, got %q", domain.RoleCustomer, user.Role)
	}
	if user.ID == "" {
		t.Fatal("expected a generated id")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	cases := []struct {
		name  string
		input ports.RegisterInput
	}{
		{"empty name", ports.RegisterInput{Email: "a@x.com", Password: "secret1"}},
		{"bad email", ports.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}},
		{"short password", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abc"}},
		{"bad role", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "root"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput()); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	input := registerInput()
	input.Role = domain.RoleAdmin
	user, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty")
	}
	if user.Email != "ann@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != registered.ID {
		t.Fatalf("claims user id %q does not match registered id %q", claims.UserID, registered.ID)
	}
	if claims.Role != domain.RoleCustomer {
		t.Fatalf("expected default role in claims, got %q", claims.Role)
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, errWrongPass := svc.Login(context.Background(), "ann@example.com", "wrong")
	_, _, errNoUser := svc.Login(context.Background(), "nobody@example.com", "secret1")

	if !errors.Is(errWrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Fatal("wrong-password and unknown-email errors must not be distinguishable")
	}
}

func TestAuthService_Verify_RejectsTampered(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.Verify("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	// Signed with a different secret.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": domain.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	forged, _ := other.SignedString([]byte("other-secret"))
	if _, err := svc.Verify(forged); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged token, got %v", err)
	}
}

func TestAuthService_Verify_RejectsExpired(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": domain.RoleCustomer,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	token, _ := expired.SignedString([]byte("secret"))
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestAuthService_Verify_RequiresExpiry(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	// Token without an exp claim must not verify.
	eternal := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": domain.RoleCustomer,
	})
	token, _ := eternal.SignedString([]byte("secret"))
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}
}
