package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/inventory-system/internal/api/metrics"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login, and token verification.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a new user with a bcrypt-hashed password. The plaintext
// password is never stored. An empty role defaults to customer.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !validEmail(input.Email) {
		return nil, fmt.Errorf("%w: email is malformed", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	return created, nil
}

// Login verifies the credentials and issues a signed token. Lookup failure
// and hash mismatch produce the same error so callers cannot enumerate
// registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

// Verify parses and validates a token, returning its identity claims.
// Tokens must be HS256-signed and carry an unexpired exp claim.
func (s *AuthService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{UserID: sub, Role: role}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// validEmail applies a minimal syntactic check; the transport layer performs
// full format validation before the service is reached.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
