package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity IdentityProvider
	tokens   TokenIssuer
	now      Clock
}

// NewAuthUseCase accepts a nil identity provider, in which case accounts only
// exist in the user store (local development).
func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityProvider, tokens TokenIssuer, now Clock) *AuthUseCase {
	if now == nil {
		now = time.Now
	}
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
		tokens:   tokens,
		now:      now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type AuthResult struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	uid := uuid.New().String()
	if uc.identity != nil {
		uid, err = uc.identity.CreateUser(ctx, email, input.Password, input.Name)
		if err != nil {
			if errors.StatusOf(err) < 500 {
				return nil, err
			}
			logger.Error("Register Error: identity provider: %v", err)
			return nil, errors.Internal("Failed to create user in authentication provider", err)
		}
	}

	now := uc.now()
	user := &entity.User{
		ID:                 uid,
		Name:               strings.TrimSpace(input.Name),
		Email:              email,
		PasswordHash:       string(hash),
		Role:               entity.RoleUser,
		VerificationStatus: entity.VerificationUnverified,
		OnlineStatus:       entity.OnlineStatusOffline,
		LastSeen:           now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		logger.Error("Register Error: user store: %v", err)
		if uc.identity != nil {
			if derr := uc.identity.DeleteUser(ctx, uid); derr != nil {
				logger.Warn("Register: failed to roll back identity %s: %v", uid, derr)
			}
		}
		return nil, err
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, errors.Unauthorized("This account signs in with an identity provider", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to a user id. Session tokens are tried
// first, then identity provider tokens.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.Unauthorized("Missing token", nil)
	}
	if uid, err := uc.tokens.Parse(token); err == nil {
		return uid, nil
	}
	if uc.identity == nil {
		return "", errors.Unauthorized("Invalid or expired token", nil)
	}
	uid, err := uc.identity.VerifyToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return uid, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// DevToken issues a session for the oldest user holding role. When no admin
// exists yet one is created, so a fresh development store can be administered.
func (uc *AuthUseCase) DevToken(ctx context.Context, role entity.Role) (*AuthResult, error) {
	users, err := uc.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		oldest := users[0]
		for _, u := range users[1:] {
			if u.CreatedAt.Before(oldest.CreatedAt) {
				oldest = u
			}
		}
		return uc.issue(oldest)
	}
	if role != entity.RoleAdmin {
		return nil, errors.NotFound("User with role "+string(role), nil)
	}

	now := uc.now()
	admin := &entity.User{
		ID:                 uuid.New().String(),
		Name:               "Development Admin",
		Email:              "admin@greia.local",
		Role:               entity.RoleAdmin,
		VerificationStatus: entity.VerificationVerified,
		OnlineStatus:       entity.OnlineStatusOffline,
		LastSeen:           now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	logger.Warn("Created development admin %s", admin.ID)
	return uc.issue(admin)
}
