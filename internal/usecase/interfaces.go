package usecase

import (
	"context"
	"io"
	"time"

	"greia/internal/domain/entity"
)

// IdentityProvider is the external account store (Firebase Auth).
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, token string) (string, error)
}

// TokenIssuer issues and validates session tokens for credential login.
type TokenIssuer interface {
	Issue(userID string, role entity.Role) (string, time.Time, error)
	Parse(token string) (string, error)
}

// Broadcaster pushes realtime events to connected users.
type Broadcaster interface {
	Publish(userIDs []string, event string, data interface{})
	IsOnline(ctx context.Context, userID string) bool
}

// FileStorage stores uploaded objects and returns their URL.
type FileStorage interface {
	Upload(ctx context.Context, objectName string, r io.Reader, contentType string, public bool) (string, error)
}

// Limiter answers whether the caller identified by key may act now.
type Limiter interface {
	Allow(key string) bool
}

// Clock is injected so tests can pin time.
type Clock func() time.Time

type noopBroadcaster struct{}

func (noopBroadcaster) Publish([]string, string, interface{}) {}
func (noopBroadcaster) IsOnline(context.Context, string) bool { return false }

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }
