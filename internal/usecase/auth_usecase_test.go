package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.Register(f.ctx, usecase.RegisterInput{Email: "Jane@Example.com", Password: "s3cret-pass", Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, entity.RoleUser, res.User.Role)
	assert.Equal(t, entity.VerificationUnverified, res.User.VerificationStatus)
	assert.NotEqual(t, "s3cret-pass", res.User.PasswordHash)

	_, err = f.auth.Register(f.ctx, usecase.RegisterInput{Email: "jane@example.com", Password: "x", Name: "Dup"})
	assert.True(t, errors.Is(err, "CONFLICT"))

	login, err := f.auth.Login(f.ctx, "jane@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = f.auth.Login(f.ctx, "jane@example.com", "wrong")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	uid, err := f.auth.Authenticate(f.ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, uid)

	_, err = f.auth.Authenticate(f.ctx, "garbage")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u", entity.RoleUser, entity.VerificationUnverified)

	empty := " "
	_, err := f.users.UpdateProfile(f.ctx, "u", usecase.UpdateProfileInput{Name: &empty})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	bio := "Realtor in Austin"
	u, err := f.users.UpdateProfile(f.ctx, "u", usecase.UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, u.Bio)
	assert.Equal(t, "User u", u.Name)

	_, err = f.users.RequireAdmin(f.ctx, "u")
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestNotifications_MarkRead(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "u", entity.RoleUser, entity.VerificationUnverified)
	n1 := f.notifications.Notify(f.ctx, &entity.Notification{UserID: "u", Type: entity.NotificationInquiryReceived, Title: "a"})
	f.notifications.Notify(f.ctx, &entity.Notification{UserID: "u", Type: entity.NotificationInquiryReceived, Title: "b"})
	require.NotNil(t, n1)
	assert.Len(t, f.broadcaster.eventsNamed(usecase.EventNotification), 2)

	_, unread, err := f.notifications.List(f.ctx, "u", true, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	_, err = f.notifications.MarkRead(f.ctx, "someone-else", n1.ID)
	assert.True(t, errors.IsNotFound(err))

	read, err := f.notifications.MarkRead(f.ctx, "u", n1.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	changed, err := f.notifications.MarkAllRead(f.ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	items, unread, err := f.notifications.List(f.ctx, "u", true, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, unread)
}

type fakeIdentity struct {
	createErr error
	deleted   []string
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "fb-" + name, nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeIdentity) VerifyToken(ctx context.Context, token string) (string, error) {
	return "", errors.Unauthorized("Invalid or expired token", nil)
}

func TestRegister_IdentityProviderErrors(t *testing.T) {
	f := newFixture(t)

	identity := &fakeIdentity{}
	auth := usecase.NewAuthUseCase(f.repos.Users, identity, fakeTokens{}, f.clock.Now)
	res, err := auth.Register(f.ctx, usecase.RegisterInput{Email: "ok@example.com", Password: "s3cret-pass", Name: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "fb-ok", res.User.ID)

	identity.createErr = errors.Conflict("Email already in use")
	_, err = auth.Register(f.ctx, usecase.RegisterInput{Email: "taken@example.com", Password: "s3cret-pass", Name: "t"})
	assert.True(t, errors.Is(err, "CONFLICT"))

	identity.createErr = errors.Internal("Authentication provider error", nil)
	_, err = auth.Register(f.ctx, usecase.RegisterInput{Email: "down@example.com", Password: "s3cret-pass", Name: "d"})
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	assert.Empty(t, identity.deleted)
}
