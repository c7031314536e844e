package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"greia/internal/adapter/repository/memory"
	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/internal/usecase"
)

type published struct {
	UserIDs []string
	Event   string
	Data    interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	online map[string]bool
	events []published
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{online: make(map[string]bool)}
}

func (b *recordingBroadcaster) Publish(userIDs []string, event string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, published{UserIDs: append([]string(nil), userIDs...), Event: event, Data: data})
}

func (b *recordingBroadcaster) IsOnline(_ context.Context, userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online[userID]
}

func (b *recordingBroadcaster) setOnline(userID string, online bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.online[userID] = online
}

func (b *recordingBroadcaster) eventsNamed(name string) []published {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []published
	for _, e := range b.events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string, _ entity.Role) (string, time.Time, error) {
	return "session-" + userID, time.Now().Add(time.Hour), nil
}

func (fakeTokens) Parse(token string) (string, error) {
	if len(token) > 8 && token[:8] == "session-" {
		return token[8:], nil
	}
	return "", errors.New("invalid session token")
}

type fixture struct {
	ctx         context.Context
	repos       repository.Repositories
	clock       *fakeClock
	broadcaster *recordingBroadcaster

	notifications *usecase.NotificationUseCase
	verification  *usecase.VerificationUseCase
	listings      *usecase.ListingUseCase
	inquiries     *usecase.InquiryUseCase
	transactions  *usecase.TransactionUseCase
	chat          *usecase.ChatUseCase
	portfolios    *usecase.PortfolioUseCase
	feed          *usecase.FeedUseCase
	auth          *usecase.AuthUseCase
	users         *usecase.UserUseCase
	dashboard     *usecase.DashboardUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := memory.NewStore().Repositories()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	b := newRecordingBroadcaster()

	notifications := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, b, clock.Now)
	return &fixture{
		ctx:           context.Background(),
		repos:         repos,
		clock:         clock,
		broadcaster:   b,
		notifications: notifications,
		verification:  usecase.NewVerificationUseCase(repos.Verifications, repos.Users, notifications, clock.Now),
		listings:      usecase.NewListingUseCase(repos.Listings, repos.Users, repos.Verifications, clock.Now),
		inquiries:     usecase.NewInquiryUseCase(repos.Inquiries, repos.Listings, repos.Users, notifications, clock.Now),
		transactions:  usecase.NewTransactionUseCase(repos.Transactions, clock.Now),
		chat:          usecase.NewChatUseCase(repos.Chat, repos.Users, notifications, b, usecase.ChatLimiters{}, 50, clock.Now),
		portfolios:    usecase.NewPortfolioUseCase(repos.Portfolios, repos.Users, clock.Now),
		feed:          usecase.NewFeedUseCase(repos.Posts, repos.Follows, repos.Users, 24*time.Hour, clock.Now),
		auth:          usecase.NewAuthUseCase(repos.Users, nil, fakeTokens{}, clock.Now),
		users:         usecase.NewUserUseCase(repos.Users, clock.Now),
		dashboard:     usecase.NewDashboardUseCase(repos.Users, repos.Listings, repos.Inquiries, repos.Transactions, repos.Verifications),
	}
}

func (f *fixture) addUser(t *testing.T, id string, role entity.Role, status entity.VerificationStatus) *entity.User {
	t.Helper()
	now := f.clock.Now()
	u := &entity.User{
		ID:                 id,
		Name:               "User " + id,
		Email:              id + "@example.com",
		Role:               role,
		VerificationStatus: status,
		OnlineStatus:       entity.OnlineStatusOffline,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, f.repos.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) user(t *testing.T, id string) *entity.User {
	t.Helper()
	u, err := f.repos.Users.GetByID(f.ctx, id)
	require.NoError(t, err)
	return u
}

func (f *fixture) submission(license entity.LicenseType) usecase.SubmitVerificationInput {
	return usecase.SubmitVerificationInput{
		LicenseType:           license,
		LicenseNumber:         "LIC-123",
		LicenseExpiry:         f.clock.Now().AddDate(1, 0, 0),
		Jurisdiction:          "CA",
		VerificationDocuments: []string{"https://storage.example.com/doc.pdf"},
	}
}

// verifiedProfessional walks a user through submission and approval.
func (f *fixture) verifiedProfessional(t *testing.T, id string, license entity.LicenseType) *entity.User {
	t.Helper()
	if _, err := f.repos.Users.GetByID(f.ctx, "admin"); err != nil {
		f.addUser(t, "admin", entity.RoleAdmin, entity.VerificationVerified)
	}
	f.addUser(t, id, entity.RoleUser, entity.VerificationUnverified)
	info, err := f.verification.Submit(f.ctx, id, f.submission(license))
	require.NoError(t, err)
	_, err = f.verification.Decide(f.ctx, "admin", info.ID, usecase.DecideVerificationInput{Status: entity.ProfessionalVerified})
	require.NoError(t, err)
	return f.user(t, id)
}

func price(v float64) *float64 { return &v }
