package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/adapter/api"
	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
	"greia/internal/adapter/api/router"
	"greia/internal/adapter/repository/memory"
	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/internal/infrastructure/token"
	"greia/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	e      *echo.Echo
	repos  repository.Repositories
	tokens *token.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := memory.NewStore().Repositories()
	issuer := token.NewIssuer("test-secret", time.Hour)

	notifications := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, nil, nil)
	auth := usecase.NewAuthUseCase(repos.Users, nil, issuer, nil)
	users := usecase.NewUserUseCase(repos.Users, nil)

	handler.Setup(
		auth,
		users,
		usecase.NewVerificationUseCase(repos.Verifications, repos.Users, notifications, nil),
		usecase.NewListingUseCase(repos.Listings, repos.Users, repos.Verifications, nil),
		usecase.NewInquiryUseCase(repos.Inquiries, repos.Listings, repos.Users, notifications, nil),
		usecase.NewTransactionUseCase(repos.Transactions, nil),
		usecase.NewChatUseCase(repos.Chat, repos.Users, notifications, nil, usecase.ChatLimiters{}, 50, nil),
		notifications,
		usecase.NewPortfolioUseCase(repos.Portfolios, repos.Users, nil),
		usecase.NewFeedUseCase(repos.Posts, repos.Follows, repos.Users, 24*time.Hour, nil),
		usecase.NewDashboardUseCase(repos.Users, repos.Listings, repos.Inquiries, repos.Transactions, repos.Verifications),
	)
	handler.SetupFileHandler(usecase.NewFileUseCase(nil, repos.Files, 0, nil))
	handler.SetupDevTokenHandler(auth)
	handler.SetupHealthHandler(map[string]handler.HealthCheck{
		"memory": func(context.Context) error { return nil },
	})

	e := echo.New()
	e.Validator = api.NewValidator()
	router.Setup(e, middleware.NewAuthMiddleware(auth), middleware.NewAdminMiddleware(users), nil)
	router.SetupHealthRouter(e, nil)
	router.SetupDevRouter(e, false)

	return &testServer{e: e, repos: repos, tokens: issuer}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

// addUser stores a user directly and returns a session token for it.
func (s *testServer) addUser(t *testing.T, id string, role entity.Role, status entity.VerificationStatus) string {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.repos.Users.Create(context.Background(), &entity.User{
		ID:                 id,
		Name:               "User " + id,
		Email:              id + "@example.com",
		Role:               role,
		VerificationStatus: status,
		OnlineStatus:       entity.OnlineStatusOffline,
		CreatedAt:          now,
		UpdatedAt:          now,
	}))
	tok, _, err := s.tokens.Issue(id, role)
	require.NoError(t, err)
	return tok
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")

	rec, _ = s.do(t, http.MethodGet, "/health/services", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"memory":"ok"`)
}

func TestRegisterLoginAndMe(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "Ana@Example.com",
		"password": "correct-horse",
		"name":     "Ana",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.Equal(t, entity.RoleUser, registered.User.Role)
	assert.NotEmpty(t, registered.Token)

	rec, env = s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"password": "another-password",
		"name":     "Ana Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", env.Error.Message)

	rec, env = s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var loggedIn usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &loggedIn))

	rec, env = s.do(t, http.MethodGet, "/v1/users/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me entity.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, registered.User.ID, me.ID)
	assert.NotContains(t, rec.Body.String(), "correct-horse")

	rec, env = s.do(t, http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/v1/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidationErrorsNameJSONFields(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "correct-horse",
		"name":     "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "email must be a valid email address", env.Error.Message)
}

func TestVerificationGatesListingCreation(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.addUser(t, "admin-1", entity.RoleAdmin, entity.VerificationVerified)
	agentToken := s.addUser(t, "agent-1", entity.RoleUser, entity.VerificationUnverified)

	listing := map[string]interface{}{
		"type":     "RENTAL",
		"title":    "Sea view flat",
		"price":    1200,
		"currency": "eur",
		"location": "Lisbon, Portugal",
		"bedrooms": 2,
	}

	rec, env := s.do(t, http.MethodPost, "/v1/listings/property", agentToken, listing)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Verification required", env.Error.Message)

	rec, env = s.do(t, http.MethodPost, "/v1/verification/submit", agentToken, map[string]interface{}{
		"license_number": "LIC-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Message, "license_type")

	rec, env = s.do(t, http.MethodPost, "/v1/verification/submit", agentToken, map[string]interface{}{
		"license_type":           "REAL_ESTATE_AGENT",
		"license_number":         "LIC-1",
		"license_expiry":         time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
		"jurisdiction":           "Lisbon",
		"verification_documents": []string{"https://storage.example.com/license.pdf"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var info entity.ProfessionalInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, entity.ProfessionalPending, info.Status)

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/verifications?status=PENDING", agentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/admin/verifications?status=PENDING", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var queue []entity.VerificationView
	require.NoError(t, json.Unmarshal(env.Data, &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, "agent-1", queue[0].UserID)

	rec, _ = s.do(t, http.MethodPatch, "/v1/admin/verifications/"+info.ID, adminToken, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/v1/admin/verifications/"+info.ID, adminToken, map[string]string{"status": "VERIFIED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodPost, "/v1/listings/property", agentToken, listing)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created entity.Listing
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, entity.ListingActive, created.Status)
	assert.Equal(t, "EUR", created.Currency)

	// The services endpoint forces SERVICE, which agents may not publish.
	rec, env = s.do(t, http.MethodPost, "/v1/listings/services", agentToken, listing)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Your role cannot create service listings", env.Error.Message)

	rec, env = s.do(t, http.MethodGet, "/v1/listings?location=lisbon&bedrooms=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []entity.Listing `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)

	rec, _ = s.do(t, http.MethodGet, "/v1/listings?min_price=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInquiryIdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "owner-1", entity.RoleAgent, entity.VerificationVerified)
	buyerToken := s.addUser(t, "buyer-1", entity.RoleUser, entity.VerificationUnverified)

	now := time.Now()
	require.NoError(t, s.repos.Listings.Create(context.Background(), &entity.Listing{
		ID:        "listing-1",
		OwnerID:   "owner-1",
		Type:      entity.ListingSale,
		Title:     "Townhouse",
		Price:     250000,
		Currency:  "USD",
		Location:  "Austin",
		Status:    entity.ListingActive,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	body := map[string]string{
		"type":        "PURCHASE_INTENT",
		"message":     "I would like to buy this",
		"listing_id":  "listing-1",
		"receiver_id": "owner-1",
	}

	rec, env := s.do(t, http.MethodPost, "/v1/inquiries", buyerToken, body, "Idempotency-Key", "req-42")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first usecase.InquiryResult
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, entity.InquiryConverted, first.Inquiry.Status)
	require.NotNil(t, first.Transaction)
	assert.Equal(t, entity.TransactionSale, first.Transaction.Type)

	rec, env = s.do(t, http.MethodPost, "/v1/inquiries", buyerToken, body, "Idempotency-Key", "req-42")
	require.Equal(t, http.StatusOK, rec.Code)
	var retry usecase.InquiryResult
	require.NoError(t, json.Unmarshal(env.Data, &retry))
	assert.Equal(t, first.Inquiry.ID, retry.Inquiry.ID)
	assert.Equal(t, first.Transaction.ID, retry.Transaction.ID)

	rec, env = s.do(t, http.MethodGet, "/v1/transactions", buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txns []entity.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &txns))
	assert.Len(t, txns, 1)

	rec, _ = s.do(t, http.MethodGet, "/v1/inquiries?status=BOGUS", buyerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatOverHTTP(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.addUser(t, "alice", entity.RoleUser, entity.VerificationUnverified)
	bobToken := s.addUser(t, "bob", entity.RoleUser, entity.VerificationUnverified)
	malloryToken := s.addUser(t, "mallory", entity.RoleUser, entity.VerificationUnverified)

	rec, env := s.do(t, http.MethodPost, "/v1/chat/rooms", aliceToken, map[string]interface{}{
		"participant_ids": []string{"bob"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var room entity.ChatRoom
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, entity.ChatRoomDirect, room.Type)

	rec, _ = s.do(t, http.MethodPost, "/v1/chat/messages", aliceToken, map[string]string{
		"chat_room_id": room.ID,
		"content":      "hi bob",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodGet, "/v1/chat/rooms", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []entity.RoomSummary
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, rooms[0].UnreadCount)

	rec, env = s.do(t, http.MethodGet, "/v1/chat/messages?roomId="+room.ID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var messages []entity.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &messages))
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsRead)

	rec, _ = s.do(t, http.MethodGet, "/v1/chat/messages?roomId="+room.ID, malloryToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/chat/messages", bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "roomId is required", env.Error.Message)
}

func TestFileUploadWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	tok := s.addUser(t, "uploader", entity.RoleUser, entity.VerificationUnverified)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("folder", "posts"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/files", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "File storage is not configured")
}

func TestDevTokens(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/_dev/token/user", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/_dev/token/admin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var admin usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &admin))
	assert.Equal(t, entity.RoleAdmin, admin.User.Role)

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/verifications", admin.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second call reuses the admin created by the first.
	rec, env = s.do(t, http.MethodGet, "/_dev/token/admin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var again usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &again))
	assert.Equal(t, admin.User.ID, again.User.ID)

	rec, _ = s.do(t, http.MethodGet, "/_dev/token/user?role=wizard", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
