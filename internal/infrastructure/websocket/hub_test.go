package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
)

type fakeChat struct {
	mu          sync.Mutex
	connects    []string
	disconnects []string
	sent        []usecase.SendMessageInput
	reads       []string
	sendErr     error
}

func (f *fakeChat) Connect(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, userID)
	return nil, nil
}

func (f *fakeChat) Disconnect(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects = append(f.disconnects, userID)
	return nil
}

func (f *fakeChat) SendMessage(ctx context.Context, callerID string, input usecase.SendMessageInput) (*entity.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, input)
	return &entity.ChatMessage{ID: "m1", ChatRoomID: input.ChatRoomID, SenderID: callerID}, nil
}

func (f *fakeChat) MarkRead(ctx context.Context, callerID, messageID string) (*entity.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if messageID != "m1" {
		return nil, errors.NotFound("Message", nil)
	}
	f.reads = append(f.reads, messageID)
	return &entity.ChatMessage{ID: messageID, IsRead: true}, nil
}

func (f *fakeChat) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reads)
}

func (f *fakeChat) Typing(ctx context.Context, callerID, roomID string, isTyping bool) error {
	return nil
}

func (f *fakeChat) snapshot() (connects, disconnects []string, sent []usecase.SendMessageInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.connects...), append([]string(nil), f.disconnects...), append([]usecase.SendMessageInput(nil), f.sent...)
}

type testServer struct {
	hub    *Hub
	chat   *fakeChat
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	chat := &fakeChat{}
	hub := NewHub(chat)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(r.Context(), conn, r.URL.Query().Get("uid"))
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return &testServer{hub: hub, chat: chat, server: server}
}

func (s *testServer) dial(t *testing.T, uid string) *websocket.Conn {
	t.Helper()
	before := s.hub.localConnections(context.Background(), uid)

	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?uid=" + uid
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return s.hub.localConnections(context.Background(), uid) == before+1
	}, time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev map[string]interface{}
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestConnectAndDisconnectOnlyOnFirstAndLastConnection(t *testing.T) {
	s := newTestServer(t)

	first := s.dial(t, "alice")
	second := s.dial(t, "alice")

	require.Eventually(t, func() bool {
		connects, _, _ := s.chat.snapshot()
		return len(connects) == 1
	}, time.Second, 5*time.Millisecond)

	first.Close()
	require.Eventually(t, func() bool {
		return s.hub.localConnections(context.Background(), "alice") == 1
	}, time.Second, 5*time.Millisecond)
	_, disconnects, _ := s.chat.snapshot()
	assert.Empty(t, disconnects)
	assert.True(t, s.hub.IsOnline(context.Background(), "alice"))

	second.Close()
	require.Eventually(t, func() bool {
		_, disconnects, _ := s.chat.snapshot()
		return len(disconnects) == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, s.hub.IsOnline(context.Background(), "alice"))
}

func TestPublishReachesEveryConnectionOfTheUser(t *testing.T) {
	s := newTestServer(t)

	a1 := s.dial(t, "alice")
	a2 := s.dial(t, "alice")
	b := s.dial(t, "bob")

	s.hub.Publish([]string{"alice"}, usecase.EventMessage, map[string]string{"id": "m1"})

	for _, conn := range []*websocket.Conn{a1, a2} {
		ev := readEvent(t, conn)
		assert.Equal(t, "message", ev["event"])
		assert.Equal(t, "m1", ev["data"].(map[string]interface{})["id"])
	}

	b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := b.ReadMessage()
	assert.Error(t, err)
}

func TestSendMessageEventCallsChatService(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t, "alice")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": "message",
		"data":  map[string]string{"chatRoomId": "room-1", "content": "hi", "type": "TEXT"},
	}))

	require.Eventually(t, func() bool {
		_, _, sent := s.chat.snapshot()
		return len(sent) == 1
	}, time.Second, 5*time.Millisecond)
	_, _, sent := s.chat.snapshot()
	assert.Equal(t, "room-1", sent[0].ChatRoomID)
	assert.Equal(t, "hi", sent[0].Content)
	assert.Equal(t, entity.MessageText, sent[0].Type)
}

func TestMessageReadEventMarksMessage(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t, "bob")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": "messageRead",
		"data":  map[string]string{"chatRoomId": "room-1", "messageId": "m1"},
	}))
	require.Eventually(t, func() bool {
		return s.chat.readCount() == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": "messageRead",
		"data":  map[string]string{"chatRoomId": "room-1"},
	}))
	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev["event"])
	data := ev["data"].(map[string]interface{})
	assert.Equal(t, "messageRead", data["event"])
	assert.Equal(t, "messageId is required", data["message"])
}

func TestFailedEventsComeBackAsErrorEvents(t *testing.T) {
	s := newTestServer(t)
	s.chat.sendErr = errors.Forbidden("Not a participant of this chat room", nil)
	conn := s.dial(t, "alice")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"event": "message",
		"data":  map[string]string{"chatRoomId": "room-1", "content": "hi"},
	}))
	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev["event"])
	data := ev["data"].(map[string]interface{})
	assert.Equal(t, "FORBIDDEN", data["code"])
	assert.Equal(t, "message", data["event"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ev = readEvent(t, conn)
	assert.Equal(t, "error", ev["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "nope"}))
	ev = readEvent(t, conn)
	assert.Equal(t, "error", ev["event"])

	// The connection survives all three.
	require.NoError(t, conn.WriteJSON(map[string]string{"event": "ping"}))
	ev = readEvent(t, conn)
	assert.Equal(t, "pong", ev["event"])
}
