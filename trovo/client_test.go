package trovo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func newChatServer(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestChatClient(address string) *Client {
	client := NewClient("chat-token")
	client.Address = address
	client.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	client.now = func() time.Time { return time.Unix(1700000010, 0) }
	return client
}

func TestClientReceivesChats(t *testing.T) {
	pings := make(chan string, 4)

	address := newChatServer(t, func(conn *websocket.Conn) {
		var auth map[string]any
		if err := conn.ReadJSON(&auth); err != nil {
			return
		}
		assert.Equal(t, "AUTH", auth["type"])
		assert.Equal(t, map[string]any{"token": "chat-token"}, auth["data"])
		nonce, _ := auth["nonce"].(string)
		assert.NotEmpty(t, nonce)
		_ = conn.WriteJSON(map[string]any{"type": "RESPONSE", "nonce": nonce})

		received := 0
		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg["type"] != "PING" {
				continue
			}
			assert.Equal(t, nonce, msg["nonce"])
			pings <- nonce
			received++

			if received == 1 {
				_ = conn.WriteJSON(map[string]any{"type": "CHAT", "data": map[string]any{"chats": []map[string]any{
					{"type": 0, "content": "old", "nick_name": "viewer", "send_time": 1700000000},
					{"type": 5, "content": "spell", "nick_name": "viewer", "send_time": 1700000009},
					{"type": 0, "content": "hello", "nick_name": "viewer", "send_time": 1700000008},
				}}})
				_ = conn.WriteJSON(map[string]any{"type": "PONG", "data": map[string]any{"gap": 1}})
			}
		}
	})

	client := newTestChatClient(address)

	chats := make(chan Chat, 4)
	client.OnChat(func(chat Chat) {
		chats <- chat
	})
	connected := make(chan struct{})
	client.OnConnect(func() {
		close(connected)
	})

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- client.Run(ctx)
	}()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("client did not authenticate")
	}

	select {
	case chat := <-chats:
		assert.Equal(t, "hello", chat.Content)
		assert.Equal(t, "viewer", chat.NickName)
	case <-time.After(2 * time.Second):
		t.Fatal("no chat received")
	}

	// the PONG gap schedules the next ping
	for i := 0; i < 2; i++ {
		select {
		case <-pings:
		case <-time.After(3 * time.Second):
			t.Fatalf("ping %d not received", i+1)
		}
	}

	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Len(t, chats, 0, "old and non-normal chats must be dropped")
}

func TestClientAuthFailure(t *testing.T) {
	address := newChatServer(t, func(conn *websocket.Conn) {
		var auth map[string]any
		if err := conn.ReadJSON(&auth); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]any{"type": "RESPONSE", "error": "invalid token"})
	})

	err := newTestChatClient(address).Run(context.Background())
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestClientDialFailure(t *testing.T) {
	client := newTestChatClient("ws://127.0.0.1:1/chat")

	err := client.Run(context.Background())
	assert.Error(t, err)
}

func TestChatTime(t *testing.T) {
	chat := Chat{SendTime: 1700000000}
	assert.True(t, time.Unix(1700000000, 0).Equal(chat.Time()))
}
