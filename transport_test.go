package twitch

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{}

func newWebSocketServer(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
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

func TestWebSocketTransportSplitsFrames(t *testing.T) {
	received := make(chan string, 1)

	address := newWebSocketServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("PING :a\r\nPING :b\r\n"))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("ignored"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("PING :c"))

		_, data, err := conn.ReadMessage()
		if err == nil {
			received <- string(data)
		}
	})

	conn, err := dialWebSocket(address)
	require.NoError(t, err)
	defer conn.Close()

	for _, expected := range []string{"PING :a", "PING :b", "PING :c"} {
		line, err := conn.ReadLine()
		require.NoError(t, err)
		assertStringsEqual(t, expected, line)
	}

	require.NoError(t, conn.WriteLine("PASS oauth:123"))

	select {
	case data := <-received:
		assertStringsEqual(t, "PASS oauth:123\r\n", data)
	case <-time.After(time.Second):
		t.Fatal("server did not receive the line")
	}
}

func TestTCPTransportReadsLines(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	conn := newTCPTransport(client)
	defer conn.Close()

	go func() {
		_, _ = server.Write([]byte("PING :tmi.twitch.tv\r\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assertStringsEqual(t, "PING :tmi.twitch.tv", line)

	written := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		written <- string(buf[:n])
	}()

	require.NoError(t, conn.WriteLine("PONG :tmi.twitch.tv"))
	assertStringsEqual(t, "PONG :tmi.twitch.tv\r\n", <-written)
}

func TestClientConnectsOverWebSocket(t *testing.T) {
	handshake := make(chan []string, 1)

	address := newWebSocketServer(t, func(conn *websocket.Conn) {
		var lines []string
		for len(lines) < 3 {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			lines = append(lines, splitLines(string(data))...)
		}
		handshake <- lines

		_ = conn.WriteMessage(websocket.TextMessage, []byte(":tmi.twitch.tv 001 justinfan123123 :Welcome, GLHF!\r\n:tmi.twitch.tv 002 justinfan123123 :Your host is tmi.twitch.tv\r\n"))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client := NewAnonymousClient()
	client.Transport = TransportWebSocket
	client.IrcAddress = address
	client.SendPings = false
	client.Logger = newTestClient().Logger

	discarded := make(chan string, 1)
	client.OnDiscard(func(line string, discard Discard) {
		discarded <- discard.Keyword
	})
	client.OnConnect(func() {
		go func() {
			assertStringsEqual(t, "002", <-discarded)
			_ = client.Disconnect()
		}()
	})

	result := make(chan error, 1)
	go func() {
		result <- client.Connect()
	}()

	select {
	case lines := <-handshake:
		assert.Equal(t, []string{
			"PASS oauth:59301",
			"NICK justinfan123123",
			"CAP REQ :twitch.tv/tags twitch.tv/commands twitch.tv/membership",
		}, lines)
	case <-time.After(2 * time.Second):
		t.Fatal("no handshake received")
	}

	select {
	case err := <-result:
		assertErrorsEqual(t, ErrClientDisconnected, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not disconnect")
	}
}
