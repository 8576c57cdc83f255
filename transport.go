package twitch

import (
	"bufio"
	"crypto/tls"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TransportType selects how the client talks to the chat server
type TransportType int

const (
	// TransportTCP plain IRC over TCP, wrapped in TLS when Client.TLS is set
	TransportTCP TransportType = iota
	// TransportWebSocket IRC lines in websocket text frames
	TransportWebSocket
)

const (
	ircTwitchTLS            = "irc.chat.twitch.tv:6697"
	ircTwitch               = "irc.chat.twitch.tv:6667"
	ircTwitchWebSocket      = "wss://irc-ws.chat.twitch.tv:443"
	ircTwitchWebSocketPlain = "ws://irc-ws.chat.twitch.tv:80"
)

// transport is a duplex stream of IRC lines without terminators
type transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
}

type tcpTransport struct {
	conn   net.Conn
	reader *textproto.Reader
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{
		conn:   conn,
		reader: textproto.NewReader(bufio.NewReader(conn)),
	}
}

func dialTCP(address string, useTLS bool) (transport, error) {
	dialer := &net.Dialer{
		KeepAlive: time.Second * 10,
	}

	if !useTLS {
		conn, err := dialer.Dial("tcp", address)
		if err != nil {
			return nil, err
		}
		return newTCPTransport(conn), nil
	}

	var conf *tls.Config
	// This means we are connecting to "localhost". Disable certificate chain check
	if strings.HasPrefix(address, "127.0.0.1:") {
		conf = &tls.Config{
			InsecureSkipVerify: true,
		}
	} else {
		conf = &tls.Config{}
	}

	conn, err := tls.DialWithDialer(dialer, "tcp", address, conf)
	if err != nil {
		return nil, err
	}

	return newTCPTransport(conn), nil
}

func (t *tcpTransport) ReadLine() (string, error) {
	return t.reader.ReadLine()
}

func (t *tcpTransport) WriteLine(line string) error {
	_, err := t.conn.Write([]byte(line + "\r\n"))
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// websocketTransport reads text frames, one frame may hold several lines
type websocketTransport struct {
	conn    *websocket.Conn
	pending []string
	writeMu sync.Mutex
}

func dialWebSocket(address string) (transport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(address, nil)
	if err != nil {
		return nil, err
	}

	return &websocketTransport{conn: conn}, nil
}

func (t *websocketTransport) ReadLine() (string, error) {
	for len(t.pending) == 0 {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			return "", err
		}

		if messageType != websocket.TextMessage {
			continue
		}

		t.pending = splitLines(string(data))
	}

	line := t.pending[0]
	t.pending = t.pending[1:]

	return line, nil
}

func (t *websocketTransport) WriteLine(line string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	return t.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

func (t *websocketTransport) Close() error {
	return t.conn.Close()
}

// splitLines splits a network message into lines, dropping terminators and empty lines
func splitLines(data string) []string {
	var lines []string

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
