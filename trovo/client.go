package trovo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultChatURL chat websocket endpoint
const DefaultChatURL = "wss://open-chat.trovo.live/chat"

// ChatTypeNormal regular chat messages, other types are spells, subscriptions, follows, etc
const ChatTypeNormal = 0

// ErrAuthFailed returned by Run when the chat server rejects the AUTH frame
var ErrAuthFailed = errors.New("trovo: chat authentication failed")

// Chat a single chat entry of a CHAT frame
type Chat struct {
	Type      int    `json:"type"`
	Content   string `json:"content"`
	NickName  string `json:"nick_name"`
	SenderID  int64  `json:"sender_id"`
	MessageID string `json:"message_id"`
	SendTime  int64  `json:"send_time"`
}

// Time returns SendTime as a time.Time
func (c Chat) Time() time.Time {
	return time.Unix(c.SendTime, 0)
}

type frame struct {
	Type  string          `json:"type"`
	Nonce string          `json:"nonce,omitempty"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type pongData struct {
	Gap int `json:"gap"`
}

type chatData struct {
	Chats []Chat `json:"chats"`
}

// Client reads a channel's chat over the chat websocket
type Client struct {
	Address   string
	ChatToken string

	// MaxAge drops chats older than this, the server replays recent history after AUTH
	MaxAge time.Duration

	// DefaultPingGap is used until the server announces its own gap in a PONG
	DefaultPingGap time.Duration

	Dialer *websocket.Dialer
	Logger *slog.Logger

	onConnect func()
	onChat    []func(chat Chat)

	conn    *websocket.Conn
	writeMu sync.Mutex
	nonce   string

	now func() time.Time
}

// NewClient returns a client authenticating with chatToken, see API.ChatToken
func NewClient(chatToken string) *Client {
	return &Client{
		Address:        DefaultChatURL,
		ChatToken:      chatToken,
		MaxAge:         5 * time.Second,
		DefaultPingGap: 30 * time.Second,
	}
}

// OnConnect attach callback to a successful AUTH
func (c *Client) OnConnect(callback func()) {
	c.onConnect = callback
}

// OnChat attach callback to every normal chat message
func (c *Client) OnChat(callback func(chat Chat)) {
	c.onChat = append(c.onChat, callback)
}

// Run connects and dispatches chats until ctx is done or the connection fails.
// It returns nil when ctx was cancelled.
func (c *Client) Run(ctx context.Context) error {
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(ctx, c.Address, nil)
	if err != nil {
		return fmt.Errorf("trovo: dial %s: %w", c.Address, err)
	}
	c.conn = conn
	c.nonce = uuid.NewString()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	var pinger *time.Timer
	defer func() {
		if pinger != nil {
			pinger.Stop()
		}
		conn.Close()
	}()

	if err := c.authenticate(); err != nil {
		return c.exitError(ctx, err)
	}
	c.logger().Info("trovo chat connected")
	if c.onConnect != nil {
		c.onConnect()
	}

	if err := c.sendPing(); err != nil {
		return c.exitError(ctx, err)
	}

	for {
		var msg frame
		if err := conn.ReadJSON(&msg); err != nil {
			return c.exitError(ctx, err)
		}

		switch msg.Type {
		case "PONG":
			gap := c.DefaultPingGap
			var data pongData
			if err := json.Unmarshal(msg.Data, &data); err == nil && data.Gap > 0 {
				gap = time.Duration(data.Gap) * time.Second
			}

			if pinger != nil {
				pinger.Stop()
			}
			pinger = time.AfterFunc(gap, func() {
				if err := c.sendPing(); err != nil {
					c.logger().Warn("trovo ping failed", slog.Any("err", err))
				}
			})

		case "CHAT":
			var data chatData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.logger().Warn("trovo chat frame", slog.Any("err", err))
				continue
			}
			c.dispatch(data.Chats)

		default:
			c.logger().Debug("trovo frame ignored", slog.String("type", msg.Type))
		}
	}
}

func (c *Client) authenticate() error {
	err := c.writeFrame(map[string]any{
		"type":  "AUTH",
		"nonce": c.nonce,
		"data":  map[string]string{"token": c.ChatToken},
	})
	if err != nil {
		return err
	}

	var response frame
	if err := c.conn.ReadJSON(&response); err != nil {
		return err
	}
	if response.Error != "" {
		return fmt.Errorf("%w: %s", ErrAuthFailed, response.Error)
	}

	return nil
}

func (c *Client) sendPing() error {
	return c.writeFrame(map[string]any{"type": "PING", "nonce": c.nonce})
}

func (c *Client) writeFrame(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) dispatch(chats []Chat) {
	now := c.clock()

	for _, chat := range chats {
		if chat.Type != ChatTypeNormal {
			continue
		}
		if c.MaxAge > 0 && now.Sub(chat.Time()) > c.MaxAge {
			continue
		}

		for _, cb := range c.onChat {
			cb(chat)
		}
	}
}

func (c *Client) exitError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Client) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
