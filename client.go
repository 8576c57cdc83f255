package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	pingSignature       = "go-twitch-chat"
	pingMessage         = "PING :" + pingSignature
	expectedPongMessage = ":tmi.twitch.tv PONG tmi.twitch.tv :" + pingSignature
)

var (
	// ErrClientDisconnected returned from Connect() when a Disconnect() was called
	ErrClientDisconnected = errors.New("client called Disconnect()")

	// ErrLoginAuthenticationFailed returned from Connect() when either the wrong or a malformed oauth token is used
	ErrLoginAuthenticationFailed = errors.New("login authentication failed")

	// ErrConnectionIsNotOpen is returned by Disconnect in case you call it without being connected
	ErrConnectionIsNotOpen = errors.New("connection is not open")

	// WriteBufferSize can be modified to change the write channel buffer size. Must be configured before NewClient is called to take effect
	WriteBufferSize = 512

	// ReadBufferSize can be modified to change the read channel buffer size. Must be configured before NewClient is called to take effect
	ReadBufferSize = 64
)

// Internal errors
var (
	errReconnect = errors.New("reconnect")
)

// Client client to control your connection and attach callbacks
type Client struct {
	EventHandler

	IrcAddress string
	TLS        bool
	Transport  TransportType

	ircUser    string
	ircToken   string
	connActive tAtomBool
	reconnects tAtomInt32

	channels    map[string]bool
	channelsMtx *sync.RWMutex

	joinRateLimiter *RateLimiter

	onConnect      func()
	onReconnect    func()
	onMessage      []func(message Message)
	onBotCommand   []func(message Message, bot BotCommand)
	onDiscard      []func(line string, discard Discard)
	onMalformed    []func(line string, err error)
	onPingSent     func()
	onPongReceived func()

	// read is the incoming messages channel, normally buffered with ReadBufferSize
	read chan string

	// write is the outgoing messages channel, normally buffered with WriteBufferSize
	write chan string

	// clientReconnect is closed whenever the client needs to reconnect for connection issue reasons
	clientReconnect chanCloser

	// userDisconnect is closed when the user calls Disconnect
	userDisconnect chanCloser

	// pongReceived is listened to by the pinger go-routine after it has sent off a ping. will be triggered by handleLine
	pongReceived chan bool

	// messageReceived is listened to by the pinger go-routine to interrupt the idle ping interval
	messageReceived chan bool

	// dial opens the transport, replaced in tests
	dial func() (transport, error)

	// Option whether to send pings every `IdlePingInterval`. The IdlePingInterval is interrupted every time a message is received from the irc server
	// The variable may only be modified before calling Connect
	SendPings bool

	// IdlePingInterval is the interval at which to send a ping to the irc server to ensure the connection is alive.
	// The variable may only be modified before calling Connect
	IdlePingInterval time.Duration

	// PongTimeout is the time the client waits after sending a ping before issuing a reconnect
	// The variable may only be modified before calling Connect
	PongTimeout time.Duration

	// SetupCmd is the command that is ran on successful connection to Twitch. Useful if you are proxying or something to run a custom command on connect.
	// The variable must be modified before calling Connect or the command will not run.
	SetupCmd string

	// Logger receives connection level events. Defaults to slog.Default()
	Logger *slog.Logger
}

// NewClient to create a new client
func NewClient(username, oauth string) *Client {
	return &Client{
		ircUser:     username,
		ircToken:    oauth,
		TLS:         true,
		Transport:   TransportTCP,
		channels:    map[string]bool{},
		channelsMtx: &sync.RWMutex{},

		joinRateLimiter: CreateDefaultRateLimiter(),

		messageReceived: make(chan bool),

		read:  make(chan string, ReadBufferSize),
		write: make(chan string, WriteBufferSize),

		// NOTE: IdlePingInterval must be higher than PongTimeout
		SendPings:        true,
		IdlePingInterval: time.Second * 15,
		PongTimeout:      time.Second * 5,
	}
}

// NewAnonymousClient to create a new client without login requirements (read only)
func NewAnonymousClient() *Client {
	return NewClient("justinfan123123", "oauth:59301")
}

// OnConnect attach callback to when a connection has been established
func (c *Client) OnConnect(callback func()) {
	c.onConnect = callback
}

// OnReconnect attach callback to every reconnect attempt
func (c *Client) OnReconnect(callback func()) {
	c.onReconnect = callback
}

// OnMessage attach callback to every parsed message, before the typed callbacks run
func (c *Client) OnMessage(callback func(message Message)) {
	c.onMessage = append(c.onMessage, callback)
}

// OnBotCommand attach callback to messages whose text starts with BotCommandPrefix
func (c *Client) OnBotCommand(callback func(message Message, bot BotCommand)) {
	c.onBotCommand = append(c.onBotCommand, callback)
}

// OnDiscard attach callback to lines the parser discarded, e.g. numeric replies
func (c *Client) OnDiscard(callback func(line string, discard Discard)) {
	c.onDiscard = append(c.onDiscard, callback)
}

// OnMalformed attach callback to lines that could not be parsed
func (c *Client) OnMalformed(callback func(line string, err error)) {
	c.onMalformed = append(c.onMalformed, callback)
}

// OnPingSent attaches callback that's called whenever the client sends out a ping message
func (c *Client) OnPingSent(callback func()) {
	c.onPingSent = callback
}

// OnPongReceived attaches callback that's called whenever the client receives a pong to one of its previously sent out ping messages
func (c *Client) OnPongReceived(callback func()) {
	c.onPongReceived = callback
}

// SetJoinRateLimiter will set the rate limits for the joins
func (c *Client) SetJoinRateLimiter(rateLimiter *RateLimiter) {
	c.joinRateLimiter = rateLimiter
}

// SetIRCToken updates the oauth token for this client used for authentication
// This will not cause a reconnect, but is meant more for "on next connect, use this new token" in case the old token has expired
func (c *Client) SetIRCToken(ircToken string) {
	c.ircToken = ircToken
}

// Reconnects returns how often the client reconnected since it was created
func (c *Client) Reconnects() int32 {
	return c.reconnects.get()
}

// Say write something in a chat
func (c *Client) Say(channel, text string) {
	c.send(fmt.Sprintf("PRIVMSG #%s :%s", normalizeChannel(channel), text))
}

// Reply write something in a chat as a reply to the message with parentMsgID, the "id" tag of a PRIVMSG
func (c *Client) Reply(channel, parentMsgID, text string) {
	c.send(fmt.Sprintf("@reply-parent-msg-id=%s PRIVMSG #%s :%s", parentMsgID, normalizeChannel(channel), text))
}

// Join enter twitch channels to read more messages
func (c *Client) Join(channels ...string) {
	c.channelsMtx.Lock()
	defer c.channelsMtx.Unlock()

	var joins []string
	for _, channel := range channels {
		channel = normalizeChannel(channel)

		// If we don't have the channel in our map AND we have an
		// active connection, explicitly join before we add it to our map
		if !c.channels[channel] && c.connActive.get() {
			joins = append(joins, channel)
		}

		c.channels[channel] = true
	}

	if len(joins) > 0 {
		go c.sendJoins(joins)
	}
}

// Depart leave a twitch channel
func (c *Client) Depart(channel string) {
	channel = normalizeChannel(channel)

	if c.connActive.get() {
		go c.send(fmt.Sprintf("PART #%s", channel))
	}

	c.channelsMtx.Lock()
	delete(c.channels, channel)
	c.channelsMtx.Unlock()
}

// Disconnect close current connection
func (c *Client) Disconnect() error {
	if !c.connActive.get() {
		return ErrConnectionIsNotOpen
	}

	c.userDisconnect.Close()

	return nil
}

// Connect connect the client to the irc server
func (c *Client) Connect() error {
	if c.dial == nil {
		c.dial = c.defaultDialer()
	}

	// userDisconnect lives as long as this call, a Disconnect between two connections must not be lost
	c.userDisconnect.Reset()
	defer c.connActive.set(false)

	for {
		err := c.makeConnection()

		switch err {
		case errReconnect:
			if c.userDisconnect.isClosed() {
				return ErrClientDisconnected
			}

			c.reconnects.increment()
			c.logger().Info("reconnecting", slog.String("address", c.IrcAddress))
			if c.onReconnect != nil {
				c.onReconnect()
			}
			continue

		default:
			return err
		}
	}
}

func (c *Client) defaultDialer() func() (transport, error) {
	if c.Transport == TransportWebSocket {
		if c.IrcAddress == "" && c.TLS {
			c.IrcAddress = ircTwitchWebSocket
		} else if c.IrcAddress == "" {
			c.IrcAddress = ircTwitchWebSocketPlain
		}

		return func() (transport, error) {
			return dialWebSocket(c.IrcAddress)
		}
	}

	if c.IrcAddress == "" && c.TLS {
		c.IrcAddress = ircTwitchTLS
	} else if c.IrcAddress == "" {
		c.IrcAddress = ircTwitch
	}

	return func() (transport, error) {
		return dialTCP(c.IrcAddress, c.TLS)
	}
}

func (c *Client) makeConnection() (err error) {
	if c.userDisconnect.isClosed() {
		return ErrClientDisconnected
	}

	c.connActive.set(false)

	conn, err := c.dial()
	if err != nil {
		return
	}

	wg := sync.WaitGroup{}
	c.clientReconnect.Reset()

	// Start the connection reader in a separate go-routine
	wg.Add(1)
	go c.startReader(conn, &wg)

	if c.SendPings {
		// If SendPings is true (which it is by default), start the thread
		// responsible for managing sending pings and reading pongs
		// in a separate go-routine
		wg.Add(1)
		c.startPinger(conn, &wg)
	}

	// Send the initial connection messages (like logging in, getting the CAP REQ stuff)
	if err = c.setupConnection(conn); err != nil {
		conn.Close()
		c.clientReconnect.Close()
		wg.Wait()
		return
	}

	// Start the connection writer in a separate go-routine
	wg.Add(1)
	go c.startWriter(conn, &wg)

	// start the parser in the same go-routine as makeConnection was called from
	// the error returned from parser will be forwarded to the caller of makeConnection
	// and that error will decide whether or not to reconnect
	err = c.startParser()

	conn.Close()
	c.clientReconnect.Close()

	// Wait for the reader, pinger, and writer to close
	wg.Wait()

	return
}

func (c *Client) setupConnection(conn transport) error {
	lines := []string{}
	if c.SetupCmd != "" {
		lines = append(lines, c.SetupCmd)
	}
	lines = append(lines,
		"PASS "+c.ircToken,
		"NICK "+c.ircUser,
		"CAP REQ :twitch.tv/tags twitch.tv/commands twitch.tv/membership",
	)

	for _, line := range lines {
		if err := conn.WriteLine(line); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) startParser() error {
	for {
		// reader
		select {
		case msg := <-c.read:
			if err := c.handleLine(msg); err != nil {
				return err
			}

		case <-c.clientReconnect.channel:
			return errReconnect

		case <-c.userDisconnect.channel:
			return ErrClientDisconnected
		}
	}
}

func (c *Client) initialJoins() {
	// join or rejoin channels on connection
	c.channelsMtx.RLock()
	channels := make([]string, 0, len(c.channels))
	for channel := range c.channels {
		channels = append(channels, channel)
	}
	c.channelsMtx.RUnlock()

	go c.sendJoins(channels)
}

func (c *Client) sendJoins(channels []string) {
	for _, channel := range channels {
		if err := c.joinRateLimiter.Throttle(context.Background(), 1); err != nil {
			c.logger().Warn("join throttle failed", slog.String("channel", channel), slog.Any("err", err))
			return
		}
		c.send(fmt.Sprintf("JOIN #%s", channel))
	}
}

func (c *Client) send(line string) bool {
	select {
	case c.write <- line:
		return true
	default:
		c.logger().Warn("write buffer full, dropping line", slog.Int("buffer", cap(c.write)))
		return false
	}
}

// Returns how many messages are left in the send buffer. Only used in tests
func (c *Client) sendBufferLength() int {
	return len(c.write)
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Errors returned from handleLine break out of startParser, which starts a reconnect
// This means that we should only return fatal errors as errors here
func (c *Client) handleLine(line string) error {
	go func() {
		// Send a message on the `messageReceived` channel, but do not block in case no one is receiving on the other end
		select {
		case c.messageReceived <- true:
		default:
		}
	}()

	// Received a pong that was sent by us
	if line == expectedPongMessage {
		select {
		case c.pongReceived <- true:
		default:
		}

		return nil
	}

	message, discard, err := ParseMessage(line)
	if err != nil {
		c.logger().Warn("malformed line", slog.Any("err", err))
		for _, cb := range c.onMalformed {
			cb(line, err)
		}
		return nil
	}

	if discard != nil {
		c.logger().Debug("discarded line",
			slog.String("command", discard.Keyword),
			slog.String("reason", discard.Reason.String()),
			slog.String("detail", discard.Detail))
		for _, cb := range c.onDiscard {
			cb(line, *discard)
		}
		return nil
	}

	for _, cb := range c.onMessage {
		cb(*message)
	}

	if err := c.handleMessage(message); err != nil {
		return err
	}

	if bot := message.Command.Bot(); bot != nil {
		for _, cb := range c.onBotCommand {
			cb(*message, *bot)
		}
	}

	return nil
}

func (c *Client) handlePingCommand(message Message, command PingCommand) error {
	c.send("PONG :" + message.Text())
	return nil
}

func (c *Client) handleReconnectCommand(message Message, command ReconnectCommand) error {
	c.logger().Info("server requested reconnect")
	return errReconnect
}

func (c *Client) handleWelcomeCommand(message Message, command WelcomeCommand) error {
	if c.connActive.get() {
		return nil
	}

	c.connActive.set(true)
	c.initialJoins()
	if c.onConnect != nil {
		c.onConnect()
	}

	return nil
}

func (c *Client) handleNoticeCommand(message Message, command NoticeCommand) error {
	if command.Channel != "*" {
		return nil
	}

	switch message.Text() {
	case "Login authentication failed", "Improperly formatted auth", "Invalid NICK":
		return ErrLoginAuthenticationFailed
	}

	return nil
}

func normalizeChannel(channel string) string {
	return strings.ToLower(strings.TrimPrefix(channel, "#"))
}
