package twitch

import "strings"

//go:generate sh -c "cd tools/cmd/generatecallbacks && go run ."

// CommandType different command types the parser classifies
type CommandType int

const (
	// JOIN a user joined a channel
	JOIN CommandType = iota
	// PART a user left a channel
	PART
	// NOTICE channel or server notices
	NOTICE
	// CLEARCHAT timeouts and bans
	CLEARCHAT
	// HOSTTARGET host mode start/stop
	HOSTTARGET
	// PRIVMSG standard chat message
	PRIVMSG
	// PING keepalive sent by the server, must be answered with a PONG
	PING
	// GLOBALUSERSTATE sent once after login
	GLOBALUSERSTATE
	// USERSTATE sent after joining a channel or sending a message
	USERSTATE
	// ROOMSTATE changes like sub mode
	ROOMSTATE
	// CAP capability negotiation
	CAP
	// RECONNECT the server is about to close the connection
	RECONNECT
	// WELCOME numeric 001, successful login
	WELCOME
)

// BotCommand is a "!word rest" command embedded in a chat message
type BotCommand struct {
	Name   string
	Params *string
}

// Command is one of the command types defined in this file. The set is closed.
type Command interface {
	GetType() CommandType
	Keyword() string
	Bot() *BotCommand

	setBot(bot *BotCommand)
}

type baseCommand struct {
	RawType    string
	BotCommand *BotCommand
}

// Keyword returns the command keyword as received, e.g. "PRIVMSG" or "001"
func (c *baseCommand) Keyword() string {
	return c.RawType
}

// Bot returns the embedded bot command, nil when the parameters did not start with '!'
func (c *baseCommand) Bot() *BotCommand {
	return c.BotCommand
}

func (c *baseCommand) setBot(bot *BotCommand) {
	c.BotCommand = bot
}

// JoinCommand JOIN #channel
type JoinCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *JoinCommand) GetType() CommandType {
	return JOIN
}

// PartCommand PART #channel
type PartCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *PartCommand) GetType() CommandType {
	return PART
}

// NoticeCommand NOTICE #channel, the channel is "*" for server notices
type NoticeCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *NoticeCommand) GetType() CommandType {
	return NOTICE
}

// ClearChatCommand CLEARCHAT #channel
type ClearChatCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *ClearChatCommand) GetType() CommandType {
	return CLEARCHAT
}

// HostTargetCommand HOSTTARGET #channel
type HostTargetCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *HostTargetCommand) GetType() CommandType {
	return HOSTTARGET
}

// PrivateMessageCommand PRIVMSG #channel
type PrivateMessageCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *PrivateMessageCommand) GetType() CommandType {
	return PRIVMSG
}

// PingCommand PING
type PingCommand struct {
	baseCommand
}

// GetType implements the Command interface, and returns this command's type
func (c *PingCommand) GetType() CommandType {
	return PING
}

// GlobalUserStateCommand GLOBALUSERSTATE
type GlobalUserStateCommand struct {
	baseCommand
}

// GetType implements the Command interface, and returns this command's type
func (c *GlobalUserStateCommand) GetType() CommandType {
	return GLOBALUSERSTATE
}

// UserStateCommand USERSTATE #channel
type UserStateCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *UserStateCommand) GetType() CommandType {
	return USERSTATE
}

// RoomStateCommand ROOMSTATE #channel
type RoomStateCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *RoomStateCommand) GetType() CommandType {
	return ROOMSTATE
}

// CapCommand CAP * ACK|NAK
type CapCommand struct {
	baseCommand
	Acknowledged bool
}

// GetType implements the Command interface, and returns this command's type
func (c *CapCommand) GetType() CommandType {
	return CAP
}

// ReconnectCommand RECONNECT
type ReconnectCommand struct {
	baseCommand
}

// GetType implements the Command interface, and returns this command's type
func (c *ReconnectCommand) GetType() CommandType {
	return RECONNECT
}

// WelcomeCommand 001 <nick>
type WelcomeCommand struct {
	baseCommand
	Channel string
}

// GetType implements the Command interface, and returns this command's type
func (c *WelcomeCommand) GetType() CommandType {
	return WELCOME
}

// DiscardReason why a line produced no message
type DiscardReason int

const (
	// DiscardIgnorable recognized numeric replies without actionable content
	DiscardIgnorable DiscardReason = iota
	// DiscardUnrecognized commands outside the supported set
	DiscardUnrecognized
)

func (r DiscardReason) String() string {
	switch r {
	case DiscardIgnorable:
		return "ignorable"
	case DiscardUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// Discard is returned instead of a message for lines that carry nothing to act on
type Discard struct {
	Keyword string
	Reason  DiscardReason
	// Detail is the rejected command for 421 ERR_UNKNOWNCOMMAND replies
	Detail string
}

// classifyCommand maps a command block to a Command.
// Exactly one of the results is non-nil.
func classifyCommand(line, rawCommand string) (Command, *Discard, error) {
	parts := strings.Split(rawCommand, " ")
	keyword := parts[0]
	base := baseCommand{RawType: keyword}

	// token returns parts[i] or a MalformedError naming what was missing
	token := func(i int, name string) (string, error) {
		if i >= len(parts) || parts[i] == "" {
			return "", malformed(line, keyword+": missing "+name)
		}
		return parts[i], nil
	}

	switch keyword {
	case "JOIN", "PART", "NOTICE", "CLEARCHAT", "HOSTTARGET", "PRIVMSG", "USERSTATE", "ROOMSTATE", "001":
		channel, err := token(1, "channel")
		if err != nil {
			return nil, nil, err
		}
		return channelCommand(base, channel), nil, nil

	case "PING":
		return &PingCommand{baseCommand: base}, nil, nil

	case "GLOBALUSERSTATE":
		return &GlobalUserStateCommand{baseCommand: base}, nil, nil

	case "CAP":
		subcommand, err := token(2, "subcommand")
		if err != nil {
			return nil, nil, err
		}
		return &CapCommand{baseCommand: base, Acknowledged: subcommand == "ACK"}, nil, nil

	case "RECONNECT":
		return &ReconnectCommand{baseCommand: base}, nil, nil

	case "421":
		discard := &Discard{Keyword: keyword, Reason: DiscardIgnorable}
		if len(parts) > 2 {
			discard.Detail = parts[2]
		}
		return nil, discard, nil

	case "002", "003", "004", "353", "366", "372", "375", "376":
		return nil, &Discard{Keyword: keyword, Reason: DiscardIgnorable}, nil

	default:
		return nil, &Discard{Keyword: keyword, Reason: DiscardUnrecognized}, nil
	}
}

func channelCommand(base baseCommand, channel string) Command {
	switch base.RawType {
	case "JOIN":
		return &JoinCommand{baseCommand: base, Channel: channel}
	case "PART":
		return &PartCommand{baseCommand: base, Channel: channel}
	case "NOTICE":
		return &NoticeCommand{baseCommand: base, Channel: channel}
	case "CLEARCHAT":
		return &ClearChatCommand{baseCommand: base, Channel: channel}
	case "HOSTTARGET":
		return &HostTargetCommand{baseCommand: base, Channel: channel}
	case "PRIVMSG":
		return &PrivateMessageCommand{baseCommand: base, Channel: channel}
	case "USERSTATE":
		return &UserStateCommand{baseCommand: base, Channel: channel}
	case "ROOMSTATE":
		return &RoomStateCommand{baseCommand: base, Channel: channel}
	default:
		return &WelcomeCommand{baseCommand: base, Channel: channel}
	}
}
