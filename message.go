package twitch

// Message a single parsed line. Every field except Command is optional.
type Message struct {
	Tags       Tags
	Source     *Source
	Command    Command
	Parameters *string
}

// ParseMessage parses one raw line, without its line terminator.
//
// Exactly one of the results is non-nil:
//   - a *Message for the supported commands
//   - a *Discard for numeric replies without content and for unsupported commands
//   - an error matching ErrMalformedInput when a required piece of the line is missing
//
// ParseMessage keeps no state and is safe for concurrent use.
func ParseMessage(line string) (*Message, *Discard, error) {
	segments, err := segmentLine(line)
	if err != nil {
		return nil, nil, err
	}

	command, discard, err := classifyCommand(line, segments.command)
	if err != nil || discard != nil {
		return nil, discard, err
	}

	message := Message{
		Command:    command,
		Parameters: segments.parameters,
	}

	if segments.hasTags {
		message.Tags = parseTags(segments.tags)
	}

	if segments.hasSource {
		message.Source = parseSource(segments.source)
	}

	if message.Parameters != nil {
		if bot := parseBotCommand(*message.Parameters); bot != nil {
			command.setBot(bot)
		}
	}

	return &message, nil, nil
}

// Text returns the parameters or an empty string
func (m *Message) Text() string {
	if m.Parameters == nil {
		return ""
	}
	return *m.Parameters
}

// Nick returns the nick of the source or an empty string
func (m *Message) Nick() string {
	if m.Source == nil || m.Source.Nick == nil {
		return ""
	}
	return *m.Source.Nick
}

// Channel returns the channel of channel-scoped commands
func (m *Message) Channel() (string, bool) {
	return ChannelOf(m.Command)
}

// ChannelOf returns the channel a command is scoped to
func ChannelOf(command Command) (string, bool) {
	switch c := command.(type) {
	case *JoinCommand:
		return c.Channel, true
	case *PartCommand:
		return c.Channel, true
	case *NoticeCommand:
		return c.Channel, true
	case *ClearChatCommand:
		return c.Channel, true
	case *HostTargetCommand:
		return c.Channel, true
	case *PrivateMessageCommand:
		return c.Channel, true
	case *UserStateCommand:
		return c.Channel, true
	case *RoomStateCommand:
		return c.Channel, true
	case *WelcomeCommand:
		return c.Channel, true
	default:
		return "", false
	}
}
