package twitch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanClassifyChannelCommands(t *testing.T) {
	tests := []struct {
		rawCommand string
		expected   CommandType
	}{
		{"JOIN #dallas", JOIN},
		{"PART #dallas", PART},
		{"NOTICE #dallas", NOTICE},
		{"CLEARCHAT #dallas", CLEARCHAT},
		{"HOSTTARGET #dallas", HOSTTARGET},
		{"PRIVMSG #dallas", PRIVMSG},
		{"USERSTATE #dallas", USERSTATE},
		{"ROOMSTATE #dallas", ROOMSTATE},
		{"001 #dallas", WELCOME},
	}

	for _, test := range tests {
		t.Run(test.rawCommand, func(t *testing.T) {
			command, discard, err := classifyCommand(test.rawCommand, test.rawCommand)
			require.NoError(t, err)
			require.Nil(t, discard)

			assert.Equal(t, test.expected, command.GetType())

			channel, ok := ChannelOf(command)
			assert.True(t, ok)
			assert.Equal(t, "#dallas", channel)
		})
	}
}

func TestCanClassifyCommandsWithoutChannel(t *testing.T) {
	tests := []struct {
		rawCommand string
		expected   CommandType
	}{
		{"PING", PING},
		{"GLOBALUSERSTATE", GLOBALUSERSTATE},
		{"RECONNECT", RECONNECT},
	}

	for _, test := range tests {
		command, discard, err := classifyCommand(test.rawCommand, test.rawCommand)
		require.NoError(t, err)
		require.Nil(t, discard)

		assert.Equal(t, test.expected, command.GetType())
		assert.Equal(t, test.rawCommand, command.Keyword())

		_, ok := ChannelOf(command)
		assert.False(t, ok)
	}
}

func TestCanClassifyCap(t *testing.T) {
	command, _, err := classifyCommand("CAP * ACK", "CAP * ACK")
	require.NoError(t, err)
	capCommand := command.(*CapCommand)
	assertTrue(t, capCommand.Acknowledged, "CAP * ACK must be acknowledged")

	command, _, err = classifyCommand("CAP * NAK", "CAP * NAK")
	require.NoError(t, err)
	capCommand = command.(*CapCommand)
	assertFalse(t, capCommand.Acknowledged, "CAP * NAK must not be acknowledged")
}

func TestIgnorableNumericsAreDiscarded(t *testing.T) {
	for _, keyword := range []string{"002", "003", "004", "353", "366", "372", "375", "376"} {
		command, discard, err := classifyCommand(keyword+" justinfan", keyword+" justinfan")
		require.NoError(t, err)
		assert.Nil(t, command)
		require.NotNil(t, discard)
		assert.Equal(t, keyword, discard.Keyword)
		assert.Equal(t, DiscardIgnorable, discard.Reason)
	}
}

func TestUnknownCommandReplyCarriesRejectedCommand(t *testing.T) {
	_, discard, err := classifyCommand("421 justinfan WHO", "421 justinfan WHO")
	require.NoError(t, err)
	require.NotNil(t, discard)

	assert.Equal(t, "421", discard.Keyword)
	assert.Equal(t, DiscardIgnorable, discard.Reason)
	assert.Equal(t, "WHO", discard.Detail)
}

func TestUnrecognizedCommandsAreDiscarded(t *testing.T) {
	for _, rawCommand := range []string{"USERNOTICE #dallas", "WHISPER justinfan", "CLEARMSG #dallas", "PONG tmi.twitch.tv", "999"} {
		command, discard, err := classifyCommand(rawCommand, rawCommand)
		require.NoError(t, err)
		assert.Nil(t, command)
		require.NotNil(t, discard)
		assert.Equal(t, DiscardUnrecognized, discard.Reason)
		assert.Equal(t, "unrecognized", discard.Reason.String())
	}
}

func TestMissingRequiredTokenIsMalformed(t *testing.T) {
	for _, rawCommand := range []string{"JOIN", "PART", "NOTICE", "CLEARCHAT", "HOSTTARGET", "PRIVMSG", "USERSTATE", "ROOMSTATE", "001", "CAP *", "JOIN  #dallas"} {
		command, discard, err := classifyCommand(rawCommand, rawCommand)
		assert.Nil(t, command, rawCommand)
		assert.Nil(t, discard, rawCommand)
		assert.True(t, errors.Is(err, ErrMalformedInput), rawCommand)
	}
}
