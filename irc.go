package twitch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput is matched by every error ParseMessage returns.
// A malformed line points at a framing problem in the transport, not at the content of a chat message.
var ErrMalformedInput = errors.New("malformed input")

// MalformedError describes which structural piece of a line was missing
type MalformedError struct {
	Line   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Line, e.Reason)
}

// Unwrap makes errors.Is(err, ErrMalformedInput) hold for every MalformedError
func (e *MalformedError) Unwrap() error {
	return ErrMalformedInput
}

func malformed(line, reason string) error {
	return &MalformedError{Line: line, Reason: reason}
}

// Source is the origin of a message. Server-originated lines (e.g. tmi.twitch.tv) have no Nick.
type Source struct {
	Nick *string
	Host string
}

// rawSegments holds the undecoded blocks of a single line.
// hasTags/hasSource are tracked separately from the strings because an empty block is still a block.
type rawSegments struct {
	tags       string
	hasTags    bool
	source     string
	hasSource  bool
	command    string
	parameters *string
}

// segmentLine splits a line into its tags, source, command and parameters blocks
func segmentLine(line string) (rawSegments, error) {
	var segments rawSegments

	if line == "" {
		return segments, malformed(line, "empty line")
	}

	cursor := 0

	if line[cursor] == '@' {
		end := strings.IndexByte(line, ' ')
		if end == -1 {
			return segments, malformed(line, "partial message")
		}

		segments.tags = line[1:end]
		segments.hasTags = true
		cursor = end + 1
	}

	if cursor < len(line) && line[cursor] == ':' {
		end := strings.IndexByte(line[cursor:], ' ')
		if end == -1 {
			return segments, malformed(line, "no command")
		}

		segments.source = line[cursor+1 : cursor+end]
		segments.hasSource = true
		cursor += end + 1
	}

	rest := line[cursor:]
	if colon := strings.IndexByte(rest, ':'); colon != -1 {
		parameters := rest[colon+1:]
		segments.parameters = &parameters
		rest = rest[:colon]
	}

	segments.command = strings.TrimSpace(rest)
	if segments.command == "" {
		return segments, malformed(line, "no command")
	}

	return segments, nil
}

// parseSource splits a source block on its first '!'
func parseSource(rawSource string) *Source {
	var source Source

	nick, host, found := strings.Cut(rawSource, "!")
	if !found {
		source.Host = rawSource
		return &source
	}

	source.Nick = &nick
	source.Host = host

	return &source
}
