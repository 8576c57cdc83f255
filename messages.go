package twitch

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// User the sender of a message, assembled from its tags and source
type User struct {
	ID          string
	Name        string
	DisplayName string
	Color       string
	Badges      map[string]string
}

// Emote an emote used in a message
type Emote struct {
	Name      string
	ID        string
	Count     int
	Positions []EmoteRange
}

// User returns the sender of the message
func (m *Message) User() User {
	user := User{
		Name:   m.Nick(),
		Badges: m.Tags.Badges(),
	}
	user.ID, _ = m.Tags.Text("user-id")
	user.DisplayName, _ = m.Tags.Unescaped("display-name")
	user.Color, _ = m.Tags.Text("color")

	if user.Badges == nil {
		user.Badges = make(map[string]string)
	}

	// USERSTATE doesn't contain a nick, but it does have a display-name tag
	if user.Name == "" && user.DisplayName != "" {
		user.Name = strings.ToLower(user.DisplayName)
		user.Name = strings.Replace(user.Name, " ", "", 1)
	}

	return user
}

// ID returns the "id" tag, used as parent id for Client.Reply
func (m *Message) ID() string {
	id, _ := m.Tags.Text("id")
	return id
}

// Action reports whether the text is a /me message
func (m *Message) Action() bool {
	text := m.Text()
	return len(text) >= 9 && strings.HasPrefix(text, "\u0001ACTION ") && strings.HasSuffix(text, "\u0001")
}

// ActionText returns the text with the /me framing removed
func (m *Message) ActionText() string {
	if !m.Action() {
		return m.Text()
	}
	text := m.Text()
	return text[8 : len(text)-1]
}

// Time returns the tmi-sent-ts tag, the zero time when absent or invalid
func (m *Message) Time() time.Time {
	rawTime, ok := m.Tags.Text("tmi-sent-ts")
	if !ok {
		return time.Time{}
	}

	millis, err := strconv.ParseInt(rawTime, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(0, millis*int64(time.Millisecond))
}

// Emotes returns the emotes of the message sorted by their first occurrence.
// Positions count unicode code points, ranges outside the text get no name.
func (m *Message) Emotes() []*Emote {
	rawEmotes := m.Tags.Emotes()
	if len(rawEmotes) == 0 {
		return nil
	}

	runes := []rune(m.Text())
	emotes := make([]*Emote, 0, len(rawEmotes))

	for id, positions := range rawEmotes {
		emote := &Emote{
			ID:        id,
			Count:     len(positions),
			Positions: positions,
		}

		first := positions[0]
		if first.Start >= 0 && first.Start <= first.End && first.End < len(runes) {
			emote.Name = string(runes[first.Start : first.End+1])
		}

		emotes = append(emotes, emote)
	}

	sort.Slice(emotes, func(i, j int) bool {
		return emotes[i].Positions[0].Start < emotes[j].Positions[0].Start
	})

	return emotes
}
