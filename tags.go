package twitch

import (
	"strconv"
	"strings"
)

// TagKind tells which field of a TagValue is populated
type TagKind int

const (
	// TagNull an empty value, e.g. "emotes="
	TagNull TagKind = iota
	// TagText any value stored as-is
	TagText
	// TagBadges badges and badge-info
	TagBadges
	// TagEmotes emote occurrences
	TagEmotes
	// TagEmoteSets emote-sets
	TagEmoteSets
)

// EmoteRange is the inclusive position of one emote occurrence in the message text
type EmoteRange struct {
	Start int
	End   int
}

// TagValue is the decoded value of a single tag
type TagValue struct {
	Kind      TagKind
	Text      string
	Badges    map[string]string
	Emotes    map[string][]EmoteRange
	EmoteSets []string
}

// IsNull reports whether the tag was present without a value
func (v TagValue) IsNull() bool {
	return v.Kind == TagNull
}

// Tags decoded tags block of a message, keyed by tag name
type Tags map[string]TagValue

// Text returns the raw text of a plain tag. ok is false for missing, null or structured tags.
func (t Tags) Text(key string) (string, bool) {
	value, ok := t[key]
	if !ok || value.Kind != TagText {
		return "", false
	}

	return value.Text, true
}

// Unescaped returns the text of a plain tag with IRCv3 tag escapes resolved, e.g. "system-msg"
func (t Tags) Unescaped(key string) (string, bool) {
	value, ok := t.Text(key)
	if !ok {
		return "", false
	}

	return unescapeTagValue(value), true
}

// Badges returns the badges tag, nil when absent or null
func (t Tags) Badges() map[string]string {
	return t["badges"].Badges
}

// BadgeInfo returns the badge-info tag, nil when absent or null
func (t Tags) BadgeInfo() map[string]string {
	return t["badge-info"].Badges
}

// Emotes returns the emotes tag, nil when absent or null
func (t Tags) Emotes() map[string][]EmoteRange {
	return t["emotes"].Emotes
}

// EmoteSets returns the emote-sets tag, nil when absent or null
func (t Tags) EmoteSets() []string {
	return t["emote-sets"].EmoteSets
}

// tags that are never stored
var ignoredTags = map[string]bool{
	"client-nonce": true,
	"flags":        true,
}

func parseTags(rawTags string) Tags {
	tags := make(Tags)

	for _, tag := range strings.Split(rawTags, ";") {
		if tag == "" {
			continue
		}

		key, rawValue, _ := strings.Cut(tag, "=")

		if ignoredTags[key] {
			continue
		}

		if rawValue == "" {
			tags[key] = TagValue{Kind: TagNull}
			continue
		}

		switch key {
		case "badges", "badge-info":
			tags[key] = TagValue{Kind: TagBadges, Badges: parseBadges(rawValue)}
		case "emotes":
			tags[key] = TagValue{Kind: TagEmotes, Emotes: parseEmotes(rawValue)}
		case "emote-sets":
			tags[key] = TagValue{Kind: TagEmoteSets, EmoteSets: strings.Split(rawValue, ",")}
		default:
			tags[key] = TagValue{Kind: TagText, Text: rawValue}
		}
	}

	return tags
}

// parseBadges decodes "broadcaster/1,subscriber/12". Pairs without a '/' are skipped.
func parseBadges(rawBadges string) map[string]string {
	badges := make(map[string]string)

	for _, badge := range strings.Split(rawBadges, ",") {
		name, version, found := strings.Cut(badge, "/")
		if !found || name == "" {
			continue
		}

		badges[name] = version
	}

	return badges
}

// parseEmotes decodes "25:0-4,6-10/1902:15-19".
// Malformed entries and ranges are skipped, an emote left without any range is not stored.
func parseEmotes(rawEmotes string) map[string][]EmoteRange {
	emotes := make(map[string][]EmoteRange)

	for _, emote := range strings.Split(rawEmotes, "/") {
		id, rawRanges, found := strings.Cut(emote, ":")
		if !found || id == "" {
			continue
		}

		var ranges []EmoteRange
		for _, rawRange := range strings.Split(rawRanges, ",") {
			emoteRange, ok := parseEmoteRange(rawRange)
			if !ok {
				continue
			}

			ranges = append(ranges, emoteRange)
		}

		if len(ranges) > 0 {
			emotes[id] = ranges
		}
	}

	return emotes
}

func parseEmoteRange(rawRange string) (EmoteRange, bool) {
	rawStart, rawEnd, found := strings.Cut(rawRange, "-")
	if !found {
		return EmoteRange{}, false
	}

	start, err := strconv.Atoi(rawStart)
	if err != nil {
		return EmoteRange{}, false
	}

	end, err := strconv.Atoi(rawEnd)
	if err != nil {
		return EmoteRange{}, false
	}

	return EmoteRange{Start: start, End: end}, true
}

var tagEscapeCharacters = map[byte]byte{
	's':  ' ',
	'n':  '\n',
	'r':  '\r',
	':':  ';',
	'\\': '\\',
}

// unescapeTagValue resolves IRCv3 tag escapes in a single pass.
// Unknown escapes drop the backslash, a lone trailing backslash is dropped.
func unescapeTagValue(rawValue string) string {
	if strings.IndexByte(rawValue, '\\') == -1 {
		return rawValue
	}

	var b strings.Builder
	b.Grow(len(rawValue))

	for i := 0; i < len(rawValue); i++ {
		c := rawValue[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++
		if i == len(rawValue) {
			break
		}

		if to, ok := tagEscapeCharacters[rawValue[i]]; ok {
			b.WriteByte(to)
		} else {
			b.WriteByte(rawValue[i])
		}
	}

	return b.String()
}
