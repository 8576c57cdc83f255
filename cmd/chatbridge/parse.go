package main

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	twitch "github.com/iarazumov/go-twitch-chat"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [line...]",
		Short: "Parse IRC lines from the arguments or stdin and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := json.NewEncoder(cmd.OutOrStdout())

			if len(args) > 0 {
				for _, line := range args {
					if err := encoder.Encode(describeLine(line)); err != nil {
						return err
					}
				}
				return nil
			}

			return parseStream(cmd.InOrStdin(), encoder)
		},
	}
}

func parseStream(r io.Reader, encoder *json.Encoder) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := encoder.Encode(describeLine(line)); err != nil {
			return err
		}
	}

	return scanner.Err()
}

type parseResult struct {
	Outcome    string         `json:"outcome"`
	Command    string         `json:"command,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Nick       *string        `json:"nick,omitempty"`
	Host       string         `json:"host,omitempty"`
	Parameters *string        `json:"parameters,omitempty"`
	Tags       map[string]any `json:"tags,omitempty"`
	Bot        *botResult     `json:"bot,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Detail     string         `json:"detail,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type botResult struct {
	Name   string  `json:"name"`
	Params *string `json:"params"`
}

func describeLine(line string) parseResult {
	message, discard, err := twitch.ParseMessage(line)
	if err != nil {
		return parseResult{Outcome: "malformed", Error: err.Error()}
	}

	if discard != nil {
		return parseResult{
			Outcome: "discard",
			Command: discard.Keyword,
			Reason:  discard.Reason.String(),
			Detail:  discard.Detail,
		}
	}

	result := parseResult{
		Outcome:    "message",
		Command:    message.Command.Keyword(),
		Parameters: message.Parameters,
	}
	result.Channel, _ = message.Channel()

	if message.Source != nil {
		result.Nick = message.Source.Nick
		result.Host = message.Source.Host
	}

	if message.Tags != nil {
		result.Tags = make(map[string]any, len(message.Tags))
		for key, value := range message.Tags {
			result.Tags[key] = tagJSON(value)
		}
	}

	if bot := message.Command.Bot(); bot != nil {
		result.Bot = &botResult{Name: bot.Name, Params: bot.Params}
	}

	return result
}

func tagJSON(value twitch.TagValue) any {
	switch value.Kind {
	case twitch.TagText:
		return value.Text
	case twitch.TagBadges:
		return value.Badges
	case twitch.TagEmotes:
		emotes := make(map[string][][2]int, len(value.Emotes))
		for id, ranges := range value.Emotes {
			for _, r := range ranges {
				emotes[id] = append(emotes[id], [2]int{r.Start, r.End})
			}
		}
		return emotes
	case twitch.TagEmoteSets:
		return value.EmoteSets
	default:
		return nil
	}
}
