package twitch

import "strings"

// BotCommandPrefix marks chat text that carries a bot command
const BotCommandPrefix = '!'

// parseBotCommand lifts "!name rest" out of message parameters.
// It returns nil when the parameters do not start with the prefix or name nothing.
func parseBotCommand(parameters string) *BotCommand {
	if parameters == "" || parameters[0] != BotCommandPrefix {
		return nil
	}

	rest := strings.TrimSpace(parameters[1:])
	if rest == "" {
		return nil
	}

	name, params, found := strings.Cut(rest, " ")
	if !found {
		return &BotCommand{Name: rest}
	}

	params = strings.TrimSpace(params)

	return &BotCommand{Name: strings.TrimSpace(name), Params: &params}
}
