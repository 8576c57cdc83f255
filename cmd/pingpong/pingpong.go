package main

import (
	"log/slog"
	"os"

	twitch "github.com/iarazumov/go-twitch-chat"
)

func main() {
	username := os.Getenv("TWITCH_USER")
	token := os.Getenv("TWITCH_PASSWORD")
	channel := os.Getenv("TWITCH_CHANNEL")
	if username == "" || token == "" || channel == "" {
		slog.Error("TWITCH_USER, TWITCH_PASSWORD and TWITCH_CHANNEL must be set")
		os.Exit(1)
	}

	client := twitch.NewClient(username, token)

	client.OnBotCommand(func(message twitch.Message, bot twitch.BotCommand) {
		if bot.Name != "ping" {
			return
		}

		channel, ok := message.Channel()
		if !ok {
			return
		}

		slog.Info("ping", slog.String("user", message.Nick()), slog.String("channel", channel))
		client.Reply(channel, message.ID(), "pong")
	})

	client.Join(channel)

	if err := client.Connect(); err != nil {
		slog.Error("connection closed", slog.Any("err", err))
		os.Exit(1)
	}
}
