package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	twitch "github.com/iarazumov/go-twitch-chat"
	"github.com/iarazumov/go-twitch-chat/internal/config"
	"github.com/iarazumov/go-twitch-chat/internal/telemetry"
	"github.com/iarazumov/go-twitch-chat/trovo"
)

const (
	platformTwitch = "twitch"
	platformTrovo  = "trovo"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the configured platforms and print their chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runBridge(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}
}

func runBridge(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	if !cfg.TwitchEnabled() && !cfg.TrovoEnabled() {
		return errors.New("nothing to do: configure TWITCH_* and/or TROVO_* variables")
	}
	if cfg.TwitchEnabled() {
		if err := cfg.ValidateTwitch(); err != nil {
			return err
		}
	}
	if cfg.TrovoEnabled() {
		if err := cfg.ValidateTrovo(); err != nil {
			return err
		}
	}

	telemetry.Init()

	g, ctx := errgroup.WithContext(ctx)

	var output sync.Mutex
	printf := func(format string, args ...any) {
		output.Lock()
		defer output.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			if err := telemetry.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				return fmt.Errorf("metrics: %w", err)
			}
			return nil
		})
	}

	if cfg.TwitchEnabled() {
		client := newTwitchClient(cfg.Twitch, logger, printf)
		g.Go(func() error {
			if err := runTwitch(ctx, client); err != nil {
				return fmt.Errorf("%s: %w", platformTwitch, err)
			}
			return nil
		})
	}

	if cfg.TrovoEnabled() {
		g.Go(func() error {
			if err := runTrovo(ctx, cfg.Trovo, logger, printf); err != nil {
				return fmt.Errorf("%s: %w", platformTrovo, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func newTwitchClient(cfg config.TwitchConfig, logger *slog.Logger, printf func(string, ...any)) *twitch.Client {
	client := twitch.NewClient(cfg.User, cfg.Password)
	client.Logger = logger.With(slog.String("platform", platformTwitch))
	if cfg.Transport == config.TransportWebSocket {
		client.Transport = twitch.TransportWebSocket
	}

	client.OnConnect(func() {
		telemetry.SetConnected(platformTwitch, true)
		client.Logger.Info("connected", slog.Any("channels", cfg.Channels))
	})
	client.OnReconnect(func() {
		telemetry.SetConnected(platformTwitch, false)
		telemetry.ObserveReconnect()
	})
	client.OnMessage(func(message twitch.Message) {
		telemetry.ObserveLine(platformTwitch, telemetry.OutcomeMessage)
	})
	client.OnDiscard(func(line string, discard twitch.Discard) {
		telemetry.ObserveLine(platformTwitch, telemetry.OutcomeDiscard)
	})
	client.OnMalformed(func(line string, err error) {
		telemetry.ObserveLine(platformTwitch, telemetry.OutcomeMalformed)
	})
	client.OnBotCommand(func(message twitch.Message, bot twitch.BotCommand) {
		telemetry.ObserveBotCommand(platformTwitch)
	})
	client.OnPrivateMessageCommand(func(message twitch.Message, command twitch.PrivateMessageCommand) {
		printf("%s sent message %s\n", message.Nick(), message.Text())
	})

	client.Join(cfg.Channels...)

	return client
}

// runTwitch blocks until the client stops, ctx cancellation disconnects it
func runTwitch(ctx context.Context, client *twitch.Client) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}

		// Disconnect only works on an open connection, retry until the login completed
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for client.Disconnect() != nil {
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()

	err := client.Connect()
	telemetry.SetConnected(platformTwitch, false)
	if errors.Is(err, twitch.ErrClientDisconnected) {
		return nil
	}
	return err
}

func runTrovo(ctx context.Context, cfg config.TrovoConfig, logger *slog.Logger, printf func(string, ...any)) error {
	logger = logger.With(slog.String("platform", platformTrovo))

	auth := trovo.NewAuth(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, trovo.NewTokenStore(cfg.TokenFile))
	token, err := auth.Token(ctx)
	if errors.Is(err, trovo.ErrAuthorizationRequired) {
		return fmt.Errorf("%w: run `chatbridge trovo-auth` first", err)
	}
	if err != nil {
		return err
	}

	chatToken, err := trovo.NewAPI(cfg.ClientID).ChatToken(ctx, token.AccessToken)
	if err != nil {
		return err
	}
	logger.Debug("got chat token")

	client := trovo.NewClient(chatToken)
	client.Logger = logger
	client.OnConnect(func() {
		telemetry.SetConnected(platformTrovo, true)
	})
	client.OnChat(func(chat trovo.Chat) {
		telemetry.ObserveLine(platformTrovo, telemetry.OutcomeMessage)
		printf("User %s says: %s\n", chat.NickName, chat.Content)
	})

	err = client.Run(ctx)
	telemetry.SetConnected(platformTrovo, false)
	return err
}
