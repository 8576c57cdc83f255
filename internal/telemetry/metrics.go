// Package telemetry provides Prometheus metrics for the chat connections.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Line outcomes
const (
	OutcomeMessage   = "message"
	OutcomeDiscard   = "discard"
	OutcomeMalformed = "malformed"
)

var (
	once sync.Once

	// LinesTotal counts received lines by platform and parse outcome
	LinesTotal *prometheus.CounterVec
	// BotCommandsTotal counts messages that carried a bot command
	BotCommandsTotal *prometheus.CounterVec
	// ReconnectsTotal counts reconnects of the Twitch connection
	ReconnectsTotal prometheus.Counter
	// ConnectedGauge 1=connected,0=disconnected per platform
	ConnectedGauge *prometheus.GaugeVec
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		LinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chat_lines_total", Help: "Number of chat lines received"}, []string{"platform", "outcome"})
		BotCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chat_bot_commands_total", Help: "Number of messages carrying a bot command"}, []string{"platform"})
		ReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "chat_reconnects_total", Help: "Number of reconnects to Twitch chat"})
		ConnectedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{Name: "chat_connected", Help: "Connection state connected=1 disconnected=0"}, []string{"platform"})
	})
}

// ObserveLine records one received line
func ObserveLine(platform, outcome string) {
	if LinesTotal != nil {
		LinesTotal.WithLabelValues(platform, outcome).Inc()
	}
}

// ObserveBotCommand records one bot command
func ObserveBotCommand(platform string) {
	if BotCommandsTotal != nil {
		BotCommandsTotal.WithLabelValues(platform).Inc()
	}
}

// ObserveReconnect records one reconnect
func ObserveReconnect() {
	if ReconnectsTotal != nil {
		ReconnectsTotal.Inc()
	}
}

// SetConnected records the connection state of a platform
func SetConnected(platform string, connected bool) {
	if ConnectedGauge == nil {
		return
	}
	if connected {
		ConnectedGauge.WithLabelValues(platform).Set(1)
	} else {
		ConnectedGauge.WithLabelValues(platform).Set(0)
	}
}

// Serve exposes /metrics on addr until ctx is done
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
