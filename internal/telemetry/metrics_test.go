package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInitialized(t *testing.T) {
	Init()
	// second call must not panic on duplicate registration
	Init()

	if LinesTotal == nil {
		t.Error("LinesTotal counter not initialized")
	}
	if BotCommandsTotal == nil {
		t.Error("BotCommandsTotal counter not initialized")
	}
	if ReconnectsTotal == nil {
		t.Error("ReconnectsTotal counter not initialized")
	}
	if ConnectedGauge == nil {
		t.Error("ConnectedGauge not initialized")
	}
}

func TestObserveLine(t *testing.T) {
	Init()

	before := testutil.ToFloat64(LinesTotal.WithLabelValues("twitch", OutcomeDiscard))
	ObserveLine("twitch", OutcomeDiscard)
	ObserveLine("twitch", OutcomeDiscard)
	ObserveLine("twitch", OutcomeMessage)

	if got := testutil.ToFloat64(LinesTotal.WithLabelValues("twitch", OutcomeDiscard)); got != before+2 {
		t.Errorf("expected %v discards, got %v", before+2, got)
	}
}

func TestObserveBotCommandAndReconnect(t *testing.T) {
	Init()

	bots := testutil.ToFloat64(BotCommandsTotal.WithLabelValues("twitch"))
	reconnects := testutil.ToFloat64(ReconnectsTotal)

	ObserveBotCommand("twitch")
	ObserveReconnect()

	if got := testutil.ToFloat64(BotCommandsTotal.WithLabelValues("twitch")); got != bots+1 {
		t.Errorf("expected %v bot commands, got %v", bots+1, got)
	}
	if got := testutil.ToFloat64(ReconnectsTotal); got != reconnects+1 {
		t.Errorf("expected %v reconnects, got %v", reconnects+1, got)
	}
}

func TestSetConnected(t *testing.T) {
	Init()

	SetConnected("trovo", true)
	if got := testutil.ToFloat64(ConnectedGauge.WithLabelValues("trovo")); got != 1 {
		t.Errorf("expected connected gauge 1, got %v", got)
	}

	SetConnected("trovo", false)
	if got := testutil.ToFloat64(ConnectedGauge.WithLabelValues("trovo")); got != 0 {
		t.Errorf("expected connected gauge 0, got %v", got)
	}
}
