package twitch

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func assertStringsEqual(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("failed asserting that \"%s\" is expected \"%s\"", actual, expected)
	}
}

func assertIntsEqual(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("failed asserting that \"%d\" is expected \"%d\"", actual, expected)
	}
}

func assertInt32sEqual(t *testing.T, expected, actual int32) {
	t.Helper()
	if expected != actual {
		t.Errorf("failed asserting that \"%d\" is expected \"%d\"", actual, expected)
	}
}

func assertTrue(t *testing.T, actual bool, errorMessage string) {
	t.Helper()
	if !actual {
		t.Error(errorMessage)
	}
}

func assertFalse(t *testing.T, actual bool, errorMessage string) {
	t.Helper()
	if actual {
		t.Error(errorMessage)
	}
}

func assertStringPtrEqual(t *testing.T, expected string, actual *string) {
	t.Helper()
	if actual == nil {
		t.Errorf("failed asserting that nil is expected \"%s\"", expected)
		return
	}
	assertStringsEqual(t, expected, *actual)
}

func assertStringPtrNil(t *testing.T, actual *string) {
	t.Helper()
	if actual != nil {
		t.Errorf("failed asserting that \"%s\" is expected nil", *actual)
	}
}

func assertErrorsEqual(t *testing.T, expected, actual error) {
	t.Helper()
	if expected != actual {
		t.Errorf("failed asserting that error \"%s\" is expected \"%s\"", actual, expected)
	}
}

// formats a ping-signature (i.e. go-twitch-chat) into a full-fledged pong response (i.e. ":tmi.twitch.tv PONG tmi.twitch.tv :go-twitch-chat")
func formatPong(signature string) string {
	return ":tmi.twitch.tv PONG tmi.twitch.tv :" + signature
}

// fakeTransport is an in-memory connection. Lines written to incoming are read by the client,
// lines the client writes appear on outgoing.
type fakeTransport struct {
	incoming chan string
	outgoing chan string
	closed   chan struct{}
	once     sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		incoming: make(chan string, 64),
		outgoing: make(chan string, 64),
		closed:   make(chan struct{}),
	}
}

func (f *fakeTransport) ReadLine() (string, error) {
	select {
	case line := <-f.incoming:
		return line, nil
	case <-f.closed:
		return "", io.EOF
	}
}

func (f *fakeTransport) WriteLine(line string) error {
	select {
	case <-f.closed:
		return io.ErrClosedPipe
	default:
	}

	select {
	case f.outgoing <- line:
		return nil
	case <-f.closed:
		return io.ErrClosedPipe
	}
}

func (f *fakeTransport) Close() error {
	f.once.Do(func() {
		close(f.closed)
	})
	return nil
}

// expectLine reads what the client wrote until want shows up
func (f *fakeTransport) expectLine(t *testing.T, want string) {
	t.Helper()

	timeout := time.After(time.Second * 2)
	for {
		select {
		case line := <-f.outgoing:
			if line == want {
				return
			}
		case <-timeout:
			t.Fatalf("client never wrote %q", want)
		}
	}
}

func newTestClient(transports ...*fakeTransport) *Client {
	client := NewClient("justinfan123123", "oauth:123123123")
	client.SendPings = false
	client.SetJoinRateLimiter(CreateUnlimitedRateLimiter())
	client.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	var mu sync.Mutex
	next := 0
	client.dial = func() (transport, error) {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(transports) {
			return nil, io.ErrUnexpectedEOF
		}
		conn := transports[next]
		next++
		return conn, nil
	}

	return client
}

func waitForSignal(t *testing.T, signal <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-signal:
	case <-time.After(time.Second * 2):
		t.Fatalf("timed out waiting for %s", what)
	}
}
