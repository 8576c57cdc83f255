package twitch

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

func (c *Client) startReader(reader transport, wg *sync.WaitGroup) {
	defer func() {
		c.clientReconnect.Close()

		wg.Done()
	}()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			c.logger().Debug("reader stopped", slog.Any("err", err))
			return
		}

		// websocket frames are split by the transport, a tcp line never holds more than one message
		for _, msg := range splitLines(line) {
			select {
			case c.read <- msg:
			case <-c.clientReconnect.channel:
				return
			}
		}
	}
}

func (c *Client) startPinger(closer io.Closer, wg *sync.WaitGroup) {
	c.pongReceived = make(chan bool, 1)

	go func() {
		defer func() {
			wg.Done()
		}()

		for {
			select {
			case <-c.clientReconnect.channel:
				return

			case <-c.userDisconnect.channel:
				return

			case <-c.messageReceived:
				// Interrupt idle ping interval
				continue

			case <-time.After(c.IdlePingInterval):
				if c.onPingSent != nil {
					c.onPingSent()
				}
				c.send(pingMessage)

				select {
				case <-c.pongReceived:
					// Received pong message within the time limit, we're good
					if c.onPongReceived != nil {
						c.onPongReceived()
					}
					continue

				case <-time.After(c.PongTimeout):
					// No pong message was received within the pong timeout, disconnect
					c.logger().Warn("pong timeout", slog.Duration("timeout", c.PongTimeout))
					c.clientReconnect.Close()
					closer.Close()
				}
			}
		}
	}()
}

func (c *Client) startWriter(writer transport, wg *sync.WaitGroup) {
	defer func() {
		wg.Done()
	}()
	for {
		select {
		case <-c.clientReconnect.channel:
			return

		case <-c.userDisconnect.channel:
			return

		case msg := <-c.write:
			err := writer.WriteLine(msg)
			if err != nil {
				// Attempt to re-send failed messages
				c.send(msg)

				writer.Close()
				c.clientReconnect.Close()
				return
			}
		}
	}
}

// chanCloser is a helper function for abusing channels for notifications
// this is an easy "notify many" channel
type chanCloser struct {
	mutex sync.Mutex

	o       *sync.Once
	channel chan struct{}
}

func (c *chanCloser) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.o = &sync.Once{}
	c.channel = make(chan struct{})
}

func (c *chanCloser) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.o.Do(func() {
		close(c.channel)
	})
}

func (c *chanCloser) isClosed() bool {
	c.mutex.Lock()
	channel := c.channel
	c.mutex.Unlock()

	select {
	case <-channel:
		return true
	default:
		return false
	}
}
