package quiverclient

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/quic-go/quic-go"
	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/spancodec"
)

// sendQueueCapacity is the bounded channel size every connection handle
// shares; a full queue blocks the producing goroutine until the
// background task drains it.
const sendQueueCapacity = 16

const dialTimeout = 5 * time.Second
const streamOpenTimeout = 5 * time.Second

type sendSpanMsg struct{ span *model.Span }

type shutdownMsg struct {
	maxWait time.Duration
	done    chan struct{}
}

// Connection owns one QUIC connection to the collector's Quiver listener,
// fed by a single background task. Clones share the same channel,
// so every clone's SendSpan call is delivered to the same actor.
type Connection struct {
	addr    string
	tlsConf *tls.Config
	logger  *zap.Logger

	sendCh chan any
	doneCh chan struct{}
}

// Dial starts the background connection task and returns immediately; the
// actual QUIC dial happens lazily on the first SendSpan, and again after
// any send failure.
func Dial(addr string, tlsConf *tls.Config, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Connection{
		addr:    addr,
		tlsConf: tlsConf,
		logger:  logger,
		sendCh:  make(chan any, sendQueueCapacity),
		doneCh:  make(chan struct{}),
	}
	go c.run()
	return c
}

// SendSpan enqueues span for delivery. It blocks if the bounded channel is
// full, and is a no-op after Shutdown has completed.
func (c *Connection) SendSpan(span *model.Span) {
	select {
	case c.sendCh <- sendSpanMsg{span: span}:
	case <-c.doneCh:
	}
}

// Shutdown drains outstanding sends (bounded by maxWait), closes the
// connection, and returns once the background task has exited. Calling
// Shutdown more than once is safe; later calls return immediately.
func (c *Connection) Shutdown(maxWait time.Duration) {
	done := make(chan struct{})
	select {
	case c.sendCh <- shutdownMsg{maxWait: maxWait, done: done}:
		select {
		case <-done:
		case <-c.doneCh:
		}
	case <-c.doneCh:
	}
}

// run is the connection actor: Disconnected -> Connected on dial success,
// Connected -> Disconnected on a send error (reconnecting lazily on the
// next send), Any -> Draining -> Closed on Shutdown.
func (c *Connection) run() {
	defer close(c.doneCh)

	var qconn quic.Connection
	connected := false

	connect := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		conn, err := quic.DialAddr(ctx, c.addr, c.tlsConf, &quic.Config{})
		if err != nil {
			c.logger.Warn("quiver dial", zap.Error(err))
			return false
		}
		qconn = conn
		connected = true
		return true
	}

	for msg := range c.sendCh {
		switch m := msg.(type) {
		case sendSpanMsg:
			if !connected && !connect() {
				c.logger.Warn("quiver span dropped: not connected", zap.String("operation", m.span.OperationName))
				continue
			}
			if err := sendOneSpan(qconn, m.span); err != nil {
				c.logger.Warn("quiver send span", zap.Error(err))
				connected = false
			}
		case shutdownMsg:
			c.drainAndClose(qconn, m.maxWait)
			close(m.done)
			return
		}
	}
}

// drainAndClose flushes every sendSpanMsg already buffered in the channel
// at the moment Shutdown was invoked (the actor's single-consumer, FIFO
// ordering means almost everything sent before Shutdown was already
// processed by the normal sendSpanMsg case by the time it runs), then
// closes the connection and waits for it to go idle, bounded by maxWait.
func (c *Connection) drainAndClose(qconn quic.Connection, maxWait time.Duration) {
	deadline := time.Now().Add(maxWait)
drain:
	for {
		select {
		case msg := <-c.sendCh:
			if send, ok := msg.(sendSpanMsg); ok && qconn != nil {
				if err := sendOneSpan(qconn, send.span); err != nil {
					c.logger.Warn("quiver send span during drain", zap.Error(err))
				}
			}
		default:
			break drain
		}
		if time.Now().After(deadline) {
			break drain
		}
	}

	if qconn != nil {
		// Stream writes and FINs are only queued by sendOneSpan; the close
		// frame would preempt any still in flight. Let them flush first.
		settle := 100 * time.Millisecond
		if remaining := time.Until(deadline); remaining < settle {
			settle = remaining
		}
		if settle > 0 {
			time.Sleep(settle)
		}
		_ = qconn.CloseWithError(0, "shutdown")
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		select {
		case <-qconn.Context().Done():
		case <-time.After(remaining):
		}
	}
}

func sendOneSpan(conn quic.Connection, span *model.Span) error {
	ctx, cancel := context.WithTimeout(context.Background(), streamOpenTimeout)
	defer cancel()

	stream, err := conn.OpenUniStreamSync(ctx)
	if err != nil {
		return err
	}
	frame, err := spancodec.EncodeFrame(span)
	if err != nil {
		_ = stream.Close()
		return err
	}
	if _, err := stream.Write(frame); err != nil {
		return err
	}
	return stream.Close()
}
