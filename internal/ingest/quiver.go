package ingest

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"time"

	"github.com/quic-go/quic-go"
	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/convert"
	"github.com/archer-go/archer/internal/model"
)

// maxQuiverStream is the largest uncompressed (and, in practice, compressed)
// payload any single Quiver stream may carry; larger streams are rejected
// outright rather than read to completion.
const maxQuiverStream = 64 * 1024

// quiverStreamReadTimeout bounds how long a stream's single read may take
// before the listener gives up on it.
const quiverStreamReadTimeout = 5 * time.Second

// QuiverListener accepts QUIC connections secured by the bootstrap
// self-signed certificate and decodes one canonical span per unidirectional
// stream.
type QuiverListener struct {
	Addr   string
	TLS    *tls.Config
	Sink   Sink
	Logger *zap.Logger

	listener *quic.Listener
}

// Listen binds the QUIC listener without serving. ListenAndServe calls it
// implicitly; tests call it first to learn the chosen port when Addr ends
// in :0.
func (l *QuiverListener) Listen() error {
	listener, err := quic.ListenAddr(l.Addr, l.TLS, &quic.Config{})
	if err != nil {
		return err
	}
	l.listener = listener
	return nil
}

// BoundAddr returns the address the listener is bound to; valid after
// Listen.
func (l *QuiverListener) BoundAddr() net.Addr {
	return l.listener.Addr()
}

// ListenAndServe binds the QUIC listener (unless Listen already did) and
// serves connections until ctx is cancelled, at which point it stops
// accepting new connections; spans already being decoded are allowed to
// finish.
func (l *QuiverListener) ListenAndServe(ctx context.Context) error {
	if l.listener == nil {
		if err := l.Listen(); err != nil {
			return err
		}
	}
	listener := l.listener
	defer listener.Close()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			if l.Logger != nil {
				l.Logger.Warn("quiver accept connection", zap.Error(err))
			}
			continue
		}
		go l.serveConn(ctx, conn)
	}
}

func (l *QuiverListener) serveConn(ctx context.Context, conn quic.Connection) {
	for {
		stream, err := conn.AcceptUniStream(ctx)
		if err != nil {
			if isNormalQuiverTermination(err) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			if l.Logger != nil {
				l.Logger.Warn("quiver accept stream", zap.Error(err))
			}
			return
		}
		go l.serveStream(stream)
	}
}

func (l *QuiverListener) serveStream(stream quic.ReceiveStream) {
	_ = stream.SetReadDeadline(time.Now().Add(quiverStreamReadTimeout))

	frame, err := io.ReadAll(io.LimitReader(stream, maxQuiverStream+1))
	if err != nil && !errors.Is(err, io.EOF) {
		if l.Logger != nil {
			l.Logger.Warn("quiver read stream", zap.Error(err))
		}
		return
	}
	if len(frame) > maxQuiverStream {
		if l.Logger != nil {
			l.Logger.Warn("quiver stream exceeds size limit", zap.Int("bytes", len(frame)))
		}
		return
	}

	span, err := convert.QuiverFrameToSpan(frame)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("quiver decode frame", zap.Error(err))
		}
		return
	}
	saveDetached(l.Logger, l.Sink, []*model.Span{span})
}

// isNormalQuiverTermination reports whether err is an ordinary connection
// close or idle timeout: routine connection lifecycle, not a logged
// failure.
func isNormalQuiverTermination(err error) bool {
	var appErr *quic.ApplicationError
	if errors.As(err, &appErr) {
		return true
	}
	var idleErr *quic.IdleTimeoutError
	if errors.As(err, &idleErr) {
		return true
	}
	return false
}
