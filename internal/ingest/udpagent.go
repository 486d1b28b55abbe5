package ingest

import (
	"context"
	"net"

	"github.com/apache/thrift/lib/go/thrift"
	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/convert"
	"github.com/archer-go/archer/internal/idlthrift"
)

// maxAgentDatagram is generous for a single Batch; UDP datagrams are capped
// by the OS well below this in practice.
const maxAgentDatagram = 65535

// ProtocolFactory builds the thrift.TProtocol a UDP agent listener decodes
// each datagram with: compact for the 6831 listener, binary for 6832.
type ProtocolFactory = thrift.TProtocolFactory

// UDPAgentListener reads one Thrift Batch per datagram on a dedicated
// goroutine; the datagram is decoded inline and only persistence is
// detached.
type UDPAgentListener struct {
	Addr     string
	Protocol ProtocolFactory
	Sink     Sink
	Logger   *zap.Logger
}

// ListenAndServe binds the UDP socket and loops reading datagrams until ctx
// is cancelled.
func (l *UDPAgentListener) ListenAndServe(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp", l.Addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, maxAgentDatagram)
	processor := &idlthrift.AgentProcessor{
		EmitBatch: func(ctx context.Context, batch *idlthrift.Batch) error {
			spans := convert.ThriftBatchToSpans(batch)
			saveDetached(l.Logger, l.Sink, spans)
			return nil
		},
	}

	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if l.Logger != nil {
				l.Logger.Warn("agent udp read", zap.Error(err))
			}
			continue
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])

		mem := thrift.NewTMemoryBufferLen(len(datagram))
		mem.Write(datagram)
		iprot := l.Protocol.GetProtocol(mem)
		if err := processor.Process(ctx, iprot); err != nil && l.Logger != nil {
			l.Logger.Warn("agent udp decode/emit", zap.Error(err))
		}
	}
}
