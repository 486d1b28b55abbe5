package idlthrift

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// AgentProcessor dispatches the two oneway methods of agent.thrift's Agent
// service: emitBatch (handled) and emitZipkinBatch (explicitly
// unimplemented, per the Zipkin-on-UDP-agent non-goal).
type AgentProcessor struct {
	// EmitBatch is invoked for every decoded Batch. It must not block the
	// caller for long: the UDP listener calls this inline on its hot path.
	EmitBatch func(ctx context.Context, batch *Batch) error
}

// Process reads one Thrift message (name, type, seqid) followed by its
// argument struct, and dispatches it. It returns an error for
// emitZipkinBatch and for any unrecognized message name; oneway calls never
// write a response regardless of outcome.
func (a *AgentProcessor) Process(ctx context.Context, iprot thrift.TProtocol) error {
	name, _, _, err := iprot.ReadMessageBegin(ctx)
	if err != nil {
		return fmt.Errorf("idlthrift: read message begin: %w", err)
	}

	switch name {
	case "emitBatch":
		args := &emitBatchArgs{}
		if err := args.Read(ctx, iprot); err != nil {
			return fmt.Errorf("idlthrift: read emitBatch args: %w", err)
		}
		if err := iprot.ReadMessageEnd(ctx); err != nil {
			return err
		}
		if args.Batch == nil {
			return fmt.Errorf("idlthrift: emitBatch with no batch")
		}
		return a.EmitBatch(ctx, args.Batch)
	case "emitZipkinBatch":
		if err := iprot.Skip(ctx, thrift.STRUCT); err != nil {
			return err
		}
		if err := iprot.ReadMessageEnd(ctx); err != nil {
			return err
		}
		return fmt.Errorf("idlthrift: emitZipkinBatch is not implemented")
	default:
		if err := iprot.Skip(ctx, thrift.STRUCT); err != nil {
			return err
		}
		_ = iprot.ReadMessageEnd(ctx)
		return fmt.Errorf("idlthrift: unknown agent method %q", name)
	}
}

// emitBatchArgs is the single-field argument struct Thrift generates for
// `oneway void emitBatch(1: Batch batch)`.
type emitBatchArgs struct {
	Batch *Batch
}

func (a *emitBatchArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if ftype == thrift.STOP {
			break
		}
		if fid == 1 {
			b := &Batch{}
			if err := b.Read(ctx, p); err != nil {
				return err
			}
			a.Batch = b
		} else if err := p.Skip(ctx, ftype); err != nil {
			return err
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}
