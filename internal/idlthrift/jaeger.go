// Package idlthrift hand-implements the wire structs of Jaeger's
// agent.thrift/jaeger.thrift IDL directly against apache/thrift's TProtocol
// interface. There is no .thrift file in this repository to generate from,
// so the field layout below is the IDL's own numbering, kept stable for
// interoperability with real Jaeger clients.
package idlthrift

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// TagType mirrors jaeger.thrift's TagType enum.
type TagType int32

const (
	TagTypeString TagType = 0
	TagTypeDouble TagType = 1
	TagTypeBool   TagType = 2
	TagTypeLong   TagType = 3
	TagTypeBinary TagType = 4
)

// SpanRefType mirrors jaeger.thrift's SpanRefType enum.
type SpanRefType int32

const (
	SpanRefTypeChildOf     SpanRefType = 0
	SpanRefTypeFollowsFrom SpanRefType = 1
)

type Tag struct {
	Key     string
	VType   TagType
	VStr    *string
	VDouble *float64
	VBool   *bool
	VLong   *int64
	VBinary []byte
}

type Log struct {
	Timestamp int64
	Fields    []*Tag
}

type SpanRef struct {
	RefType     SpanRefType
	TraceIDLow  int64
	TraceIDHigh int64
	SpanID      int64
}

type Span struct {
	TraceIDLow    int64
	TraceIDHigh   int64
	SpanID        int64
	ParentSpanID  int64
	OperationName string
	References    []*SpanRef
	Flags         int32
	StartTime     int64
	Duration      int64
	Tags          []*Tag
	Logs          []*Log
}

type Process struct {
	ServiceName string
	Tags        []*Tag
}

type Batch struct {
	Process *Process
	Spans   []*Span
}

// ClientStats mirrors jaeger.thrift's ClientStats. It is named only: Batch
// has no stats field, so Batch.Read skips the field on the wire like any
// other unknown one and the values are never decoded or surfaced.
type ClientStats struct {
	FullQueueDroppedSpans int64
	TooLargeDroppedSpans  int64
	FailedToEmitSpans     int64
}

func (t *Tag) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "Tag"); err != nil {
		return err
	}
	if err := writeRequiredString(ctx, p, "key", 1, t.Key); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "vType", 2, int32(t.VType)); err != nil {
		return err
	}
	if t.VStr != nil {
		if err := writeRequiredString(ctx, p, "vStr", 3, *t.VStr); err != nil {
			return err
		}
	}
	if t.VDouble != nil {
		if err := p.WriteFieldBegin(ctx, "vDouble", thrift.DOUBLE, 4); err != nil {
			return err
		}
		if err := p.WriteDouble(ctx, *t.VDouble); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if t.VBool != nil {
		if err := p.WriteFieldBegin(ctx, "vBool", thrift.BOOL, 5); err != nil {
			return err
		}
		if err := p.WriteBool(ctx, *t.VBool); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if t.VLong != nil {
		if err := writeI64Field(ctx, p, "vLong", 6, *t.VLong); err != nil {
			return err
		}
	}
	if t.VBinary != nil {
		if err := p.WriteFieldBegin(ctx, "vBinary", thrift.STRING, 7); err != nil {
			return err
		}
		if err := p.WriteBinary(ctx, t.VBinary); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (t *Tag) Read(ctx context.Context, p thrift.TProtocol) error {
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
		switch fid {
		case 1:
			v, err := p.ReadString(ctx)
			if err != nil {
				return err
			}
			t.Key = v
		case 2:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return err
			}
			t.VType = TagType(v)
		case 3:
			v, err := p.ReadString(ctx)
			if err != nil {
				return err
			}
			t.VStr = &v
		case 4:
			v, err := p.ReadDouble(ctx)
			if err != nil {
				return err
			}
			t.VDouble = &v
		case 5:
			v, err := p.ReadBool(ctx)
			if err != nil {
				return err
			}
			t.VBool = &v
		case 6:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			t.VLong = &v
		case 7:
			v, err := p.ReadBinary(ctx)
			if err != nil {
				return err
			}
			t.VBinary = v
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func (l *Log) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "Log"); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "timestamp", 1, l.Timestamp); err != nil {
		return err
	}
	if err := writeTagList(ctx, p, "fields", 2, l.Fields); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (l *Log) Read(ctx context.Context, p thrift.TProtocol) error {
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
		switch fid {
		case 1:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			l.Timestamp = v
		case 2:
			tags, err := readTagList(ctx, p)
			if err != nil {
				return err
			}
			l.Fields = tags
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func (r *SpanRef) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "SpanRef"); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "refType", 1, int32(r.RefType)); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "traceIdLow", 2, r.TraceIDLow); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "traceIdHigh", 3, r.TraceIDHigh); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "spanId", 4, r.SpanID); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (r *SpanRef) Read(ctx context.Context, p thrift.TProtocol) error {
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
		switch fid {
		case 1:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return err
			}
			r.RefType = SpanRefType(v)
		case 2:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			r.TraceIDLow = v
		case 3:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			r.TraceIDHigh = v
		case 4:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			r.SpanID = v
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func (s *Span) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "Span"); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "traceIdLow", 1, s.TraceIDLow); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "traceIdHigh", 2, s.TraceIDHigh); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "spanId", 3, s.SpanID); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "parentSpanId", 4, s.ParentSpanID); err != nil {
		return err
	}
	if err := writeRequiredString(ctx, p, "operationName", 5, s.OperationName); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "references", thrift.LIST, 6); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(s.References)); err != nil {
		return err
	}
	for _, ref := range s.References {
		if err := ref.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "flags", 7, s.Flags); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "startTime", 8, s.StartTime); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "duration", 9, s.Duration); err != nil {
		return err
	}
	if err := writeTagList(ctx, p, "tags", 10, s.Tags); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "logs", thrift.LIST, 11); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(s.Logs)); err != nil {
		return err
	}
	for _, l := range s.Logs {
		if err := l.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (s *Span) Read(ctx context.Context, p thrift.TProtocol) error {
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
		switch fid {
		case 1:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			s.TraceIDLow = v
		case 2:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			s.TraceIDHigh = v
		case 3:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			s.SpanID = v
		case 4:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			s.ParentSpanID = v
		case 5:
			v, err := p.ReadString(ctx)
			if err != nil {
				return err
			}
			s.OperationName = v
		case 6:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			s.References = make([]*SpanRef, 0, size)
			for i := 0; i < size; i++ {
				ref := &SpanRef{}
				if err := ref.Read(ctx, p); err != nil {
					return err
				}
				s.References = append(s.References, ref)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return err
			}
		case 7:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return err
			}
			s.Flags = v
		case 8:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			s.StartTime = v
		case 9:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return err
			}
			s.Duration = v
		case 10:
			tags, err := readTagList(ctx, p)
			if err != nil {
				return err
			}
			s.Tags = tags
		case 11:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			s.Logs = make([]*Log, 0, size)
			for i := 0; i < size; i++ {
				l := &Log{}
				if err := l.Read(ctx, p); err != nil {
					return err
				}
				s.Logs = append(s.Logs, l)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return err
			}
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func (proc *Process) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "Process"); err != nil {
		return err
	}
	if err := writeRequiredString(ctx, p, "serviceName", 1, proc.ServiceName); err != nil {
		return err
	}
	if err := writeTagList(ctx, p, "tags", 2, proc.Tags); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (proc *Process) Read(ctx context.Context, p thrift.TProtocol) error {
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
		switch fid {
		case 1:
			v, err := p.ReadString(ctx)
			if err != nil {
				return err
			}
			proc.ServiceName = v
		case 2:
			tags, err := readTagList(ctx, p)
			if err != nil {
				return err
			}
			proc.Tags = tags
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func (b *Batch) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "Batch"); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "process", thrift.STRUCT, 1); err != nil {
		return err
	}
	if err := b.Process.Write(ctx, p); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "spans", thrift.LIST, 2); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(b.Spans)); err != nil {
		return err
	}
	for _, s := range b.Spans {
		if err := s.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func (b *Batch) Read(ctx context.Context, p thrift.TProtocol) error {
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
		switch fid {
		case 1:
			proc := &Process{}
			if err := proc.Read(ctx, p); err != nil {
				return err
			}
			b.Process = proc
		case 2:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			b.Spans = make([]*Span, 0, size)
			for i := 0; i < size; i++ {
				s := &Span{}
				if err := s.Read(ctx, p); err != nil {
					return err
				}
				b.Spans = append(b.Spans, s)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return err
			}
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

func writeTagList(ctx context.Context, p thrift.TProtocol, name string, id int16, tags []*Tag) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.LIST, id); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(tags)); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := tag.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func readTagList(ctx context.Context, p thrift.TProtocol) ([]*Tag, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]*Tag, 0, size)
	for i := 0; i < size; i++ {
		tag := &Tag{}
		if err := tag.Read(ctx, p); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, p.ReadListEnd(ctx)
}

func writeRequiredString(ctx context.Context, p thrift.TProtocol, name string, id int16, v string) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return err
	}
	if err := p.WriteString(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeI32Field(ctx context.Context, p thrift.TProtocol, name string, id int16, v int32) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.I32, id); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeI64Field(ctx context.Context, p thrift.TProtocol, name string, id int16, v int64) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.I64, id); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}
