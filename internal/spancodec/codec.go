// Package spancodec implements the one compact, explicitly field-tagged
// serialization shared by the storage engine's payload column and the
// Quiver wire transport. It is built directly on apache/thrift's compact
// protocol rather than a thrift-generated struct, since there is no IDL for
// the canonical span — only a stable field layout this package owns.
package spancodec

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/archer-go/archer/internal/model"
)

// MaxUncompressedSize is the largest payload this codec will ever produce or
// accept, matching the Quiver stream size limit; the storage payload column
// enforces the same ceiling so both paths share one invariant.
const MaxUncompressedSize = 64 * 1024

const (
	fieldSpanTraceIDHigh   = 1
	fieldSpanTraceIDLow    = 2
	fieldSpanSpanID        = 3
	fieldSpanOperationName = 4
	fieldSpanFlags         = 5
	fieldSpanReferences    = 6
	fieldSpanStartUnixNano = 7
	fieldSpanDurationNanos = 8
	fieldSpanTiming        = 9
	fieldSpanLocation      = 10
	fieldSpanThread        = 11
	fieldSpanTags          = 12
	fieldSpanLogs          = 13
	fieldSpanProcess       = 14

	fieldRefType        = 1
	fieldRefTraceIDHigh = 2
	fieldRefTraceIDLow  = 3
	fieldRefSpanID      = 4

	fieldTagKey     = 1
	fieldTagType    = 2
	fieldTagVStr    = 3
	fieldTagVBool   = 4
	fieldTagVI64    = 5
	fieldTagVF64    = 6
	fieldTagVBinary = 7

	fieldLogTimestampUnixNano = 1
	fieldLogLocation          = 2
	fieldLogFields            = 3

	fieldTimingBusyNanos = 1
	fieldTimingIdleNanos = 2

	fieldLocationFilepath  = 1
	fieldLocationNamespace = 2
	fieldLocationLineno    = 3

	fieldThreadID   = 1
	fieldThreadName = 2

	fieldProcessService = 1
	fieldProcessVersion = 2
	fieldProcessTags    = 3
)

func newProtocol(buf *thrift.TMemoryBuffer) thrift.TProtocol {
	return thrift.NewTCompactProtocolFactory().GetProtocol(buf)
}

// Encode serializes a canonical span using the compact protocol. The result
// is not compressed; callers (storage payload, Quiver stream writer) apply
// Snappy on top.
func Encode(s *model.Span) ([]byte, error) {
	ctx := context.Background()
	buf := thrift.NewTMemoryBufferLen(1024)
	p := newProtocol(buf)

	if err := writeSpan(ctx, p, s); err != nil {
		return nil, fmt.Errorf("spancodec: encode: %w", err)
	}
	if err := p.Flush(ctx); err != nil {
		return nil, fmt.Errorf("spancodec: flush: %w", err)
	}
	if buf.Len() > MaxUncompressedSize {
		return nil, fmt.Errorf("spancodec: encoded span is %d bytes, exceeds %d byte limit", buf.Len(), MaxUncompressedSize)
	}
	return buf.Bytes(), nil
}

// Decode parses a span previously produced by Encode.
func Decode(b []byte) (*model.Span, error) {
	if len(b) > MaxUncompressedSize {
		return nil, fmt.Errorf("spancodec: payload is %d bytes, exceeds %d byte limit", len(b), MaxUncompressedSize)
	}
	ctx := context.Background()
	buf := thrift.NewTMemoryBuffer()
	if _, err := buf.Write(b); err != nil {
		return nil, err
	}
	p := newProtocol(buf)

	s, err := readSpan(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("spancodec: decode: %w", err)
	}
	return s, nil
}

func writeSpan(ctx context.Context, p thrift.TProtocol, s *model.Span) error {
	if err := p.WriteStructBegin(ctx, "Span"); err != nil {
		return err
	}

	if err := writeI64Field(ctx, p, fieldSpanTraceIDHigh, int64(s.TraceID.High())); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldSpanTraceIDLow, int64(s.TraceID.Low())); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldSpanSpanID, int64(s.SpanID.Uint64())); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldSpanOperationName, s.OperationName); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "flags", thrift.I32, fieldSpanFlags); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, int32(s.Flags)); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "references", thrift.LIST, fieldSpanReferences); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(s.References)); err != nil {
		return err
	}
	for i := range s.References {
		if err := writeReference(ctx, p, &s.References[i]); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := writeI64Field(ctx, p, fieldSpanStartUnixNano, s.Start.UnixNano()); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldSpanDurationNanos, s.Duration.Nanoseconds()); err != nil {
		return err
	}

	if s.Timing != nil {
		if err := p.WriteFieldBegin(ctx, "timing", thrift.STRUCT, fieldSpanTiming); err != nil {
			return err
		}
		if err := writeTiming(ctx, p, s.Timing); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if s.Location != nil {
		if err := p.WriteFieldBegin(ctx, "location", thrift.STRUCT, fieldSpanLocation); err != nil {
			return err
		}
		if err := writeLocation(ctx, p, s.Location); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if s.Thread != nil {
		if err := p.WriteFieldBegin(ctx, "thread", thrift.STRUCT, fieldSpanThread); err != nil {
			return err
		}
		if err := writeThread(ctx, p, s.Thread); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}

	if err := p.WriteFieldBegin(ctx, "tags", thrift.LIST, fieldSpanTags); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(s.Tags)); err != nil {
		return err
	}
	for i := range s.Tags {
		if err := writeTag(ctx, p, &s.Tags[i]); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "logs", thrift.LIST, fieldSpanLogs); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(s.Logs)); err != nil {
		return err
	}
	for i := range s.Logs {
		if err := writeLog(ctx, p, &s.Logs[i]); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	if err := p.WriteFieldBegin(ctx, "process", thrift.STRUCT, fieldSpanProcess); err != nil {
		return err
	}
	if err := writeProcess(ctx, p, &s.Process); err != nil {
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

func readSpan(ctx context.Context, p thrift.TProtocol) (*model.Span, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}

	var (
		s                   model.Span
		traceHigh, traceLow uint64
		spanIDRaw           uint64
	)

	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldSpanTraceIDHigh:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			traceHigh = uint64(v)
		case fieldSpanTraceIDLow:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			traceLow = uint64(v)
		case fieldSpanSpanID:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			spanIDRaw = uint64(v)
		case fieldSpanOperationName:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			s.OperationName = v
		case fieldSpanFlags:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			s.Flags = uint32(v)
		case fieldSpanReferences:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return nil, err
			}
			s.References = make([]model.Reference, 0, size)
			for i := 0; i < size; i++ {
				ref, err := readReference(ctx, p)
				if err != nil {
					return nil, err
				}
				s.References = append(s.References, *ref)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return nil, err
			}
		case fieldSpanStartUnixNano:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			s.Start = unixNanoToTime(v)
		case fieldSpanDurationNanos:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			s.Duration = durationFromNanos(v)
		case fieldSpanTiming:
			t, err := readTiming(ctx, p)
			if err != nil {
				return nil, err
			}
			s.Timing = t
		case fieldSpanLocation:
			l, err := readLocation(ctx, p)
			if err != nil {
				return nil, err
			}
			s.Location = l
		case fieldSpanThread:
			th, err := readThread(ctx, p)
			if err != nil {
				return nil, err
			}
			s.Thread = th
		case fieldSpanTags:
			tags, err := readTagList(ctx, p)
			if err != nil {
				return nil, err
			}
			s.Tags = tags
		case fieldSpanLogs:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return nil, err
			}
			s.Logs = make([]model.Log, 0, size)
			for i := 0; i < size; i++ {
				l, err := readLog(ctx, p)
				if err != nil {
					return nil, err
				}
				s.Logs = append(s.Logs, *l)
			}
			if err := p.ReadListEnd(ctx); err != nil {
				return nil, err
			}
		case fieldSpanProcess:
			proc, err := readProcess(ctx, p)
			if err != nil {
				return nil, err
			}
			s.Process = *proc
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	if err := p.ReadStructEnd(ctx); err != nil {
		return nil, err
	}

	s.TraceID = model.NewTraceID(traceHigh, traceLow)
	s.SpanID = model.NewSpanID(spanIDRaw)
	return &s, nil
}

func writeReference(ctx context.Context, p thrift.TProtocol, ref *model.Reference) error {
	if err := p.WriteStructBegin(ctx, "Reference"); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "ty", thrift.BYTE, fieldRefType); err != nil {
		return err
	}
	if err := p.WriteByte(ctx, int8(ref.RefType)); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldRefTraceIDHigh, int64(ref.TraceID.High())); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldRefTraceIDLow, int64(ref.TraceID.Low())); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldRefSpanID, int64(ref.SpanID.Uint64())); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func readReference(ctx context.Context, p thrift.TProtocol) (*model.Reference, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var ref model.Reference
	var high, low uint64
	var spanRaw uint64
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldRefType:
			v, err := p.ReadByte(ctx)
			if err != nil {
				return nil, err
			}
			ref.RefType = model.RefType(v)
		case fieldRefTraceIDHigh:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			high = uint64(v)
		case fieldRefTraceIDLow:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			low = uint64(v)
		case fieldRefSpanID:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			spanRaw = uint64(v)
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	if err := p.ReadStructEnd(ctx); err != nil {
		return nil, err
	}
	ref.TraceID = model.NewTraceID(high, low)
	ref.SpanID = model.NewSpanID(spanRaw)
	return &ref, nil
}

func writeTag(ctx context.Context, p thrift.TProtocol, tag *model.Tag) error {
	if err := p.WriteStructBegin(ctx, "Tag"); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldTagKey, tag.Key); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "type", thrift.BYTE, fieldTagType); err != nil {
		return err
	}
	if err := p.WriteByte(ctx, int8(tag.Type)); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}

	switch tag.Type {
	case model.TagString:
		if err := writeStringField(ctx, p, fieldTagVStr, tag.VStr); err != nil {
			return err
		}
	case model.TagBool:
		if err := p.WriteFieldBegin(ctx, "vbool", thrift.BOOL, fieldTagVBool); err != nil {
			return err
		}
		if err := p.WriteBool(ctx, tag.VBool); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	case model.TagInt64:
		if err := writeI64Field(ctx, p, fieldTagVI64, tag.VI64); err != nil {
			return err
		}
	case model.TagFloat64:
		if err := p.WriteFieldBegin(ctx, "vf64", thrift.DOUBLE, fieldTagVF64); err != nil {
			return err
		}
		if err := p.WriteDouble(ctx, tag.VF64); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	case model.TagBinary:
		if err := p.WriteFieldBegin(ctx, "vbinary", thrift.STRING, fieldTagVBinary); err != nil {
			return err
		}
		if err := p.WriteBinary(ctx, tag.VBinary); err != nil {
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

func readTagList(ctx context.Context, p thrift.TProtocol) ([]model.Tag, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]model.Tag, 0, size)
	for i := 0; i < size; i++ {
		tag, err := readTag(ctx, p)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, p.ReadListEnd(ctx)
}

func readTag(ctx context.Context, p thrift.TProtocol) (*model.Tag, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var tag model.Tag
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldTagKey:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			tag.Key = v
		case fieldTagType:
			v, err := p.ReadByte(ctx)
			if err != nil {
				return nil, err
			}
			tag.Type = model.TagType(v)
		case fieldTagVStr:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			tag.VStr = v
		case fieldTagVBool:
			v, err := p.ReadBool(ctx)
			if err != nil {
				return nil, err
			}
			tag.VBool = v
		case fieldTagVI64:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			tag.VI64 = v
		case fieldTagVF64:
			v, err := p.ReadDouble(ctx)
			if err != nil {
				return nil, err
			}
			tag.VF64 = v
		case fieldTagVBinary:
			v, err := p.ReadBinary(ctx)
			if err != nil {
				return nil, err
			}
			tag.VBinary = v
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return &tag, p.ReadStructEnd(ctx)
}

func writeLog(ctx context.Context, p thrift.TProtocol, log *model.Log) error {
	if err := p.WriteStructBegin(ctx, "Log"); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldLogTimestampUnixNano, log.Timestamp.UnixNano()); err != nil {
		return err
	}
	if log.Location != nil {
		if err := p.WriteFieldBegin(ctx, "location", thrift.STRUCT, fieldLogLocation); err != nil {
			return err
		}
		if err := writeLocation(ctx, p, log.Location); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := p.WriteFieldBegin(ctx, "fields", thrift.LIST, fieldLogFields); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(log.Fields)); err != nil {
		return err
	}
	for i := range log.Fields {
		if err := writeTag(ctx, p, &log.Fields[i]); err != nil {
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

func readLog(ctx context.Context, p thrift.TProtocol) (*model.Log, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var log model.Log
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldLogTimestampUnixNano:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			log.Timestamp = unixNanoToTime(v)
		case fieldLogLocation:
			l, err := readLocation(ctx, p)
			if err != nil {
				return nil, err
			}
			log.Location = l
		case fieldLogFields:
			fields, err := readTagList(ctx, p)
			if err != nil {
				return nil, err
			}
			log.Fields = fields
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return &log, p.ReadStructEnd(ctx)
}

func writeTiming(ctx context.Context, p thrift.TProtocol, t *model.Timing) error {
	if err := p.WriteStructBegin(ctx, "Timing"); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldTimingBusyNanos, t.Busy.Nanoseconds()); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldTimingIdleNanos, t.Idle.Nanoseconds()); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func readTiming(ctx context.Context, p thrift.TProtocol) (*model.Timing, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var t model.Timing
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldTimingBusyNanos:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			t.Busy = durationFromNanos(v)
		case fieldTimingIdleNanos:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			t.Idle = durationFromNanos(v)
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return &t, p.ReadStructEnd(ctx)
}

func writeLocation(ctx context.Context, p thrift.TProtocol, l *model.Location) error {
	if err := p.WriteStructBegin(ctx, "Location"); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldLocationFilepath, l.Filepath); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldLocationNamespace, l.Namespace); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "lineno", thrift.I32, fieldLocationLineno); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, int32(l.Lineno)); err != nil {
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

func readLocation(ctx context.Context, p thrift.TProtocol) (*model.Location, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var l model.Location
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldLocationFilepath:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			l.Filepath = v
		case fieldLocationNamespace:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			l.Namespace = v
		case fieldLocationLineno:
			v, err := p.ReadI32(ctx)
			if err != nil {
				return nil, err
			}
			l.Lineno = uint32(v)
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return &l, p.ReadStructEnd(ctx)
}

func writeThread(ctx context.Context, p thrift.TProtocol, th *model.Thread) error {
	if err := p.WriteStructBegin(ctx, "Thread"); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, fieldThreadID, int64(th.ID)); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldThreadName, th.Name); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

func readThread(ctx context.Context, p thrift.TProtocol) (*model.Thread, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var th model.Thread
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldThreadID:
			v, err := p.ReadI64(ctx)
			if err != nil {
				return nil, err
			}
			th.ID = uint64(v)
		case fieldThreadName:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			th.Name = v
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return &th, p.ReadStructEnd(ctx)
}

func writeProcess(ctx context.Context, p thrift.TProtocol, proc *model.Process) error {
	if err := p.WriteStructBegin(ctx, "Process"); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldProcessService, proc.Service); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, fieldProcessVersion, proc.Version); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "tags", thrift.LIST, fieldProcessTags); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(proc.Tags)); err != nil {
		return err
	}
	for i := range proc.Tags {
		if err := writeTag(ctx, p, &proc.Tags[i]); err != nil {
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

func readProcess(ctx context.Context, p thrift.TProtocol) (*model.Process, error) {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return nil, err
	}
	var proc model.Process
	for {
		_, ftype, fid, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return nil, err
		}
		if ftype == thrift.STOP {
			break
		}
		switch fid {
		case fieldProcessService:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			proc.Service = v
		case fieldProcessVersion:
			v, err := p.ReadString(ctx)
			if err != nil {
				return nil, err
			}
			proc.Version = v
		case fieldProcessTags:
			tags, err := readTagList(ctx, p)
			if err != nil {
				return nil, err
			}
			proc.Tags = tags
		default:
			if err := p.Skip(ctx, ftype); err != nil {
				return nil, err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return nil, err
		}
	}
	return &proc, p.ReadStructEnd(ctx)
}

func writeI64Field(ctx context.Context, p thrift.TProtocol, id int16, v int64) error {
	if err := p.WriteFieldBegin(ctx, "", thrift.I64, id); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeStringField(ctx context.Context, p thrift.TProtocol, id int16, v string) error {
	if err := p.WriteFieldBegin(ctx, "", thrift.STRING, id); err != nil {
		return err
	}
	if err := p.WriteString(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}
