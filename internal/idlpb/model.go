package idlpb

import (
	"fmt"
	"math"
)

// ValueType mirrors jaeger-idl's model.proto ValueType enum.
type ValueType int32

const (
	ValueTypeString  ValueType = 0
	ValueTypeBool    ValueType = 1
	ValueTypeInt64   ValueType = 2
	ValueTypeFloat64 ValueType = 3
	ValueTypeBinary  ValueType = 4
)

// SpanRefType mirrors jaeger-idl's model.proto SpanRefType enum.
type SpanRefType int32

const (
	SpanRefTypeChildOf     SpanRefType = 0
	SpanRefTypeFollowsFrom SpanRefType = 1
)

// KeyValue is the api_v2 wire equivalent of a canonical tag.
type KeyValue struct {
	Key      string
	VType    ValueType
	VStr     string
	VBool    bool
	VInt64   int64
	VFloat64 float64
	VBinary  []byte
}

func (m *KeyValue) Reset()         { *m = KeyValue{} }
func (m *KeyValue) String() string { return fmt.Sprintf("%+v", *m) }
func (*KeyValue) ProtoMessage()    {}

func (m *KeyValue) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendString(buf, 1, m.Key)
	buf = appendVarintField(buf, 2, uint64(m.VType))
	buf = appendString(buf, 3, m.VStr)
	buf = appendBoolField(buf, 4, m.VBool)
	buf = appendVarintField(buf, 5, uint64(m.VInt64))
	buf = appendFixed64Field(buf, 6, math.Float64bits(m.VFloat64))
	buf = appendBytes(buf, 7, m.VBinary)
	return buf, nil
}

func (m *KeyValue) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.Key = string(b)
		case 2:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.VType = ValueType(v)
		case 3:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.VStr = string(b)
		case 4:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.VBool = v != 0
		case 5:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.VInt64 = int64(v)
		case 6:
			v, err := r.readFixed64()
			if err != nil {
				return err
			}
			m.VFloat64 = math.Float64frombits(v)
		case 7:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.VBinary = append([]byte(nil), b...)
		default:
			if err := r.skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}

// Log is the api_v2 wire equivalent of a canonical log; the timestamp is
// carried as raw unix nanoseconds rather than google.protobuf.Timestamp so
// the message stays self-contained.
type Log struct {
	TimestampUnixNano int64
	Fields            []*KeyValue
}

func (m *Log) Reset()         { *m = Log{} }
func (m *Log) String() string { return fmt.Sprintf("%+v", *m) }
func (*Log) ProtoMessage()    {}

func (m *Log) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(m.TimestampUnixNano))
	for _, f := range m.Fields {
		b, err := f.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 2, b)
	}
	return buf, nil
}

func (m *Log) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.TimestampUnixNano = int64(v)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			kv := &KeyValue{}
			if err := kv.Unmarshal(b); err != nil {
				return err
			}
			m.Fields = append(m.Fields, kv)
		default:
			if err := r.skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}

// SpanRef is the api_v2 wire equivalent of a canonical reference.
type SpanRef struct {
	TraceID []byte
	SpanID  []byte
	RefType SpanRefType
}

func (m *SpanRef) Reset()         { *m = SpanRef{} }
func (m *SpanRef) String() string { return fmt.Sprintf("%+v", *m) }
func (*SpanRef) ProtoMessage()    {}

func (m *SpanRef) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendBytes(buf, 1, m.TraceID)
	buf = appendBytes(buf, 2, m.SpanID)
	buf = appendVarintField(buf, 3, uint64(m.RefType))
	return buf, nil
}

func (m *SpanRef) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.TraceID = append([]byte(nil), b...)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.SpanID = append([]byte(nil), b...)
		case 3:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.RefType = SpanRefType(v)
		default:
			if err := r.skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}

// Process is the api_v2 wire equivalent of a canonical process.
type Process struct {
	ServiceName string
	Tags        []*KeyValue
}

func (m *Process) Reset()         { *m = Process{} }
func (m *Process) String() string { return fmt.Sprintf("%+v", *m) }
func (*Process) ProtoMessage()    {}

func (m *Process) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendString(buf, 1, m.ServiceName)
	for _, t := range m.Tags {
		b, err := t.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 2, b)
	}
	return buf, nil
}

func (m *Process) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.ServiceName = string(b)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			kv := &KeyValue{}
			if err := kv.Unmarshal(b); err != nil {
				return err
			}
			m.Tags = append(m.Tags, kv)
		default:
			if err := r.skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}

// Span is the api_v2 wire equivalent of a canonical span. start_time and
// duration are carried as raw unix nanoseconds / nanosecond counts rather
// than the well-known Timestamp/Duration submessages, for the same
// self-containment reason as Log.
type Span struct {
	TraceID           []byte
	SpanID            []byte
	OperationName     string
	References        []*SpanRef
	Flags             uint32
	StartTimeUnixNano int64
	DurationNanos     int64
	Tags              []*KeyValue
	Logs              []*Log
	Process           *Process
	ProcessID         string
	Warnings          []string
}

func (m *Span) Reset()         { *m = Span{} }
func (m *Span) String() string { return fmt.Sprintf("%+v", *m) }
func (*Span) ProtoMessage()    {}

func (m *Span) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendBytes(buf, 1, m.TraceID)
	buf = appendBytes(buf, 2, m.SpanID)
	buf = appendString(buf, 3, m.OperationName)
	for _, ref := range m.References {
		b, err := ref.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 4, b)
	}
	buf = appendVarintField(buf, 5, uint64(m.Flags))
	buf = appendVarintField(buf, 6, uint64(m.StartTimeUnixNano))
	buf = appendVarintField(buf, 7, uint64(m.DurationNanos))
	for _, t := range m.Tags {
		b, err := t.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 8, b)
	}
	for _, l := range m.Logs {
		b, err := l.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 9, b)
	}
	if m.Process != nil {
		b, err := m.Process.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 10, b)
	}
	buf = appendString(buf, 11, m.ProcessID)
	for _, w := range m.Warnings {
		buf = appendString(buf, 12, w)
	}
	return buf, nil
}

func (m *Span) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.TraceID = append([]byte(nil), b...)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.SpanID = append([]byte(nil), b...)
		case 3:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.OperationName = string(b)
		case 4:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			ref := &SpanRef{}
			if err := ref.Unmarshal(b); err != nil {
				return err
			}
			m.References = append(m.References, ref)
		case 5:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.Flags = uint32(v)
		case 6:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.StartTimeUnixNano = int64(v)
		case 7:
			v, err := r.readVarint()
			if err != nil {
				return err
			}
			m.DurationNanos = int64(v)
		case 8:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			t := &KeyValue{}
			if err := t.Unmarshal(b); err != nil {
				return err
			}
			m.Tags = append(m.Tags, t)
		case 9:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			l := &Log{}
			if err := l.Unmarshal(b); err != nil {
				return err
			}
			m.Logs = append(m.Logs, l)
		case 10:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			p := &Process{}
			if err := p.Unmarshal(b); err != nil {
				return err
			}
			m.Process = p
		case 11:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.ProcessID = string(b)
		case 12:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			m.Warnings = append(m.Warnings, string(b))
		default:
			if err := r.skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}

// Batch is the api_v2 wire equivalent of a Jaeger span batch.
type Batch struct {
	Spans   []*Span
	Process *Process
}

func (m *Batch) Reset()         { *m = Batch{} }
func (m *Batch) String() string { return fmt.Sprintf("%+v", *m) }
func (*Batch) ProtoMessage()    {}

func (m *Batch) Marshal() ([]byte, error) {
	var buf []byte
	for _, s := range m.Spans {
		b, err := s.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 1, b)
	}
	if m.Process != nil {
		b, err := m.Process.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 2, b)
	}
	return buf, nil
}

func (m *Batch) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			s := &Span{}
			if err := s.Unmarshal(b); err != nil {
				return err
			}
			m.Spans = append(m.Spans, s)
		case 2:
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			p := &Process{}
			if err := p.Unmarshal(b); err != nil {
				return err
			}
			m.Process = p
		default:
			if err := r.skip(wire); err != nil {
				return err
			}
		}
	}
	return nil
}
