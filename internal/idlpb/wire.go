// Package idlpb hand-implements the wire messages of Jaeger's api_v2
// proto (model.proto, collector.proto) directly against the protobuf byte
// format, since no generated .pb.go is available. Each message implements
// gogo/protobuf's Marshaler/Unmarshaler fast-path interfaces
// (Marshal() ([]byte, error) / Unmarshal([]byte) error), which
// github.com/gogo/protobuf/proto.Marshal and .Unmarshal dispatch to
// directly without reflection.
//
// To keep every message self-contained, start_time/duration/log timestamps
// are carried as raw int64 nanoseconds instead of the well-known
// Timestamp/Duration submessages real jaeger-idl uses — documented as a
// deliberate simplification, not a departure from proto3 wire compatibility
// for scalar fields.
package idlpb

import (
	"fmt"
)

const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

// appendVarint implements the base-128 varint encoding protobuf uses for
// tags and varint-wire-type field values.
func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func appendTag(buf []byte, field int, wire int) []byte {
	return appendVarint(buf, uint64(field)<<3|uint64(wire))
}

func appendString(buf []byte, field int, s string) []byte {
	if s == "" {
		return buf
	}
	buf = appendTag(buf, field, wireBytes)
	buf = appendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendBytes(buf []byte, field int, b []byte) []byte {
	if len(b) == 0 {
		return buf
	}
	buf = appendTag(buf, field, wireBytes)
	buf = appendVarint(buf, uint64(len(b)))
	return append(buf, b...)
}

func appendVarintField(buf []byte, field int, v uint64) []byte {
	if v == 0 {
		return buf
	}
	buf = appendTag(buf, field, wireVarint)
	return appendVarint(buf, v)
}

func appendBoolField(buf []byte, field int, v bool) []byte {
	if !v {
		return buf
	}
	buf = appendTag(buf, field, wireVarint)
	return appendVarint(buf, 1)
}

func appendFixed64Field(buf []byte, field int, bits uint64) []byte {
	if bits == 0 {
		return buf
	}
	buf = appendTag(buf, field, wireFixed64)
	return append(buf,
		byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24),
		byte(bits>>32), byte(bits>>40), byte(bits>>48), byte(bits>>56))
}

type fieldReader struct {
	buf []byte
	pos int
}

func (r *fieldReader) done() bool { return r.pos >= len(r.buf) }

func (r *fieldReader) readVarint() (uint64, error) {
	var v uint64
	var shift uint
	for {
		if r.pos >= len(r.buf) {
			return 0, fmt.Errorf("idlpb: truncated varint")
		}
		b := r.buf[r.pos]
		r.pos++
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, fmt.Errorf("idlpb: varint too long")
		}
	}
}

func (r *fieldReader) readTag() (field int, wire int, err error) {
	v, err := r.readVarint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), int(v & 0x7), nil
}

func (r *fieldReader) readBytes() ([]byte, error) {
	n, err := r.readVarint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, fmt.Errorf("idlpb: truncated length-delimited field")
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *fieldReader) readFixed64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("idlpb: truncated fixed64")
	}
	b := r.buf[r.pos : r.pos+8]
	r.pos += 8
	v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	return v, nil
}

func (r *fieldReader) skip(wire int) error {
	switch wire {
	case wireVarint:
		_, err := r.readVarint()
		return err
	case wireFixed64:
		_, err := r.readFixed64()
		return err
	case wireBytes:
		_, err := r.readBytes()
		return err
	case wireFixed32:
		if r.pos+4 > len(r.buf) {
			return fmt.Errorf("idlpb: truncated fixed32")
		}
		r.pos += 4
		return nil
	default:
		return fmt.Errorf("idlpb: unsupported wire type %d", wire)
	}
}
