// Package model defines the canonical span representation that every wire
// adapter converts into and every storage/query path operates on.
package model

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// TraceID is a 128-bit identifier, never zero, stored as 16 big-endian bytes
// and rendered as a lowercase, zero-padded 32 character hex string.
type TraceID [16]byte

// SpanID is a 64-bit identifier, never zero, stored as 8 big-endian bytes and
// rendered as a lowercase, zero-padded 16 character hex string.
type SpanID [8]byte

// NewTraceID builds a TraceID from its high and low 64-bit halves, both
// interpreted as unsigned. If the result would be zero, a random non-zero
// value is returned instead: zero identifiers are a client bug that wire
// adapters must tolerate rather than reject.
func NewTraceID(high, low uint64) TraceID {
	var id TraceID
	binary.BigEndian.PutUint64(id[0:8], high)
	binary.BigEndian.PutUint64(id[8:16], low)
	if id.IsZero() {
		return RandomTraceID()
	}
	return id
}

// TraceIDFromBytes parses a 16-byte big-endian trace id. A zero id is
// replaced with a random non-zero one, per the same tolerance rule as
// NewTraceID.
func TraceIDFromBytes(b []byte) (TraceID, error) {
	var id TraceID
	if len(b) != 16 {
		return id, fmt.Errorf("model: trace id must be exactly 16 bytes, got %d", len(b))
	}
	copy(id[:], b)
	if id.IsZero() {
		return RandomTraceID(), nil
	}
	return id, nil
}

// TraceIDFromHex parses a 32 character hex string into a TraceID.
func TraceIDFromHex(s string) (TraceID, error) {
	var id TraceID
	b, err := hex.DecodeString(fmt.Sprintf("%032s", s))
	if err != nil || len(b) != 16 {
		return id, fmt.Errorf("model: invalid trace id %q", s)
	}
	copy(id[:], b)
	return id, nil
}

// RandomTraceID returns a cryptographically random, guaranteed non-zero
// trace id. It is used whenever a wire span arrives with a zero id.
func RandomTraceID() TraceID {
	var id TraceID
	for {
		_, _ = rand.Read(id[:])
		if !id.IsZero() {
			return id
		}
	}
}

// IsZero reports whether the id is the all-zero value.
func (id TraceID) IsZero() bool {
	return id == TraceID{}
}

// String renders the id as a lowercase, zero-padded 32 character hex string.
func (id TraceID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the id's 16 big-endian bytes.
func (id TraceID) Bytes() []byte {
	b := make([]byte, 16)
	copy(b, id[:])
	return b
}

// High returns the high 64 bits of the id.
func (id TraceID) High() uint64 {
	return binary.BigEndian.Uint64(id[0:8])
}

// Low returns the low 64 bits of the id.
func (id TraceID) Low() uint64 {
	return binary.BigEndian.Uint64(id[8:16])
}

// NewSpanID builds a SpanID from an unsigned 64-bit value, substituting a
// random non-zero value when the input is zero.
func NewSpanID(v uint64) SpanID {
	var id SpanID
	binary.BigEndian.PutUint64(id[:], v)
	if id.IsZero() {
		return RandomSpanID()
	}
	return id
}

// SpanIDFromBytes parses an 8-byte big-endian span id, substituting a random
// non-zero value when the input is zero.
func SpanIDFromBytes(b []byte) (SpanID, error) {
	var id SpanID
	if len(b) != 8 {
		return id, fmt.Errorf("model: span id must be exactly 8 bytes, got %d", len(b))
	}
	copy(id[:], b)
	if id.IsZero() {
		return RandomSpanID(), nil
	}
	return id, nil
}

// SpanIDFromHex parses a 16 character hex string into a SpanID.
func SpanIDFromHex(s string) (SpanID, error) {
	var id SpanID
	b, err := hex.DecodeString(fmt.Sprintf("%016s", s))
	if err != nil || len(b) != 8 {
		return id, fmt.Errorf("model: invalid span id %q", s)
	}
	copy(id[:], b)
	return id, nil
}

// RandomSpanID returns a cryptographically random, guaranteed non-zero span
// id.
func RandomSpanID() SpanID {
	var id SpanID
	for {
		_, _ = rand.Read(id[:])
		if !id.IsZero() {
			return id
		}
	}
}

// IsZero reports whether the id is the all-zero value.
func (id SpanID) IsZero() bool {
	return id == SpanID{}
}

// String renders the id as a lowercase, zero-padded 16 character hex string.
func (id SpanID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the id's 8 big-endian bytes.
func (id SpanID) Bytes() []byte {
	b := make([]byte, 8)
	copy(b, id[:])
	return b
}

func (id SpanID) Uint64() uint64 {
	return binary.BigEndian.Uint64(id[:])
}
