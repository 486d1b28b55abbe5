package spancodec

import (
	"fmt"

	"github.com/golang/snappy"

	"github.com/archer-go/archer/internal/model"
)

// EncodeFrame produces the Snappy-compressed frame written to the storage
// payload column and to a single Quiver stream.
func EncodeFrame(s *model.Span) ([]byte, error) {
	raw, err := Encode(s)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

// DecodeFrame reverses EncodeFrame, rejecting any frame whose decompressed
// size exceeds MaxUncompressedSize before attempting to parse it.
func DecodeFrame(frame []byte) (*model.Span, error) {
	n, err := snappy.DecodedLen(frame)
	if err != nil {
		return nil, fmt.Errorf("spancodec: invalid snappy frame: %w", err)
	}
	if n > MaxUncompressedSize {
		return nil, fmt.Errorf("spancodec: decompressed frame is %d bytes, exceeds %d byte limit", n, MaxUncompressedSize)
	}
	raw, err := snappy.Decode(nil, frame)
	if err != nil {
		return nil, fmt.Errorf("spancodec: snappy decode: %w", err)
	}
	return Decode(raw)
}
