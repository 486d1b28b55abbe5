package convert

import (
	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/spancodec"
)

// QuiverFrameToSpan decodes one Quiver stream payload into a canonical
// span. Unlike the Thrift/proto adapters, the Quiver wire format already is
// the canonical span's compact encoding, so this adapter is a direct pass
// through spancodec; the non-zero identifier invariant is enforced there.
func QuiverFrameToSpan(frame []byte) (*model.Span, error) {
	return spancodec.DecodeFrame(frame)
}
