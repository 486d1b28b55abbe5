package idlpb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGogoCodecRoundTripsPostSpansRequest(t *testing.T) {
	req := &PostSpansRequest{
		Batch: &Batch{
			Process: &Process{ServiceName: "svc"},
			Spans: []*Span{{
				TraceID:       []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5},
				SpanID:        []byte{0, 0, 0, 0, 0, 0, 0, 9},
				OperationName: "op",
			}},
		},
	}

	data, err := gogoCodec{}.Marshal(req)
	require.NoError(t, err)

	got := &PostSpansRequest{}
	require.NoError(t, gogoCodec{}.Unmarshal(data, got))
	require.NotNil(t, got.Batch)
	assert.Equal(t, "svc", got.Batch.Process.ServiceName)
	require.Len(t, got.Batch.Spans, 1)
	assert.Equal(t, "op", got.Batch.Spans[0].OperationName)
}

func TestGogoCodecRejectsNonMessage(t *testing.T) {
	_, err := gogoCodec{}.Marshal("not a message")
	assert.Error(t, err)
}
