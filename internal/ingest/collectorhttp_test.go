package ingest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/idlthrift"
	"github.com/archer-go/archer/internal/model"
)

// captureSink records every batch handed to it and signals arrival, since
// listeners persist on a detached goroutine after the response is written.
type captureSink struct {
	mu      sync.Mutex
	batches [][]*model.Span
	arrived chan struct{}
}

func newCaptureSink() *captureSink {
	return &captureSink{arrived: make(chan struct{}, 16)}
}

func (c *captureSink) SaveSpans(_ context.Context, spans []*model.Span) error {
	c.mu.Lock()
	c.batches = append(c.batches, spans)
	c.mu.Unlock()
	c.arrived <- struct{}{}
	return nil
}

func (c *captureSink) waitForBatch(t *testing.T) []*model.Span {
	t.Helper()
	select {
	case <-c.arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("no batch reached the sink")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches[len(c.batches)-1]
}

func encodeThriftBinaryBatch(t *testing.T, batch *idlthrift.Batch) []byte {
	t.Helper()
	ctx := context.Background()
	buf := thrift.NewTMemoryBufferLen(1024)
	proto := thrift.NewTBinaryProtocolConf(buf, nil)
	require.NoError(t, batch.Write(ctx, proto))
	require.NoError(t, proto.Flush(ctx))
	return buf.Bytes()
}

func TestCollectorHTTPAcceptsThriftBinaryBatch(t *testing.T) {
	sink := newCaptureSink()
	handler := &CollectorHTTPHandler{Sink: sink, Logger: testLogger()}

	body := encodeThriftBinaryBatch(t, &idlthrift.Batch{
		Process: &idlthrift.Process{ServiceName: "svc"},
		Spans: []*idlthrift.Span{{
			TraceIDLow:    5,
			SpanID:        9,
			OperationName: "x",
			StartTime:     1_000_000,
			Duration:      250,
		}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/traces", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	spans := sink.waitForBatch(t)
	require.Len(t, spans, 1)
	assert.Equal(t, "00000000000000000000000000000005", spans[0].TraceID.String())
	assert.Equal(t, "svc", spans[0].Process.Service)
}

func TestCollectorHTTPRejectsMalformedBody(t *testing.T) {
	sink := newCaptureSink()
	handler := &CollectorHTTPHandler{Sink: sink, Logger: testLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/traces", bytes.NewReader([]byte{0xff, 0x00, 0x13}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestCollectorHTTPRejectsNonPost(t *testing.T) {
	handler := &CollectorHTTPHandler{Sink: newCaptureSink(), Logger: testLogger()}

	req := httptest.NewRequest(http.MethodGet, "/api/traces", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
