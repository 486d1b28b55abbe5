package queryapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/storage"
)

// fakeStore is a hand-rolled Store stub in the plain struct-with-funcs
// style the storage package's own tests use.
type fakeStore struct {
	services   []string
	operations map[string][]string
	traces     map[model.TraceID][]*model.Span
	listErr    error
}

func (f *fakeStore) ListServices(context.Context) ([]string, error) { return f.services, nil }

func (f *fakeStore) ListOperations(_ context.Context, service string) ([]string, error) {
	return f.operations[service], nil
}

func (f *fakeStore) FindTrace(_ context.Context, id model.TraceID) ([]*model.Span, error) {
	spans, ok := f.traces[id]
	if !ok {
		return nil, apperr.NotFoundf("trace ID not found")
	}
	return spans, nil
}

func (f *fakeStore) FindTraces(_ context.Context, ids []model.TraceID) (map[model.TraceID][]*model.Span, error) {
	out := make(map[model.TraceID][]*model.Span)
	for _, id := range ids {
		if spans, ok := f.traces[id]; ok {
			out[id] = spans
		}
	}
	return out, nil
}

func (f *fakeStore) ListSpans(context.Context, storage.ListSpansParams) (map[model.TraceID][]*model.Span, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.traces, nil
}

func newTestSpan(traceID model.TraceID, spanID model.SpanID, service string, start time.Time) *model.Span {
	return &model.Span{
		TraceID:       traceID,
		SpanID:        spanID,
		OperationName: "op",
		Start:         start,
		Duration:      time.Millisecond,
		Process:       model.Process{Service: service},
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestHandleServices(t *testing.T) {
	store := &fakeStore{services: []string{"a", "b"}}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), float64(env.Total))
}

func TestHandleTraceByIDNotFound(t *testing.T) {
	store := &fakeStore{traces: map[model.TraceID][]*model.Span{}}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/traces/00000000000000000000000000000005", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "trace ID not found", env.Errors[0].Msg)
}

func TestHandleTraceByIDFound(t *testing.T) {
	traceID := model.NewTraceID(0, 5)
	spanID := model.NewSpanID(9)
	store := &fakeStore{
		traces: map[model.TraceID][]*model.Span{
			traceID: {newTestSpan(traceID, spanID, "svc", time.Unix(1, 0))},
		},
	}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/traces/"+traceID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleTracesMixedTraceIDAndPredicateIsBadRequest(t *testing.T) {
	store := &fakeStore{}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/traces?traceID=00000000000000000000000000000005&service=svc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDependenciesAlwaysEmpty(t *testing.T) {
	store := &fakeStore{}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dependencies", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, 0, env.Total)
}

func TestHandleMetricsUnimplemented(t *testing.T) {
	store := &fakeStore{}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics/whatever", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestServeAssetFallsBackToIndex(t *testing.T) {
	store := &fakeStore{}
	router := NewRouter(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/trace/abc123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestServeAssetHonorsIfNoneMatch(t *testing.T) {
	store := &fakeStore{}
	router := NewRouter(store, nil)

	first := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, first)
	etag := firstRec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	second.Header.Set("If-None-Match", etag)
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	assert.Equal(t, http.StatusNotModified, secondRec.Code)
}
