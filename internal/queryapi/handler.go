package queryapi

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/convert"
	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/storage"
	"github.com/archer-go/archer/internal/uimodel"
)

// Store is the read side of the storage engine, as seen by the query API.
type Store interface {
	ListServices(ctx context.Context) ([]string, error)
	ListOperations(ctx context.Context, service string) ([]string, error)
	FindTrace(ctx context.Context, traceID model.TraceID) ([]*model.Span, error)
	FindTraces(ctx context.Context, ids []model.TraceID) (map[model.TraceID][]*model.Span, error)
	ListSpans(ctx context.Context, params storage.ListSpansParams) (map[model.TraceID][]*model.Span, error)
}

// Handler serves the query HTTP API and the UI asset fallback.
type Handler struct {
	Store  Store
	Logger *zap.Logger
}

// NewRouter builds the full query API route table plus the UI asset
// fallback.
func NewRouter(store Store, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{Store: store, Logger: logger}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/services", h.handleServices).Methods(http.MethodGet)
	api.HandleFunc("/services/{service}/operations", h.handleOperations).Methods(http.MethodGet)
	api.HandleFunc("/traces", h.handleTraces).Methods(http.MethodGet)
	api.HandleFunc("/traces/{traceID}", h.handleTraceByID).Methods(http.MethodGet)
	api.HandleFunc("/dependencies", h.handleDependencies).Methods(http.MethodGet)
	api.PathPrefix("/metrics").HandlerFunc(h.handleMetrics)

	r.NotFoundHandler = http.HandlerFunc(serveAsset)
	r.PathPrefix("/").HandlerFunc(serveAsset)
	return r
}

func (h *Handler) handleServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Store.ListServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, services, len(services))
}

func (h *Handler) handleOperations(w http.ResponseWriter, r *http.Request) {
	service := mux.Vars(r)["service"]
	operations, err := h.Store.ListOperations(r.Context(), service)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, operations, len(operations))
}

func (h *Handler) handleDependencies(w http.ResponseWriter, r *http.Request) {
	writeData(w, []any{}, 0)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeError(w, apperr.Unimplementedf("metrics endpoints are not implemented"))
}

func (h *Handler) handleTraceByID(w http.ResponseWriter, r *http.Request) {
	hexID := mux.Vars(r)["traceID"]
	traceID, err := model.TraceIDFromHex(hexID)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.BadRequest, "parse trace id", err))
		return
	}

	spans, err := h.Store.FindTrace(r.Context(), traceID)
	if err != nil {
		writeError(w, err)
		return
	}

	uiTrace := convert.SpansToUITrace(traceID, spans)
	writeData(w, []uimodel.Trace{uiTrace}, 1)
}

func (h *Handler) handleTraces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	traceIDs, err := traceIDsFromQuery(q)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(traceIDs) > 0 {
		if isPredicateQuery(q) {
			writeError(w, apperr.BadRequestf("cannot combine traceID with predicate query parameters"))
			return
		}
		h.handleTracesByID(w, r, traceIDs)
		return
	}

	params, err := predicateParamsFromQuery(q)
	if err != nil {
		writeError(w, err)
		return
	}

	grouped, err := h.Store.ListSpans(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	traces := groupedSpansToUITraces(grouped)
	writeData(w, traces, len(traces))
}

func (h *Handler) handleTracesByID(w http.ResponseWriter, r *http.Request, ids []model.TraceID) {
	grouped, err := h.Store.FindTraces(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}

	var traces []uimodel.Trace
	var errs []EnvelopeError
	for _, id := range ids {
		spans, ok := grouped[id]
		if !ok || len(spans) == 0 {
			errs = append(errs, EnvelopeError{
				Code:    apperr.HTTPStatus(apperr.NotFound),
				Msg:     "trace ID not found",
				TraceID: id.String(),
			})
			continue
		}
		traces = append(traces, convert.SpansToUITrace(id, spans))
	}

	status := http.StatusOK
	if len(errs) > 0 {
		status = apperr.HTTPStatus(apperr.NotFound)
	}
	writeEnvelope(w, status, Envelope{Data: traces, Total: len(traces), Errors: errs})
}

// groupedSpansToUITraces converts every trace's span group into UI JSON,
// ordered by the earliest span start within each trace, descending —
// reconstructing the trace-summary query's ORDER BY timestamp DESC since
// the storage layer's grouped-map return type does not preserve it.
func groupedSpansToUITraces(grouped map[model.TraceID][]*model.Span) []uimodel.Trace {
	ids := make([]model.TraceID, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return earliestStart(grouped[ids[i]]).After(earliestStart(grouped[ids[j]]))
	})

	traces := make([]uimodel.Trace, 0, len(ids))
	for _, id := range ids {
		traces = append(traces, convert.SpansToUITrace(id, grouped[id]))
	}
	return traces
}

func earliestStart(spans []*model.Span) time.Time {
	var earliest time.Time
	for i, s := range spans {
		if i == 0 || s.Start.Before(earliest) {
			earliest = s.Start
		}
	}
	return earliest
}
