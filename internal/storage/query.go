package storage

import (
	"context"
	"time"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/model"
)

// ListSpansParams is the fully-parsed predicate query: every duration and
// timestamp has already been resolved by the query HTTP layer.
type ListSpansParams struct {
	Service     string
	Operation   string
	Start       time.Time
	End         time.Time
	MinDuration *time.Duration
	MaxDuration *time.Duration
	Limit       int
	Tags        map[string]string
}

// ListSpans runs the two-step predicate query: trace ids matching the
// summary-row predicates, then every span for those ids, then an
// application-layer tag filter.
func (s *Store) ListSpans(ctx context.Context, params ListSpansParams) (map[model.TraceID][]*model.Span, error) {
	if params.Service == "" {
		return nil, apperr.BadRequestf("service is required")
	}
	if !params.Start.Before(params.End) {
		return nil, apperr.BadRequestf("start must be before end")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT trace_id FROM trace WHERE service = ? AND timestamp BETWEEN ? AND ?`
	args := []any{params.Service, params.Start.UnixMicro(), params.End.UnixMicro()}
	if params.MinDuration != nil {
		query += ` AND max_duration_us >= ?`
		args = append(args, params.MinDuration.Microseconds())
	}
	if params.MaxDuration != nil {
		query += ` AND min_duration_us <= ?`
		args = append(args, params.MaxDuration.Microseconds())
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "select trace ids", err)
	}
	var traceIDHex []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, apperr.Wrap(apperr.Internal, "scan trace id", err)
		}
		traceIDHex = append(traceIDHex, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, apperr.Wrap(apperr.Internal, "iterate trace ids", err)
	}
	rows.Close()

	if len(traceIDHex) == 0 {
		return map[model.TraceID][]*model.Span{}, nil
	}

	grouped, err := s.findSpansByTraceIDHex(ctx, traceIDHex)
	if err != nil {
		return nil, err
	}

	if params.Operation == "" && len(params.Tags) == 0 {
		return grouped, nil
	}

	filtered := make(map[model.TraceID][]*model.Span, len(grouped))
	for traceID, spans := range grouped {
		var kept []*model.Span
		for _, span := range spans {
			if params.Operation != "" && span.OperationName != params.Operation {
				continue
			}
			if !matchesTagFilter(span, params.Tags) {
				continue
			}
			kept = append(kept, span)
		}
		if len(kept) > 0 {
			filtered[traceID] = kept
		}
	}
	return filtered, nil
}

// matchesTagFilter reports whether every (k, v) filter entry matches at
// least one span tag or process tag, per the render rules in renderTagValue.
func matchesTagFilter(span *model.Span, filter map[string]string) bool {
	for k, v := range filter {
		if !hasMatchingTag(span.Tags, k, v) && !hasMatchingTag(span.Process.Tags, k, v) {
			return false
		}
	}
	return true
}

func hasMatchingTag(tags []model.Tag, key, value string) bool {
	for _, tag := range tags {
		if tag.Key == key && model.RenderTagValue(tag) == value {
			return true
		}
	}
	return false
}
