package queryapi

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/storage"
)

const defaultLookback = 48 * time.Hour
const defaultLimit = 20

// traceIDsFromQuery parses the repeated traceID=HEX query parameter, if
// present.
func traceIDsFromQuery(q url.Values) ([]model.TraceID, error) {
	raw := q["traceID"]
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]model.TraceID, 0, len(raw))
	for _, hex := range raw {
		id, err := model.TraceIDFromHex(hex)
		if err != nil {
			return nil, apperr.Wrap(apperr.BadRequest, "parse traceID", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// predicateParamsFromQuery parses the full predicate-query parameter set.
func predicateParamsFromQuery(q url.Values) (storage.ListSpansParams, error) {
	params := storage.ListSpansParams{
		Service:   q.Get("service"),
		Operation: q.Get("operation"),
		Limit:     defaultLimit,
	}
	if params.Service == "" {
		return params, apperr.BadRequestf("service is required")
	}

	now := time.Now().UTC()
	params.Start = now.Add(-defaultLookback)
	params.End = now
	if v := q.Get("start"); v != "" {
		us, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return params, apperr.Wrap(apperr.BadRequest, "parse start", err)
		}
		params.Start = microsToTime(us)
	}
	if v := q.Get("end"); v != "" {
		us, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return params, apperr.Wrap(apperr.BadRequest, "parse end", err)
		}
		params.End = microsToTime(us)
	}
	if !params.Start.Before(params.End) {
		return params, apperr.BadRequestf("start must be before end")
	}

	minDur, err := ParseOptionalDuration(q.Get("minDuration"))
	if err != nil {
		return params, apperr.Wrap(apperr.BadRequest, "parse minDuration", err)
	}
	params.MinDuration = minDur

	maxDur, err := ParseOptionalDuration(q.Get("maxDuration"))
	if err != nil {
		return params, apperr.Wrap(apperr.BadRequest, "parse maxDuration", err)
	}
	params.MaxDuration = maxDur

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return params, apperr.BadRequestf("limit must be a positive integer")
		}
		params.Limit = limit
	}

	tags, err := tagFilterFromQuery(q)
	if err != nil {
		return params, err
	}
	params.Tags = tags

	return params, nil
}

func microsToTime(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

// tagFilterFromQuery merges repeated tag=k:v parameters with the single
// tags={"k":"v",...} JSON object into one filter map.
func tagFilterFromQuery(q url.Values) (map[string]string, error) {
	var filter map[string]string

	for _, kv := range q["tag"] {
		k, v, ok := strings.Cut(kv, ":")
		if !ok {
			return nil, apperr.BadRequestf("invalid tag filter %q: expected k:v", kv)
		}
		if filter == nil {
			filter = make(map[string]string)
		}
		filter[k] = v
	}

	if raw := q.Get("tags"); raw != "" {
		var obj map[string]string
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, apperr.Wrap(apperr.BadRequest, "parse tags JSON", err)
		}
		if filter == nil {
			filter = make(map[string]string, len(obj))
		}
		for k, v := range obj {
			filter[k] = v
		}
	}

	return filter, nil
}

// isPredicateQuery reports whether the request carries any predicate-query
// parameter, used to reject a request that mixes traceID and predicate
// parameters.
func isPredicateQuery(q url.Values) bool {
	for _, key := range []string{"service", "operation", "start", "end", "minDuration", "maxDuration", "limit", "tag", "tags"} {
		if q.Has(key) {
			return true
		}
	}
	return false
}
