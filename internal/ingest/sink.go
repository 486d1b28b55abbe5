// Package ingest hosts the six wire listeners that decode spans off the
// network and hand them to the storage engine on a detached task, per
// listener, returning acceptance to the client promptly.
package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/model"
)

// Sink is the storage engine's write path, as seen by every listener.
type Sink interface {
	SaveSpans(ctx context.Context, spans []*model.Span) error
}

// saveDetached fires SaveSpans in a new goroutine; persistence failures
// never propagate back to the client that submitted the batch and are only
// logged, per the best-effort persistence policy.
func saveDetached(logger *zap.Logger, sink Sink, spans []*model.Span) {
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		if err := sink.SaveSpans(context.Background(), spans); err != nil {
			logger.Error("persist span batch", zap.Error(err), zap.Int("span_count", len(spans)))
		}
	}()
}
