package quiverclient

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/archer-go/archer/internal/model"
)

// Logger returns a zap.Logger that mirrors every log entry into ctx's
// current span (if Tracer.Start was called on ctx) as a span Event,
// alongside writing through base's own core unchanged. This is the
// layer's plug-in point into the embedding application's structured
// logging framework.
func (t *Tracer) Logger(ctx context.Context, base *zap.Logger) *zap.Logger {
	span, ok := SpanFromContext(ctx)
	if !ok {
		return base
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &spanCore{Core: core, tracer: t, span: span}
	}))
}

// spanCore decorates an existing zapcore.Core, forwarding to it unchanged
// every entry its level enables while recording every entry as a span
// Event — unless the entry's logger name falls under one of the tracer's
// excluded prefixes, which breaks the feedback loop the tracer's own
// logging (and the QUIC stack's) would otherwise cause.
type spanCore struct {
	zapcore.Core
	tracer *Tracer
	span   *Span
}

func (c *spanCore) Enabled(zapcore.Level) bool { return true }

func (c *spanCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(entry, c)
}

func (c *spanCore) With(fields []zapcore.Field) zapcore.Core {
	return &spanCore{Core: c.Core.With(fields), tracer: c.tracer, span: c.span}
}

func (c *spanCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if !c.tracer.Excluded(entry.LoggerName) {
		c.span.Event(levelFromZap(entry.Level), entry.LoggerName, entry.Message, fieldsToTags(fields)...)
	}
	if !c.Core.Enabled(entry.Level) {
		return nil
	}
	return c.Core.Write(entry, fields)
}

func levelFromZap(l zapcore.Level) Level {
	switch {
	case l >= zapcore.ErrorLevel:
		return LevelError
	case l >= zapcore.WarnLevel:
		return LevelWarn
	case l >= zapcore.InfoLevel:
		return LevelInfo
	case l >= zapcore.DebugLevel:
		return LevelDebug
	default:
		return LevelTrace
	}
}

func fieldsToTags(fields []zapcore.Field) []model.Tag {
	tags := make([]model.Tag, 0, len(fields))
	for _, f := range fields {
		tags = append(tags, fieldToTag(f))
	}
	return tags
}

func fieldToTag(f zapcore.Field) model.Tag {
	switch f.Type {
	case zapcore.StringType:
		return model.NewStringTag(f.Key, f.String)
	case zapcore.BoolType:
		return model.NewBoolTag(f.Key, f.Integer == 1)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return model.NewInt64Tag(f.Key, f.Integer)
	case zapcore.Float64Type, zapcore.Float32Type:
		return model.NewFloat64Tag(f.Key, math.Float64frombits(uint64(f.Integer)))
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			return model.NewStringTag(f.Key, err.Error())
		}
		return model.NewStringTag(f.Key, fmt.Sprint(f.Interface))
	default:
		return model.NewStringTag(f.Key, fmt.Sprint(f.Interface))
	}
}

