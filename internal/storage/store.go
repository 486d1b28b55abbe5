// Package storage is the embedded SQL storage engine: one writable
// connection serialized behind a mutex, one read-only connection permitting
// concurrent callers, both pointed at the same SQLite file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/spancodec"
)

// Store is the storage engine described by the write path (save_spans) and
// the query path (list_services, list_operations, find_trace, find_traces,
// list_spans).
type Store struct {
	logger *zap.Logger

	writeMu sync.Mutex
	writer  *sql.DB
	reader  *sql.DB
}

// Open creates the data directory if needed, opens both connections,
// applies pragmas, and runs the schema DDL. Open errors (missing
// directory, permission) propagate and abort startup.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data directory: %w", err)
	}

	writerDSN := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on", path)
	writer, err := sql.Open("sqlite3", writerDSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if _, err := writer.Exec(schemaDDL); err != nil {
		writer.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}

	readerDSN := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL&cache=shared", path)
	reader, err := sql.Open("sqlite3", readerDSN)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("storage: open reader: %w", err)
	}

	return &Store{logger: logger, writer: writer, reader: reader}, nil
}

// Close releases both connections.
func (s *Store) Close() error {
	writerErr := s.writer.Close()
	readerErr := s.reader.Close()
	if writerErr != nil {
		return writerErr
	}
	return readerErr
}

// SaveSpans persists a batch atomically: upsert services, upsert
// operations, upsert per-trace summary rows, then insert every span. A
// failure at any step aborts the whole transaction.
func (s *Store) SaveSpans(ctx context.Context, spans []*model.Span) error {
	if len(spans) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "begin transaction", err)
	}
	defer tx.Rollback()

	serviceStmt, err := tx.PrepareContext(ctx, `INSERT INTO service(name) VALUES (?) ON CONFLICT(name) DO NOTHING`)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "prepare service upsert", err)
	}
	defer serviceStmt.Close()

	operationStmt, err := tx.PrepareContext(ctx, `INSERT INTO operation(service, name) VALUES (?, ?) ON CONFLICT(service, name) DO NOTHING`)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "prepare operation upsert", err)
	}
	defer operationStmt.Close()

	traceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trace(trace_id, service, timestamp, min_duration_us, max_duration_us)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(trace_id) DO UPDATE SET
			timestamp       = MIN(timestamp, excluded.timestamp),
			min_duration_us = MIN(min_duration_us, excluded.min_duration_us),
			max_duration_us = MAX(max_duration_us, excluded.max_duration_us)
	`)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "prepare trace upsert", err)
	}
	defer traceStmt.Close()

	spanStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO span(trace_id, span_id, operation_name, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(trace_id, span_id) DO UPDATE SET
			operation_name = excluded.operation_name,
			payload        = excluded.payload
	`)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "prepare span upsert", err)
	}
	defer spanStmt.Close()

	type traceSummary struct {
		service                      string
		timestampUs                  int64
		minDurationUs, maxDurationUs int64
	}
	traceSummaries := make(map[model.TraceID]*traceSummary)

	for _, span := range spans {
		if _, err := serviceStmt.ExecContext(ctx, span.Process.Service); err != nil {
			return apperr.Wrap(apperr.Internal, "upsert service", err)
		}
		if _, err := operationStmt.ExecContext(ctx, span.Process.Service, span.OperationName); err != nil {
			return apperr.Wrap(apperr.Internal, "upsert operation", err)
		}

		startUs := span.Start.UnixMicro()
		durationUs := span.Duration.Microseconds()

		sum, ok := traceSummaries[span.TraceID]
		if !ok {
			traceSummaries[span.TraceID] = &traceSummary{
				service:       span.Process.Service,
				timestampUs:   startUs,
				minDurationUs: durationUs,
				maxDurationUs: durationUs,
			}
		} else {
			if startUs < sum.timestampUs {
				sum.timestampUs = startUs
			}
			if durationUs < sum.minDurationUs {
				sum.minDurationUs = durationUs
			}
			if durationUs > sum.maxDurationUs {
				sum.maxDurationUs = durationUs
			}
		}

		payload, err := spancodec.EncodeFrame(span)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "encode span payload", err)
		}
		if _, err := spanStmt.ExecContext(ctx, span.TraceID.String(), span.SpanID.String(), span.OperationName, payload); err != nil {
			return apperr.Wrap(apperr.Internal, "insert span", err)
		}
	}

	for traceID, sum := range traceSummaries {
		if _, err := traceStmt.ExecContext(ctx, traceID.String(), sum.service, sum.timestampUs, sum.minDurationUs, sum.maxDurationUs); err != nil {
			return apperr.Wrap(apperr.Internal, "upsert trace summary", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.Internal, "commit transaction", err)
	}
	return nil
}

// ListServices returns every distinct service name, alphabetical.
func (s *Store) ListServices(ctx context.Context) ([]string, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT name FROM service ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list services", err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan service row", err)
		}
		services = append(services, name)
	}
	return services, rows.Err()
}

// ListOperations returns every operation of a service, alphabetical.
func (s *Store) ListOperations(ctx context.Context, service string) ([]string, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT name FROM operation WHERE service = ? ORDER BY name ASC`, service)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list operations", err)
	}
	defer rows.Close()

	var operations []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan operation row", err)
		}
		operations = append(operations, name)
	}
	return operations, rows.Err()
}

// FindTrace decodes every span belonging to one trace id, in no particular
// order. Returns apperr.NotFound if the trace has no spans.
func (s *Store) FindTrace(ctx context.Context, traceID model.TraceID) ([]*model.Span, error) {
	grouped, err := s.FindTraces(ctx, []model.TraceID{traceID})
	if err != nil {
		return nil, err
	}
	spans, ok := grouped[traceID]
	if !ok {
		return nil, apperr.NotFoundf("trace ID not found")
	}
	return spans, nil
}

// FindTraces decodes and groups spans for a set of trace ids.
func (s *Store) FindTraces(ctx context.Context, ids []model.TraceID) (map[model.TraceID][]*model.Span, error) {
	if len(ids) == 0 {
		return map[model.TraceID][]*model.Span{}, nil
	}
	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.String()
	}
	return s.findSpansByTraceIDHex(ctx, hexIDs)
}

func (s *Store) findSpansByTraceIDHex(ctx context.Context, hexIDs []string) (map[model.TraceID][]*model.Span, error) {
	placeholders, args := inClause(hexIDs)
	query := fmt.Sprintf(`SELECT trace_id, payload FROM span WHERE trace_id IN (%s)`, placeholders)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "query spans by trace id", err)
	}
	defer rows.Close()

	grouped := make(map[model.TraceID][]*model.Span)
	for rows.Next() {
		var traceIDHex string
		var payload []byte
		if err := rows.Scan(&traceIDHex, &payload); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan span row", err)
		}
		span, err := spancodec.DecodeFrame(payload)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "decode span payload", err)
		}
		grouped[span.TraceID] = append(grouped[span.TraceID], span)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "iterate span rows", err)
	}
	return grouped, nil
}

func inClause(values []string) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ","), args
}
