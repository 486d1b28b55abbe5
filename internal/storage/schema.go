package storage

const schemaDDL = `
CREATE TABLE IF NOT EXISTS service (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS operation (
	service TEXT NOT NULL REFERENCES service(name),
	name    TEXT NOT NULL,
	PRIMARY KEY (service, name)
);

CREATE TABLE IF NOT EXISTS trace (
	trace_id        TEXT PRIMARY KEY,
	service         TEXT NOT NULL,
	timestamp       INTEGER NOT NULL,
	min_duration_us INTEGER NOT NULL,
	max_duration_us INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trace_service_timestamp ON trace(service, timestamp DESC);

CREATE TABLE IF NOT EXISTS span (
	trace_id       TEXT NOT NULL,
	span_id        TEXT NOT NULL,
	operation_name TEXT NOT NULL,
	payload        BLOB NOT NULL,
	PRIMARY KEY (trace_id, span_id)
);

CREATE INDEX IF NOT EXISTS idx_span_trace_id ON span(trace_id);
`
