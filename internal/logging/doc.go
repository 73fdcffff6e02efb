// Package logging assembles structured slog loggers for mediascan.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag log lines with the scan run id and the file being
// scanned. NewNop gives tests and optional wiring a logger that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
