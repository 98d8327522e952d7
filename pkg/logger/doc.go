// Package logger builds configured slog loggers with optional context
// attribute extraction, so request-scoped values like a reconciliation run
// id land on every record without threading them through call sites.
package logger
