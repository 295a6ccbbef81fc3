// Package logger provides structured logging on top of zap.
//
// All loggers built with New share one atomic level so the server can
// change verbosity at runtime with SetLevel. Every field passes through a
// redacting core: access tokens (rgtk_ prefix) are partially masked
// wherever they appear as a value, and values under sensitive keys such as
// "password" are replaced entirely.
//
// Request-scoped loggers travel in a context.Context together with the
// request ID and client IP; L(ctx) returns a logger with both attached.
package logger
