// Package observability provides structured logging for the buffet gateway.
//
// Logging is zap-based; the level and output format come from the
// application configuration.
package observability
