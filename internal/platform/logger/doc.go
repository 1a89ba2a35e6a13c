// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers (with trace and learner attributes) in a context.
package logger
