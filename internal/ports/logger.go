package ports

import "context"

// Fields carries structured key/value context for a log entry.
type Fields = map[string]interface{}

// Logger is the logging port used by the journal services and adapters.
// Implementations live in internal/adapters/logger.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Fields)
	Info(ctx context.Context, msg string, fields ...Fields)
	// Warn is used for recoverable problems such as skipped import rows.
	Warn(ctx context.Context, msg string, fields ...Fields)
	Error(ctx context.Context, err error, msg string, fields ...Fields)
}
