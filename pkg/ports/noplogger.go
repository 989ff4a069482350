package ports

// NopLogger discards all messages. It is the fallback when a component
// is constructed without a logger.
type NopLogger struct{}

// Debug does nothing.
func (NopLogger) Debug(msg string, args ...interface{}) {}

// Info does nothing.
func (NopLogger) Info(msg string, args ...interface{}) {}

// Warn does nothing.
func (NopLogger) Warn(msg string, args ...interface{}) {}

// Error does nothing.
func (NopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns the same no-op logger.
func (NopLogger) WithComponent(component string) Logger { return NopLogger{} }
