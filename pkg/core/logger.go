package core

import "fmt"

// DefaultLogger implements Logger by writing to stdout.
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger.
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}
