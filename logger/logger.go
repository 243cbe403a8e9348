package logger

// Logger is the logging capability handed to channels
// Channels report recoverable policy violations through Warn and listener failures through Error
type Logger interface {
	Debug(args ...any)
	Error(args ...any)
	Info(args ...any)
	Log(args ...any)
	Trace(args ...any)
	Warn(args ...any)
}

type nullLogger struct{}

func (nullLogger) Debug(...any) {}
func (nullLogger) Error(...any) {}
func (nullLogger) Info(...any)  {}
func (nullLogger) Log(...any)   {}
func (nullLogger) Trace(...any) {}
func (nullLogger) Warn(...any)  {}

// NullLogger discards everything; default logger of every channel
var NullLogger Logger = nullLogger{}
