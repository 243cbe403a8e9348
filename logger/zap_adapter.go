package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// zapLogger adapts a CtxZapLogger to the Logger capability
type zapLogger struct {
	base  *CtxZapLogger
	sugar *zap.SugaredLogger
}

// NewZapLogger adapts l to Logger
// A leading string argument becomes the message, the remaining arguments are key/value pairs:
//
//	log := logger.NewZapLogger(logger.GetLogger("listener"))
//	log.Warn("listener already subscribed", "event", "ping")
func NewZapLogger(l *CtxZapLogger) Logger {
	return &zapLogger{base: l, sugar: l.GetZapLogger().Sugar()}
}

func (z *zapLogger) Debug(args ...any) {
	msg, kv := splitArgs(args)
	z.sugar.Debugw(msg, kv...)
}

func (z *zapLogger) Error(args ...any) {
	msg, kv := splitArgs(args)
	z.base.Error(msg, sweeten(kv)...)
}

func (z *zapLogger) Info(args ...any) {
	msg, kv := splitArgs(args)
	z.sugar.Infow(msg, kv...)
}

// Log is an alias of Info
func (z *zapLogger) Log(args ...any) {
	z.Info(args...)
}

// Trace is logged at debug level with a trace marker, zap has no trace level
func (z *zapLogger) Trace(args ...any) {
	msg, kv := splitArgs(args)
	z.sugar.Debugw(msg, append(kv, "trace", true)...)
}

func (z *zapLogger) Warn(args ...any) {
	msg, kv := splitArgs(args)
	z.sugar.Warnw(msg, kv...)
}

func splitArgs(args []any) (string, []any) {
	if len(args) == 0 {
		return "", nil
	}
	if msg, ok := args[0].(string); ok {
		return msg, args[1:]
	}
	// non-string head (e.g. a recovered panic value): render it as the message
	return fmt.Sprint(args[0]), args[1:]
}

// sweeten turns loose key/value pairs into zap fields so Error goes through CtxZapLogger (stack capture)
func sweeten(kv []any) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2+1)
	for i := 0; i < len(kv); i++ {
		if f, ok := kv[i].(zap.Field); ok {
			fields = append(fields, f)
			continue
		}
		key, ok := kv[i].(string)
		if !ok || i+1 >= len(kv) {
			fields = append(fields, zap.Any(fmt.Sprintf("arg%d", i), kv[i]))
			continue
		}
		fields = append(fields, zap.Any(key, kv[i+1]))
		i++
	}
	return fields
}
