package observability

import "github.com/rs/zerolog"

// zerologLogger adapts a zerolog.Logger to the Logger interface so embedding
// services can route library logs into their own sink.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps zl as a Logger.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return zerologLogger{zl: zl}
}

func (l zerologLogger) Debug(msg string, fields ...Field) {
	apply(l.zl.Debug(), fields).Msg(msg)
}

func (l zerologLogger) Info(msg string, fields ...Field) {
	apply(l.zl.Info(), fields).Msg(msg)
}

func (l zerologLogger) Warn(msg string, fields ...Field) {
	apply(l.zl.Warn(), fields).Msg(msg)
}

func (l zerologLogger) Error(msg string, fields ...Field) {
	apply(l.zl.Error(), fields).Msg(msg)
}

func (l zerologLogger) With(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key(), f.Value())
	}
	return zerologLogger{zl: ctx.Logger()}
}

func apply(ev *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value().(type) {
		case string:
			ev = ev.Str(f.Key(), v)
		case int:
			ev = ev.Int(f.Key(), v)
		case int64:
			ev = ev.Int64(f.Key(), v)
		case error:
			ev = ev.AnErr(f.Key(), v)
		default:
			ev = ev.Interface(f.Key(), v)
		}
	}
	return ev
}
