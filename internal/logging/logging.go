// Package logging builds the zap logger used by the CLI and servers and adapts it
// to the key/value Logger interface the client accepts.
package logging

import (
	"io"
	"os"

	"github.com/eshaffer321/bigcapital-go/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and encoding
type Config struct {
	Level    string
	Encoding string

	// Output defaults to stderr so command output on stdout stays machine-readable
	Output io.Writer
}

// New builds a zap.Logger using the provided configuration.
func New(cfg Config) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if cfg.Output != nil {
		sink = zapcore.AddSync(cfg.Output)
	}

	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller(), zap.AddCallerSkip(1))
}

// Adapter exposes a zap logger through types.Logger
type Adapter struct {
	sugar *zap.SugaredLogger
}

var _ types.Logger = (*Adapter)(nil)

// NewAdapter wraps base
func NewAdapter(base *zap.Logger) *Adapter {
	return &Adapter{sugar: base.Sugar()}
}

// NewLogger is New followed by NewAdapter
func NewLogger(cfg Config) *Adapter {
	return NewAdapter(New(cfg))
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.sugar.Debugw(msg, keysAndValues...)
}

func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.sugar.Infow(msg, keysAndValues...)
}

func (a *Adapter) Warn(msg string, keysAndValues ...interface{}) {
	a.sugar.Warnw(msg, keysAndValues...)
}

func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.sugar.Errorw(msg, keysAndValues...)
}

// With returns an adapter that adds keysAndValues to every entry
func (a *Adapter) With(keysAndValues ...interface{}) *Adapter {
	return &Adapter{sugar: a.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries
func (a *Adapter) Sync() error {
	return a.sugar.Sync()
}
