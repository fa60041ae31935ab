package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = &ZapLogger{}

// ZapLogger is a Logger backed by a zap SugaredLogger.
type ZapLogger struct {
	lg     *zap.SugaredLogger
	closer io.Closer
}

// Config selects the encoder, minimum level and destination of a ZapLogger.
// Output defaults to stderr so stdout stays reserved for command results.
type Config struct {
	Format string `env:"LOG_FORMAT" env-default:"console"` // console, logfmt or json
	Level  Level  `env:"LOG_LEVEL" env-default:"info"`     // debug, info, warn, error, fatal
	Output string `env:"LOG_OUTPUT" env-default:"stderr"`  // stderr, stdout or file path
}

// ConfigFromEnv reads Config from LOG_* environment variables.
func ConfigFromEnv() (Config, error) {
	var conf Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// NewZapLogger builds a ZapLogger. Extra write syncers receive every entry in
// addition to the configured output. It fails when a file output cannot be
// opened.
func NewZapLogger(conf Config, extraWriters ...zapcore.WriteSyncer) (Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	output, closer, err := openOutput(conf.Output)
	if err != nil {
		return nil, err
	}

	wss := zapcore.NewMultiWriteSyncer(append(extraWriters, output)...)
	core := zapcore.NewCore(encoder, wss, toZapLogLevel(conf.Level))
	// Skip the ZapLogger method frame so callers are reported.
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()

	return &ZapLogger{lg: zl, closer: closer}, nil
}

// openOutput returns the sink for output and, for files, the handle to close.
func openOutput(output string) (zapcore.WriteSyncer, io.Closer, error) {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.Lock(file), file, nil
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.lg.Debugw(msg, keysAndValues...)
}

func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.lg.Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.lg.Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.lg.Errorw(msg, keysAndValues...)
}

func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) {
	l.lg.Fatalw(msg, keysAndValues...)
}

func (l *ZapLogger) WithKV(key string, value any) Logger {
	return &ZapLogger{lg: l.lg.With(key, value), closer: l.closer}
}

func (l *ZapLogger) WithName(name string) Logger {
	return &ZapLogger{lg: l.lg.Named(name), closer: l.closer}
}

func (l *ZapLogger) Name() string {
	return l.lg.Desugar().Name()
}

func (l *ZapLogger) Sync() error {
	return l.lg.Sync()
}

// Close flushes the logger and closes its log file, if any. Loggers derived
// through WithKV and WithName share the file.
func (l *ZapLogger) Close() error {
	_ = l.lg.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func toZapLogLevel(logLevel Level) zapcore.Level {
	switch logLevel {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
