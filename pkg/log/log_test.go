package log_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehendu098/ghost/snverify/pkg/log"
)

// testWriteSyncer captures the last entry written by a ZapLogger.
type testWriteSyncer struct {
	lastEntry []byte
}

func (tws *testWriteSyncer) Write(p []byte) (n int, err error) {
	tws.lastEntry = append([]byte(nil), p...)
	return len(p), nil
}

func (tws *testWriteSyncer) Sync() error {
	return nil
}

func (tws *testWriteSyncer) decode(t *testing.T) map[string]any {
	t.Helper()
	entry := make(map[string]any)
	require.NoError(t, json.Unmarshal(tws.lastEntry, &entry), "failed to unmarshal log entry: %s", string(tws.lastEntry))
	return entry
}

func TestZapLogger(t *testing.T) {
	tws := &testWriteSyncer{}
	logger, err := log.NewZapLogger(log.Config{Format: "json", Level: log.LevelDebug, Output: filepath.Join(t.TempDir(), "out.log")}, tws)
	require.NoError(t, err)
	logger = logger.WithName("verify").WithName("rpc")
	assert.Equal(t, "verify.rpc", logger.Name())

	logger = logger.WithKV("run", "abc")

	logger.Info("request sent", "method", "starknet_call")
	entry := tws.decode(t)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "verify.rpc", entry["logger"])
	assert.Equal(t, "request sent", entry["msg"])
	assert.Equal(t, "abc", entry["run"])
	assert.Equal(t, "starknet_call", entry["method"])
	assert.Contains(t, entry["caller"], "log/log_test.go")

	logger.Debug("debug entry")
	assert.Equal(t, "debug", tws.decode(t)["level"])
}

func TestZapLoggerLevelFilter(t *testing.T) {
	tws := &testWriteSyncer{}
	logger, err := log.NewZapLogger(log.Config{Format: "logfmt", Level: log.LevelWarn, Output: filepath.Join(t.TempDir(), "out.log")}, tws)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, tws.lastEntry)

	logger.Warn("shown", "k", "v")
	assert.True(t, strings.Contains(string(tws.lastEntry), "msg=shown"))
}

func TestZapLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "snverify.log")
	logger, err := log.NewZapLogger(log.Config{Format: "json", Level: log.LevelInfo, Output: path})
	require.NoError(t, err)

	logger.WithName("verify").Info("written to file")
	zl, ok := logger.(*log.ZapLogger)
	require.True(t, ok)
	require.NoError(t, zl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestZapLoggerBadOutput(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := log.NewZapLogger(log.Config{Output: filepath.Join(blocker, "nested", "out.log")})
	assert.Error(t, err)

	_, err = log.NewZapLogger(log.Config{Output: t.TempDir()})
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_OUTPUT", "stdout")

	conf, err := log.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, log.Config{Format: "json", Level: log.LevelDebug, Output: "stdout"}, conf)

	t.Setenv("LOG_LEVEL", "loud")
	_, err = log.ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	for _, key := range []string{"LOG_FORMAT", "LOG_LEVEL", "LOG_OUTPUT"} {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value)
			require.NoError(t, os.Unsetenv(key))
		}
	}

	conf, err := log.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, log.Config{Format: "console", Level: log.LevelInfo, Output: "stderr"}, conf)
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()

	_, isNoop := log.FromContext(ctx).(log.NoopLogger)
	assert.True(t, isNoop)

	rec := log.NewRecorder()
	ctx = log.SetContextLogger(ctx, rec)
	assert.Same(t, rec, log.FromContext(ctx))

	ctx = log.SetContextLogger(ctx, nil)
	_, isNoop = log.FromContext(ctx).(log.NoopLogger)
	assert.True(t, isNoop)
}

func TestRecorder(t *testing.T) {
	rec := log.NewRecorder()
	child := rec.WithName("verify").WithKV("run", 1)

	child.Error("validation failed", "error", "boom")
	rec.Info("root")

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, log.Entry{
		Level:         log.LevelError,
		Name:          "verify",
		Message:       "validation failed",
		KeysAndValues: []any{"run", 1, "error", "boom"},
	}, entries[0])

	_, found := rec.Find(log.LevelInfo, "root")
	assert.True(t, found)
	_, found = rec.Find(log.LevelWarn, "root")
	assert.False(t, found)
}
