package logging

import (
	"io"
	"os"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger = logr.Discard()
)

// Logger returns the global logger
func Logger() logr.Logger {
	return logger
}

// SetLogger sets the global logger
func SetLogger(l logr.Logger) {
	logger = l
}

// New returns a development-style logger writing to w. Debug messages
// (V(1)) are kept.
func New(w io.Writer) (logr.Logger, *zap.Logger) {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	zapLog := zap.New(core, zap.AddCaller())
	return zapr.NewLogger(zapLog), zapLog
}

func tempDir() string {
	if runtime.GOOS == "darwin" {
		return "/tmp"
	}
	return os.TempDir()
}

// NewFile creates jsonascii-*.log in the temp directory and installs a
// logger writing to it as the global logger. The returned func flushes and
// closes the file.
func NewFile() (string, func(), error) {
	logFile, err := os.CreateTemp(tempDir(), "jsonascii-*.log")
	if err != nil {
		return "", nil, err
	}

	l, zapLog := New(logFile)
	SetLogger(l.WithName("jsonascii"))

	closeFn := func() {
		zapLog.Sync()
		logFile.Close()
	}
	return logFile.Name(), closeFn, nil
}

// Info logs a non-error message with the given key/value pairs as context
func Info(msg string, keysAndValues ...interface{}) {
	logger.WithCallDepth(1).Info(msg, keysAndValues...)
}

// Debug logs a debug message with the given key/value pairs as context
func Debug(msg string, keysAndValues ...interface{}) {
	logger.WithCallDepth(1).V(1).Info(msg, keysAndValues...)
}

// Error logs an error message with the given key/value pairs as context
func Error(err error, msg string, keysAndValues ...interface{}) {
	logger.WithCallDepth(1).Error(err, msg, keysAndValues...)
}

// WithName adds a new element to the logger's name
func WithName(name string) logr.Logger {
	return logger.WithName(name)
}
