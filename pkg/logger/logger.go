// Package logger wraps logrus with context-aware helpers.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roguepikachu/pasteshare/pkg/ctxutil"
	"github.com/sirupsen/logrus"
)

// InitLogging configures the global logger from LOG_LEVEL and LOG_FORMAT.
func InitLogging() {
	setLogLevel(os.Getenv("LOG_LEVEL"))
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// SetOutput redirects log output; the CLI sends logs to stderr so stdout stays clean.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func setLogLevel(level string) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// Sprintf formats like fmt.Sprintf but returns "" for an empty format.
func Sprintf(format string, args ...any) string {
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// With returns an entry carrying fields plus the request identifiers found in ctx.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	merged := ctxutil.Fields(ctx)
	for k, v := range fields {
		merged[k] = v
	}
	return logrus.WithFields(logrus.Fields(merged))
}

// WithField is With for a single field.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return With(ctx, map[string]any{key: value})
}

func Info(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Infof(msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Debugf(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Errorf(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Warnf(msg, args...)
}

func Fatal(ctx context.Context, msg string, args ...any) {
	With(ctx, nil).Fatalf(msg, args...)
}
