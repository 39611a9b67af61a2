package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used across the service.
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type structuredLogger struct {
	logger *logrus.Logger
	fields logrus.Fields
}

type LoggerConfig struct {
	Level       string
	Format      string
	ServiceName string
	Output      io.Writer
}

type correlationIDKey struct{}

// WithCorrelationID stores the request correlation id for later log entries.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

func NewStructuredLogger(config LoggerConfig) Logger {
	logrusLogger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)

	if config.Format == "json" {
		logrusLogger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logrusLogger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	logrusLogger.SetOutput(out)

	return &structuredLogger{
		logger: logrusLogger,
		fields: logrus.Fields{
			"service": config.ServiceName,
		},
	}
}

// NewNopLogger discards everything. Used by tests and tools.
func NewNopLogger() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &structuredLogger{logger: l, fields: logrus.Fields{}}
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Info(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.entry(ctx, err, fields).Error(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Warn(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, nil, fields).Debug(message)
}

func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &structuredLogger{logger: l.logger, fields: merged}
}

func (l *structuredLogger) entry(ctx context.Context, err error, fields map[string]interface{}) *logrus.Entry {
	all := make(logrus.Fields, len(l.fields)+len(fields)+3)
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	if ctx != nil {
		if cid := CorrelationID(ctx); cid != "" {
			all["correlation_id"] = cid
		}
	}
	if err != nil {
		all["error"] = err.Error()
	}
	// skip entry, the level method and the caller of the Logger method
	if pc, file, line, ok := runtime.Caller(2); ok {
		all["caller"] = fmt.Sprintf("%s:%d %s", file, line, runtime.FuncForPC(pc).Name())
	}
	return l.logger.WithContext(ctx).WithFields(all)
}

// LogAuthEvent records a login or logout outcome.
func LogAuthEvent(ctx context.Context, logger Logger, event string, userID int64, success bool, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event_type"] = "auth"
	fields["auth_event"] = event
	fields["user_id"] = userID
	fields["success"] = success

	if success {
		logger.Info(ctx, fmt.Sprintf("Auth event: %s", event), fields)
		return
	}
	logger.Warn(ctx, fmt.Sprintf("Auth event failed: %s", event), fields)
}

// LogRequest records one served HTTP request.
func LogRequest(ctx context.Context, logger Logger, method, path string, status int, duration time.Duration) {
	fields := map[string]interface{}{
		"event_type":  "http",
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	}
	message := fmt.Sprintf("%s %s %d", method, path, status)
	if status >= 500 {
		logger.Error(ctx, message, nil, fields)
		return
	}
	logger.Info(ctx, message, fields)
}

// LogSecurityEvent records a rejected or suspicious request. Severity is
// "high" (error), "medium" (warn) or anything else (info).
func LogSecurityEvent(ctx context.Context, logger Logger, event string, severity string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event_type"] = "security"
	fields["security_event"] = event
	fields["severity"] = severity

	message := fmt.Sprintf("Security event: %s", event)
	switch severity {
	case "high":
		logger.Error(ctx, message, nil, fields)
	case "medium":
		logger.Warn(ctx, message, fields)
	default:
		logger.Info(ctx, message, fields)
	}
}
