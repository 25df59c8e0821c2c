package logger

import (
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"password": {},
	"secret":   {},
	"token":    {},
	"dsn":      {},
}

var (
	mu   sync.RWMutex
	base = newZapLogger("info")
)

// Init rebuilds the package logger at the configured level. Safe to call
// once from main; the default logger works without it.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	base = newZapLogger(level)
}

func Info(message string, fields Fields) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Info(message, zapFields(fields)...)
}

func Error(message string, err error, fields Fields) {
	merged := Fields{}
	for k, v := range fields {
		merged[k] = v
	}
	if err != nil {
		merged["error"] = err.Error()
	}

	mu.RLock()
	l := base
	mu.RUnlock()
	l.Error(message, zapFields(merged)...)
}

// SanitizePayload renders a payload as plain JSON values with sensitive
// keys masked, suitable for logging request-like structures.
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func newZapLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	l, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func zapFields(fields Fields) []zap.Field {
	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return nil
	}

	out := make([]zap.Field, 0, len(sanitized))
	for k, v := range sanitized {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
