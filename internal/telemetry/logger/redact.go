package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// tokenPrefixes mark values that are partially masked wherever they appear.
var tokenPrefixes = []string{"rgtk_"}

// sensitiveKeys are substrings of field names whose values are replaced.
var sensitiveKeys = []string{"password", "secret", "token", "credential", "auth", "bearer"}

const redactedValue = "***REDACTED***"

// redactField masks a string or Stringer field whose value is sensitive.
// A token prefix wins over a sensitive key and keeps a short hint.
func redactField(f zapcore.Field) zapcore.Field {
	var val string
	switch f.Type {
	case zapcore.StringType:
		val = f.String
	case zapcore.StringerType:
		s, ok := f.Interface.(fmt.Stringer)
		if !ok {
			return f
		}
		val = s.String()
	default:
		return f
	}

	if masked, ok := maskToken(val); ok {
		return zap.String(f.Key, masked)
	}
	if val != "" && sensitiveKey(f.Key) {
		return zap.String(f.Key, redactedValue)
	}
	if f.Type == zapcore.StringerType {
		return zap.String(f.Key, val)
	}
	return f
}

// maskToken keeps the prefix and three characters from each end of the body.
func maskToken(val string) (string, bool) {
	for _, prefix := range tokenPrefixes {
		if !strings.HasPrefix(val, prefix) {
			continue
		}
		body := val[len(prefix):]
		if len(body) <= 6 {
			return prefix + "***", true
		}
		return prefix + body[:3] + "..." + body[len(body)-3:], true
	}
	return "", false
}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
