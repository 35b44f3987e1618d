package gormdb

import (
	"context"
	"fmt"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	gormLogger "gorm.io/gorm/logger"
)

const (
	defaultMaxLoggedParamLength = 256
	defaultSlowThreshold        = 200 * time.Millisecond
)

// zapWriter adapts logSDK.Logger to the gorm logger writer.
type zapWriter struct {
	logger logSDK.Logger
}

// Printf forwards formatted gorm output to the service logger.
func (w zapWriter) Printf(format string, args ...any) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

// truncatingParamsLogger filters oversized SQL parameters before GORM prints SQL logs.
type truncatingParamsLogger struct {
	gormLogger.Interface
	maxLoggedParamLength int
}

// ParamsFilter truncates oversized parameter values to keep SQL logs concise.
func (l *truncatingParamsLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if len(params) == 0 {
		return sql, params
	}

	return sql, sanitizeLoggedSQLParams(l.maxLoggedParamLength, params...)
}

// NewLogger builds the gorm logger used by Open.
// debug enables statement logging, otherwise only slow queries and errors are printed.
func NewLogger(logger logSDK.Logger, debug bool) gormLogger.Interface {
	level := gormLogger.Warn
	if debug {
		level = gormLogger.Info
	}

	return newTruncatingParamsLogger(gormLogger.New(zapWriter{logger: logger}, gormLogger.Config{
		SlowThreshold:             defaultSlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	}))
}

// newTruncatingParamsLogger wraps a GORM logger with parameter truncation.
func newTruncatingParamsLogger(base gormLogger.Interface) gormLogger.Interface {
	return &truncatingParamsLogger{
		Interface:            base,
		maxLoggedParamLength: defaultMaxLoggedParamLength,
	}
}

func sanitizeLoggedSQLParams(maxLoggedParamLength int, params ...any) []any {
	filtered := make([]any, len(params))
	for idx, param := range params {
		filtered[idx] = sanitizeLoggedSQLParam(param, maxLoggedParamLength)
	}

	return filtered
}

// sanitizeLoggedSQLParam converts oversized parameter values into compact log-safe summaries.
func sanitizeLoggedSQLParam(param any, maxLoggedParamLength int) any {
	switch value := param.(type) {
	case string:
		return truncateStringForLog(value, maxLoggedParamLength)
	case []byte:
		if len(value) > maxLoggedParamLength {
			return fmt.Sprintf("<bytes:len=%d,truncated>", len(value))
		}
		return value
	default:
		return param
	}
}

// truncateStringForLog shortens a string and appends metadata about the original length.
func truncateStringForLog(raw string, maxLoggedParamLength int) string {
	if maxLoggedParamLength <= 0 || len(raw) <= maxLoggedParamLength {
		return raw
	}
	return fmt.Sprintf("%s...<truncated:len=%d>", raw[:maxLoggedParamLength], len(raw))
}
