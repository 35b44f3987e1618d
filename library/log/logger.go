// Package log provides the shared logger of the twitter-clone service.
package log

import (
	"context"

	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
)

// Logger is the root logger, services derive named loggers from it.
var Logger logSDK.Logger

func init() {
	var err error
	if Logger, err = logSDK.NewConsoleWithName("twitter", logSDK.LevelInfo); err != nil {
		logSDK.Shared.Panic("new logger", zap.Error(err))
	}
}

// FromContext returns the request logger that the gin logger middleware
// put into ctx, or Logger when there is none.
func FromContext(ctx context.Context) logSDK.Logger {
	if ctx != nil {
		if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
			return ctxLogger
		}
	}

	return Logger
}
