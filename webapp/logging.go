package webapp

import (
	"os"
	"strings"
	"time"

	"github.com/gookit/goutil/envutil"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "msg"
	zerolog.TimestampFieldName = "ts"
	zerolog.LevelFieldName = "level"
}

// newLogger builds the logger for an app. The minimum level comes from the
// LOG_LEVEL environment variable and defaults to "info".
func newLogger(appName string) zerolog.Logger {
	zl := zerolog.New(os.Stdout).With().Timestamp().Str("app", appName).Logger()
	return zl.Level(minLogLevel())
}

func minLogLevel() zerolog.Level {
	switch strings.ToLower(envutil.Getenv("LOG_LEVEL", "info")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
