// Package logger builds the process-wide zap.Logger and its gin
// request-logging middleware, identical in shape to the teacher's
// pkg/logger but reading internal/config's Config.
package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/sched-engine/internal/config"
	"github.com/noah-isme/sched-engine/pkg/middleware/requestid"
)

// New builds a zap.Logger configured from cfg: development/production base
// config, JSON or console encoding, and the configured level.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "console":
		zapCfg.Encoding = "console"
	default:
		zapCfg.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}

// GinMiddleware logs one structured line per request: method, path,
// status, latency, client IP, and the request ID when present.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		reqID := requestid.Value(c)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		if reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		l.Info("http_request", fields...)
	}
}

// SolverFields builds structured log fields describing one generate call's
// result (spec.md §6's GenerateScheduleResult shape). The engine itself
// does not call it or log generate results.
func SolverFields(scheduleID string, iterations int, score float64, durationMs int64, feasible bool) []zap.Field {
	return []zap.Field{
		zap.String("schedule_id", scheduleID),
		zap.Int("iterations", iterations),
		zap.Float64("score", score),
		zap.Int64("duration_ms", durationMs),
		zap.Bool("feasible", feasible),
	}
}
