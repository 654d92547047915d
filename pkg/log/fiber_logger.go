package log

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/savsgio/gotils/strings"
)

var (
	httpRequestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "datumshift",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The latency of the HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"api", "method", "code"})

	httpRequestsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datumshift",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of the HTTP requests.",
	}, []string{"api", "route", "method", "code"})
)

type LoggerConfig struct {
	Name string
	// Level is used for successful requests; 4xx are logged at Info, 5xx at Warn.
	Level     slog.Level
	DoMetrics bool
}

func NewFiberLogger(conf *LoggerConfig) fiber.Handler {
	if conf == nil {
		conf = &LoggerConfig{Name: "http", Level: slog.LevelInfo}
	}

	logger := slog.Default().With(slog.String("logger", conf.Name))

	return func(c *fiber.Ctx) error {
		start := time.Now()
		// fiber reuses the method buffer after the handler returns
		method := strings.Copy(c.Method())
		chainErr := c.Next()
		wt := time.Since(start)

		if chainErr != nil {
			// let the error handler set the status before it is logged
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()

		if conf.DoMetrics {
			metrics(conf.Name, method, c.Route().Path, status, wt)
		}

		msg := fmt.Sprintf("%d %s %s %s", status, method, c.Path(), c.Request().URI().QueryArgs().String())
		l := logger

		if chainErr != nil {
			l = l.With(slog.Any("error", chainErr))
		}

		attrs := []any{
			slog.String("client", c.IP()+":"+c.Port()),
			slog.Int("status", status),
			slog.Int64("ms", wt.Milliseconds()),
		}

		l.Log(context.Background(), levelFor(conf.Level, status), msg, attrs...)

		return nil
	}
}

func levelFor(base slog.Level, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelWarn
	case status >= 400:
		return max(base, slog.LevelInfo)
	default:
		return base
	}
}

func metrics(api, method, route string, status int, t time.Duration) {
	code := strconv.Itoa(status)

	httpRequestsDuration.With(prometheus.Labels{
		"api":    api,
		"method": method,
		"code":   code,
	}).Observe(t.Seconds())

	httpRequestsCount.With(prometheus.Labels{
		"api":    api,
		"route":  route,
		"method": method,
		"code":   code,
	}).Inc()
}
