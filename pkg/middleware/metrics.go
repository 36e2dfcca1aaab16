package middleware

import (
	"strconv"
	"time"

	"github.com/VigilNet/FedWatch/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		prometheus.HTTPRequestTotal.WithLabelValues(
			c.Method(), c.Route().Path, strconv.Itoa(status),
		).Inc()
		prometheus.HTTPRequestLatency.WithLabelValues(c.Route().Path).
			Observe(float64(time.Since(started).Milliseconds()))

		return err
	}
}
