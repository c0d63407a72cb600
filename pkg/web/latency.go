package web

import (
	"math/rand/v2"
	"time"

	"github.com/gofiber/fiber/v3"
)

// LatencyConfig bounds the simulated network delay added to every request.
type LatencyConfig struct {
	Min time.Duration
	Max time.Duration
}

// NewLatency returns a middleware that sleeps for a uniformly random
// duration between Min and Max before handling the request. With a
// non-positive Max the middleware is a no-op, which tests rely on.
func NewLatency(config LatencyConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		if config.Max > 0 {
			delay := config.Min
			if spread := config.Max - config.Min; spread > 0 {
				delay += time.Duration(rand.Int64N(int64(spread)))
			}

			time.Sleep(delay)
		}

		return c.Next()
	}
}
