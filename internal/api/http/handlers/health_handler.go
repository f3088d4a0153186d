package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gtix/helpdesk/internal/persistence"
)

const probeTimeout = 2 * time.Second

// HealthHandler answers liveness and readiness probes. Readiness degrades
// when postgres is unreachable; redis is reported but does not fail the
// probe since only logout revocation depends on it.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, postgres: postgres, redis: redis}
}

// Live reports process liveness without touching dependencies.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	}})
}

// Ready probes the backing stores.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), probeTimeout)
	defer cancel()

	pgErr := h.postgres.Ping(ctx)
	deps := fiber.Map{
		"postgres": h.check(pgErr),
		"redis":    h.check(h.redis.Ping(ctx)),
	}

	if pgErr != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "database unavailable",
				"details": deps,
			},
		})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":       "ready",
		"service":      h.serviceName,
		"version":      h.version,
		"dependencies": deps,
	}})
}

func (h *HealthHandler) check(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
