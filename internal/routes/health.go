package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const probeTimeout = 2 * time.Second

type probe struct {
	name     string
	fallback string
	check    func(context.Context) error
}

func healthProbes(d Deps) []probe {
	probes := []probe{
		{name: "postgres", fallback: "memory"},
		{name: "redis", fallback: "disabled"},
	}
	if d.DB != nil {
		probes[0].check = d.DB.Ping
	}
	if d.Cache != nil {
		probes[1].check = func(ctx context.Context) error { return d.Cache.Ping(ctx).Err() }
	}
	return probes
}

// RegisterHealthRoutes reports backend reachability. A missing backend in
// development reports its fallback mode and does not fail the check.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	probes := healthProbes(d)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
		defer cancel()

		code := http.StatusOK
		report := fiber.Map{}
		for _, p := range probes {
			if p.check == nil {
				report[p.name] = p.fallback
				continue
			}
			if err := p.check(ctx); err != nil {
				report[p.name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			report[p.name] = "ok"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    report,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
