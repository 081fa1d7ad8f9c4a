package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/intake"
)

// RegisterIntakeRoutes wires participant request creation.
func RegisterIntakeRoutes(r fiber.Router, h *intake.Handler, idem, submissionLimit, withdrawalLimit fiber.Handler) {
	r.Post("/submissions", submissionLimit, idem, h.CreateSubmission)
	r.Post("/withdrawals", withdrawalLimit, idem, h.CreateWithdrawal)
}
