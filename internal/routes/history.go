package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/history"
)

// RegisterPendingRoutes exposes pending requests, optionally filtered by user_id.
func RegisterPendingRoutes(r fiber.Router, h *history.Handler) {
	r.Get("/submissions/pending", h.PendingSubmissions)
	r.Get("/withdrawals/pending", h.PendingWithdrawals)
}

// RegisterHistoryRoutes exposes resolved request listings to admins.
func RegisterHistoryRoutes(r fiber.Router, h *history.Handler) {
	r.Get("/submissions/history", h.SubmissionHistory)
	r.Get("/withdrawals/history", h.WithdrawalHistory)
	r.Get("/submissions/pending", h.PendingSubmissions)
	r.Get("/withdrawals/pending", h.PendingWithdrawals)
}
