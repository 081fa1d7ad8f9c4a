package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/ledger"
)

// RegisterLedgerRoutes wires the admin approve/reject endpoints.
func RegisterLedgerRoutes(r fiber.Router, h *ledger.Handler, idem fiber.Handler) {
	r.Post("/submissions/:id/approve", idem, h.ApproveSubmission)
	r.Post("/submissions/:id/reject", idem, h.RejectSubmission)
	r.Post("/withdrawals/:id/approve", idem, h.ApproveWithdrawal)
	r.Post("/withdrawals/:id/reject", idem, h.RejectWithdrawal)
}
