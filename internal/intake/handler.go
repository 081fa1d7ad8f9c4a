package intake

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/validators"
)

// Handler exposes the participant-facing request endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an intake handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateSubmission records a waste deposit awaiting approval.
func (h *Handler) CreateSubmission(c *fiber.Ctx) error {
	var req SubmissionRequest
	if err := validators.ParseBody(c, &req); err != nil {
		return err
	}
	created, err := h.service.CreateSubmission(c.UserContext(), SubmissionInput{
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		WeightGrams: Quantity(req.WeightInGrams),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ledger.ToRequestResponse(created))
}

// CreateWithdrawal records a withdrawal awaiting approval.
func (h *Handler) CreateWithdrawal(c *fiber.Ctx) error {
	var req WithdrawalRequest
	if err := validators.ParseBody(c, &req); err != nil {
		return err
	}
	amount, err := Money(req.Amount)
	if err != nil {
		return err
	}
	created, err := h.service.CreateWithdrawal(c.UserContext(), WithdrawalInput{
		UserID: req.UserID,
		Amount: amount,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ledger.ToRequestResponse(created))
}
