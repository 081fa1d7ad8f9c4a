package ledger

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the admin resolution endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a ledger handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// ApproveSubmission credits the submitter and marks the submission approved.
func (h *Handler) ApproveSubmission(c *fiber.Ctx) error {
	return h.resolve(c, h.engine.ApproveSubmission)
}

// RejectSubmission marks the submission rejected.
func (h *Handler) RejectSubmission(c *fiber.Ctx) error {
	return h.resolve(c, h.engine.RejectSubmission)
}

// ApproveWithdrawal debits the owner and marks the withdrawal approved.
func (h *Handler) ApproveWithdrawal(c *fiber.Ctx) error {
	return h.resolve(c, h.engine.ApproveWithdrawal)
}

// RejectWithdrawal marks the withdrawal rejected.
func (h *Handler) RejectWithdrawal(c *fiber.Ctx) error {
	return h.resolve(c, h.engine.RejectWithdrawal)
}

func (h *Handler) resolve(c *fiber.Ctx, op func(context.Context, string) (Outcome, error)) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(http.StatusBadRequest, "request id is required")
	}
	out, err := op(c.UserContext(), id)
	if err != nil {
		// An auto-rejected withdrawal still reports the committed request.
		if errors.Is(err, ErrInsufficientBalance) && out.Request.Status == StatusRejected {
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   err.Error(),
				"code":    "insufficient_balance",
				"request": ToRequestResponse(out.Request),
			})
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(toOutcomeResponse(out))
}
