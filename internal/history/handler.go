package history

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/validators"
)

const defaultPageSize = 20

// Handler exposes history and pending listings.
type Handler struct {
	service *Service
}

// NewHandler constructs a history handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmissionHistory lists resolved submissions.
func (h *Handler) SubmissionHistory(c *fiber.Ctx) error {
	return h.history(c, ledger.KindSubmission)
}

// WithdrawalHistory lists resolved withdrawals.
func (h *Handler) WithdrawalHistory(c *fiber.Ctx) error {
	return h.history(c, ledger.KindWithdrawal)
}

// PendingSubmissions lists submissions awaiting a decision.
func (h *Handler) PendingSubmissions(c *fiber.Ctx) error {
	return h.pending(c, ledger.KindSubmission)
}

// PendingWithdrawals lists withdrawals awaiting a decision.
func (h *Handler) PendingWithdrawals(c *fiber.Ctx) error {
	return h.pending(c, ledger.KindWithdrawal)
}

func (h *Handler) history(c *fiber.Ctx, kind ledger.Kind) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.History(c.UserContext(), kind, f)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(ledger.ToPageResponse(page))
}

func (h *Handler) pending(c *fiber.Ctx, kind ledger.Kind) error {
	page, err := h.service.Pending(c.UserContext(), kind, c.Query("user_id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(ledger.ToPageResponse(page))
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	var f Filter
	for _, raw := range validators.QueryList(c, "status") {
		f.Statuses = append(f.Statuses, ledger.Status(raw))
	}
	f.NamePrefix = c.Query("name")

	var err error
	if f.ProcessedFrom, err = validators.QueryTime(c, "from", false); err != nil {
		return Filter{}, err
	}
	if f.ProcessedTo, err = validators.QueryTime(c, "to", true); err != nil {
		return Filter{}, err
	}
	if f.Page, err = validators.QueryInt(c, "page", 1, 1, 1_000_000); err != nil {
		return Filter{}, err
	}
	if f.PageSize, err = validators.QueryInt(c, "page_size", defaultPageSize, 0, MaxPageSize); err != nil {
		return Filter{}, err
	}
	return f, nil
}
