package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/ledger"
	"github.com/banksampah/banksampah/internal/validators"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type provisionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type statementResponse struct {
	Wallet       ledger.WalletResponse        `json:"wallet"`
	Transactions []ledger.TransactionResponse `json:"transactions"`
}

// Provision creates the wallet for a participant if it does not exist yet.
func (h *Handler) Provision(c *fiber.Ctx) error {
	var req provisionRequest
	if err := validators.ParseBody(c, &req); err != nil {
		return err
	}
	w, created, err := h.service.Provision(c.UserContext(), req.UserID)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(ledger.ToWalletResponse(w))
}

// Statement returns the balance and transaction history of a participant.
func (h *Handler) Statement(c *fiber.Ctx) error {
	st, err := h.service.Statement(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	txs := make([]ledger.TransactionResponse, len(st.Transactions))
	for i, t := range st.Transactions {
		txs[i] = ledger.ToTransactionResponse(t)
	}
	return c.Status(http.StatusOK).JSON(statementResponse{
		Wallet:       ledger.ToWalletResponse(st.Wallet),
		Transactions: txs,
	})
}
