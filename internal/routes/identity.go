package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/banksampah/banksampah/internal/identity"
	"github.com/banksampah/banksampah/internal/validators"
	"github.com/banksampah/banksampah/internal/wallet"
)

// RegisterIdentityRoutes wires participant endpoints and provisions a wallet on registration.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler, ids *identity.Service, wallets *wallet.Service, logger zerolog.Logger) {
	r.Get("/users", h.List)

	r.Post("/users", func(c *fiber.Ctx) error {
		var req struct {
			Name string `json:"name" validate:"required,max=120"`
		}
		if err := validators.ParseBody(c, &req); err != nil {
			return err
		}
		user, err := ids.Register(c.UserContext(), req.Name)
		if err != nil {
			return err
		}
		w, _, err := wallets.Provision(c.UserContext(), user.ID)
		if err != nil {
			return err
		}
		logger.Info().
			Str("user_id", user.ID).
			Str("wallet_id", w.ID).
			Msg("participant registered")
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"id":         user.ID,
			"name":       user.Name,
			"created_at": user.CreatedAt.Format(time.RFC3339Nano),
			"wallet_id":  w.ID,
		})
	})
}
