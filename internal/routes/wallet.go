package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/banksampah/banksampah/internal/pricing"
	"github.com/banksampah/banksampah/internal/wallet"
)

// RegisterWalletRoutes wires the wallet statement endpoint.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallets/:userId", h.Statement)
}

// RegisterPricingRoutes wires the category catalogue.
func RegisterPricingRoutes(r fiber.Router, h *pricing.Handler) {
	r.Get("/categories", h.List)
}
