package pricing

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the category catalogue.
type Handler struct {
	repo Repository
}

// NewHandler constructs a catalogue handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Unit  Unit   `json:"unit"`
}

// List returns every category.
func (h *Handler) List(c *fiber.Ctx) error {
	categories, err := h.repo.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]categoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = categoryResponse{ID: cat.ID, Name: cat.Name, Price: cat.Price.String(), Unit: cat.Unit}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"items": out})
}
