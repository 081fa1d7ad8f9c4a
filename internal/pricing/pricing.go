package pricing

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/banksampah/banksampah/internal/ledger"
)

// Unit is the weight unit a category price applies to.
type Unit string

const (
	UnitGram     Unit = "gram"
	UnitKilogram Unit = "kilogram"
)

var (
	gramsPerKilogram = decimal.NewFromInt(1000)
	maxAmount        = decimal.NewFromInt(math.MaxInt64)
)

// Category is a kind of recyclable waste with its buying price.
type Category struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Unit  Unit
}

// Repository looks up categories.
type Repository interface {
	Get(ctx context.Context, id string) (Category, error)
	List(ctx context.Context) ([]Category, error)
}

// Quote prices weightGrams of the category in whole currency units, rounding half
// up. Negative weights and prices count as zero. A price that does not fit in
// int64 is ledger.ErrInvalidAmount.
func Quote(c Category, weightGrams decimal.Decimal) (int64, error) {
	weight := nonNegative(weightGrams)
	if c.Unit == UnitKilogram {
		weight = weight.Div(gramsPerKilogram)
	}
	total := weight.Mul(nonNegative(c.Price)).Round(0)
	if total.GreaterThan(maxAmount) {
		return 0, ledger.ErrInvalidAmount
	}
	return total.IntPart(), nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseUnit maps stored unit names, defaulting to grams.
func ParseUnit(raw string) Unit {
	switch raw {
	case "kilogram", "kg":
		return UnitKilogram
	default:
		return UnitGram
	}
}

// DefaultCatalogue is the starter set of categories used when no database is
// configured. It matches the seed migration.
func DefaultCatalogue() []Category {
	return []Category{
		{ID: "plastic-bottle", Name: "Plastic bottle", Price: decimal.NewFromInt(3), Unit: UnitGram},
		{ID: "cardboard", Name: "Cardboard", Price: decimal.NewFromInt(1500), Unit: UnitKilogram},
		{ID: "aluminium-can", Name: "Aluminium can", Price: decimal.NewFromInt(12), Unit: UnitGram},
		{ID: "glass", Name: "Glass", Price: decimal.NewFromInt(500), Unit: UnitKilogram},
	}
}
