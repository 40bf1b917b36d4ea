package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Breakdown is one priced line of the bill: the effective per-unit price
// after offer averaging, and the amount actually charged.
type Breakdown struct {
	Name      string          `json:"fruit"`
	Offer     string          `json:"offer"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Charged   decimal.Decimal `json:"charged"`
	AvgPrice  decimal.Decimal `json:"avgPrice"`
}

// Bill is the pricing service's answer for one full cart.
type Bill struct {
	Fruits        []Breakdown     `json:"fruits"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Client prices a cart. Input is the cart's contents flattened to individual
// lower-cased unit names; the service recomputes every line's offer bucket
// from scratch, so the whole cart is sent on every call.
type Client interface {
	Price(ctx context.Context, items []string) (*Bill, error)
}
