package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartClosed is emitted once per cart, when billing freezes it.
type CartClosed struct {
	EventID  string          `json:"event_id"`
	UserID   string          `json:"user_id"`
	CartID   uint            `json:"cart_id"`
	BillRef  string          `json:"bill_ref"`
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
	ClosedAt time.Time       `json:"closed_at"`
}
