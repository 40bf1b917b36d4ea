package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusOpen   CartStatus = "OPEN"
	CartStatusClosed CartStatus = "CLOSED"
)

type OfferType string

const (
	OfferNone        OfferType = "NONE"
	OfferBOGO        OfferType = "BOGO"
	OfferThreeForTwo OfferType = "THREE_FOR_TWO"
)

// OfferTypeFromString normalizes the offer label supplied by the pricing
// service. Unknown or empty labels fall back to NONE.
func OfferTypeFromString(s string) OfferType {
	switch s {
	case "BOGO", "bogo":
		return OfferBOGO
	case "THREE_FOR_TWO", "ThreeForTwo", "three_for_two", "3FOR2":
		return OfferThreeForTwo
	default:
		return OfferNone
	}
}

type Cart struct {
	CartID    uint            `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"index;not null" json:"user_id"`
	Status    CartStatus      `gorm:"type:VARCHAR(10);default:'OPEN';not null" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	BillRef   string          `json:"bill_ref,omitempty"`
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"uniqueIndex:uniq_cart_item;not null" json:"user_id"`
	CartID    uint            `gorm:"uniqueIndex:uniq_cart_item;index;not null" json:"cart_id"`
	Name      string          `gorm:"uniqueIndex:uniq_cart_item;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	AvgPrice  decimal.Decimal `gorm:"type:decimal(10,2)" json:"avg_price"`
	Charged   decimal.Decimal `gorm:"type:decimal(10,2)" json:"charged"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount"`
	OfferType OfferType       `gorm:"type:VARCHAR(20);default:'NONE'" json:"offer_type"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemDiscount derives the discount for a priced line. The pricing service's
// averaged values are the ground truth; the result is clamped at zero.
func ItemDiscount(unitPrice, avgPrice decimal.Decimal, quantity int) decimal.Decimal {
	qty := decimal.NewFromInt(int64(quantity))
	d := unitPrice.Mul(qty).Sub(avgPrice.Mul(qty))
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FlattenItems expands every (name, quantity) line into quantity individual
// unit entries, the shape the pricing service consumes.
func FlattenItems(items []CartItem) []string {
	var units []string
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			units = append(units, item.Name)
		}
	}
	return units
}

// AggregateUnits is the inverse of FlattenItems: per-name unit counts.
func AggregateUnits(units []string) map[string]int {
	counts := make(map[string]int, len(units))
	for _, name := range units {
		counts[name]++
	}
	return counts
}
