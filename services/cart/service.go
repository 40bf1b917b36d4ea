package cartService

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/priyalorha/shopping-cart/events"
	"github.com/priyalorha/shopping-cart/models"
	"github.com/priyalorha/shopping-cart/pricing"
	"github.com/priyalorha/shopping-cart/repository"
	"github.com/shopspring/decimal"
)

// EventPublisher receives cart lifecycle notifications. Publication is best
// effort and never fails the originating request.
type EventPublisher interface {
	PublishCartClosed(ctx context.Context, event events.CartClosed) error
}

// Service owns the cart lifecycle (OPEN -> CLOSED, one OPEN cart per user)
// and the add-item transaction: flatten the cart, reprice it as a whole
// through the pricing service, and swap the stored items for the repriced
// result inside one database transaction.
type Service struct {
	store  repository.Store
	oracle pricing.Client
	events EventPublisher
}

func NewService(store repository.Store, oracle pricing.Client, publisher EventPublisher) *Service {
	return &Service{store: store, oracle: oracle, events: publisher}
}

type AddItemResult struct {
	Cart  models.Cart       `json:"cart"`
	Items []models.CartItem `json:"items"`
}

type BillResult struct {
	Cart          models.Cart       `json:"cart"`
	Items         []models.CartItem `json:"items"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	TotalQuantity int               `json:"total_quantity"`
}

// OpenCart creates a fresh OPEN cart for the user. A user may only ever hold
// one OPEN cart.
func (s *Service) OpenCart(ctx context.Context, userID string) (*models.Cart, error) {
	var created *models.Cart
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.FindOpenCartForUpdate(ctx, userID)
		if err == nil {
			return ErrCartConflict
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		created, err = tx.CreateCart(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetOpenCart returns the user's OPEN cart with its items.
func (s *Service) GetOpenCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.FindOpenCart(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// GetItems returns the stored line items of the user's cart.
func (s *Service) GetItems(ctx context.Context, userID string, cartID uint) ([]models.CartItem, error) {
	cart, err := s.store.FindCart(ctx, cartID)
	if err != nil {
		return nil, ownedOpenErr(err)
	}
	if cart.UserID != userID || cart.Status != models.CartStatusOpen {
		return nil, ErrCartNotFound
	}
	return s.store.ListItems(ctx, cartID)
}

// AddItem appends one unit of itemName to the cart and reprices the whole
// cart through the pricing service. The stored items are replaced wholesale
// by the repriced bill: adding a unit can move already-stored units into a
// different offer bucket, so incremental updates would drift. Everything runs
// in one transaction; a pricing failure leaves the cart untouched.
func (s *Service) AddItem(ctx context.Context, userID string, cartID uint, itemName string) (*AddItemResult, error) {
	name := models.NormalizeItemName(itemName)
	if !models.ValidItemName(name) {
		return nil, fmt.Errorf("%w: %q is not a purchasable item", ErrInvalidItem, itemName)
	}

	var result *AddItemResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := requireOwnedOpenCart(ctx, tx, userID, cartID)
		if err != nil {
			return err
		}

		stored, err := tx.ListItems(ctx, cart.CartID)
		if err != nil {
			return err
		}
		units := append(models.FlattenItems(stored), name)

		bill, err := s.oracle.Price(ctx, units)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
		}

		rows, total, quantity, err := reconcileBill(bill, units, cart)
		if err != nil {
			return err
		}

		// The delete happens only here, after a validated bill, so an
		// unreachable pricing service can never empty the cart.
		if err := tx.ReplaceItems(ctx, cart.CartID, userID, rows); err != nil {
			return err
		}

		cart.Total = total
		cart.Quantity = quantity
		if err := tx.SaveCart(ctx, cart); err != nil {
			return err
		}

		result = &AddItemResult{Cart: *cart, Items: rows}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Bill freezes the cart: totals are summed from the last committed line
// items (no pricing call) and the cart transitions to CLOSED for good.
func (s *Service) Bill(ctx context.Context, userID string) (*BillResult, error) {
	var result *BillResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.FindOpenCartForUpdate(ctx, userID)
		if err != nil {
			return ownedOpenErr(err)
		}

		items, err := tx.ListItems(ctx, cart.CartID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		quantity := 0
		for _, item := range items {
			total = total.Add(item.Charged)
			quantity += item.Quantity
		}

		if err := CloseCart(cart, total, quantity); err != nil {
			return err
		}
		if err := tx.SaveCart(ctx, cart); err != nil {
			return err
		}

		result = &BillResult{
			Cart:          *cart,
			Items:         items,
			GrandTotal:    total,
			TotalQuantity: quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishClosed(ctx, result)
	return result, nil
}

// ClearCart removes every item from the user's OPEN cart and zeroes its
// aggregates. The cart stays OPEN.
func (s *Service) ClearCart(ctx context.Context, userID string, cartID uint) (*models.Cart, error) {
	var cleared *models.Cart
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := requireOwnedOpenCart(ctx, tx, userID, cartID)
		if err != nil {
			return err
		}
		if err := tx.DeleteItems(ctx, cart.CartID); err != nil {
			return err
		}
		cart.Total = decimal.Zero
		cart.Quantity = 0
		if err := tx.SaveCart(ctx, cart); err != nil {
			return err
		}
		cleared = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}

// CloseCart transitions a cart OPEN -> CLOSED, stamping the frozen totals and
// a bill reference. Closing an already CLOSED cart fails.
func CloseCart(cart *models.Cart, total decimal.Decimal, quantity int) error {
	if cart.Status == models.CartStatusClosed {
		return ErrCartClosed
	}
	cart.Status = models.CartStatusClosed
	cart.Total = total
	cart.Quantity = quantity
	cart.BillRef = generateBillRef()
	return nil
}

// requireOwnedOpenCart locks the cart row and checks existence, ownership and
// openness. All three failures collapse into ErrCartNotFound.
func requireOwnedOpenCart(ctx context.Context, tx repository.Store, userID string, cartID uint) (*models.Cart, error) {
	cart, err := tx.FindCartForUpdate(ctx, cartID)
	if err != nil {
		return nil, ownedOpenErr(err)
	}
	if cart.UserID != userID || cart.Status != models.CartStatusOpen {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// reconcileBill validates the pricing service's answer against the units that
// were sent and turns it into fresh item rows plus cart aggregates. The bill
// must mirror the sent multiset exactly: one line per distinct name, matching
// per-name quantities, sane prices.
func reconcileBill(bill *pricing.Bill, sentUnits []string, cart *models.Cart) ([]models.CartItem, decimal.Decimal, int, error) {
	sent := models.AggregateUnits(sentUnits)

	if bill == nil || len(bill.Fruits) != len(sent) {
		return nil, decimal.Zero, 0, fmt.Errorf("%w: expected %d lines", ErrPricingInvalid, len(sent))
	}

	seen := make(map[string]bool, len(sent))
	rows := make([]models.CartItem, 0, len(bill.Fruits))
	total := decimal.Zero
	quantity := 0

	for _, line := range bill.Fruits {
		name := models.NormalizeItemName(line.Name)
		want, ok := sent[name]
		if !ok || seen[name] {
			return nil, decimal.Zero, 0, fmt.Errorf("%w: unexpected line %q", ErrPricingInvalid, line.Name)
		}
		if line.Quantity != want {
			return nil, decimal.Zero, 0, fmt.Errorf("%w: %q quantity %d, sent %d", ErrPricingInvalid, name, line.Quantity, want)
		}
		if line.AvgPrice.IsNegative() || line.UnitPrice.LessThan(line.AvgPrice) || line.Charged.IsNegative() {
			return nil, decimal.Zero, 0, fmt.Errorf("%w: %q has inconsistent prices", ErrPricingInvalid, name)
		}
		seen[name] = true

		rows = append(rows, models.CartItem{
			UserID:    cart.UserID,
			CartID:    cart.CartID,
			Name:      name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			AvgPrice:  line.AvgPrice,
			Charged:   line.Charged,
			Discount:  models.ItemDiscount(line.UnitPrice, line.AvgPrice, line.Quantity),
			OfferType: models.OfferTypeFromString(line.Offer),
		})
		total = total.Add(line.Charged)
		quantity += line.Quantity
	}

	return rows, total, quantity, nil
}

func (s *Service) publishClosed(ctx context.Context, result *BillResult) {
	if s.events == nil {
		return
	}
	event := events.CartClosed{
		EventID:  uuid.NewString(),
		UserID:   result.Cart.UserID,
		CartID:   result.Cart.CartID,
		BillRef:  result.Cart.BillRef,
		Total:    result.GrandTotal,
		Quantity: result.TotalQuantity,
		ClosedAt: time.Now().UTC(),
	}
	if err := s.events.PublishCartClosed(ctx, event); err != nil {
		log.Printf("failed to publish cart closed event for cart %d: %v", result.Cart.CartID, err)
	}
}

func ownedOpenErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCartNotFound
	}
	return err
}

// Bill references look like 20250908130500-<uuid>.
func generateBillRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
