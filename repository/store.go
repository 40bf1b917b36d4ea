package repository

import (
	"context"
	"errors"

	"github.com/priyalorha/shopping-cart/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a cart lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Store is the durable home of carts and their line items. Mutating
// operations are expected to run inside Transaction so that a cart and its
// items change together or not at all.
type Store interface {
	// Transaction runs fn against a store bound to a single database
	// transaction. An error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(Store) error) error

	CreateCart(ctx context.Context, userID string) (*models.Cart, error)
	FindCart(ctx context.Context, cartID uint) (*models.Cart, error)
	FindOpenCart(ctx context.Context, userID string) (*models.Cart, error)
	FindOpenCartForUpdate(ctx context.Context, userID string) (*models.Cart, error)
	FindCartForUpdate(ctx context.Context, cartID uint) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error

	ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error)
	// ReplaceItems deletes every item of the cart and inserts the given
	// rows in their place.
	ReplaceItems(ctx context.Context, cartID uint, userID string, items []models.CartItem) error
	DeleteItems(ctx context.Context, cartID uint) error
}

// GormStore implements Store on a GORM handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart := models.Cart{
		UserID:   userID,
		Status:   models.CartStatusOpen,
		Total:    decimal.Zero,
		Quantity: 0,
	}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *GormStore) FindCart(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).First(&cart, "cart_id = ?", cartID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) FindOpenCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, models.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) FindOpenCartForUpdate(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, models.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) FindCartForUpdate(ctx context.Context, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "cart_id = ?", cartID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *GormStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	return s.db.WithContext(ctx).Omit("Items").Save(cart).Error
}

func (s *GormStore) ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) ReplaceItems(ctx context.Context, cartID uint, userID string, items []models.CartItem) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("cart_id = ? AND user_id = ?", cartID, userID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

func (s *GormStore) DeleteItems(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
