package cartService

import "errors"

// The error taxonomy the gateway maps onto HTTP statuses. Callers test with
// errors.Is; messages may carry wrapped detail.
var (
	// ErrInvalidItem: the requested item is not a purchasable kind.
	ErrInvalidItem = errors.New("invalid item")

	// ErrCartNotFound covers a missing cart, a cart owned by another user
	// and a cart that is no longer OPEN. The three cases are deliberately
	// indistinguishable so cart ids cannot be probed.
	ErrCartNotFound = errors.New("active cart not found")

	// ErrCartConflict: the user already has an OPEN cart.
	ErrCartConflict = errors.New("user already has an active cart")

	// ErrCartClosed: a state transition was attempted on a CLOSED cart.
	ErrCartClosed = errors.New("cart is already closed")

	// ErrPricingUnavailable: the pricing service could not be reached or
	// timed out.
	ErrPricingUnavailable = errors.New("pricing service unavailable")

	// ErrPricingInvalid: the pricing service answered, but the bill does
	// not reconcile with the units that were sent.
	ErrPricingInvalid = errors.New("pricing service returned an invalid bill")
)
