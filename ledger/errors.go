package ledger

import "errors"

var (
	// ErrNotFound is returned when the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrNonPositiveAmount is returned for payments with amount <= 0.
	ErrNonPositiveAmount = errors.New("payment amount must be positive")

	// ErrInvalidMethod is returned for a payment method outside the enum.
	ErrInvalidMethod = errors.New("invalid payment method")

	// ErrInsufficientStock is returned when a quantity adjustment would take
	// an item's stock below zero. The check runs before any store call.
	ErrInsufficientStock = errors.New("insufficient stock for adjustment")

	// ErrSessionOpen is returned when a cash session is started while another
	// one is still open.
	ErrSessionOpen = errors.New("a cash session is already open")

	// ErrNoOpenSession is returned by operations that need an open cash
	// session when there is none.
	ErrNoOpenSession = errors.New("no open cash session")
)
