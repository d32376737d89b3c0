package repo

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("does not belong to user")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrOutOfStock     = errors.New("product not available in requested quantity")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotCancellable = errors.New("order cannot be cancelled in its current status")
)
