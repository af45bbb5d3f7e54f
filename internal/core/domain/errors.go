package domain

import "errors"

// Error taxonomy shared by every service. The HTTP layer maps these with
// errors.Is, so services must wrap rather than replace them.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrConflict           = errors.New("conflict")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCheckout    = errors.New("invalid checkout")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)
