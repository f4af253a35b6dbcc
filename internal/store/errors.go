package store

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrMedicationNotFound = errors.New("medication not found")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientStock  = errors.New("not enough stock available")
)
