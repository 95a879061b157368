package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCurrency = errors.New("invalid currency")
)
