package usecase

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("resource not found")
	ErrInsufficientData       = errors.New("insufficient historical data")
	ErrUnclassifiableMarket   = errors.New("market cannot be classified")
	ErrIncompleteComboBinding = errors.New("combo leg missing fixture binding")
	ErrDependencyUnavailable  = errors.New("dependency unavailable")
)
