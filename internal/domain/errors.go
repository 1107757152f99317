package domain

import "errors"

var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidPeriod = errors.New("invalid period")
)
