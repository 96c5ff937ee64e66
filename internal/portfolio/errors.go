package portfolio

import (
	"errors"

	"RainbowMarket/internal/market"
)

// Trade rejections. The ledger is unchanged whenever one of these is returned.
var (
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrUnknownInstrument    = market.ErrUnknownInstrument
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientMargin   = errors.New("insufficient margin")
	ErrInsufficientCash     = errors.New("insufficient cash")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrNoSuchPosition       = errors.New("no such short position")
)
