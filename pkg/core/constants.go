package core

import "errors"

// Errors
var (
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidKind           = errors.New("invalid order kind")
	ErrSymbolNotFound        = errors.New("symbol not found")
	ErrDuplicateOrder        = errors.New("duplicate order id")
	ErrNoOpposingLiquidity   = errors.New("no opposing liquidity")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)
