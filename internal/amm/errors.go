package amm

import (
	"errors"

	"liquidityPool/internal/fixedpoint"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrDecimalsNotEqual = errors.New("decimals of tokens are not equal")
	ErrZeroAmount       = errors.New("deposit zero amount token")
	ErrInvalidLiquidity = errors.New("invalid liquidity")
	// ErrMathOverflow is the fixed-point overflow, so errors.Is matches either name.
	ErrMathOverflow = fixedpoint.ErrOverflow

	ErrInvalidPair        = errors.New("pool assets must be distinct and ordered token0 < token1")
	ErrPoolExists         = errors.New("pool already exists")
	ErrPoolNotFound       = errors.New("pool not found")
	ErrAssetNotInPool     = errors.New("input asset is not part of the pool")
	ErrAdminInitialized   = errors.New("admin already initialized")
	ErrAdminUninitialized = errors.New("admin not initialized")
)
