package amm

import (
	"fmt"
	"math"
	"strings"

	"liquidityPool/internal/fixedpoint"
)

// RatioPolicy selects how a deposit into a non-empty pool is rebalanced.
type RatioPolicy string

const (
	// RatioLegacy scales by the product of the reserves:
	// amount0 = amount1 * (r0*r1) when r0 > r1, else amount1 = amount0 / (r0*r1).
	RatioLegacy RatioPolicy = "legacy"
	// RatioProportional keeps the deposit at the reserve ratio:
	// amount0 = amount1 * r0/r1 when r0 > r1, else amount1 = amount0 * r1/r0.
	RatioProportional RatioPolicy = "proportional"
)

// ParseRatioPolicy maps a config value to a RatioPolicy. Empty means legacy.
func ParseRatioPolicy(value string) (RatioPolicy, error) {
	switch RatioPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", RatioLegacy:
		return RatioLegacy, nil
	case RatioProportional:
		return RatioProportional, nil
	default:
		return "", fmt.Errorf("unknown ratio policy %q", value)
	}
}

// DepositQuote is the outcome of a deposit computation.
type DepositQuote struct {
	Amount0 uint64 `json:"amount0"`
	Amount1 uint64 `json:"amount1"`
	Claim   uint64 `json:"claim"`
	Initial bool   `json:"initial"`
}

// WithdrawQuote holds the pro-rata amounts released for a claim.
type WithdrawQuote struct {
	Amount0 uint64 `json:"amount0"`
	Amount1 uint64 `json:"amount1"`
}

// ComputeDeposit returns the amounts to pull and the claim tokens to issue for
// a deposit of (requested0, requested1) into a pool holding (reserve0, reserve1).
func ComputeDeposit(reserve0, reserve1, requested0, requested1 uint64, policy RatioPolicy) (DepositQuote, error) {
	if requested0 == 0 || requested1 == 0 {
		return DepositQuote{}, ErrZeroAmount
	}

	quote := DepositQuote{Amount0: requested0, Amount1: requested1}
	if reserve0 == 0 && reserve1 == 0 {
		quote.Initial = true
	} else {
		var err error
		quote.Amount0, quote.Amount1, err = AdjustDeposit(reserve0, reserve1, requested0, requested1, policy)
		if err != nil {
			return DepositQuote{}, err
		}
	}

	claim, err := claimsFor(quote.Amount0, quote.Amount1)
	if err != nil {
		return DepositQuote{}, err
	}
	quote.Claim = claim
	return quote, nil
}

// AdjustDeposit recomputes one side of a deposit from the other using the
// current reserves. The caller's ratio is never trusted.
func AdjustDeposit(reserve0, reserve1, requested0, requested1 uint64, policy RatioPolicy) (uint64, uint64, error) {
	switch policy {
	case RatioProportional:
		if reserve0 == 0 || reserve1 == 0 {
			return 0, 0, ErrInvalidLiquidity
		}
		if reserve0 > reserve1 {
			amount0, err := mulDivFloor(requested1, reserve0, reserve1)
			return amount0, requested1, err
		}
		amount1, err := mulDivFloor(requested0, reserve1, reserve0)
		return requested0, amount1, err
	case RatioLegacy, "":
		ratio, err := fixedpoint.FromUint64(reserve0).Mul(fixedpoint.FromUint64(reserve1))
		if err != nil {
			return 0, 0, err
		}
		if reserve0 > reserve1 {
			scaled, err := fixedpoint.FromUint64(requested1).Mul(ratio)
			if err != nil {
				return 0, 0, err
			}
			amount0, err := scaled.Floor().ToUint64()
			return amount0, requested1, err
		}
		scaled, err := fixedpoint.FromUint64(requested0).Div(ratio)
		if err != nil {
			return 0, 0, err
		}
		amount1, err := scaled.Floor().ToUint64()
		return requested0, amount1, err
	default:
		return 0, 0, fmt.Errorf("unknown ratio policy %q", policy)
	}
}

// claimsFor returns floor(sqrt(amount0 * amount1)), which must be positive.
func claimsFor(amount0, amount1 uint64) (uint64, error) {
	product, err := fixedpoint.FromUint64(amount0).Mul(fixedpoint.FromUint64(amount1))
	if err != nil {
		return 0, err
	}
	claim, err := product.Sqrt().Floor().ToUint64()
	if err != nil {
		return 0, err
	}
	if claim == 0 {
		return 0, ErrInvalidLiquidity
	}
	return claim, nil
}

// ComputeWithdraw returns floor(claim * reserve_i / supply) for each asset.
func ComputeWithdraw(reserve0, reserve1, supply, claim uint64) (WithdrawQuote, error) {
	if claim == 0 {
		return WithdrawQuote{}, ErrZeroAmount
	}
	if supply == 0 || claim > supply {
		return WithdrawQuote{}, ErrInvalidLiquidity
	}
	amount0, err := mulDivFloor(claim, reserve0, supply)
	if err != nil {
		return WithdrawQuote{}, err
	}
	amount1, err := mulDivFloor(claim, reserve1, supply)
	if err != nil {
		return WithdrawQuote{}, err
	}
	return WithdrawQuote{Amount0: amount0, Amount1: amount1}, nil
}

// mulDivFloor computes floor(a * b / d) without intermediate overflow.
func mulDivFloor(a, b, d uint64) (uint64, error) {
	product, err := fixedpoint.FromUint64(a).Mul(fixedpoint.FromUint64(b))
	if err != nil {
		return 0, err
	}
	quotient, err := product.Div(fixedpoint.FromUint64(d))
	if err != nil {
		return 0, err
	}
	return quotient.Floor().ToUint64()
}

func addClaims(supply, claim uint64) (uint64, error) {
	if supply > math.MaxUint64-claim {
		return 0, ErrMathOverflow
	}
	return supply + claim, nil
}
