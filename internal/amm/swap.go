package amm

import "liquidityPool/internal/fixedpoint"

// ComputeSwap returns floor(amountIn * reserveOut / (reserveIn + amountIn)).
// A zero input yields zero output. Empty reserves are rejected, as is a
// nonzero input too small to buy a single unit.
func ComputeSwap(reserveIn, reserveOut, amountIn uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInvalidLiquidity
	}
	if amountIn == 0 {
		return 0, nil
	}

	in := fixedpoint.FromUint64(amountIn)
	numerator, err := in.Mul(fixedpoint.FromUint64(reserveOut))
	if err != nil {
		return 0, err
	}
	denominator, err := fixedpoint.FromUint64(reserveIn).Add(in)
	if err != nil {
		return 0, err
	}
	out, err := numerator.Div(denominator)
	if err != nil {
		return 0, err
	}
	amountOut, err := out.Floor().ToUint64()
	if err != nil {
		return 0, err
	}
	if amountOut == 0 {
		return 0, ErrInvalidLiquidity
	}
	return amountOut, nil
}
