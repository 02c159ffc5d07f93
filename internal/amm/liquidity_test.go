package amm

import (
	"errors"
	"math"
	"testing"
)

func TestComputeDepositInitial(t *testing.T) {
	quote, err := ComputeDeposit(0, 0, 10_000_000, 10_000_000, RatioLegacy)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !quote.Initial || quote.Claim != 10_000_000 {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if quote.Amount0 != 10_000_000 || quote.Amount1 != 10_000_000 {
		t.Fatalf("initial deposit must take requested amounts: %+v", quote)
	}
}

func TestComputeDepositInitialUnbalanced(t *testing.T) {
	quote, err := ComputeDeposit(0, 0, 2, 50, RatioLegacy)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if quote.Claim != 10 {
		t.Fatalf("sqrt(100): got %d", quote.Claim)
	}
	quote, err = ComputeDeposit(0, 0, 3, 5, RatioLegacy)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if quote.Claim != 3 {
		t.Fatalf("floor(sqrt(15)): got %d", quote.Claim)
	}
}

func TestComputeDepositInitialFullRange(t *testing.T) {
	quote, err := ComputeDeposit(0, 0, math.MaxUint64, math.MaxUint64, RatioLegacy)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if quote.Claim != math.MaxUint64 {
		t.Fatalf("sqrt(max^2): got %d", quote.Claim)
	}
}

func TestComputeDepositZeroAmount(t *testing.T) {
	for _, tc := range [][2]uint64{{0, 1}, {1, 0}, {0, 0}} {
		if _, err := ComputeDeposit(0, 0, tc[0], tc[1], RatioLegacy); !errors.Is(err, ErrZeroAmount) {
			t.Fatalf("deposit %v: expected ErrZeroAmount, got %v", tc, err)
		}
		if _, err := ComputeDeposit(100, 100, tc[0], tc[1], RatioProportional); !errors.Is(err, ErrZeroAmount) {
			t.Fatalf("deposit %v: expected ErrZeroAmount, got %v", tc, err)
		}
	}
}

func TestAdjustDepositLegacy(t *testing.T) {
	// r0 <= r1: amount1 = amount0 / (r0*r1)
	a0, a1, err := AdjustDeposit(2, 3, 600, 999, RatioLegacy)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if a0 != 600 || a1 != 100 {
		t.Fatalf("got (%d, %d), want (600, 100)", a0, a1)
	}

	// r0 > r1: amount0 = amount1 * (r0*r1)
	a0, a1, err = AdjustDeposit(4, 2, 999, 5, RatioLegacy)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if a0 != 40 || a1 != 5 {
		t.Fatalf("got (%d, %d), want (40, 5)", a0, a1)
	}

	// equal reserves take the division branch
	a0, a1, err = AdjustDeposit(10, 10, 1_000, 7, RatioLegacy)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if a0 != 1_000 || a1 != 10 {
		t.Fatalf("got (%d, %d), want (1000, 10)", a0, a1)
	}
}

func TestAdjustDepositLegacyOverflow(t *testing.T) {
	_, _, err := AdjustDeposit(math.MaxUint64, 2, 1, math.MaxUint64, RatioLegacy)
	if !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestComputeDepositLegacyTruncatesToZero(t *testing.T) {
	_, err := ComputeDeposit(10_000_000, 10_000_000, 1_000, 1_000, RatioLegacy)
	if !errors.Is(err, ErrInvalidLiquidity) {
		t.Fatalf("expected ErrInvalidLiquidity, got %v", err)
	}
}

func TestAdjustDepositProportional(t *testing.T) {
	a0, a1, err := AdjustDeposit(100, 400, 10, 999, RatioProportional)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if a0 != 10 || a1 != 40 {
		t.Fatalf("got (%d, %d), want (10, 40)", a0, a1)
	}

	a0, a1, err = AdjustDeposit(300, 100, 999, 7, RatioProportional)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if a0 != 21 || a1 != 7 {
		t.Fatalf("got (%d, %d), want (21, 7)", a0, a1)
	}

	if _, _, err := AdjustDeposit(0, 100, 1, 1, RatioProportional); !errors.Is(err, ErrInvalidLiquidity) {
		t.Fatalf("expected ErrInvalidLiquidity for an empty side, got %v", err)
	}
}

func TestComputeDepositProportionalClaims(t *testing.T) {
	quote, err := ComputeDeposit(10_000_000, 10_000_000, 1_000, 5_000, RatioProportional)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if quote.Initial || quote.Amount0 != 1_000 || quote.Amount1 != 1_000 || quote.Claim != 1_000 {
		t.Fatalf("unexpected quote %+v", quote)
	}
}

func TestComputeWithdraw(t *testing.T) {
	quote, err := ComputeWithdraw(1_000, 3_000, 100, 10)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if quote.Amount0 != 100 || quote.Amount1 != 300 {
		t.Fatalf("unexpected quote %+v", quote)
	}

	quote, err = ComputeWithdraw(10, 10, 3, 1)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if quote.Amount0 != 3 || quote.Amount1 != 3 {
		t.Fatalf("floor(10/3): got %+v", quote)
	}

	quote, err = ComputeWithdraw(math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64)
	if err != nil {
		t.Fatalf("withdraw all: %v", err)
	}
	if quote.Amount0 != math.MaxUint64 || quote.Amount1 != math.MaxUint64 {
		t.Fatalf("full withdraw must drain: %+v", quote)
	}
}

func TestComputeWithdrawRejects(t *testing.T) {
	if _, err := ComputeWithdraw(10, 10, 10, 0); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	if _, err := ComputeWithdraw(10, 10, 0, 1); !errors.Is(err, ErrInvalidLiquidity) {
		t.Fatalf("expected ErrInvalidLiquidity on empty supply, got %v", err)
	}
	if _, err := ComputeWithdraw(10, 10, 5, 6); !errors.Is(err, ErrInvalidLiquidity) {
		t.Fatalf("expected ErrInvalidLiquidity on claim > supply, got %v", err)
	}
}

func TestWithdrawNeverOverpays(t *testing.T) {
	reserves := []uint64{1, 7, 999, 10_000_100, math.MaxUint64 / 3}
	for _, r0 := range reserves {
		for _, r1 := range reserves {
			for _, supply := range []uint64{1, 3, 1_000, math.MaxUint64} {
				for _, claim := range []uint64{1, supply / 2, supply} {
					if claim == 0 {
						continue
					}
					quote, err := ComputeWithdraw(r0, r1, supply, claim)
					if err != nil {
						t.Fatalf("withdraw(%d,%d,%d,%d): %v", r0, r1, supply, claim, err)
					}
					if quote.Amount0 > r0 || quote.Amount1 > r1 {
						t.Fatalf("withdraw(%d,%d,%d,%d) overpays: %+v", r0, r1, supply, claim, quote)
					}
				}
			}
		}
	}
}

func TestParseRatioPolicy(t *testing.T) {
	for in, want := range map[string]RatioPolicy{"": RatioLegacy, "legacy": RatioLegacy, " Proportional ": RatioProportional} {
		got, err := ParseRatioPolicy(in)
		if err != nil || got != want {
			t.Fatalf("parse %q: got %q, %v", in, got, err)
		}
	}
	if _, err := ParseRatioPolicy("geometric"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
