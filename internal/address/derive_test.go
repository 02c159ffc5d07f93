package address

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	tokenA = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenB = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func TestDeriveDeterministic(t *testing.T) {
	if Pool(tokenA, tokenB) != Pool(tokenA, tokenB) {
		t.Fatalf("pool address not deterministic")
	}
	if Pool(tokenA, tokenB) == Pool(tokenB, tokenA) {
		t.Fatalf("pool address must depend on key order")
	}
}

func TestDeriveNamespacesDistinct(t *testing.T) {
	pool := Pool(tokenA, tokenB)
	authority := Authority(pool, tokenA, tokenB)
	mint := ClaimMint(pool, tokenA, tokenB)
	if authority == mint || authority == pool || mint == pool {
		t.Fatalf("namespaces collide: pool=%s authority=%s mint=%s", pool.Hex(), authority.Hex(), mint.Hex())
	}
	if AdminSettings() == (common.Address{}) {
		t.Fatalf("admin settings address is zero")
	}
}

func TestAssociatedPerOwnerAndAsset(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	if Associated(owner, tokenA) == Associated(owner, tokenB) {
		t.Fatalf("accounts for different assets collide")
	}
	if Associated(owner, tokenA) == Associated(tokenB, tokenA) {
		t.Fatalf("accounts for different owners collide")
	}
}
