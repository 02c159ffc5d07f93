package model

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// PairKey identifies a pool by its canonically ordered asset pair.
type PairKey struct {
	Asset0 common.Address
	Asset1 common.Address
}

// Ordered reports whether Asset0 sorts strictly before Asset1.
func (k PairKey) Ordered() bool {
	return bytes.Compare(k.Asset0.Bytes(), k.Asset1.Bytes()) < 0
}

func (k PairKey) String() string {
	return k.Asset0.Hex() + "/" + k.Asset1.Hex()
}

// Pool is the persisted record for a two-asset constant-product pool.
// Vault balances are not stored here; custody owns them.
type Pool struct {
	Token0      common.Address `json:"token0"`
	Token1      common.Address `json:"token1"`
	ClaimSupply uint64         `json:"claim_supply"`
	Address     common.Address `json:"address"`
	Authority   common.Address `json:"authority"`
	ClaimMint   common.Address `json:"claim_mint"`
	Vault0      common.Address `json:"vault0"`
	Vault1      common.Address `json:"vault1"`
	CreatedAt   string         `json:"created_at"`
}

func (p Pool) Key() PairKey {
	return PairKey{Asset0: p.Token0, Asset1: p.Token1}
}

// PoolState is a pool record together with its current vault balances.
type PoolState struct {
	Pool
	Reserve0 uint64 `json:"reserve0"`
	Reserve1 uint64 `json:"reserve1"`
}
