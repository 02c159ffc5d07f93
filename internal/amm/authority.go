package amm

import (
	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/address"
	"liquidityPool/internal/custody"
	"liquidityPool/internal/model"
)

// poolAuthority is a pool's signing capability over its vaults and claim
// mint. It is rebuilt from the pool identity inside each operation and never
// leaves this package.
type poolAuthority struct {
	signer    common.Address
	claimMint common.Address
}

func authorityFor(pool model.Pool) poolAuthority {
	poolAddr := address.Pool(pool.Token0, pool.Token1)
	return poolAuthority{
		signer:    address.Authority(poolAddr, pool.Token0, pool.Token1),
		claimMint: address.ClaimMint(poolAddr, pool.Token0, pool.Token1),
	}
}

// collect pulls amount of asset from owner into the pool vault.
func (a poolAuthority) collect(tx custody.Tx, asset, owner common.Address, amount uint64) error {
	return tx.Transfer(asset, owner, a.signer, owner, amount)
}

// release pays amount of asset from the pool vault to recipient.
func (a poolAuthority) release(tx custody.Tx, asset, recipient common.Address, amount uint64) error {
	return tx.Transfer(asset, a.signer, recipient, a.signer, amount)
}

func (a poolAuthority) mintClaims(tx custody.Tx, recipient common.Address, amount uint64) error {
	return tx.MintTo(a.claimMint, recipient, a.signer, amount)
}
