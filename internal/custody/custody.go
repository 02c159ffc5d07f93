// Package custody is the asset-custody collaborator: it holds balances,
// mints and burns, and applies a batch of movements atomically.
package custody

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/model"
)

var (
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrAssetExists       = errors.New("asset already registered")
	ErrAssetInUse        = errors.New("asset has outstanding supply")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBadSigner         = errors.New("signer is not authorized for account")
	ErrSupplyOverflow    = errors.New("supply overflow")
	ErrTxClosed          = errors.New("transaction already closed")
)

// Custody holds balances of registered assets keyed by (owner, asset).
type Custody interface {
	RegisterAsset(meta model.AssetMeta) error
	ReclaimAsset(meta model.AssetMeta) error
	Asset(asset common.Address) (model.AssetMeta, error)
	OpenAccount(owner, asset common.Address) (common.Address, error)
	Balance(owner, asset common.Address) uint64
	Begin() Tx
}

// Tx stages custody movements. Nothing is visible until Commit succeeds;
// Rollback discards everything staged.
type Tx interface {
	Transfer(asset, from, to, signer common.Address, amount uint64) error
	MintTo(asset, to, authority common.Address, amount uint64) error
	Burn(asset, from, signer common.Address, amount uint64) error
	Commit() error
	Rollback()
}
