package custody

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/address"
	"liquidityPool/internal/model"
)

type accountKey struct {
	owner common.Address
	asset common.Address
}

// ledgerTx stages credits and debits per account and mints and burns per
// asset. Commit validates every resulting balance before applying any of them.
type ledgerTx struct {
	ledger  *Ledger
	credits map[common.Address]uint64
	debits  map[common.Address]uint64
	minted  map[common.Address]uint64
	burned  map[common.Address]uint64
	minters map[common.Address]common.Address
	owners  map[common.Address]accountKey
	closed  bool
}

func (tx *ledgerTx) asset(asset common.Address) (model.AssetMeta, error) {
	if tx.closed {
		return model.AssetMeta{}, ErrTxClosed
	}
	return tx.ledger.Asset(asset)
}

// available returns the committed balance plus staged movements.
func (tx *ledgerTx) available(acct common.Address) (uint64, error) {
	tx.ledger.mu.RLock()
	var base uint64
	if a, ok := tx.ledger.accounts[acct]; ok {
		base = a.Balance
	}
	tx.ledger.mu.RUnlock()

	credit := tx.credits[acct]
	if base > math.MaxUint64-credit {
		return 0, ErrSupplyOverflow
	}
	total := base + credit
	debit := tx.debits[acct]
	if debit > total {
		return 0, ErrInsufficientFunds
	}
	return total - debit, nil
}

func (tx *ledgerTx) debit(owner, asset common.Address, amount uint64) error {
	acct := address.Associated(owner, asset)
	avail, err := tx.available(acct)
	if err != nil {
		return err
	}
	if avail < amount {
		return fmt.Errorf("account %s has %d, needs %d: %w", acct.Hex(), avail, amount, ErrInsufficientFunds)
	}
	tx.debits[acct] += amount
	tx.owners[acct] = accountKey{owner: owner, asset: asset}
	return nil
}

func (tx *ledgerTx) credit(owner, asset common.Address, amount uint64) error {
	acct := address.Associated(owner, asset)
	avail, err := tx.available(acct)
	if err != nil {
		return err
	}
	if avail > math.MaxUint64-amount || tx.credits[acct] > math.MaxUint64-amount {
		return fmt.Errorf("account %s: %w", acct.Hex(), ErrSupplyOverflow)
	}
	tx.credits[acct] += amount
	tx.owners[acct] = accountKey{owner: owner, asset: asset}
	return nil
}

// Transfer moves amount of asset from one owner to another. signer must be
// the owner of the source account.
func (tx *ledgerTx) Transfer(asset, from, to, signer common.Address, amount uint64) error {
	if _, err := tx.asset(asset); err != nil {
		return err
	}
	if signer != from {
		return fmt.Errorf("transfer from %s signed by %s: %w", from.Hex(), signer.Hex(), ErrBadSigner)
	}
	if amount == 0 {
		return nil
	}
	if err := tx.debit(from, asset, amount); err != nil {
		return err
	}
	return tx.credit(to, asset, amount)
}

// MintTo creates amount of asset for to. Only the asset's mint authority may
// mint.
func (tx *ledgerTx) MintTo(asset, to, authority common.Address, amount uint64) error {
	meta, err := tx.asset(asset)
	if err != nil {
		return err
	}
	if meta.MintAuthority != authority {
		return fmt.Errorf("mint %s by %s: %w", asset.Hex(), authority.Hex(), ErrBadSigner)
	}
	if amount == 0 {
		return nil
	}
	pending := tx.minted[asset]
	if meta.Supply > math.MaxUint64-pending || meta.Supply+pending > math.MaxUint64-amount {
		return fmt.Errorf("mint %s: %w", asset.Hex(), ErrSupplyOverflow)
	}
	if err := tx.credit(to, asset, amount); err != nil {
		return err
	}
	tx.minted[asset] += amount
	tx.minters[asset] = authority
	return nil
}

// Burn destroys amount of asset held by from. signer must be the holder.
func (tx *ledgerTx) Burn(asset, from, signer common.Address, amount uint64) error {
	if _, err := tx.asset(asset); err != nil {
		return err
	}
	if signer != from {
		return fmt.Errorf("burn from %s signed by %s: %w", from.Hex(), signer.Hex(), ErrBadSigner)
	}
	if amount == 0 {
		return nil
	}
	if err := tx.debit(from, asset, amount); err != nil {
		return err
	}
	tx.burned[asset] += amount
	return nil
}

// Commit validates all staged movements against the current ledger and
// applies them together. On error nothing is applied.
func (tx *ledgerTx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true

	l := tx.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	balances := make(map[common.Address]uint64, len(tx.owners))
	for acct := range tx.owners {
		var base uint64
		if a, ok := l.accounts[acct]; ok {
			base = a.Balance
		}
		credit, debit := tx.credits[acct], tx.debits[acct]
		if base > math.MaxUint64-credit {
			return fmt.Errorf("account %s: %w", acct.Hex(), ErrSupplyOverflow)
		}
		if base+credit < debit {
			return fmt.Errorf("account %s: %w", acct.Hex(), ErrInsufficientFunds)
		}
		balances[acct] = base + credit - debit
	}

	supplies := make(map[common.Address]uint64, len(tx.minted)+len(tx.burned))
	for asset := range mergeKeys(tx.minted, tx.burned) {
		meta, ok := l.assets[asset]
		if !ok {
			return fmt.Errorf("asset %s: %w", asset.Hex(), ErrUnknownAsset)
		}
		minted, burned := tx.minted[asset], tx.burned[asset]
		if minted > 0 && meta.MintAuthority != tx.minters[asset] {
			return fmt.Errorf("mint %s: %w", asset.Hex(), ErrBadSigner)
		}
		if meta.Supply > math.MaxUint64-minted {
			return fmt.Errorf("asset %s: %w", asset.Hex(), ErrSupplyOverflow)
		}
		if meta.Supply+minted < burned {
			return fmt.Errorf("asset %s: %w", asset.Hex(), ErrInsufficientFunds)
		}
		supplies[asset] = meta.Supply + minted - burned
	}

	for acct, balance := range balances {
		a, ok := l.accounts[acct]
		if !ok {
			key := tx.owners[acct]
			a = &model.Account{Address: acct, Owner: key.owner, Asset: key.asset}
			l.accounts[acct] = a
		}
		a.Balance = balance
	}
	for asset, supply := range supplies {
		l.assets[asset].Supply = supply
	}
	return nil
}

// Rollback discards staged movements. It is safe to call after Commit.
func (tx *ledgerTx) Rollback() {
	tx.closed = true
	tx.credits = nil
	tx.debits = nil
	tx.minted = nil
	tx.burned = nil
	tx.minters = nil
	tx.owners = nil
}

func mergeKeys(a, b map[common.Address]uint64) map[common.Address]struct{} {
	out := make(map[common.Address]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
