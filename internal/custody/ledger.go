package custody

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/address"
	"liquidityPool/internal/model"
)

// Ledger is an in-memory Custody implementation.
type Ledger struct {
	mu       sync.RWMutex
	assets   map[common.Address]*model.AssetMeta
	accounts map[common.Address]*model.Account
}

var _ Custody = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{
		assets:   make(map[common.Address]*model.AssetMeta),
		accounts: make(map[common.Address]*model.Account),
	}
}

// RegisterAsset adds a new asset with zero supply.
func (l *Ledger) RegisterAsset(meta model.AssetMeta) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.assets[meta.Address]; ok {
		return fmt.Errorf("register %s: %w", meta.Address.Hex(), ErrAssetExists)
	}
	meta.Supply = 0
	l.assets[meta.Address] = &meta
	return nil
}

// ReclaimAsset registers meta, overwriting an existing registration of the
// same address only while that asset has no supply.
func (l *Ledger) ReclaimAsset(meta model.AssetMeta) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.assets[meta.Address]; ok && prev.Supply > 0 {
		return fmt.Errorf("reclaim %s: %w", meta.Address.Hex(), ErrAssetInUse)
	}
	meta.Supply = 0
	l.assets[meta.Address] = &meta
	return nil
}

// Asset returns metadata for a registered asset.
func (l *Ledger) Asset(asset common.Address) (model.AssetMeta, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	meta, ok := l.assets[asset]
	if !ok {
		return model.AssetMeta{}, fmt.Errorf("asset %s: %w", asset.Hex(), ErrUnknownAsset)
	}
	return *meta, nil
}

// OpenAccount creates the owner's account for asset if it does not exist.
func (l *Ledger) OpenAccount(owner, asset common.Address) (common.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.assets[asset]; !ok {
		return common.Address{}, fmt.Errorf("asset %s: %w", asset.Hex(), ErrUnknownAsset)
	}
	addr := address.Associated(owner, asset)
	if _, ok := l.accounts[addr]; !ok {
		l.accounts[addr] = &model.Account{Address: addr, Owner: owner, Asset: asset}
	}
	return addr, nil
}

// Balance returns the owner's committed balance of asset.
func (l *Ledger) Balance(owner, asset common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if acct, ok := l.accounts[address.Associated(owner, asset)]; ok {
		return acct.Balance
	}
	return 0
}

// Begin starts a transaction against the ledger.
func (l *Ledger) Begin() Tx {
	return &ledgerTx{
		ledger:  l,
		credits: make(map[common.Address]uint64),
		debits:  make(map[common.Address]uint64),
		minted:  make(map[common.Address]uint64),
		burned:  make(map[common.Address]uint64),
		minters: make(map[common.Address]common.Address),
		owners:  make(map[common.Address]accountKey),
	}
}

// Export returns a copy of every asset and account, sorted by address.
func (l *Ledger) Export() ([]model.AssetMeta, []model.Account) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	assets := make([]model.AssetMeta, 0, len(l.assets))
	for _, meta := range l.assets {
		assets = append(assets, *meta)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Address.Hex() < assets[j].Address.Hex()
	})

	accounts := make([]model.Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		accounts = append(accounts, *acct)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Address.Hex() < accounts[j].Address.Hex()
	})
	return assets, accounts
}

// Import replaces the ledger contents. Account addresses are recomputed and
// balances must sum to each asset's supply.
func (l *Ledger) Import(assets []model.AssetMeta, accounts []model.Account) error {
	nextAssets := make(map[common.Address]*model.AssetMeta, len(assets))
	for i := range assets {
		meta := assets[i]
		nextAssets[meta.Address] = &meta
	}

	sums := make(map[common.Address]uint64, len(assets))
	nextAccounts := make(map[common.Address]*model.Account, len(accounts))
	for i := range accounts {
		acct := accounts[i]
		if _, ok := nextAssets[acct.Asset]; !ok {
			return fmt.Errorf("account %s: %w", acct.Address.Hex(), ErrUnknownAsset)
		}
		acct.Address = address.Associated(acct.Owner, acct.Asset)
		if sums[acct.Asset] > math.MaxUint64-acct.Balance {
			return fmt.Errorf("asset %s: %w", acct.Asset.Hex(), ErrSupplyOverflow)
		}
		sums[acct.Asset] += acct.Balance
		nextAccounts[acct.Address] = &acct
	}
	for addr, meta := range nextAssets {
		if sums[addr] != meta.Supply {
			return fmt.Errorf("asset %s: balances %d do not match supply %d", addr.Hex(), sums[addr], meta.Supply)
		}
	}

	l.mu.Lock()
	l.assets = nextAssets
	l.accounts = nextAccounts
	l.mu.Unlock()
	return nil
}
