package amm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"liquidityPool/internal/address"
	"liquidityPool/internal/custody"
	"liquidityPool/internal/metrics"
	"liquidityPool/internal/model"
	"liquidityPool/internal/storage"
)

// DefaultClaimDecimals is the precision of every pool's claim token.
const DefaultClaimDecimals = 9

// Config controls engine behavior.
type Config struct {
	Deployer      common.Address
	RatioPolicy   RatioPolicy
	ClaimDecimals uint8
	Metrics       *metrics.Metrics
}

// Engine executes pool operations. Every operation is computed from current
// pool and vault state, applied through a single custody transaction, and
// only then reflected in the pool record.
type Engine struct {
	cfg     Config
	admin   *AdminGate
	custody custody.Custody
	journal storage.Storage
	logger  *zap.Logger
	clock   func() time.Time

	mu    sync.RWMutex
	pools map[model.PairKey]*poolEntry
}

// poolEntry serializes operations on one pool.
type poolEntry struct {
	mu   sync.Mutex
	pool model.Pool
}

// SwapResult describes an executed swap.
type SwapResult struct {
	InputAsset  common.Address `json:"input_asset"`
	OutputAsset common.Address `json:"output_asset"`
	AmountIn    uint64         `json:"amount_in"`
	AmountOut   uint64         `json:"amount_out"`
}

// NewEngine builds an Engine with its dependencies. journal may be nil.
func NewEngine(cfg Config, custodian custody.Custody, journal storage.Storage, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RatioPolicy == "" {
		cfg.RatioPolicy = RatioLegacy
	}
	if cfg.ClaimDecimals == 0 {
		cfg.ClaimDecimals = DefaultClaimDecimals
	}
	return &Engine{
		cfg:     cfg,
		admin:   NewAdminGate(cfg.Deployer),
		custody: custodian,
		journal: journal,
		logger:  logger,
		clock:   time.Now,
		pools:   make(map[model.PairKey]*poolEntry),
	}
}

// SetClock overrides the time source used for record timestamps.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

// InitAdmin sets the first admin.
func (e *Engine) InitAdmin(ctx context.Context, caller, newAdmin common.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	firstCaller := e.admin.FirstCallerWins()
	if err := e.admin.Init(caller, newAdmin); err != nil {
		return e.reject(model.OpInitAdmin, err, zap.String("caller", caller.Hex()))
	}
	if firstCaller {
		e.logger.Warn("admin initialized by first caller; configure a deployer to restrict init",
			zap.String("caller", caller.Hex()),
			zap.String("admin", newAdmin.Hex()),
		)
	}
	e.commit(ctx, model.OperationRecord{
		Op:     model.OpInitAdmin,
		Caller: caller.Hex(),
		Admin:  newAdmin.Hex(),
	}, zap.String("admin", newAdmin.Hex()))
	return nil
}

// SetAdmin transfers the admin role. Only the current admin may call it.
func (e *Engine) SetAdmin(ctx context.Context, caller, newAdmin common.Address) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.admin.Set(caller, newAdmin); err != nil {
		return e.reject(model.OpSetAdmin, err, zap.String("caller", caller.Hex()))
	}
	e.commit(ctx, model.OperationRecord{
		Op:     model.OpSetAdmin,
		Caller: caller.Hex(),
		Admin:  newAdmin.Hex(),
	}, zap.String("admin", newAdmin.Hex()))
	return nil
}

// Admin returns the current admin and whether one is set.
func (e *Engine) Admin() (common.Address, bool) {
	return e.admin.Admin()
}

// CreatePool registers an empty pool for (assetA, assetB). The caller must be
// the admin and assetA must sort before assetB.
func (e *Engine) CreatePool(ctx context.Context, caller, assetA, assetB common.Address) (model.Pool, error) {
	if err := ctx.Err(); err != nil {
		return model.Pool{}, err
	}
	fields := []zap.Field{zap.String("caller", caller.Hex()), zap.String("token0", assetA.Hex()), zap.String("token1", assetB.Hex())}
	if err := e.admin.Authorize(caller); err != nil {
		return model.Pool{}, e.reject(model.OpCreatePool, err, fields...)
	}
	key := model.PairKey{Asset0: assetA, Asset1: assetB}
	if !key.Ordered() {
		return model.Pool{}, e.reject(model.OpCreatePool, ErrInvalidPair, fields...)
	}
	for _, asset := range []common.Address{assetA, assetB} {
		if _, err := e.custody.Asset(asset); err != nil {
			return model.Pool{}, e.reject(model.OpCreatePool, err, fields...)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pools[key]; ok {
		return model.Pool{}, e.reject(model.OpCreatePool, ErrPoolExists, fields...)
	}

	poolAddr := address.Pool(assetA, assetB)
	authority := address.Authority(poolAddr, assetA, assetB)
	pool := model.Pool{
		Token0:    assetA,
		Token1:    assetB,
		Address:   poolAddr,
		Authority: authority,
		ClaimMint: address.ClaimMint(poolAddr, assetA, assetB),
		Vault0:    address.Associated(authority, assetA),
		Vault1:    address.Associated(authority, assetB),
		CreatedAt: e.clock().UTC().Format(time.RFC3339Nano),
	}

	// A claim mint registered ahead of the pool is taken over while it has no
	// supply.
	err := e.custody.ReclaimAsset(model.AssetMeta{
		Address:       pool.ClaimMint,
		Decimals:      e.cfg.ClaimDecimals,
		Symbol:        "LIQ",
		MintAuthority: authority,
	})
	if err != nil {
		return model.Pool{}, e.reject(model.OpCreatePool, fmt.Errorf("register claim token: %w", err), fields...)
	}
	for _, asset := range []common.Address{assetA, assetB} {
		if _, err := e.custody.OpenAccount(authority, asset); err != nil {
			return model.Pool{}, e.reject(model.OpCreatePool, fmt.Errorf("open vault: %w", err), fields...)
		}
	}

	e.pools[key] = &poolEntry{pool: pool}
	e.cfg.Metrics.SetClaimSupply(pool.Address.Hex(), 0)
	e.commit(ctx, poolRecord(model.OpCreatePool, caller, pool), append(fields, zap.String("pool", poolAddr.Hex()))...)
	return pool, nil
}

// Deposit adds liquidity and mints claim tokens to depositor.
func (e *Engine) Deposit(ctx context.Context, depositor, assetA, assetB common.Address, amountA, amountB uint64) (DepositQuote, error) {
	if err := ctx.Err(); err != nil {
		return DepositQuote{}, err
	}
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, err)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := entry.pool
	fields := []zap.Field{zap.String("pool", pool.Address.Hex()), zap.String("depositor", depositor.Hex())}
	quote, err := e.quoteDeposit(pool, amountA, amountB)
	if err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, err, fields...)
	}
	supply, err := addClaims(pool.ClaimSupply, quote.Claim)
	if err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, err, fields...)
	}

	auth := authorityFor(pool)
	tx := e.custody.Begin()
	defer tx.Rollback()
	if err := auth.collect(tx, pool.Token0, depositor, quote.Amount0); err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, fmt.Errorf("transfer token0: %w", err), fields...)
	}
	if err := auth.collect(tx, pool.Token1, depositor, quote.Amount1); err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, fmt.Errorf("transfer token1: %w", err), fields...)
	}
	if err := auth.mintClaims(tx, depositor, quote.Claim); err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, fmt.Errorf("mint claim: %w", err), fields...)
	}
	if err := tx.Commit(); err != nil {
		return DepositQuote{}, e.reject(model.OpDeposit, fmt.Errorf("commit: %w", err), fields...)
	}
	entry.pool.ClaimSupply = supply

	rec := poolRecord(model.OpDeposit, depositor, entry.pool)
	rec.Amount0, rec.Amount1, rec.In0, rec.Claim = quote.Amount0, quote.Amount1, true, quote.Claim
	e.cfg.Metrics.SetClaimSupply(pool.Address.Hex(), supply)
	e.commit(ctx, rec, append(fields,
		zap.Uint64("amount0", quote.Amount0),
		zap.Uint64("amount1", quote.Amount1),
		zap.Uint64("claim", quote.Claim),
		zap.Uint64("claim_supply", supply),
	)...)
	return quote, nil
}

// Withdraw burns claim tokens from holder and releases the pro-rata share of
// both vaults.
func (e *Engine) Withdraw(ctx context.Context, holder, assetA, assetB common.Address, claim uint64) (WithdrawQuote, error) {
	if err := ctx.Err(); err != nil {
		return WithdrawQuote{}, err
	}
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return WithdrawQuote{}, e.reject(model.OpWithdraw, err)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := entry.pool
	fields := []zap.Field{zap.String("pool", pool.Address.Hex()), zap.String("holder", holder.Hex())}
	reserve0, reserve1 := e.reserves(pool)
	quote, err := ComputeWithdraw(reserve0, reserve1, pool.ClaimSupply, claim)
	if err != nil {
		return WithdrawQuote{}, e.reject(model.OpWithdraw, err, fields...)
	}

	auth := authorityFor(pool)
	tx := e.custody.Begin()
	defer tx.Rollback()
	if err := auth.release(tx, pool.Token0, holder, quote.Amount0); err != nil {
		return WithdrawQuote{}, e.reject(model.OpWithdraw, fmt.Errorf("release token0: %w", err), fields...)
	}
	if err := auth.release(tx, pool.Token1, holder, quote.Amount1); err != nil {
		return WithdrawQuote{}, e.reject(model.OpWithdraw, fmt.Errorf("release token1: %w", err), fields...)
	}
	if err := tx.Burn(pool.ClaimMint, holder, holder, claim); err != nil {
		return WithdrawQuote{}, e.reject(model.OpWithdraw, fmt.Errorf("burn claim: %w", err), fields...)
	}
	if err := tx.Commit(); err != nil {
		return WithdrawQuote{}, e.reject(model.OpWithdraw, fmt.Errorf("commit: %w", err), fields...)
	}
	entry.pool.ClaimSupply -= claim

	rec := poolRecord(model.OpWithdraw, holder, entry.pool)
	rec.Amount0, rec.Amount1, rec.Claim = quote.Amount0, quote.Amount1, claim
	e.cfg.Metrics.SetClaimSupply(pool.Address.Hex(), entry.pool.ClaimSupply)
	e.commit(ctx, rec, append(fields,
		zap.Uint64("amount0", quote.Amount0),
		zap.Uint64("amount1", quote.Amount1),
		zap.Uint64("claim", claim),
		zap.Uint64("claim_supply", entry.pool.ClaimSupply),
	)...)
	return quote, nil
}

// SwapExactInput sells amount of inputAsset to the pool for the other asset.
// A zero amount is accepted and moves nothing.
func (e *Engine) SwapExactInput(ctx context.Context, swapper, assetA, assetB, inputAsset common.Address, amount uint64) (SwapResult, error) {
	if err := ctx.Err(); err != nil {
		return SwapResult{}, err
	}
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return SwapResult{}, e.reject(model.OpSwap, err)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	pool := entry.pool
	fields := []zap.Field{zap.String("pool", pool.Address.Hex()), zap.String("swapper", swapper.Hex()), zap.String("input", inputAsset.Hex())}
	result, err := e.quoteSwap(pool, inputAsset, amount)
	if err != nil {
		return SwapResult{}, e.reject(model.OpSwap, err, fields...)
	}

	if amount > 0 {
		auth := authorityFor(pool)
		tx := e.custody.Begin()
		defer tx.Rollback()
		if err := auth.collect(tx, result.InputAsset, swapper, result.AmountIn); err != nil {
			return SwapResult{}, e.reject(model.OpSwap, fmt.Errorf("transfer input: %w", err), fields...)
		}
		if err := auth.release(tx, result.OutputAsset, swapper, result.AmountOut); err != nil {
			return SwapResult{}, e.reject(model.OpSwap, fmt.Errorf("release output: %w", err), fields...)
		}
		if err := tx.Commit(); err != nil {
			return SwapResult{}, e.reject(model.OpSwap, fmt.Errorf("commit: %w", err), fields...)
		}
	}

	rec := poolRecord(model.OpSwap, swapper, pool)
	rec.In0 = result.InputAsset == pool.Token0
	if rec.In0 {
		rec.Amount0, rec.Amount1 = result.AmountIn, result.AmountOut
	} else {
		rec.Amount0, rec.Amount1 = result.AmountOut, result.AmountIn
	}
	e.cfg.Metrics.AddSwapVolume(pool.Address.Hex(), inputAsset.Hex(), amount)
	e.commit(ctx, rec, append(fields,
		zap.Uint64("amount_in", result.AmountIn),
		zap.Uint64("amount_out", result.AmountOut),
	)...)
	return result, nil
}

// QuoteDeposit previews Deposit without moving anything.
func (e *Engine) QuoteDeposit(assetA, assetB common.Address, amountA, amountB uint64) (DepositQuote, error) {
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return DepositQuote{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return e.quoteDeposit(entry.pool, amountA, amountB)
}

// QuoteWithdraw previews Withdraw without moving anything.
func (e *Engine) QuoteWithdraw(assetA, assetB common.Address, claim uint64) (WithdrawQuote, error) {
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return WithdrawQuote{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	reserve0, reserve1 := e.reserves(entry.pool)
	return ComputeWithdraw(reserve0, reserve1, entry.pool.ClaimSupply, claim)
}

// QuoteSwap previews SwapExactInput without moving anything.
func (e *Engine) QuoteSwap(assetA, assetB, inputAsset common.Address, amount uint64) (SwapResult, error) {
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return SwapResult{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return e.quoteSwap(entry.pool, inputAsset, amount)
}

// Pool returns a pool and its current reserves.
func (e *Engine) Pool(assetA, assetB common.Address) (model.PoolState, error) {
	entry, err := e.entry(assetA, assetB)
	if err != nil {
		return model.PoolState{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return e.state(entry.pool), nil
}

// Pools returns every pool ordered by token pair.
func (e *Engine) Pools() []model.PoolState {
	e.mu.RLock()
	entries := make([]*poolEntry, 0, len(e.pools))
	for _, entry := range e.pools {
		entries = append(entries, entry)
	}
	e.mu.RUnlock()

	out := make([]model.PoolState, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, e.state(entry.pool))
		entry.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().String() < out[j].Key().String()
	})
	return out
}

// Export returns the admin record and pool records for persistence.
func (e *Engine) Export() (*model.AdminSettings, []model.Pool) {
	states := e.Pools()
	pools := make([]model.Pool, 0, len(states))
	for _, st := range states {
		pools = append(pools, st.Pool)
	}
	return e.admin.export(), pools
}

// Restore replaces the engine state with previously exported records. Derived
// addresses are recomputed and must match, and each pool's claim supply must
// match its claim token in custody, so custody has to be loaded first.
func (e *Engine) Restore(admin *model.AdminSettings, pools []model.Pool) error {
	next := make(map[model.PairKey]*poolEntry, len(pools))
	for _, pool := range pools {
		key := pool.Key()
		if !key.Ordered() {
			return fmt.Errorf("restore pool %s: %w", key, ErrInvalidPair)
		}
		if _, ok := next[key]; ok {
			return fmt.Errorf("restore pool %s: %w", key, ErrPoolExists)
		}
		if err := e.verifyPool(pool); err != nil {
			return fmt.Errorf("restore pool %s: %w", key, err)
		}
		next[key] = &poolEntry{pool: pool}
	}

	e.admin.restore(admin)
	e.mu.Lock()
	e.pools = next
	e.mu.Unlock()
	for _, pool := range pools {
		e.cfg.Metrics.SetClaimSupply(pool.Address.Hex(), pool.ClaimSupply)
	}
	return nil
}

func (e *Engine) verifyPool(pool model.Pool) error {
	poolAddr := address.Pool(pool.Token0, pool.Token1)
	authority := address.Authority(poolAddr, pool.Token0, pool.Token1)
	switch {
	case pool.Address != poolAddr,
		pool.Authority != authority,
		pool.ClaimMint != address.ClaimMint(poolAddr, pool.Token0, pool.Token1),
		pool.Vault0 != address.Associated(authority, pool.Token0),
		pool.Vault1 != address.Associated(authority, pool.Token1):
		return errors.New("derived addresses do not match")
	}
	claim, err := e.custody.Asset(pool.ClaimMint)
	if err != nil {
		return fmt.Errorf("claim token: %w", err)
	}
	if claim.MintAuthority != authority {
		return fmt.Errorf("claim token minted by %s, want %s", claim.MintAuthority.Hex(), authority.Hex())
	}
	if claim.Supply != pool.ClaimSupply {
		return fmt.Errorf("claim supply %d, custody holds %d", pool.ClaimSupply, claim.Supply)
	}
	return nil
}

func (e *Engine) entry(assetA, assetB common.Address) (*poolEntry, error) {
	key := model.PairKey{Asset0: assetA, Asset1: assetB}
	e.mu.RLock()
	entry, ok := e.pools[key]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pool %s: %w", key, ErrPoolNotFound)
	}
	return entry, nil
}

func (e *Engine) reserves(pool model.Pool) (uint64, uint64) {
	auth := authorityFor(pool)
	return e.custody.Balance(auth.signer, pool.Token0), e.custody.Balance(auth.signer, pool.Token1)
}

func (e *Engine) state(pool model.Pool) model.PoolState {
	reserve0, reserve1 := e.reserves(pool)
	return model.PoolState{Pool: pool, Reserve0: reserve0, Reserve1: reserve1}
}

func (e *Engine) quoteDeposit(pool model.Pool, amountA, amountB uint64) (DepositQuote, error) {
	meta0, err := e.custody.Asset(pool.Token0)
	if err != nil {
		return DepositQuote{}, err
	}
	meta1, err := e.custody.Asset(pool.Token1)
	if err != nil {
		return DepositQuote{}, err
	}
	if meta0.Decimals != meta1.Decimals {
		return DepositQuote{}, ErrDecimalsNotEqual
	}
	// Without outstanding claims the vault contents belong to nobody, so the
	// next deposit is priced as the first one and inherits them.
	var reserve0, reserve1 uint64
	if pool.ClaimSupply > 0 {
		reserve0, reserve1 = e.reserves(pool)
	}
	return ComputeDeposit(reserve0, reserve1, amountA, amountB, e.cfg.RatioPolicy)
}

func (e *Engine) quoteSwap(pool model.Pool, inputAsset common.Address, amount uint64) (SwapResult, error) {
	reserve0, reserve1 := e.reserves(pool)
	result := SwapResult{InputAsset: inputAsset, AmountIn: amount}
	var reserveIn, reserveOut uint64
	switch inputAsset {
	case pool.Token0:
		result.OutputAsset = pool.Token1
		reserveIn, reserveOut = reserve0, reserve1
	case pool.Token1:
		result.OutputAsset = pool.Token0
		reserveIn, reserveOut = reserve1, reserve0
	default:
		return SwapResult{}, ErrAssetNotInPool
	}
	out, err := ComputeSwap(reserveIn, reserveOut, amount)
	if err != nil {
		return SwapResult{}, err
	}
	result.AmountOut = out
	return result, nil
}

func poolRecord(op string, caller common.Address, pool model.Pool) model.OperationRecord {
	return model.OperationRecord{
		Op:          op,
		Caller:      caller.Hex(),
		Pool:        pool.Address.Hex(),
		Token0:      pool.Token0.Hex(),
		Token1:      pool.Token1.Hex(),
		ClaimSupply: pool.ClaimSupply,
	}
}

// commit records a committed operation. Journal failures are logged; the
// operation itself has already been applied.
func (e *Engine) commit(ctx context.Context, rec model.OperationRecord, fields ...zap.Field) {
	rec.Timestamp = e.clock().UTC().Format(time.RFC3339Nano)
	e.cfg.Metrics.ObserveOperation(rec.Op, metrics.OutcomeCommitted)
	e.logger.Info(rec.Op, fields...)
	if e.journal == nil {
		return
	}
	if err := e.journal.PutOperationBatch(ctx, []model.OperationRecord{rec}); err != nil {
		e.logger.Warn("journal write failed", zap.String("op", rec.Op), zap.Error(err))
	}
}

func (e *Engine) reject(op string, err error, fields ...zap.Field) error {
	e.cfg.Metrics.ObserveOperation(op, metrics.OutcomeRejected)
	e.logger.Warn(op+" rejected", append(fields, zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, err)
}
