package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/model"
)

func sampleSnapshot() model.Snapshot {
	token0 := common.HexToAddress("0x0000000000000000000000000000000000000101")
	token1 := common.HexToAddress("0x0000000000000000000000000000000000000202")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	return model.Snapshot{
		Admin: &model.AdminSettings{Admin: owner},
		Pools: []model.Pool{{Token0: token0, Token1: token1, ClaimSupply: 42}},
		Assets: []model.AssetMeta{
			{Address: token0, Decimals: 6, Symbol: "X", Supply: 7},
		},
		Accounts: []model.Account{
			{Owner: owner, Asset: token0, Balance: 7},
		},
	}
}

func checkRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	want := sampleSnapshot()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.SavedAt == "" {
		t.Fatalf("saved_at not set")
	}
	if got.Admin == nil || got.Admin.Admin != want.Admin.Admin {
		t.Fatalf("admin mismatch: %+v", got.Admin)
	}
	if len(got.Pools) != 1 || got.Pools[0].ClaimSupply != 42 || got.Pools[0].Token1 != want.Pools[0].Token1 {
		t.Fatalf("pools mismatch: %+v", got.Pools)
	}
	if len(got.Accounts) != 1 || got.Accounts[0].Balance != 7 {
		t.Fatalf("accounts mismatch: %+v", got.Accounts)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	checkRoundTrip(t, &FileStore{Path: path})
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}
}

func TestFileStoreRejectsDirectory(t *testing.T) {
	store := &FileStore{Path: t.TempDir()}
	if _, _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected error for directory path")
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := (&FileStore{Path: path}).Load(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLevelStoreRoundTrip(t *testing.T) {
	store, err := Open("leveldb", filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	checkRoundTrip(t, store)
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
