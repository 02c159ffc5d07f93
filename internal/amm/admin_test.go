package amm

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/address"
)

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob      = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	mallory  = common.HexToAddress("0x00000000000000000000000000000000000000e3")
)

func TestAdminGateFirstCaller(t *testing.T) {
	gate := NewAdminGate(common.Address{})
	if !gate.FirstCallerWins() {
		t.Fatalf("zero deployer must allow first caller")
	}
	if err := gate.Authorize(alice); !errors.Is(err, ErrAdminUninitialized) {
		t.Fatalf("expected ErrAdminUninitialized, got %v", err)
	}
	if err := gate.Set(alice, bob); !errors.Is(err, ErrAdminUninitialized) {
		t.Fatalf("expected ErrAdminUninitialized, got %v", err)
	}
	if err := gate.Init(mallory, alice); err != nil {
		t.Fatalf("init: %v", err)
	}
	if admin, ok := gate.Admin(); !ok || admin != alice {
		t.Fatalf("admin: got %s %v", admin.Hex(), ok)
	}
}

func TestAdminGateDoubleInit(t *testing.T) {
	gate := NewAdminGate(common.Address{})
	if err := gate.Init(alice, alice); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := gate.Init(mallory, mallory); !errors.Is(err, ErrAdminInitialized) {
		t.Fatalf("expected ErrAdminInitialized, got %v", err)
	}
	if admin, _ := gate.Admin(); admin != alice {
		t.Fatalf("admin changed to %s", admin.Hex())
	}
}

func TestAdminGateDeployerOnly(t *testing.T) {
	gate := NewAdminGate(deployer)
	if gate.FirstCallerWins() {
		t.Fatalf("deployer gate must not allow first caller")
	}
	if err := gate.Init(mallory, mallory); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, ok := gate.Admin(); ok {
		t.Fatalf("gate initialized by non-deployer")
	}
	if err := gate.Init(deployer, alice); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := gate.Authorize(alice); err != nil {
		t.Fatalf("authorize: %v", err)
	}
}

func TestAdminGateSet(t *testing.T) {
	gate := NewAdminGate(common.Address{})
	if err := gate.Init(alice, alice); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := gate.Set(mallory, mallory); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if admin, _ := gate.Admin(); admin != alice {
		t.Fatalf("unauthorized set changed admin to %s", admin.Hex())
	}
	if err := gate.Set(alice, bob); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := gate.Authorize(alice); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old admin still authorized: %v", err)
	}
	if err := gate.Authorize(bob); err != nil {
		t.Fatalf("authorize new admin: %v", err)
	}
}

func TestAdminGateExportRestore(t *testing.T) {
	gate := NewAdminGate(common.Address{})
	if gate.export() != nil {
		t.Fatalf("uninitialized gate exported settings")
	}
	if err := gate.Init(alice, bob); err != nil {
		t.Fatalf("init: %v", err)
	}
	settings := gate.export()
	settings.Admin = mallory
	if admin, _ := gate.Admin(); admin != bob {
		t.Fatalf("export leaked internal state")
	}

	restored := NewAdminGate(common.Address{})
	restored.restore(gate.export())
	if got := restored.export(); got.Address != address.AdminSettings() {
		t.Fatalf("admin record address not derived: %s", got.Address.Hex())
	}
	if admin, ok := restored.Admin(); !ok || admin != bob {
		t.Fatalf("restore: got %s %v", admin.Hex(), ok)
	}
	if err := restored.Init(alice, alice); !errors.Is(err, ErrAdminInitialized) {
		t.Fatalf("restored gate must stay initialized, got %v", err)
	}
}
