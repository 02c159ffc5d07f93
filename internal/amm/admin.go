package amm

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"liquidityPool/internal/address"
	"liquidityPool/internal/model"
)

// AdminGate is the Uninitialized -> Initialized(admin) state machine that
// gates pool creation.
type AdminGate struct {
	mu       sync.RWMutex
	deployer common.Address
	settings *model.AdminSettings
}

// NewAdminGate returns an uninitialized gate. When deployer is non-zero only
// the deployer may initialize it; otherwise the first caller does.
func NewAdminGate(deployer common.Address) *AdminGate {
	return &AdminGate{deployer: deployer}
}

// Init moves the gate to Initialized(newAdmin). It succeeds exactly once.
func (g *AdminGate) Init(caller, newAdmin common.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.settings != nil {
		return ErrAdminInitialized
	}
	if g.deployer != (common.Address{}) && caller != g.deployer {
		return ErrUnauthorized
	}
	g.settings = &model.AdminSettings{Address: address.AdminSettings(), Admin: newAdmin}
	return nil
}

// Set reassigns the admin. Only the current admin may call it.
func (g *AdminGate) Set(caller, newAdmin common.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.settings == nil {
		return ErrAdminUninitialized
	}
	if caller != g.settings.Admin {
		return ErrUnauthorized
	}
	g.settings.Admin = newAdmin
	return nil
}

// Authorize fails unless caller is the current admin.
func (g *AdminGate) Authorize(caller common.Address) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.settings == nil {
		return ErrAdminUninitialized
	}
	if caller != g.settings.Admin {
		return ErrUnauthorized
	}
	return nil
}

// Admin returns the current admin and whether the gate is initialized.
func (g *AdminGate) Admin() (common.Address, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.settings == nil {
		return common.Address{}, false
	}
	return g.settings.Admin, true
}

// FirstCallerWins reports whether any caller may initialize the gate.
func (g *AdminGate) FirstCallerWins() bool {
	return g.deployer == (common.Address{})
}

func (g *AdminGate) export() *model.AdminSettings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.settings == nil {
		return nil
	}
	settings := *g.settings
	return &settings
}

func (g *AdminGate) restore(settings *model.AdminSettings) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if settings == nil {
		g.settings = nil
		return
	}
	copied := *settings
	copied.Address = address.AdminSettings()
	g.settings = &copied
}
