package model

import "github.com/ethereum/go-ethereum/common"

// AdminSettings holds the single identity allowed to create pools.
type AdminSettings struct {
	Address common.Address `json:"address"`
	Admin   common.Address `json:"admin"`
}

// Snapshot is the full persisted engine and custody state.
type Snapshot struct {
	Admin    *AdminSettings `json:"admin,omitempty"`
	Pools    []Pool         `json:"pools"`
	Assets   []AssetMeta    `json:"assets"`
	Accounts []Account      `json:"accounts"`
	SavedAt  string         `json:"saved_at,omitempty"`
}
