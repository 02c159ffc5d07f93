package model

import "github.com/ethereum/go-ethereum/common"

// AssetMeta describes a fungible asset held in custody.
type AssetMeta struct {
	Address       common.Address `json:"address"`
	Decimals      uint8          `json:"decimals"`
	Symbol        string         `json:"symbol"`
	MintAuthority common.Address `json:"mint_authority"`
	Supply        uint64         `json:"supply"`
}

// Account is a custody balance of one asset owned by one identity.
type Account struct {
	Address common.Address `json:"address"`
	Owner   common.Address `json:"owner"`
	Asset   common.Address `json:"asset"`
	Balance uint64         `json:"balance"`
}
