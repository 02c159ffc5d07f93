// Package address derives deterministic record addresses from a namespace tag
// and a list of keys, so any caller can recompute pool, authority, claim-mint
// and account addresses without a lookup table.
package address

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namespace tags.
const (
	NamespacePool       = "pool"
	NamespaceAuthority  = "pool_authority"
	NamespaceClaimMint  = "tokenliq"
	NamespaceAdmin      = "admin"
	NamespaceAssociated = "associated"
)

// Derive hashes the length-prefixed namespace followed by the keys and
// returns the low 20 bytes of the keccak256 digest.
func Derive(namespace string, keys ...[]byte) common.Address {
	parts := make([][]byte, 0, len(keys)+2)
	parts = append(parts, []byte{byte(len(namespace))}, []byte(namespace))
	parts = append(parts, keys...)
	return common.BytesToAddress(crypto.Keccak256(parts...)[12:])
}

// Pool returns the pool record address for an ordered pair.
func Pool(token0, token1 common.Address) common.Address {
	return Derive(NamespacePool, token0.Bytes(), token1.Bytes())
}

// Authority returns the custody authority that signs for a pool's vaults and
// claim mint.
func Authority(pool, token0, token1 common.Address) common.Address {
	return Derive(NamespaceAuthority, pool.Bytes(), token0.Bytes(), token1.Bytes())
}

// ClaimMint returns the asset identifier of a pool's claim token.
func ClaimMint(pool, token0, token1 common.Address) common.Address {
	return Derive(NamespaceClaimMint, pool.Bytes(), token0.Bytes(), token1.Bytes())
}

// AdminSettings returns the address of the admin record.
func AdminSettings() common.Address {
	return Derive(NamespaceAdmin)
}

// Associated returns the custody account address of owner for asset.
func Associated(owner, asset common.Address) common.Address {
	return Derive(NamespaceAssociated, owner.Bytes(), asset.Bytes())
}
