package model

import "encoding/json"

// Operation names recorded in the journal.
const (
	OpInitAdmin  = "init_admin"
	OpSetAdmin   = "set_admin"
	OpCreatePool = "create_pool"
	OpDeposit    = "deposit"
	OpWithdraw   = "withdraw"
	OpSwap       = "swap_exact_input"
)

// OperationRecord is the journal entry for one committed operation.
// Amount0/Amount1 are the token0/token1 quantities that moved; In0 marks
// whether token0 flowed into the pool.
type OperationRecord struct {
	Op          string `json:"op"`
	Caller      string `json:"caller"`
	Pool        string `json:"pool,omitempty"`
	Token0      string `json:"token0,omitempty"`
	Token1      string `json:"token1,omitempty"`
	Amount0     uint64 `json:"amount0"`
	Amount1     uint64 `json:"amount1"`
	In0         bool   `json:"in0"`
	Claim       uint64 `json:"claim"`
	ClaimSupply uint64 `json:"claim_supply"`
	Admin       string `json:"admin,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// MarshalJSON ensures OperationRecord is encoded with stable field names.
func (r OperationRecord) MarshalJSON() ([]byte, error) {
	type Alias OperationRecord
	return json.Marshal(Alias(r))
}

// UnmarshalJSON decodes an OperationRecord from JSON.
func (r *OperationRecord) UnmarshalJSON(data []byte) error {
	type Alias OperationRecord
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = OperationRecord(a)
	return nil
}
