package chain

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const erc20ABIStringJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`

// Some older tokens return symbol as bytes32.
const erc20ABIBytes32JSON = `[
  {"inputs": [], "name": "symbol", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"}
]`

var (
	erc20ABIString      abi.ABI
	erc20ABIStringOnce  sync.Once
	erc20ABIStringErr   error
	erc20ABIBytes32     abi.ABI
	erc20ABIBytes32Once sync.Once
	erc20ABIBytes32Err  error
)

// TokenMeta is the ERC20 metadata needed to register an asset.
type TokenMeta struct {
	Address  common.Address
	Decimals uint8
	Symbol   string
}

// FetchTokenMeta reads decimals and symbol from an ERC20 contract. Each call
// is retried per policy. A missing symbol is logged and left empty.
func FetchTokenMeta(ctx context.Context, caller ContractCaller, token common.Address, policy RetryPolicy, logger *zap.Logger) (TokenMeta, error) {
	meta := TokenMeta{Address: token}
	if caller == nil {
		return meta, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	call := func(method string, parsed abi.ABI) ([]interface{}, error) {
		data, err := parsed.Pack(method)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", method, err)
		}
		msg := ethereum.CallMsg{To: &token, Data: data}
		var resp []byte
		err = withRetry(ctx, policy, func(ctx context.Context) error {
			var callErr error
			resp, callErr = caller.CallContract(ctx, msg, nil)
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		values, err := parsed.Unpack(method, resp)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", method, err)
		}
		return values, nil
	}

	values, err := call("decimals", stringABI)
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	if values, err := call("symbol", stringABI); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if values, err := call("symbol", bytes32ABI); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			meta.Symbol = symbol
		}
	} else {
		logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	return meta, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("decimals out of range: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func erc20ABIStringInstance() (abi.ABI, error) {
	erc20ABIStringOnce.Do(func() {
		erc20ABIString, erc20ABIStringErr = abi.JSON(strings.NewReader(erc20ABIStringJSON))
	})
	return erc20ABIString, erc20ABIStringErr
}

func erc20ABIBytes32Instance() (abi.ABI, error) {
	erc20ABIBytes32Once.Do(func() {
		erc20ABIBytes32, erc20ABIBytes32Err = abi.JSON(strings.NewReader(erc20ABIBytes32JSON))
	})
	return erc20ABIBytes32, erc20ABIBytes32Err
}
