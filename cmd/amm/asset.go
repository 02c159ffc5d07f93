package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityPool/internal/chain"
	"liquidityPool/internal/config"
	"liquidityPool/internal/model"
)

func newAssetCmd() *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Register, mint and inspect custody assets",
	}

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register an asset with explicit metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asset, err := addressFlag(cmd, "address")
			if err != nil {
				return err
			}
			authority, err := optionalAddressFlag(cmd, "mint-authority")
			if err != nil {
				return err
			}
			decimals, _ := cmd.Flags().GetUint8("decimals")
			symbol, _ := cmd.Flags().GetString("symbol")
			return mutate(cmd, func(s *session) (interface{}, error) {
				return registerAsset(s, model.AssetMeta{
					Address:       asset,
					Decimals:      decimals,
					Symbol:        symbol,
					MintAuthority: authority,
				})
			})
		},
	}
	registerCmd.Flags().String("address", "", "asset identity")
	registerCmd.Flags().Uint8("decimals", 0, "asset decimals")
	registerCmd.Flags().String("symbol", "", "asset symbol")
	registerCmd.Flags().String("mint-authority", "", "identity allowed to mint the asset")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Register an ERC20 asset with decimals and symbol read over RPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := addressFlag(cmd, "token")
			if err != nil {
				return err
			}
			authority, err := optionalAddressFlag(cmd, "mint-authority")
			if err != nil {
				return err
			}
			return mutate(cmd, func(s *session) (interface{}, error) {
				if s.cfg.RPCURL == "" {
					return nil, fmt.Errorf("rpc url is required")
				}
				client, err := chain.NewClient(s.ctx, s.cfg.RPCURL)
				if err != nil {
					return nil, fmt.Errorf("connect rpc: %w", err)
				}
				defer client.Close()

				meta, err := chain.FetchTokenMeta(s.ctx, client, token, chain.RetryPolicy{
					MaxRetries: s.cfg.MaxRetries,
					Backoff:    s.cfg.RetryBackoff,
				}, s.logger)
				if err != nil {
					return nil, fmt.Errorf("fetch token metadata: %w", err)
				}
				return registerAsset(s, model.AssetMeta{
					Address:       meta.Address,
					Decimals:      meta.Decimals,
					Symbol:        meta.Symbol,
					MintAuthority: authority,
				})
			})
		},
	}
	importCmd.Flags().String("token", "", "ERC20 token address")
	importCmd.Flags().String("mint-authority", "", "identity allowed to mint the asset locally")

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint asset units to an owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "asset", "to", "authority")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			return mutate(cmd, func(s *session) (interface{}, error) {
				tx := s.ledger.Begin()
				defer tx.Rollback()
				if err := tx.MintTo(addrs[0], addrs[1], addrs[2], amount); err != nil {
					return nil, err
				}
				if err := tx.Commit(); err != nil {
					return nil, err
				}
				s.logger.Info("mint",
					zap.String("asset", addrs[0].Hex()),
					zap.String("to", addrs[1].Hex()),
					zap.Uint64("amount", amount),
				)
				return balanceView(s, addrs[1], addrs[0]), nil
			})
		},
	}
	mintCmd.Flags().String("asset", "", "asset identity")
	mintCmd.Flags().String("to", "", "recipient identity")
	mintCmd.Flags().String("authority", "", "mint authority signing the mint")
	mintCmd.Flags().Uint64("amount", 0, "amount in base units")

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print an owner's balance of an asset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "owner", "asset")
			if err != nil {
				return err
			}
			return inspect(cmd, func(s *session) (interface{}, error) {
				if _, err := s.ledger.Asset(addrs[1]); err != nil {
					return nil, err
				}
				return balanceView(s, addrs[0], addrs[1]), nil
			})
		},
	}
	balanceCmd.Flags().String("owner", "", "owner identity")
	balanceCmd.Flags().String("asset", "", "asset identity")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every registered asset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect(cmd, func(s *session) (interface{}, error) {
				assets, _ := s.ledger.Export()
				return assets, nil
			})
		},
	}

	assetCmd.AddCommand(registerCmd, importCmd, mintCmd, balanceCmd, listCmd)
	return assetCmd
}

func registerAsset(s *session, meta model.AssetMeta) (model.AssetMeta, error) {
	if err := s.ledger.RegisterAsset(meta); err != nil {
		return model.AssetMeta{}, err
	}
	s.logger.Info("asset registered",
		zap.String("asset", meta.Address.Hex()),
		zap.Uint8("decimals", meta.Decimals),
		zap.String("symbol", meta.Symbol),
	)
	return s.ledger.Asset(meta.Address)
}

func balanceView(s *session, owner, asset common.Address) map[string]interface{} {
	return map[string]interface{}{
		"owner":   owner.Hex(),
		"asset":   asset.Hex(),
		"balance": s.ledger.Balance(owner, asset),
	}
}

func optionalAddressFlag(cmd *cobra.Command, name string) (common.Address, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return common.Address{}, nil
	}
	addr, err := config.ParseAddress(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return addr, nil
}
