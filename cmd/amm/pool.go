package main

import (
	"github.com/spf13/cobra"
)

func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().String("token0", "", "first pool asset (must sort before token1)")
	cmd.Flags().String("token1", "", "second pool asset")
}

func newPoolCmd() *cobra.Command {
	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Create pools and trade against them",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty pool (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "caller", "token0", "token1")
			if err != nil {
				return err
			}
			return mutate(cmd, func(s *session) (interface{}, error) {
				return s.engine.CreatePool(s.ctx, addrs[0], addrs[1], addrs[2])
			})
		},
	}
	createCmd.Flags().String("caller", "", "admin identity")
	addPairFlags(createCmd)

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Add liquidity and receive claim tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "owner", "token0", "token1")
			if err != nil {
				return err
			}
			amount0, _ := cmd.Flags().GetUint64("amount0")
			amount1, _ := cmd.Flags().GetUint64("amount1")
			return mutate(cmd, func(s *session) (interface{}, error) {
				return s.engine.Deposit(s.ctx, addrs[0], addrs[1], addrs[2], amount0, amount1)
			})
		},
	}
	depositCmd.Flags().String("owner", "", "depositor identity")
	addPairFlags(depositCmd)
	depositCmd.Flags().Uint64("amount0", 0, "requested token0 amount in base units")
	depositCmd.Flags().Uint64("amount1", 0, "requested token1 amount in base units")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Burn claim tokens for the pro-rata share of both reserves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "owner", "token0", "token1")
			if err != nil {
				return err
			}
			claim, _ := cmd.Flags().GetUint64("claim")
			return mutate(cmd, func(s *session) (interface{}, error) {
				return s.engine.Withdraw(s.ctx, addrs[0], addrs[1], addrs[2], claim)
			})
		},
	}
	withdrawCmd.Flags().String("owner", "", "claim holder identity")
	addPairFlags(withdrawCmd)
	withdrawCmd.Flags().Uint64("claim", 0, "claim tokens to burn")

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Sell an exact input amount for the other pool asset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "owner", "token0", "token1", "input")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			return mutate(cmd, func(s *session) (interface{}, error) {
				return s.engine.SwapExactInput(s.ctx, addrs[0], addrs[1], addrs[2], addrs[3], amount)
			})
		},
	}
	swapCmd.Flags().String("owner", "", "swapper identity")
	addPairFlags(swapCmd)
	swapCmd.Flags().String("input", "", "asset being sold (token0 or token1)")
	swapCmd.Flags().Uint64("amount", 0, "input amount in base units")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a pool and its reserves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "token0", "token1")
			if err != nil {
				return err
			}
			return inspect(cmd, func(s *session) (interface{}, error) {
				return s.engine.Pool(addrs[0], addrs[1])
			})
		},
	}
	addPairFlags(showCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect(cmd, func(s *session) (interface{}, error) {
				return s.engine.Pools(), nil
			})
		},
	}

	poolCmd.AddCommand(createCmd, depositCmd, withdrawCmd, swapCmd, showCmd, listCmd)
	return poolCmd
}
