package main

import (
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview operations without moving funds",
	}

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Preview a swap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "token0", "token1", "input")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetUint64("amount")
			return inspect(cmd, func(s *session) (interface{}, error) {
				return s.engine.QuoteSwap(addrs[0], addrs[1], addrs[2], amount)
			})
		},
	}
	addPairFlags(swapCmd)
	swapCmd.Flags().String("input", "", "asset being sold")
	swapCmd.Flags().Uint64("amount", 0, "input amount in base units")

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Preview a deposit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "token0", "token1")
			if err != nil {
				return err
			}
			amount0, _ := cmd.Flags().GetUint64("amount0")
			amount1, _ := cmd.Flags().GetUint64("amount1")
			return inspect(cmd, func(s *session) (interface{}, error) {
				return s.engine.QuoteDeposit(addrs[0], addrs[1], amount0, amount1)
			})
		},
	}
	addPairFlags(depositCmd)
	depositCmd.Flags().Uint64("amount0", 0, "requested token0 amount")
	depositCmd.Flags().Uint64("amount1", 0, "requested token1 amount")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Preview a withdrawal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := addressFlags(cmd, "token0", "token1")
			if err != nil {
				return err
			}
			claim, _ := cmd.Flags().GetUint64("claim")
			return inspect(cmd, func(s *session) (interface{}, error) {
				return s.engine.QuoteWithdraw(addrs[0], addrs[1], claim)
			})
		},
	}
	addPairFlags(withdrawCmd)
	withdrawCmd.Flags().Uint64("claim", 0, "claim tokens to burn")

	quoteCmd.AddCommand(swapCmd, depositCmd, withdrawCmd)
	return quoteCmd
}
