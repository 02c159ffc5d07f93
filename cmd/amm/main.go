package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "amm",
		Short:        "Constant-product liquidity pool engine",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("env-file", ".env", "dotenv file loaded before reading AMM_* variables")
	flags.String("state-file", "./data/amm-state.json", "state file (file backend) or directory (leveldb backend)")
	flags.String("state-backend", "file", "state backend (file, leveldb)")
	flags.String("journal", "./data/operations.jsonl", "operation journal JSONL path, empty to disable")
	flags.String("pg-dsn", "", "optional Postgres DSN for the operation journal")
	flags.String("deployer", "", "identity allowed to initialize the admin, empty means first caller")
	flags.String("ratio-policy", "legacy", "deposit ratio policy (legacy, proportional)")
	flags.String("metrics-out", "", "optional Prometheus textfile output path")
	flags.String("rpc", "", "EVM RPC URL for asset import")
	flags.Int("max-retries", 5, "maximum RPC retry attempts")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newAdminCmd(), newPoolCmd(), newAssetCmd(), newQuoteCmd())
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
