package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	StateFile    string
	StateBackend string
	Journal      string
	PGDSN        string
	Deployer     common.Address
	RatioPolicy  string
	MetricsOut   string
	RPCURL       string
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// Load merges an optional .env file, config file, environment variables, and
// flags into Config. Flags win over env, env over file.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	envFile := ".env"
	if flags != nil {
		if f := flags.Lookup("env-file"); f != nil {
			envFile = f.Value.String()
		}
	}
	if err := loadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("AMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("state-file", "./data/amm-state.json")
	v.SetDefault("state-backend", "file")
	v.SetDefault("journal", "./data/operations.jsonl")
	v.SetDefault("ratio-policy", "legacy")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	deployer, err := parseOptionalAddress(v.GetString("deployer"))
	if err != nil {
		return Config{}, fmt.Errorf("deployer: %w", err)
	}

	cfg := Config{
		StateFile:    v.GetString("state-file"),
		StateBackend: strings.ToLower(v.GetString("state-backend")),
		Journal:      v.GetString("journal"),
		PGDSN:        v.GetString("pg-dsn"),
		Deployer:     deployer,
		RatioPolicy:  v.GetString("ratio-policy"),
		MetricsOut:   v.GetString("metrics-out"),
		RPCURL:       v.GetString("rpc"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	switch cfg.StateBackend {
	case "file", "leveldb":
	default:
		return Config{}, fmt.Errorf("state-backend must be file or leveldb, got %q", cfg.StateBackend)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ParseAddress parses a required hex identity.
func ParseAddress(value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address %q", value)
	}
	return common.HexToAddress(value), nil
}

func parseOptionalAddress(value string) (common.Address, error) {
	if strings.TrimSpace(value) == "" {
		return common.Address{}, nil
	}
	return ParseAddress(value)
}
