package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func newFlags(t *testing.T, envFile string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("env-file", envFile, "")
	flags.String("state-file", "./data/amm-state.json", "")
	flags.String("ratio-policy", "legacy", "")
	flags.String("log-level", "info", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", newFlags(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateBackend != "file" || cfg.Journal != "./data/operations.jsonl" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxRetries != 5 || cfg.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.Deployer != (common.Address{}) {
		t.Fatalf("deployer should default to zero")
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	envFile := filepath.Join(dir, "test.env")
	content := "AMM_DEPLOYER=0x00000000000000000000000000000000000000d0\nAMM_JOURNAL=/tmp/ops.jsonl\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("AMM_STATE_BACKEND", "LevelDB")
	// godotenv only fills unset variables; t.Setenv restores them afterwards.
	t.Setenv("AMM_DEPLOYER", "")
	t.Setenv("AMM_JOURNAL", "")
	os.Unsetenv("AMM_DEPLOYER")
	os.Unsetenv("AMM_JOURNAL")

	flags := newFlags(t, envFile)
	if err := flags.Parse([]string{"--ratio-policy", "proportional"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Deployer != common.HexToAddress("0x00000000000000000000000000000000000000d0") {
		t.Fatalf("deployer from env file: %s", cfg.Deployer.Hex())
	}
	if cfg.Journal != "/tmp/ops.jsonl" {
		t.Fatalf("journal from env file: %s", cfg.Journal)
	}
	if cfg.StateBackend != "leveldb" {
		t.Fatalf("state backend from env: %s", cfg.StateBackend)
	}
	if cfg.RatioPolicy != "proportional" {
		t.Fatalf("ratio policy from flag: %s", cfg.RatioPolicy)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "amm.yaml")
	if err := os.WriteFile(path, []byte("metrics-out: ./metrics.prom\nmax-retries: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, newFlags(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MetricsOut != "./metrics.prom" || cfg.MaxRetries != 2 {
		t.Fatalf("config file values not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AMM_DEPLOYER", "not-an-address")
	if _, err := Load("", newFlags(t, "")); err == nil {
		t.Fatalf("expected invalid deployer error")
	}

	t.Setenv("AMM_DEPLOYER", "")
	t.Setenv("AMM_STATE_BACKEND", "redis")
	if _, err := Load("", newFlags(t, "")); err == nil {
		t.Fatalf("expected invalid backend error")
	}
}

func TestParseAddress(t *testing.T) {
	if _, err := ParseAddress("0x12"); err == nil {
		t.Fatalf("expected error for short address")
	}
	addr, err := ParseAddress(" 0x00000000000000000000000000000000000000a1 ")
	if err != nil || addr != common.HexToAddress("0xa1") {
		t.Fatalf("parse: %s %v", addr.Hex(), err)
	}
}
