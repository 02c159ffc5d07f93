package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liquidityPool/internal/amm"
	"liquidityPool/internal/config"
	"liquidityPool/internal/custody"
	"liquidityPool/internal/metrics"
	"liquidityPool/internal/model"
	"liquidityPool/internal/state"
	"liquidityPool/internal/storage"
	"liquidityPool/internal/storage/postgres"
)

// session is one CLI invocation: state loaded from the store, an engine built
// over it, and the sinks it reports to.
type session struct {
	ctx      context.Context
	stop     context.CancelFunc
	cfg      config.Config
	logger   *zap.Logger
	store    state.Store
	ledger   *custody.Ledger
	engine   *amm.Engine
	registry *prometheus.Registry
	pg       *postgres.Store
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	policy, err := amm.ParseRatioPolicy(cfg.RatioPolicy)
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	s := &session{ctx: ctx, stop: stop, cfg: cfg, logger: logger, ledger: custody.NewLedger()}

	s.store, err = state.Open(cfg.StateBackend, cfg.StateFile)
	if err != nil {
		s.close()
		return nil, err
	}
	snap, found, err := s.store.Load(ctx)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	if err := s.ledger.Import(snap.Assets, snap.Accounts); err != nil {
		s.close()
		return nil, fmt.Errorf("import custody: %w", err)
	}

	s.registry = prometheus.NewRegistry()
	m, err := metrics.New(s.registry)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	var journal storage.Multi
	if cfg.Journal != "" {
		journal = append(journal, storage.NewJsonlStorage(cfg.Journal))
	}
	if cfg.PGDSN != "" {
		s.pg, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := s.pg.Migrate(ctx); err != nil {
			s.close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		journal = append(journal, s.pg)
	}

	s.engine = amm.NewEngine(amm.Config{
		Deployer:    cfg.Deployer,
		RatioPolicy: policy,
		Metrics:     m,
	}, s.ledger, journal, logger)
	if err := s.engine.Restore(snap.Admin, snap.Pools); err != nil {
		s.close()
		return nil, fmt.Errorf("restore engine: %w", err)
	}

	logger.Debug("session open",
		zap.String("state_backend", cfg.StateBackend),
		zap.String("state_file", cfg.StateFile),
		zap.Bool("state_found", found),
		zap.Int("pools", len(snap.Pools)),
		zap.String("journal", cfg.Journal),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("ratio_policy", string(policy)),
	)
	return s, nil
}

// save persists the engine and custody state and writes the metrics textfile.
func (s *session) save() error {
	admin, pools := s.engine.Export()
	assets, accounts := s.ledger.Export()
	snap := model.Snapshot{Admin: admin, Pools: pools, Assets: assets, Accounts: accounts}
	if err := s.store.Save(s.ctx, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := metrics.WriteTextfile(s.cfg.MetricsOut, s.registry); err != nil {
		s.logger.Warn("metrics textfile write failed", zap.String("path", s.cfg.MetricsOut), zap.Error(err))
	}
	return nil
}

func (s *session) close() {
	if s.pg != nil {
		s.pg.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close state store", zap.Error(err))
		}
	}
	s.stop()
	_ = s.logger.Sync()
}

// mutate runs fn inside a session and saves state when it succeeds.
func mutate(cmd *cobra.Command, fn func(s *session) (interface{}, error)) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	out, err := fn(s)
	if err != nil {
		// rejected operations still count in the metrics textfile
		if werr := metrics.WriteTextfile(s.cfg.MetricsOut, s.registry); werr != nil {
			s.logger.Warn("metrics textfile write failed", zap.Error(werr))
		}
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	return printJSON(cmd, out)
}

// inspect runs fn inside a session without saving.
func inspect(cmd *cobra.Command, fn func(s *session) (interface{}, error)) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	out, err := fn(s)
	if err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func addressFlag(cmd *cobra.Command, name string) (common.Address, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return common.Address{}, err
	}
	if value == "" {
		return common.Address{}, fmt.Errorf("--%s is required", name)
	}
	addr, err := config.ParseAddress(value)
	if err != nil {
		return common.Address{}, fmt.Errorf("--%s: %w", name, err)
	}
	return addr, nil
}

func addressFlags(cmd *cobra.Command, names ...string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(names))
	for _, name := range names {
		addr, err := addressFlag(cmd, name)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
