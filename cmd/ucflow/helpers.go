package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CodeQwQ/ucflow"
	"github.com/CodeQwQ/ucflow/internal/config"
	"github.com/CodeQwQ/ucflow/internal/logging"
	"github.com/CodeQwQ/ucflow/pkg/adapters/file"
	loamAdapter "github.com/CodeQwQ/ucflow/pkg/adapters/loam"
	"github.com/CodeQwQ/ucflow/pkg/adapters/memory"
	"github.com/CodeQwQ/ucflow/pkg/adapters/redis"
	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/transform"
	"github.com/spf13/cobra"
)

// setup holds everything a command needs, resolved from config and flags.
type setup struct {
	cfg    config.Config
	logger *slog.Logger
	loader ports.UseCaseLoader
	mode   transform.Mode
	resume transform.ResumePolicy
}

func loadSetup(cmd *cobra.Command) (*setup, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(config.Options{Path: path})
	if err != nil {
		return nil, err
	}

	if flags.Changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("resume") {
		cfg.ResumePolicy, _ = flags.GetString("resume")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	mode, err := transform.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	resume, err := transform.ParseResumePolicy(cfg.ResumePolicy)
	if err != nil {
		return nil, err
	}

	dir, _ := flags.GetString("dir")
	kind, _ := flags.GetString("loader")
	loader, err := newLoader(kind, dir)
	if err != nil {
		return nil, err
	}

	return &setup{
		cfg:    cfg,
		logger: logging.New(level),
		loader: loader,
		mode:   mode,
		resume: resume,
	}, nil
}

func newLoader(kind, dir string) (ports.UseCaseLoader, error) {
	switch kind {
	case "loam", "":
		return loamAdapter.Open(dir)
	case "file":
		return file.NewLoader(dir), nil
	}
	return nil, fmt.Errorf("unknown loader %q (want loam or file)", kind)
}

func (s *setup) transformOptions() []transform.Option {
	return []transform.Option{
		transform.WithResumePolicy(s.resume),
	}
}

func (s *setup) engine(opts ...ucflow.Option) (*ucflow.Engine, error) {
	base := []ucflow.Option{
		ucflow.WithLoader(s.loader),
		ucflow.WithLogger(s.logger),
		ucflow.WithMode(s.mode),
		ucflow.WithResumePolicy(s.resume),
	}
	return ucflow.New("", append(base, opts...)...)
}

// store returns a Redis store when an address is configured, a file store when a
// results directory is, and an in-memory one otherwise.
func (s *setup) store(ctx context.Context) (ports.ResultStore, func() error, error) {
	noop := func() error { return nil }
	rc := s.cfg.Redis
	if rc.Addr == "" {
		if s.cfg.ResultsDir != "" {
			s.logger.Info("Using file result store", "dir", s.cfg.ResultsDir)
			return file.NewStore(s.cfg.ResultsDir), noop, nil
		}
		return memory.NewStore(), noop, nil
	}

	var opts []redis.Option
	if rc.TTL > 0 {
		opts = append(opts, redis.WithTTL(rc.TTL))
	}
	if rc.Prefix != "" {
		opts = append(opts, redis.WithPrefix(rc.Prefix))
	}
	store := redis.New(rc.Addr, rc.Password, rc.DB, opts...)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("redis unreachable at %s: %w", rc.Addr, err)
	}
	s.logger.Info("Using Redis result store", "addr", rc.Addr, "db", rc.DB)
	return store, store.Close, nil
}

// names returns args, or every known use case when args is empty.
func names(cmd *cobra.Command, eng *ucflow.Engine, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return eng.List(cmd.Context())
}
