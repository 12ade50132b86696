// Package config loads launchledger.yml and builds the stores it names.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/launchledger/internal/store"
	"github.com/bryan-cox/launchledger/internal/supabase"
)

// DefaultFile is read when --config is not given. A missing default file is not an error.
const DefaultFile = "launchledger.yml"

// DataDir holds local state when the file drivers are used.
const DataDir = ".launchledger"

// RedisPasswordEnv names the environment variable holding the Redis password.
const RedisPasswordEnv = "LAUNCHLEDGER_REDIS_PASSWORD"

// Plan store drivers.
const (
	PlanDriverFile   = "file"
	PlanDriverRedis  = "redis"
	PlanDriverMemory = "memory"
)

// Milestone store drivers.
const (
	MilestoneDriverSQLite   = "sqlite"
	MilestoneDriverPostgres = "postgres"
	MilestoneDriverSupabase = "supabase"
	MilestoneDriverMemory   = "memory"
)

// PlanStoreConfig selects where per-plan progress is kept.
type PlanStoreConfig struct {
	Driver    string `yaml:"driver"`
	Dir       string `yaml:"dir,omitempty"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
}

// MilestoneStoreConfig selects where milestones are kept.
type MilestoneStoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
	URL    string `yaml:"url,omitempty"`
}

// Config models launchledger.yml.
type Config struct {
	UserID         string               `yaml:"user_id"`
	PlanStore      PlanStoreConfig      `yaml:"plan_store"`
	MilestoneStore MilestoneStoreConfig `yaml:"milestone_store"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		UserID: "local",
		PlanStore: PlanStoreConfig{
			Driver: PlanDriverFile,
			Dir:    filepath.Join(DataDir, "plans"),
		},
		MilestoneStore: MilestoneStoreConfig{
			Driver: MilestoneDriverSQLite,
			DSN:    filepath.Join(DataDir, "milestones.db"),
		},
	}
}

// Load reads path over the defaults. When required is false a missing file yields the defaults.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks driver names and required settings.
func (c Config) Validate() error {
	switch c.PlanStore.Driver {
	case PlanDriverFile:
		if c.PlanStore.Dir == "" {
			return errors.New("plan_store.dir is required for the file driver")
		}
	case PlanDriverRedis:
		if c.PlanStore.RedisAddr == "" {
			return errors.New("plan_store.redis_addr is required for the redis driver")
		}
	case PlanDriverMemory:
	default:
		return fmt.Errorf("unknown plan_store.driver %q", c.PlanStore.Driver)
	}

	switch c.MilestoneStore.Driver {
	case MilestoneDriverSQLite, MilestoneDriverPostgres:
		if c.MilestoneStore.DSN == "" {
			return fmt.Errorf("milestone_store.dsn is required for the %s driver", c.MilestoneStore.Driver)
		}
	case MilestoneDriverSupabase:
		if c.MilestoneStore.URL == "" {
			return errors.New("milestone_store.url is required for the supabase driver")
		}
	case MilestoneDriverMemory:
	default:
		return fmt.Errorf("unknown milestone_store.driver %q", c.MilestoneStore.Driver)
	}
	return nil
}

// OpenPlanStore builds the configured plan store.
func (c Config) OpenPlanStore() (store.PlanStore, error) {
	switch c.PlanStore.Driver {
	case PlanDriverFile:
		return store.NewFilePlanStore(c.PlanStore.Dir), nil
	case PlanDriverRedis:
		return store.NewRedisPlanStore(c.PlanStore.RedisAddr, os.Getenv(RedisPasswordEnv)), nil
	case PlanDriverMemory:
		return store.NewMemoryPlanStore(), nil
	}
	return nil, fmt.Errorf("unknown plan_store.driver %q", c.PlanStore.Driver)
}

// OpenMilestoneStore builds the configured milestone store. The returned close
// function releases any connection and is never nil.
func (c Config) OpenMilestoneStore(ctx context.Context) (store.MilestoneStore, func() error, error) {
	noop := func() error { return nil }
	switch c.MilestoneStore.Driver {
	case MilestoneDriverSQLite, MilestoneDriverPostgres:
		if c.MilestoneStore.Driver == MilestoneDriverSQLite {
			if dir := filepath.Dir(c.MilestoneStore.DSN); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, noop, fmt.Errorf("config: create %s: %w", dir, err)
				}
			}
		}
		s, err := store.OpenSQLMilestoneStore(ctx, store.Dialect(c.MilestoneStore.Driver), c.MilestoneStore.DSN)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case MilestoneDriverSupabase:
		client, err := supabase.NewFromEnv(c.MilestoneStore.URL)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil
	case MilestoneDriverMemory:
		return store.NewMemoryMilestoneStore(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown milestone_store.driver %q", c.MilestoneStore.Driver)
}
