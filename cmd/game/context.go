package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
	"github.com/Garsondee/Drift-Gallery/internal/config"
	"github.com/Garsondee/Drift-Gallery/internal/logging"
	"github.com/Garsondee/Drift-Gallery/internal/prng"
)

// commandContext resolves config, logger and asset source once per process.
type commandContext struct {
	configFlag   *string
	assetsFlag   *string
	baseURLFlag  *string
	logLevelFlag *string
	seedFlag     *int64

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, assetsFlag, baseURLFlag, logLevelFlag *string, seedFlag *int64) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		assetsFlag:   assetsFlag,
		baseURLFlag:  baseURLFlag,
		logLevelFlag: logLevelFlag,
		seedFlag:     seedFlag,
	}
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if v := flagValue(c.assetsFlag); v != "" {
			cfg.Assets.Dir = v
		}
		if v := flagValue(c.baseURLFlag); v != "" {
			cfg.Assets.BaseURL = strings.TrimRight(v, "/")
		}
		if v := flagValue(c.logLevelFlag); v != "" {
			cfg.Logging.Level = strings.ToLower(v)
		}
		if c.seedFlag != nil && *c.seedFlag != -1 {
			seed := *c.seedFlag
			if seed < 0 || seed > math.MaxUint32 {
				c.configErr = fmt.Errorf("--seed %d out of range (0..%d)", seed, uint32(math.MaxUint32))
				return
			}
			cfg.Seed = uint32(seed)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

// newSource picks HTTP when a base URL is configured and the assets directory
// otherwise.
func newSource(cfg *config.Config) (catalog.Source, error) {
	if cfg.Assets.BaseURL != "" {
		timeout := time.Duration(cfg.Assets.TimeoutSeconds) * time.Second
		return catalog.NewHTTPSource(cfg.Assets.BaseURL, nil, timeout)
	}
	info, err := os.Stat(cfg.Assets.Dir)
	if err != nil {
		return nil, fmt.Errorf("assets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets directory %s is not a directory", cfg.Assets.Dir)
	}
	return catalog.NewDirSource(os.DirFS(cfg.Assets.Dir), cfg.Assets.Dir), nil
}

// probeCatalog counts the images behind src and builds the startup pairs.
func probeCatalog(ctx context.Context, cfg *config.Config, src catalog.Source, logger *slog.Logger) (int, []catalog.Pair) {
	count := catalog.DiscoverCount(ctx, src, logging.NewComponentLogger(logger, "catalog"))
	pairs := catalog.BuildPairs(count, prng.New(cfg.Seed))
	return count, pairs
}
