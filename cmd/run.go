package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hejvi/hejvi/internal/config"
	"github.com/hejvi/hejvi/internal/content"
	"github.com/hejvi/hejvi/internal/feed"
	"github.com/hejvi/hejvi/internal/logging"
	"github.com/hejvi/hejvi/internal/media"
	"github.com/hejvi/hejvi/internal/player"
	"github.com/hejvi/hejvi/internal/store"
)

// runtime is what the commands share: configuration, the log file and
// the local store.
type runtime struct {
	cfg      config.Config
	logger   *logging.Logger
	store    *store.Store
	closeLog func() error
}

// openRuntime reads the configuration, applies the persistent flags and
// opens the log file and the store.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.Log.Path = v
	}
	if cfg.Log.Path == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		cfg.Log.Path = p
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	cfg.Store.Path = dbPath

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	return &runtime{cfg: cfg, logger: logger, store: st, closeLog: closeLog}, nil
}

func (r *runtime) Close() {
	r.store.Close()
	r.closeLog()
}

// client returns the content API client. Every call is logged and
// recorded as a fetch event.
func (r *runtime) client() content.Client {
	api := r.cfg.API
	c := content.NewHTTPClient(api.BaseURL, content.StaticToken{Value: api.Token},
		content.WithTimeout(api.Timeout))
	return content.WithLogging(c, r.store.EventRepo(), r.logger)
}

func (r *runtime) normalizer() (media.Normalizer, error) {
	api := r.cfg.API
	return media.NewNormalizer(api.BaseURL, api.MediaHost, api.MediaPrefix)
}

// session builds a viewing session backed by the store.
func (r *runtime) session(ctx context.Context, client content.Client, autoplay *player.Autoplay) (*feed.Session, error) {
	norm, err := r.normalizer()
	if err != nil {
		return nil, fmt.Errorf("media URLs: %w", err)
	}

	sess := feed.NewSession(client, player.Factory(autoplay))
	sess.Prefs = r.store.PrefsRepo()
	sess.Events = r.store.EventRepo()
	sess.Positions = r.store.PositionRepo()
	sess.Normalizer = norm
	sess.Pools = feed.GenericPools{
		Success: r.cfg.Generic.SuccessIDs,
		Failure: r.cfg.Generic.FailureIDs,
	}
	sess.Logger = r.logger.With("session", sess.ID)

	if err := sess.LoadPrefs(ctx); err != nil {
		r.logger.Warn("load preferences", "err", err)
	}
	return sess, nil
}
