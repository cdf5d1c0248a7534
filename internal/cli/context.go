package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/potd/internal/config"
	"github.com/julianstephens/potd/internal/events"
	"github.com/julianstephens/potd/internal/judge"
	"github.com/julianstephens/potd/internal/leaderboard"
	"github.com/julianstephens/potd/internal/ledger"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/potd"
	"github.com/julianstephens/potd/internal/storage/postgres"
	"github.com/julianstephens/potd/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Config *config.Config
	Ledger *ledger.Ledger
	Judge  *judge.Client
	Hub    *events.Hub

	// Set by Open.
	Settings  models.Settings
	Location  *time.Location
	Board     *postgres.LeaderboardStore // nil when no leaderboard is reachable
	BoardErr  error                      // why Board is nil, if a DSN was configured
	DSNSource string
	Syncer    *leaderboard.Syncer
	Service   *potd.Service

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewContext wires the pieces that do not touch disk or network.
func NewContext(cfg *config.Config) *Context {
	return &Context{
		Config: cfg,
		Ledger: ledger.New(ledger.OpenProvider(cfg.Ledger)),
		Judge: judge.New(judge.Options{
			BaseURL:   cfg.Judge.BaseURL,
			Timeout:   cfg.Judge.Timeout,
			RateEvery: cfg.Judge.RateEvery,
			Burst:     cfg.Judge.Burst,
		}),
		Hub: events.NewHub(),
		Now: time.Now,
	}
}

// Open loads the ledger, resolves the timezone and connects the
// leaderboard. A leaderboard that cannot be reached only disables sync.
func (c *Context) Open(ctx context.Context) error {
	if err := c.Ledger.Provider().Load(); err != nil {
		return err
	}
	settings, err := c.Ledger.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q in settings: %w", settings.Timezone, err)
	}
	c.Settings = settings
	c.Location = loc

	var remote leaderboard.Remote
	if store := c.connectLeaderboard(ctx); store != nil {
		c.Board = store
		remote = store
	}
	c.Wire(remote)
	return nil
}

// Wire builds the syncer and service over remote, which may be nil.
func (c *Context) Wire(remote leaderboard.Remote) {
	c.Syncer = leaderboard.NewSyncer(remote, c.Config.Leaderboard.Timeout, c.Hub.Sync)
	c.Service = potd.NewService(potd.Deps{
		Judge:    c.Judge,
		Ledger:   c.Ledger,
		Syncer:   c.Syncer,
		Hub:      c.Hub,
		Location: c.Location,
		Now:      c.Now,
	})
}

func (c *Context) connectLeaderboard(ctx context.Context) *postgres.LeaderboardStore {
	dsn, source, err := c.Config.ResolveLeaderboardDSN()
	c.DSNSource = source
	if err != nil {
		c.BoardErr = err
		logger.Warn("Leaderboard disabled", "source", source, "error", err)
		return nil
	}
	if dsn == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.Config.Leaderboard.Timeout)
	defer cancel()

	store := postgres.New(dsn)
	if err := store.Load(ctx); err != nil {
		_ = store.Close()
		c.BoardErr = err
		logger.Warn("Leaderboard unavailable", "target", postgres.Describe(dsn), "error", err)
		return nil
	}
	return store
}

// Handle returns override when set, otherwise the configured handle.
func (c *Context) Handle(override string) string {
	if override != "" {
		return override
	}
	return c.Settings.Handle
}

// Today returns today's date key in the configured timezone.
func (c *Context) Today() string {
	return utils.TodayIn(c.Now(), c.Location)
}

// Close waits for background syncs and releases both stores.
func (c *Context) Close() error {
	if c.Service != nil {
		c.Service.Wait()
	}
	if c.Board != nil {
		if err := c.Board.Close(); err != nil {
			logger.Warn("Failed to close leaderboard", "error", err)
		}
	}
	return c.Ledger.Provider().Close()
}
