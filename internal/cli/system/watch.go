package system

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/metrics"
	"github.com/julianstephens/potd/internal/notifier"
	"github.com/julianstephens/potd/internal/potd"
)

// WatchCmd polls for a solve and notifies the tray when the streak moves.
type WatchCmd struct {
	Interval    time.Duration `help:"Time between checks (defaults to the configured interval)."`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address, e.g. ':9464'."`
	Once        bool          `help:"Run one check and exit."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = ctx.Config.Watch.Interval
	}
	addr := c.MetricsAddr
	if addr == "" {
		addr = ctx.Config.Watch.MetricsAddr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unsub := notifier.New().Attach(sigCtx, ctx.Hub.Streak)
	defer unsub()

	if addr != "" {
		srv := serveMetrics(addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	handle := ctx.Handle("")
	logger.Info("Watching for solves", "handle", handle, "interval", interval)
	c.check(sigCtx, ctx, handle)
	if c.Once {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-sigCtx.Done():
			logger.Info("Watch stopped")
			return nil
		case <-ticker.C:
			c.check(sigCtx, ctx, handle)
		}
	}
}

// check runs one Today pass. Failures are logged; the next tick retries.
func (c *WatchCmd) check(ctx context.Context, cc *cli.Context, handle string) (potd.Result, error) {
	res, err := cc.Service.Today(ctx, potd.Request{Handle: handle})
	if err != nil {
		if !errors.Is(err, errors.ErrSuperseded) {
			logger.Warn("Check failed", "error", err)
		}
		return res, err
	}
	metrics.SetStreak(res.Streak.Count, res.Streak.Max)
	logger.Debug("Checked problem of the day",
		"date", res.Selection.Date,
		"cached", res.Cached,
		"known", res.Status.Known,
		"streak", res.Streak.Count,
	)
	return res, nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return srv
}
