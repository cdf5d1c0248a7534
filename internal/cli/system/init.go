package system

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/config"
	"github.com/julianstephens/potd/internal/storage/postgres"
	"github.com/julianstephens/potd/internal/utils"
	"github.com/julianstephens/potd/internal/validation"
)

type InitCmd struct {
	Force    bool   `help:"Delete the existing ledger before initializing."`
	Handle   string `help:"Judge handle for the personal problem and the streak."`
	Timezone string `help:"IANA timezone that defines the day boundary, or 'Local'."`
	NoPrompt bool   `help:"Never prompt for a handle."`
}

// promptHandle is swapped out in tests.
var promptHandle = func() (string, error) {
	var handle string
	err := huh.NewInput().
		Title("Judge handle").
		Description("Used to pick your personal problem and track your streak. Leave empty to skip.").
		Value(&handle).
		Validate(func(s string) error { return validation.ValidateHandle(strings.TrimSpace(s)) }).
		Run()
	return strings.TrimSpace(handle), err
}

// interactive reports whether stdin is a terminal.
var interactive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	store := ctx.Ledger.Provider()
	path := store.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(path); err == nil {
			// Close first so the file is not held open on Windows.
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close existing ledger: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing ledger: %w", err)
			}
			fmt.Printf("Deleted existing ledger at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing ledger: %w", err)
		}
	}

	if err := store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized potd ledger at: %s\n", path)

	settings, err := ctx.Ledger.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	handle := strings.TrimSpace(c.Handle)
	if handle == "" {
		handle = settings.Handle
	}
	if handle == "" && !c.NoPrompt && interactive() {
		if handle, err = promptHandle(); err != nil {
			return fmt.Errorf("failed to read handle: %w", err)
		}
	}
	if err := validation.ValidateHandle(handle); err != nil {
		return err
	}
	settings.Handle = handle

	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if !utils.ValidateTimezone(tz) {
			return fmt.Errorf("invalid timezone %q", tz)
		}
		settings.Timezone = tz
	}

	if err := ctx.Ledger.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Settings = settings
	if handle == "" {
		fmt.Println("No handle set; only the global problem will be shown.")
	} else {
		fmt.Printf("Handle: %s\n", handle)
	}
	fmt.Printf("Timezone: %s\n", settings.Timezone)

	return initLeaderboard(ctx)
}

// initLeaderboard creates the leaderboard schema when a DSN is configured.
// An unreachable leaderboard is reported but does not fail init.
func initLeaderboard(ctx *cli.Context) error {
	dsn, source, err := ctx.Config.ResolveLeaderboardDSN()
	if err != nil {
		return err
	}
	if dsn == "" {
		if source == config.DSNSourceDisabled {
			fmt.Println("Leaderboard: disabled")
		} else {
			fmt.Println("Leaderboard: not configured")
		}
		return nil
	}

	c, cancel := context.WithTimeout(context.Background(), ctx.Config.Leaderboard.Timeout)
	defer cancel()

	store := postgres.New(dsn)
	defer store.Close()
	if err := store.Init(c); err != nil {
		fmt.Printf("⚠ Leaderboard at %s could not be initialized: %v\n", postgres.Describe(dsn), err)
		return nil
	}
	fmt.Printf("Leaderboard: ready at %s (from %s)\n", postgres.Describe(dsn), source)
	return nil
}
