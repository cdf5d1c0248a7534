package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/cli/board"
	"github.com/julianstephens/potd/internal/cli/daily"
	"github.com/julianstephens/potd/internal/cli/settings"
	"github.com/julianstephens/potd/internal/cli/system"
	"github.com/julianstephens/potd/internal/config"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_file}"`
	Ledger  string `help:"Ledger path (overrides the config file). A .json path uses the flat file store."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize the ledger and store your handle."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run ledger and leaderboard migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today    daily.TodayCmd       `cmd:"" help:"Show the problem of the day."`
	Check    daily.CheckCmd       `cmd:"" help:"Check whether today's problems are solved."`
	Streak   daily.StreakCmd      `cmd:"" help:"Show the current and best streak."`
	History  daily.HistoryCmd     `cmd:"" help:"Show a calendar of solved days."`
	Board    board.LeaderboardCmd `cmd:"" name:"leaderboard" help:"Show the shared streak leaderboard."`
	Sync     board.SyncCmd        `cmd:"" help:"Push your streak to the leaderboard."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage handle and timezone."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the leaderboard connection string in the OS keyring."`
	Watch    system.WatchCmd      `cmd:"" help:"Poll for solves and notify the tray when the streak moves."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Notify   system.NotifyCmd     `cmd:"" hidden:"" help:"Send a reminder notification (used by schedulers)."`
}

// standalone commands manage the ledger or credentials themselves and run
// without a loaded ledger.
var standalone = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
	"debug":   true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Problem of the day companion: a daily pick, a solve streak and a shared leaderboard"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": config.ExpandPath(constants.DefaultConfigFile),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
	if CLI.Ledger != "" {
		cfg.Ledger = config.ExpandPath(CLI.Ledger)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
	}

	appCtx := cli.NewContext(cfg)

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !standalone[command[0]] {
		if err := appCtx.Open(context.Background()); err != nil {
			_ = appCtx.Close()
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close ledger", "error", cerr)
	}
	errors.Fatal(err)
}
