package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/storage"
	"github.com/julianstephens/potd/internal/storage/postgres"
	"github.com/julianstephens/potd/internal/storage/sqlite"
	"github.com/julianstephens/potd/internal/utils"
	"github.com/julianstephens/potd/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair conflicts that a ledger load can heal."`
}

// warning is a check result that is reported but does not fail doctor.
type warning struct{ msg string }

func (w warning) Error() string { return w.msg }

type check struct {
	name string
	run  func() error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	report := func(name string, err error) {
		var w warning
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", name)
		case errors.As(err, &w):
			fmt.Printf("⚠ %s: WARNING\n", name)
			fmt.Printf("   %s\n", w.msg)
		default:
			fmt.Printf("❌ %s: FAIL\n", name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}
	skip := func(name, why string) {
		fmt.Printf("⊘ %s: SKIPPED (%s)\n", name, why)
	}

	ledgerChecks := []check{
		{"Schema version", func() error { return checkSchemaVersion(ctx) }},
		{"Ledger data", func() error { return checkLedgerData(ctx, cmd.Fix) }},
	}

	ledgerErr := checkLedgerReachable(ctx)
	report("Ledger reachable", ledgerErr)
	for _, c := range ledgerChecks {
		if ledgerErr != nil {
			skip(c.name, "ledger not reachable")
			continue
		}
		report(c.name, c.run())
	}

	report("Clock/timezone", checkClockTimezone(ctx))
	report("Judge reachable", checkJudge(ctx))

	if err := checkLeaderboard(ctx); errors.Is(err, errSkipped) {
		skip("Leaderboard", "not configured")
	} else {
		report("Leaderboard", err)
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

var errSkipped = errors.New("skipped")

func warn(format string, args ...any) error {
	return warning{msg: fmt.Sprintf(format, args...)}
}

func checkLedgerReachable(ctx *cli.Context) error {
	store := ctx.Ledger.Provider()
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if s, ok := store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query ledger: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Ledger.Provider().(*sqlite.Store)
	if !ok {
		// JSON ledgers have no schema.
		return nil
	}
	current, latest, err := s.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("ledger schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

// readRaw decodes key as stored, before the ledger repairs anything.
func readRaw(store storage.Provider, key string, v any) (bool, error) {
	data, err := store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("malformed %s value: %w", key, err)
	}
	return true, nil
}

func rawLedger(ctx *cli.Context) (models.StreakRecord, *models.DailySelection, models.Settings, error) {
	store := ctx.Ledger.Provider()

	var rec models.StreakRecord
	if _, err := readRaw(store, constants.KeyStreakData, &rec); err != nil {
		return rec, nil, models.Settings{}, err
	}
	var sel models.DailySelection
	ok, err := readRaw(store, constants.KeyPOTDData, &sel)
	if err != nil {
		return rec, nil, models.Settings{}, err
	}
	var selection *models.DailySelection
	if ok && sel.Date != "" {
		selection = &sel
	}
	var settings models.Settings
	if _, err := readRaw(store, constants.KeySettings, &settings); err != nil {
		return rec, selection, settings, err
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	return rec, selection, settings, nil
}

func checkLedgerData(ctx *cli.Context, fix bool) error {
	rec, sel, settings, err := rawLedger(ctx)
	if err != nil {
		return err
	}
	today, err := utils.TodayInTimezone(ctx.Now(), settings.Timezone)
	if err != nil {
		today = utils.TodayIn(ctx.Now(), nil)
	}

	result := validation.New().ValidateLedger(rec, sel, settings, today)
	if !result.HasConflicts() {
		return nil
	}
	if !result.Healable() {
		return errors.New(result.FormatReport())
	}
	if !fix {
		return warn("%s(run '%s doctor --fix' to repair)", result.FormatReport(), constants.AppName)
	}
	if _, err := ctx.Ledger.Load(); err != nil {
		return fmt.Errorf("failed to repair ledger: %w", err)
	}
	fmt.Printf("   Repaired %d conflict(s)\n", len(result.Conflicts))
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Ledger.GetSettings()
	if err != nil {
		return warn("could not read timezone setting: %v", err)
	}
	today, err := utils.TodayInTimezone(now, settings.Timezone)
	if err != nil {
		return err
	}
	fmt.Printf("   Today is %s in %s\n", today, timezoneName(settings.Timezone))
	return nil
}

func checkJudge(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(context.Background(), ctx.Config.Judge.Timeout)
	defer cancel()
	if err := ctx.Judge.Ping(c); err != nil {
		// Cached selections still work offline.
		return warn("%s is not reachable: %v", ctx.Judge.Host(), err)
	}
	return nil
}

func checkLeaderboard(ctx *cli.Context) error {
	dsn, source, err := ctx.Config.ResolveLeaderboardDSN()
	if err != nil {
		return err
	}
	if dsn == "" {
		return errSkipped
	}
	c, cancel := context.WithTimeout(context.Background(), ctx.Config.Leaderboard.Timeout)
	defer cancel()

	store := postgres.New(dsn)
	defer store.Close()
	if err := store.Load(c); err != nil {
		return fmt.Errorf("%s (from %s): %w", postgres.Describe(dsn), source, err)
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return warn("leaderboard schema at version %d, latest %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func timezoneName(tz string) string {
	if tz == "" || tz == "Local" {
		return "the system timezone"
	}
	return tz
}
