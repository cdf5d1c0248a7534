package system

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/cli/clitest"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/models"
)

// newBareContext returns a context whose ledger has not been created yet.
func newBareContext(t *testing.T, ledgerName string) *cli.Context {
	t.Helper()
	j := clitest.NewJudge(clitest.Catalog())
	ctx := cli.NewContext(clitest.Config(t.TempDir(), clitest.Serve(t, j), ledgerName))
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func stubPrompt(t *testing.T, tty bool, answer string) *int {
	t.Helper()
	calls := 0
	origPrompt, origTTY := promptHandle, interactive
	promptHandle = func() (string, error) {
		calls++
		return answer, nil
	}
	interactive = func() bool { return tty }
	t.Cleanup(func() {
		promptHandle, interactive = origPrompt, origTTY
	})
	return &calls
}

func TestInitCmd_SavesSettings(t *testing.T) {
	stubPrompt(t, false, "")
	ctx := newBareContext(t, "")

	cmd := &InitCmd{Handle: "alice", Timezone: "America/New_York"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	settings, err := ctx.Ledger.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings.Handle != "alice" || settings.Timezone != "America/New_York" {
		t.Errorf("settings = %+v", settings)
	}
}

func TestInitCmd_DefaultTimezone(t *testing.T) {
	stubPrompt(t, false, "")
	ctx := newBareContext(t, "")

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	settings, _ := ctx.Ledger.GetSettings()
	if settings.Timezone != constants.DefaultTimezone {
		t.Errorf("timezone = %q, want %q", settings.Timezone, constants.DefaultTimezone)
	}
	if settings.Handle != "" {
		t.Errorf("handle = %q, want empty", settings.Handle)
	}
}

func TestInitCmd_PromptsOnTerminal(t *testing.T) {
	calls := stubPrompt(t, true, "bob")
	ctx := newBareContext(t, "")

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if *calls != 1 {
		t.Errorf("prompt called %d times, want 1", *calls)
	}
	settings, _ := ctx.Ledger.GetSettings()
	if settings.Handle != "bob" {
		t.Errorf("handle = %q, want bob", settings.Handle)
	}
}

func TestInitCmd_NoPrompt(t *testing.T) {
	calls := stubPrompt(t, true, "bob")
	ctx := newBareContext(t, "")

	if err := (&InitCmd{NoPrompt: true}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if *calls != 0 {
		t.Errorf("prompt called %d times with --no-prompt", *calls)
	}
}

func TestInitCmd_KeepsExistingHandle(t *testing.T) {
	calls := stubPrompt(t, true, "bob")
	ctx := newBareContext(t, "")

	if err := (&InitCmd{Handle: "alice"}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if *calls != 0 {
		t.Errorf("prompt called although a handle was stored")
	}
	settings, _ := ctx.Ledger.GetSettings()
	if settings.Handle != "alice" {
		t.Errorf("handle = %q, want alice", settings.Handle)
	}
}

func TestInitCmd_RejectsInvalidInput(t *testing.T) {
	stubPrompt(t, false, "")

	tests := []struct {
		name string
		cmd  InitCmd
	}{
		{"handle with spaces", InitCmd{Handle: "not a handle"}},
		{"unknown timezone", InitCmd{Timezone: "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newBareContext(t, "")
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInitCmd_Force(t *testing.T) {
	stubPrompt(t, false, "")
	ctx := newBareContext(t, "")

	if err := (&InitCmd{Handle: "alice"}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := ctx.Ledger.SaveStreak(models.StreakRecord{Count: 2, Max: 2, LastSolved: "2025-03-09", History: []string{"2025-03-08", "2025-03-09"}}); err != nil {
		t.Fatalf("SaveStreak() failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	rec, err := ctx.Ledger.LoadStreak()
	if err != nil {
		t.Fatalf("LoadStreak() failed: %v", err)
	}
	if rec.Count != 0 || len(rec.History) != 0 {
		t.Errorf("streak survived --force: %+v", rec)
	}
	settings, _ := ctx.Ledger.GetSettings()
	if settings.Handle != "" {
		t.Errorf("handle survived --force: %q", settings.Handle)
	}
}

func TestInitCmd_JSONLedger(t *testing.T) {
	stubPrompt(t, false, "")
	ctx := newBareContext(t, "potd.json")

	if err := (&InitCmd{Handle: "alice"}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if filepath.Ext(ctx.Ledger.Provider().GetConfigPath()) != ".json" {
		t.Fatalf("ledger path = %s", ctx.Ledger.Provider().GetConfigPath())
	}
	data, err := ctx.Ledger.Provider().Get(constants.KeySettings)
	if err != nil {
		t.Fatalf("Get(settings) failed: %v", err)
	}
	var s models.Settings
	if err := json.Unmarshal(data, &s); err != nil || s.Handle != "alice" {
		t.Errorf("stored settings = %s (%v)", data, err)
	}
}
