package system

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/cli/clitest"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/models"
)

func setupDoctor(t *testing.T) (*cli.Context, *clitest.Judge) {
	t.Helper()
	j := clitest.NewJudge(clitest.Catalog())
	return clitest.NewContext(t, j, clitest.Options{Handle: "alice"}), j
}

// writeRawStreak stores rec without the ledger's normalization.
func writeRawStreak(t *testing.T, ctx *cli.Context, rec models.StreakRecord) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to marshal streak: %v", err)
	}
	if err := ctx.Ledger.Provider().Set(constants.KeyStreakData, data); err != nil {
		t.Fatalf("failed to write streak: %v", err)
	}
}

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx, _ := setupDoctor(t)
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy ledger: %v", err)
	}
}

func TestDoctorCmd_JudgeDownIsWarning(t *testing.T) {
	ctx, j := setupDoctor(t)
	j.SetDown(true)
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("an unreachable judge should only warn: %v", err)
	}
}

func TestDoctorCmd_MissingLedger(t *testing.T) {
	ctx := newBareContext(t, "")
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail without a ledger")
	}
}

func TestDoctorCmd_FutureHistory(t *testing.T) {
	ctx, _ := setupDoctor(t)
	writeRawStreak(t, ctx, models.StreakRecord{
		Count: 1, Max: 1, LastSolved: "2025-04-01", History: []string{"2025-04-01"},
	})
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on history after today")
	}
}

func TestDoctorCmd_HealableConflict(t *testing.T) {
	ctx, _ := setupDoctor(t)
	raw := models.StreakRecord{
		Count: 3, Max: 1, LastSolved: "2025-03-09",
		History: []string{"2025-03-07", "2025-03-08", "2025-03-09"},
	}
	writeRawStreak(t, ctx, raw)

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("healable conflicts should only warn: %v", err)
	}
	rec, _, _, err := rawLedger(ctx)
	if err != nil {
		t.Fatalf("rawLedger() failed: %v", err)
	}
	if rec.Max != 1 {
		t.Errorf("doctor without --fix changed the ledger: %+v", rec)
	}

	if err := (&DoctorCmd{Fix: true}).Run(ctx); err != nil {
		t.Fatalf("doctor --fix failed: %v", err)
	}
	rec, _, _, err = rawLedger(ctx)
	if err != nil {
		t.Fatalf("rawLedger() failed: %v", err)
	}
	if rec.Max != 3 {
		t.Errorf("max after --fix = %d, want 3", rec.Max)
	}
}

func TestDoctorCmd_MalformedValue(t *testing.T) {
	ctx, _ := setupDoctor(t)
	if err := ctx.Ledger.Provider().Set(constants.KeyPOTDData, []byte("{not json")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on a malformed ledger value")
	}
}

func TestCheckSchemaVersion(t *testing.T) {
	ctx, _ := setupDoctor(t)
	if err := checkSchemaVersion(ctx); err != nil {
		t.Errorf("checkSchemaVersion() on a fresh ledger = %v", err)
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx, _ := setupDoctor(t)
	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("checkClockTimezone() = %v", err)
	}

	if err := ctx.Ledger.SaveSettings(models.Settings{Handle: "alice", Timezone: "Mars/Olympus"}); err != nil {
		t.Fatal(err)
	}
	if err := checkClockTimezone(ctx); err == nil {
		t.Error("checkClockTimezone() should fail on an unknown timezone")
	}
}
