package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/utils"
	"github.com/julianstephens/potd/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Handle   *string `help:"Judge handle used for the personal problem and the streak. Pass an empty value to clear it."`
	Timezone *string `help:"IANA timezone that defines the day boundary, or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Ledger.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		handle := settings.Handle
		if handle == "" {
			handle = "(none)"
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  Handle:   %s\n", handle)
		fmt.Printf("  Timezone: %s\n", settings.Timezone)
		fmt.Printf("  Ledger:   %s\n", ctx.Ledger.Provider().GetConfigPath())
		return nil
	}

	updated := false
	if c.Handle != nil {
		handle := strings.TrimSpace(*c.Handle)
		if err := validation.ValidateHandle(handle); err != nil {
			return err
		}
		settings.Handle = handle
		updated = true
	}
	if c.Timezone != nil {
		tz := strings.TrimSpace(*c.Timezone)
		if !utils.ValidateTimezone(tz) {
			return fmt.Errorf("invalid timezone %q", tz)
		}
		if tz == "" {
			tz = constants.DefaultTimezone
		}
		settings.Timezone = tz
		updated = true
	}

	if updated {
		if err := ctx.Ledger.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Settings = settings
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
