package system

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/storage"
)

type DebugCmd struct {
	Path DebugPathCmd `cmd:"" help:"Show ledger and config paths."`
	Dump DebugDumpCmd `cmd:"" help:"Dump raw ledger values as JSON."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"ledger": ctx.Ledger.Provider().GetConfigPath(),
		"config": ctx.Config.Path(),
	}
	return printJSON(output)
}

type DebugDumpCmd struct {
	Key string `arg:"" optional:"" help:"Ledger key to dump (streakData, potdData or settings). Dumps every key when omitted."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	store := ctx.Ledger.Provider()
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if cmd.Key != "" && !isKnownKey(cmd.Key) {
		return fmt.Errorf("unknown ledger key %q (expected one of %v)", cmd.Key, knownKeys)
	}

	keys := []string{cmd.Key}
	if cmd.Key == "" {
		var err error
		if keys, err = store.Keys(); err != nil {
			return err
		}
	}

	out, err := dumpKeys(store, keys)
	if err != nil {
		return err
	}
	if cmd.Key != "" {
		return printJSON(out[cmd.Key])
	}
	return printJSON(out)
}

// dumpKeys reads keys verbatim. Values that are not valid JSON are returned
// as strings so a corrupt ledger can still be inspected.
func dumpKeys(store storage.Provider, keys []string) (map[string]any, error) {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		data, err := store.Get(k)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("ledger has no %s value", k)
		}
		if err != nil {
			return nil, err
		}
		if json.Valid(data) {
			out[k] = json.RawMessage(data)
		} else {
			out[k] = string(data)
		}
	}
	return out, nil
}

// knownKeys lists the keys the ledger writes.
var knownKeys = []string{constants.KeyStreakData, constants.KeyPOTDData, constants.KeySettings}

func isKnownKey(k string) bool {
	return slices.Contains(knownKeys, k)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
