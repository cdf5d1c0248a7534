package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/potd/internal/keyring"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/storage/postgres"
)

// DSN sources, reported by `potd doctor`.
const (
	DSNSourceNone     = "none"
	DSNSourceEnv      = "environment"
	DSNSourceKeyring  = "keyring"
	DSNSourceConfig   = "config file"
	DSNSourceDisabled = "disabled"
)

// ResolveLeaderboardDSN finds the leaderboard connection string.
// Order: environment, OS keyring, config file. The environment and the
// keyring may carry a password; the config file may not, since it is
// plain text on disk. An empty DSN with a nil error means the leaderboard
// is not configured.
func (c *Config) ResolveLeaderboardDSN() (string, string, error) {
	if c.Leaderboard.Disabled {
		return "", DSNSourceDisabled, nil
	}

	if v := os.Getenv(EnvLeaderboardDSN); v != "" {
		return v, DSNSourceEnv, nil
	}

	dsn, err := keyring.GetLeaderboardDSN()
	switch {
	case err == nil:
		return dsn, DSNSourceKeyring, nil
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("Keyring lookup failed", "error", err)
	}

	if c.Leaderboard.DSN == "" {
		return "", DSNSourceNone, nil
	}
	if _, err := postgres.ValidateConnString(c.Leaderboard.DSN); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", DSNSourceConfig, fmt.Errorf("leaderboard dsn in %s embeds a password; store it with 'potd keyring set' or use .pgpass: %w", c.path, err)
		}
		return "", DSNSourceConfig, err
	}
	return c.Leaderboard.DSN, DSNSourceConfig, nil
}
