// Package migrations holds the embedded SQL schema for the local ledger
// (sqlite/) and the shared leaderboard (postgres/).
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
