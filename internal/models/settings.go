package models

// Settings represents user preferences kept in the local ledger.
type Settings struct {
	Handle   string `json:"handle"`   // judge handle, empty when only the global problem is wanted
	Timezone string `json:"timezone"` // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
}
