package constants

const (
	SettingHandle   = "handle"
	SettingTimezone = "timezone"

	DefaultTimezone = "Local" // Use system local timezone by default
)
