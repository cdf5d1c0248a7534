package constants

import "time"

const (
	AppName            = "potd"
	DefaultKeyringUser = "leaderboard-connection"
	DefaultConfigDir   = "~/.config/potd"
	DefaultLedgerPath  = "~/.config/potd/potd.db"
	DefaultConfigFile  = "~/.config/potd/config.yaml"
	Version            = "v0.3.0"

	// Ledger keys
	KeyStreakData = "streakData"
	KeyPOTDData   = "potdData"
	KeySettings   = "settings"

	// Judge API
	DefaultJudgeBaseURL   = "https://codeforces.com/api"
	DefaultJudgeTimeout   = 10 * time.Second
	DefaultJudgeRateEvery = 2 * time.Second
	DefaultJudgeBurst     = 4
	AcceptedVerdict       = "OK"
	StatusOK              = "OK"
	SolveCheckCount       = 50
	SolvedSetCount        = 500
	MaxResponseBytes      = 32 << 20

	// Problem selection windows
	GlobalMinRating       = 800
	GlobalMaxRating       = 2000
	BeginnerRatingCeiling = 1000
	BeginnerMinRating     = 800
	BeginnerMaxRating     = 1200
	PersonalWindow        = 200

	// Leaderboard
	LeaderboardTable          = "leaderboard"
	DefaultLeaderboardTimeout = 5 * time.Second
	DefaultLeaderboardLimit   = 10

	// Watch / notify
	DefaultWatchInterval   = 15 * time.Minute
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "potd-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.potd"
	TrayExecutablePrefix   = "potd-tray"
)
