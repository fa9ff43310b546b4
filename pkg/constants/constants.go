package constants

import "time"

// Message length limits for different platforms
const (
	// MaxDiscordMessageLength is Discord's message character limit
	MaxDiscordMessageLength = 2000
	// MaxTelegramMessageLength is Telegram's message character limit
	MaxTelegramMessageLength = 4096
)

// Command defaults
const (
	// DefaultCommandPrefix is the token that marks a chat message as a bot command
	DefaultCommandPrefix = "!$"
	// DefaultResultCount is used when a command omits its count argument
	DefaultResultCount = 5
	// MaxResultCount is the upper bound a count argument is clamped to
	MaxResultCount = 25
)

// Steam Web API defaults
const (
	// SteamAPIOrigin is the base URL of the Steam Web API
	SteamAPIOrigin = "https://api.steampowered.com"
	// DefaultSteamTimeout bounds every command invocation
	DefaultSteamTimeout = 10 * time.Second
	// DefaultRequestsPerSecond is the shared outgoing Steam request rate
	DefaultRequestsPerSecond = 10
	// DefaultFriendConcurrency is the number of friend libraries fetched in parallel
	DefaultFriendConcurrency = 4
	// DefaultMaxFriends caps how many friends are inspected for game statistics
	DefaultMaxFriends = 100
	// MaxSummariesPerRequest is the GetPlayerSummaries batch size accepted by Steam
	MaxSummariesPerRequest = 100
)

// Timeouts and delays
const (
	// DefaultPollTimeout is the timeout for long polling operations
	DefaultPollTimeout = 60 * time.Second
	// ShutdownTimeout is how long the status server gets to drain on shutdown
	ShutdownTimeout = 5 * time.Second
)

// Message buffer sizes
const (
	// MessageChannelBufferSize is the buffer size for the message channel
	MessageChannelBufferSize = 100
)

// Secret masking
const (
	// MinSecretLengthForMasking is the minimum secret length to apply partial masking
	MinSecretLengthForMasking = 10
	// SecretMaskPrefixLength is the length of prefix to show before masking
	SecretMaskPrefixLength = 4
	// SecretMaskSuffixLength is the length of suffix to show after masking
	SecretMaskSuffixLength = 4
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxBackups is the default number of rotated files to keep
	DefaultLogMaxBackups = 5
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
