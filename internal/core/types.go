package core

import "time"

// Config represents the complete steamscordbot configuration structure
type Config struct {
	CommandPrefix string               `yaml:"command_prefix"`
	Steam         SteamConfig          `yaml:"steam"`
	Commands      CommandsConfig       `yaml:"commands"`
	Bots          map[string]BotConfig `yaml:"bots"`
	Security      SecurityConfig       `yaml:"security"`
	StatusServer  StatusServerConfig   `yaml:"status_server"`
	Logging       LoggingConfig        `yaml:"logging"`
}

// SteamConfig represents the Steam Web API client configuration
type SteamConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`            // default: https://api.steampowered.com
	Timeout           time.Duration `yaml:"timeout"`             // per command invocation (default: 10s)
	RequestsPerSecond float64       `yaml:"requests_per_second"` // shared by all commands (default: 10)
	FriendConcurrency int           `yaml:"friend_concurrency"`  // parallel library fetches (default: 4)
	MaxFriends        int           `yaml:"max_friends"`         // friends inspected by owned/recent (default: 100)
}

// CommandsConfig represents chat command settings
type CommandsConfig struct {
	DefaultCount int `yaml:"default_count"` // default: 5
	MaxCount     int `yaml:"max_count"`     // default: 25
}

// BotConfig represents bot configuration
type BotConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// SecurityConfig represents security and access control configuration
type SecurityConfig struct {
	WhitelistEnabled bool                `yaml:"whitelist_enabled"`
	AllowedUsers     map[string][]string `yaml:"allowed_users"` // platform -> user IDs
}

// StatusServerConfig represents the health and metrics HTTP server
type StatusServerConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"` // default: 8080
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // text or json (default: json, text at debug level)
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     bool   `yaml:"compress"`      // Whether to compress old logs
	EnableStdout *bool  `yaml:"enable_stdout"` // Also output to stdout (default: true)
}

// Overrides are values given on the command line or in the environment.
// Empty fields leave the configuration untouched.
type Overrides struct {
	SteamAPIKey   string `env:"STEAM_APIKEY"`
	DiscordToken  string `env:"DISCORD_TOKEN"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	Prefix        string `env:"STEAMSCORDBOT_PREFIX"`
	LogLevel      string `env:"STEAMSCORDBOT_LOG_LEVEL"`
}
