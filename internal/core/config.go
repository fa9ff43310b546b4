// Package core wires the Steam command dispatcher to the chat platforms.
//
// It handles:
//
//   - Configuration loading and validation (YAML file, environment, flags)
//   - Message routing between bot adapters and the command dispatcher
//   - The optional status HTTP server (/healthz and /metrics)
//   - Graceful shutdown and cleanup
//
// # Configuration
//
// Values are layered: command-line flags over environment variables over the
// optional YAML file over defaults. A .env file in the working directory is
// loaded into the environment first.
//
//	command_prefix: "!$"
//	steam:
//	  api_key: "${STEAM_APIKEY}"
//	  timeout: 10s
//	commands:
//	  default_count: 5
//	  max_count: 25
//	bots:
//	  discord:
//	    enabled: true
//	    token: "${DISCORD_TOKEN}"
//	status_server:
//	  enabled: true
//	  port: 8080
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/esabouraud/steamscordbot/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStatusPort = 8080
	DefaultLogLevel   = "info"

	BotDiscord  = "discord"
	BotTelegram = "telegram"
)

// knownBots lists the platforms an adapter exists for
var knownBots = []string{BotDiscord, BotTelegram}

// LoadConfig builds the configuration from the optional YAML file at
// configPath, the environment and flags, then applies defaults.
func LoadConfig(configPath string, flags Overrides) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	config := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expandedData, err := expandEnv(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to expand environment variables: %w", err)
		}

		if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	var fromEnv Overrides
	if err := env.Parse(&fromEnv); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	config.apply(fromEnv)
	config.apply(flags)

	setDefaults(config)
	return config, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		missingVars = append(missingVars, key)
		return ""
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}

	return result, nil
}

// apply copies the non-empty overrides into the configuration. A bot token
// for a platform absent from the file enables that platform.
func (c *Config) apply(o Overrides) {
	if o.SteamAPIKey != "" {
		c.Steam.APIKey = o.SteamAPIKey
	}
	if o.Prefix != "" {
		c.CommandPrefix = o.Prefix
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	c.setBotToken(BotDiscord, o.DiscordToken)
	c.setBotToken(BotTelegram, o.TelegramToken)
}

func (c *Config) setBotToken(botType, token string) {
	if token == "" {
		return
	}
	if c.Bots == nil {
		c.Bots = make(map[string]BotConfig)
	}
	bot, exists := c.Bots[botType]
	if !exists {
		bot.Enabled = true
	}
	bot.Token = token
	c.Bots[botType] = bot
}

// setDefaults fills every unset field
func setDefaults(config *Config) {
	if config.CommandPrefix == "" {
		config.CommandPrefix = constants.DefaultCommandPrefix
	}

	if config.Steam.BaseURL == "" {
		config.Steam.BaseURL = constants.SteamAPIOrigin
	}
	if config.Steam.Timeout == 0 {
		config.Steam.Timeout = constants.DefaultSteamTimeout
	}
	if config.Steam.RequestsPerSecond == 0 {
		config.Steam.RequestsPerSecond = constants.DefaultRequestsPerSecond
	}
	if config.Steam.FriendConcurrency == 0 {
		config.Steam.FriendConcurrency = constants.DefaultFriendConcurrency
	}
	if config.Steam.MaxFriends == 0 {
		config.Steam.MaxFriends = constants.DefaultMaxFriends
	}

	if config.Commands.DefaultCount == 0 {
		config.Commands.DefaultCount = constants.DefaultResultCount
	}
	if config.Commands.MaxCount == 0 {
		config.Commands.MaxCount = constants.MaxResultCount
	}

	if config.StatusServer.Port == 0 {
		config.StatusServer.Port = DefaultStatusPort
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = constants.DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = constants.DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = constants.DefaultLogMaxAge
	}
	if config.Logging.EnableStdout == nil {
		enabled := true
		config.Logging.EnableStdout = &enabled
	}
}

// Validate checks the configuration. requireBot is set when the chat bots are
// about to be started; the one-shot lookup only needs the Steam key.
func (c *Config) Validate(requireBot bool) error {
	if c.Steam.APIKey == "" {
		return fmt.Errorf("steam api key is required (--steam-apikey, STEAM_APIKEY or steam.api_key)")
	}
	if c.CommandPrefix == "" || strings.ContainsAny(c.CommandPrefix, " \t\n") {
		return fmt.Errorf("command_prefix must be non-empty and contain no whitespace (got %q)", c.CommandPrefix)
	}
	if c.Steam.Timeout < 0 {
		return fmt.Errorf("steam.timeout must be positive (got %v)", c.Steam.Timeout)
	}
	if c.Steam.RequestsPerSecond < 0 {
		return fmt.Errorf("steam.requests_per_second must be positive (got %v)", c.Steam.RequestsPerSecond)
	}
	if c.Steam.FriendConcurrency < 0 || c.Steam.MaxFriends < 0 {
		return fmt.Errorf("steam.friend_concurrency and steam.max_friends must be positive")
	}
	if c.Commands.MaxCount < 1 {
		return fmt.Errorf("commands.max_count must be at least 1 (got %d)", c.Commands.MaxCount)
	}
	if c.Commands.DefaultCount < 1 || c.Commands.DefaultCount > c.Commands.MaxCount {
		return fmt.Errorf("commands.default_count must be between 1 and %d (got %d)", c.Commands.MaxCount, c.Commands.DefaultCount)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}

	for botType := range c.Bots {
		if !slices.Contains(knownBots, botType) {
			return fmt.Errorf("unsupported bot type %q (supported: %s)", botType, strings.Join(knownBots, ", "))
		}
	}
	for _, botType := range c.EnabledBots() {
		if c.Bots[botType].Token == "" {
			return fmt.Errorf("bots.%s is enabled but has no token", botType)
		}
	}
	if requireBot && len(c.EnabledBots()) == 0 {
		return fmt.Errorf("at least one bot must be enabled (--discord-token, DISCORD_TOKEN or bots.discord)")
	}

	if c.Security.WhitelistEnabled && len(c.Security.AllowedUsers) == 0 {
		return fmt.Errorf("security.allowed_users cannot be empty when whitelist is enabled")
	}

	return nil
}

// EnabledBots returns the enabled bot types in a stable order
func (c *Config) EnabledBots() []string {
	var enabled []string
	for _, botType := range knownBots {
		if bot, ok := c.Bots[botType]; ok && bot.Enabled {
			enabled = append(enabled, botType)
		}
	}
	return enabled
}

// GetBotConfig retrieves configuration for a specific bot
func (c *Config) GetBotConfig(botType string) (BotConfig, error) {
	bot, exists := c.Bots[botType]
	if !exists {
		return BotConfig{}, fmt.Errorf("bot type %s not found in configuration", botType)
	}

	if !bot.Enabled {
		return BotConfig{}, fmt.Errorf("bot type %s is disabled", botType)
	}

	return bot, nil
}

// IsUserAuthorized checks if a user is in the whitelist
func (c *Config) IsUserAuthorized(platform, userID string) bool {
	// If whitelist is disabled, allow all users
	if !c.Security.WhitelistEnabled {
		return true
	}

	userIDs, exists := c.Security.AllowedUsers[platform]
	if !exists {
		return false
	}
	return slices.Contains(userIDs, userID)
}
