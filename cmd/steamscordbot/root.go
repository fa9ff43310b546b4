package main

import (
	"fmt"
	"io"
	"os"

	"github.com/esabouraud/steamscordbot/internal/command"
	"github.com/esabouraud/steamscordbot/internal/core"
	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/esabouraud/steamscordbot/internal/steam"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configFile string
	overrides  core.Overrides
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "steamscordbot",
		Short: "steamscordbot answers chat commands with Steam profile and game statistics",
		Long: `steamscordbot is a chat bot for Discord and Telegram. Users type commands
such as "!$profile gabelogannewell" or "!$achievements gabelogannewell rarest"
and the bot replies with data from the Steam Web API.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Configuration file path (optional)")
	flags.StringVar(&opts.overrides.SteamAPIKey, "steam-apikey", "", "Steam Web API key (env STEAM_APIKEY)")
	flags.StringVar(&opts.overrides.DiscordToken, "discord-token", "", "Discord bot token (env DISCORD_TOKEN)")
	flags.StringVar(&opts.overrides.TelegramToken, "telegram-token", "", "Telegram bot token (env TELEGRAM_TOKEN)")
	flags.StringVar(&opts.overrides.Prefix, "prefix", "", "Command prefix (env STEAMSCORDBOT_PREFIX, default \"!$\")")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error (env STEAMSCORDBOT_LOG_LEVEL)")

	rootCmd.AddCommand(newStartCmd(opts))
	rootCmd.AddCommand(newLookupCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute executes the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates the layered configuration
func (o *rootOptions) loadConfig(requireBot bool) (*core.Config, error) {
	config, err := core.LoadConfig(o.configFile, o.overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(requireBot); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// initLogger sets up logging. console replaces stdout when not nil.
func initLogger(config *core.Config, console io.Writer) error {
	logConfig := logger.Config{
		Level:        config.Logging.Level,
		Format:       config.Logging.Format,
		File:         config.Logging.File,
		MaxSize:      config.Logging.MaxSize,
		MaxBackups:   config.Logging.MaxBackups,
		MaxAge:       config.Logging.MaxAge,
		Compress:     config.Logging.Compress,
		EnableStdout: *config.Logging.EnableStdout,
	}
	if logConfig.EnableStdout {
		logConfig.Output = console
	}
	return logger.InitLogger(logConfig)
}

// newDispatcher builds the Steam client and the command table
func newDispatcher(config *core.Config) *command.Dispatcher {
	client := steam.NewClient(steam.Config{
		APIKey:            config.Steam.APIKey,
		BaseURL:           config.Steam.BaseURL,
		Timeout:           config.Steam.Timeout,
		RequestsPerSecond: config.Steam.RequestsPerSecond,
		FriendConcurrency: config.Steam.FriendConcurrency,
		MaxFriends:        config.Steam.MaxFriends,
	})

	return command.NewDispatcher(client, command.Config{
		Prefix:       config.CommandPrefix,
		DefaultCount: config.Commands.DefaultCount,
		MaxCount:     config.Commands.MaxCount,
		Timeout:      config.Steam.Timeout,
	})
}
