package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/esabouraud/steamscordbot/internal/bot"
	"github.com/esabouraud/steamscordbot/internal/core"
	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the chat bots",
		Long:  "Connect to every enabled chat platform and answer commands until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.loadConfig(true)
			if err != nil {
				return err
			}
			if err := initLogger(config, nil); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			logger.WithFields(logrus.Fields{
				"config_file":   opts.configFile,
				"log_level":     config.Logging.Level,
				"prefix":        config.CommandPrefix,
				"bots":          config.EnabledBots(),
				"status_server": config.StatusServer.Enabled,
				"whitelist":     config.Security.WhitelistEnabled,
			}).Info("logger-initialized")

			engine := core.NewEngine(config, newDispatcher(config))
			registerBots(engine, config)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := engine.Run(ctx); err != nil {
				return fmt.Errorf("engine error: %w", err)
			}
			logger.Info("steamscordbot-stopped")
			return nil
		},
	}
}

// registerBots creates an adapter for every enabled platform
func registerBots(engine *core.Engine, config *core.Config) {
	for _, botType := range config.EnabledBots() {
		botConfig, err := config.GetBotConfig(botType)
		if err != nil {
			logger.WithField("bot_type", botType).Warn("bot-config-unavailable")
			continue
		}

		var adapter bot.BotAdapter
		switch botType {
		case core.BotDiscord:
			adapter = bot.NewDiscordBot(botConfig.Token)
		case core.BotTelegram:
			adapter = bot.NewTelegramBot(botConfig.Token)
		default:
			logger.WithField("bot_type", botType).Warn("bot-type-not-implemented")
			continue
		}
		engine.RegisterBotAdapter(botType, adapter)
		logger.WithField("bot_type", botType).Info("registered-bot-adapter")
	}
}
