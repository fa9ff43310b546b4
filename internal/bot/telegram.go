package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/esabouraud/steamscordbot/pkg/constants"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// TelegramBot implements BotAdapter interface for Telegram using long polling
type TelegramBot struct {
	mu             sync.RWMutex
	token          string
	apiEndpoint    string
	bot            *tgbotapi.BotAPI
	messageHandler func(BotMessage)
	cancel         context.CancelFunc
}

// NewTelegramBot creates a new Telegram bot instance
func NewTelegramBot(token string) *TelegramBot {
	return &TelegramBot{
		token:       token,
		apiEndpoint: tgbotapi.APIEndpoint,
	}
}

// Start establishes long polling connection to Telegram and begins listening for messages
func (t *TelegramBot) Start(messageHandler func(BotMessage)) error {
	t.SetMessageHandler(messageHandler)

	logger.WithField("token", maskSecret(t.token)).Info("starting-telegram-bot-with-long-polling")

	bot, err := t.connect()
	if err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(constants.DefaultPollTimeout.Seconds())
	updates := bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("telegram-long-polling-stopped")
				return
			case update, ok := <-updates:
				if !ok {
					logger.Info("telegram-updates-channel-closed")
					return
				}
				if update.Message != nil {
					t.handleMessage(update.Message)
				}
			}
		}
	}()

	logger.Info("telegram-long-polling-connection-started")
	return nil
}

// connect authenticates against the Bot API (getMe)
func (t *TelegramBot) connect() (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(t.token, t.apiEndpoint)
	if err != nil {
		logger.WithField("error", err).Error("failed-to-initialize-telegram-bot")
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	t.mu.Lock()
	t.bot = bot
	t.mu.Unlock()

	logger.WithFields(logrus.Fields{
		"bot_username": bot.Self.UserName,
		"bot_id":       bot.Self.ID,
	}).Info("telegram-logged-in-as")
	return bot, nil
}

// handleMessage handles incoming message events from Telegram
func (t *TelegramBot) handleMessage(message *tgbotapi.Message) {
	if message == nil || message.Text == "" {
		return
	}
	if message.From != nil && message.From.IsBot {
		return
	}

	var userID, username, chatID string
	if message.From != nil {
		userID = strconv.FormatInt(message.From.ID, 10)
		username = message.From.UserName
	}
	if message.Chat != nil {
		chatID = strconv.FormatInt(message.Chat.ID, 10)
	}

	logger.WithFields(logrus.Fields{
		"platform":    "telegram",
		"user_id":     userID,
		"username":    username,
		"chat_id":     chatID,
		"message_id":  message.MessageID,
		"content_len": len(message.Text),
	}).Debug("received-telegram-message")

	handler := t.GetMessageHandler()
	if handler == nil {
		return
	}
	handler(BotMessage{
		Platform:  "telegram",
		UserID:    userID,
		Username:  username,
		Channel:   chatID,
		Content:   message.Text,
		Timestamp: time.Now(),
	})
}

// SendMessage sends a plain-text message to a Telegram chat
func (t *TelegramBot) SendMessage(chatID, message string) error {
	t.mu.RLock()
	bot := t.bot
	t.mu.RUnlock()

	if bot == nil {
		return fmt.Errorf("telegram bot not initialized")
	}
	if chatID == "" {
		return fmt.Errorf("chat ID is required for Telegram")
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID format: %w", err)
	}

	chunks := splitMessage(message, constants.MaxTelegramMessageLength)
	if len(chunks) > 1 {
		logger.WithFields(logrus.Fields{
			"original_length": len(message),
			"chunks":          len(chunks),
		}).Info("splitting-message-for-telegram-limit")
	}

	for _, chunk := range chunks {
		if _, err := bot.Send(tgbotapi.NewMessage(chatIDInt, chunk)); err != nil {
			logger.WithFields(logrus.Fields{
				"chat_id": chatID,
				"error":   err,
			}).Error("failed-to-send-message-to-telegram")
			return fmt.Errorf("failed to send message to chat %s: %w", chatID, err)
		}
	}

	logger.WithField("chat_id", chatID).Debug("message-sent-to-telegram")
	return nil
}

// Stop closes the Telegram long polling connection and cleans up resources
func (t *TelegramBot) Stop() error {
	t.mu.Lock()
	bot := t.bot
	cancel := t.cancel
	t.bot = nil
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if bot != nil {
		bot.StopReceivingUpdates()
	}

	logger.Info("telegram-bot-stopped")
	return nil
}

// SetMessageHandler sets the message handler in a thread-safe manner
func (t *TelegramBot) SetMessageHandler(handler func(BotMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messageHandler = handler
}

// GetMessageHandler gets the message handler in a thread-safe manner
func (t *TelegramBot) GetMessageHandler() func(BotMessage) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.messageHandler
}
