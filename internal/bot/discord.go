package bot

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/esabouraud/steamscordbot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// DiscordSessionInterface defines the interface we need from discordgo.Session
// This allows us to mock it in tests without depending on concrete types
type DiscordSessionInterface interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordBot implements BotAdapter interface for Discord
type DiscordBot struct {
	mu             sync.RWMutex
	token          string
	session        DiscordSessionInterface
	messageHandler func(BotMessage)

	// newSession creates the gateway session; replaced in tests
	newSession func(token string) (DiscordSessionInterface, error)
}

// NewDiscordBot creates a new Discord bot instance
func NewDiscordBot(token string) *DiscordBot {
	return &DiscordBot{
		token:      token,
		newSession: newDiscordSession,
	}
}

func newDiscordSession(token string) (DiscordSessionInterface, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	return session, nil
}

// Start establishes connection to Discord and begins listening for messages
func (d *DiscordBot) Start(messageHandler func(BotMessage)) error {
	d.SetMessageHandler(messageHandler)

	logger.WithField("token", maskSecret(d.token)).Info("starting-discord-bot")

	session, err := d.newSession(d.token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	session.AddHandler(d.onReady)
	session.AddHandler(d.onMessageCreate)

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}

	d.mu.Lock()
	d.session = session
	d.mu.Unlock()
	return nil
}

func (d *DiscordBot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r == nil || r.User == nil {
		return
	}
	logger.WithFields(logrus.Fields{
		"user":   r.User.String(),
		"guilds": len(r.Guilds),
	}).Info("discord-logged-in-as")
}

func (d *DiscordBot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	// Ignore messages from bots, including our own replies
	if m.Author.Bot {
		return
	}

	logger.WithFields(logrus.Fields{
		"platform": "discord",
		"user_id":  m.Author.ID,
		"username": m.Author.Username,
		"channel":  m.ChannelID,
		"guild":    m.GuildID,
	}).Debug("received-discord-message")

	handler := d.GetMessageHandler()
	if handler == nil {
		return
	}
	handler(BotMessage{
		Platform:  "discord",
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Channel:   m.ChannelID,
		Content:   m.Content,
		Timestamp: time.Now(),
	})
}

// SendMessage sends a message to a Discord channel
func (d *DiscordBot) SendMessage(channel, message string) error {
	d.mu.RLock()
	session := d.session
	d.mu.RUnlock()

	if session == nil {
		return fmt.Errorf("discord session not initialized")
	}
	if channel == "" {
		return fmt.Errorf("channel ID is required for Discord")
	}

	chunks := splitMessage(message, constants.MaxDiscordMessageLength)
	if len(chunks) > 1 {
		logger.WithFields(logrus.Fields{
			"original_length": len(message),
			"chunks":          len(chunks),
		}).Info("splitting-message-for-discord-limit")
	}

	for _, chunk := range chunks {
		if _, err := session.ChannelMessageSend(channel, chunk); err != nil {
			logger.WithFields(logrus.Fields{
				"channel": channel,
				"error":   err,
			}).Error("failed-to-send-message-to-discord")
			return fmt.Errorf("failed to send message to channel %s: %w", channel, err)
		}
	}

	logger.WithField("channel", channel).Debug("message-sent-to-discord")
	return nil
}

// Stop closes the Discord connection and cleans up resources
func (d *DiscordBot) Stop() error {
	d.mu.Lock()
	session := d.session
	d.session = nil
	d.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

// SetMessageHandler sets the message handler in a thread-safe manner
func (d *DiscordBot) SetMessageHandler(handler func(BotMessage)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messageHandler = handler
}

// GetMessageHandler gets the message handler in a thread-safe manner
func (d *DiscordBot) GetMessageHandler() func(BotMessage) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.messageHandler
}
