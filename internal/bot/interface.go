// Package bot provides the chat platform adapters.
//
// Each adapter owns one platform connection for the lifetime of the process:
// Start opens it and delivers incoming text messages to a handler, SendMessage
// replies to a channel, Stop closes it. Replies longer than the platform limit
// are split on line boundaries.
//
//   - Discord: gateway websocket through discordgo
//   - Telegram: long polling through telegram-bot-api
//
// The handler may be called concurrently and must not block the adapter for
// long; the engine hands every message to its own goroutine.
package bot

import "time"

// BotAdapter defines the interface for bot adapters
type BotAdapter interface {
	// Start connects and begins delivering messages to messageHandler
	Start(messageHandler func(BotMessage)) error

	// SendMessage sends message to channel, split to the platform limit
	SendMessage(channel, message string) error

	// Stop closes the connection
	Stop() error
}

// BotMessage is one incoming chat message
type BotMessage struct {
	Platform  string // discord/telegram
	UserID    string // used by the allowlist
	Username  string
	Channel   string // reply target
	Content   string
	Timestamp time.Time
}
