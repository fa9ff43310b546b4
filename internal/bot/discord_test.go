package bot

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockDiscordSession is a mock implementation of DiscordSessionInterface for testing
type MockDiscordSession struct {
	mu               sync.Mutex
	shouldFailOnOpen bool
	shouldFailOnSend bool
	openCalled       bool
	closed           bool
	sentMessages     []SentMessage
	handlers         []interface{}
}

type SentMessage struct {
	Channel string
	Message string
}

func (m *MockDiscordSession) AddHandler(handler interface{}) func() {
	m.handlers = append(m.handlers, handler)
	return func() {}
}

func (m *MockDiscordSession) Open() error {
	m.openCalled = true
	if m.shouldFailOnOpen {
		return errors.New("failed to open discord connection")
	}
	return nil
}

func (m *MockDiscordSession) Close() error {
	m.closed = true
	return nil
}

func (m *MockDiscordSession) ChannelMessageSend(channel, message string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFailOnSend {
		return nil, errors.New("failed to send message")
	}
	m.sentMessages = append(m.sentMessages, SentMessage{Channel: channel, Message: message})
	return &discordgo.Message{ID: "msg-id"}, nil
}

// SimulateMessage delivers msg to every registered MessageCreate handler
func (m *MockDiscordSession) SimulateMessage(msg *discordgo.MessageCreate) {
	for _, h := range m.handlers {
		if fn, ok := h.(func(*discordgo.Session, *discordgo.MessageCreate)); ok {
			fn(nil, msg)
		}
	}
}

// SimulateReady delivers r to every registered Ready handler
func (m *MockDiscordSession) SimulateReady(r *discordgo.Ready) {
	for _, h := range m.handlers {
		if fn, ok := h.(func(*discordgo.Session, *discordgo.Ready)); ok {
			fn(nil, r)
		}
	}
}

func newMockedDiscordBot(mock *MockDiscordSession) *DiscordBot {
	bot := NewDiscordBot("test-token-0123456789")
	bot.newSession = func(token string) (DiscordSessionInterface, error) {
		return mock, nil
	}
	return bot
}

func discordMessage(authorID, content string, isBot bool) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "user-" + authorID, Bot: isBot},
	}}
}

func TestDiscordBot_StartRegistersHandlersAndOpens(t *testing.T) {
	mock := &MockDiscordSession{}
	bot := newMockedDiscordBot(mock)

	var received []BotMessage
	require.NoError(t, bot.Start(func(msg BotMessage) { received = append(received, msg) }))

	assert.True(t, mock.openCalled)
	assert.Len(t, mock.handlers, 2)

	mock.SimulateReady(&discordgo.Ready{User: &discordgo.User{Username: "steamscordbot"}})
	mock.SimulateMessage(discordMessage("42", "!$profile gaben", false))

	require.Len(t, received, 1)
	assert.Equal(t, "discord", received[0].Platform)
	assert.Equal(t, "42", received[0].UserID)
	assert.Equal(t, "user-42", received[0].Username)
	assert.Equal(t, "chan-1", received[0].Channel)
	assert.Equal(t, "!$profile gaben", received[0].Content)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestDiscordBot_IgnoresBotAuthors(t *testing.T) {
	mock := &MockDiscordSession{}
	bot := newMockedDiscordBot(mock)

	var received []BotMessage
	require.NoError(t, bot.Start(func(msg BotMessage) { received = append(received, msg) }))

	mock.SimulateMessage(discordMessage("7", "!$check", true))
	mock.SimulateMessage(&discordgo.MessageCreate{Message: &discordgo.Message{Content: "no author"}})
	mock.SimulateReady(nil)

	assert.Empty(t, received)
}

func TestDiscordBot_StartFailures(t *testing.T) {
	mock := &MockDiscordSession{shouldFailOnOpen: true}
	bot := newMockedDiscordBot(mock)

	err := bot.Start(func(BotMessage) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open discord connection")
	assert.Error(t, bot.SendMessage("chan-1", "hi"))

	bot.newSession = func(string) (DiscordSessionInterface, error) {
		return nil, errors.New("bad token")
	}
	err = bot.Start(func(BotMessage) {})
	assert.ErrorContains(t, err, "failed to create discord session")
}

func TestDiscordBot_SendMessage(t *testing.T) {
	mock := &MockDiscordSession{}
	bot := newMockedDiscordBot(mock)

	assert.ErrorContains(t, bot.SendMessage("chan-1", "hi"), "not initialized")

	require.NoError(t, bot.Start(func(BotMessage) {}))
	require.NoError(t, bot.SendMessage("chan-1", "hello"))
	assert.Equal(t, []SentMessage{{Channel: "chan-1", Message: "hello"}}, mock.sentMessages)

	assert.ErrorContains(t, bot.SendMessage("", "hello"), "channel ID is required")
}

func TestDiscordBot_SendMessageSplitsLongReplies(t *testing.T) {
	mock := &MockDiscordSession{}
	bot := newMockedDiscordBot(mock)
	require.NoError(t, bot.Start(func(BotMessage) {}))

	line := strings.Repeat("x", 99)
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, line)
	}
	require.NoError(t, bot.SendMessage("chan-1", strings.Join(lines, "\n")))

	require.Len(t, mock.sentMessages, 3)
	total := 0
	for _, sent := range mock.sentMessages {
		assert.LessOrEqual(t, len(sent.Message), 2000)
		total += strings.Count(sent.Message, line)
	}
	assert.Equal(t, 50, total)
}

func TestDiscordBot_SendMessageError(t *testing.T) {
	mock := &MockDiscordSession{shouldFailOnSend: true}
	bot := newMockedDiscordBot(mock)
	require.NoError(t, bot.Start(func(BotMessage) {}))

	err := bot.SendMessage("chan-1", "hello")
	assert.ErrorContains(t, err, "failed to send message to channel chan-1")
}

func TestDiscordBot_Stop(t *testing.T) {
	mock := &MockDiscordSession{}
	bot := newMockedDiscordBot(mock)

	assert.NoError(t, bot.Stop())

	require.NoError(t, bot.Start(func(BotMessage) {}))
	require.NoError(t, bot.Stop())
	assert.True(t, mock.closed)
	assert.Error(t, bot.SendMessage("chan-1", "after stop"))
}
