package core

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/esabouraud/steamscordbot/internal/bot"
	"github.com/esabouraud/steamscordbot/internal/command"
	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/esabouraud/steamscordbot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Dispatcher answers chat commands. *command.Dispatcher implements it.
type Dispatcher interface {
	Prefix() string
	Handle(ctx context.Context, content string) (reply string, ok bool)
}

// Engine owns the bot connections and routes their messages to the dispatcher
type Engine struct {
	config      *Config
	dispatcher  Dispatcher
	activeBots  map[string]bot.BotAdapter // Bot type -> adapter
	startedBots map[string]bool
	messageChan chan bot.BotMessage
	handlers    sync.WaitGroup
	stopping    chan struct{} // closed when Stop starts

	statusServer *http.Server
	startedAt    time.Time

	mu       sync.RWMutex
	stopOnce sync.Once
}

// NewEngine creates a new engine instance
func NewEngine(config *Config, dispatcher Dispatcher) *Engine {
	return &Engine{
		config:      config,
		dispatcher:  dispatcher,
		activeBots:  make(map[string]bot.BotAdapter),
		startedBots: make(map[string]bool),
		messageChan: make(chan bot.BotMessage, constants.MessageChannelBufferSize),
		stopping:    make(chan struct{}),
	}
}

// RegisterBotAdapter registers a bot adapter; it is started by Run
func (e *Engine) RegisterBotAdapter(botType string, adapter bot.BotAdapter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeBots[botType] = adapter
}

// Run starts the bots and processes messages until ctx is cancelled, then
// shuts everything down. It fails when no bot could be started.
func (e *Engine) Run(ctx context.Context) error {
	logger.WithField("prefix", e.dispatcher.Prefix()).Info("starting-steamscordbot-engine")
	e.startedAt = time.Now()

	if e.config.StatusServer.Enabled {
		e.startStatusServer()
	}

	started := 0
	for _, botType := range e.botTypes() {
		e.mu.RLock()
		adapter := e.activeBots[botType]
		e.mu.RUnlock()

		logger.WithField("bot_type", botType).Info("starting-bot")
		if err := e.startBot(botType, adapter); err != nil {
			logger.WithFields(logrus.Fields{
				"bot_type": botType,
				"error":    err,
			}).Error("failed-to-start-bot")
			continue
		}
		started++
	}
	if started == 0 {
		e.Stop()
		return fmt.Errorf("no bot could be started")
	}

	e.runEventLoop(ctx)
	return e.Stop()
}

// startBot starts one adapter, turning a panic into an error
func (e *Engine) startBot(botType string, adapter bot.BotAdapter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while starting %s bot: %v", botType, r)
		}
	}()
	if err := adapter.Start(e.HandleBotMessage); err != nil {
		return err
	}

	e.mu.Lock()
	e.startedBots[botType] = true
	e.mu.Unlock()
	return nil
}

// runEventLoop runs the main event loop for processing messages
func (e *Engine) runEventLoop(ctx context.Context) {
	logger.Info("engine-event-loop-started")

	// commands in flight at shutdown still get their reply, bounded by the
	// dispatcher timeout
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("event-loop-shutting-down")
			return
		case msg := <-e.messageChan:
			e.handlers.Add(1)
			go func() {
				defer e.handlers.Done()
				defer func() {
					if r := recover(); r != nil {
						logger.WithFields(logrus.Fields{
							"platform": msg.Platform,
							"channel":  msg.Channel,
							"panic":    r,
						}).Error("message-handler-panic-recovered")
					}
				}()
				e.HandleUserMessage(handlerCtx, msg)
			}()
		}
	}
}

// HandleBotMessage is the callback function for bots to deliver messages.
// Messages arriving once the engine is stopping are dropped.
func (e *Engine) HandleBotMessage(msg bot.BotMessage) {
	select {
	case <-e.stopping:
		e.dropMessage(msg)
		return
	default:
	}

	select {
	case e.messageChan <- msg:
	case <-e.stopping:
		e.dropMessage(msg)
	}
}

func (e *Engine) dropMessage(msg bot.BotMessage) {
	logger.WithFields(logrus.Fields{
		"platform": msg.Platform,
		"channel":  msg.Channel,
	}).Debug("message-dropped-engine-stopping")
}

// HandleUserMessage answers one message. Messages without the command prefix
// are ignored.
func (e *Engine) HandleUserMessage(ctx context.Context, msg bot.BotMessage) {
	if _, _, ok := command.Parse(e.dispatcher.Prefix(), msg.Content); !ok {
		return
	}

	logger.WithFields(logrus.Fields{
		"platform": msg.Platform,
		"user":     msg.UserID,
		"channel":  msg.Channel,
	}).Info("processing-user-command")

	if !e.config.IsUserAuthorized(msg.Platform, msg.UserID) {
		logger.WithFields(logrus.Fields{
			"platform": msg.Platform,
			"user":     msg.UserID,
		}).Warn("unauthorized-access-attempt")
		e.SendToBot(msg.Platform, msg.Channel, "Unauthorized: ask the bot administrator to add your user ID.")
		return
	}

	reply, ok := e.dispatcher.Handle(ctx, msg.Content)
	if !ok {
		return
	}
	e.SendToBot(msg.Platform, msg.Channel, reply)
}

// SendToBot sends a message to a specific bot
func (e *Engine) SendToBot(platform, channel, message string) {
	e.mu.RLock()
	botAdapter, exists := e.activeBots[platform]
	e.mu.RUnlock()
	if !exists {
		logger.WithField("platform", platform).Warn("no-bot-for-platform")
		return
	}

	if err := botAdapter.SendMessage(channel, message); err != nil {
		logger.WithFields(logrus.Fields{
			"platform": platform,
			"channel":  channel,
			"error":    err,
		}).Error("failed-to-send-message-to-bot")
		return
	}
	logger.WithFields(logrus.Fields{
		"platform": platform,
		"channel":  channel,
		"length":   len(message),
	}).Info("message-sent-to-bot")
}

// StartedBots lists the bots that connected successfully
func (e *Engine) StartedBots() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	started := make([]string, 0, len(e.startedBots))
	for botType := range e.startedBots {
		started = append(started, botType)
	}
	sort.Strings(started)
	return started
}

func (e *Engine) botTypes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	types := make([]string, 0, len(e.activeBots))
	for botType := range e.activeBots {
		types = append(types, botType)
	}
	sort.Strings(types)
	return types
}

// Stop gracefully stops the engine. Only the first call has an effect.
func (e *Engine) Stop() error {
	e.stopOnce.Do(e.stop)
	return nil
}

func (e *Engine) stop() {
	logger.Info("stopping-steamscordbot-engine")
	close(e.stopping)

	e.mu.RLock()
	server := e.statusServer
	e.mu.RUnlock()
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("failed-to-gracefully-stop-status-server: %v", err)
			server.Close()
		} else {
			logger.Info("status-server-stopped-gracefully")
		}
	}

	// let in-flight commands reply before closing the sessions
	done := make(chan struct{})
	go func() {
		e.handlers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(constants.ShutdownTimeout):
		logger.Warn("in-flight-commands-abandoned")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for botType := range e.startedBots {
		logger.WithField("bot_type", botType).Info("stopping-bot")
		if err := e.activeBots[botType].Stop(); err != nil {
			logger.WithFields(logrus.Fields{
				"bot_type": botType,
				"error":    err,
			}).Error("failed-to-stop-bot")
		}
	}
	e.startedBots = make(map[string]bool)

	logger.Info("engine-stopped")
}
