// Package command turns prefixed chat messages into Steam lookups.
//
// A Dispatcher owns a lookup table built once from the fixed command set.
// Handle parses a message, runs the matching command under a timeout and
// always produces a reply: parse failures and Steam errors are rendered as
// text, never dropped.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/esabouraud/steamscordbot/internal/metrics"
	"github.com/esabouraud/steamscordbot/internal/steam"
	"github.com/esabouraud/steamscordbot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// Steam is the part of the Steam client the commands use.
type Steam interface {
	ServerInfo(ctx context.Context) (steam.ServerInfo, error)
	ResolveIdentity(ctx context.Context, input string) (steam.Identity, error)
	Profile(ctx context.Context, steamID string) (steam.ProfileSummary, error)
	Achievements(ctx context.Context, steamID string, appID uint64) (steam.GameAchievements, error)
	Friends(ctx context.Context, steamID string) ([]steam.Friend, error)
	FriendLibraries(ctx context.Context, steamID string) (steam.FriendLibraries, error)
}

// Config tunes a Dispatcher. Zero values fall back to the package defaults.
type Config struct {
	Prefix       string
	DefaultCount int
	MaxCount     int
	Timeout      time.Duration
}

// Command is one entry of the lookup table.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string

	run func(ctx context.Context, d *Dispatcher, args []string) (string, error)
}

// Dispatcher maps command names to handlers.
type Dispatcher struct {
	steam        Steam
	prefix       string
	defaultCount int
	maxCount     int
	timeout      time.Duration

	commands map[string]*Command // name and aliases
	ordered  []*Command          // for help
}

// NewDispatcher builds the lookup table
func NewDispatcher(client Steam, cfg Config) *Dispatcher {
	if cfg.Prefix == "" {
		cfg.Prefix = constants.DefaultCommandPrefix
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = constants.MaxResultCount
	}
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = constants.DefaultResultCount
	}
	cfg.DefaultCount = min(cfg.DefaultCount, cfg.MaxCount)
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultSteamTimeout
	}

	d := &Dispatcher{
		steam:        client,
		prefix:       cfg.Prefix,
		defaultCount: cfg.DefaultCount,
		maxCount:     cfg.MaxCount,
		timeout:      cfg.Timeout,
		commands:     make(map[string]*Command),
	}
	for _, cmd := range builtinCommands() {
		d.ordered = append(d.ordered, cmd)
		d.commands[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			d.commands[alias] = cmd
		}
	}
	return d
}

// Prefix returns the configured command prefix
func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// Lookup finds a command by name or alias
func (d *Dispatcher) Lookup(name string) (*Command, bool) {
	cmd, ok := d.commands[strings.ToLower(name)]
	return cmd, ok
}

// Parse splits a chat message into a lowercased command name and its
// positional arguments. ok is false when content does not start with prefix.
// Whitespace between the prefix and the command name is allowed.
func Parse(prefix, content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, true
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// Handle answers one chat message. ok is false when the message is not
// addressed to the bot; otherwise reply is never empty.
func (d *Dispatcher) Handle(ctx context.Context, content string) (reply string, ok bool) {
	name, args, ok := Parse(d.prefix, content)
	if !ok {
		return "", false
	}
	if name == "" {
		name = "help"
	}
	return d.Execute(ctx, name, args), true
}

// Execute runs the named command with args and renders the outcome,
// including failures, as a reply.
func (d *Dispatcher) Execute(ctx context.Context, name string, args []string) string {
	cmd, ok := d.Lookup(name)
	if !ok {
		metrics.ObserveCommand("unknown", resultUnknown)
		logger.WithField("command", name).Info("unknown-command")
		return d.unknownReply(name)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	reply, err := cmd.run(ctx, d, args)
	result := classify(err)
	metrics.ObserveCommand(cmd.Name, result)

	fields := logrus.Fields{
		"command":     cmd.Name,
		"args":        len(args),
		"result":      result,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err
		logger.WithFields(fields).Warn("command-failed")
		return d.errorReply(cmd, args, err)
	}
	logger.WithFields(fields).Info("command-handled")
	return reply
}

const (
	resultOK          = "ok"
	resultParseError  = "parse_error"
	resultUnknown     = "unknown_command"
	resultNotFound    = "not_found"
	resultPrivate     = "private"
	resultUnavailable = "unavailable"
)

func classify(err error) string {
	var parseErr *ParseError
	switch {
	case err == nil:
		return resultOK
	case errors.As(err, &parseErr):
		return resultParseError
	case errors.Is(err, steam.ErrNotFound):
		return resultNotFound
	case errors.Is(err, steam.ErrPrivateProfile):
		return resultPrivate
	default:
		return resultUnavailable
	}
}

func (d *Dispatcher) errorReply(cmd *Command, args []string, err error) string {
	var parseErr *ParseError
	switch {
	case errors.As(err, &parseErr):
		return fmt.Sprintf("%s\nUsage: %s", parseErr.Reason, d.usage(cmd))
	case errors.Is(err, steam.ErrNotFound):
		if len(args) > 0 {
			return fmt.Sprintf("No Steam profile found for %q.", args[0])
		}
		return "No Steam profile found."
	case errors.Is(err, steam.ErrPrivateProfile):
		return "That Steam profile is private, so this information is hidden."
	default:
		// timeouts, transport and auth failures alike
		return "The Steam Web API is unavailable right now. Try again later."
	}
}

func (d *Dispatcher) unknownReply(name string) string {
	return fmt.Sprintf("Unknown command %q. Type %shelp to list the commands.", name, d.prefix)
}

func (d *Dispatcher) usage(cmd *Command) string {
	return d.prefix + cmd.Usage
}
