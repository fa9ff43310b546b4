package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/esabouraud/steamscordbot/internal/format"
)

// ParseError is a malformed command line. Reason is shown to the user.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Reason
}

func parseErrorf(msg string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(msg, args...)}
}

// parseCount reads a result count and clamps it to [1, limit]. Integers too
// large for an int are clamped as well.
func parseCount(token string, limit int) (int, error) {
	if !isNumber(token) {
		return 0, parseErrorf("Count must be a whole number, got %q.", token)
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		if token[0] == '-' {
			return 1, nil
		}
		return limit, nil
	}
	if n < 1 {
		return 1, nil
	}
	if n > limit {
		return limit, nil
	}
	return n, nil
}

// isNumber reports whether token is an integer: digits with an optional sign
func isNumber(token string) bool {
	digits := token
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		digits = digits[1:]
	}
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// achievementsArgs is the parsed form of
// <profile> [rarest|latest] [count] [appid].
type achievementsArgs struct {
	profile string
	mode    format.AchievementMode
	count   int
	appID   uint64
}

func (d *Dispatcher) parseAchievementsArgs(args []string) (achievementsArgs, error) {
	if len(args) == 0 {
		return achievementsArgs{}, parseErrorf("Missing Steam profile.")
	}
	parsed := achievementsArgs{profile: args[0], mode: format.Rarest, count: d.defaultCount}
	rest := args[1:]

	if len(rest) > 0 && !isNumber(rest[0]) {
		switch mode := format.AchievementMode(strings.ToLower(rest[0])); mode {
		case format.Rarest, format.Latest:
			parsed.mode = mode
		default:
			return achievementsArgs{}, parseErrorf("Unknown sort mode %q, expected rarest or latest.", rest[0])
		}
		rest = rest[1:]
	}
	if len(rest) > 0 {
		n, err := parseCount(rest[0], d.maxCount)
		if err != nil {
			return achievementsArgs{}, err
		}
		parsed.count = n
		rest = rest[1:]
	}
	if len(rest) > 0 {
		appID, err := strconv.ParseUint(rest[0], 10, 64)
		if err != nil || appID == 0 {
			return achievementsArgs{}, parseErrorf("App id must be a positive number, got %q.", rest[0])
		}
		parsed.appID = appID
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return achievementsArgs{}, parseErrorf("Too many arguments.")
	}
	return parsed, nil
}

// friendsArgs is the parsed form of <profile> [list|owned|recent] [count].
type friendsArgs struct {
	profile string
	mode    format.FriendsMode
	count   int
}

func (d *Dispatcher) parseFriendsArgs(args []string) (friendsArgs, error) {
	if len(args) == 0 {
		return friendsArgs{}, parseErrorf("Missing Steam profile.")
	}
	parsed := friendsArgs{profile: args[0], mode: format.ModeList, count: d.defaultCount}
	rest := args[1:]

	// the count may come straight after the profile
	if len(rest) > 0 && !isNumber(rest[0]) {
		switch mode := format.FriendsMode(strings.ToLower(rest[0])); mode {
		case format.ModeList, format.ModeOwned, format.ModeRecent:
			parsed.mode = mode
		default:
			return friendsArgs{}, parseErrorf("Unknown mode %q, expected list, owned or recent.", rest[0])
		}
		rest = rest[1:]
	}
	if len(rest) > 0 {
		n, err := parseCount(rest[0], d.maxCount)
		if err != nil {
			return friendsArgs{}, err
		}
		parsed.count = n
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return friendsArgs{}, parseErrorf("Too many arguments.")
	}
	return parsed, nil
}
