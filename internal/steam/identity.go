package steam

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/sirupsen/logrus"
)

var (
	profileURLPattern = regexp.MustCompile(`steamcommunity\.com/profiles/([^/?#\s]+)`)
	vanityURLPattern  = regexp.MustCompile(`steamcommunity\.com/id/([^/?#\s]+)`)
	idFormPattern     = regexp.MustCompile(`^(\d{17}|STEAM_[0-5]:[01]:\d+|\[U:1:\d+\])$`)
	vanityNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,32}$`)
)

// ParseSteamID converts a SID64, Steam2 (STEAM_0:1:123) or Steam3 ([U:1:123])
// id to its SID64 decimal form.
func ParseSteamID(input string) (string, bool) {
	if !idFormPattern.MatchString(input) {
		return "", false
	}
	sid := steamid.New(input)
	if !sid.Valid() {
		return "", false
	}
	return strconv.FormatInt(sid.Int64(), 10), true
}

// ResolveIdentity accepts anything a user may paste: a Steam ID in any common
// form, a community profile URL or a vanity name.
func (c *Client) ResolveIdentity(ctx context.Context, input string) (Identity, error) {
	token := strings.Trim(strings.TrimSpace(input), "<>")
	if token == "" {
		return Identity{}, fmt.Errorf("empty profile identifier: %w", ErrNotFound)
	}

	if m := profileURLPattern.FindStringSubmatch(token); m != nil {
		token = m[1]
	} else if m := vanityURLPattern.FindStringSubmatch(token); m != nil {
		return c.ResolveVanity(ctx, m[1])
	}

	if id, ok := ParseSteamID(token); ok {
		return Identity{SteamID: id}, nil
	}
	return c.ResolveVanity(ctx, token)
}

// ResolveVanity resolves a vanity URL name to a Steam ID
func (c *Client) ResolveVanity(ctx context.Context, name string) (Identity, error) {
	if !vanityNamePattern.MatchString(name) {
		return Identity{}, fmt.Errorf("vanity name %q: %w", name, ErrNotFound)
	}

	params := url.Values{}
	params.Set("vanityurl", name)
	params.Set("url_type", "1") // individual profile

	var resp vanityResponse
	if err := c.getJSON(ctx, ResolveVanityEndpoint, params, &resp); err != nil {
		return Identity{}, err
	}

	if resp.Response.Success != 1 || resp.Response.SteamID == "" {
		logger.WithFields(logrus.Fields{
			"vanity":  name,
			"success": resp.Response.Success,
			"message": resp.Response.Message,
		}).Info("vanity-name-not-resolved")
		return Identity{}, fmt.Errorf("vanity name %q: %w", name, ErrNotFound)
	}

	return Identity{SteamID: resp.Response.SteamID, Vanity: name}, nil
}
