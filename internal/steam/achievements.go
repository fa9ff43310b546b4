package steam

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RecentlyPlayed lists the games played in the last two weeks, most recent first
func (c *Client) RecentlyPlayed(ctx context.Context, steamID string) ([]OwnedGame, error) {
	params := url.Values{}
	params.Set("steamid", steamID)

	var resp recentlyPlayedResponse
	if err := c.getJSON(ctx, RecentlyPlayedEndpoint, params, &resp); err != nil {
		return nil, err
	}

	games := make([]OwnedGame, 0, len(resp.Response.Games))
	for _, g := range resp.Response.Games {
		games = append(games, g.toOwnedGame())
	}
	return games, nil
}

// Achievements merges the game schema, the player's unlock state and the
// global unlock percentages for one game. With appID 0 the player's most
// recently played game is used; if there is none the result has no AppID.
func (c *Client) Achievements(ctx context.Context, steamID string, appID uint64) (GameAchievements, error) {
	result := GameAchievements{SteamID: steamID, AppID: appID}

	if appID == 0 {
		recent, err := c.RecentlyPlayed(ctx, steamID)
		if err != nil {
			return GameAchievements{}, err
		}
		if len(recent) == 0 {
			return result, nil
		}
		result.AppID = recent[0].AppID
		result.GameName = recent[0].Name
	}

	player, err := c.playerAchievements(ctx, steamID, result.AppID)
	if err != nil {
		if errors.Is(err, errNoStats) {
			return result, nil
		}
		return GameAchievements{}, err
	}
	if player.PlayerStats.GameName != "" {
		result.GameName = player.PlayerStats.GameName
	}

	var (
		schema schemaResponse
		global globalPercentagesResponse
	)
	appParam := strconv.FormatUint(result.AppID, 10)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		params := url.Values{}
		params.Set("appid", appParam)
		params.Set("l", "english")
		return c.getJSON(gctx, SchemaEndpoint, params, &schema)
	})
	g.Go(func() error {
		params := url.Values{}
		params.Set("gameid", appParam)
		return c.getJSON(gctx, GlobalAchievementsEndpoint, params, &global)
	})
	if err := g.Wait(); err != nil {
		return GameAchievements{}, err
	}

	if schema.Game.GameName != "" && result.GameName == "" {
		result.GameName = schema.Game.GameName
	}
	result.Entries = mergeAchievements(schema, player, global)

	logger.WithFields(logrus.Fields{
		"steam_id":     steamID,
		"app_id":       result.AppID,
		"achievements": len(result.Entries),
		"unlocked":     result.Unlocked(),
	}).Debug("achievements-fetched")

	return result, nil
}

// errNoStats marks a game that has no achievements at all.
var errNoStats = errors.New("requested app has no stats")

func (c *Client) playerAchievements(ctx context.Context, steamID string, appID uint64) (playerAchievementsResponse, error) {
	params := url.Values{}
	params.Set("steamid", steamID)
	params.Set("appid", strconv.FormatUint(appID, 10))

	var resp playerAchievementsResponse
	err := c.getJSON(ctx, PlayerAchievementsEndpoint, params, &resp)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return resp, err
		}
		switch body := strings.ToLower(apiErr.Body); {
		case strings.Contains(body, "not public"):
			return resp, fmt.Errorf("achievements of %s: %w", steamID, ErrPrivateProfile)
		case strings.Contains(body, "no stats"):
			return resp, errNoStats
		}
		return resp, err
	}

	if !resp.PlayerStats.Success {
		msg := strings.ToLower(resp.PlayerStats.Error)
		switch {
		case strings.Contains(msg, "not public"):
			return resp, fmt.Errorf("achievements of %s: %w", steamID, ErrPrivateProfile)
		case strings.Contains(msg, "no stats"):
			return resp, errNoStats
		}
		return resp, fmt.Errorf("%w: %s: %s", ErrUnavailable, endpointName(PlayerAchievementsEndpoint), resp.PlayerStats.Error)
	}
	return resp, nil
}

// mergeAchievements joins the three responses in schema order. When the
// schema is empty the player's own list provides the order and names.
func mergeAchievements(schema schemaResponse, player playerAchievementsResponse, global globalPercentagesResponse) []AchievementEntry {
	percents := make(map[string]float64, len(global.AchievementPercentages.Achievements))
	for _, a := range global.AchievementPercentages.Achievements {
		percents[a.Name] = float64(a.Percent)
	}

	type state struct {
		achieved bool
		unlock   int64
	}
	states := make(map[string]state, len(player.PlayerStats.Achievements))
	for _, a := range player.PlayerStats.Achievements {
		states[a.APIName] = state{achieved: a.Achieved == 1, unlock: a.UnlockTime}
	}

	var entries []AchievementEntry
	if defs := schema.Game.AvailableGameStats.Achievements; len(defs) > 0 {
		entries = make([]AchievementEntry, 0, len(defs))
		for _, d := range defs {
			s := states[d.Name]
			name := d.DisplayName
			if name == "" {
				name = d.Name
			}
			entries = append(entries, AchievementEntry{
				APIName:       d.Name,
				Name:          name,
				Description:   d.Description,
				Unlocked:      s.achieved,
				GlobalPercent: percents[d.Name],
				UnlockTime:    unixTime(s.unlock),
			})
		}
		return entries
	}

	entries = make([]AchievementEntry, 0, len(player.PlayerStats.Achievements))
	for _, a := range player.PlayerStats.Achievements {
		entries = append(entries, AchievementEntry{
			APIName:       a.APIName,
			Name:          a.APIName,
			Unlocked:      a.Achieved == 1,
			GlobalPercent: percents[a.APIName],
			UnlockTime:    unixTime(a.UnlockTime),
		})
	}
	return entries
}
