package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Friends fetches the friends list of steamID with persona names, in API order.
// A private friends list yields ErrPrivateProfile.
func (c *Client) Friends(ctx context.Context, steamID string) ([]Friend, error) {
	params := url.Values{}
	params.Set("steamid", steamID)
	params.Set("relationship", "friend")

	var resp friendListResponse
	if err := c.getJSON(ctx, FriendListEndpoint, params, &resp); err != nil {
		// GetFriendList answers 401 for private lists
		if statusCode(err) == http.StatusUnauthorized {
			return nil, fmt.Errorf("friends of %s: %w", steamID, ErrPrivateProfile)
		}
		return nil, err
	}

	raw := resp.FriendsList.Friends
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(raw))
	for _, f := range raw {
		ids = append(ids, f.SteamID)
	}
	summaries, err := c.PlayerSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]ProfileSummary, len(summaries))
	for _, s := range summaries {
		byID[s.SteamID] = s
	}

	friends := make([]Friend, 0, len(raw))
	for _, f := range raw {
		friend := Friend{SteamID: f.SteamID, Name: f.SteamID, Since: unixTime(f.FriendSince)}
		if s, ok := byID[f.SteamID]; ok {
			friend.Name = s.Name
			friend.Status = s.Status
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

// OwnedGames fetches the library of steamID including last-played times.
// A private library yields ErrPrivateProfile.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	params := url.Values{}
	params.Set("steamid", steamID)
	params.Set("include_appinfo", "true")
	params.Set("include_played_free_games", "true")

	var resp ownedGamesResponse
	if err := c.getJSON(ctx, OwnedGamesEndpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Response.GameCount == nil {
		return nil, fmt.Errorf("library of %s: %w", steamID, ErrPrivateProfile)
	}

	games := make([]OwnedGame, 0, len(resp.Response.Games))
	for _, g := range resp.Response.Games {
		games = append(games, g.toOwnedGame())
	}
	return games, nil
}

// FriendLibraries fetches the friends list of steamID and then every friend's
// library, a bounded number at a time. Friends past the configured cap are
// skipped and friends with private libraries are counted as hidden.
func (c *Client) FriendLibraries(ctx context.Context, steamID string) (FriendLibraries, error) {
	friends, err := c.Friends(ctx, steamID)
	if err != nil {
		return FriendLibraries{}, err
	}

	result := FriendLibraries{SteamID: steamID, Friends: len(friends)}
	if len(friends) > c.maxFriends {
		result.Skipped = len(friends) - c.maxFriends
		friends = friends[:c.maxFriends]
	}

	libraries := make([]*FriendLibrary, len(friends))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.friendConcurrency)
	for i, f := range friends {
		g.Go(func() error {
			games, err := c.OwnedGames(gctx, f.SteamID)
			if errors.Is(err, ErrPrivateProfile) {
				return nil
			}
			if err != nil {
				return err
			}
			libraries[i] = &FriendLibrary{Friend: f, Games: games}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FriendLibraries{}, err
	}

	// keep friends-list order
	for _, lib := range libraries {
		if lib == nil {
			result.Hidden++
			continue
		}
		result.Libraries = append(result.Libraries, *lib)
	}

	logger.WithFields(logrus.Fields{
		"steam_id": steamID,
		"friends":  result.Friends,
		"visible":  len(result.Libraries),
		"hidden":   result.Hidden,
		"skipped":  result.Skipped,
	}).Debug("friend-libraries-fetched")

	return result, nil
}

func (g ownedGame) toOwnedGame() OwnedGame {
	return OwnedGame{
		AppID:           g.AppID,
		Name:            g.Name,
		PlaytimeForever: time.Duration(g.PlaytimeForever) * time.Minute,
		LastPlayed:      unixTime(g.RTimeLastPlayed),
	}
}
