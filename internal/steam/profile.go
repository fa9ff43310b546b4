package steam

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/esabouraud/steamscordbot/pkg/constants"
)

// Profile fetches the summary of one account
func (c *Client) Profile(ctx context.Context, steamID string) (ProfileSummary, error) {
	players, err := c.PlayerSummaries(ctx, []string{steamID})
	if err != nil {
		return ProfileSummary{}, err
	}
	for _, p := range players {
		if p.SteamID == steamID {
			return p, nil
		}
	}
	return ProfileSummary{}, fmt.Errorf("steam id %s: %w", steamID, ErrNotFound)
}

// PlayerSummaries fetches summaries for any number of ids, batching requests
// to the API's per-call limit. Unknown ids are silently absent.
func (c *Client) PlayerSummaries(ctx context.Context, steamIDs []string) ([]ProfileSummary, error) {
	if len(steamIDs) == 0 {
		return nil, nil
	}

	out := make([]ProfileSummary, 0, len(steamIDs))
	for start := 0; start < len(steamIDs); start += constants.MaxSummariesPerRequest {
		end := min(start+constants.MaxSummariesPerRequest, len(steamIDs))

		params := url.Values{}
		params.Set("steamids", strings.Join(steamIDs[start:end], ","))

		var resp playerSummariesResponse
		if err := c.getJSON(ctx, PlayerSummariesEndpoint, params, &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Response.Players {
			out = append(out, p.toProfile())
		}
	}
	return out, nil
}

func (p playerSummary) toProfile() ProfileSummary {
	return ProfileSummary{
		SteamID:     p.SteamID,
		Name:        p.PersonaName,
		RealName:    p.RealName,
		Country:     p.CountryCode,
		ProfileURL:  p.ProfileURL,
		AvatarURL:   p.AvatarFull,
		CurrentGame: p.GameExtraInfo,
		Status:      PersonaState(p.PersonaState),
		Visibility:  Visibility(p.CommunityVisibilityState),
		Created:     unixTime(p.TimeCreated),
		LastLogoff:  unixTime(p.LastLogoff),
	}
}
