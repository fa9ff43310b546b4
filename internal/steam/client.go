// Package steam is a small Steam Web API client covering what the chat
// commands need: identity resolution, player summaries, achievements and
// friends' libraries.
//
// Every call takes a context. All outgoing requests share one token-bucket
// limiter, and failures surface as ErrNotFound, ErrPrivateProfile or
// ErrUnavailable (possibly wrapping an *APIError).
package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/esabouraud/steamscordbot/internal/logger"
	"github.com/esabouraud/steamscordbot/internal/metrics"
	"github.com/esabouraud/steamscordbot/pkg/constants"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	ServerInfoEndpoint         = "/ISteamWebAPIUtil/GetServerInfo/v0001/"
	ResolveVanityEndpoint      = "/ISteamUser/ResolveVanityURL/v0001/"
	PlayerSummariesEndpoint    = "/ISteamUser/GetPlayerSummaries/v0002/"
	FriendListEndpoint         = "/ISteamUser/GetFriendList/v0001/"
	OwnedGamesEndpoint         = "/IPlayerService/GetOwnedGames/v0001/"
	RecentlyPlayedEndpoint     = "/IPlayerService/GetRecentlyPlayedGames/v0001/"
	SchemaEndpoint             = "/ISteamUserStats/GetSchemaForGame/v2/"
	PlayerAchievementsEndpoint = "/ISteamUserStats/GetPlayerAchievements/v0001/"
	GlobalAchievementsEndpoint = "/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v0002/"

	maxResponseBytes = 10 << 20
)

// Config configures a Client. Zero values fall back to the package defaults.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	FriendConcurrency int
	MaxFriends        int
	HTTPClient        *http.Client
}

// Client talks to the Steam Web API. It keeps no per-request state and is
// safe for concurrent use.
type Client struct {
	apiKey            string
	baseURL           string
	httpClient        *http.Client
	limiter           *rate.Limiter
	friendConcurrency int
	maxFriends        int
}

// NewClient creates a Steam Web API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.SteamAPIOrigin
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultSteamTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = constants.DefaultRequestsPerSecond
	}
	if cfg.FriendConcurrency <= 0 {
		cfg.FriendConcurrency = constants.DefaultFriendConcurrency
	}
	if cfg.MaxFriends <= 0 {
		cfg.MaxFriends = constants.DefaultMaxFriends
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		apiKey:            cfg.APIKey,
		baseURL:           strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:        httpClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		friendConcurrency: cfg.FriendConcurrency,
		maxFriends:        cfg.MaxFriends,
	}
}

// getJSON performs a GET on endpoint and decodes the body into target.
// Non-200 answers come back as *APIError.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, target interface{}) error {
	name := endpointName(endpoint)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: waiting for rate limiter: %w", ErrUnavailable, name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: failed to create request: %w", ErrUnavailable, name, err)
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("format", "json")
	logger.WithFields(logrus.Fields{
		"endpoint": name,
		"params":   q.Encode(),
	}).Debug("steam-api-request")
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveSteamRequest(name, "0", time.Since(start))
		logger.WithFields(logrus.Fields{
			"endpoint": name,
			"error":    redactKey(err.Error(), c.apiKey),
		}).Warn("steam-api-request-failed")
		return fmt.Errorf("%w: %s: request failed: %s", ErrUnavailable, name, redactKey(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.ObserveSteamRequest(name, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: %s: failed to read response body: %w", ErrUnavailable, name, err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint":    name,
		"status_code": resp.StatusCode,
		"body_length": len(body),
	}).Debug("steam-api-response")

	if resp.StatusCode != http.StatusOK {
		entry := logger.WithFields(logrus.Fields{
			"endpoint":    name,
			"status_code": resp.StatusCode,
		})
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			entry.Warn("steam-api-rate-limited")
		case http.StatusUnauthorized, http.StatusForbidden:
			entry.Warn("steam-api-access-denied")
		default:
			entry.Warn("steam-api-unexpected-status")
		}
		return &APIError{Endpoint: name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Steam answers some failures with an HTML error page and status 200
	if len(body) > 0 && body[0] == '<' {
		logger.WithField("endpoint", name).Warn("steam-api-returned-html")
		return fmt.Errorf("%w: %s: received HTML instead of JSON", ErrUnavailable, name)
	}

	if err := json.NewDecoder(bytes.NewReader(body)).Decode(target); err != nil {
		logger.WithFields(logrus.Fields{
			"endpoint": name,
			"error":    err,
		}).Warn("steam-api-decode-failed")
		return fmt.Errorf("%w: %s: failed to decode JSON: %w", ErrUnavailable, name, err)
	}
	return nil
}

// ServerInfo performs the API availability check
func (c *Client) ServerInfo(ctx context.Context) (ServerInfo, error) {
	var resp serverInfoResponse
	if err := c.getJSON(ctx, ServerInfoEndpoint, nil, &resp); err != nil {
		return ServerInfo{}, err
	}
	return ServerInfo{
		ServerTime: unixTime(resp.ServerTime),
		Display:    resp.ServerTimeString,
	}, nil
}

// endpointName turns "/ISteamUser/GetFriendList/v0001/" into "GetFriendList".
func endpointName(endpoint string) string {
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return endpoint
}

// redactKey strips the API key from error strings that embed the request URL.
func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, key, "[HIDDEN]")
}
