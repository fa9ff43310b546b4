package steam

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Identity is a resolved Steam account.
type Identity struct {
	SteamID string // SID64, decimal
	Vanity  string // set when resolved from a vanity name
}

// PersonaState is the online status shown on a profile.
type PersonaState int

const (
	StateOffline PersonaState = iota
	StateOnline
	StateBusy
	StateAway
	StateSnooze
	StateLookingToTrade
	StateLookingToPlay
)

func (s PersonaState) String() string {
	switch s {
	case StateOffline:
		return "Offline"
	case StateOnline:
		return "Online"
	case StateBusy:
		return "Busy"
	case StateAway:
		return "Away"
	case StateSnooze:
		return "Snooze"
	case StateLookingToTrade:
		return "Looking to trade"
	case StateLookingToPlay:
		return "Looking to play"
	default:
		return "Unknown"
	}
}

// Visibility is the community visibility state of a profile.
type Visibility int

const (
	VisibilityPrivate     Visibility = 1
	VisibilityFriendsOnly Visibility = 2
	VisibilityPublic      Visibility = 3
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "Private"
	case VisibilityFriendsOnly:
		return "Friends only"
	case VisibilityPublic:
		return "Public"
	default:
		return "Unknown"
	}
}

// ProfileSummary is the read-only view of one player summary.
type ProfileSummary struct {
	SteamID     string
	Name        string
	RealName    string
	Country     string
	ProfileURL  string
	AvatarURL   string
	CurrentGame string
	Status      PersonaState
	Visibility  Visibility
	Created     time.Time
	LastLogoff  time.Time
}

// AchievementEntry is one achievement of a game merged with the player's state.
type AchievementEntry struct {
	APIName       string
	Name          string
	Description   string
	Unlocked      bool
	GlobalPercent float64
	UnlockTime    time.Time
}

// GameAchievements is the achievement state of one player in one game.
// AppID is zero when no game could be picked.
type GameAchievements struct {
	SteamID  string
	AppID    uint64
	GameName string
	Entries  []AchievementEntry
}

// Unlocked counts the unlocked entries.
func (g GameAchievements) Unlocked() int {
	n := 0
	for _, e := range g.Entries {
		if e.Unlocked {
			n++
		}
	}
	return n
}

// Friend is one entry of a friends list.
type Friend struct {
	SteamID string
	Name    string
	Status  PersonaState
	Since   time.Time
}

// OwnedGame is one game of a player's library.
type OwnedGame struct {
	AppID           uint64
	Name            string
	PlaytimeForever time.Duration
	LastPlayed      time.Time
}

// FriendLibrary pairs a friend with their visible library.
type FriendLibrary struct {
	Friend Friend
	Games  []OwnedGame
}

// FriendLibraries is the outcome of inspecting every friend's library.
type FriendLibraries struct {
	SteamID   string
	Friends   int // size of the friends list
	Hidden    int // friends whose library is private
	Skipped   int // friends beyond the inspection cap
	Libraries []FriendLibrary
}

// FriendGameStat is a game aggregated across a friends list.
type FriendGameStat struct {
	AppID        uint64
	Name         string
	Owners       int
	LastPlayed   time.Time
	LastPlayedBy string
}

// ServerInfo is the answer of the API availability check.
type ServerInfo struct {
	ServerTime time.Time
	Display    string
}

// Wire formats. Field names follow the Steam Web API.

type serverInfoResponse struct {
	ServerTime       int64  `json:"servertime"`
	ServerTimeString string `json:"servertimestring"`
}

type vanityResponse struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

type playerSummary struct {
	SteamID                  string `json:"steamid"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	AvatarFull               string `json:"avatarfull"`
	PersonaState             int    `json:"personastate"`
	RealName                 string `json:"realname"`
	TimeCreated              int64  `json:"timecreated"`
	LastLogoff               int64  `json:"lastlogoff"`
	CountryCode              string `json:"loccountrycode"`
	GameExtraInfo            string `json:"gameextrainfo"`
}

type playerSummariesResponse struct {
	Response struct {
		Players []playerSummary `json:"players"`
	} `json:"response"`
}

type friendListResponse struct {
	FriendsList struct {
		Friends []struct {
			SteamID      string `json:"steamid"`
			Relationship string `json:"relationship"`
			FriendSince  int64  `json:"friend_since"`
		} `json:"friends"`
	} `json:"friendslist"`
}

type ownedGame struct {
	AppID           uint64 `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"` // minutes
	RTimeLastPlayed int64  `json:"rtime_last_played"`
}

type ownedGamesResponse struct {
	Response struct {
		// GameCount is absent when the library is private.
		GameCount *int        `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type recentlyPlayedResponse struct {
	Response struct {
		TotalCount int         `json:"total_count"`
		Games      []ownedGame `json:"games"`
	} `json:"response"`
}

type schemaResponse struct {
	Game struct {
		GameName           string `json:"gameName"`
		AvailableGameStats struct {
			Achievements []struct {
				Name        string `json:"name"`
				DisplayName string `json:"displayName"`
				Description string `json:"description"`
				Hidden      int    `json:"hidden"`
			} `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

type playerAchievementsResponse struct {
	PlayerStats struct {
		SteamID      string `json:"steamID"`
		GameName     string `json:"gameName"`
		Achievements []struct {
			APIName    string `json:"apiname"`
			Achieved   int    `json:"achieved"`
			UnlockTime int64  `json:"unlocktime"`
		} `json:"achievements"`
		Success bool   `json:"success"`
		Error   string `json:"error"`
	} `json:"playerstats"`
}

type globalPercentagesResponse struct {
	AchievementPercentages struct {
		Achievements []struct {
			Name    string    `json:"name"`
			Percent flexFloat `json:"percent"`
		} `json:"achievements"`
	} `json:"achievementpercentages"`
}

// flexFloat decodes a JSON number or a numeric string; Steam has served
// global achievement percentages as both.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// unixTime converts a Steam epoch field, treating 0 as unset.
func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

var _ json.Unmarshaler = (*flexFloat)(nil)
