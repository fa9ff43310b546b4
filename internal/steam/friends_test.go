package steam

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const friendList = `{"friendslist":{"friends":[
	{"steamid":"76561197960000001","relationship":"friend","friend_since":1500000000},
	{"steamid":"76561197960000002","relationship":"friend","friend_since":1600000000},
	{"steamid":"76561197960000003","relationship":"friend","friend_since":1400000000}
]}}`

const friendSummaries = `{"response":{"players":[
	{"steamid":"76561197960000002","personaname":"Bob","personastate":1},
	{"steamid":"76561197960000001","personaname":"Alice","personastate":0}
]}}`

func TestFriends_NamesAndOrder(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(FriendListEndpoint, http.StatusOK, friendList)
	f.handle(PlayerSummariesEndpoint, http.StatusOK, friendSummaries)

	friends, err := client.Friends(context.Background(), gabeID)
	require.NoError(t, err)
	require.Len(t, friends, 3)

	assert.Equal(t, "Alice", friends[0].Name)
	assert.Equal(t, StateOffline, friends[0].Status)
	assert.Equal(t, "Bob", friends[1].Name)
	assert.Equal(t, StateOnline, friends[1].Status)
	assert.Equal(t, time.Unix(1600000000, 0).UTC(), friends[1].Since)
	// no summary: falls back to the id
	assert.Equal(t, "76561197960000003", friends[2].Name)
}

func TestFriends_PrivateList(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(FriendListEndpoint, http.StatusUnauthorized, `<html><body>Unauthorized</body></html>`)

	_, err := client.Friends(context.Background(), gabeID)
	assert.ErrorIs(t, err, ErrPrivateProfile)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestFriends_Empty(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(FriendListEndpoint, http.StatusOK, `{"friendslist":{"friends":[]}}`)

	friends, err := client.Friends(context.Background(), gabeID)
	require.NoError(t, err)
	assert.Empty(t, friends)
	assert.Equal(t, int32(1), f.requests.Load())
}

func TestOwnedGames(t *testing.T) {
	f, client := newFakeSteam(t)
	f.mux.HandleFunc(OwnedGamesEndpoint, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("include_appinfo"))
		w.Write([]byte(`{"response":{"game_count":1,"games":[{"appid":440,"name":"Team Fortress 2","playtime_forever":90,"rtime_last_played":1700000000}]}}`))
	})

	games, err := client.OwnedGames(context.Background(), gabeID)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, OwnedGame{
		AppID:           440,
		Name:            "Team Fortress 2",
		PlaytimeForever: 90 * time.Minute,
		LastPlayed:      time.Unix(1700000000, 0).UTC(),
	}, games[0])
}

func TestOwnedGames_PrivateLibrary(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(OwnedGamesEndpoint, http.StatusOK, `{"response":{}}`)

	_, err := client.OwnedGames(context.Background(), gabeID)
	assert.ErrorIs(t, err, ErrPrivateProfile)
}

func TestOwnedGames_EmptyLibraryIsNotPrivate(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(OwnedGamesEndpoint, http.StatusOK, `{"response":{"game_count":0}}`)

	games, err := client.OwnedGames(context.Background(), gabeID)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestFriendLibraries(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(FriendListEndpoint, http.StatusOK, friendList)
	f.handle(PlayerSummariesEndpoint, http.StatusOK, friendSummaries)
	f.mux.HandleFunc(OwnedGamesEndpoint, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("steamid") {
		case "76561197960000001":
			fmt.Fprint(w, `{"response":{"game_count":2,"games":[{"appid":440,"name":"Team Fortress 2"},{"appid":570,"name":"Dota 2"}]}}`)
		case "76561197960000002":
			fmt.Fprint(w, `{"response":{}}`)
		default:
			fmt.Fprint(w, `{"response":{"game_count":1,"games":[{"appid":440,"name":"Team Fortress 2"}]}}`)
		}
	})

	libs, err := client.FriendLibraries(context.Background(), gabeID)
	require.NoError(t, err)

	assert.Equal(t, 3, libs.Friends)
	assert.Equal(t, 1, libs.Hidden)
	assert.Zero(t, libs.Skipped)
	require.Len(t, libs.Libraries, 2)
	assert.Equal(t, "Alice", libs.Libraries[0].Friend.Name)
	assert.Len(t, libs.Libraries[0].Games, 2)
	assert.Equal(t, "76561197960000003", libs.Libraries[1].Friend.SteamID)
}

func TestFriendLibraries_CapAndFailure(t *testing.T) {
	f, client := newFakeSteam(t)
	client.maxFriends = 2
	f.handle(FriendListEndpoint, http.StatusOK, friendList)
	f.handle(PlayerSummariesEndpoint, http.StatusOK, friendSummaries)
	f.handle(OwnedGamesEndpoint, http.StatusOK, `{"response":{"game_count":0}}`)

	libs, err := client.FriendLibraries(context.Background(), gabeID)
	require.NoError(t, err)
	assert.Equal(t, 1, libs.Skipped)
	assert.Len(t, libs.Libraries, 2)

	f2, failing := newFakeSteam(t)
	f2.handle(FriendListEndpoint, http.StatusOK, friendList)
	f2.handle(PlayerSummariesEndpoint, http.StatusOK, friendSummaries)
	f2.handle(OwnedGamesEndpoint, http.StatusBadGateway, `gateway`)

	_, err = failing.FriendLibraries(context.Background(), gabeID)
	assert.ErrorIs(t, err, ErrUnavailable)
}
