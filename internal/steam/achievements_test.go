package steam

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	portalSchema = `{"game":{"gameName":"Portal 2","availableGameStats":{"achievements":[
		{"name":"ACH_WAKE","displayName":"Wake Up Call","description":"Survive the manual override"},
		{"name":"ACH_LASER","displayName":"You Monster","description":"Reunite with GLaDOS"},
		{"name":"ACH_HIDDEN","displayName":"Secret","description":""}
	]}}}`
	portalPlayer = `{"playerstats":{"steamID":"76561197960287930","gameName":"Portal 2","achievements":[
		{"apiname":"ACH_WAKE","achieved":1,"unlocktime":1600000000},
		{"apiname":"ACH_LASER","achieved":1,"unlocktime":1650000000},
		{"apiname":"ACH_HIDDEN","achieved":0,"unlocktime":0}
	],"success":true}}`
	portalGlobal = `{"achievementpercentages":{"achievements":[
		{"name":"ACH_WAKE","percent":87.5},
		{"name":"ACH_LASER","percent":"12.25"},
		{"name":"ACH_HIDDEN","percent":"0.5"}
	]}}`
)

func TestFlexFloat(t *testing.T) {
	var v struct {
		A flexFloat `json:"a"`
		B flexFloat `json:"b"`
		C flexFloat `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":1.5,"b":"2.25","c":null}`), &v))
	assert.Equal(t, flexFloat(1.5), v.A)
	assert.Equal(t, flexFloat(2.25), v.B)
	assert.Equal(t, flexFloat(0), v.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"lots"}`), &v))
}

func TestAchievements_ExplicitApp(t *testing.T) {
	f, client := newFakeSteam(t)
	f.mux.HandleFunc(PlayerAchievementsEndpoint, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "620", r.URL.Query().Get("appid"))
		w.Write([]byte(portalPlayer))
	})
	f.handle(SchemaEndpoint, http.StatusOK, portalSchema)
	f.mux.HandleFunc(GlobalAchievementsEndpoint, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "620", r.URL.Query().Get("gameid"))
		w.Write([]byte(portalGlobal))
	})

	got, err := client.Achievements(context.Background(), gabeID, 620)
	require.NoError(t, err)

	assert.Equal(t, uint64(620), got.AppID)
	assert.Equal(t, "Portal 2", got.GameName)
	require.Len(t, got.Entries, 3)
	assert.Equal(t, 2, got.Unlocked())

	assert.Equal(t, AchievementEntry{
		APIName:       "ACH_LASER",
		Name:          "You Monster",
		Description:   "Reunite with GLaDOS",
		Unlocked:      true,
		GlobalPercent: 12.25,
		UnlockTime:    time.Unix(1650000000, 0).UTC(),
	}, got.Entries[1])
	assert.False(t, got.Entries[2].Unlocked)
	assert.True(t, got.Entries[2].UnlockTime.IsZero())
}

func TestAchievements_DefaultsToMostRecentGame(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(RecentlyPlayedEndpoint, http.StatusOK, `{"response":{"total_count":2,"games":[{"appid":620,"name":"Portal 2"},{"appid":440,"name":"Team Fortress 2"}]}}`)
	f.handle(PlayerAchievementsEndpoint, http.StatusOK, portalPlayer)
	f.handle(SchemaEndpoint, http.StatusOK, portalSchema)
	f.handle(GlobalAchievementsEndpoint, http.StatusOK, portalGlobal)

	got, err := client.Achievements(context.Background(), gabeID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(620), got.AppID)
	assert.Len(t, got.Entries, 3)
}

func TestAchievements_NoRecentGame(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(RecentlyPlayedEndpoint, http.StatusOK, `{"response":{}}`)

	got, err := client.Achievements(context.Background(), gabeID, 0)
	require.NoError(t, err)
	assert.Zero(t, got.AppID)
	assert.Empty(t, got.Entries)
}

func TestAchievements_PrivateProfile(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(PlayerAchievementsEndpoint, http.StatusForbidden, `{"playerstats":{"error":"Profile is not public","success":false}}`)

	_, err := client.Achievements(context.Background(), gabeID, 620)
	assert.ErrorIs(t, err, ErrPrivateProfile)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestAchievements_GameWithoutStats(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(PlayerAchievementsEndpoint, http.StatusBadRequest, `{"playerstats":{"error":"Requested app has no stats","success":false}}`)

	got, err := client.Achievements(context.Background(), gabeID, 12345)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), got.AppID)
	assert.Empty(t, got.Entries)
}

func TestAchievements_SchemaFailure(t *testing.T) {
	f, client := newFakeSteam(t)
	f.handle(PlayerAchievementsEndpoint, http.StatusOK, portalPlayer)
	f.handle(SchemaEndpoint, http.StatusInternalServerError, `down`)
	f.handle(GlobalAchievementsEndpoint, http.StatusOK, portalGlobal)

	_, err := client.Achievements(context.Background(), gabeID, 620)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMergeAchievements_WithoutSchema(t *testing.T) {
	var player playerAchievementsResponse
	var global globalPercentagesResponse
	require.NoError(t, json.Unmarshal([]byte(portalPlayer), &player))
	require.NoError(t, json.Unmarshal([]byte(portalGlobal), &global))

	entries := mergeAchievements(schemaResponse{}, player, global)
	require.Len(t, entries, 3)
	assert.Equal(t, "ACH_WAKE", entries[0].Name)
	assert.Equal(t, 87.5, entries[0].GlobalPercent)
}
