package format

import (
	"strings"
	"testing"
	"time"

	"github.com/esabouraud/steamscordbot/internal/steam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 12, 0, 0, 0, time.UTC)
}

// lines drops the header line of a list reply.
func lines(s string) []string {
	return strings.Split(s, "\n")[1:]
}

func TestProfile(t *testing.T) {
	out := Profile(steam.ProfileSummary{
		SteamID:     "76561197960287930",
		Name:        "Rabscuttle",
		RealName:    "Gabe Newell",
		Country:     "US",
		CurrentGame: "Half-Life 3",
		ProfileURL:  "https://steamcommunity.com/id/gabelogannewell/",
		Status:      steam.StateOnline,
		Visibility:  steam.VisibilityPublic,
		Created:     time.Date(2003, time.September, 12, 0, 0, 0, 0, time.UTC),
	})

	assert.True(t, strings.HasPrefix(out, "Rabscuttle (76561197960287930)\n"))
	assert.Contains(t, out, "Status: Online, public profile")
	assert.Contains(t, out, "Real name: Gabe Newell")
	assert.Contains(t, out, "Playing: Half-Life 3")
	assert.Contains(t, out, "Member since: 2003-09-12")
	assert.NotContains(t, out, "Last online")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestProfile_OfflineShowsLastLogoff(t *testing.T) {
	out := Profile(steam.ProfileSummary{
		SteamID:    "76561197960287930",
		Name:       "Rabscuttle",
		Visibility: steam.VisibilityPrivate,
		LastLogoff: time.Now().Add(-3 * time.Hour),
	})

	assert.Contains(t, out, "Status: Offline, private profile")
	assert.Contains(t, out, "Last online: 3 hours ago")
	assert.NotContains(t, out, "Real name")
}

func TestServerInfo(t *testing.T) {
	out := ServerInfo(steam.ServerInfo{ServerTime: time.Unix(1700000000, 0)})
	assert.Equal(t, "Steam Web API is up. Server time: 2023-11-14 22:13:20 UTC", out)
	assert.Equal(t, "Steam Web API is up.", ServerInfo(steam.ServerInfo{}))
}

func TestSortAchievements(t *testing.T) {
	entries := []steam.AchievementEntry{
		{Name: "A", GlobalPercent: 50, UnlockTime: day(3)},
		{Name: "B", GlobalPercent: 2, UnlockTime: day(1)},
		{Name: "C", GlobalPercent: 10, UnlockTime: day(3)},
		{Name: "D", GlobalPercent: 2, UnlockTime: day(5)},
	}

	rarest := SortAchievements(entries, Rarest)
	assert.Equal(t, []string{"B", "D", "C", "A"}, names(rarest))
	for i := 1; i < len(rarest); i++ {
		assert.LessOrEqual(t, rarest[i-1].GlobalPercent, rarest[i].GlobalPercent)
	}

	latest := SortAchievements(entries, Latest)
	assert.Equal(t, []string{"D", "A", "C", "B"}, names(latest))
	for i := 1; i < len(latest); i++ {
		assert.False(t, latest[i].UnlockTime.After(latest[i-1].UnlockTime))
	}

	// input untouched
	assert.Equal(t, "A", entries[0].Name)
}

func names(entries []steam.AchievementEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestAchievements(t *testing.T) {
	ga := steam.GameAchievements{
		SteamID:  "76561197960287930",
		AppID:    620,
		GameName: "Portal 2",
		Entries: []steam.AchievementEntry{
			{Name: "Common", GlobalPercent: 80, Unlocked: true, UnlockTime: day(2)},
			{Name: "Locked", GlobalPercent: 0.5},
			{Name: "Rare", Description: "Hard one", GlobalPercent: 1.3, Unlocked: true, UnlockTime: day(1)},
			{Name: "Mid", GlobalPercent: 30, Unlocked: true, UnlockTime: day(3)},
		},
	}

	out := Achievements("gaben", ga, Rarest, 2)
	require.Equal(t, "Rarest achievements of gaben in Portal 2 (3/4 unlocked), showing 2 of 3:", strings.Split(out, "\n")[0])
	assert.Equal(t, []string{"1. Rare (1.3%): Hard one", "2. Mid (30.0%)"}, lines(out))
	assert.NotContains(t, out, "Locked")

	out = Achievements("gaben", ga, Latest, 10)
	assert.Equal(t, "Latest achievements of gaben in Portal 2 (3/4 unlocked):", strings.Split(out, "\n")[0])
	assert.Equal(t, []string{
		"1. Mid (30.0%), unlocked 2024-01-03",
		"2. Common (80.0%), unlocked 2024-01-02",
		"3. Rare (1.3%), unlocked 2024-01-01: Hard one",
	}, lines(out))
}

func TestAchievements_ClampsCount(t *testing.T) {
	ga := steam.GameAchievements{AppID: 620, GameName: "Portal 2", Entries: []steam.AchievementEntry{
		{Name: "One", Unlocked: true},
		{Name: "Two", Unlocked: true},
	}}

	assert.Len(t, lines(Achievements("gaben", ga, Rarest, 0)), 1)
	assert.Len(t, lines(Achievements("gaben", ga, Rarest, -4)), 1)
}

func TestAchievements_NoData(t *testing.T) {
	tests := []struct {
		name string
		ga   steam.GameAchievements
		want string
	}{
		{
			name: "no recent game",
			ga:   steam.GameAchievements{},
			want: "gaben has not played anything recently. Add an app id to pick a game.",
		},
		{
			name: "game without achievements",
			ga:   steam.GameAchievements{AppID: 12345},
			want: "app 12345 has no achievements.",
		},
		{
			name: "nothing unlocked",
			ga: steam.GameAchievements{AppID: 620, GameName: "Portal 2", Entries: []steam.AchievementEntry{
				{Name: "One"}, {Name: "Two"},
			}},
			want: "gaben has not unlocked any of the 2 achievements in Portal 2.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Achievements("gaben", tt.ga, Rarest, 5))
		})
	}
}
