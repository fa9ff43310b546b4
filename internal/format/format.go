// Package format renders Steam data as plain-text chat replies.
//
// Everything here is a pure function of its input. Sorting is stable so that
// entries with equal keys keep the order the Steam Web API returned them in,
// and every empty sequence is rendered as an explicit sentence.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/esabouraud/steamscordbot/internal/steam"
)

const dateLayout = "2006-01-02"

// AchievementMode selects how achievements are ordered.
type AchievementMode string

const (
	Rarest AchievementMode = "rarest"
	Latest AchievementMode = "latest"
)

// FriendsMode selects what the friends command reports.
type FriendsMode string

const (
	ModeList   FriendsMode = "list"
	ModeOwned  FriendsMode = "owned"
	ModeRecent FriendsMode = "recent"
)

// Profile renders one player summary
func Profile(p steam.ProfileSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", p.Name, p.SteamID)
	fmt.Fprintf(&b, "Status: %s, %s profile\n", p.Status, strings.ToLower(p.Visibility.String()))
	if p.RealName != "" {
		fmt.Fprintf(&b, "Real name: %s\n", p.RealName)
	}
	if p.Country != "" {
		fmt.Fprintf(&b, "Country: %s\n", p.Country)
	}
	if p.CurrentGame != "" {
		fmt.Fprintf(&b, "Playing: %s\n", p.CurrentGame)
	}
	if !p.Created.IsZero() {
		fmt.Fprintf(&b, "Member since: %s\n", p.Created.Format(dateLayout))
	}
	if p.Status == steam.StateOffline && !p.LastLogoff.IsZero() {
		fmt.Fprintf(&b, "Last online: %s\n", humanize.Time(p.LastLogoff))
	}
	if p.ProfileURL != "" {
		fmt.Fprintf(&b, "%s\n", p.ProfileURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ServerInfo renders the answer of the availability check
func ServerInfo(info steam.ServerInfo) string {
	if info.ServerTime.IsZero() {
		return "Steam Web API is up."
	}
	return fmt.Sprintf("Steam Web API is up. Server time: %s", info.ServerTime.UTC().Format(time.DateTime+" MST"))
}

// header renders the first line of a list reply.
func header(title string, shown, total int) string {
	if shown < total {
		return fmt.Sprintf("%s, showing %d of %d:", title, shown, total)
	}
	return title + ":"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
