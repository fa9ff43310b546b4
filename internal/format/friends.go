package format

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/esabouraud/steamscordbot/internal/steam"
)

// FriendsList renders at most count friends, newest friendship first.
func FriendsList(owner string, friends []steam.Friend, count int) string {
	if len(friends) == 0 {
		return fmt.Sprintf("No friends found for %s.", owner)
	}

	sorted := slices.Clone(friends)
	slices.SortStableFunc(sorted, func(a, b steam.Friend) int {
		return b.Since.Compare(a.Since)
	})
	shown := min(max(count, 1), len(sorted))

	var b strings.Builder
	b.WriteString(header(fmt.Sprintf("Friends of %s (%d)", owner, len(sorted)), shown, len(sorted)))
	for i, f := range sorted[:shown] {
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, f.Name, f.Status)
		if !f.Since.IsZero() {
			fmt.Fprintf(&b, ", friends since %s", f.Since.Format(dateLayout))
		}
	}
	return b.String()
}

// AggregateOwned counts how many friends own each game. The result is ordered
// by non-increasing owner count; ties keep first-seen order.
func AggregateOwned(libs []steam.FriendLibrary) []steam.FriendGameStat {
	stats := collect(libs, false)
	slices.SortStableFunc(stats, func(a, b steam.FriendGameStat) int {
		return b.Owners - a.Owners
	})
	return stats
}

// AggregateRecent keeps, for each game, the latest time any friend played it.
// Games no friend ever launched are left out. The result is ordered by
// non-increasing last-played time; ties keep first-seen order.
func AggregateRecent(libs []steam.FriendLibrary) []steam.FriendGameStat {
	stats := collect(libs, true)
	slices.SortStableFunc(stats, func(a, b steam.FriendGameStat) int {
		return b.LastPlayed.Compare(a.LastPlayed)
	})
	return stats
}

func collect(libs []steam.FriendLibrary, playedOnly bool) []steam.FriendGameStat {
	index := make(map[uint64]int)
	var stats []steam.FriendGameStat
	for _, lib := range libs {
		for _, g := range lib.Games {
			if playedOnly && g.LastPlayed.IsZero() {
				continue
			}
			i, ok := index[g.AppID]
			if !ok {
				i = len(stats)
				index[g.AppID] = i
				stats = append(stats, steam.FriendGameStat{AppID: g.AppID, Name: g.Name})
			}
			s := &stats[i]
			s.Owners++
			if g.LastPlayed.After(s.LastPlayed) {
				s.LastPlayed = g.LastPlayed
				s.LastPlayedBy = lib.Friend.Name
			}
		}
	}
	return stats
}

// FriendGames renders the games of a friends list aggregated by mode, which
// is either ModeOwned or ModeRecent.
func FriendGames(owner string, libs steam.FriendLibraries, mode FriendsMode, count int) string {
	if libs.Friends == 0 {
		return fmt.Sprintf("No friends found for %s.", owner)
	}

	var (
		stats []steam.FriendGameStat
		title string
		empty string
	)
	if mode == ModeRecent {
		stats = AggregateRecent(libs.Libraries)
		title = fmt.Sprintf("Games recently played by friends of %s", owner)
		empty = fmt.Sprintf("No friend of %s has played anything yet.", owner)
	} else {
		stats = AggregateOwned(libs.Libraries)
		title = fmt.Sprintf("Games most owned by friends of %s", owner)
		empty = fmt.Sprintf("No games found in the libraries of %s's friends.", owner)
	}

	var b strings.Builder
	if len(stats) == 0 {
		b.WriteString(empty)
	} else {
		shown := min(max(count, 1), len(stats))
		b.WriteString(header(title, shown, len(stats)))
		for i, s := range stats[:shown] {
			name := s.Name
			if name == "" {
				name = fmt.Sprintf("app %d", s.AppID)
			}
			if mode == ModeRecent {
				fmt.Fprintf(&b, "\n%d. %s, last played %s by %s", i+1, name, humanize.Time(s.LastPlayed), s.LastPlayedBy)
			} else {
				fmt.Fprintf(&b, "\n%d. %s, owned by %s", i+1, name, plural(s.Owners, "friend", "friends"))
			}
		}
	}

	if libs.Hidden > 0 {
		fmt.Fprintf(&b, "\n(%s with a private library not counted)", plural(libs.Hidden, "friend", "friends"))
	}
	if libs.Skipped > 0 {
		fmt.Fprintf(&b, "\n(%s past the first %d not inspected)", plural(libs.Skipped, "friend", "friends"), libs.Friends-libs.Skipped)
	}
	return b.String()
}
