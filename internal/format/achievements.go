package format

import (
	"fmt"
	"slices"
	"strings"

	"github.com/esabouraud/steamscordbot/internal/steam"
)

// SortAchievements returns a sorted copy of entries. Rarest orders by
// ascending global unlock percent, latest by descending unlock time.
func SortAchievements(entries []steam.AchievementEntry, mode AchievementMode) []steam.AchievementEntry {
	sorted := slices.Clone(entries)
	switch mode {
	case Latest:
		slices.SortStableFunc(sorted, func(a, b steam.AchievementEntry) int {
			return b.UnlockTime.Compare(a.UnlockTime)
		})
	default:
		slices.SortStableFunc(sorted, func(a, b steam.AchievementEntry) int {
			switch {
			case a.GlobalPercent < b.GlobalPercent:
				return -1
			case a.GlobalPercent > b.GlobalPercent:
				return 1
			}
			return 0
		})
	}
	return sorted
}

// Achievements renders the unlocked achievements of one game, at most count
// of them, in the order given by mode.
func Achievements(owner string, ga steam.GameAchievements, mode AchievementMode, count int) string {
	if ga.AppID == 0 {
		return fmt.Sprintf("%s has not played anything recently. Add an app id to pick a game.", owner)
	}

	game := ga.GameName
	if game == "" {
		game = fmt.Sprintf("app %d", ga.AppID)
	}
	if len(ga.Entries) == 0 {
		return fmt.Sprintf("%s has no achievements.", game)
	}

	unlocked := make([]steam.AchievementEntry, 0, len(ga.Entries))
	for _, e := range ga.Entries {
		if e.Unlocked {
			unlocked = append(unlocked, e)
		}
	}
	if len(unlocked) == 0 {
		return fmt.Sprintf("%s has not unlocked any of the %s in %s.", owner, plural(len(ga.Entries), "achievement", "achievements"), game)
	}

	sorted := SortAchievements(unlocked, mode)
	shown := min(max(count, 1), len(sorted))

	title := "Rarest"
	if mode == Latest {
		title = "Latest"
	}

	var b strings.Builder
	b.WriteString(header(fmt.Sprintf("%s achievements of %s in %s (%d/%d unlocked)", title, owner, game, len(unlocked), len(ga.Entries)), shown, len(sorted)))
	for i, e := range sorted[:shown] {
		fmt.Fprintf(&b, "\n%d. %s (%.1f%%)", i+1, e.Name, e.GlobalPercent)
		if mode == Latest && !e.UnlockTime.IsZero() {
			fmt.Fprintf(&b, ", unlocked %s", e.UnlockTime.Format(dateLayout))
		}
		if e.Description != "" {
			fmt.Fprintf(&b, ": %s", e.Description)
		}
	}
	return b.String()
}
