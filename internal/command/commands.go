package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/esabouraud/steamscordbot/internal/format"
)

func builtinCommands() []*Command {
	return []*Command{
		{
			Name:        "profile",
			Usage:       "profile <steam id, profile url or vanity name>",
			Description: "Show a Steam profile summary",
			run:         runProfile,
		},
		{
			Name:        "achievements",
			Aliases:     []string{"ach"},
			Usage:       "achievements <profile> [rarest|latest] [count] [appid]",
			Description: "List unlocked achievements, rarest or latest first. Uses the most recently played game unless an app id is given",
			run:         runAchievements,
		},
		{
			Name:        "friends",
			Usage:       "friends <profile> [list|owned|recent] [count]",
			Description: "List friends, or the games they own most or played last",
			run:         runFriends,
		},
		{
			Name:        "check",
			Aliases:     []string{"ping"},
			Usage:       "check",
			Description: "Check that the Steam Web API is reachable",
			run:         runCheck,
		},
		{
			Name:        "help",
			Usage:       "help [command]",
			Description: "Show this help, or the usage of one command",
			run:         runHelp,
		},
	}
}

func runProfile(ctx context.Context, d *Dispatcher, args []string) (string, error) {
	if len(args) == 0 {
		return "", parseErrorf("Missing Steam profile.")
	}
	if len(args) > 1 {
		return "", parseErrorf("Too many arguments.")
	}

	id, err := d.steam.ResolveIdentity(ctx, args[0])
	if err != nil {
		return "", err
	}
	profile, err := d.steam.Profile(ctx, id.SteamID)
	if err != nil {
		return "", err
	}
	return format.Profile(profile), nil
}

func runAchievements(ctx context.Context, d *Dispatcher, args []string) (string, error) {
	parsed, err := d.parseAchievementsArgs(args)
	if err != nil {
		return "", err
	}

	id, err := d.steam.ResolveIdentity(ctx, parsed.profile)
	if err != nil {
		return "", err
	}
	achievements, err := d.steam.Achievements(ctx, id.SteamID, parsed.appID)
	if err != nil {
		return "", err
	}
	return format.Achievements(parsed.profile, achievements, parsed.mode, parsed.count), nil
}

func runFriends(ctx context.Context, d *Dispatcher, args []string) (string, error) {
	parsed, err := d.parseFriendsArgs(args)
	if err != nil {
		return "", err
	}

	id, err := d.steam.ResolveIdentity(ctx, parsed.profile)
	if err != nil {
		return "", err
	}

	if parsed.mode == format.ModeList {
		friends, err := d.steam.Friends(ctx, id.SteamID)
		if err != nil {
			return "", err
		}
		return format.FriendsList(parsed.profile, friends, parsed.count), nil
	}

	libs, err := d.steam.FriendLibraries(ctx, id.SteamID)
	if err != nil {
		return "", err
	}
	return format.FriendGames(parsed.profile, libs, parsed.mode, parsed.count), nil
}

func runCheck(ctx context.Context, d *Dispatcher, args []string) (string, error) {
	info, err := d.steam.ServerInfo(ctx)
	if err != nil {
		return "", err
	}
	return format.ServerInfo(info), nil
}

func runHelp(_ context.Context, d *Dispatcher, args []string) (string, error) {
	if len(args) > 0 {
		cmd, ok := d.Lookup(args[0])
		if !ok {
			return d.unknownReply(args[0]), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n%s", d.usage(cmd), cmd.Description)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&b, "\nAliases: %s", strings.Join(cmd.Aliases, ", "))
		}
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString("Commands:")
	for _, cmd := range d.ordered {
		fmt.Fprintf(&b, "\n%s - %s", d.usage(cmd), cmd.Description)
	}
	fmt.Fprintf(&b, "\nA profile is a Steam ID, a steamcommunity.com link or a vanity name. Counts go from 1 to %d (default %d).", d.maxCount, d.defaultCount)
	return b.String(), nil
}
