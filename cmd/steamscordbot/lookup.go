package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <command> [args...]",
		Short: "Run one chat command from the terminal",
		Long: `Run one chat command against the Steam Web API and print the reply, exactly
as the bot would post it. Only the Steam API key is required; logs go to stderr.

Examples:
  steamscordbot lookup profile gabelogannewell
  steamscordbot lookup achievements 76561197960287930 rarest 3 440
  steamscordbot lookup friends gabelogannewell owned`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.loadConfig(false)
			if err != nil {
				return err
			}
			if err := initLogger(config, cmd.ErrOrStderr()); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			reply := newDispatcher(config).Execute(cmd.Context(), strings.ToLower(args[0]), args[1:])
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
