package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Build information variables (set with -ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionOutput represents the version output structure
type VersionOutput struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

func newVersionCmd() *cobra.Command {
	var versionJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := VersionOutput{
				Version:   Version,
				BuildTime: BuildTime,
				GitCommit: GitCommit,
			}
			out := cmd.OutOrStdout()

			if versionJSON {
				output, err := json.MarshalIndent(version, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal json: %w", err)
				}
				fmt.Fprintln(out, string(output))
				return nil
			}
			fmt.Fprintln(out, "steamscordbot version information:")
			fmt.Fprintf(out, "  Version:   %s\n", version.Version)
			fmt.Fprintf(out, "  BuildTime: %s\n", version.BuildTime)
			fmt.Fprintf(out, "  GitCommit: %s\n", version.GitCommit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&versionJSON, "json", false, "Output in JSON format")
	return cmd
}
