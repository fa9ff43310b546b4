package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/esabouraud/steamscordbot/internal/core"
	"github.com/spf13/cobra"
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Config   string   `json:"config,omitempty"`
	Prefix   string   `json:"prefix,omitempty"`
	Bots     []string `json:"bots,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var validateJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Validate the configuration without connecting to any platform.

The YAML file, the environment and the flags are merged exactly as for start.

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := ValidationResult{Valid: true, Config: opts.configFile}

			config, err := opts.loadConfig(true)
			if err != nil {
				result.Valid = false
				result.Errors = []string{err.Error()}
			} else {
				result.Prefix = config.CommandPrefix
				result.Bots = config.EnabledBots()
				result.Warnings = configWarnings(config)
			}

			if err := outputValidationResult(cmd.OutOrStdout(), result, validateJSON); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("configuration is invalid")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	return cmd
}

// configWarnings lists settings that are valid but probably unintended
func configWarnings(config *core.Config) []string {
	var warnings []string
	if config.Security.WhitelistEnabled {
		for _, botType := range config.EnabledBots() {
			if len(config.Security.AllowedUsers[botType]) == 0 {
				warnings = append(warnings, fmt.Sprintf("whitelist is enabled but no %s user is allowed", botType))
			}
		}
	}
	if config.Steam.MaxFriends > 500 {
		warnings = append(warnings, fmt.Sprintf("steam.max_friends is %d; owned/recent will make one request per friend", config.Steam.MaxFriends))
	}
	return warnings
}

func outputValidationResult(w io.Writer, result ValidationResult, jsonFormat bool) error {
	if jsonFormat {
		output, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	if result.Valid {
		fmt.Fprintln(w, "Configuration is valid")
		if result.Config != "" {
			fmt.Fprintf(w, "  - Config: %s\n", result.Config)
		}
		fmt.Fprintf(w, "  - Prefix: %s\n", result.Prefix)
		fmt.Fprintf(w, "  - Bots enabled: %v\n", result.Bots)
	} else {
		fmt.Fprintln(w, "Configuration validation failed:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", errMsg)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
	return nil
}
