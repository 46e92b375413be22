package cmd

import (
	"context"
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/uuidify/uuidify-go/uuidify"
)

const releaseRepo = "uuidify/uuidify-go"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information injected by the linker
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = v
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "uuidify %s (built %s)\n", version, buildTime)
		fmt.Fprintf(out, "client library %s\n", uuidify.Version)
		if _, err := parseVersion(version); err != nil {
			fmt.Fprintln(out, "development build")
		}
		return nil
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update uuidify to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// parseVersion accepts versions with or without a leading "v"
func parseVersion(v string) (semver.Version, error) {
	return semver.ParseTolerant(v)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := parseVersion(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (%s)", version)
	}

	return selfUpdate(cmd.Context(), cmd, current)
}

func selfUpdate(ctx context.Context, cmd *cobra.Command, current semver.Version) error {
	out := cmd.OutOrStdout()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepo))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for this platform")
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "✓ uuidify %s is up to date\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated uuidify %s -> %s\n", current, latest.Version())
	return nil
}
