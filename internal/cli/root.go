// Package cli implements the gamectl command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Run builds the command tree, executes args and releases every connection the
// command opened
func Run(ctx context.Context, out io.Writer, args []string, build BuildInfo) error {
	rt := &runtime{out: out}
	defer rt.close()

	cmd := newRootCommand(rt, build)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(rt *runtime, build BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gamectl",
		Short:         "Manage reading game content, accounts and images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
	}
	cmd.SetOut(rt.out)
	cmd.SetErr(rt.out)

	cmd.PersistentFlags().StringVar(&rt.configFile, "config", "", "YAML config file (overrides CONFIG_FILE)")

	cmd.AddCommand(
		newVersionCommand(rt.out, build),
		newMigrateCommand(rt),
		newSeedCommand(rt),
		newClearCommand(rt),
		newContentCommand(rt),
		newBackupCommand(rt),
		newPublicCommand(rt),
		newMediaCommand(rt),
		newAuthCommand(rt),
	)
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return printJSON(out, build)
			}
			_, err := fmt.Fprintf(out, "version=%s commit=%s\n", build.Version, build.Commit)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
