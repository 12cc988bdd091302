package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"readinggame/internal/service"
)

func newBackupCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import and transfer content between stores",
		Example: "  gamectl backup export --output content.json\n" +
			"  gamectl backup import --input content.json --store remote --user <id>\n" +
			"  gamectl backup transfer --from local --to remote --user <id>",
	}
	cmd.AddCommand(
		newBackupExportCommand(rt),
		newBackupImportCommand(rt),
		newBackupTransferCommand(rt),
	)
	return cmd
}

func printImportStats(rt *runtime, stats *service.ImportStats) error {
	_, err := fmt.Fprintf(rt.out, "imported categories=%d groups=%d words=%d skipped=%d\n",
		stats.Categories, stats.Groups, stats.Words, stats.Skipped)
	return err
}

func newBackupExportCommand(rt *runtime) *cobra.Command {
	var (
		sf         storeFlags
		outputPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a store's content to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			backups := service.NewBackupService(rt.log)

			if outputPath == "-" {
				_, err := backups.Export(ctx, store, sf.store, rt.out)
				return err
			}
			if outputPath == "" {
				outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			backup, err := backups.ExportFile(ctx, store, sf.store, outputPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(rt.out, "exported categories=%d groups=%d words=%d to %s\n",
				len(backup.Categories), len(backup.Groups), len(backup.Words), outputPath)
			return err
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file, - for stdout (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newBackupImportCommand(rt *runtime) *cobra.Command {
	var (
		sf        storeFlags
		inputPath string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON export into a store, skipping records that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(inputPath) == "" {
				return usageErrorf("backup import requires --input")
			}
			if _, err := os.Stat(inputPath); err != nil {
				return fmt.Errorf("input file: %w", err)
			}
			store, ctx, err := rt.openStore(cmd.Context(), sf)
			if err != nil {
				return err
			}
			stats, err := service.NewBackupService(rt.log).ImportFile(ctx, store, inputPath)
			if err != nil {
				return err
			}
			return printImportStats(rt, stats)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&inputPath, "input", "", "Input file (required)")
	return cmd
}

func newBackupTransferCommand(rt *runtime) *cobra.Command {
	var (
		from, to      string
		userID, token string
	)
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Copy every record from one store into the other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.EqualFold(from, to) {
				return usageErrorf("--from and --to must differ")
			}
			src, srcCtx, err := rt.openStore(cmd.Context(), storeFlags{store: from, userID: userID, token: token})
			if err != nil {
				return err
			}
			dst, dstCtx, err := rt.openStore(cmd.Context(), storeFlags{store: to, userID: userID, token: token})
			if err != nil {
				return err
			}

			// the local store ignores the owner, so the remote side's context serves both
			ctx := dstCtx
			if strings.EqualFold(from, "remote") {
				ctx = srcCtx
			}
			stats, err := service.NewBackupService(rt.log).Transfer(ctx, src, dst, from)
			if err != nil {
				return err
			}
			return printImportStats(rt, stats)
		},
	}
	cmd.Flags().StringVar(&from, "from", "local", "Source store: local or remote")
	cmd.Flags().StringVar(&to, "to", "remote", "Destination store: local or remote")
	cmd.Flags().StringVar(&userID, "user", "", "Owner user id for the remote store")
	cmd.Flags().StringVar(&token, "token", "", "Access token identifying the remote store owner")
	return cmd
}
