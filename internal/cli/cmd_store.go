package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"readinggame/internal/database"
	"readinggame/internal/models"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending remote store migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.InitializeWithConfig(rt.cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			applied, err := db.RunMigrations(cmd.Context(), rt.migrationsFS())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				_, err = fmt.Fprintln(rt.out, "schema is up to date")
				return err
			}
			for _, name := range applied {
				if _, err := fmt.Fprintf(rt.out, "applied %s\n", name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSeedCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample content into an empty local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rt.localStore(cmd.Context())
			if err != nil {
				return err
			}
			seeded, err := store.InitializeDefaultData(cmd.Context(), models.DefaultFixture())
			if err != nil {
				return err
			}
			if !seeded {
				_, err = fmt.Fprintln(rt.out, "local store already has content")
				return err
			}
			_, err = fmt.Fprintln(rt.out, "sample content loaded")
			return err
		},
	}
}

func newClearCommand(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every category, group and word from the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(rt.out, "WARNING: This will delete all local content. Type 'yes' to confirm: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					_, err := fmt.Fprintln(rt.out, "clear cancelled")
					return err
				}
			}
			store, err := rt.localStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.ClearAll(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.out, "local store cleared")
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
