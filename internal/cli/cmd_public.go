package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPublicCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "public",
		Short: "Inspect and publish the preview content shown before sign-in",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the active public content",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := rt.gameRepository(cmd.Context())
				if err != nil {
					return err
				}
				content, err := repo.GetPublicContent(cmd.Context())
				if err != nil {
					return err
				}
				if content == nil {
					_, err = fmt.Fprintln(rt.out, "no active public content")
					return err
				}
				return printJSON(rt.out, content)
			},
		},
		newPublishCommand(rt),
	)
	return cmd
}

func newPublishCommand(rt *runtime) *cobra.Command {
	var userID, token string

	cmd := &cobra.Command{
		Use:   "publish <group-id>",
		Short: "Make one of your groups the active public content (admins only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := rt.gameRepository(cmd.Context())
			if err != nil {
				return err
			}
			publisher, err := rt.publishService(cmd.Context())
			if err != nil {
				return err
			}
			ctx, err := rt.ownerContext(cmd.Context(), userID, token)
			if err != nil {
				return err
			}
			content, err := publisher.Publish(ctx, repo, args[0])
			if err != nil {
				return err
			}
			return printJSON(rt.out, content)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Owner user id")
	cmd.Flags().StringVar(&token, "token", "", "Access token identifying the owner")
	return cmd
}
