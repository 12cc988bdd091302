package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage accounts and sessions",
		Example: "  gamectl auth signup --email parent@example.com --password secret1\n" +
			"  gamectl auth whoami --token <access-token>",
	}
	cmd.AddCommand(
		newSignUpCommand(rt),
		newSignInCommand(rt),
		newSignOutCommand(rt),
		newWhoAmICommand(rt),
		newResetPasswordCommand(rt),
		newConfirmResetCommand(rt),
		newCleanupSessionsCommand(rt),
	)
	return cmd
}

// readPassword takes the flag value or, when empty, the first line of stdin
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", usageErrorf("password required: pass --password or pipe it on stdin")
		}
		return "", usageErrorf("password must not be empty")
	}
	return line, nil
}

func newSignUpCommand(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and print its session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			session, err := auth.SignUp(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			return printJSON(rt.out, session)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, read from stdin when omitted")
	return cmd
}

func newSignInCommand(rt *runtime) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and print the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			session, err := auth.SignIn(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			return printJSON(rt.out, session)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, read from stdin when omitted")
	return cmd
}

func newSignOutCommand(rt *runtime) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "signout",
		Short: "End the session behind an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			if err := auth.SignOut(cmd.Context(), token); err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.out, "signed out")
			return err
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Access token (required)")
	return cmd
}

func newWhoAmICommand(rt *runtime) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the user behind an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			user, err := auth.GetUser(cmd.Context(), token)
			if err != nil {
				return err
			}
			if user == nil {
				_, err = fmt.Fprintln(rt.out, "not signed in")
				return err
			}
			return printJSON(rt.out, user)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Access token (required)")
	return cmd
}

func newResetPasswordCommand(rt *runtime) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			if err := auth.ResetPassword(cmd.Context(), email); err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.out, "if the account exists, a reset link has been sent")
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	return cmd
}

func newConfirmResetCommand(rt *runtime) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "confirm-reset",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if err := auth.ConfirmPasswordReset(cmd.Context(), token, pw); err != nil {
				return err
			}
			_, err = fmt.Fprintln(rt.out, "password updated")
			return err
		},
	}
	cmd.Flags().StringVar(&token, "reset-token", "", "Token from the reset email (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password, read from stdin when omitted")
	return cmd
}

func newCleanupSessionsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-sessions",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := rt.authService(cmd.Context())
			if err != nil {
				return err
			}
			n, err := auth.CleanupExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(rt.out, "removed %d expired sessions\n", n)
			return err
		},
	}
}
