package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitspecs/internal/credential"
)

var loginCmd = &cobra.Command{
	Use:   "login <token>",
	Short: "Store a session token",
	Long: `Store a session token under the "token" key of the configured store.

The token is sent as-is in the Authorization header of every request.

Examples:
  splitspecs login eyJhbGciOi...`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if err := current.store.SetItem(credential.TokenKey, args[0]); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	current.loggedIn.Set(true)
	fmt.Fprintln(cmd.OutOrStdout(), "Logged in")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := current.store.RemoveItem(credential.TokenKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	current.loggedIn.Set(false)
	current.cache.Invalidate()
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
