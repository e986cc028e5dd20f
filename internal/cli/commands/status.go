package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitspecs/internal/api"
	"splitspecs/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login state and client settings",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Logged in:   %t\n", api.IsLoggedIn(current.client))
	fmt.Fprintf(out, "Endpoint:    %s\n", current.settings.Endpoint)
	fmt.Fprintf(out, "Token store: %s\n", current.settings.TokenStore)
	fmt.Fprintf(out, "Config dir:  %s\n", config.ConfigDir())
	return nil
}
