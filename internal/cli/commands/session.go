package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"splitspecs/internal/api"
)

var sessionProject string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage spec-splitting sessions",
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <spec-file>...",
	Short: "Create a session for a set of spec files",
	Long: `Create a session for a set of spec files and print its id.

Examples:
  splitspecs session add --project web cypress/integration/*.spec.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSessionAdd,
}

var nextCmd = &cobra.Command{
	Use:   "next <session-id>",
	Short: "Claim the next spec file of a session",
	Long: `Claim the next spec file of a session and print its path.

Prints nothing when the backlog is exhausted.`,
	Args: cobra.ExactArgs(1),
	RunE: runNext,
}

var projectCmd = &cobra.Command{
	Use:   "project <name>",
	Short: "Show the sessions of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

func init() {
	sessionAddCmd.Flags().StringVarP(&sessionProject, "project", "p", "", "Project name (required)")
	_ = sessionAddCmd.MarkFlagRequired("project")
	sessionCmd.AddCommand(sessionAddCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(projectCmd)
}

func runSessionAdd(cmd *cobra.Command, args []string) error {
	input := api.SessionInput{ProjectName: sessionProject}
	for _, f := range args {
		input.SpecFiles = append(input.SpecFiles, api.SpecFileInput{FilePath: f})
	}
	info, err := api.AddSession(cmd.Context(), current.client, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), info.SessionID)
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	spec, err := api.NextSpec(cmd.Context(), current.client, args[0])
	if err != nil {
		return err
	}
	if spec != "" {
		fmt.Fprintln(cmd.OutOrStdout(), spec)
	}
	return nil
}

func runProject(cmd *cobra.Command, args []string) error {
	p, err := api.GetProject(cmd.Context(), current.client, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", p.ProjectName)
	if p.LatestSession != nil {
		fmt.Fprintf(out, "Latest:  %s\n", *p.LatestSession)
	}
	for _, s := range p.Sessions {
		passed := 0
		for _, spec := range s.Backlog {
			if spec.Passed {
				passed++
			}
		}
		fmt.Fprintf(out, "  %s  started %s  %d/%d passed\n",
			s.ID, formatUnix(s.Start), passed, len(s.Backlog))
	}
	return nil
}

func formatUnix(sec int64) string {
	if sec == 0 {
		return "-"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
