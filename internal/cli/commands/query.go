package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"splitspecs/internal/graphql"
)

var (
	queryVars     []string
	queryVarsJSON string
	queryName     string
	queryMutation bool
)

var queryCmd = &cobra.Command{
	Use:   "query <document|@file>",
	Short: "Run a GraphQL operation",
	Long: `Run a GraphQL query or mutation and print the "data" field as JSON.

The document is given inline or read from a file with the @ prefix.
Server errors are printed to stderr and make the command fail.

Examples:
  splitspecs query '{ nextSpec(sessionId: "abc") }'
  splitspecs query @project.graphql --var name=web
  splitspecs query @add.graphql --mutation --vars-json '{"session":{"projectName":"web","specFiles":[]}}'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryVars, "var", nil, "Variable as key=value (repeatable)")
	queryCmd.Flags().StringVar(&queryVarsJSON, "vars-json", "", "Variables as a JSON object")
	queryCmd.Flags().StringVarP(&queryName, "name", "n", "", "Operation name")
	queryCmd.Flags().BoolVarP(&queryMutation, "mutation", "m", false, "Send as a mutation")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	vars, err := parseVariables(queryVarsJSON, queryVars)
	if err != nil {
		return err
	}

	var opts []graphql.OperationOption
	if queryName != "" {
		opts = append(opts, graphql.WithOperationName(queryName))
	}

	run := current.client.Query
	if queryMutation {
		run = current.client.Mutate
	}
	resp, err := run(cmd.Context(), doc, vars, opts...)
	if err != nil {
		return err
	}

	if resp.Data != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp.Data); err != nil {
			return err
		}
	}
	for _, e := range resp.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %s (path: %s)\n", e.Message, e.PathString())
	}
	return resp.Err()
}

func readDocument(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	data, err := os.ReadFile(arg[1:])
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

// parseVariables merges a JSON object with key=value pairs; pairs win.
func parseVariables(rawJSON string, pairs []string) (map[string]any, error) {
	vars := map[string]any{}
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &vars); err != nil {
			return nil, fmt.Errorf("invalid --vars-json: %w", err)
		}
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", p)
		}
		vars[k] = v
	}
	if len(vars) == 0 {
		return nil, nil
	}
	return vars, nil
}
