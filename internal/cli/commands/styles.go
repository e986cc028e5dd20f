package commands

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"splitspecs/internal/config"
	"splitspecs/internal/style"
)

var (
	stylesConfigPath string
	stylesFilesOnly  bool
)

var stylesCmd = &cobra.Command{
	Use:   "styles [dir]",
	Short: "Show the style build configuration and its content files",
	Long: `Show the style build configuration and the files its content globs select.

The configuration is read from ~/.splitspecs/style.yaml, falling back to the
built-in defaults. dir defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStyles,
}

func init() {
	stylesCmd.Flags().StringVarP(&stylesConfigPath, "config", "c", "", "Style config file (default: config dir style.yaml)")
	stylesCmd.Flags().BoolVar(&stylesFilesOnly, "files", false, "Only list content files")
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	path := stylesConfigPath
	if path == "" {
		path = config.StylePath()
	}
	cfg, err := style.Load(path)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	files, err := cfg.ContentFiles(osfs.New(abs))
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", abs, err)
	}

	out := cmd.OutOrStdout()
	if stylesFilesOnly {
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		return nil
	}

	dark := string(cfg.DarkMode)
	if dark == "" {
		dark = "off"
	}
	fmt.Fprintf(out, "Dark mode: %s\n", dark)
	fmt.Fprintln(out, "Purge:")
	for _, p := range cfg.Purge {
		fmt.Fprintf(out, "  %s\n", p)
	}
	fmt.Fprintln(out, "Variants:")
	for _, u := range slices.Sorted(maps.Keys(cfg.Variants.Extend)) {
		fmt.Fprintf(out, "  %s: %s\n", u, strings.Join(cfg.Variants.Extend[u], ", "))
	}
	fmt.Fprintf(out, "Plugins: %d\n", len(cfg.Plugins))
	fmt.Fprintf(out, "Content files (%d):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}
