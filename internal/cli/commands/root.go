// Copyright 2024 SplitSpecs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"splitspecs/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// current is the client wiring of the running command, built in PersistentPreRunE.
var current *app

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// getVersionString returns the version string with build info
func getVersionString() string {
	buildDate := formatBuildDate(date)
	if strings.HasSuffix(version, "-dev") {
		// Dev build: include epoch and commit for troubleshooting
		return fmt.Sprintf("%s (%s, epoch: %s, commit: %s)", version, buildDate, date, commit)
	}
	return fmt.Sprintf("%s (%s)", version, buildDate)
}

// formatBuildDate converts epoch timestamp to readable date
func formatBuildDate(epoch string) string {
	ts, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return epoch
	}
	return time.Unix(ts, 0).Format("2006-01-02")
}

var rootCmd = &cobra.Command{
	Use:   "splitspecs",
	Short: "Client for the split-specs GraphQL API",
	Long: `Client for the split-specs GraphQL API.

Every request carries the stored session token in the Authorization header.
Settings live in ~/.splitspecs/settings.yaml (override the directory with SPLITSPECS_CONFIG_DIR).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if err := config.InitConfigDir(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		a, err := newApp(settings, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("splitspecs version {{.Version}}\n")
}

// Execute runs the root command. The client wiring is closed even when the
// command fails, since cobra skips post-run hooks after an error.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, closeCurrent())
}

func closeCurrent() error {
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}
