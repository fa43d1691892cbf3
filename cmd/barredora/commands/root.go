// Package commands implements the CLI commands for barredora.
package commands

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/barredora/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "BARREDORA"

// NewRootCmd builds the command tree. Each call gets its own viper
// instance so flag and environment lookups never leak between runs.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "barredora",
		Short: "Clean tabular files: drop duplicate and empty rows, capitalize text",
		Long: `Barredora cleans CSV and Excel files.

Cleaning runs three steps in order: duplicate rows are removed, rows
with no values are removed, and every text column is capitalized.

Examples:
  # Clean a file, writing cleaned_people.csv next to it
  barredora clean people.csv

  # Clean to stdout
  barredora clean people.xlsx -o -

  # Look at a file before cleaning it
  barredora inspect people.csv --rows 10`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cmd); err != nil {
				return err
			}
			level := v.GetString("log-level")
			if v.GetBool("debug") {
				level = "debug"
			}
			logging.SetupWriter(cmd.ErrOrStderr(), level, v.GetString("log-format"))
			return nil
		},
	}

	// Global flags
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (YAML, JSON or TOML)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text, json")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress the report on stderr")

	root.AddCommand(newCleanCmd(v), newInspectCmd(v))
	return root
}

// initConfig binds the running command's flags to v, then layers
// BARREDORA_* environment variables and the optional config file on top of
// the flag defaults. Explicitly set flags always win.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// logInfo prints a report line to stderr unless quiet mode is on.
func logInfo(cmd *cobra.Command, v *viper.Viper, format string, args ...any) {
	if !v.GetBool("quiet") {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
