/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"salereport/app"
	"salereport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	dbPath      string
	logLevel    string
	strictDates bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "salereport",
	Short: "Keep customer and sales report records per company in a local SQLite database.",
	Long: `
**********************************************
*              SALE REPORT                   *
**********************************************

This CLI imports customer masters and sales report exports (CSV, Excel) into a local
SQLite database, keeps them separated per company, and exports them again.

Supported input formats:
- Excel: .xlsx, .xlsm (legacy .xls must be saved as .xlsx first)
- CSV: .csv
`,
	Example: `
  # Create configuration file
  salereport config create

  # Import a customer master for company_a
  salereport import customers -c company_a -i ./customers.csv

  # Import a sales report export
  salereport import sales-reports -c company_a -i ./sales-2024-03.xlsx

  # Browse the newest sales report rows
  salereport sales list -c company_a --from 2024-03-01 --to 2024-03-31

  # Export customers to Excel
  salereport export customers -c company_a -o ./customers.xlsx

  # Start the local API with live change events
  salereport serve
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.salereport.yaml, then ./.salereport.yaml)")
	flags.StringVar(&dbPath, "db", "", "Path to local SQLite database (overrides database.path)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides log.level)")
	flags.BoolVar(&strictDates, "strict-dates", false, "Reject impossible calendar days such as 31/02 (overrides import.strict_dates)")

	_ = viper.BindPFlag(config.KeyDatabasePath, flags.Lookup("db"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyImportStrictDates, flags.Lookup("strict-dates"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".salereport" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".salereport")
	}

	viper.SetEnvPrefix("SALEREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in. Defaults cover a missing file.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: salereport config create")
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openApp loads the active configuration and opens the database it names.
func openApp() (*app.App, *config.Config, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	application, err := app.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return application, cfg, nil
}
