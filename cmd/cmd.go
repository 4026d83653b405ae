// Package cmd defines the command-line interface for mindscore.
package cmd

import (
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(instrumentsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(insightCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns: 1 or 2")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emoji direction markers in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("answer-policy", string(schema.ClampPolicy), "Malformed answer handling: clamp or reject")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for sqlite path or mysql/postgresql DSN")
	rootCmd.PersistentFlags().StringP("user", "u", "", "User id for stored history")
	rootCmd.PersistentFlags().StringP("instrument", "i", "", "Instrument key for stored history")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultHistoryLimit, "Maximum number of stored administrations to read")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().Bool("record", false, "Store the result in the history store (requires --user)")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address for the HTTP server to listen on")
	serveCmd.Flags().String("cors-origins", "", "Comma-separated list of allowed CORS origins (default all)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
