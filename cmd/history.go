package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/iocache"
	"github.com/huangsam/mindscore/internal/outwriter"
	"github.com/huangsam/mindscore/internal/service"
	"github.com/huangsam/mindscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyStore returns the open store or exits.
func historyStore() contract.HistoryStore {
	if storeManager == nil || storeManager.GetHistoryStore() == nil {
		contract.LogFatal("History is unavailable", service.ErrNoStore)
	}
	return storeManager.GetHistoryStore()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the store, so migrations can
// run against a fresh or downgraded database.
func historyMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on stored result management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored assessment results",
	Long: `Manage the results stored by 'score --record' and the HTTP and MCP adapters.

Each stored result keeps the user, instrument, completion time, scores,
interpretation and subscale scores. The newest result per user and
instrument is flagged as latest.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  list    - Show stored results
  export  - Export results to Parquet for analytics
  clear   - Remove stored results
  migrate - Run database schema migrations`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, schema version, result and user counts, the time range of
stored results and the number of results per instrument.

Examples:
  mindscore history status
  mindscore history status --history-backend postgresql --history-db-connect "host=localhost dbname=mindscore"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := historyStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.NewOutWriter().WriteStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to write status", err)
		}
	},
}

// historyListCmd lists stored results.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show stored results, newest first",
	Long: `List stored results, optionally filtered by --user and --instrument.

Examples:
  mindscore history list --user alice
  mindscore history list --instrument depression_phq9 --limit 10 --output csv`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		rows, err := historyStore().List(rootCtx, schema.HistoryQuery{
			UserID:        cfg.UserID,
			InstrumentKey: cfg.InstrumentKey,
			Limit:         cfg.Limit,
		})
		if err != nil {
			contract.LogFatal("Failed to list history", err)
		}
		if err := outwriter.NewOutWriter().WriteHistory(rows, cfg); err != nil {
			contract.LogFatal("Failed to write history", err)
		}
	},
}

// historyClearCmd clears stored results.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored results",
	Long: `Delete the stored results of --user, or of every user when --user is omitted.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  mindscore history export --output-file backup
  mindscore history clear

  # Clear one user
  mindscore history clear --user alice`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		n, err := historyStore().Clear(rootCtx, cfg.UserID)
		if err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Printf("Removed %d stored results.\n", n)
	},
}

// historyExportCmd exports stored results to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored results to Parquet for BI tools and analytics",
	Long: `Export stored results to Parquet format for use with analytics tools.

Writes two files next to the --output-file prefix:
- <prefix>.results.parquet - one row per stored result
- <prefix>.category_scores.parquet - one row per result and subscale

Filters with --user and --instrument when given.

Examples:
  mindscore history export --output-file mindscore-data
  duckdb -c "SELECT instrument_key, avg(normalized_score) FROM read_parquet('mindscore-data.results.parquet') GROUP BY 1"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		summary, err := iocache.ExportHistory(rootCtx, historyStore(), schema.HistoryQuery{
			UserID:        cfg.UserID,
			InstrumentKey: cfg.InstrumentKey,
		}, cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Failed to export history", err)
		}
		fmt.Printf("Exported %d results to %s\n", summary.ResultCount, summary.ResultsFile)
		fmt.Printf("Exported %d category scores to %s\n", summary.CategoryCount, summary.CategoriesFile)
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  mindscore history migrate

  # Rollback to initial state
  mindscore history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateHistory(rootCtx, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Schema already at version %d, nothing to do.\n", result.ToVersion)
			return
		}
		fmt.Printf("Migrated schema from version %d to %d.\n", result.FromVersion, result.ToVersion)
	},
}
