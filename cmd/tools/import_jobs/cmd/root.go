package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"job-listings/internal/logging"
	"job-listings/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	dataDir string
	dryRun  bool
	verbose bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "import_jobs",
	Short: "Load the JSON job data into PostgreSQL",
	Long: `import_jobs reads jobs.json, job-details.json and companies.json from a data
directory, validates them the same way the API does, and upserts the result
into the companies and jobs tables named by DATABASE_URL.

With --dry-run (the default) nothing is written; the plan is only reported.`,
	SilenceUsage: true,
	RunE:         runImport,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "directory holding the JSON data files")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", true, "report what would be imported without writing")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func runImport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	env := "production"
	if verbose {
		env = "development"
	}
	logger, err := logging.New(env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	// Unlike the API, the import refuses to proceed on unreadable data.
	snap, err := storage.NewFileSource(dataDir, logger).Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", dataDir, err)
	}
	plan := storage.PlanImport(snap)
	logger.Info("import plan",
		zap.Int("companies", len(plan.Companies)),
		zap.Int("listings", len(plan.Listings)),
		zap.Int("details", len(plan.Details)),
	)

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d companies, %d listings, %d details\n",
			len(plan.Companies), len(plan.Listings), len(plan.Details))
		return nil
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	db, err := storage.NewDB(dsn, logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	res, err := db.Import(ctx, plan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d companies, %d jobs; removed %d jobs no longer in %s\n",
		res.Companies, res.Jobs, res.Pruned, dataDir)
	return nil
}
