package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"treatment-site-service/internal/adapters/policystore"
	"treatment-site-service/internal/adapters/storage"
	"treatment-site-service/internal/config"
	"treatment-site-service/internal/platform/db"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	seedPath    string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Manage the treatment site database",
	Long:  `Create the postgres schema, load seed sites and inspect the stored treatment policy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			return config.ErrMissingDatabaseURL
		}
		return nil
	},
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tables if they do not exist",
	RunE:  runInit,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create tables and upsert the sites in a JSON seed file",
	RunE:  runSeed,
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect the stored treatment policy",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective policy: stored values over catalog defaults",
	RunE:  runPolicyShow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""), "Postgres connection string")

	seedCmd.Flags().StringVarP(&seedPath, "file", "f", config.Get("SEED_PATH", "data/seeds/sites.json"), "Seed JSON file")
	policyShowCmd.Flags().StringVar(&catalogPath, "catalog", config.Get("CATALOG_PATH", ""), "Optional YAML site catalog")

	policyCmd.AddCommand(policyShowCmd)
	rootCmd.AddCommand(initCmd, seedCmd, policyCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	// Flag defaults are read in init, before .env is loaded.
	if databaseURL == "" {
		databaseURL = config.Get("DATABASE_URL", "")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Println("Initializing database schema...")
	if err := storage.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Println("Initializing database schema...")
	if err := storage.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	log.Printf("Seeding database path=%s...", seedPath)
	n, err := storage.SeedFromJSON(ctx, database, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. sites=%d", n)
	return nil
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	catalog, err := config.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	stored, err := policystore.NewPostgresStore(database).LoadPolicy(ctx)
	if err != nil {
		return err
	}
	effective := catalog.DefaultPolicy().Merge(stored)

	out := struct {
		Durations map[string]any  `json:"treatment_durations"`
		Paused    map[string]bool `json:"paused_types"`
	}{
		Durations: make(map[string]any, len(effective.Durations)),
		Paused:    make(map[string]bool, len(effective.Paused)),
	}
	for t, d := range effective.Durations {
		out.Durations[string(t)] = d
	}
	for t, p := range effective.Paused {
		out.Paused[string(t)] = p
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
