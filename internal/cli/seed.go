package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/database"
	auditdb "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/logging"
	"github.com/mrlokans/locallibrary/internal/seed"
)

// SeedCommand populates an empty catalog with the demo library.
type SeedCommand struct {
	Driver       string
	DatabasePath string
	DatabaseURL  string
	Force        bool
	Verbose      bool
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	// Defaults follow DATABASE_DRIVER, DATABASE_PATH and DATABASE_URL
	defaults := config.NewConfig().Database
	fs.StringVar(&cmd.Driver, "driver", defaults.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.DatabasePath, "db", defaults.Path, "Path to the SQLite database file")
	fs.StringVar(&cmd.DatabaseURL, "url", defaults.URL, "PostgreSQL connection URL (with -driver postgres)")
	fs.BoolVar(&cmd.Force, "force", false, "Seed even if the catalog already has authors")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the demo catalog: authors, genres, books and copies.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -db ./library.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -driver postgres -url postgres://localhost/library\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Driver == database.DriverPostgres && cmd.DatabaseURL == "" {
		return fmt.Errorf("required flag -url not provided for postgres")
	}
	return nil
}

func (cmd *SeedCommand) Run() error {
	fmt.Println("Seed Catalog")
	fmt.Println("============")

	level := "info"
	if cmd.Verbose {
		level = "debug"
	}
	log, err := logging.New(level, cmd.Verbose, "seed")
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDatabase(database.Options{
		Driver:   cmd.Driver,
		Path:     cmd.DatabasePath,
		URL:      cmd.DatabaseURL,
		LogLevel: logger.Warn,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := catalog.NewRepository(db.DB)
	auditService := audit.NewService(auditdb.NewRepository(db.DB), log.Named("audit"))

	seeder := seed.NewSeeder(repo, integrity.NewGuard(repo), auditService, log)
	seeder.Force = cmd.Force

	summary, err := seeder.Run(context.Background(), seed.Demo)
	auditService.Wait()
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", summary)
	return nil
}
