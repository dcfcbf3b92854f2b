package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/dbmigrate"
	"github.com/Black-And-White-Club/last-man-standing/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load configuration for database connection ONLY
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cliApp := &cli.App{
		Name:  "bun",
		Usage: "database migrations for last-man-standing",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(db, cfg.Postgres.DSN, logger),
		},
	}

	if err := cliApp.Run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		log.Fatal(err)
	}
}

func findMigrator(migrators []dbmigrate.NamedMigrator, name string) (dbmigrate.NamedMigrator, error) {
	for _, m := range migrators {
		if m.Name == name {
			return m, nil
		}
	}
	names := make([]string, 0, len(migrators))
	for _, m := range migrators {
		names = append(names, m.Name)
	}
	return dbmigrate.NamedMigrator{}, fmt.Errorf("invalid module name %q, want one of %s", name, strings.Join(names, ", "))
}

func newMultiModuleDBCommand(db *bun.DB, dsn string, logger *slog.Logger) *cli.Command {
	migrators := dbmigrate.Migrators(db)

	return &cli.Command{
		Name:  "db",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.Name)
						if err := m.Migrator.Init(c.Context); err != nil {
							return fmt.Errorf("initializing %s: %w", m.Name, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database, River schema included",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "skip-river", Usage: "leave the River job tables alone"},
				},
				Action: func(c *cli.Context) error {
					if !c.Bool("skip-river") {
						if err := dbmigrate.RiverUp(c.Context, dsn, logger); err != nil {
							return err
						}
					}
					return dbmigrate.Up(c.Context, db, logger)
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of each module, newest module first",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "river", Usage: "also roll back one River schema version"},
				},
				Action: func(c *cli.Context) error {
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.Name)
						group, err := m.Migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.Name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.Name, group)
						}
					}
					if c.Bool("river") {
						return dbmigrate.RiverDown(c.Context, dsn, logger)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, m := range migrators {
						ms, err := m.Migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.Name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					m, err := findMigrator(migrators, c.Args().First())
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := m.Migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", m.Name, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					m, err := findMigrator(migrators, c.Args().First())
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					files, err := m.Migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", m.Name, mf.Name, mf.Path)
					}
					return nil
				},
			},
		},
	}
}
