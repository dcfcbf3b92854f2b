package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app"
	authdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/infrastructure/jwt"
	gameweekhandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/handlers"
	gameweektime "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/timeparse"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/config"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "lastman",
		Usage: "last man standing pick'em engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file", EnvVars: []string{"CONFIG_PATH"}},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before the configuration"},
		},
		Before: func(c *cli.Context) error {
			// A missing .env is normal outside development.
			if err := godotenv.Load(c.String("env-file")); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load %s: %w", c.String("env-file"), err)
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			gameweekCommand(),
			sweepCommand(),
			fixturesCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to load config: %w", err)
	}
	obsCfg := config.ToObsConfig(cfg)
	if c.Command.Name != "serve" {
		// Keep stdout for command output.
		obsCfg.Output = os.Stderr
	}
	return cfg, observability.Init(obsCfg), nil
}

// withApp initializes the application for a one-shot command and closes it
// afterwards.
func withApp(c *cli.Context, opts app.Options, fn func(ctx context.Context, a *app.App) error) error {
	cfg, obs, err := loadConfig(c)
	if err != nil {
		return err
	}
	a := app.NewApp(cfg, obs)
	if err := a.Initialize(c.Context, opts); err != nil {
		_ = a.Close()
		return err
	}
	defer a.Close()
	return fn(c.Context, a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, event router and sweep workers",
		Action: func(c *cli.Context) error {
			cfg, obs, err := loadConfig(c)
			if err != nil {
				return err
			}
			ctx, stop := app.SignalContext(c.Context)
			defer stop()

			a := app.NewApp(cfg, obs)
			if err := a.Initialize(ctx, app.Options{Sweeps: true}); err != nil {
				_ = a.Close()
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return a.Run(ctx)
		},
	}
}

func gameweekCommand() *cli.Command {
	return &cli.Command{
		Name:  "gameweek",
		Usage: "print the gameweek window and status",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "at", Usage: `evaluate at this time, e.g. "next saturday 3pm" or "2026-10-17 15:00"`},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, app.Options{}, func(ctx context.Context, a *app.App) error {
				svc := a.GameweekModule.GameweekService
				loc := svc.Calculator().Location()

				at, err := gameweektime.NewParser(loc, clock.RealClock{}).Parse(c.String("at"))
				if err != nil {
					return err
				}
				status, err := svc.Status(ctx, nil, at)
				if err != nil {
					return err
				}
				return printJSON(gameweekhandlers.ToView(status, loc))
			})
		},
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:      "sweep",
		Usage:     "run one sweep now",
		ArgsUsage: "<winners|deadline|rollover|gameweek>",
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return cli.Exit("sweep name is required", 2)
			}
			return withApp(c, app.Options{}, func(ctx context.Context, a *app.App) error {
				summary, err := a.EliminationModule.Runner.Run(ctx, name)
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}
}

func fixturesCommand() *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "fixture maintenance",
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import season fixtures from an XLSX workbook",
				ArgsUsage: "<file.xlsx>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "league", Usage: "competition code for rows without one"},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return cli.Exit("workbook path is required", 2)
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", path, err)
					}
					return withApp(c, app.Options{}, func(ctx context.Context, a *app.App) error {
						result, err := a.FixtureModule.FixtureService.ImportSeason(ctx, data, c.String("league"))
						if err != nil {
							return err
						}
						if result.Failure != nil {
							return *result.Failure
						}
						return printJSON(result.Success)
					})
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token for development and operators",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Required: true, Usage: "user id placed in the subject"},
			&cli.StringFlag{Name: "role", Value: string(authdomain.RolePlayer), Usage: "player or admin"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime, defaults to the configured TTL"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			role := authdomain.Role(c.String("role"))
			if !role.IsValid() {
				return cli.Exit(fmt.Sprintf("unknown role %q", role), 2)
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = cfg.JWT.DefaultTTL
			}

			token, err := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer).GenerateToken(c.String("user"), role, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(ttl).Format(time.RFC3339))
			return nil
		},
	}
}
