// Command corobot watches the CORO PROJECT talents' X accounts and
// reposts their stream announcements on the bot account.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/coroproject/corobot/internal/app"
	"github.com/coroproject/corobot/internal/archive"
	"github.com/coroproject/corobot/internal/config"
	"github.com/coroproject/corobot/internal/dedup"
	"github.com/coroproject/corobot/internal/scheduler"
	"github.com/coroproject/corobot/internal/xapi"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// A .env next to the binary is a development convenience; only the
	// environment variables themselves matter.
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:    "corobot",
		Usage:   "reposts CORO PROJECT stream announcements on X",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to TOML config file",
				Value:   "corobot.toml",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "X API consumer key",
				EnvVars: []string{"X_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "api-secret",
				Usage:   "X API consumer secret",
				EnvVars: []string{"X_API_SECRET"},
			},
			&cli.StringFlag{
				Name:    "access-token",
				Usage:   "OAuth access token of the bot account",
				EnvVars: []string{"X_ACCESS_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "access-token-secret",
				Usage:   "OAuth access token secret of the bot account",
				EnvVars: []string{"X_ACCESS_TOKEN_SECRET"},
			},
		},
		Action: runOnce,
		Commands: []*cli.Command{
			{
				Name:  "watch",
				Usage: "run periodically until interrupted",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "interval",
						Usage: "minutes between runs (overrides config)",
					},
				},
				Action: runWatch,
			},
			{
				Name:   "init",
				Usage:  "write a default config file",
				Action: runInit,
			},
			{
				Name:  "history",
				Usage: "show recent reposts from the archive",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "n",
						Usage: "number of entries to show",
						Value: 20,
					},
				},
				Action: runHistory,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runOnce(cctx *cli.Context) error {
	a, _, arc, err := buildApp(cctx)
	if err != nil {
		return err
	}
	if arc != nil {
		defer arc.Close()
	}

	return a.Run(cctx.Context)
}

func runWatch(cctx *cli.Context) error {
	a, cfg, arc, err := buildApp(cctx)
	if err != nil {
		return err
	}
	if arc != nil {
		defer arc.Close()
	}

	minutes := cctx.Int("interval")
	if minutes == 0 {
		minutes = cfg.Watch.IntervalMinutes
	}
	if minutes < 1 {
		return fmt.Errorf("watch interval must be at least 1 minute, got %d", minutes)
	}

	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// First pass runs immediately so a broken setup fails at startup
	// instead of minutes later.
	if err := a.Run(ctx); err != nil {
		return err
	}

	sched := scheduler.New()
	if err := sched.AddInterval("run", time.Duration(minutes)*time.Minute, a.Run); err != nil {
		return err
	}
	sched.Start()

	<-ctx.Done()
	log.Println("shutting down...")
	<-sched.Stop().Done()

	return nil
}

func runInit(cctx *cli.Context) error {
	path := cctx.String("config")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Printf("wrote default config to %s", path)
	return nil
}

func runHistory(cctx *cli.Context) error {
	cfg := loadConfig(cctx)

	arc, err := archive.Open(cfg.ArchiveFile)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arc.Close()

	entries, err := arc.Recent(cctx.Int("n"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no reposts recorded yet")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  @%s  %s\n    %s\n", e.RepostedAt.Format("2006-01-02 15:04"), e.AuthorHandle, e.Permalink, e.Text)
	}

	return nil
}

// buildApp assembles a run-ready App from flags, config, and environment.
func buildApp(cctx *cli.Context) (*app.App, *config.Config, *archive.Archive, error) {
	cfg := loadConfig(cctx)

	creds := xapi.Credentials{
		APIKey:            cctx.String("api-key"),
		APISecret:         cctx.String("api-secret"),
		AccessToken:       cctx.String("access-token"),
		AccessTokenSecret: cctx.String("access-token-secret"),
	}
	client, err := xapi.New(creds)
	if err != nil {
		return nil, nil, nil, err
	}

	store := dedup.NewStore(cfg.StateFile)

	// The archive is a nice-to-have; the bot works without it.
	arc, err := archive.Open(cfg.ArchiveFile)
	if err != nil {
		log.Printf("Warning: archive unavailable: %v", err)
		arc = nil
	}

	return app.New(cfg, client, store, arc), cfg, arc, nil
}

// loadConfig reads the config file, falling back to built-in defaults
// when none exists yet.
func loadConfig(cctx *cli.Context) *config.Config {
	path := cctx.String("config")

	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("no config at %s, using built-in defaults (run `corobot init` to write one)", path)
		} else {
			log.Printf("Warning: could not load config: %v (using defaults)", err)
		}
		return config.Default()
	}

	return cfg
}
