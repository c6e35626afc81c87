// Command wsim generates a synthetic project-management workspace and
// writes it to SQLite or PostgreSQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nhle/workspace-sim/internal/config"
	"github.com/nhle/workspace-sim/internal/content"
	"github.com/nhle/workspace-sim/internal/credential"
	"github.com/nhle/workspace-sim/internal/dist"
	"github.com/nhle/workspace-sim/internal/generator"
	"github.com/nhle/workspace-sim/internal/logger"
	"github.com/nhle/workspace-sim/internal/report"
	"github.com/nhle/workspace-sim/internal/store"
)

const usage = `Usage: wsim <command> [flags]

Commands:
  generate   generate a workspace and persist it
  verify     run acceptance checks against a persisted workspace
  login      store the content API key in the system keyring
  logout     remove the stored content API key
  init PATH  write the default configuration to PATH

Run "wsim <command> --help" for command flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "generate":
		err = runGenerate(ctx, args[1:], stdout)
	case "verify":
		err = runVerify(ctx, args[1:], stdout)
	case "login":
		err = runLogin(stdout)
	case "logout":
		err = runLogout(stdout)
	case "init":
		err = runInit(args[1:], stdout)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "wsim %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

// setup parses command flags, loads configuration, and builds the
// logger shared by the command.
func setup(name string, args []string) (*config.Config, *zap.SugaredLogger, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	path, _ := fs.GetString("config")
	cfg, err := config.Load(path, fs)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, nil
}

func runGenerate(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, log, err := setup("generate", args)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	rng, seed := dist.NewRand(cfg.Generation.Seed)
	log.Infow("starting generation",
		"users", cfg.Population.Users,
		"history_days", cfg.History.Days,
		"seed", seed,
		"driver", cfg.Store.Driver,
	)

	backend, err := content.NewBackend(cfg.Content)
	switch {
	case errors.Is(err, content.ErrNoCredentials):
		log.Infow("no content credentials, using built-in text pools")
	case err != nil:
		return fmt.Errorf("creating content backend: %w", err)
	}
	provider := content.NewProvider(backend, rng, content.Options{
		Temperature: cfg.Content.Temperature,
		Model:       cfg.Content.Model,
	}, log)

	sink, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer sink.Close()

	ds := generator.New(cfg, provider, rng, log).Run(ctx)

	stats, err := sink.Persist(ctx, ds)
	fmt.Fprintln(stdout, report.RenderPersist(stats, 0))
	if err != nil {
		return err
	}

	log.Infow("generation complete", "seed", seed)
	return nil
}

func runVerify(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, log, err := setup("verify", args)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	storeCfg := cfg.Store
	storeCfg.Reset = false
	if storeCfg.Driver == config.DriverSQLite {
		if _, err := os.Stat(storeCfg.Path); err != nil {
			return fmt.Errorf("database %s: %w", storeCfg.Path, err)
		}
	}

	sink, err := store.Open(ctx, storeCfg, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer sink.Close()

	r, err := sink.Verify(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, report.Render(r, 0))
	if !r.Passed() {
		return errors.New("verification failed")
	}
	return nil
}

func runLogin(stdout io.Writer) error {
	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Anthropic API key").
				Description("Used to generate project, task and comment text").
				EchoMode(huh.EchoModePassword).
				Value(&key).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("API key is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := credential.Set(credential.ContentAPIKey, key); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "API key saved to the system keyring.")
	return nil
}

func runLogout(stdout io.Writer) error {
	err := credential.Delete(credential.ContentAPIKey)
	switch {
	case errors.Is(err, credential.ErrNotStored):
		fmt.Fprintln(stdout, "No API key stored.")
	case err != nil:
		return err
	default:
		fmt.Fprintln(stdout, "API key removed from the system keyring.")
	}
	return nil
}

func runInit(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("expected exactly one PATH argument")
	}

	cfg, err := config.Load("", nil)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", args[0])
	return nil
}
