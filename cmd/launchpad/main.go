// Command launchpad browses and launches local AI agents.
//
// Usage:
//
//	launchpad                     open the interactive launcher
//	launchpad launch reviewer     run one agent without the console
//	launchpad stats --xlsx out.xlsx
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/config"
	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/launcher"
	"github.com/jeanpaul/launchpad/internal/logging"
	"github.com/jeanpaul/launchpad/internal/sink"
	"github.com/jeanpaul/launchpad/internal/store"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	UI       UICmd       `cmd:"" default:"withargs" help:"Open the interactive launcher (default)."`
	List     ListCmd     `cmd:"" help:"List discovered agents."`
	Launch   LaunchCmd   `cmd:"" help:"Launch one agent without the console."`
	Favorite FavoriteCmd `cmd:"" help:"Toggle an agent's favorite mark."`
	Info     InfoCmd     `cmd:"" help:"Show an agent's manifest and usage."`
	Stats    StatsCmd    `cmd:"" help:"Show launch statistics."`
	Doctor   DoctorCmd   `cmd:"" help:"Check the installation."`
	New      NewCmd      `cmd:"" help:"Create an agent manifest."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	DataDir   string `name:"data-dir" help:"Directory holding favorites, recents and stats." type:"path"`
	AgentsDir string `name:"agents-dir" help:"Directory scanned for agent manifests." type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)."`
	LogFile   string `name:"log-file" help:"Log file path." type:"path"`
	DryRun    bool   `name:"dry-run" help:"Print launches instead of running agents."`
}

// app is the wiring shared by every command.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	logs  sink.Sink
	store *store.Store
}

// loadConfig reads the config file and applies the global flag overrides.
func (cli *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.DataDir != "" {
		cfg.DataDir = cli.DataDir
	}
	if cli.AgentsDir != "" {
		cfg.AgentsDir = cli.AgentsDir
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Log.File = cli.LogFile
	}
	if cli.DryRun {
		cfg.Executor.Mode = config.ExecutorDryRun
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config, opens the log and loads the store. Log lines also go
// to extra, when given.
func (cli *CLI) setup(extra ...sink.Sink) (*app, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	sinks := extra
	if f, err := sink.OpenFile(cfg.LogFile()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log file: %v\n", err)
	} else {
		sinks = append(sinks, f)
	}
	logs := sink.NewTee(sinks...)
	log, err := logging.New(logs, level, cfg.Log.Format)
	if err != nil {
		logs.Close()
		return nil, err
	}
	slog.SetDefault(log)

	st := store.New(cfg.DataDir, log)
	for _, err := range st.Load() {
		log.Warn("store load problem, continuing with defaults", "error", err)
	}

	log.Debug("started", "version", version, "config", cfg.Source, "data_dir", cfg.DataDir)
	return &app{cfg: cfg, log: log, logs: logs, store: st}, nil
}

// save writes favorites, recents and stats back to the data directory.
func (a *app) save() error {
	if err := a.store.Save(); err != nil {
		a.log.Error("saving launcher data failed", "error", err)
		return err
	}
	return nil
}

func (a *app) close() {
	a.logs.Close()
}

// catalog discovers the configured agents directory.
func (a *app) catalog() (*catalog.DirCatalog, error) {
	cat := catalog.NewDirCatalog(a.log)
	if err := cat.Discover(a.cfg.AgentsDir); err != nil {
		return nil, err
	}
	return cat, nil
}

// executor builds the configured executor. Dry-run output goes to out.
func (a *app) executor(out io.Writer) executor.Executor {
	if a.cfg.Executor.Mode == config.ExecutorDryRun {
		return &executor.DryRunExecutor{Out: out}
	}
	e := &executor.CommandExecutor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    a.log,
	}
	if !a.cfg.Executor.ShellEnv {
		e.BaseEnv = []string{}
	}
	return e
}

func (a *app) launcher(cat catalog.Catalog, out io.Writer) *launcher.Launcher {
	return launcher.New(cat, a.executor(out), a.store, launcher.WithLogger(a.log))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("launchpad"),
		kong.Description("Browse, favorite and launch local AI agents."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
