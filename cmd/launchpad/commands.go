package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/config"
	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/headless"
	"github.com/jeanpaul/launchpad/internal/health"
	"github.com/jeanpaul/launchpad/internal/launcher"
	"github.com/jeanpaul/launchpad/internal/report"
	"github.com/jeanpaul/launchpad/internal/sink"
	"github.com/jeanpaul/launchpad/internal/tui"
)

// UICmd opens the interactive launcher.
type UICmd struct {
	View        string   `help:"Initial view (grid, list, table, compact)."`
	Sort        string   `help:"Initial sort field (name, author, version, last_used, usage_count, performance)."`
	Ascending   *bool    `help:"Sort ascending (--no-ascending for descending)." negatable:""`
	Favorites   bool     `help:"Show favorites only."`
	Tag         []string `help:"Only show agents carrying every given tag." sep:","`
	Capability  []string `help:"Only show agents with every given capability." sep:","`
	SessionType string   `name:"session" help:"Session type for launches (interactive, batch, temporary, shared, read_only)."`
	NoWatch     bool     `name:"no-watch" help:"Do not reload when manifests change."`
}

func (c *UICmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}
	defer a.close()

	cat, err := a.catalog()
	if err != nil {
		return err
	}

	q, err := c.query(a.cfg.Query())
	if err != nil {
		return err
	}
	view := a.cfg.View()
	if c.View != "" {
		v, ok := launcher.ParseView(c.View)
		if !ok {
			return fmt.Errorf("unknown view %q", c.View)
		}
		view = v
	}

	session := a.cfg.SessionType
	if c.SessionType != "" {
		session = c.SessionType
	}
	sessionType, err := executor.ParseSessionType(session)
	if err != nil {
		return err
	}

	opts := tui.Options{
		View:            view,
		Query:           q,
		SessionType:     sessionType,
		AgentsDir:       a.cfg.AgentsDir,
		ReleaseTerminal: a.cfg.Executor.Mode != config.ExecutorDryRun,
		Config:          a.cfg,
		Log:             a.log,
	}
	if a.cfg.WatchCatalog && !c.NoWatch {
		w, err := catalog.NewWatcher(a.cfg.AgentsDir, a.log)
		if err != nil {
			a.log.Warn("catalog watch disabled", "path", a.cfg.AgentsDir, "error", err)
		} else {
			defer w.Close()
			opts.Changes = w.Changes()
		}
	}

	// Dry-run lines would corrupt the alternate screen; they go to the log.
	l := a.launcher(cat, a.logs)
	p := tea.NewProgram(tui.NewModel(l, opts), tea.WithAltScreen())
	return runConsole(func() error {
		_, err := p.Run()
		return err
	}, a.save)
}

// query applies the sort and filter flags on top of the configured query.
func (c *UICmd) query(q launcher.Query) (launcher.Query, error) {
	if c.Sort != "" {
		field, err := launcher.ParseSortField(c.Sort)
		if err != nil {
			return q, err
		}
		q.SortBy = field
	}
	if c.Ascending != nil {
		q.Ascending = *c.Ascending
	}
	q.FavoritesOnly = q.FavoritesOnly || c.Favorites
	q.Tags = c.Tag
	q.Capabilities = c.Capability
	return q, nil
}

// runConsole runs the console and saves whatever the session changed, even
// when the program ends with an error.
func runConsole(run, save func() error) error {
	err := run()
	if err != nil {
		err = fmt.Errorf("console: %w", err)
	}
	return errors.Join(err, save())
}

// ListCmd prints the catalog.
type ListCmd struct {
	Favorites bool `help:"Only list favorites."`
}

func (c *ListCmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}
	defer a.close()

	cat, err := a.catalog()
	if err != nil {
		return err
	}
	records := launcher.Build(cat.All(), a.store.Favorites, a.store.Stats)
	idx := launcher.FilterSort(records, launcher.Query{FavoritesOnly: c.Favorites})
	if len(idx) == 0 {
		fmt.Printf("No agents found in %s.\n", a.cfg.AgentsDir)
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "NAME", "VERSION", "STATUS", "USES", "DESCRIPTION")
	for _, i := range idx {
		d := records[i]
		fav := ""
		if d.IsFavorite {
			fav = "★"
		}
		t.Row(fav, d.Name(), d.Agent.Version, d.Status.String(), fmt.Sprint(d.UsageCount), d.Agent.Description)
	}
	fmt.Println(t.Render())
	return nil
}

// LaunchCmd runs one agent without the console.
type LaunchCmd struct {
	Name        string            `arg:"" help:"Agent to launch."`
	Args        []string          `arg:"" optional:"" passthrough:"" help:"Extra arguments passed to the agent."`
	SessionType string            `name:"session" help:"Session type (interactive, batch, temporary, shared, read_only)."`
	Env         map[string]string `short:"e" help:"Environment variables for the agent (KEY=VALUE)."`
	Set         map[string]string `help:"Config overrides passed to the agent (key=value)."`
	APIKey      map[string]string `name:"api-key" help:"API keys passed to the agent (PROVIDER=KEY)."`
	Workdir     string            `help:"Working directory for the agent." type:"path"`
	Timeout     *int              `help:"Session timeout in seconds."`
	Debug       bool              `help:"Ask the agent for debug output."`
	Verbose     bool              `short:"v" help:"Ask the agent for verbose output."`
	LogStderr   bool              `name:"log-stderr" help:"Also print log lines to stderr."`
}

func (c *LaunchCmd) Run(cli *CLI) error {
	a, err := cli.setup(c.sinks()...)
	if err != nil {
		return err
	}
	defer a.close()

	cat, err := a.catalog()
	if err != nil {
		return err
	}
	session := a.cfg.SessionType
	if c.SessionType != "" {
		session = c.SessionType
	}
	sessionType, err := executor.ParseSessionType(session)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, err = headless.Run(ctx, a.launcher(cat, os.Stdout), c.Name, sessionType, c.options(), os.Stderr)
	if errors.Is(err, launcher.ErrNotFound) {
		return err
	}
	return errors.Join(err, a.save())
}

// sinks are the extra log destinations asked for on the command line.
func (c *LaunchCmd) sinks() []sink.Sink {
	if c.LogStderr {
		return []sink.Sink{sink.Stderr()}
	}
	return nil
}

func (c *LaunchCmd) options() executor.LaunchOptions {
	return executor.LaunchOptions{
		ConfigOverrides: c.Set,
		Environment:     c.Env,
		APIKeys:         c.APIKey,
		WorkingDir:      c.Workdir,
		Args:            c.Args,
		Debug:           c.Debug,
		Verbose:         c.Verbose,
		TimeoutSeconds:  c.Timeout,
	}
}

// FavoriteCmd toggles a favorite.
type FavoriteCmd struct {
	Name string `arg:"" help:"Agent name."`
}

func (c *FavoriteCmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}
	defer a.close()

	cat, err := a.catalog()
	if err != nil {
		return err
	}
	if _, err := cat.Get(c.Name); err != nil {
		return err
	}
	if a.launcher(cat, os.Stdout).ToggleFavorite(c.Name) {
		fmt.Printf("★ %s added to favorites\n", c.Name)
	} else {
		fmt.Printf("%s removed from favorites\n", c.Name)
	}
	return a.save()
}

// InfoCmd renders an agent's details.
type InfoCmd struct {
	Name  string `arg:"" help:"Agent name."`
	Raw   bool   `help:"Print Markdown instead of rendering it."`
	Width int    `help:"Wrap width." default:"80"`
}

func (c *InfoCmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}
	defer a.close()

	cat, err := a.catalog()
	if err != nil {
		return err
	}
	agent, err := cat.Get(c.Name)
	if err != nil {
		return err
	}
	md := report.Info(agent, a.store.Favorites.Has(c.Name), a.store.Stats[c.Name])
	if c.Raw {
		fmt.Print(md)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(c.Width),
	)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	out, err := r.Render(md)
	if err != nil {
		a.log.Warn("markdown render failed", "error", err)
		out = md
	}
	fmt.Print(out)
	return nil
}

// StatsCmd prints usage statistics, optionally exporting them.
type StatsCmd struct {
	XLSX string `name:"xlsx" help:"Also write the report to this XLSX workbook." type:"path"`
}

func (c *StatsCmd) Run(cli *CLI) error {
	a, err := cli.setup()
	if err != nil {
		return err
	}
	defer a.close()

	cat, err := a.catalog()
	if err != nil {
		return err
	}
	rows := report.Rows(cat.All(), a.store.Favorites, a.store.Stats)
	if len(rows) == 0 {
		fmt.Println("No agents and no launch history yet.")
		return nil
	}
	fmt.Println(report.Table(rows))

	if c.XLSX != "" {
		if err := report.WriteXLSX(c.XLSX, rows, a.store.Stats); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", c.XLSX)
	}
	return nil
}

// DoctorCmd checks the installation without changing it.
type DoctorCmd struct{}

func (c *DoctorCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#00C832"))
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4136"))

	statuses := health.Check(ctx, cfg)
	for _, s := range statuses {
		switch {
		case s.Warning:
			fmt.Printf("  %s %-18s %s\n", warn.Render("!"), s.Name, s.Detail)
		case !s.OK:
			fmt.Printf("  %s %-18s %s\n", bad.Render("✗"), s.Name, s.Error)
		default:
			fmt.Printf("  %s %-18s %s\n", ok.Render("✓"), s.Name, s.Detail)
		}
	}
	if !health.Healthy(statuses) {
		return errors.New("doctor found problems")
	}
	return nil
}

// NewCmd scaffolds an agent manifest in the agents directory.
type NewCmd struct {
	Name         string   `arg:"" help:"Agent name."`
	Description  string   `short:"d" help:"One-line description."`
	Author       string   `help:"Author name."`
	Version      string   `help:"Manifest version." default:"0.1.0"`
	Command      string   `help:"Program that runs the agent."`
	Args         []string `help:"Arguments for the command." sep:","`
	Tags         []string `help:"Tags." sep:","`
	Capabilities []string `help:"Capabilities." sep:","`
}

func (c *NewCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	author := c.Author
	if author == "" {
		author = os.Getenv("USER")
	}
	path, err := catalog.WriteManifest(cfg.AgentsDir, catalog.Manifest{
		Name:         strings.TrimSpace(c.Name),
		Description:  c.Description,
		Version:      c.Version,
		Author:       author,
		Command:      c.Command,
		Args:         c.Args,
		Tags:         c.Tags,
		Capabilities: c.Capabilities,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	v := version
	if info, ok := debug.ReadBuildInfo(); ok && v == "dev" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	fmt.Printf("launchpad %s\n", v)
	return nil
}
