package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/config"
	"github.com/jeanpaul/launchpad/internal/logging"
	"github.com/jeanpaul/launchpad/internal/store"
)

type Status struct {
	Name    string
	OK      bool
	Warning bool
	Detail  string
	Error   string
	Latency time.Duration
}

// Check runs every diagnostic against cfg and returns one Status per check,
// in a stable order. It never modifies the data directory.
func Check(ctx context.Context, cfg *config.Config) []Status {
	checks := []struct {
		name string
		fn   func(context.Context, *config.Config) Status
	}{
		{"config", checkConfig},
		{"data directory", checkDataDir},
		{"store", checkStore},
		{"agents directory", checkAgentsDir},
		{"agent commands", checkCommands},
	}

	out := make([]Status, 0, len(checks))
	for _, c := range checks {
		if ctx.Err() != nil {
			out = append(out, Status{Name: c.name, Error: ctx.Err().Error()})
			continue
		}
		start := time.Now()
		s := c.fn(ctx, cfg)
		s.Name = c.name
		s.Latency = time.Since(start)
		out = append(out, s)
	}
	return out
}

// Healthy reports whether no check failed. Warnings do not count.
func Healthy(statuses []Status) bool {
	for _, s := range statuses {
		if !s.OK && !s.Warning {
			return false
		}
	}
	return true
}

func checkConfig(_ context.Context, cfg *config.Config) Status {
	if err := cfg.Validate(); err != nil {
		return Status{Error: err.Error()}
	}
	src := cfg.Source
	if src == "" {
		src = "defaults (no config file)"
	}
	return Status{OK: true, Detail: src}
}

func checkDataDir(_ context.Context, cfg *config.Config) Status {
	info, err := os.Stat(cfg.DataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return Status{Warning: true, Detail: fmt.Sprintf("%s will be created on first save", cfg.DataDir)}
	}
	if err != nil {
		return Status{Error: friendlyError(err)}
	}
	if !info.IsDir() {
		return Status{Error: fmt.Sprintf("%s is not a directory", cfg.DataDir)}
	}
	probe, err := os.CreateTemp(cfg.DataDir, ".doctor-*")
	if err != nil {
		return Status{Error: friendlyError(err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return Status{OK: true, Detail: cfg.DataDir}
}

func checkStore(_ context.Context, cfg *config.Config) Status {
	st := store.New(cfg.DataDir, logging.Discard())
	problems := st.Load()
	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		return Status{Warning: true, Detail: "unreadable files will be reset on next save: " + strings.Join(msgs, "; ")}
	}
	return Status{OK: true, Detail: fmt.Sprintf("%d favorites, %d recents, %d agents with stats",
		len(st.Favorites), len(st.Recents), len(st.Stats))}
}

func checkAgentsDir(_ context.Context, cfg *config.Config) Status {
	cat := catalog.NewDirCatalog(logging.Discard())
	if err := cat.Discover(cfg.AgentsDir); err != nil {
		return Status{Error: friendlyError(err)}
	}
	all := cat.All()
	if len(all) == 0 {
		return Status{Warning: true, Detail: fmt.Sprintf("no agents found in %s", cfg.AgentsDir)}
	}
	var broken []string
	for _, a := range all {
		if a.State == catalog.StateFailed {
			broken = append(broken, fmt.Sprintf("%s (%s)", filepath.Base(a.Path), a.Err))
		}
	}
	if len(broken) > 0 {
		return Status{Warning: true, Detail: fmt.Sprintf("%d agents, invalid manifests: %s", len(all), strings.Join(broken, ", "))}
	}
	return Status{OK: true, Detail: fmt.Sprintf("%d agents in %s", len(all), cfg.AgentsDir)}
}

// checkCommands verifies that every launchable agent's command resolves.
func checkCommands(_ context.Context, cfg *config.Config) Status {
	if cfg.Executor.Mode == config.ExecutorDryRun {
		return Status{OK: true, Detail: "dry-run executor, commands not checked"}
	}
	cat := catalog.NewDirCatalog(logging.Discard())
	if err := cat.Discover(cfg.AgentsDir); err != nil {
		return Status{Error: friendlyError(err)}
	}
	var missing []string
	checked := 0
	for _, a := range cat.All() {
		if a.State != catalog.StateLoaded {
			continue
		}
		checked++
		cmd := a.Command
		if !filepath.IsAbs(cmd) && strings.ContainsRune(cmd, filepath.Separator) {
			cmd = filepath.Join(a.Dir, cmd)
		}
		if _, err := exec.LookPath(cmd); err != nil {
			missing = append(missing, fmt.Sprintf("%s: %s", a.Name, a.Command))
		}
	}
	if len(missing) > 0 {
		return Status{Error: "commands not found: " + strings.Join(missing, ", ")}
	}
	return Status{OK: true, Detail: fmt.Sprintf("%d commands resolved", checked)}
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return "permission denied (check directory ownership)"
	case errors.Is(err, fs.ErrNotExist):
		return "path does not exist"
	}
	return err.Error()
}
