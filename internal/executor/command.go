package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jeanpaul/launchpad/internal/catalog"
)

// DotEnvFile is read from an agent's directory and merged into its
// environment below the manifest and per-launch variables.
const DotEnvFile = ".env"

// CommandExecutor runs the manifest command of an agent as a child process.
type CommandExecutor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// BaseEnv seeds the child environment; nil means os.Environ().
	BaseEnv []string
	Log     *slog.Logger
}

func (e *CommandExecutor) Execute(ctx context.Context, agent catalog.AgentRecord, opts LaunchOptions) Result {
	start := time.Now()
	log := e.Log
	if log == nil {
		log = slog.Default()
	}

	if agent.Command == "" {
		return Result{Error: fmt.Sprintf("agent %q has no command configured", agent.Name)}
	}

	env, err := e.environment(agent, opts)
	if err != nil {
		return Result{Error: err.Error(), Duration: time.Since(start)}
	}

	args := append(append([]string{}, agent.Args...), opts.Args...)
	cmd := exec.CommandContext(ctx, agent.Command, args...)
	cmd.Env = env
	cmd.Dir = opts.WorkingDir
	if cmd.Dir == "" {
		cmd.Dir = agent.Dir
	}
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	log.Info("launching agent", "agent", agent.Name, "command", agent.Command,
		"args", args, "session", opts.SessionType, "dir", cmd.Dir)

	err = cmd.Run()
	res := Result{Success: err == nil, Duration: time.Since(start)}
	if err != nil {
		res.Error = err.Error()
		log.Warn("agent exited with error", "agent", agent.Name, "error", err, "duration", res.Duration)
	}
	return res
}

// environment layers, lowest first: base env, the agent's .env file, the
// manifest env, launcher variables, config overrides, API keys, options env.
func (e *CommandExecutor) environment(agent catalog.AgentRecord, opts LaunchOptions) ([]string, error) {
	vars := make(map[string]string)
	base := e.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	if agent.Dir != "" {
		dotenv, err := godotenv.Read(filepath.Join(agent.Dir, DotEnvFile))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", DotEnvFile, err)
		}
		for k, v := range dotenv {
			vars[k] = v
		}
	}
	for k, v := range agent.Env {
		vars[k] = v
	}

	vars["LAUNCHPAD_AGENT"] = agent.Name
	vars["LAUNCHPAD_SESSION_TYPE"] = string(opts.SessionType)
	if opts.Debug {
		vars["LAUNCHPAD_DEBUG"] = "1"
	}
	if opts.Verbose {
		vars["LAUNCHPAD_VERBOSE"] = "1"
	}
	for k, v := range opts.ConfigOverrides {
		vars["LAUNCHPAD_CONFIG_"+envKey(k)] = v
	}
	for k, v := range opts.APIKeys {
		vars[k] = v
	}
	for k, v := range opts.Environment {
		vars[k] = v
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env, nil
}

func envKey(k string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(k))
}

// DryRunExecutor reports what would be launched and always succeeds.
type DryRunExecutor struct {
	Out io.Writer
}

func (e *DryRunExecutor) Execute(_ context.Context, agent catalog.AgentRecord, opts LaunchOptions) Result {
	args := append(append([]string{}, agent.Args...), opts.Args...)
	if e.Out != nil {
		fmt.Fprintf(e.Out, "dry-run: %s (%s) -> %s %s\n",
			agent.Name, opts.SessionType, agent.Command, strings.Join(args, " "))
	}
	return Result{Success: true}
}
