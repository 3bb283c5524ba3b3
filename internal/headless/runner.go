package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/launcher"
)

// ErrLaunchFailed is returned when the agent ran but reported failure.
var ErrLaunchFailed = errors.New("agent launch failed")

// Run launches one agent without the interactive console. The agent's own
// output goes wherever the executor sends it; progress lines go to status.
func Run(ctx context.Context, l *launcher.Launcher, name string, sessionType executor.SessionType, opts executor.LaunchOptions, status io.Writer) (launcher.Outcome, error) {
	if sessionType == "" {
		sessionType = executor.SessionInteractive
	}
	fmt.Fprintf(status, "[Launching %s (%s)]\n", name, sessionType)

	out, err := l.LaunchAgent(ctx, name, sessionType, opts)
	if err != nil {
		return out, err
	}

	if !out.Success {
		fmt.Fprintf(status, "[Failed after %s: %s]\n", out.Duration.Round(time.Millisecond), out.Error)
		return out, fmt.Errorf("%w: %s: %s", ErrLaunchFailed, name, out.Error)
	}
	fmt.Fprintf(status, "[Done in %s, %d launches, %.0f%% success]\n",
		out.Duration.Round(time.Millisecond), out.Stats.TotalLaunches, out.Stats.SuccessRate())
	return out, nil
}
