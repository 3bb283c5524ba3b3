// Package executor defines how a resolved agent is run and ships the two
// executors the launcher binary uses.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeanpaul/launchpad/internal/catalog"
)

// SessionType describes how an agent session is meant to be used.
type SessionType string

const (
	SessionInteractive SessionType = "interactive"
	SessionBatch       SessionType = "batch"
	SessionTemporary   SessionType = "temporary"
	SessionShared      SessionType = "shared"
	SessionReadOnly    SessionType = "read_only"
)

// SessionTypes lists every valid session type.
var SessionTypes = []SessionType{
	SessionInteractive, SessionBatch, SessionTemporary, SessionShared, SessionReadOnly,
}

// ParseSessionType accepts the canonical names plus "read-only". The empty
// string means interactive.
func ParseSessionType(s string) (SessionType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if norm == "" {
		return SessionInteractive, nil
	}
	for _, st := range SessionTypes {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// LaunchOptions carries everything the user chose for one launch.
type LaunchOptions struct {
	AgentName       string
	SessionType     SessionType
	ConfigOverrides map[string]string
	Environment     map[string]string
	APIKeys         map[string]string
	WorkingDir      string
	Args            []string
	Debug           bool
	Verbose         bool
	// TimeoutSeconds is accepted but not enforced by any executor yet.
	TimeoutSeconds *int
}

// Result is what an executor reports back. Failures are data: an executor
// never returns an error value.
type Result struct {
	Success  bool
	Error    string
	Duration time.Duration
}

// Executor runs an agent session to completion. Implementations must not
// reach into launcher state.
type Executor interface {
	Execute(ctx context.Context, agent catalog.AgentRecord, opts LaunchOptions) Result
}

// Func adapts a plain function to Executor.
type Func func(ctx context.Context, agent catalog.AgentRecord, opts LaunchOptions) Result

func (f Func) Execute(ctx context.Context, agent catalog.AgentRecord, opts LaunchOptions) Result {
	return f(ctx, agent, opts)
}
