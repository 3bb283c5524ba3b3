package catalog

import "errors"

// ErrNotFound is returned by Get when no agent carries the requested name.
var ErrNotFound = errors.New("agent not found")

// DiscoveryState is the lifecycle state reported by the catalog for an agent.
type DiscoveryState int

const (
	StateDiscovered DiscoveryState = iota
	StateLoading
	StateLoaded
	StateRunning
	StateFailed
	StateUnloaded
)

func (s DiscoveryState) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateUnloaded:
		return "unloaded"
	}
	return "unknown"
}

// AgentRecord describes one agent as found by the catalog. The launcher
// treats it as read-only.
type AgentRecord struct {
	Name         string
	Description  string
	Version      string
	Author       string
	Tags         []string
	Capabilities []string
	State        DiscoveryState

	// Adapter fields, not interpreted by the launcher core.
	Path    string            // manifest file
	Dir     string            // directory holding the manifest
	Command string            // executable to run
	Args    []string          // default arguments
	Env     map[string]string // manifest-level environment
	Err     string            // manifest problem when State is StateFailed
}

// HasTag reports whether the agent carries tag.
func (r AgentRecord) HasTag(tag string) bool {
	return contains(r.Tags, tag)
}

// HasCapability reports whether the agent declares capability.
func (r AgentRecord) HasCapability(capability string) bool {
	return contains(r.Capabilities, capability)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Catalog enumerates and describes available agents.
type Catalog interface {
	// Discover (re)scans path and replaces the known agents.
	Discover(path string) error
	// All returns every known agent in catalog order.
	All() []AgentRecord
	// Get resolves an agent by name, returning ErrNotFound when absent.
	Get(name string) (AgentRecord, error)
}
