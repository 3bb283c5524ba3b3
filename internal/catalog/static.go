package catalog

import "fmt"

// Static is an in-memory catalog over a fixed list of records.
type Static struct {
	records []AgentRecord
}

func NewStatic(records ...AgentRecord) *Static {
	return &Static{records: records}
}

// Discover is a no-op: the record list is fixed at construction.
func (s *Static) Discover(string) error { return nil }

func (s *Static) All() []AgentRecord {
	out := make([]AgentRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Static) Get(name string) (AgentRecord, error) {
	for _, r := range s.records {
		if r.Name == name {
			return r, nil
		}
	}
	return AgentRecord{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}
