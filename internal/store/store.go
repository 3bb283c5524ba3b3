// Package store persists launcher favorites, recents and usage statistics as
// three JSON documents in a data directory. Loading is fail-open: anything
// missing or unreadable becomes an empty default. Saving is fail-closed.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	FavoritesFile = "favorites.json"
	RecentsFile   = "recent.json"
	StatsFile     = "stats.json"
)

var (
	// ErrIO wraps filesystem failures while reading or writing documents.
	ErrIO = errors.New("store i/o failure")
	// ErrParse wraps documents that exist but cannot be decoded.
	ErrParse = errors.New("store parse failure")
)

// Store holds the launcher's persistent state in memory between Load and Save.
// It is not safe for concurrent use; the launcher owns it from one goroutine.
type Store struct {
	Favorites Favorites
	Recents   Recents
	Stats     map[string]*AgentStats

	dir string
	log *slog.Logger
}

// New returns an empty store rooted at dir. Nothing is read until Load.
func New(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		Favorites: NewFavorites(),
		Recents:   Recents{},
		Stats:     make(map[string]*AgentStats),
		dir:       dir,
		log:       log,
	}
}

// Dir is the data directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the full path of one of the store documents.
func (s *Store) Path(file string) string { return filepath.Join(s.dir, file) }

// Load reads all three documents. Each one that is missing or broken is
// replaced by its empty default and logged; the returned problems are
// informational only and never mean the store is unusable.
func (s *Store) Load() []error {
	var problems []error

	favs, err := s.loadFavorites()
	if err != nil {
		problems = append(problems, err)
		s.log.Warn("favorites unreadable, starting empty", "path", s.Path(FavoritesFile), "error", err)
	}
	recents, err := s.loadRecents()
	if err != nil {
		problems = append(problems, err)
		s.log.Warn("recents unreadable, starting empty", "path", s.Path(RecentsFile), "error", err)
	}
	stats, err := s.loadStats()
	if err != nil {
		problems = append(problems, err)
		s.log.Warn("stats entries unreadable, dropping them", "path", s.Path(StatsFile), "kept", len(stats), "error", err)
	}

	s.Favorites = favs
	s.Recents = recents
	s.Stats = stats

	// The favorites document is authoritative for the stats mirror.
	for name, st := range s.Stats {
		st.IsFavorite = s.Favorites.Has(name)
	}

	s.log.Debug("store loaded", "dir", s.dir,
		"favorites", len(s.Favorites), "recents", len(s.Recents), "stats", len(s.Stats))
	return problems
}

// Save writes all three documents, creating the data directory if needed.
// Every document is attempted; the returned error joins all failures.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	for _, st := range s.Stats {
		if st.LaunchHistory == nil {
			st.LaunchHistory = []LaunchRecord{}
		}
	}
	recents := s.Recents
	if recents == nil {
		recents = Recents{}
	}
	stats := s.Stats
	if stats == nil {
		stats = map[string]*AgentStats{}
	}

	return errors.Join(
		s.writeJSON(FavoritesFile, s.Favorites.Names()),
		s.writeJSON(RecentsFile, recents),
		s.writeJSON(StatsFile, stats),
	)
}

// StatsFor returns the stats entry for name, creating a zeroed one if needed.
func (s *Store) StatsFor(name string) *AgentStats {
	st, ok := s.Stats[name]
	if !ok {
		st = newAgentStats()
		st.IsFavorite = s.Favorites.Has(name)
		s.Stats[name] = st
	}
	return st
}

// ToggleFavorite flips membership of name and mirrors it into the stats
// entry, which is created if missing. It returns the new membership.
func (s *Store) ToggleFavorite(name string) bool {
	on := !s.Favorites.Has(name)
	if on {
		s.Favorites.Add(name)
	} else {
		s.Favorites.Remove(name)
	}
	s.StatsFor(name).IsFavorite = on
	return on
}

// AddRecent records name as the most recently used agent.
func (s *Store) AddRecent(name string) {
	s.Recents.Add(name)
}

func (s *Store) readFile(file string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return data, true, nil
}

func (s *Store) loadFavorites() (Favorites, error) {
	names, err := s.loadStringArray(FavoritesFile)
	if err != nil {
		return NewFavorites(), err
	}
	return NewFavorites(names...), nil
}

func (s *Store) loadRecents() (Recents, error) {
	names, err := s.loadStringArray(RecentsFile)
	if err != nil {
		return Recents{}, err
	}
	return normalizeRecents(names), nil
}

// loadStringArray decodes a JSON array keeping only its string entries.
func (s *Store) loadStringArray(file string) ([]string, error) {
	data, ok, err := s.readFile(file)
	if err != nil || !ok {
		return nil, err
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, file, err)
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(string); ok {
			names = append(names, n)
		}
	}
	return names, nil
}

// loadStats keeps every entry that passes the schema. Entries that do not are
// dropped and reported together; only a document that is not a JSON object
// loses everything.
func (s *Store) loadStats() (map[string]*AgentStats, error) {
	stats := make(map[string]*AgentStats)
	data, ok, err := s.readFile(StatsFile)
	if err != nil || !ok {
		return stats, err
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return stats, fmt.Errorf("%w: %s: %v", ErrParse, StatsFile, err)
	}

	var dropped []error
	for name, raw := range entries {
		if string(raw) == "null" {
			continue
		}
		if err := validateStatsEntry(raw); err != nil {
			dropped = append(dropped, fmt.Errorf("%s: entry %q: %w", StatsFile, name, err))
			continue
		}
		var st AgentStats
		if err := json.Unmarshal(raw, &st); err != nil {
			dropped = append(dropped, fmt.Errorf("%w: %s: entry %q: %v", ErrParse, StatsFile, name, err))
			continue
		}
		if st.LaunchHistory == nil {
			st.LaunchHistory = []LaunchRecord{}
		}
		stats[name] = &st
	}
	return stats, errors.Join(dropped...)
}

// writeJSON replaces file atomically via a temp file and rename.
func (s *Store) writeJSON(file string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrIO, file, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+file+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIO, file, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIO, file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrIO, file, err)
	}
	if err := os.Rename(tmpName, s.Path(file)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", ErrIO, file, err)
	}
	return nil
}
