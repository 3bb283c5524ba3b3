package store

import "sort"

// MaxRecents caps the recent list.
const MaxRecents = 10

// Favorites is the set of favorite agent names.
type Favorites map[string]struct{}

func NewFavorites(names ...string) Favorites {
	f := make(Favorites, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

func (f Favorites) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Favorites) Add(name string)    { f[name] = struct{}{} }
func (f Favorites) Remove(name string) { delete(f, name) }

// Names returns the members sorted, never nil.
func (f Favorites) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Recents holds agent names most-recently-used first.
type Recents []string

// Add moves name to the front, dropping any earlier occurrence and anything
// beyond MaxRecents.
func (r *Recents) Add(name string) {
	list := make(Recents, 0, MaxRecents)
	list = append(list, name)
	for _, n := range *r {
		if n != name {
			list = append(list, n)
		}
	}
	if len(list) > MaxRecents {
		list = list[:MaxRecents]
	}
	*r = list
}

// normalizeRecents dedupes keeping first occurrences and applies the cap.
func normalizeRecents(names []string) Recents {
	seen := make(map[string]bool, len(names))
	out := make(Recents, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		if len(out) == MaxRecents {
			break
		}
	}
	return out
}
