package frameworks

import (
	"path/filepath"
	"sort"
)

// Origin tells where a location for a linked name was found.
type Origin int

const (
	// FromUser locations are supplied by the caller, who already embeds them.
	FromUser Origin = iota
	// FromBuilt locations come from enumerating build products.
	FromBuilt
)

func (o Origin) String() string {
	switch o {
	case FromUser:
		return "user"
	case FromBuilt:
		return "built"
	}
	return "unknown"
}

// Source is one lookup strategy: an index of artifact locations by name.
type Source struct {
	Origin Origin
	byName map[string]string
}

// NewSource indexes locations by artifact name. When several locations share
// a name the first one wins.
func NewSource(origin Origin, locations []string) Source {
	s := Source{Origin: origin, byName: make(map[string]string, len(locations))}
	for _, loc := range locations {
		name := NameOf(loc)
		if _, ok := s.byName[name]; ok {
			continue
		}
		s.byName[name] = filepath.Clean(loc)
	}
	return s
}

// NewBuiltSource sorts locations by path before indexing them, so that the
// chosen location does not depend on enumeration order.
func NewBuiltSource(locations []string) Source {
	sorted := append([]string{}, locations...)
	sort.Strings(sorted)
	return NewSource(FromBuilt, sorted)
}

func (s Source) Lookup(name string) (string, bool) {
	loc, ok := s.byName[name]
	return loc, ok
}

// Resolution is the outcome of resolving a linked name.
type Resolution struct {
	Location string
	Origin   Origin
}

// Emit reports whether the location belongs in the inferred output. User
// supplied locations are traversed but never emitted.
func (r Resolution) Emit() bool { return r.Origin != FromUser }

// Resolve tries sources in order and returns the first match.
func Resolve(name string, sources ...Source) (Resolution, bool) {
	for _, s := range sources {
		if loc, ok := s.Lookup(name); ok {
			return Resolution{Location: loc, Origin: s.Origin}, true
		}
	}
	return Resolution{}, false
}
