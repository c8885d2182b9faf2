package manager

import (
	"errors"

	"github.com/gopak/framepak/internal/frameworks"
	"github.com/gopak/framepak/internal/state"
)

// Forget drops recorded builds so the next build runs them again. Empty names
// means every dependency. It returns the state keys that were removed.
func (m *Manager) Forget(names []string, platforms []frameworks.Platform) ([]string, error) {
	if len(names) == 0 {
		names = m.Dependencies()
	}
	for _, n := range names {
		if _, ok := m.depByIdx[n]; !ok {
			return nil, errors.New("unknown dependency: " + n)
		}
	}
	st, err := state.NewManager(m.BuildDir())
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, n := range names {
		for _, p := range platforms {
			key := state.Key(n, string(p))
			if _, ok := st.Get(key); !ok {
				continue
			}
			if err := st.Remove(key); err != nil {
				return removed, err
			}
			removed = append(removed, key)
		}
	}
	return removed, nil
}
