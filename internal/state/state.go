package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileName is the state file kept inside the build directory.
const FileName = ".framepak-state.json"

// BuildState records what a build of one dependency for one platform produced.
type BuildState struct {
	Version    string            `json:"version"`
	BuiltAt    string            `json:"built_at"`
	Frameworks map[string]string `json:"frameworks,omitempty"`
}

type State struct {
	Builds map[string]BuildState `json:"builds"`
}

type Manager struct {
	path  string
	state State
	mu    sync.RWMutex
}

// Key identifies a dependency build for a platform.
func Key(dependency, platform string) string { return dependency + "@" + platform }

func NewManager(buildDir string) (*Manager, error) {
	path := filepath.Join(buildDir, FileName)
	m := &Manager{
		path:  path,
		state: State{Builds: make(map[string]BuildState)},
	}
	if err := m.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if m.state.Builds == nil {
		m.state.Builds = make(map[string]BuildState)
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &m.state)
}

func (m *Manager) save() error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.state, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

func (m *Manager) Get(key string) (BuildState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bs, ok := m.state.Builds[key]
	return bs, ok
}

func (m *Manager) Set(key string, bs BuildState) error {
	m.mu.Lock()
	m.state.Builds[key] = bs
	m.mu.Unlock()
	return m.save()
}

func (m *Manager) Remove(key string) error {
	m.mu.Lock()
	delete(m.state.Builds, key)
	m.mu.Unlock()
	return m.save()
}

// VerifyChecksums reports whether every framework recorded for key still
// hashes to its recorded checksum. A key without recorded frameworks never
// verifies.
func (m *Manager) VerifyChecksums(key string) (bool, error) {
	m.mu.RLock()
	bs, ok := m.state.Builds[key]
	m.mu.RUnlock()
	if !ok || len(bs.Frameworks) == 0 {
		return false, nil
	}

	for path, expectedSum := range bs.Frameworks {
		actualSum, err := DirChecksum(path)
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		if actualSum != expectedSum {
			return false, nil
		}
	}
	return true, nil
}

func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DirChecksum hashes a bundle tree: every regular file's relative path and
// content, plus symlink targets, in lexical order. A plain file hashes like
// FileChecksum.
func DirChecksum(root string) (string, error) {
	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return FileChecksum(root)
	}
	var entries []string
	sums := map[string]string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			entries = append(entries, rel)
			sums[rel] = "link:" + target
		case d.Type().IsRegular():
			sum, err := FileChecksum(path)
			if err != nil {
				return err
			}
			entries = append(entries, rel)
			sums[rel] = sum
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(entries)
	h := sha256.New()
	for _, e := range entries {
		_, _ = io.WriteString(h, filepath.ToSlash(e)+"\x00"+sums[e]+"\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
