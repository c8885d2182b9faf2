package manager

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gopak/framepak/internal/config"
	"github.com/gopak/framepak/internal/frameworks"
)

// DownloadsFolder holds release archives fetched for dependencies.
const DownloadsFolder = "Framepak/Downloads"

type Manager struct {
	cfg        config.Config
	projectDir string
	depByIdx   map[string]int
}

func New(cfg config.Config, projectDir string) *Manager {
	m := &Manager{
		cfg:        cfg,
		projectDir: projectDir,
		depByIdx:   make(map[string]int, len(cfg.Dependencies)),
	}
	for i, d := range cfg.Dependencies {
		m.depByIdx[d.Name] = i
	}
	return m
}

func (m *Manager) ProjectDir() string { return m.projectDir }

func (m *Manager) BuildDir() string {
	return filepath.Join(m.projectDir, filepath.FromSlash(frameworks.BuildFolder))
}

// Graph builds the dependency graph from the configured dependencies. Edges
// to undeclared names are kept so that sorting reports them.
func (m *Manager) Graph() Graph {
	g := make(Graph, len(m.cfg.Dependencies))
	for _, d := range m.cfg.Dependencies {
		g[d.Name] = append([]string{}, d.DependsOn...)
	}
	return g
}

// Dependencies returns the declared dependency names in ascending order.
func (m *Manager) Dependencies() []string {
	names := make([]string, 0, len(m.cfg.Dependencies))
	for _, d := range m.cfg.Dependencies {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// BuildOrder returns names and everything they depend on in build order. With
// no names the whole graph is ordered.
func (m *Manager) BuildOrder(names ...string) ([]string, error) {
	for _, n := range names {
		if _, ok := m.depByIdx[n]; !ok {
			return nil, errors.New("unknown dependency: " + n)
		}
	}
	return Sort(m.Graph(), names)
}

// Platforms resolves requested platform names, falling back to the
// configured platforms and then to iOS.
func (m *Manager) Platforms(requested []string) ([]frameworks.Platform, error) {
	names := requested
	if len(names) == 0 {
		names = m.cfg.Platforms
	}
	if len(names) == 0 {
		return []frameworks.Platform{frameworks.IOS}, nil
	}
	out := make([]frameworks.Platform, 0, len(names))
	seen := map[frameworks.Platform]bool{}
	for _, n := range names {
		p, err := frameworks.ParsePlatform(n)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func (m *Manager) dependency(name string) (config.Dependency, bool) {
	if i, ok := m.depByIdx[name]; ok {
		return m.cfg.Dependencies[i], true
	}
	return config.Dependency{}, false
}

// expandCommand substitutes the build placeholders in c.
func (m *Manager) expandCommand(c config.Command, d config.Dependency, p frameworks.Platform) config.Command {
	r := strings.NewReplacer(
		"{name}", d.Name,
		"{version}", d.Version,
		"{platform}", string(p),
		"{sdk}", p.SDK(),
		"{build_dir}", frameworks.DefaultSearchPath(m.projectDir, p),
		"{project_dir}", m.projectDir,
	)
	return config.Command{Command: r.Replace(c.Command), Env: c.Env}
}

func describeDeps(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, " -> ")
}
