package manager

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gopak/framepak/internal/config"
	"github.com/gopak/framepak/internal/frameworks"
	"github.com/gopak/framepak/internal/logging"
	"github.com/gopak/framepak/internal/state"
)

type BuildOptions struct {
	// Names restricts the build to these dependencies and what they depend
	// on. Empty means every dependency.
	Names     []string
	Platforms []frameworks.Platform
	// Force rebuilds even when the recorded state still verifies.
	Force bool
}

// Build builds dependencies one at a time in build order, for every platform.
// It stops at the first failure since later dependencies may need the one
// that failed.
func (m *Manager) Build(ctx context.Context, opts BuildOptions, runner Runner, rep BuildReporter) error {
	if rep == nil {
		rep = nopReporter{}
	}
	order, err := m.BuildOrder(opts.Names...)
	if err != nil {
		return err
	}
	platforms := opts.Platforms
	if len(platforms) == 0 {
		if platforms, err = m.Platforms(nil); err != nil {
			return err
		}
	}
	logging.Debug("build plan: " + describeDeps(order))

	st, err := state.NewManager(m.BuildDir())
	if err != nil {
		return fmt.Errorf("read build state: %w", err)
	}
	rep.OnPlan(order, platforms)
	for _, name := range order {
		d, _ := m.dependency(name)
		for _, p := range platforms {
			if err := ctx.Err(); err != nil {
				rep.OnDone(err)
				return err
			}
			k := BuildKey{Name: name, Platform: p}
			rep.OnBuildStart(k)
			res := m.buildOne(ctx, st, d, p, runner, opts.Force)
			res.Key = k
			rep.OnBuilt(res)
			if res.Err != nil {
				rep.OnDone(res.Err)
				return res.Err
			}
		}
	}
	rep.OnDone(nil)
	return nil
}

func (m *Manager) buildOne(ctx context.Context, st *state.Manager, d config.Dependency, p frameworks.Platform, runner Runner, force bool) BuildResult {
	key := state.Key(d.Name, string(p))
	if !force {
		if bs, ok := st.Get(key); ok && bs.Version == d.Version {
			ok, err := st.VerifyChecksums(key)
			if err != nil {
				logging.Debug(fmt.Sprintf("%s [verify %s]: %v", d.Name, p, err))
			}
			if ok {
				builtAt, _ := time.Parse(time.RFC3339, bs.BuiltAt)
				return BuildResult{Skipped: true, BuiltAt: builtAt, Frameworks: sortedKeys(bs.Frameworks)}
			}
		}
	}
	if d.Build.Command == "" {
		return BuildResult{Err: fmt.Errorf("missing build command for dependency: %s", d.Name)}
	}

	dir := frameworks.DefaultSearchPath(m.projectDir, p)
	before, err := snapshot(ctx, dir)
	if err != nil {
		return BuildResult{Err: err}
	}
	cmd := m.expandCommand(d.Build, d, p)
	logging.Debug(fmt.Sprintf("%s [build %s]: %s", d.Name, p, cmd.Command))
	if err := runner.Run(ctx, d.Name, "build "+string(p), cmd); err != nil {
		return BuildResult{Err: err}
	}
	after, err := snapshot(ctx, dir)
	if err != nil {
		return BuildResult{Err: err}
	}

	produced := map[string]string{}
	for path, sum := range after {
		if before[path] != sum {
			produced[path] = sum
		}
	}
	if len(produced) == 0 {
		for path, sum := range after {
			if frameworks.NameOf(path) == d.Name {
				produced[path] = sum
			}
		}
	}
	now := time.Now().UTC()
	bs := state.BuildState{
		Version:    d.Version,
		BuiltAt:    now.Format(time.RFC3339),
		Frameworks: produced,
	}
	if err := st.Set(key, bs); err != nil {
		return BuildResult{Err: fmt.Errorf("record build state: %w", err)}
	}
	return BuildResult{BuiltAt: now, Frameworks: sortedKeys(produced)}
}

// snapshot hashes every framework bundle in dir.
func snapshot(ctx context.Context, dir string) (map[string]string, error) {
	paths, err := frameworks.FindFrameworks(ctx, []string{dir})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		sum, err := state.DirChecksum(p)
		if err != nil {
			return nil, err
		}
		out[p] = sum
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type nopReporter struct{}

func (nopReporter) OnPlan([]string, []frameworks.Platform) {}
func (nopReporter) OnBuildStart(BuildKey)                  {}
func (nopReporter) OnBuilt(BuildResult)                    {}
func (nopReporter) OnDone(error)                           {}
