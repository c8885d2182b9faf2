package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gopak/framepak/internal/config"
	"github.com/gopak/framepak/internal/frameworks"
)

// fakeRunner treats the command as an output directory and drops a
// <name>.framework bundle into it.
type fakeRunner struct {
	calls []string
	fail  map[string]error
}

func (r *fakeRunner) Run(_ context.Context, name, step string, cmd config.Command) error {
	r.calls = append(r.calls, name+" "+step)
	if err := r.fail[name]; err != nil {
		return err
	}
	bundle := filepath.Join(cmd.Command, name+".framework")
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(bundle, name), []byte("binary of "+name), 0o644)
}

type recordingReporter struct {
	order   []string
	results []BuildResult
	done    bool
	doneErr error
}

func (r *recordingReporter) OnPlan(order []string, _ []frameworks.Platform) { r.order = order }
func (r *recordingReporter) OnBuildStart(BuildKey)                          {}
func (r *recordingReporter) OnBuilt(res BuildResult)                        { r.results = append(r.results, res) }
func (r *recordingReporter) OnDone(err error)                               { r.done, r.doneErr = true, err }

func buildConfig() config.Config {
	dep := func(name string, deps ...string) config.Dependency {
		return config.Dependency{Name: name, Version: "1.0.0", DependsOn: deps, Build: config.Command{Command: "{build_dir}"}}
	}
	return config.Config{
		Platforms: []string{"iOS"},
		Dependencies: []config.Dependency{
			dep("ReactiveCocoa", "Result"),
			dep("Result"),
		},
	}
}

func TestBuild_OrderAndState(t *testing.T) {
	dir := t.TempDir()
	m := New(buildConfig(), dir)
	r := &fakeRunner{}
	rep := &recordingReporter{}

	if err := m.Build(context.Background(), BuildOptions{}, r, rep); err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantCalls := []string{"Result build iOS", "ReactiveCocoa build iOS"}
	if !reflect.DeepEqual(r.calls, wantCalls) {
		t.Fatalf("calls mismatch: got=%v want=%v", r.calls, wantCalls)
	}
	if !rep.done || rep.doneErr != nil {
		t.Fatalf("reporter not finished cleanly: done=%v err=%v", rep.done, rep.doneErr)
	}
	if len(rep.results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(rep.results))
	}
	// Only the bundle a build produced is attributed to it.
	want := filepath.Join(frameworks.DefaultSearchPath(dir, frameworks.IOS), "ReactiveCocoa.framework")
	if got := rep.results[1].Frameworks; !reflect.DeepEqual(got, []string{want}) {
		t.Fatalf("ReactiveCocoa frameworks: got=%v want=%v", got, []string{want})
	}
}

func TestBuild_SkipsVerifiedBuilds(t *testing.T) {
	dir := t.TempDir()
	m := New(buildConfig(), dir)
	r := &fakeRunner{}
	if err := m.Build(context.Background(), BuildOptions{}, r, nil); err != nil {
		t.Fatalf("first Build: %v", err)
	}

	rep := &recordingReporter{}
	if err := m.Build(context.Background(), BuildOptions{}, r, rep); err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("verified builds must be skipped, calls=%v", r.calls)
	}
	for _, res := range rep.results {
		if !res.Skipped {
			t.Fatalf("expected %s to be skipped", res.Key.Name)
		}
	}

	// Tampering with a product invalidates it.
	bin := filepath.Join(frameworks.DefaultSearchPath(dir, frameworks.IOS), "Result.framework", "Result")
	if err := os.WriteFile(bin, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Build(context.Background(), BuildOptions{Names: []string{"Result"}}, r, nil); err != nil {
		t.Fatalf("third Build: %v", err)
	}
	if len(r.calls) != 3 || r.calls[2] != "Result build iOS" {
		t.Fatalf("expected Result to be rebuilt, calls=%v", r.calls)
	}
}

func TestBuild_ForceRebuilds(t *testing.T) {
	dir := t.TempDir()
	m := New(buildConfig(), dir)
	r := &fakeRunner{}
	if err := m.Build(context.Background(), BuildOptions{}, r, nil); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	rep := &recordingReporter{}
	if err := m.Build(context.Background(), BuildOptions{Force: true}, r, rep); err != nil {
		t.Fatalf("forced Build: %v", err)
	}
	if len(r.calls) != 4 {
		t.Fatalf("expected all dependencies rebuilt, calls=%v", r.calls)
	}
	// Identical output still records the dependency's own bundle.
	for _, res := range rep.results {
		if res.Skipped || len(res.Frameworks) != 1 {
			t.Fatalf("unexpected result for %s: %+v", res.Key.Name, res)
		}
	}
}

func TestBuild_StopsAtFirstFailure(t *testing.T) {
	m := New(buildConfig(), t.TempDir())
	boom := errors.New("boom")
	r := &fakeRunner{fail: map[string]error{"Result": boom}}
	rep := &recordingReporter{}

	err := m.Build(context.Background(), BuildOptions{}, r, rep)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("later dependencies must not run, calls=%v", r.calls)
	}
	if !errors.Is(rep.doneErr, boom) {
		t.Fatalf("reporter should see the failure, got %v", rep.doneErr)
	}
}

func TestBuild_MissingCommand(t *testing.T) {
	cfg := config.Config{Dependencies: []config.Dependency{{Name: "Result"}}}
	err := New(cfg, t.TempDir()).Build(context.Background(), BuildOptions{}, &fakeRunner{}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing build command for dependency: Result") {
		t.Fatalf("expected missing command error, got %v", err)
	}
}

func TestBuild_GraphErrorBeforeRunning(t *testing.T) {
	cfg := config.Config{Dependencies: []config.Dependency{
		{Name: "A", DependsOn: []string{"B"}, Build: config.Command{Command: "{build_dir}"}},
		{Name: "B", DependsOn: []string{"A"}, Build: config.Command{Command: "{build_dir}"}},
	}}
	r := &fakeRunner{}
	err := New(cfg, t.TempDir()).Build(context.Background(), BuildOptions{}, r, nil)
	if !errors.Is(err, ErrCyclicGraph) {
		t.Fatalf("expected ErrCyclicGraph, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("nothing should run for a cyclic graph, calls=%v", r.calls)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeRunner{}
	err := New(buildConfig(), t.TempDir()).Build(ctx, BuildOptions{}, r, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("no build should start, calls=%v", r.calls)
	}
}

func TestForget_ForcesRebuild(t *testing.T) {
	m := New(buildConfig(), t.TempDir())
	r := &fakeRunner{}
	if err := m.Build(context.Background(), BuildOptions{}, r, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	removed, err := m.Forget([]string{"Result"}, []frameworks.Platform{frameworks.IOS, frameworks.MacOS})
	if err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if !reflect.DeepEqual(removed, []string{"Result@iOS"}) {
		t.Fatalf("unexpected removed keys: %v", removed)
	}
	if err := m.Build(context.Background(), BuildOptions{}, r, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(r.calls) != 3 || r.calls[2] != "Result build iOS" {
		t.Fatalf("only Result should be rebuilt, calls=%v", r.calls)
	}
	if _, err := m.Forget([]string{"Nimble"}, nil); err == nil {
		t.Fatalf("expected unknown dependency error")
	}
}
