package frameworks

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/gopak/framepak/internal/config"
	"github.com/gopak/framepak/internal/executil"
	"github.com/gopak/framepak/internal/logging"
)

const frameworkExt = ".framework"

// ParseLinkedFrameworks extracts framework names from `otool -L` output.
//
// Each linked image line names either a framework bundle
// (".../Name.framework/[Versions/A/]Name") or a flat library such as
// /usr/lib/libSystem.B.dylib; only the former contribute. Names are returned
// once each, in order of first appearance. Header lines ("path:") are skipped.
func ParseLinkedFrameworks(output string) []string {
	var names []string
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(strings.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		if i := strings.Index(line, " (compatibility version"); i >= 0 {
			line = line[:i]
		}
		name, ok := bundleName(line)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// bundleName returns the name of the innermost ".framework" component of p,
// so frameworks nested in another bundle resolve to themselves.
func bundleName(p string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(p), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if name, ok := strings.CutSuffix(parts[i], frameworkExt); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// NameOf returns the artifact name of a location: the bundle name for
// anything inside or at a .framework bundle, the file name otherwise.
func NameOf(location string) string {
	if name, ok := bundleName(location); ok {
		return name
	}
	return strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
}

// ExecutablePath maps a framework bundle to the binary inside it. Any other
// path is assumed to be an executable already.
func ExecutablePath(location string) string {
	clean := filepath.Clean(location)
	base := filepath.Base(clean)
	if name, ok := strings.CutSuffix(base, frameworkExt); ok && name != "" {
		return filepath.Join(clean, name)
	}
	return clean
}

// DefaultOtool is used when the configuration names no otool command.
const DefaultOtool = "xcrun otool -L"

// OtoolResolver returns a LinkedNamesFunc that runs the configured otool
// command against an executable.
func OtoolResolver(tool config.Command) (LinkedNamesFunc, error) {
	line := tool.Command
	if strings.TrimSpace(line) == "" {
		line = DefaultOtool
	}
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("otool command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("otool command %q is empty", line)
	}
	env := tool.EnvList()
	return func(ctx context.Context, executable string) ([]string, error) {
		args := append(append([]string{}, argv[1:]...), executable)
		logging.Debug(fmt.Sprintf("%s [otool]: %s", NameOf(executable), shellquote.Join(append([]string{argv[0]}, args...)...)))
		res := executil.Run(ctx, env, argv[0], args...)
		if res.Code != 0 {
			return nil, fmt.Errorf("%s %s: exit %d: %s", argv[0], executable, res.Code, strings.TrimSpace(res.Stderr))
		}
		return ParseLinkedFrameworks(res.Stdout), nil
	}, nil
}
