package frameworks

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// BuildFolder is the project-relative directory holding build products.
const BuildFolder = "Framepak/Build"

type Platform string

const (
	IOS      Platform = "iOS"
	MacOS    Platform = "Mac"
	TvOS     Platform = "tvOS"
	WatchOS  Platform = "watchOS"
	VisionOS Platform = "visionOS"
)

var Platforms = []Platform{IOS, MacOS, TvOS, WatchOS, VisionOS}

// ParsePlatform accepts a platform folder name case-insensitively, plus the
// "macOS" alias.
func ParsePlatform(s string) (Platform, error) {
	low := strings.ToLower(strings.TrimSpace(s))
	if low == "macos" || low == "osx" {
		return MacOS, nil
	}
	for _, p := range Platforms {
		if strings.ToLower(string(p)) == low {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// SDK returns the xcodebuild SDK name for device builds on p.
func (p Platform) SDK() string {
	switch p {
	case IOS:
		return "iphoneos"
	case MacOS:
		return "macosx"
	case TvOS:
		return "appletvos"
	case WatchOS:
		return "watchos"
	case VisionOS:
		return "xros"
	}
	return ""
}

// DefaultSearchPath returns <projectDir>/Framepak/Build/<platform>.
func DefaultSearchPath(projectDir string, platform Platform) string {
	return filepath.Join(projectDir, filepath.FromSlash(BuildFolder), string(platform))
}

// AllSearchPaths canonicalizes explicit, drops later duplicates and appends the
// platform's default search path unless it is already listed. Relative
// explicit paths are taken relative to projectDir.
func AllSearchPaths(projectDir string, platform Platform, explicit []string) []string {
	out := make([]string, 0, len(explicit)+1)
	seen := make(map[string]struct{}, len(explicit)+1)
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range explicit {
		if !filepath.IsAbs(p) {
			p = filepath.Join(projectDir, p)
		}
		add(Canonical(p))
	}
	add(Canonical(DefaultSearchPath(projectDir, platform)))
	return out
}

// Canonical resolves p to an absolute path with symbolic links evaluated. The
// part of p that does not exist yet is joined onto the resolved ancestor, so
// paths that are yet to be created still compare equal to their real location.
func Canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	var rest []string
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return abs
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}
