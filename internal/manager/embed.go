package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/gopak/framepak/internal/frameworks"
	"github.com/gopak/framepak/internal/logging"
)

type EmbedRequest struct {
	Platform frameworks.Platform
	// Roots are the binaries (or framework bundles) being packaged.
	Roots []string
	// SearchPaths are searched after the configured search_paths.
	SearchPaths []string
	// InputFiles are frameworks the caller already embeds.
	InputFiles []string
	// Parallel bounds concurrent inferences; <= 0 means one per root.
	Parallel int
}

// SearchPaths returns the directories searched for built frameworks on
// platform: configured search_paths, then extra, then the default build
// directory. Glob patterns in search_paths are expanded.
func (m *Manager) SearchPaths(platform frameworks.Platform, extra []string) []string {
	explicit := append(expandSearchPaths(m.projectDir, m.cfg.SearchPaths), extra...)
	return frameworks.AllSearchPaths(m.projectDir, platform, explicit)
}

// expandSearchPaths replaces each pattern (** allowed) by the directories it
// matches, in lexical order. Plain entries are kept even if they do not exist.
func expandSearchPaths(projectDir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.ContainsAny(p, "*?[{") {
			out = append(out, p)
			continue
		}
		pattern := p
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(projectDir, pattern)
		}
		matches, err := doublestar.Glob(pattern)
		if err != nil {
			logging.Warn(fmt.Sprintf("search path %q: %v", p, err))
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			if st, err := os.Stat(match); err == nil && st.IsDir() {
				out = append(out, match)
			}
		}
	}
	return out
}

// Inferrer wires the search paths of req and the given link resolver (the
// configured otool when nil) into a frameworks.Inferrer.
func (m *Manager) Inferrer(req EmbedRequest, links frameworks.LinkedNamesFunc) (*frameworks.Inferrer, error) {
	if links == nil {
		var err error
		if links, err = frameworks.OtoolResolver(m.cfg.Tools.Otool); err != nil {
			return nil, err
		}
	}
	dirs := m.SearchPaths(req.Platform, req.SearchPaths)
	logging.Debug(fmt.Sprintf("search paths (%s): %v", req.Platform, dirs))
	return &frameworks.Inferrer{
		BuiltArtifacts: frameworks.SearchPathArtifacts(dirs),
		LinkedNames:    links,
		ExecutablePath: frameworks.ExecutablePath,
		OnUnresolved: func(name, from string) {
			logging.Debug(fmt.Sprintf("%s: linked framework %s not found in any search path, skipping", frameworks.NameOf(from), name))
		},
		OnLinkError: func(loc string, err error) {
			logging.Debug(fmt.Sprintf("%s: cannot read linked frameworks, not following its dependencies: %v", frameworks.NameOf(loc), err))
		},
	}, nil
}

// InferInputFiles returns every framework the roots of req need embedded,
// sorted by path. Roots and input files are never part of the result.
func (m *Manager) InferInputFiles(ctx context.Context, req EmbedRequest, links frameworks.LinkedNamesFunc) ([]string, error) {
	in, err := m.Inferrer(req, links)
	if err != nil {
		return nil, err
	}
	byRoot, err := in.InferAll(ctx, req.Roots, req.InputFiles, req.Parallel)
	if err != nil {
		return nil, err
	}
	// Inferred locations are canonical, so compare canonical forms.
	excluded := map[string]struct{}{}
	for _, p := range append(append([]string{}, req.Roots...), req.InputFiles...) {
		excluded[frameworks.Canonical(p)] = struct{}{}
	}
	seen := map[string]struct{}{}
	var out []string
	for _, locs := range byRoot {
		for _, loc := range locs {
			if _, ok := excluded[loc]; ok {
				continue
			}
			if _, ok := seen[loc]; ok {
				continue
			}
			seen[loc] = struct{}{}
			out = append(out, loc)
		}
	}
	sort.Strings(out)
	return out, nil
}
