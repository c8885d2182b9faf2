package frameworks

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

var ErrLinkResolution = errors.New("cannot resolve linked frameworks")

// LinkedNamesFunc returns the framework names an executable links against.
type LinkedNamesFunc func(ctx context.Context, executable string) ([]string, error)

// ExecutablePathFunc maps an artifact location to its executable image.
type ExecutablePathFunc func(location string) string

// ArtifactsFunc enumerates known build products.
type ArtifactsFunc func(ctx context.Context) ([]string, error)

// Inferrer computes which frameworks must be embedded alongside a binary.
//
// The hooks are called from the goroutine running the inference; with
// InferAll they must be safe for concurrent use.
type Inferrer struct {
	BuiltArtifacts ArtifactsFunc
	LinkedNames    LinkedNamesFunc
	// ExecutablePath defaults to the package-level ExecutablePath.
	ExecutablePath ExecutablePathFunc

	// OnUnresolved receives linked names found in no source.
	OnUnresolved func(name, linkedFrom string)
	// OnLinkError receives link failures of non-root artifacts, which are
	// otherwise treated as having no dependencies.
	OnLinkError func(location string, err error)
}

type queued struct {
	location string
	root     bool
}

// InferInputFiles lazily yields every framework location root needs at run
// time, each once, in discovery order. root itself and userInputFiles are
// never yielded, although user inputs are walked for their own dependencies.
//
// A failure to read root's links, to enumerate build products, or a cancelled
// ctx is yielded as an error and ends the sequence.
func (in *Inferrer) InferInputFiles(ctx context.Context, root string, userInputFiles []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		exe := in.ExecutablePath
		if exe == nil {
			exe = ExecutablePath
		}
		user := NewSource(FromUser, userInputFiles)
		var built *Source

		excluded := map[string]struct{}{filepath.Clean(root): {}}
		for _, f := range userInputFiles {
			excluded[filepath.Clean(f)] = struct{}{}
		}
		// A framework root may list itself or be linked back to; a plain
		// executable may share its name with a framework it links.
		visited := map[string]struct{}{}
		if name, ok := bundleName(root); ok {
			visited[name] = struct{}{}
		}
		queue := []queued{{location: root, root: true}}

		for len(queue) > 0 {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			cur := queue[0]
			queue = queue[1:]

			names, err := in.LinkedNames(ctx, exe(cur.location))
			if err != nil {
				if cur.root {
					yield("", fmt.Errorf("%w of %s: %w", ErrLinkResolution, root, err))
					return
				}
				if in.OnLinkError != nil {
					in.OnLinkError(cur.location, err)
				}
				continue
			}

			for _, name := range names {
				if _, ok := visited[name]; ok {
					continue
				}
				visited[name] = struct{}{}

				res, ok := Resolve(name, user)
				if !ok {
					if built == nil {
						locs, err := in.builtArtifacts(ctx)
						if err != nil {
							yield("", fmt.Errorf("enumerate build products: %w", err))
							return
						}
						s := NewBuiltSource(locs)
						built = &s
					}
					res, ok = Resolve(name, *built)
				}
				if !ok {
					if in.OnUnresolved != nil {
						in.OnUnresolved(name, cur.location)
					}
					continue
				}

				queue = append(queue, queued{location: res.Location})
				if !res.Emit() {
					continue
				}
				if _, skip := excluded[res.Location]; skip {
					continue
				}
				if !yield(res.Location, nil) {
					return
				}
			}
		}
	}
}

func (in *Inferrer) builtArtifacts(ctx context.Context) ([]string, error) {
	if in.BuiltArtifacts == nil {
		return nil, nil
	}
	return in.BuiltArtifacts(ctx)
}

// Infer collects InferInputFiles into a slice.
func (in *Inferrer) Infer(ctx context.Context, root string, userInputFiles []string) ([]string, error) {
	var out []string
	for loc, err := range in.InferInputFiles(ctx, root, userInputFiles) {
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

// InferAll runs one independent inference per root, at most limit at a time
// (no limit when limit <= 0). The first failing root cancels the others.
func (in *Inferrer) InferAll(ctx context.Context, roots []string, userInputFiles []string, limit int) (map[string][]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	var mu sync.Mutex
	out := make(map[string][]string, len(roots))
	for _, root := range roots {
		g.Go(func() error {
			locs, err := in.Infer(gctx, root, userInputFiles)
			if err != nil {
				return err
			}
			mu.Lock()
			out[root] = locs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
