package frameworks

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFrameworks walks each directory and returns every *.framework bundle
// below it. Bundles are not descended into; missing directories are skipped.
func FindFrameworks(ctx context.Context, dirs []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == dir {
					return filepath.SkipDir
				}
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			name := d.Name()
			if !d.IsDir() {
				if d.Type()&fs.ModeSymlink != 0 && strings.HasSuffix(name, frameworkExt) {
					out = append(out, path)
				}
				return nil
			}
			if strings.HasSuffix(name, frameworkExt) && path != dir {
				out = append(out, path)
				return filepath.SkipDir
			}
			if strings.HasSuffix(name, ".dSYM") {
				return filepath.SkipDir
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SearchPathArtifacts returns an ArtifactsFunc enumerating frameworks in dirs.
func SearchPathArtifacts(dirs []string) ArtifactsFunc {
	return func(ctx context.Context) ([]string, error) {
		return FindFrameworks(ctx, dirs)
	}
}
