package manager

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gopak/framepak/internal/github"
	"github.com/gopak/framepak/internal/logging"
)

type ReleaseClient interface {
	GetLatestRelease(ctx context.Context, repo string) (*github.Release, error)
	GetReleaseByTag(ctx context.Context, repo, tag string) (*github.Release, error)
	FindAsset(release *github.Release, pattern string) (*github.Asset, error)
	DownloadAsset(ctx context.Context, asset *github.Asset, destDir string) (string, error)
}

// DownloadsDir returns the directory release archives of name are saved to.
func (m *Manager) DownloadsDir(name string) string {
	return filepath.Join(m.projectDir, filepath.FromSlash(DownloadsFolder), name)
}

// Fetch downloads the prebuilt release archive of a dependency. The release
// tagged with the dependency's version is used, or the latest one when no
// version is pinned. The archive is not unpacked.
func (m *Manager) Fetch(ctx context.Context, name string, client ReleaseClient) (string, error) {
	d, ok := m.dependency(name)
	if !ok {
		return "", fmt.Errorf("unknown dependency: %s", name)
	}
	if d.Release.Repo == "" {
		return "", fmt.Errorf("dependency %s has no release repository", name)
	}
	repo := d.Release.Repo

	var (
		rel *github.Release
		err error
	)
	if d.Version != "" {
		rel, err = client.GetReleaseByTag(ctx, repo, d.Version)
	} else {
		rel, err = client.GetLatestRelease(ctx, repo)
	}
	if err != nil {
		return "", fmt.Errorf("fetch release of %s (%s): %w", name, repo, err)
	}
	asset, err := client.FindAsset(rel, d.Release.AssetPattern)
	if err != nil {
		return "", err
	}
	logging.Debug(fmt.Sprintf("%s: downloading %s from %s@%s", name, asset.Name, repo, rel.TagName))
	path, err := client.DownloadAsset(ctx, asset, m.DownloadsDir(name))
	if err != nil {
		return "", fmt.Errorf("download %s: %w", asset.Name, err)
	}
	return path, nil
}

// HasRelease reports whether name declares a release repository.
func (m *Manager) HasRelease(name string) bool {
	d, ok := m.dependency(name)
	return ok && d.Release.Repo != ""
}
