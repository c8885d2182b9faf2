package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

// DefaultAssetPattern matches framework archives attached to a release.
const DefaultAssetPattern = "*.framework.zip"

type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name"`
	PublishedAt string  `json:"published_at"`
	Assets      []Asset `json:"assets"`
}

type Client struct {
	httpClient *http.Client
	// downloadClient has no overall timeout; the request context bounds it.
	downloadClient *http.Client
	token          string
	baseURL        string
}

func NewClient() *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		downloadClient: &http.Client{},
		token:          os.Getenv("GITHUB_TOKEN"),
		baseURL:        DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root, such as an enterprise
// server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *Client) GetLatestRelease(ctx context.Context, repo string) (*Release, error) {
	return c.getRelease(ctx, fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, repo))
}

// GetReleaseByTag fetches the release for a tag such as "v5.0.0".
func (c *Client) GetReleaseByTag(ctx context.Context, repo, tag string) (*Release, error) {
	return c.getRelease(ctx, fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.baseURL, repo, tag))
}

func (c *Client) getRelease(ctx context.Context, url string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API error: %d %s", resp.StatusCode, string(body))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *Client) FindAsset(release *Release, pattern string) (*Asset, error) {
	if pattern == "" {
		pattern = DefaultAssetPattern
	}
	for i := range release.Assets {
		if matchGlob(pattern, release.Assets[i].Name) {
			return &release.Assets[i], nil
		}
	}
	return nil, fmt.Errorf("no asset matching pattern %q in release %s", pattern, release.TagName)
}

func (c *Client) DownloadAsset(ctx context.Context, asset *Asset, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	destPath := filepath.Join(destDir, filepath.Base(asset.Name))
	f, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", err
	}
	return destPath, nil
}

func matchGlob(pattern, name string) bool {
	pattern = strings.ToLower(pattern)
	name = strings.ToLower(name)
	return globMatch(pattern, name)
}

func globMatch(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if globMatch(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(name) == 0 {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		default:
			if len(name) == 0 || pattern[0] != name[0] {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		}
	}
	return len(name) == 0
}
