package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*.framework.zip", "Result.framework.zip", true},
		{"*.framework.zip", "Result.xcframework.zip", false},
		{"*.xcframework.zip", "Result.xcframework.zip", true},
		{"ReactiveSwift-v*.framework.zip", "ReactiveSwift-v6.1.0.framework.zip", true},
		{"ReactiveSwift-v*.framework.zip", "ReactiveCocoa-v6.1.0.framework.zip", false},
		{"*ios*.zip", "Argo_iOS.zip", true},
		{"exact-name.zip", "exact-name.zip", true},
		{"exact-name.zip", "other-name.zip", false},
		{"?rgo.zip", "Argo.zip", true},
		{"?rgo.zip", "rgo.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.name, func(t *testing.T) {
			got := matchGlob(tt.pattern, tt.name)
			if got != tt.want {
				t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}

func TestClient_LatestReleaseAndDownload(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/antitypical/Result/releases/latest":
			fmt.Fprintf(w, `{"tag_name":"5.0.0","assets":[
				{"name":"Result.xcframework.zip","browser_download_url":"%[1]s/dl/xc"},
				{"name":"Result.framework.zip","browser_download_url":"%[1]s/dl/fw","size":4}]}`, srv.URL)
		case "/dl/fw":
			w.Write([]byte("data"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL + "/")
	ctx := context.Background()
	rel, err := c.GetLatestRelease(ctx, "antitypical/Result")
	if err != nil {
		t.Fatalf("GetLatestRelease: %v", err)
	}
	if rel.TagName != "5.0.0" {
		t.Fatalf("unexpected tag: %s", rel.TagName)
	}
	asset, err := c.FindAsset(rel, "")
	if err != nil {
		t.Fatalf("FindAsset: %v", err)
	}
	if asset.Name != "Result.framework.zip" {
		t.Fatalf("default pattern picked %s", asset.Name)
	}
	path, err := c.DownloadAsset(ctx, asset, t.TempDir())
	if err != nil {
		t.Fatalf("DownloadAsset: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "data" {
		t.Fatalf("unexpected download contents: %q", b)
	}

	if _, err := c.GetReleaseByTag(ctx, "antitypical/Result", "missing"); err == nil {
		t.Fatalf("expected API error for unknown tag")
	}
	if _, err := c.FindAsset(rel, "*.tar.gz"); err == nil {
		t.Fatalf("expected no asset for unmatched pattern")
	}
}

func TestClient_DownloadBoundedByContext(t *testing.T) {
	c := NewClient()
	if c.downloadClient.Timeout != 0 {
		t.Fatalf("downloads must not have a fixed timeout, got %s", c.downloadClient.Timeout)
	}
	if c.httpClient.Timeout == 0 {
		t.Fatalf("API requests must keep a timeout")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	asset := &Asset{Name: "Result.framework.zip", BrowserDownloadURL: srv.URL + "/dl/fw"}
	if _, err := c.DownloadAsset(ctx, asset, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
