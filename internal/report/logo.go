package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"
)

const (
	logoTimeout  = 5 * time.Second
	logoMaxBytes = 2 << 20
)

// LogoFetcher downloads the brand logo once per process. A failed download
// is not retried; the document falls back to the drawn wordmark.
type LogoFetcher struct {
	url    string
	client *http.Client

	once sync.Once
	logo *Image
	err  error
}

// NewLogoFetcher returns nil when url is empty.
func NewLogoFetcher(url string) *LogoFetcher {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	return &LogoFetcher{url: url, client: &http.Client{Timeout: logoTimeout}}
}

// Get returns the cached logo, fetching it on first use.
func (f *LogoFetcher) Get(ctx context.Context) (*Image, error) {
	if f == nil {
		return nil, nil
	}
	f.once.Do(func() {
		f.logo, f.err = f.fetch(ctx)
	})
	return f.logo, f.err
}

func (f *LogoFetcher) fetch(ctx context.Context) (*Image, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build logo request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: unexpected status %d", resp.StatusCode)
	}
	imgType := imageType(resp.Header.Get("Content-Type"), f.url)
	if imgType == "" {
		return nil, fmt.Errorf("fetch logo: unsupported image type %q", resp.Header.Get("Content-Type"))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, logoMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return &Image{Data: data, Type: imgType}, nil
}

func imageType(contentType, url string) string {
	switch {
	case strings.HasPrefix(contentType, "image/png"):
		return "PNG"
	case strings.HasPrefix(contentType, "image/jpeg"):
		return "JPG"
	}
	switch strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0])) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	}
	return ""
}
