// Package source fetches avatar images from the site's public directory or
// from remote URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

const maxRemoteSize = 32 << 20

var (
	ErrOutsidePublic = errors.New("path escapes public directory")
	ErrNoPublicDir   = errors.New("no public directory configured")
)

// Loader loads images by source string. Sources starting with http:// or
// https:// are fetched over the network; anything else is a URL path that,
// once BasePath is stripped, names a file inside Public. Decoded images are
// kept for the lifetime of the Loader.
type Loader struct {
	Public   string
	BasePath string
	Client   *http.Client

	mu    sync.Mutex
	cache map[string]image.Image
}

func New(public, basePath string, timeout time.Duration) *Loader {
	return &Loader{
		Public:   public,
		BasePath: basePath,
		Client:   &http.Client{Timeout: timeout},
	}
}

func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load fetches and decodes src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	if img, ok := l.cached(src); ok {
		return img, nil
	}

	rc, err := l.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", src, err)
	}

	l.mu.Lock()
	if l.cache == nil {
		l.cache = make(map[string]image.Image)
	}
	l.cache[src] = img
	l.mu.Unlock()

	return img, nil
}

func (l *Loader) cached(src string) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.cache[src]
	return img, ok
}

// Open returns the raw bytes of src.
func (l *Loader) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if IsRemote(src) {
		return l.fetch(ctx, src)
	}

	rel, err := l.Rel(src)
	if err != nil {
		return nil, err
	}
	if l.Public == "" {
		return nil, ErrNoPublicDir
	}

	f, err := os.OpenInRoot(l.Public, filepath.FromSlash(rel))
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", src, err)
	}
	return f, nil
}

// Rel maps a local source to a slash-separated path relative to Public.
// Absolute sources must lie under BasePath.
func (l *Loader) Rel(src string) (string, error) {
	if IsRemote(src) {
		return "", fmt.Errorf("not a local source: %q", src)
	}

	rel := src
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	if base := strings.TrimSuffix(l.BasePath, "/"); base != "" {
		switch {
		case rel == base:
			rel = ""
		case strings.HasPrefix(rel, base+"/"):
			rel = rel[len(base):]
		case strings.HasPrefix(rel, "/"):
			return "", fmt.Errorf("source %q is not under %q: %w", src, l.BasePath, ErrOutsidePublic)
		}
	}
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")

	if (rel == "") || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("invalid source %q: %w", src, ErrOutsidePublic)
	}
	return rel, nil
}

func (l *Loader) fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL %q: %w", src, err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch image %q: %w", src, err)
	}
	if (resp.StatusCode < 200) || (resp.StatusCode > 299) {
		resp.Body.Close()
		return nil, fmt.Errorf("could not fetch image %q: unexpected status %s", src, resp.Status)
	}

	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxRemoteSize), resp.Body}, nil
}
