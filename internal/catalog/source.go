package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound reports that an asset does not exist at the source.
var ErrNotFound = errors.New("asset not found")

// AudioPath is the looping soundtrack.
const AudioPath = "audio/audio.mp3"

// ImagePath returns the asset name of image n.
func ImagePath(n int) string {
	return fmt.Sprintf("images/img%d.jpg", n)
}

// Source opens static gallery assets by slash-separated name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Describe returns a human-readable location for name (file path or URL).
	Describe(name string) string
}

// DirSource serves assets from a filesystem tree, usually os.DirFS(root).
type DirSource struct {
	FS   fs.FS
	Root string // display only
}

// NewDirSource returns a DirSource rooted at fsys.
func NewDirSource(fsys fs.FS, root string) *DirSource {
	return &DirSource{FS: fsys, Root: root}
}

func (d *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := d.FS.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func (d *DirSource) Describe(name string) string {
	if d.Root == "" {
		return name
	}
	return strings.TrimSuffix(d.Root, "/") + "/" + name
}

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource parses baseURL. A nil client gets one with the given timeout.
func NewHTTPSource(baseURL string, client *http.Client, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{base: u, client: client}, nil
}

func (h *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	target := h.base.ResolveReference(&url.URL{Path: name})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", name, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}
	return resp.Body, nil
}

func (h *HTTPSource) Describe(name string) string {
	return h.base.ResolveReference(&url.URL{Path: name}).String()
}
