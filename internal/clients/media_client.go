package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxImageSize bounds a single downloaded image
const maxImageSize = 20 << 20

// MediaStore persists downloaded media and returns the stored path
type MediaStore interface {
	Save(ctx context.Context, relPath string, data []byte) (string, error)
}

// LocalMediaStore writes media below a root directory
type LocalMediaStore struct {
	root string
}

// NewLocalMediaStore creates a store rooted at dir
func NewLocalMediaStore(dir string) *LocalMediaStore {
	return &LocalMediaStore{root: dir}
}

// Save writes data to root/relPath and returns relPath with forward slashes
func (s *LocalMediaStore) Save(ctx context.Context, relPath string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid media path %q", relPath)
	}

	full := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return filepath.ToSlash(clean), nil
}

// ImageDownloader fetches images at a bounded rate and stores them
type ImageDownloader struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	retrier     *Retrier
	store       MediaStore
}

// NewImageDownloader creates a downloader allowing perSecond downloads per second
func NewImageDownloader(store MediaStore, perSecond int, timeout time.Duration, retrier *Retrier) *ImageDownloader {
	if perSecond <= 0 {
		perSecond = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retrier == nil {
		retrier = NewRetrier(nil)
	}
	return &ImageDownloader{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		retrier:     retrier,
		store:       store,
	}
}

// ImageName returns the last path segment of an image URL
func ImageName(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// Fetch downloads imageURL and stores it as dir/prefix-<image name>
func (d *ImageDownloader) Fetch(ctx context.Context, imageURL, dir, prefix string) (string, error) {
	name := ImageName(imageURL)
	if name == "" {
		return "", fmt.Errorf("no file name in image URL %q", imageURL)
	}
	if prefix != "" {
		name = prefix + "-" + name
	}

	data, err := d.download(ctx, imageURL)
	if err != nil {
		return "", err
	}
	return d.store.Save(ctx, path.Join(dir, name), data)
}

func (d *ImageDownloader) download(ctx context.Context, imageURL string) ([]byte, error) {
	resp, _, err := d.retrier.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		if err := d.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
		if err != nil {
			return nil, err
		}
		return d.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to download %s: status %d", imageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", imageURL, err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image %s exceeds %d bytes", imageURL, maxImageSize)
	}
	return data, nil
}
