package scryfall

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"ttsdeck/internal/logging"
)

// ErrUpstreamFetch marks card image download or decode failures.
var ErrUpstreamFetch = errors.New("upstream fetch failure")

// rate limit of 1 request per 100ms keeps us inside Scryfall's guidance of
// at most 10 requests per second.
const rateLimitDelay = 100 * time.Millisecond

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheDir  string
	Logger    *slog.Logger
}

// Client is a rate-limited Scryfall API client with an on-disk image cache.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	cacheDir   string
	logger     *slog.Logger
}

// NewClient creates a Scryfall API client.
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://api.scryfall.com"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:    baseURL,
		userAgent:  opts.UserAgent,
		cacheDir:   opts.CacheDir,
		logger:     logger,
	}
}

// CardImage fetches the front-face image for a printing, preferring the PNG
// rendition and walking the downgrade chain when a format fails. Successful
// downloads are cached on disk keyed by print identity and format.
func (c *Client) CardImage(ctx context.Context, id PrintID) (image.Image, error) {
	if img, ok := c.cachedImage(id); ok {
		return img, nil
	}

	var lastErr error
	format := ImagePNG
	for {
		img, err := c.downloadImage(ctx, id, format)
		if err == nil {
			return img, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.Warn("card image download failed",
			logging.Args(
				logging.String("card", id.String()),
				logging.String("format", format.String()),
				logging.Error(err),
			)...)

		next, ok := format.Next()
		if !ok {
			return nil, fmt.Errorf("card %s image: %w: %w", id, ErrUpstreamFetch, lastErr)
		}
		format = next
	}
}

func (c *Client) cachedImage(id PrintID) (image.Image, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	for _, format := range []ImageFormat{ImagePNG, ImageLarge} {
		path := c.imageCachePath(id, format)
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		img, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			// A corrupt cache entry is deleted so the next render refetches it.
			c.logger.Warn("removing unreadable cached card image",
				logging.Args(logging.String("path", path), logging.Error(err))...)
			_ = os.Remove(path)
			continue
		}
		return img, true
	}
	return nil, false
}

func (c *Client) downloadImage(ctx context.Context, id PrintID, format ImageFormat) (image.Image, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/cards/%s?format=image&version=%s", c.baseURL, id, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s image: %w", format, err)
	}

	c.cacheImage(id, format, img)
	return img, nil
}

// cacheImage persists a downloaded image body for later renders. Failures
// only cost a refetch, so they are logged and swallowed.
func (c *Client) cacheImage(id PrintID, format ImageFormat, img image.Image) {
	if c.cacheDir == "" {
		return
	}
	path := c.imageCachePath(id, format)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Warn("create image cache directory failed",
			logging.Args(logging.String("path", path), logging.Error(err))...)
		return
	}
	if err := writeImageFile(path, format, img); err != nil {
		c.logger.Warn("write cached card image failed",
			logging.Args(logging.String("path", path), logging.Error(err))...)
		_ = os.Remove(path)
	}
}

func (c *Client) imageCachePath(id PrintID, format ImageFormat) string {
	idStr := id.String()
	name := fmt.Sprintf("%s_%s.%s", idStr, format, format.ext())
	return filepath.Join(c.cacheDir, "cards", idStr[0:2], idStr[2:4], name)
}
