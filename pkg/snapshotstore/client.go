package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"

	"golang.org/x/mod/module"
)

const (
	// EnvStores names the environment variable holding the store chain.
	EnvStores = "DECLGUARD_SNAPSHOT_STORE"

	httpClientTimeout = 30 * time.Second
	defaultUserAgent  = "declguard/0.1.0"
	maxBundleSize     = 256 * 1024 * 1024
)

// ErrNotFound is returned when no store in the chain has the bundle.
var ErrNotFound = errors.New("snapshot not found")

// Client downloads published snapshot bundles from a chain of stores. A
// bundle for package p at version v lives at <store>/<escaped p>/@v/<v>.zip.
type Client struct {
	httpClient *http.Client
	userAgent  string
	stores     []string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithStores replaces the store chain read from the environment.
func WithStores(stores ...string) Option {
	return func(c *Client) {
		c.stores = parseStores(strings.Join(stores, ","))
	}
}

// NewClient creates a Client whose store chain is read from
// DECLGUARD_SNAPSHOT_STORE, a comma- or pipe-separated list of base URLs.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		userAgent:  defaultUserAgent,
		stores:     parseStores(os.Getenv(EnvStores)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stores returns the configured store chain.
func (c *Client) Stores() []string {
	return c.stores
}

func parseStores(value string) []string {
	normalized := strings.NewReplacer("|", ",").Replace(value)

	parts := strings.Split(normalized, ",")
	stores := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimRight(strings.TrimSpace(p), "/")
		if trimmed != "" {
			stores = append(stores, trimmed)
		}
	}
	return stores
}

// Download fetches the snapshot bundle for pkg at version. Stores answering
// 404 or 410 fall through to the next store in the chain; a store reading
// "off" ends the chain.
func (c *Client) Download(ctx context.Context, pkg, version string) ([]byte, error) {
	if len(c.stores) == 0 {
		return nil, fmt.Errorf("no snapshot store configured, set %s", EnvStores)
	}

	escapedPkg, err := escapePackage(pkg)
	if err != nil {
		return nil, fmt.Errorf("escaping package path %q: %w", pkg, err)
	}
	escapedVersion, err := module.EscapeVersion(version)
	if err != nil {
		return nil, fmt.Errorf("escaping version %q: %w", version, err)
	}

	for i, store := range c.stores {
		if store == "off" {
			break
		}

		bundleURL := fmt.Sprintf("%s/%s/@v/%s.zip", store, escapedPkg, escapedVersion)

		data, tryNext, fetchErr := c.fetch(ctx, bundleURL)
		if fetchErr == nil {
			return data, nil
		}

		if tryNext && i < len(c.stores)-1 {
			continue
		}

		return nil, fetchErr
	}

	return nil, fmt.Errorf("%w: %s@%s", ErrNotFound, pkg, version)
}

// escapePackage applies the module proxy case encoding ("!" before each
// lowercased capital). Package names are checked as file paths rather than
// module paths so that scoped names such as @azure/arm-network are accepted.
func escapePackage(pkg string) (string, error) {
	if err := module.CheckFilePath(pkg); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range pkg {
		if unicode.IsUpper(r) {
			b.WriteByte('!')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// fetch performs a single HTTP GET for the given URL.
// It returns (data, tryNext, error).
// tryNext signals that the caller should attempt the next store in the chain.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, true, fmt.Errorf("%w: store returned %d for %s", ErrNotFound, resp.StatusCode, url)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBundleSize+1))
	if err != nil {
		return nil, false, fmt.Errorf("reading response body from %s: %w", url, err)
	}
	if len(data) > maxBundleSize {
		return nil, false, fmt.Errorf("bundle from %s exceeds maximum size of %d bytes", url, maxBundleSize)
	}

	return data, false, nil
}
