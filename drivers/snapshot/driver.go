package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/driver"
	"github.com/emenda-labs/declguard/pkg/archive"
	"github.com/emenda-labs/declguard/pkg/snapshotstore"
)

var _ driver.Provider = (*Driver)(nil)

// DefaultDocumentPattern selects the snapshot documents inside bundles and
// directories.
const DefaultDocumentPattern = "**/*.{yaml,yml}"

// Driver provides YAML declaration snapshots from local files, zip bundles
// and snapshot stores.
type Driver struct {
	store    *snapshotstore.Client
	checker  Checker
	patterns []string
}

// Option configures a Driver.
type Option func(*Driver)

// WithDocumentPatterns replaces DefaultDocumentPattern with doublestar
// patterns matched against slash-separated paths relative to the bundle or
// directory root.
func WithDocumentPatterns(patterns ...string) Option {
	return func(d *Driver) {
		if len(patterns) > 0 {
			d.patterns = patterns
		}
	}
}

// NewDriver creates a Driver fetching from store. A nil store reads the chain
// from the environment.
func NewDriver(store *snapshotstore.Client, opts ...Option) (*Driver, error) {
	if store == nil {
		store = snapshotstore.NewClient()
	}
	d := &Driver{store: store, patterns: []string{DefaultDocumentPattern}}
	for _, opt := range opts {
		opt(d)
	}
	for _, pattern := range d.patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid document pattern %q", pattern)
		}
	}
	return d, nil
}

// Load reads a .yaml/.yml document, a .zip bundle or a directory of
// documents.
func (d *Driver) Load(ctx context.Context, path string) (decl.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if info.IsDir() {
		s, err := d.loadDir(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	case ".zip":
		s, err := d.LoadBundle(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot file %s: want .yaml, .yml or .zip", path)
	}
}

// Fetch downloads the bundle published for pkg at version. The bundle must
// describe the requested package and version.
func (d *Driver) Fetch(ctx context.Context, pkg, version string) (decl.Snapshot, error) {
	data, err := d.store.Download(ctx, pkg, version)
	if err != nil {
		return nil, fmt.Errorf("fetching %s@%s: %w", pkg, version, err)
	}

	s, err := d.LoadBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%s@%s: %w", pkg, version, err)
	}
	if s.pkg == "" {
		s.pkg = pkg
	}
	if s.version == "" {
		s.version = version
	}
	if s.pkg != pkg || s.version != version {
		return nil, fmt.Errorf("bundle for %s@%s describes %s@%s", pkg, version, s.pkg, s.version)
	}
	return s, nil
}

func (d *Driver) Checker() decl.TypeChecker {
	return d.checker
}

// LoadBundle reads every snapshot document inside a zip bundle.
func (d *Driver) LoadBundle(data []byte) (*Snapshot, error) {
	files, err := archive.ReadFiles(data, d.isDocument)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("bundle contains no snapshot documents")
	}
	return ParseAll(files)
}

func (d *Driver) loadDir(dir string) (*Snapshot, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !d.isDocument(rel) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading snapshot directory %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s contains no snapshot documents", dir)
	}
	return ParseAll(files)
}

func (d *Driver) isDocument(name string) bool {
	for _, pattern := range d.patterns {
		if match, err := doublestar.Match(pattern, name); err == nil && match {
			return true
		}
	}
	return false
}
