package driver

import (
	"context"

	"github.com/emenda-labs/declguard/core/decl"
)

// Provider is the interface each declaration source must implement so that
// two versions of a package can be compared.
type Provider interface {
	// Load reads an already-extracted declaration snapshot from a local path.
	Load(ctx context.Context, path string) (decl.Snapshot, error)

	// Fetch downloads the published snapshot of a package version.
	Fetch(ctx context.Context, pkg, version string) (decl.Snapshot, error)

	// Checker returns the type compatibility oracle that understands the
	// types carried by this provider's snapshots.
	Checker() decl.TypeChecker
}
