package decl

// TypeChecker is the host type system's compatibility oracle.
type TypeChecker interface {
	// IsAssignableTo reports whether a value of source may be used where
	// target is expected.
	IsAssignableTo(source, target Type) bool
}

// Snapshot is one loaded version of a module's public surface.
type Snapshot interface {
	Package() string
	Version() string

	// Names returns the exported names of the given kind, sorted.
	Names(kind Kind) []string

	// Lookup finds an exported declaration by kind and name.
	Lookup(kind Kind, name string) (Declaration, bool)
}
