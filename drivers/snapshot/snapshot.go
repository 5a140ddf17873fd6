// Package snapshot provides declaration snapshots written as YAML documents
// and a reference type checker for the type expressions they carry.
package snapshot

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/declguard/core/decl"
)

var _ decl.Snapshot = (*Snapshot)(nil)

// Snapshot is an immutable set of exported declarations.
type Snapshot struct {
	pkg     string
	version string
	decls   map[decl.Kind]map[string]decl.Declaration
}

func (s *Snapshot) Package() string { return s.pkg }
func (s *Snapshot) Version() string { return s.version }

func (s *Snapshot) Names(kind decl.Kind) []string {
	byName := s.decls[kind]
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Snapshot) Lookup(kind decl.Kind, name string) (decl.Declaration, bool) {
	d, ok := s.decls[kind][name]
	return d, ok
}

// Parse decodes a single YAML snapshot document.
func Parse(data []byte) (*Snapshot, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return merge(doc)
}

// ParseAll decodes several YAML documents that together describe one
// package version.
func ParseAll(files map[string][]byte) (*Snapshot, error) {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	docs := make([]document, 0, len(paths))
	for _, path := range paths {
		var doc document
		if err := yaml.Unmarshal(files[path], &doc); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return merge(docs...)
}

// merge builds a snapshot from decoded documents. Documents must agree on
// package and version, and a name may be declared only once per kind.
func merge(docs ...document) (*Snapshot, error) {
	var merged document
	for _, doc := range docs {
		if err := agree("package", &merged.Package, doc.Package); err != nil {
			return nil, err
		}
		if err := agree("version", &merged.Version, doc.Version); err != nil {
			return nil, err
		}
		merged.Interfaces = append(merged.Interfaces, doc.Interfaces...)
		merged.Classes = append(merged.Classes, doc.Classes...)
		merged.Functions = append(merged.Functions, doc.Functions...)
		merged.TypeAliases = append(merged.TypeAliases, doc.TypeAliases...)
		merged.Enums = append(merged.Enums, doc.Enums...)
	}
	return build(merged)
}

func agree(field string, have *string, next string) error {
	switch {
	case next == "" || *have == next:
	case *have == "":
		*have = next
	default:
		return fmt.Errorf("snapshot documents disagree on %s: %q and %q", field, *have, next)
	}
	return nil
}

func build(doc document) (*Snapshot, error) {
	s := &Snapshot{
		pkg:     doc.Package,
		version: doc.Version,
		decls:   make(map[decl.Kind]map[string]decl.Declaration, len(decl.TopLevelKinds)),
	}
	for _, kind := range decl.TopLevelKinds {
		s.decls[kind] = make(map[string]decl.Declaration)
	}

	structured := []struct {
		kind    decl.Kind
		keyword string
		specs   []structuredSpec
	}{
		{decl.KindInterface, "interface", doc.Interfaces},
		{decl.KindClass, "class", doc.Classes},
	}
	for _, group := range structured {
		b, err := newStructuredBuilder(group.kind, group.keyword, group.specs)
		if err != nil {
			return nil, err
		}
		for _, spec := range group.specs {
			n, err := b.build(spec.Name)
			if err != nil {
				return nil, err
			}
			s.decls[group.kind][spec.Name] = n
		}
	}

	for _, f := range doc.Functions {
		if err := s.add(f.Name, buildFunction(f)); err != nil {
			return nil, err
		}
	}
	for _, a := range doc.TypeAliases {
		if err := s.add(a.Name, buildAlias(a)); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Enums {
		n, err := buildEnum(e)
		if err != nil {
			return nil, err
		}
		if err := s.add(e.Name, n); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Snapshot) add(name string, n *node) error {
	if name == "" {
		return fmt.Errorf("%s without a name", n.kind)
	}
	if _, dup := s.decls[n.kind][name]; dup {
		return fmt.Errorf("duplicate %s %q", n.kind, name)
	}
	s.decls[n.kind][name] = n
	return nil
}
