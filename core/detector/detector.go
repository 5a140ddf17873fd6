// Package detector classifies the differences between a baseline and a
// current version of an exported declaration.
//
// Within the package the current declaration is the source and the baseline
// declaration is the target: a change is breaking when the source can no
// longer stand in for the target.
package detector

import (
	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

// Detector compares declarations. It holds only immutable configuration and
// is safe for concurrent use.
type Detector struct {
	opts    diffspec.Options
	checker decl.TypeChecker
	matcher SignatureMatcher
}

// New creates a Detector that uses checker for assignability.
func New(checker decl.TypeChecker, opts diffspec.Options) *Detector {
	return &Detector{
		opts:    opts,
		checker: checker,
		matcher: ShapeMatcher{Checker: checker},
	}
}

// Options returns the configuration the detector was built with.
func (d *Detector) Options() diffspec.Options {
	return d.opts
}

type compareConfig struct {
	matcher SignatureMatcher
}

// CompareOption configures a single comparison.
type CompareOption func(*compareConfig)

// WithSignatureMatcher replaces the default ShapeMatcher when pairing call
// signatures or constructors.
func WithSignatureMatcher(m SignatureMatcher) CompareOption {
	return func(c *compareConfig) {
		if m != nil {
			c.matcher = m
		}
	}
}

func (d *Detector) config(opts []CompareOption) compareConfig {
	cfg := compareConfig{matcher: d.matcher}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// stamp records the polarity of every pair produced from a
// (baseline, current) comparison.
func stamp(pairs []diffspec.DiffPair) []diffspec.DiffPair {
	for i := range pairs {
		pairs[i].Direction = diffspec.DirectionCurrentToBaseline
	}
	return pairs
}

// CompareInterfaces compares call signatures and resolved members of two
// interface declarations.
func (d *Detector) CompareInterfaces(baseline, current decl.Declaration, opts ...CompareOption) ([]diffspec.DiffPair, error) {
	if err := expectKind("compare interfaces", decl.KindInterface, baseline, current); err != nil {
		return nil, err
	}
	cfg := d.config(opts)
	return d.compareStructured(current.CallSignatures(), baseline.CallSignatures(), current, baseline, cfg)
}

// CompareClasses compares constructors and instance members of two class
// declarations. Static members are not compared.
func (d *Detector) CompareClasses(baseline, current decl.Declaration, opts ...CompareOption) ([]diffspec.DiffPair, error) {
	if err := expectKind("compare classes", decl.KindClass, baseline, current); err != nil {
		return nil, err
	}
	cfg := d.config(opts)
	return d.compareStructured(current.Constructors(), baseline.Constructors(), current, baseline, cfg)
}

func (d *Detector) compareStructured(sourceSigs, targetSigs []decl.Declaration, source, target decl.Declaration, cfg compareConfig) ([]diffspec.DiffPair, error) {
	pairs, err := d.compareSignatureSets(sourceSigs, targetSigs, cfg.matcher)
	if err != nil {
		return nil, err
	}
	pairs = append(pairs, addedSignatures(sourceSigs, targetSigs, cfg.matcher)...)

	sourceMembers, targetMembers := source.Members(), target.Members()
	memberPairs, err := d.compareMembers(sourceMembers, targetMembers)
	if err != nil {
		return nil, err
	}
	pairs = append(pairs, memberPairs...)
	pairs = append(pairs, addedMembers(sourceMembers, targetMembers)...)

	return stamp(pairs), nil
}

// CompareFunctions compares two function declarations. When either side is
// overloaded the overload sets are reconciled by mutual coverage; otherwise
// the single signatures are compared directly.
func (d *Detector) CompareFunctions(baseline, current decl.Declaration, opts ...CompareOption) ([]diffspec.DiffPair, error) {
	if err := expectKind("compare functions", decl.KindFunction, baseline, current); err != nil {
		return nil, err
	}
	source, target := current, baseline

	sourceOverloads := overloadSet(source)
	targetOverloads := overloadSet(target)

	if len(sourceOverloads) <= 1 && len(targetOverloads) <= 1 {
		pairs, err := d.compareCallables(source, target, decl.DisplayName(source), decl.DisplayName(target))
		if err != nil {
			return nil, err
		}
		return stamp(pairs), nil
	}

	removed, err := d.uncoveredOverloads(sourceOverloads, targetOverloads)
	if err != nil {
		return nil, err
	}
	added, err := d.uncoveredOverloads(targetOverloads, sourceOverloads)
	if err != nil {
		return nil, err
	}

	// Overloads share the function's name; they are reported by text.
	pairs := make([]diffspec.DiffPair, 0, len(removed)+len(added))
	for _, t := range removed {
		pairs = append(pairs, newPair(diffspec.LocationSignatureOverload, diffspec.ReasonRemoved, nil, diffspec.NewNameNode(t.Text(), t)))
	}
	for _, s := range added {
		pairs = append(pairs, newPair(diffspec.LocationSignatureOverload, diffspec.ReasonAdded, diffspec.NewNameNode(s.Text(), s), nil))
	}
	return stamp(pairs), nil
}

// overloadSet returns the signatures of fn. A function without explicit
// overloads is its own single overload.
func overloadSet(fn decl.Declaration) []decl.Declaration {
	if overloads := fn.Overloads(); len(overloads) > 0 {
		return overloads
	}
	return []decl.Declaration{fn}
}

// uncoveredOverloads returns the targets for which no source overload is
// substitutable in both directions.
func (d *Detector) uncoveredOverloads(sources, targets []decl.Declaration) ([]decl.Declaration, error) {
	var uncovered []decl.Declaration
	for _, target := range targets {
		covered := false
		for _, source := range sources {
			ok, err := d.mutuallyCompatible(source, target)
			if err != nil {
				return nil, err
			}
			if ok {
				covered = true
				break
			}
		}
		if !covered {
			uncovered = append(uncovered, target)
		}
	}
	return uncovered, nil
}

func (d *Detector) mutuallyCompatible(a, b decl.Declaration) (bool, error) {
	for _, p := range [][2]decl.Declaration{{a, b}, {b, a}} {
		pairs, err := d.compareCallables(p[0], p[1], "", "")
		if err != nil {
			return false, err
		}
		if len(pairs) > 0 {
			return false, nil
		}
	}
	return true, nil
}

// CompareTypeAliases treats an alias as a unit: it is unchanged when the
// aliased types are assignable to each other.
func (d *Detector) CompareTypeAliases(baseline, current decl.Declaration, opts ...CompareOption) ([]diffspec.DiffPair, error) {
	if err := expectKind("compare type aliases", decl.KindTypeAlias, baseline, current); err != nil {
		return nil, err
	}
	baselineType, currentType := baseline.Type(), current.Type()
	if baselineType == nil {
		return nil, invariantError("compare type aliases", baseline, ErrUnsupportedDeclaration)
	}
	if currentType == nil {
		return nil, invariantError("compare type aliases", current, ErrUnsupportedDeclaration)
	}

	if d.checker.IsAssignableTo(currentType, baselineType) && d.checker.IsAssignableTo(baselineType, currentType) {
		return nil, nil
	}
	return stamp([]diffspec.DiffPair{
		newPair(diffspec.LocationTypeAlias, diffspec.ReasonTypeChanged, nameNode(current), nameNode(baseline)),
	}), nil
}

// CompareEnums compares member names. Member values are not compared.
func (d *Detector) CompareEnums(baseline, current decl.Declaration, opts ...CompareOption) ([]diffspec.DiffPair, error) {
	if err := expectKind("compare enums", decl.KindEnum, baseline, current); err != nil {
		return nil, err
	}
	sourceMembers, targetMembers := current.Members(), baseline.Members()
	sourceByName := indexByName(sourceMembers)
	targetByName := indexByName(targetMembers)

	var pairs []diffspec.DiffPair
	for _, target := range targetMembers {
		if _, ok := sourceByName[target.Name()]; !ok {
			pairs = append(pairs, newPair(diffspec.LocationEnumMember, diffspec.ReasonRemoved, nil, nameNode(target)))
		}
	}
	for _, source := range sourceMembers {
		if _, ok := targetByName[source.Name()]; !ok {
			pairs = append(pairs, newPair(diffspec.LocationEnumMember, diffspec.ReasonAdded, nameNode(source), nil))
		}
	}
	return stamp(pairs), nil
}
