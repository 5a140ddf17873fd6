package detector

import (
	"fmt"

	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

func indexByName(members []decl.Declaration) map[string]decl.Declaration {
	byName := make(map[string]decl.Declaration, len(members))
	for _, m := range members {
		byName[m.Name()] = m
	}
	return byName
}

func memberLocation(m decl.Declaration) diffspec.DiffLocation {
	if m.Kind().Callable() {
		return diffspec.LocationSignature
	}
	return diffspec.LocationProperty
}

// compareMembers reports target members missing from sources, followed by
// changes to members present on both sides.
func (d *Detector) compareMembers(sources, targets []decl.Declaration) ([]diffspec.DiffPair, error) {
	sourceByName := indexByName(sources)

	var removed, changed []diffspec.DiffPair
	for _, target := range targets {
		source, ok := sourceByName[target.Name()]
		if !ok {
			removed = append(removed, newPair(memberLocation(target), diffspec.ReasonRemoved, nil, nameNode(target)))
			continue
		}
		pairs, err := d.compareMember(source, target)
		if err != nil {
			return nil, err
		}
		changed = append(changed, pairs...)
	}
	return append(removed, changed...), nil
}

// addedMembers reports source members missing from targets.
func addedMembers(sources, targets []decl.Declaration) []diffspec.DiffPair {
	targetByName := indexByName(targets)

	var pairs []diffspec.DiffPair
	for _, source := range sources {
		if _, ok := targetByName[source.Name()]; ok {
			continue
		}
		pairs = append(pairs, newPair(memberLocation(source), diffspec.ReasonAdded, nameNode(source), nil))
	}
	return pairs
}

func (d *Detector) compareMember(source, target decl.Declaration) ([]diffspec.DiffPair, error) {
	sourceKind, targetKind := source.Kind(), target.Kind()

	switch {
	case sourceKind == decl.KindProperty && targetKind.Callable(),
		sourceKind.Callable() && targetKind == decl.KindProperty:
		// A property turned into a function or back is always breaking.
		return []diffspec.DiffPair{
			newPair(diffspec.LocationSignature, diffspec.ReasonTypeChanged, nameNode(source), nameNode(target)),
		}, nil

	case sourceKind == decl.KindProperty && targetKind == decl.KindProperty:
		reasons, err := d.classify(source, target)
		if err != nil {
			return nil, err
		}
		if reasons == diffspec.ReasonNone {
			return nil, nil
		}
		return []diffspec.DiffPair{
			newPair(diffspec.LocationProperty, reasons, nameNode(source), nameNode(target)),
		}, nil

	case sourceKind.Callable() && targetKind.Callable():
		return d.compareCallables(source, target, source.Name(), target.Name())

	default:
		return nil, invariantError("compare member", target,
			fmt.Errorf("%w: cannot compare %s with %s", ErrInvariantViolation, sourceKind, targetKind))
	}
}
