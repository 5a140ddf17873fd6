package detector

import (
	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

// presenceSides names the pair sides according to direction: with
// DirectionBaselineToCurrent the baseline is the source, otherwise the current
// declaration is.
func presenceSides(baseline, current decl.Declaration, direction diffspec.AssignDirection) (source, target *diffspec.NameNode) {
	if direction == diffspec.DirectionBaselineToCurrent {
		return nameNode(baseline), nameNode(current)
	}
	return nameNode(current), nameNode(baseline)
}

// CheckRemovedDeclaration reports a whole top-level declaration that exists
// in the baseline only. Pass nil for an absent side.
func CheckRemovedDeclaration(location diffspec.DiffLocation, baseline, current decl.Declaration, direction diffspec.AssignDirection) (diffspec.DiffPair, bool) {
	if baseline == nil || current != nil {
		return diffspec.DiffPair{}, false
	}
	source, target := presenceSides(baseline, current, direction)
	return diffspec.NewDiffPair(location, diffspec.ReasonRemoved, source, target, direction), true
}

// CheckAddedDeclaration reports a whole top-level declaration that exists in
// the current version only. Pass nil for an absent side.
func CheckAddedDeclaration(location diffspec.DiffLocation, baseline, current decl.Declaration, direction diffspec.AssignDirection) (diffspec.DiffPair, bool) {
	if current == nil || baseline != nil {
		return diffspec.DiffPair{}, false
	}
	source, target := presenceSides(baseline, current, direction)
	return diffspec.NewDiffPair(location, diffspec.ReasonAdded, source, target, direction), true
}

// DeclarationLocation is the location used when a whole top-level
// declaration of the given kind appears or disappears.
func DeclarationLocation(kind decl.Kind) diffspec.DiffLocation {
	switch kind {
	case decl.KindInterface:
		return diffspec.LocationInterface
	case decl.KindClass:
		return diffspec.LocationClass
	case decl.KindTypeAlias:
		return diffspec.LocationTypeAlias
	case decl.KindEnum:
		return diffspec.LocationEnum
	default:
		return diffspec.LocationSignature
	}
}
