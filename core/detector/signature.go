package detector

import (
	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

// compareSignatureSets maps every target signature to its source counterpart
// and compares matched pairs. Unmatched targets are removals.
func (d *Detector) compareSignatureSets(sources, targets []decl.Declaration, matcher SignatureMatcher) ([]diffspec.DiffPair, error) {
	var pairs []diffspec.DiffPair
	for _, target := range targets {
		match, ok := matcher.Match(target, sources)
		if !ok {
			pairs = append(pairs, newPair(diffspec.LocationSignature, diffspec.ReasonRemoved, nil, nameNode(target)))
			continue
		}
		found, err := d.compareCallables(match.Declaration, target, match.ID, match.ID)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, found...)
	}
	return pairs, nil
}

// addedSignatures runs the matcher in reverse: a source signature without a
// target counterpart is new.
func addedSignatures(sources, targets []decl.Declaration, matcher SignatureMatcher) []diffspec.DiffPair {
	var pairs []diffspec.DiffPair
	for _, source := range sources {
		if _, ok := matcher.Match(source, targets); ok {
			continue
		}
		pairs = append(pairs, newPair(diffspec.LocationSignature, diffspec.ReasonAdded, nameNode(source), nil))
	}
	return pairs
}
