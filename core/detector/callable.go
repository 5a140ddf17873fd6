package detector

import (
	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

func newPair(location diffspec.DiffLocation, reasons diffspec.DiffReasons, source, target *diffspec.NameNode) diffspec.DiffPair {
	return diffspec.NewDiffPair(location, reasons, source, target, diffspec.DirectionNone)
}

func nameNode(d decl.Declaration) *diffspec.NameNode {
	return diffspec.NewNameNode(decl.DisplayName(d), d)
}

// compareReturnTypes compares the return (or instance) types of two
// callables. A constructor cannot be compared with anything but a constructor,
// and constructor instance types are not compared at all.
func (d *Detector) compareReturnTypes(source, target decl.Declaration) ([]diffspec.DiffPair, error) {
	sourceIsCtor := source.Kind() == decl.KindConstructor
	targetIsCtor := target.Kind() == decl.KindConstructor

	if sourceIsCtor != targetIsCtor {
		return []diffspec.DiffPair{
			newPair(diffspec.LocationSignature, diffspec.ReasonNotComparable, nameNode(source), nameNode(target)),
		}, nil
	}
	if sourceIsCtor {
		return nil, nil
	}

	reasons, err := d.classify(source, target)
	if err != nil {
		return nil, err
	}
	if reasons == diffspec.ReasonNone {
		return nil, nil
	}
	return []diffspec.DiffPair{
		newPair(diffspec.LocationSignatureReturnType, reasons, nameNode(source), nameNode(target)),
	}, nil
}

// compareParameters compares parameter lists by position. When the arity
// differs a single CountChanged pair naming the owners is reported and no
// parameter is inspected.
func (d *Detector) compareParameters(source, target decl.Declaration, sourceName, targetName string) ([]diffspec.DiffPair, error) {
	sourceParams := source.Parameters()
	targetParams := target.Parameters()

	if len(sourceParams) != len(targetParams) {
		return []diffspec.DiffPair{
			newPair(diffspec.LocationSignatureParameterList, diffspec.ReasonCountChanged,
				diffspec.NewNameNode(sourceName, source), diffspec.NewNameNode(targetName, target)),
		}, nil
	}

	var pairs []diffspec.DiffPair
	for i, targetParam := range targetParams {
		sourceParam := sourceParams[i]
		reasons, err := d.classify(sourceParam, targetParam)
		if err != nil {
			return nil, err
		}
		if reasons == diffspec.ReasonNone {
			continue
		}
		pairs = append(pairs, newPair(diffspec.LocationParameter, reasons,
			diffspec.NewNameNode(sourceParam.Name(), sourceParam),
			diffspec.NewNameNode(targetParam.Name(), targetParam)))
	}
	return pairs, nil
}

// compareCallables runs the return type and parameter comparisons, in that
// order.
func (d *Detector) compareCallables(source, target decl.Declaration, sourceName, targetName string) ([]diffspec.DiffPair, error) {
	pairs, err := d.compareReturnTypes(source, target)
	if err != nil {
		return nil, err
	}
	params, err := d.compareParameters(source, target, sourceName, targetName)
	if err != nil {
		return nil, err
	}
	return append(pairs, params...), nil
}
