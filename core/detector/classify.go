package detector

import (
	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

// comparableType resolves the type that stands for a declaration's slot: the
// return type of callables and arrow function properties, the declared type
// of everything else.
func comparableType(d decl.Declaration) (decl.Type, error) {
	kind := d.Kind()
	if kind == decl.KindArrowFunctionProperty || kind.ReturnTyped() {
		if t := d.ReturnType(); t != nil {
			return t, nil
		}
		return nil, invariantError("resolve return type", d, ErrUnsupportedDeclaration)
	}
	if t := d.Type(); t != nil {
		return t, nil
	}
	return nil, invariantError("resolve type", d, ErrUnsupportedDeclaration)
}

// classify computes why source (current) cannot stand in for target
// (baseline). Flags read in the source-to-target direction.
func (d *Detector) classify(source, target decl.Declaration) (diffspec.DiffReasons, error) {
	targetType, err := comparableType(target)
	if err != nil {
		return diffspec.ReasonNone, err
	}
	sourceType, err := comparableType(source)
	if err != nil {
		return diffspec.ReasonNone, err
	}

	reasons := diffspec.ReasonNone

	// Losing static type information: string -> any.
	if d.opts.ConcreteTypeToAnyAsBreakingChange && !targetType.IsAny() && sourceType.IsAny() {
		reasons |= diffspec.ReasonTypeChanged
	}

	if targetAsserted, ok := targetType.PredicateTarget(); ok {
		if sourceAsserted, ok := sourceType.PredicateTarget(); ok && sourceAsserted != targetAsserted {
			reasons |= diffspec.ReasonTypeChanged
		}
	}

	if !d.checker.IsAssignableTo(sourceType, targetType) {
		reasons |= diffspec.ReasonTypeChanged
	}

	if d.opts.OptionalToRequiredAsBreakingChange && source.Optional() && !target.Optional() {
		reasons |= diffspec.ReasonOptionalToRequired
	}
	if d.opts.RequiredToOptionalAsBreakingChange && !source.Optional() && target.Optional() {
		reasons |= diffspec.ReasonRequiredToOptional
	}

	if source.Readonly() && !target.Readonly() {
		reasons |= diffspec.ReasonReadonlyToMutable
	}

	return reasons, nil
}
