package detector

import (
	"errors"
	"fmt"

	"github.com/emenda-labs/declguard/core/decl"
)

var (
	// ErrInvariantViolation marks a declaration whose shape cannot be
	// classified. It is fatal for the symbol being compared only.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnsupportedDeclaration is returned when a declaration exposes no
	// comparable type.
	ErrUnsupportedDeclaration = fmt.Errorf("%w: unsupported declaration kind", ErrInvariantViolation)
)

// InvariantError reports which operation failed on which declaration.
type InvariantError struct {
	Op          string
	Declaration string
	Err         error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Declaration, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func invariantError(op string, d decl.Declaration, err error) error {
	text := "<nil>"
	if d != nil {
		text = d.Text()
	}
	return &InvariantError{Op: op, Declaration: text, Err: err}
}

// expectKind checks that both declarations are present and of the kind the
// comparator handles.
func expectKind(op string, kind decl.Kind, baseline, current decl.Declaration) error {
	for _, d := range []decl.Declaration{baseline, current} {
		if d == nil {
			return invariantError(op, nil, fmt.Errorf("%w: missing %s declaration", ErrInvariantViolation, kind))
		}
		if d.Kind() != kind {
			return invariantError(op, d, fmt.Errorf("%w: got %s, want %s", ErrInvariantViolation, d.Kind(), kind))
		}
	}
	return nil
}
