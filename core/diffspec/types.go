package diffspec

import (
	"fmt"
	"strings"

	"github.com/emenda-labs/declguard/core/decl"
)

// DiffReasons is a set of flags explaining why two declarations differ.
type DiffReasons uint16

const (
	ReasonNone        DiffReasons = 0
	ReasonTypeChanged DiffReasons = 1 << (iota - 1)
	ReasonRequiredToOptional
	ReasonOptionalToRequired
	ReasonReadonlyToMutable
	ReasonRemoved
	ReasonAdded
	ReasonCountChanged
	ReasonNotComparable
)

var reasonNames = []struct {
	flag DiffReasons
	name string
}{
	{ReasonTypeChanged, "type_changed"},
	{ReasonRequiredToOptional, "required_to_optional"},
	{ReasonOptionalToRequired, "optional_to_required"},
	{ReasonReadonlyToMutable, "readonly_to_mutable"},
	{ReasonRemoved, "removed"},
	{ReasonAdded, "added"},
	{ReasonCountChanged, "count_changed"},
	{ReasonNotComparable, "not_comparable"},
}

// Has reports whether every flag in want is set.
func (r DiffReasons) Has(want DiffReasons) bool {
	return want != ReasonNone && r&want == want
}

// String renders the set flags joined by "|", or "none".
func (r DiffReasons) String() string {
	if r == ReasonNone {
		return "none"
	}
	var parts []string
	for _, rn := range reasonNames {
		if r&rn.flag != 0 {
			parts = append(parts, rn.name)
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (r DiffReasons) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// DiffLocation says where in a declaration's shape a difference was found.
type DiffLocation string

const (
	LocationSignature              DiffLocation = "signature"
	LocationSignatureReturnType    DiffLocation = "signature_return_type"
	LocationSignatureParameterList DiffLocation = "signature_parameter_list"
	LocationSignatureOverload      DiffLocation = "signature_overload"
	LocationParameter              DiffLocation = "parameter"
	LocationProperty               DiffLocation = "property"
	LocationTypeAlias              DiffLocation = "type_alias"
	LocationEnumMember             DiffLocation = "enum_member"

	// Whole-declaration locations, used when an exported symbol appears or
	// disappears. Functions report at LocationSignature.
	LocationInterface DiffLocation = "interface"
	LocationClass     DiffLocation = "class"
	LocationEnum      DiffLocation = "enum"
)

// AssignDirection records which side of a pair is the baseline.
type AssignDirection int

const (
	DirectionNone AssignDirection = iota
	DirectionBaselineToCurrent
	DirectionCurrentToBaseline
)

func (d AssignDirection) String() string {
	switch d {
	case DirectionBaselineToCurrent:
		return "baseline_to_current"
	case DirectionCurrentToBaseline:
		return "current_to_baseline"
	default:
		return "none"
	}
}

// NameNode points at a declaration for reporting. It does not own it.
type NameNode struct {
	Name        string           `json:"name"`
	Declaration decl.Declaration `json:"-"`
}

// NewNameNode builds a NameNode from d, or returns nil when d is nil.
func NewNameNode(name string, d decl.Declaration) *NameNode {
	if d == nil {
		return nil
	}
	return &NameNode{Name: name, Declaration: d}
}

// DiffPair is a single reported difference between a baseline and a current
// declaration. A pair with only Target set is a removal, only Source set an
// addition, both set a change.
type DiffPair struct {
	Location  DiffLocation    `json:"location"`
	Reasons   DiffReasons     `json:"reasons"`
	Source    *NameNode       `json:"source,omitempty"`
	Target    *NameNode       `json:"target,omitempty"`
	Direction AssignDirection `json:"direction"`
}

// NewDiffPair constructs a DiffPair.
func NewDiffPair(location DiffLocation, reasons DiffReasons, source, target *NameNode, direction AssignDirection) DiffPair {
	return DiffPair{
		Location:  location,
		Reasons:   reasons,
		Source:    source,
		Target:    target,
		Direction: direction,
	}
}

// IsBreaking reports whether the pair can break existing consumers. Only pure
// additions are safe.
func (p DiffPair) IsBreaking() bool {
	return p.Reasons != ReasonNone && p.Reasons != ReasonAdded
}

// Name returns the most specific name carried by the pair.
func (p DiffPair) Name() string {
	if p.Target != nil {
		return p.Target.Name
	}
	if p.Source != nil {
		return p.Source.Name
	}
	return ""
}

func (p DiffPair) String() string {
	return fmt.Sprintf("%s %s %q", p.Location, p.Reasons, p.Name())
}

// Options toggles which transitions count as breaking. Readonly-to-mutable is
// always checked.
type Options struct {
	ConcreteTypeToAnyAsBreakingChange  bool `json:"concrete_type_to_any"`
	RequiredToOptionalAsBreakingChange bool `json:"required_to_optional"`
	OptionalToRequiredAsBreakingChange bool `json:"optional_to_required"`
}

// DefaultOptions enables every optional check.
func DefaultOptions() Options {
	return Options{
		ConcreteTypeToAnyAsBreakingChange:  true,
		RequiredToOptionalAsBreakingChange: true,
		OptionalToRequiredAsBreakingChange: true,
	}
}
