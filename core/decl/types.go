package decl

// Kind identifies what shape of declaration a node is.
type Kind int

const (
	KindProperty Kind = iota + 1
	KindMethod
	KindArrowFunctionProperty
	KindConstructor
	KindCallSignature
	KindFunction
	KindParameter
	KindTypeAlias
	KindEnum
	KindEnumMember
	KindInterface
	KindClass
)

var kindNames = map[Kind]string{
	KindProperty:              "property",
	KindMethod:                "method",
	KindArrowFunctionProperty: "arrow_function_property",
	KindConstructor:           "constructor",
	KindCallSignature:         "call_signature",
	KindFunction:              "function",
	KindParameter:             "parameter",
	KindTypeAlias:             "type_alias",
	KindEnum:                  "enum",
	KindEnumMember:            "enum_member",
	KindInterface:             "interface",
	KindClass:                 "class",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Callable reports whether a member of this kind is invoked rather than read:
// methods and properties whose value is an arrow function.
func (k Kind) Callable() bool {
	return k == KindMethod || k == KindArrowFunctionProperty
}

// ReturnTyped reports whether the declaration carries its own return type.
// Constructors are return-typed; their return type is the instance type.
func (k Kind) ReturnTyped() bool {
	switch k {
	case KindFunction, KindMethod, KindCallSignature, KindConstructor:
		return true
	default:
		return false
	}
}

// TopLevelKinds lists the declaration kinds that can be exported from a module
// snapshot, in the order they are compared.
var TopLevelKinds = []Kind{KindInterface, KindClass, KindFunction, KindTypeAlias, KindEnum}

// Type is a resolvable type as exposed by the provider.
type Type interface {
	// Text is the type as written, e.g. `string | number`.
	Text() string

	// IsAny reports whether the type is the top `any` keyword.
	IsAny() bool

	// PredicateTarget returns the asserted type text when the type is a
	// type predicate (`x is T`).
	PredicateTarget() (string, bool)
}

// Declaration is a handle into a provider's parsed snapshot. Declarations are
// borrowed: their lifetime is the snapshot that produced them.
type Declaration interface {
	Kind() Kind

	// Name is empty for call signatures and constructors.
	Name() string

	// Text is the declaration as written; used to identify unnamed nodes.
	Text() string

	// Type is the declared type, nil when there is none.
	Type() Type

	// ReturnType is set for return-typed kinds and for arrow function
	// properties, where it is the function type's return type.
	ReturnType() Type

	Optional() bool
	Readonly() bool
	Rest() bool

	Parameters() []Declaration
	Overloads() []Declaration

	// Members are the resolved members of an interface or class, including
	// inherited ones, or the members of an enum.
	Members() []Declaration

	CallSignatures() []Declaration

	// Constructors are the direct constructor children of a class.
	Constructors() []Declaration
}

// DisplayName returns the name of d, falling back to its text for unnamed
// declarations such as call signatures.
func DisplayName(d Declaration) string {
	if d == nil {
		return ""
	}
	if name := d.Name(); name != "" {
		return name
	}
	return d.Text()
}
