package snapshot

import (
	"regexp"
	"strings"

	"github.com/emenda-labs/declguard/core/decl"
)

var _ decl.Declaration = (*node)(nil)
var _ decl.Type = (*TypeExpr)(nil)

// predicatePattern matches `x is T` and `asserts x is T`.
var predicatePattern = regexp.MustCompile(`^(?:asserts\s+)?(?:this|[A-Za-z_$][\w$]*)\s+is\s+(.+)$`)

// TypeExpr is a type written as a type expression in a snapshot.
type TypeExpr struct {
	text string
}

// NewTypeExpr wraps a type expression.
func NewTypeExpr(text string) *TypeExpr {
	return &TypeExpr{text: strings.Join(strings.Fields(text), " ")}
}

func (t *TypeExpr) Text() string { return t.text }

func (t *TypeExpr) IsAny() bool { return t.text == "any" }

func (t *TypeExpr) PredicateTarget() (string, bool) {
	m := predicatePattern.FindStringSubmatch(t.text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// node is an in-memory declaration built from a snapshot document.
type node struct {
	kind     decl.Kind
	name     string
	text     string
	typ      *TypeExpr
	ret      *TypeExpr
	optional bool
	readonly bool
	rest     bool

	params         []decl.Declaration
	overloads      []decl.Declaration
	members        []decl.Declaration
	callSignatures []decl.Declaration
	constructors   []decl.Declaration
}

func (n *node) Kind() decl.Kind { return n.kind }
func (n *node) Name() string    { return n.name }
func (n *node) Text() string    { return n.text }
func (n *node) Optional() bool  { return n.optional }
func (n *node) Readonly() bool  { return n.readonly }
func (n *node) Rest() bool      { return n.rest }

// Type and ReturnType return an untyped nil when unset so callers can compare
// against nil.
func (n *node) Type() decl.Type {
	if n.typ == nil {
		return nil
	}
	return n.typ
}

func (n *node) ReturnType() decl.Type {
	if n.ret == nil {
		return nil
	}
	return n.ret
}

func (n *node) Parameters() []decl.Declaration     { return n.params }
func (n *node) Overloads() []decl.Declaration      { return n.overloads }
func (n *node) Members() []decl.Declaration        { return n.members }
func (n *node) CallSignatures() []decl.Declaration { return n.callSignatures }
func (n *node) Constructors() []decl.Declaration   { return n.constructors }
