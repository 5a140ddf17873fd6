package snapshot

import (
	"fmt"
	"strings"

	"github.com/emenda-labs/declguard/core/decl"
)

// document is the on-disk YAML layout of a snapshot file.
type document struct {
	Package     string           `yaml:"package"`
	Version     string           `yaml:"version"`
	Interfaces  []structuredSpec `yaml:"interfaces"`
	Classes     []structuredSpec `yaml:"classes"`
	Functions   []functionSpec   `yaml:"functions"`
	TypeAliases []aliasSpec      `yaml:"typeAliases"`
	Enums       []enumSpec       `yaml:"enums"`
}

type structuredSpec struct {
	Name           string          `yaml:"name"`
	Extends        []string        `yaml:"extends"`
	CallSignatures []signatureSpec `yaml:"callSignatures"`
	Constructors   []signatureSpec `yaml:"constructors"`
	Members        []memberSpec    `yaml:"members"`
}

type signatureSpec struct {
	Params  []paramSpec `yaml:"params"`
	Returns string      `yaml:"returns"`
}

type paramSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
	Rest     bool   `yaml:"rest"`
}

type memberSpec struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind"`
	Type     string      `yaml:"type"`
	Optional bool        `yaml:"optional"`
	Readonly bool        `yaml:"readonly"`
	Params   []paramSpec `yaml:"params"`
	Returns  string      `yaml:"returns"`
}

type functionSpec struct {
	Name      string          `yaml:"name"`
	Params    []paramSpec     `yaml:"params"`
	Returns   string          `yaml:"returns"`
	Overloads []signatureSpec `yaml:"overloads"`
}

type aliasSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type enumSpec struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

const (
	memberProperty = "property"
	memberMethod   = "method"
	memberArrow    = "arrow"
)

func typeOf(text string) *TypeExpr {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return NewTypeExpr(text)
}

// returnsOf defaults a missing return type to void.
func returnsOf(text string) *TypeExpr {
	if strings.TrimSpace(text) == "" {
		return NewTypeExpr("void")
	}
	return NewTypeExpr(text)
}

func buildParams(specs []paramSpec) []decl.Declaration {
	params := make([]decl.Declaration, 0, len(specs))
	for _, p := range specs {
		params = append(params, &node{
			kind:     decl.KindParameter,
			name:     p.Name,
			text:     paramText(p),
			typ:      typeOf(p.Type),
			optional: p.Optional,
			rest:     p.Rest,
		})
	}
	return params
}

func paramText(p paramSpec) string {
	var b strings.Builder
	if p.Rest {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Optional {
		b.WriteString("?")
	}
	if t := typeOf(p.Type); t != nil {
		b.WriteString(": ")
		b.WriteString(t.Text())
	}
	return b.String()
}

func paramListText(specs []paramSpec) string {
	texts := make([]string, 0, len(specs))
	for _, p := range specs {
		texts = append(texts, paramText(p))
	}
	return "(" + strings.Join(texts, ", ") + ")"
}

func buildSignature(kind decl.Kind, prefix string, s signatureSpec) *node {
	ret := returnsOf(s.Returns)
	return &node{
		kind:   kind,
		text:   prefix + paramListText(s.Params) + ": " + ret.Text(),
		ret:    ret,
		params: buildParams(s.Params),
	}
}

func buildConstructor(className string, s signatureSpec) *node {
	return &node{
		kind:   decl.KindConstructor,
		text:   "constructor" + paramListText(s.Params),
		ret:    NewTypeExpr(className),
		params: buildParams(s.Params),
	}
}

func buildMember(owner string, m memberSpec) (*node, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("%s: member without a name", owner)
	}
	optional := ""
	if m.Optional {
		optional = "?"
	}

	switch m.Kind {
	case "", memberProperty:
		if typeOf(m.Type) == nil {
			return nil, fmt.Errorf("%s.%s: property without a type", owner, m.Name)
		}
		readonly := ""
		if m.Readonly {
			readonly = "readonly "
		}
		t := NewTypeExpr(m.Type)
		return &node{
			kind:     decl.KindProperty,
			name:     m.Name,
			text:     readonly + m.Name + optional + ": " + t.Text(),
			typ:      t,
			optional: m.Optional,
			readonly: m.Readonly,
		}, nil

	case memberMethod:
		ret := returnsOf(m.Returns)
		return &node{
			kind:     decl.KindMethod,
			name:     m.Name,
			text:     m.Name + optional + paramListText(m.Params) + ": " + ret.Text(),
			ret:      ret,
			optional: m.Optional,
			params:   buildParams(m.Params),
		}, nil

	case memberArrow:
		ret := returnsOf(m.Returns)
		fn := NewTypeExpr(paramListText(m.Params) + " => " + ret.Text())
		return &node{
			kind:     decl.KindArrowFunctionProperty,
			name:     m.Name,
			text:     m.Name + optional + ": " + fn.Text(),
			typ:      fn,
			ret:      ret,
			optional: m.Optional,
			readonly: m.Readonly,
			params:   buildParams(m.Params),
		}, nil

	default:
		return nil, fmt.Errorf("%s.%s: unknown member kind %q", owner, m.Name, m.Kind)
	}
}

func buildFunction(f functionSpec) *node {
	ret := returnsOf(f.Returns)
	fn := &node{
		kind:   decl.KindFunction,
		name:   f.Name,
		text:   "function " + f.Name + paramListText(f.Params) + ": " + ret.Text(),
		ret:    ret,
		params: buildParams(f.Params),
	}
	for _, o := range f.Overloads {
		overload := buildSignature(decl.KindFunction, "function "+f.Name, o)
		overload.name = f.Name
		fn.overloads = append(fn.overloads, overload)
	}
	if len(fn.overloads) > 0 && len(f.Params) == 0 && f.Returns == "" {
		// An overloaded function is described by its overloads alone.
		first := fn.overloads[0].(*node)
		fn.text, fn.ret, fn.params = first.text, first.ret, first.params
	}
	return fn
}

func buildAlias(a aliasSpec) *node {
	t := typeOf(a.Type)
	text := "type " + a.Name
	if t != nil {
		text += " = " + t.Text()
	}
	return &node{kind: decl.KindTypeAlias, name: a.Name, text: text, typ: t}
}

func buildEnum(e enumSpec) (*node, error) {
	n := &node{kind: decl.KindEnum, name: e.Name, text: "enum " + e.Name}
	seen := make(map[string]bool, len(e.Members))
	for _, m := range e.Members {
		if seen[m] {
			return nil, fmt.Errorf("%s.%s: duplicate member", e.Name, m)
		}
		seen[m] = true
		n.members = append(n.members, &node{kind: decl.KindEnumMember, name: m, text: m})
	}
	return n, nil
}

// structuredBuilder resolves `extends` clauses so that an interface or class
// exposes its inherited members and call signatures. Own members shadow
// inherited ones. Constructors are never inherited.
type structuredBuilder struct {
	kind     decl.Kind
	keyword  string
	specs    map[string]structuredSpec
	built    map[string]*node
	visiting map[string]bool
}

func newStructuredBuilder(kind decl.Kind, keyword string, specs []structuredSpec) (*structuredBuilder, error) {
	b := &structuredBuilder{
		kind:     kind,
		keyword:  keyword,
		specs:    make(map[string]structuredSpec, len(specs)),
		built:    make(map[string]*node, len(specs)),
		visiting: make(map[string]bool),
	}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("%s without a name", keyword)
		}
		if _, dup := b.specs[s.Name]; dup {
			return nil, fmt.Errorf("duplicate %s %q", keyword, s.Name)
		}
		b.specs[s.Name] = s
	}
	return b, nil
}

func (b *structuredBuilder) build(name string) (*node, error) {
	if n, ok := b.built[name]; ok {
		return n, nil
	}
	spec, ok := b.specs[name]
	if !ok {
		return nil, fmt.Errorf("unknown base %s %q", b.keyword, name)
	}
	if b.visiting[name] {
		return nil, fmt.Errorf("%s %q extends itself", b.keyword, name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	text := b.keyword + " " + name
	if len(spec.Extends) > 0 {
		text += " extends " + strings.Join(spec.Extends, ", ")
	}
	n := &node{kind: b.kind, name: name, text: text}

	var inheritedMembers []decl.Declaration
	for _, base := range spec.Extends {
		parent, err := b.build(base)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", b.keyword, name, err)
		}
		n.callSignatures = append(n.callSignatures, parent.callSignatures...)
		inheritedMembers = append(inheritedMembers, parent.members...)
	}

	for _, s := range spec.CallSignatures {
		n.callSignatures = append(n.callSignatures, buildSignature(decl.KindCallSignature, "", s))
	}
	for _, s := range spec.Constructors {
		n.constructors = append(n.constructors, buildConstructor(name, s))
	}

	own := make(map[string]bool, len(spec.Members))
	var members []decl.Declaration
	for _, m := range spec.Members {
		member, err := buildMember(name, m)
		if err != nil {
			return nil, err
		}
		if own[m.Name] {
			return nil, fmt.Errorf("%s.%s: duplicate member", name, m.Name)
		}
		own[m.Name] = true
		members = append(members, member)
	}
	seen := make(map[string]bool, len(inheritedMembers))
	for _, m := range inheritedMembers {
		if own[m.Name()] || seen[m.Name()] {
			continue
		}
		seen[m.Name()] = true
		n.members = append(n.members, m)
	}
	n.members = append(n.members, members...)

	b.built[name] = n
	return n, nil
}
