package snapshot

import (
	"strconv"
	"strings"

	"github.com/emenda-labs/declguard/core/decl"
)

var _ decl.TypeChecker = Checker{}

// Checker is a conservative assignability oracle over type expressions. It
// understands unions, the any/unknown/never keywords, literal widening,
// array element types and arrow types. Every other named type is nominal: it
// is assignable only to itself.
type Checker struct{}

// IsAssignableTo reports whether a value of type source may be used where
// target is expected.
func (Checker) IsAssignableTo(source, target decl.Type) bool {
	if source == nil || target == nil {
		return source == nil && target == nil
	}
	return assignable(source.Text(), target.Text())
}

func assignable(source, target string) bool {
	sources := unionMembers(source)
	targets := unionMembers(target)

	for _, t := range targets {
		if t == "any" || t == "unknown" {
			return true
		}
	}
	for _, s := range sources {
		if !atomAssignable(s, targets) {
			return false
		}
	}
	return true
}

func atomAssignable(source string, targets []string) bool {
	switch source {
	case "never":
		return true
	case "any":
		for _, t := range targets {
			if t != "never" {
				return true
			}
		}
		return false
	}
	for _, t := range targets {
		if atomAssignableTo(source, t) {
			return true
		}
	}
	return false
}

func atomAssignableTo(source, target string) bool {
	if source == target {
		return true
	}
	switch target {
	case "string":
		return isStringLiteral(source)
	case "number":
		return isNumberLiteral(source)
	case "void":
		return source == "undefined"
	}
	if sp, sr, ok := functionType(source); ok {
		if tp, tr, ok := functionType(target); ok {
			return functionAssignable(sp, sr, tp, tr)
		}
		return false
	}
	if se, ok := arrayElement(source); ok {
		if te, ok := arrayElement(target); ok {
			return assignable(se, te)
		}
	}
	return false
}

// functionType splits an arrow type `(params) => ret` into its parameter
// texts and return type.
func functionType(text string) (params []string, ret string, ok bool) {
	if !strings.HasPrefix(text, "(") {
		return nil, "", false
	}
	end := closingParen(text)
	if end < 0 {
		return nil, "", false
	}
	rest := strings.TrimSpace(text[end+1:])
	if !strings.HasPrefix(rest, "=>") {
		return nil, "", false
	}
	if inner := strings.TrimSpace(text[1:end]); inner != "" {
		params = splitTopLevel(inner, ',')
	}
	return params, strings.TrimSpace(rest[2:]), true
}

// closingParen returns the index of the parenthesis closing the one at 0.
func closingParen(text string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

type arrowParam struct {
	typ      string
	optional bool
	rest     bool
}

func parseArrowParam(text string) arrowParam {
	text = strings.TrimSpace(text)
	p := arrowParam{typ: "any"}
	name := text
	if i := strings.IndexByte(text, ':'); i >= 0 {
		name = strings.TrimSpace(text[:i])
		p.typ = strings.TrimSpace(text[i+1:])
	}
	p.rest = strings.HasPrefix(name, "...")
	p.optional = strings.HasSuffix(name, "?")
	return p
}

// functionAssignable compares arrow types positionally. Parameter names are
// ignored and a void target accepts any return type.
func functionAssignable(sourceParams []string, sourceRet string, targetParams []string, targetRet string) bool {
	if len(sourceParams) != len(targetParams) {
		return false
	}
	for i := range sourceParams {
		sp, tp := parseArrowParam(sourceParams[i]), parseArrowParam(targetParams[i])
		if sp.optional != tp.optional || sp.rest != tp.rest {
			return false
		}
		if !assignable(sp.typ, tp.typ) || !assignable(tp.typ, sp.typ) {
			return false
		}
	}
	return targetRet == "void" || assignable(sourceRet, targetRet)
}

// unionMembers splits a type expression on its top-level `|` operators. The
// boolean keyword is expanded to its literals and predicates read as boolean.
func unionMembers(text string) []string {
	text = stripParens(strings.TrimSpace(text))
	if predicatePattern.MatchString(text) {
		return []string{"true", "false"}
	}
	if strings.HasPrefix(text, "|") {
		text = strings.TrimSpace(text[1:])
	}

	var members []string
	for _, part := range splitTopLevel(text, '|') {
		part = stripParens(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if part == "boolean" {
			members = append(members, "true", "false")
			continue
		}
		if inner := splitTopLevel(part, '|'); len(inner) > 1 {
			members = append(members, unionMembers(part)...)
			continue
		}
		members = append(members, part)
	}
	return members
}

// splitTopLevel splits text on sep outside brackets and quotes.
func splitTopLevel(text string, sep byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			// `=>` closes nothing. A top-level arrow's return type extends
			// to the end of the expression, so no union is split after it.
			if c == '>' && i > 0 && text[i-1] == '=' {
				if sep == '|' && depth == 0 {
					return append(parts, text[start:])
				}
				continue
			}
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

// stripParens removes parentheses wrapping the whole expression.
func stripParens(text string) string {
	for len(text) >= 2 && text[0] == '(' && text[len(text)-1] == ')' && enclosing(text) {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

// enclosing reports whether the opening parenthesis at 0 closes at the end.
func enclosing(text string) bool {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(text)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func arrayElement(text string) (string, bool) {
	if strings.HasSuffix(text, "[]") {
		return text[:len(text)-2], true
	}
	if strings.HasPrefix(text, "Array<") && strings.HasSuffix(text, ">") {
		return text[len("Array<") : len(text)-1], true
	}
	return "", false
}

func isStringLiteral(text string) bool {
	if len(text) < 2 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return first == last && (first == '"' || first == '\'' || first == '`')
}

func isNumberLiteral(text string) bool {
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}
