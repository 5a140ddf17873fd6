package detector

import "github.com/emenda-labs/declguard/core/decl"

// Match is the counterpart found for a call-signature-like declaration. ID
// names both sides in parameter-list diffs.
type Match struct {
	ID          string
	Declaration decl.Declaration
}

// SignatureMatcher finds, among candidates, the declaration that corresponds
// to target. It identifies the same overload, not a compatible one.
type SignatureMatcher interface {
	Match(target decl.Declaration, candidates []decl.Declaration) (Match, bool)
}

// SignatureMatcherFunc adapts a function to SignatureMatcher.
type SignatureMatcherFunc func(target decl.Declaration, candidates []decl.Declaration) (Match, bool)

func (f SignatureMatcherFunc) Match(target decl.Declaration, candidates []decl.Declaration) (Match, bool) {
	return f(target, candidates)
}

// ShapeMatcher is the default matcher. Two signatures have the same shape when
// they are of the same kind, take the same number of parameters and agree on
// the optional and rest modifiers position by position. Parameter types only
// break ties: among candidates of the same shape the one with the most
// mutually assignable parameters wins, then the earliest. Return types and
// parameter names are ignored.
type ShapeMatcher struct {
	Checker decl.TypeChecker
}

func (m ShapeMatcher) Match(target decl.Declaration, candidates []decl.Declaration) (Match, bool) {
	best, bestScore := -1, -1
	for i, candidate := range candidates {
		if !sameShape(target, candidate) {
			continue
		}
		if score := m.agreement(target, candidate); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return Match{ID: candidates[best].Text(), Declaration: candidates[best]}, true
}

func sameShape(a, b decl.Declaration) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	aParams, bParams := a.Parameters(), b.Parameters()
	if len(aParams) != len(bParams) {
		return false
	}
	for i := range aParams {
		if aParams[i].Optional() != bParams[i].Optional() || aParams[i].Rest() != bParams[i].Rest() {
			return false
		}
	}
	return true
}

// agreement counts the positions whose parameter types are assignable both
// ways. Both declarations must have the same shape.
func (m ShapeMatcher) agreement(a, b decl.Declaration) int {
	if m.Checker == nil {
		return 0
	}
	aParams, bParams := a.Parameters(), b.Parameters()
	score := 0
	for i := range aParams {
		at, bt := aParams[i].Type(), bParams[i].Type()
		if at == nil || bt == nil {
			if at == nil && bt == nil {
				score++
			}
			continue
		}
		if m.Checker.IsAssignableTo(at, bt) && m.Checker.IsAssignableTo(bt, at) {
			score++
		}
	}
	return score
}

// FirstParameterMatcher pairs signatures by the type of their first
// parameter, the way REST-level clients key call signatures by a path
// literal. Signatures without parameters pair with each other.
type FirstParameterMatcher struct{}

func (FirstParameterMatcher) Match(target decl.Declaration, candidates []decl.Declaration) (Match, bool) {
	key := firstParameterType(target)
	for _, candidate := range candidates {
		if candidate.Kind() == target.Kind() && firstParameterType(candidate) == key {
			return Match{ID: key, Declaration: candidate}, true
		}
	}
	return Match{}, false
}

func firstParameterType(d decl.Declaration) string {
	params := d.Parameters()
	if len(params) == 0 || params[0].Type() == nil {
		return ""
	}
	return params[0].Type().Text()
}
