package diffspec

import "github.com/emenda-labs/declguard/core/decl"

// SymbolDiff holds the outcome of comparing one exported symbol. Err is set
// when the comparison could not be completed; Pairs is then empty.
type SymbolDiff struct {
	Kind  decl.Kind  `json:"-"`
	Name  string     `json:"name"`
	Pairs []DiffPair `json:"pairs,omitempty"`
	Err   error      `json:"-"`
}

// Report is the full set of differences between two snapshots of a package.
type Report struct {
	Package         string       `json:"package"`
	BaselineVersion string       `json:"baseline_version"`
	CurrentVersion  string       `json:"current_version"`
	Symbols         []SymbolDiff `json:"symbols"`
}

// Pairs returns every pair in the report in symbol order.
func (r Report) Pairs() []DiffPair {
	var out []DiffPair
	for _, s := range r.Symbols {
		out = append(out, s.Pairs...)
	}
	return out
}

// Breaking returns the pairs that can break existing consumers.
func (r Report) Breaking() []DiffPair {
	var out []DiffPair
	for _, p := range r.Pairs() {
		if p.IsBreaking() {
			out = append(out, p)
		}
	}
	return out
}

// Added returns the pairs that only add surface.
func (r Report) Added() []DiffPair {
	var out []DiffPair
	for _, p := range r.Pairs() {
		if p.Reasons == ReasonAdded {
			out = append(out, p)
		}
	}
	return out
}

// Failures returns the symbols whose comparison failed.
func (r Report) Failures() []SymbolDiff {
	var out []SymbolDiff
	for _, s := range r.Symbols {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}
