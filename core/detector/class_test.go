package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

func TestCompareClasses(t *testing.T) {
	withBody := func(body string) string {
		return "classes:\n  - name: Test\n" + body
	}

	tests := []struct {
		name     string
		baseline string
		current  string
		want     []diff
	}{
		{
			name:     "remove constructor",
			baseline: withBody("    constructors:\n      - params: [{name: a, type: string}]\n"),
			current:  withBody(""),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "constructor(a: string)"}},
		},
		{
			name:     "add constructor overload",
			baseline: withBody("    constructors:\n      - params: [{name: a, type: string}]\n"),
			current:  withBody("    constructors:\n      - params: [{name: a, type: string}]\n      - params: [{name: a, type: string}, {name: b, type: number}]\n"),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "constructor(a: string, b: number)"}},
		},
		{
			name:     "rename constructor parameter",
			baseline: withBody("    constructors:\n      - params: [{name: a, type: string}]\n"),
			current:  withBody("    constructors:\n      - params: [{name: endpoint, type: string}]\n"),
			want:     []diff{},
		},
		{
			name:     "change constructor parameter type",
			baseline: withBody("    constructors:\n      - params: [{name: a, type: string}]\n"),
			current:  withBody("    constructors:\n      - params: [{name: a, type: number}]\n"),
			want:     []diff{{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "a", Target: "a"}},
		},
		{
			name:     "constructor parameter becomes optional",
			baseline: withBody("    constructors:\n      - params: [{name: a, type: string}]\n"),
			current:  withBody("    constructors:\n      - params: [{name: a, type: string, optional: true}]\n"),
			want: []diff{
				{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "constructor(a: string)"},
				{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "constructor(a?: string)"},
			},
		},
		{
			name:     "change property type",
			baseline: withBody("    members:\n      - {name: apiVersion, type: string}\n"),
			current:  withBody("    members:\n      - {name: apiVersion, type: number}\n"),
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonTypeChanged, Source: "apiVersion", Target: "apiVersion"}},
		},
		{
			name:     "property required to optional",
			baseline: withBody("    members:\n      - {name: apiVersion, type: string, optional: true}\n"),
			current:  withBody("    members:\n      - {name: apiVersion, type: string}\n"),
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonRequiredToOptional, Source: "apiVersion", Target: "apiVersion"}},
		},
		{
			name:     "change method return type",
			baseline: withBody("    members:\n      - {name: get, kind: method, returns: Promise<Vm>}\n"),
			current:  withBody("    members:\n      - {name: get, kind: method, returns: Promise<VmResponse>}\n"),
			want:     []diff{{Location: diffspec.LocationSignatureReturnType, Reasons: diffspec.ReasonTypeChanged, Source: "get", Target: "get"}},
		},
		{
			name:     "remove arrow function property",
			baseline: withBody("    members:\n      - {name: onError, kind: arrow}\n"),
			current:  withBody(""),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "onError"}},
		},
		{
			name:     "change method rest parameter",
			baseline: withBody("    members:\n      - {name: log, kind: method, params: [{name: args, type: \"string[]\", rest: true}]}\n"),
			current:  withBody("    members:\n      - {name: log, kind: method, params: [{name: args, type: \"number[]\", rest: true}]}\n"),
			want:     []diff{{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "args", Target: "args"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := compareDocs(t, newDetector(), decl.KindClass, "Test", tt.baseline, tt.current)
			assert.Equal(t, tt.want, summarize(pairs))
		})
	}
}

func TestCompareClassesIgnoresBaseConstructors(t *testing.T) {
	baseline := `
classes:
  - name: Base
    constructors:
      - params: [{name: a, type: string}]
  - name: Derived
    extends: [Base]
    members:
      - {name: id, type: string}
`
	current := `
classes:
  - name: Base
    constructors:
      - params: [{name: a, type: number}]
  - name: Derived
    extends: [Base]
    members:
      - {name: id, type: string}
`
	derived := lookup(t, current, decl.KindClass, "Derived")
	assert.Empty(t, derived.Constructors())
	assert.Len(t, derived.Members(), 1)

	assert.Empty(t, compareDocs(t, newDetector(), decl.KindClass, "Derived", baseline, current))

	pairs := compareDocs(t, newDetector(), decl.KindClass, "Base", baseline, current)
	assert.Equal(t, []diff{
		{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "a", Target: "a"},
	}, summarize(pairs))
}

func TestCompareClassesConstructorAgainstNonConstructor(t *testing.T) {
	doc := `
classes:
  - name: Test
    constructors:
      - params: [{name: endpoint, type: string}]
    members:
      - name: connect
        kind: method
        params: [{name: endpoint, type: string}]
`
	baseline := lookup(t, doc, decl.KindClass, "Test")
	current := lookup(t, doc, decl.KindClass, "Test")

	// Pair every constructor with the first method instead.
	toMethod := SignatureMatcherFunc(func(target decl.Declaration, candidates []decl.Declaration) (Match, bool) {
		m := current.Members()[0]
		return Match{ID: m.Name(), Declaration: m}, true
	})

	pairs, err := newDetector().CompareClasses(baseline, current, WithSignatureMatcher(toMethod))
	require.NoError(t, err)
	assert.Equal(t, []diff{
		{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonNotComparable, Source: "connect", Target: "constructor(endpoint: string)"},
	}, summarize(pairs))
}

func TestWithSignatureMatcherIgnoresNil(t *testing.T) {
	det := newDetector()
	cfg := det.config([]CompareOption{WithSignatureMatcher(nil)})
	assert.IsType(t, ShapeMatcher{}, cfg.matcher)
}
