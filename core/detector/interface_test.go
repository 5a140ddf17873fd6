package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

const emptyInterface = `
interfaces:
  - name: Test
`

func TestCompareInterfacesCallSignatures(t *testing.T) {
	withSignature := func(sig string) string {
		return "interfaces:\n  - name: Test\n    callSignatures:\n      - " + sig + "\n"
	}

	tests := []struct {
		name     string
		baseline string
		current  string
		want     []diff
	}{
		{
			name:     "remove call signature",
			baseline: withSignature(`{params: [{name: para, type: string}]}`),
			current:  emptyInterface,
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "(para: string): void"}},
		},
		{
			name:     "add call signature",
			baseline: emptyInterface,
			current:  withSignature(`{params: [{name: para, type: string}]}`),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "(para: string): void"}},
		},
		{
			name:     "change parameter type",
			baseline: withSignature(`{params: [{name: para, type: string}]}`),
			current:  withSignature(`{params: [{name: para, type: number}]}`),
			want:     []diff{{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "para", Target: "para"}},
		},
		{
			name:     "parameter becomes optional",
			baseline: withSignature(`{params: [{name: para, type: string}]}`),
			current:  withSignature(`{params: [{name: para, type: string, optional: true}]}`),
			want: []diff{
				{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "(para: string): void"},
				{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "(para?: string): void"},
			},
		},
		{
			name:     "change parameter name",
			baseline: withSignature(`{params: [{name: para, type: string}]}`),
			current:  withSignature(`{params: [{name: para2, type: string}]}`),
			want:     []diff{},
		},
		{
			name:     "change parameter count",
			baseline: withSignature(`{params: [{name: para1, type: string}, {name: para2, type: number}]}`),
			current:  withSignature(`{params: [{name: para1, type: string}]}`),
			want: []diff{
				{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "(para1: string, para2: number): void"},
				{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "(para1: string): void"},
			},
		},
		{
			name:     "change return type",
			baseline: withSignature(`{params: [{name: para, type: string}], returns: string}`),
			current:  withSignature(`{params: [{name: para, type: string}], returns: number}`),
			want: []diff{{
				Location: diffspec.LocationSignatureReturnType,
				Reasons:  diffspec.ReasonTypeChanged,
				Source:   "(para: string): number",
				Target:   "(para: string): string",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := compareDocs(t, newDetector(), decl.KindInterface, "Test", tt.baseline, tt.current)
			assert.Equal(t, tt.want, summarize(pairs))
		})
	}
}

func TestCompareInterfacesProperties(t *testing.T) {
	withMembers := func(members ...string) string {
		doc := "interfaces:\n  - name: Test\n    members:\n"
		for _, m := range members {
			doc += "      - " + m + "\n"
		}
		return doc
	}

	tests := []struct {
		name     string
		baseline string
		current  string
		want     []diff
	}{
		{
			name:     "add property",
			baseline: emptyInterface,
			current:  withMembers(`{name: prop, type: string}`),
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonAdded, Source: "prop"}},
		},
		{
			name:     "remove property",
			baseline: withMembers(`{name: bar, type: string}`),
			current:  emptyInterface,
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonRemoved, Target: "bar"}},
		},
		{
			name:     "change property type",
			baseline: withMembers(`{name: prop, type: string}`),
			current:  withMembers(`{name: prop, type: number}`),
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonTypeChanged, Source: "prop", Target: "prop"}},
		},
		{
			name:     "widen property type",
			baseline: withMembers(`{name: prop, type: string}`),
			current:  withMembers(`{name: prop, type: "string | number"}`),
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonTypeChanged, Source: "prop", Target: "prop"}},
		},
		{
			name:     "narrow property type",
			baseline: withMembers(`{name: prop, type: "string | number"}`),
			current:  withMembers(`{name: prop, type: string}`),
			want:     []diff{},
		},
		{
			name:     "rename property",
			baseline: withMembers(`{name: prop, type: string}`),
			current:  withMembers(`{name: prop2, type: string}`),
			want: []diff{
				{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonRemoved, Target: "prop"},
				{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonAdded, Source: "prop2"},
			},
		},
		{
			name:     "mutable to readonly",
			baseline: withMembers(`{name: prop, type: string}`),
			current:  withMembers(`{name: prop, type: string, readonly: true}`),
			want:     []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonReadonlyToMutable, Source: "prop", Target: "prop"}},
		},
		{
			name:     "readonly to mutable",
			baseline: withMembers(`{name: prop, type: string, readonly: true}`),
			current:  withMembers(`{name: prop, type: string}`),
			want:     []diff{},
		},
		{
			name:     "property becomes arrow function",
			baseline: withMembers(`{name: prop, type: string}`),
			current:  withMembers(`{name: prop, kind: arrow}`),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonTypeChanged, Source: "prop", Target: "prop"}},
		},
		{
			name:     "method becomes property",
			baseline: withMembers(`{name: prop, kind: method}`),
			current:  withMembers(`{name: prop, type: "() => void"}`),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonTypeChanged, Source: "prop", Target: "prop"}},
		},
		{
			name:     "removals are reported before changes and additions",
			baseline: withMembers(`{name: a, type: string}`, `{name: b, type: string}`),
			current:  withMembers(`{name: c, type: string}`, `{name: a, type: number}`),
			want: []diff{
				{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonRemoved, Target: "b"},
				{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonTypeChanged, Source: "a", Target: "a"},
				{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonAdded, Source: "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := compareDocs(t, newDetector(), decl.KindInterface, "Test", tt.baseline, tt.current)
			assert.Equal(t, tt.want, summarize(pairs))
		})
	}
}

func TestCompareInterfacesCallableMembers(t *testing.T) {
	withMember := func(m string) string {
		return "interfaces:\n  - name: Test\n    members:\n      - " + m + "\n"
	}

	tests := []struct {
		name     string
		baseline string
		current  string
		want     []diff
	}{
		{
			name:     "add arrow function property",
			baseline: emptyInterface,
			current:  withMember(`{name: prop, kind: arrow}`),
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "prop"}},
		},
		{
			name:     "remove method",
			baseline: withMember(`{name: run, kind: method}`),
			current:  emptyInterface,
			want:     []diff{{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "run"}},
		},
		{
			name:     "change arrow function parameter type",
			baseline: withMember(`{name: prop, kind: arrow, params: [{name: a, type: string}]}`),
			current:  withMember(`{name: prop, kind: arrow, params: [{name: a, type: number}]}`),
			want:     []diff{{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "a", Target: "a"}},
		},
		{
			name:     "change arrow function return type",
			baseline: withMember(`{name: prop, kind: arrow, returns: string}`),
			current:  withMember(`{name: prop, kind: arrow, returns: number}`),
			want:     []diff{{Location: diffspec.LocationSignatureReturnType, Reasons: diffspec.ReasonTypeChanged, Source: "prop", Target: "prop"}},
		},
		{
			name:     "method parameter becomes optional",
			baseline: withMember(`{name: run, kind: method, params: [{name: a, type: string}]}`),
			current:  withMember(`{name: run, kind: method, params: [{name: a, type: string, optional: true}]}`),
			want:     []diff{{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonOptionalToRequired, Source: "a", Target: "a"}},
		},
		{
			name:     "method parameter count change suppresses parameter diffs",
			baseline: withMember(`{name: run, kind: method, params: [{name: a, type: string}]}`),
			current:  withMember(`{name: run, kind: method, params: [{name: a, type: number}, {name: b, type: string}]}`),
			want:     []diff{{Location: diffspec.LocationSignatureParameterList, Reasons: diffspec.ReasonCountChanged, Source: "run", Target: "run"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := compareDocs(t, newDetector(), decl.KindInterface, "Test", tt.baseline, tt.current)
			assert.Equal(t, tt.want, summarize(pairs))
		})
	}
}

func TestCompareInterfacesInheritedMembers(t *testing.T) {
	baseline := `
interfaces:
  - name: Base
    members:
      - {name: id, type: string}
  - name: Test
    extends: [Base]
`
	current := `
interfaces:
  - name: Test
    members:
      - {name: id, type: string}
`
	assert.Empty(t, compareDocs(t, newDetector(), decl.KindInterface, "Test", baseline, current))

	dropped := `
interfaces:
  - name: Base
  - name: Test
    extends: [Base]
`
	pairs := compareDocs(t, newDetector(), decl.KindInterface, "Test", baseline, dropped)
	assert.Equal(t, []diff{{Location: diffspec.LocationProperty, Reasons: diffspec.ReasonRemoved, Target: "id"}}, summarize(pairs))
}

func TestCompareInterfacesCustomMatcher(t *testing.T) {
	baseline := `
interfaces:
  - name: Routes
    callSignatures:
      - params: [{name: path, type: "'/vms'"}]
        returns: VmList
      - params: [{name: path, type: "'/vms/{name}'"}, {name: name, type: string}]
        returns: VmGet
      - params: [{name: path, type: "'/disks'"}]
        returns: DiskList
`
	current := `
interfaces:
  - name: Routes
    callSignatures:
      - params: [{name: path, type: "'/vms/{name}'"}, {name: name, type: number}]
        returns: VmGet
      - params: [{name: path, type: "'/vms'"}, {name: filter, type: string}]
        returns: VmList
      - params: [{name: path, type: "'/images'"}]
        returns: ImageList
`

	pairs := compareDocs(t, newDetector(), decl.KindInterface, "Routes", baseline, current, WithSignatureMatcher(FirstParameterMatcher{}))
	assert.Equal(t, []diff{
		{Location: diffspec.LocationSignatureParameterList, Reasons: diffspec.ReasonCountChanged, Source: "'/vms'", Target: "'/vms'"},
		{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "name", Target: "name"},
		{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonRemoved, Target: "(path: '/disks'): DiskList"},
		{Location: diffspec.LocationSignature, Reasons: diffspec.ReasonAdded, Source: "(path: '/images'): ImageList"},
	}, summarize(pairs))

	// The shape matcher pairs by arity, so the routes are compared out of
	// order and nothing is added or removed.
	pairs = compareDocs(t, newDetector(), decl.KindInterface, "Routes", baseline, current)
	assert.Equal(t, []diff{
		{Location: diffspec.LocationSignatureReturnType, Reasons: diffspec.ReasonTypeChanged, Source: "(path: '/images'): ImageList", Target: "(path: '/vms'): VmList"},
		{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "path", Target: "path"},
		{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "name", Target: "name"},
		{Location: diffspec.LocationSignatureReturnType, Reasons: diffspec.ReasonTypeChanged, Source: "(path: '/images'): ImageList", Target: "(path: '/disks'): DiskList"},
		{Location: diffspec.LocationParameter, Reasons: diffspec.ReasonTypeChanged, Source: "path", Target: "path"},
	}, summarize(pairs))
}
