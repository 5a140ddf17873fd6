package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/declguard/core/decl"
	"github.com/emenda-labs/declguard/core/diffspec"
)

func TestCheckRemovedDeclaration(t *testing.T) {
	iface := lookup(t, surface, decl.KindInterface, "Resource")

	pair, ok := CheckRemovedDeclaration(diffspec.LocationInterface, iface, nil, diffspec.DirectionCurrentToBaseline)
	require.True(t, ok)
	assert.Equal(t, diffspec.LocationInterface, pair.Location)
	assert.Equal(t, diffspec.ReasonRemoved, pair.Reasons)
	assert.Equal(t, diffspec.DirectionCurrentToBaseline, pair.Direction)
	assert.Nil(t, pair.Source)
	require.NotNil(t, pair.Target)
	assert.Equal(t, "Resource", pair.Target.Name)

	pair, ok = CheckRemovedDeclaration(diffspec.LocationInterface, iface, nil, diffspec.DirectionBaselineToCurrent)
	require.True(t, ok)
	require.NotNil(t, pair.Source)
	assert.Equal(t, "Resource", pair.Source.Name)
	assert.Nil(t, pair.Target)

	_, ok = CheckRemovedDeclaration(diffspec.LocationInterface, iface, iface, diffspec.DirectionCurrentToBaseline)
	assert.False(t, ok)
	_, ok = CheckRemovedDeclaration(diffspec.LocationInterface, nil, iface, diffspec.DirectionCurrentToBaseline)
	assert.False(t, ok)
}

func TestCheckAddedDeclaration(t *testing.T) {
	enum := lookup(t, surface, decl.KindEnum, "KnownPowerState")

	pair, ok := CheckAddedDeclaration(diffspec.LocationEnum, nil, enum, diffspec.DirectionCurrentToBaseline)
	require.True(t, ok)
	assert.Equal(t, diffspec.ReasonAdded, pair.Reasons)
	require.NotNil(t, pair.Source)
	assert.Equal(t, "KnownPowerState", pair.Source.Name)
	assert.Nil(t, pair.Target)
	assert.False(t, pair.IsBreaking())

	_, ok = CheckAddedDeclaration(diffspec.LocationEnum, enum, nil, diffspec.DirectionCurrentToBaseline)
	assert.False(t, ok)
	_, ok = CheckAddedDeclaration(diffspec.LocationEnum, nil, nil, diffspec.DirectionCurrentToBaseline)
	assert.False(t, ok)
}

func TestDeclarationLocation(t *testing.T) {
	assert.Equal(t, diffspec.LocationInterface, DeclarationLocation(decl.KindInterface))
	assert.Equal(t, diffspec.LocationClass, DeclarationLocation(decl.KindClass))
	assert.Equal(t, diffspec.LocationTypeAlias, DeclarationLocation(decl.KindTypeAlias))
	assert.Equal(t, diffspec.LocationEnum, DeclarationLocation(decl.KindEnum))
	assert.Equal(t, diffspec.LocationSignature, DeclarationLocation(decl.KindFunction))
}
