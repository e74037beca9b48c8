package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBitsAreDisjoint(t *testing.T) {
	bits := []Groups{GroupPlayer, GroupDoodad, GroupLevel}
	for i := range bits {
		for j := range bits {
			if i == j {
				continue
			}
			if bits[i]&bits[j] != 0 {
				t.Fatalf("groups %v and %v overlap", bits[i], bits[j])
			}
		}
	}
}

func TestSchemes(t *testing.T) {
	for _, name := range SchemeNames() {
		t.Run(name, func(t *testing.T) {
			s, err := SchemeByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)

			assert.True(t, s.Doodad.Interacts(s.Doodad), "doodads collide with doodads")
			assert.True(t, s.Doodad.Interacts(s.Level), "doodads collide with the level")
			assert.Equal(t, s.Doodad.Interacts(s.Level), s.Level.Interacts(s.Doodad))
			assert.True(t, s.Player.Interacts(s.Level), "player collides with the level")
			assert.False(t, s.Player.Interacts(s.Doodad), "player passes through free doodads")
			assert.False(t, s.Player.Filters.Has(GroupDoodad))

			assert.True(t, s.Interaction.Interacts(s.Doodad), "combine query must find doodads")
			assert.False(t, s.Interaction.Interacts(s.Level), "combine query must skip the level")
		})
	}
}

func TestSchemePresetValues(t *testing.T) {
	tests := []struct {
		name        string
		scheme      CollisionScheme
		interaction CollisionGroups
		friction    float64
	}{
		{
			name:        "interaction",
			scheme:      InteractionScheme(),
			interaction: CollisionGroups{Memberships: GroupPlayer | GroupDoodad, Filters: GroupDoodad},
			friction:    6.0,
		},
		{
			name:        "legacy",
			scheme:      LegacyScheme(),
			interaction: CollisionGroups{Memberships: GroupDoodad, Filters: GroupDoodad | GroupLevel},
			friction:    5.0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.interaction, tc.scheme.Interaction)
			assert.Equal(t, tc.friction, tc.scheme.PlayerFriction)
			assert.Equal(t, CollisionGroups{Memberships: GroupLevel, Filters: GroupAll}, tc.scheme.Level)
		})
	}
}

func TestSchemeByName(t *testing.T) {
	s, err := SchemeByName("")
	require.NoError(t, err)
	assert.Equal(t, SchemeInteraction, s.Name)

	s, err = SchemeByName(" Legacy ")
	require.NoError(t, err)
	assert.Equal(t, SchemeLegacy, s.Name)

	_, err = SchemeByName("bogus")
	assert.Error(t, err)
}

func TestGroupsString(t *testing.T) {
	assert.Equal(t, "ALL", GroupAll.String())
	assert.Equal(t, "NONE", GroupNone.String())
	assert.Equal(t, "PLAYER|DOODAD", (GroupPlayer | GroupDoodad).String())
}
