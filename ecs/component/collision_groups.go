package component

import (
	"fmt"
	"math"
	"strings"
)

// Groups is a set of collision category bits.
type Groups uint32

const (
	GroupPlayer Groups = 1 << iota
	GroupDoodad
	GroupLevel

	GroupNone Groups = 0
	GroupAll  Groups = math.MaxUint32
)

func (g Groups) Has(other Groups) bool {
	return g&other != 0
}

func (g Groups) String() string {
	if g == GroupAll {
		return "ALL"
	}
	var names []string
	for _, n := range []struct {
		g    Groups
		name string
	}{{GroupPlayer, "PLAYER"}, {GroupDoodad, "DOODAD"}, {GroupLevel, "LEVEL"}} {
		if g&n.g != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// CollisionGroups decides which shapes interact: a pair interacts when each
// side's memberships intersect the other side's filters.
type CollisionGroups struct {
	Memberships Groups `yaml:"memberships"`
	Filters     Groups `yaml:"filters"`
}

var CollisionGroupsComponent = NewComponent[CollisionGroups]()

// DefaultCollisionGroups interacts with everything.
func DefaultCollisionGroups() CollisionGroups {
	return CollisionGroups{Memberships: GroupAll, Filters: GroupAll}
}

// Interacts reports whether shapes in groups a and b collide or match a query.
func (a CollisionGroups) Interacts(b CollisionGroups) bool {
	return a.Memberships&b.Filters != 0 && b.Memberships&a.Filters != 0
}

// CollisionScheme maps each entity kind to its collision groups.
type CollisionScheme struct {
	Name   string
	Player CollisionGroups
	Doodad CollisionGroups
	Level  CollisionGroups
	// Interaction is used for the combine query. It must match doodads
	// under the symmetric test, so it carries DOODAD in its memberships.
	Interaction CollisionGroups
	// PlayerFriction is the friction coefficient of the player ball.
	PlayerFriction float64
}

const (
	SchemeInteraction = "interaction"
	SchemeLegacy      = "legacy"
)

// InteractionScheme keeps player and doodads from colliding and uses a
// dedicated query group for combining.
func InteractionScheme() CollisionScheme {
	return CollisionScheme{
		Name:           SchemeInteraction,
		Player:         CollisionGroups{Memberships: GroupPlayer, Filters: GroupLevel},
		Doodad:         CollisionGroups{Memberships: GroupDoodad, Filters: GroupDoodad | GroupLevel},
		Level:          CollisionGroups{Memberships: GroupLevel, Filters: GroupAll},
		Interaction:    CollisionGroups{Memberships: GroupPlayer | GroupDoodad, Filters: GroupDoodad},
		PlayerFriction: 6.0,
	}
}

// LegacyScheme queries with the doodad groups themselves.
func LegacyScheme() CollisionScheme {
	s := InteractionScheme()
	s.Name = SchemeLegacy
	s.Interaction = s.Doodad
	s.PlayerFriction = 5.0
	return s
}

// SchemeNames lists the names SchemeByName accepts.
func SchemeNames() []string {
	return []string{SchemeInteraction, SchemeLegacy}
}

// SchemeByName returns the preset called name. Empty selects the default.
func SchemeByName(name string) (CollisionScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemeInteraction:
		return InteractionScheme(), nil
	case SchemeLegacy:
		return LegacyScheme(), nil
	}
	return CollisionScheme{}, fmt.Errorf("unknown collision scheme %q (want one of %v)", name, SchemeNames())
}
