package component

// PlayerTag marks the player root and every doodad absorbed into it.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// DoodadTag marks a free doodad that can still be absorbed.
type DoodadTag struct{}

var DoodadTagComponent = NewComponent[DoodadTag]()

type FloorTag struct{}

var FloorTagComponent = NewComponent[FloorTag]()
