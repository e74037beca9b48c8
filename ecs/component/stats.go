package component

// Stats counts gameplay events for the HUD.
type Stats struct {
	Spawned  int
	Absorbed int
	// Parts is the number of entities making up the player, root included.
	Parts int
}
