package board

// A Track is a named, ordered path of cells, as used by race games. The
// same cell may appear more than once on a track (for example where a
// track loops back over itself).
type Track struct {
	Name string
	// Owner is the player the track belongs to, or 0 for a shared track.
	Owner int
	Sites []int
	// Loop tracks continue from the last site back to the first.
	Loop bool
}

// PositionsOf returns every index along the track at which site appears.
func (tr Track) PositionsOf(site int) []int {
	var out []int
	for i, s := range tr.Sites {
		if s == site {
			out = append(out, i)
		}
	}
	return out
}
