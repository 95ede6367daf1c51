// Package region implements the empty-site region of a container: the set
// of currently unoccupied site indices for one element kind.
package region

// A Region is a sparse set over [0, n): O(1) add, remove and membership, and
// iteration proportional to the number of members rather than n.
type Region struct {
	// pos[s] is the index of s in sites, or -1
	pos   []int32
	sites []int32
}

// New creates a region over n sites. If full, every site starts as a member.
func New(n int, full bool) *Region {
	r := &Region{
		pos:   make([]int32, n),
		sites: make([]int32, 0, n),
	}
	r.Reset(full)
	return r
}

// Reset empties the region, or fills it when full is true.
func (r *Region) Reset(full bool) {
	r.sites = r.sites[:0]
	for i := range r.pos {
		if full {
			r.pos[i] = int32(i)
			r.sites = append(r.sites, int32(i))
		} else {
			r.pos[i] = -1
		}
	}
}

// Size is the size of the universe the region draws from.
func (r *Region) Size() int { return len(r.pos) }

// Add inserts site. Adding a member is a no-op.
func (r *Region) Add(site int) {
	if r.pos[site] >= 0 {
		return
	}
	r.pos[site] = int32(len(r.sites))
	r.sites = append(r.sites, int32(site))
}

// Remove deletes site. Removing a non-member is a no-op.
func (r *Region) Remove(site int) {
	p := r.pos[site]
	if p < 0 {
		return
	}
	last := r.sites[len(r.sites)-1]
	r.sites[p] = last
	r.pos[last] = p
	r.sites = r.sites[:len(r.sites)-1]
	r.pos[site] = -1
}

// Contains reports membership.
func (r *Region) Contains(site int) bool {
	return site >= 0 && site < len(r.pos) && r.pos[site] >= 0
}

// Count is the number of members.
func (r *Region) Count() int { return len(r.sites) }

// Sites returns the members in no particular order, as a fresh slice.
func (r *Region) Sites() []int {
	out := make([]int, len(r.sites))
	for i, s := range r.sites {
		out[i] = int(s)
	}
	return out
}

// Each calls f for every member until f returns false. The region must not
// be modified during iteration.
func (r *Region) Each(f func(site int) bool) {
	for _, s := range r.sites {
		if !f(int(s)) {
			return
		}
	}
}

// Clone returns an independent copy.
func (r *Region) Clone() *Region {
	c := &Region{
		pos:   make([]int32, len(r.pos)),
		sites: make([]int32, len(r.sites), cap(r.sites)),
	}
	copy(c.pos, r.pos)
	copy(c.sites, r.sites)
	return c
}

// Equals reports whether both regions have the same members.
func (r *Region) Equals(o *Region) bool {
	if len(r.pos) != len(o.pos) || len(r.sites) != len(o.sites) {
		return false
	}
	for _, s := range r.sites {
		if o.pos[s] < 0 {
			return false
		}
	}
	return true
}
