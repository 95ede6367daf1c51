package hidden

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/boardstate/zobrist"
)

func newInfo(players, sites, levels int) *Info {
	return New(players, sites, levels, zobrist.NewGenerator(5, 9))
}

func TestSetAndQuery(t *testing.T) {
	is := is.New(t)
	h := newInfo(2, 10, 1)
	is.True(!h.IsHidden(2, 3, 0, What))
	h.Set(2, 3, 0, What, true)
	is.True(h.IsHidden(2, 3, 0, What))
	is.True(!h.IsHidden(1, 3, 0, What))
	is.True(!h.IsHidden(2, 3, 0, Who))
	is.Equal(h.Hash(), h.CalcHash())
	h.Set(2, 3, 0, What, false)
	is.Equal(h.Hash(), uint64(0))
}

func TestFlagsRoundTrip(t *testing.T) {
	is := is.New(t)
	h := newInfo(3, 5, 4)
	h.Set(1, 2, 3, Site, true)
	h.Set(3, 2, 3, State, true)
	f := h.Flags(2, 3)
	is.True(!f.IsZero())
	is.Equal(f[Site], uint32(1<<1))
	is.Equal(f[State], uint32(1<<3))

	h.Clear(2, 3)
	is.True(h.Flags(2, 3).IsZero())
	is.Equal(h.Hash(), uint64(0))

	h.SetFlags(4, 0, f)
	is.True(h.IsHidden(1, 4, 0, Site))
	is.True(h.IsHidden(3, 4, 0, State))
	is.Equal(h.Hash(), h.CalcHash())
}

func TestPlayerRange(t *testing.T) {
	h := newInfo(2, 4, 1)
	for _, p := range []int{0, 3, -1} {
		func() {
			defer func() {
				err, _ := recover().(error)
				assert.True(t, errors.Is(err, ErrPlayerOutOfRange))
			}()
			h.IsHidden(p, 0, 0, What)
		}()
	}
}

func TestNilInfo(t *testing.T) {
	var h *Info
	assert.PanicsWithValue(t, ErrNoHiddenInfo, func() { h.IsHidden(1, 0, 0, What) })
	assert.PanicsWithValue(t, ErrNoHiddenInfo, func() { h.Set(1, 0, 0, What, true) })
	assert.PanicsWithValue(t, ErrNoHiddenInfo, func() { h.Flags(0, 0) })
	assert.Equal(t, uint64(0), h.Hash())
	assert.Nil(t, h.Clone())
}

func TestRemappedHash(t *testing.T) {
	is := is.New(t)
	h := newInfo(2, 3, 2)
	h.Set(1, 0, 1, What, true)
	is.Equal(h.RemappedHash(nil, nil), h.Hash())

	o := newInfo(2, 3, 2)
	o.Set(2, 2, 1, What, true)
	is.Equal(h.RemappedHash([]int{2, 1, 0}, []int{0, 2, 1}), o.Hash())
}

func TestCloneIndependent(t *testing.T) {
	is := is.New(t)
	h := newInfo(2, 3, 1)
	h.Set(1, 1, 0, Count, true)
	c := h.Clone()
	c.Set(1, 1, 0, Count, false)
	is.True(h.IsHidden(1, 1, 0, Count))
	is.Equal(c.Hash(), uint64(0))
	h.Reset()
	is.True(!h.IsHidden(1, 1, 0, Count))
	is.Equal(h.Hash(), uint64(0))
}

func TestKindNames(t *testing.T) {
	is := is.New(t)
	for k := Kind(0); k < NumKinds; k++ {
		p, err := ParseKind(k.String())
		is.NoErr(err)
		is.Equal(p, k)
	}
	_, err := ParseKind("colour")
	is.True(err != nil)
}
