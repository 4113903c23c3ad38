package fab

import (
	"fmt"

	"github.com/notargets/gobndry/geometry"
)

// Mask is a single channel of small integer codes over a box
type Mask struct {
	box  geometry.Box
	data []int
}

func NewMask(box geometry.Box, initVal int) *Mask {
	if !box.Ok() {
		panic(fmt.Sprintf("Mask on empty box %s", box))
	}
	m := &Mask{
		box:  box,
		data: make([]int, box.NumPts()),
	}
	m.SetVal(initVal)
	return m
}

func (m *Mask) Box() geometry.Box { return m.box }

// At panics for points outside the mask box
func (m *Mask) At(iv geometry.IntVect) int {
	if !m.box.Contains(iv) {
		panic(fmt.Sprintf("point %s outside of Mask %s", iv, m.box))
	}
	return m.data[m.box.Offset(iv)]
}

func (m *Mask) SetVal(val int) {
	for i := range m.data {
		m.data[i] = val
	}
}

// SetValRegion sets val on the part of region that overlaps the mask
func (m *Mask) SetValRegion(val int, region geometry.Box) {
	region.Intersect(m.box).ForEach(func(iv geometry.IntVect) {
		m.data[m.box.Offset(iv)] = val
	})
}

// Shift moves the mask in index space without touching its values
func (m *Mask) Shift(iv geometry.IntVect) {
	m.box = m.box.Shift(iv)
}

// Count returns how many points hold val
func (m *Mask) Count(val int) (n int) {
	for _, v := range m.data {
		if v == val {
			n++
		}
	}
	return
}

func (m *Mask) Clone() *Mask {
	return &Mask{
		box:  m.box,
		data: append([]int(nil), m.data...),
	}
}

func (m *Mask) Equal(o *Mask) bool {
	if m.box != o.box || len(m.data) != len(o.data) {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}
