// Package grids describes how a level of the mesh is cut into boxes and how
// the boxes are assigned to ranks. Box geometry is replicated on every rank,
// data is not.
package grids

import (
	"fmt"

	"github.com/notargets/gobndry/geometry"
)

// BoxArray is the ordered list of grid boxes of one refinement level. The
// index of a box is its position in the list.
type BoxArray struct {
	boxes []geometry.Box
}

func NewBoxArray(boxes ...geometry.Box) (ba BoxArray) {
	ba.boxes = make([]geometry.Box, len(boxes))
	copy(ba.boxes, boxes)
	return
}

func (ba BoxArray) Size() int { return len(ba.boxes) }

func (ba BoxArray) Empty() bool { return len(ba.boxes) == 0 }

func (ba BoxArray) Get(i int) geometry.Box { return ba.boxes[i] }

func (ba BoxArray) Boxes() []geometry.Box {
	return append([]geometry.Box(nil), ba.boxes...)
}

func (ba BoxArray) IxType() geometry.IndexType {
	if ba.Empty() {
		return geometry.CellType
	}
	return ba.boxes[0].Type
}

func (ba BoxArray) Equal(o BoxArray) bool {
	if len(ba.boxes) != len(o.boxes) {
		return false
	}
	for i := range ba.boxes {
		if ba.boxes[i] != o.boxes[i] {
			return false
		}
	}
	return true
}

func (ba BoxArray) NumPts() (n int) {
	for _, b := range ba.boxes {
		n += b.NumPts()
	}
	return
}

// MinimalBox is the smallest box containing every box of the array
func (ba BoxArray) MinimalBox() (mb geometry.Box) {
	if ba.Empty() {
		return geometry.NewBox(geometry.Uniform(0), geometry.Uniform(-1))
	}
	mb = ba.boxes[0]
	for _, b := range ba.boxes[1:] {
		for d := 0; d < geometry.SpaceDim; d++ {
			mb.Lo[d] = min(mb.Lo[d], b.Lo[d])
			mb.Hi[d] = max(mb.Hi[d], b.Hi[d])
		}
	}
	return
}

// IsDisjoint is true when no two boxes overlap
func (ba BoxArray) IsDisjoint() bool {
	for i := range ba.boxes {
		for j := i + 1; j < len(ba.boxes); j++ {
			if ba.boxes[i].Intersects(ba.boxes[j]) {
				return false
			}
		}
	}
	return true
}

// Transform returns a new array with fn applied to each box
func (ba BoxArray) Transform(fn func(i int, b geometry.Box) geometry.Box) (r BoxArray) {
	r.boxes = make([]geometry.Box, len(ba.boxes))
	for i, b := range ba.boxes {
		r.boxes[i] = fn(i, b)
	}
	return
}

// Isect is the overlap of a query box with one box of the array
type Isect struct {
	Index int
	Box   geometry.Box
}

// Intersections returns, in index order, the overlap of bx with every box of
// the array grown by ngrow. With firstOnly set it stops at the first hit.
func (ba BoxArray) Intersections(bx geometry.Box, firstOnly bool, ngrow int) (isects []Isect) {
	for i, b := range ba.boxes {
		is := b.Grow(ngrow).Intersect(bx)
		if !is.Ok() {
			continue
		}
		isects = append(isects, Isect{Index: i, Box: is})
		if firstOnly {
			return
		}
	}
	return
}

func (ba BoxArray) String() string {
	return fmt.Sprintf("BoxArray%v", ba.boxes)
}
