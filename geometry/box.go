package geometry

import (
	"fmt"
)

// Box is an axis aligned rectangle of index space, inclusive of both Lo and
// Hi. Boxes are values: every method returns a new Box.
type Box struct {
	Lo, Hi IntVect
	Type   IndexType
}

func NewBox(lo, hi IntVect) Box {
	return Box{Lo: lo, Hi: hi, Type: CellType}
}

func NewBoxType(lo, hi IntVect, t IndexType) Box {
	return Box{Lo: lo, Hi: hi, Type: t}
}

// Ok is false for an empty box
func (b Box) Ok() bool {
	for d := 0; d < SpaceDim; d++ {
		if b.Hi[d] < b.Lo[d] {
			return false
		}
	}
	return true
}

func (b Box) Length(dir int) int {
	return b.Hi[dir] - b.Lo[dir] + 1
}

func (b Box) Size() (sz IntVect) {
	for d := range sz {
		sz[d] = b.Length(d)
	}
	return
}

func (b Box) NumPts() (n int) {
	if !b.Ok() {
		return 0
	}
	n = 1
	for d := 0; d < SpaceDim; d++ {
		n *= b.Length(d)
	}
	return
}

func (b Box) Contains(iv IntVect) bool {
	for d := 0; d < SpaceDim; d++ {
		if iv[d] < b.Lo[d] || iv[d] > b.Hi[d] {
			return false
		}
	}
	return true
}

func (b Box) ContainsBox(o Box) bool {
	if !o.Ok() {
		return true
	}
	return b.Contains(o.Lo) && b.Contains(o.Hi)
}

// Intersect returns the common region of two boxes of the same centering.
// The result may be empty, check with Ok.
func (b Box) Intersect(o Box) (r Box) {
	if b.Type != o.Type {
		panic(fmt.Sprintf("intersecting boxes of different index types %s and %s", b, o))
	}
	r.Type = b.Type
	for d := 0; d < SpaceDim; d++ {
		r.Lo[d] = max(b.Lo[d], o.Lo[d])
		r.Hi[d] = min(b.Hi[d], o.Hi[d])
	}
	return
}

func (b Box) Intersects(o Box) bool {
	return b.Intersect(o).Ok()
}

func (b Box) Grow(n int) Box {
	return b.GrowVect(Uniform(n))
}

func (b Box) GrowVect(iv IntVect) Box {
	b.Lo = b.Lo.Sub(iv)
	b.Hi = b.Hi.Add(iv)
	return b
}

func (b Box) GrowDir(dir, n int) Box {
	b.Lo[dir] -= n
	b.Hi[dir] += n
	return b
}

func (b Box) GrowLo(dir, n int) Box {
	b.Lo[dir] -= n
	return b
}

func (b Box) GrowHi(dir, n int) Box {
	b.Hi[dir] += n
	return b
}

func (b Box) Shift(iv IntVect) Box {
	b.Lo = b.Lo.Add(iv)
	b.Hi = b.Hi.Add(iv)
	return b
}

func (b Box) ShiftDir(dir, n int) Box {
	b.Lo[dir] += n
	b.Hi[dir] += n
	return b
}

// Offset is the linear position of iv within the box, first axis fastest
func (b Box) Offset(iv IntVect) (off int) {
	var (
		stride = 1
	)
	for d := 0; d < SpaceDim; d++ {
		off += (iv[d] - b.Lo[d]) * stride
		stride *= b.Length(d)
	}
	return
}

// ForEach visits every point of the box in Offset order
func (b Box) ForEach(fn func(iv IntVect)) {
	if !b.Ok() {
		return
	}
	var (
		iv = b.Lo
	)
	for {
		fn(iv)
		d := 0
		for ; d < SpaceDim; d++ {
			iv[d]++
			if iv[d] <= b.Hi[d] {
				break
			}
			iv[d] = b.Lo[d]
		}
		if d == SpaceDim {
			return
		}
	}
}

// AdjCell is the layer of cells of thickness n just outside the box on face
func (b Box) AdjCell(face Orientation, n int) Box {
	var (
		d = face.Dir()
	)
	if face.IsLow() {
		b.Hi[d] = b.Lo[d] - 1
		b.Lo[d] = b.Hi[d] - n + 1
	} else {
		b.Lo[d] = b.Hi[d] + 1
		b.Hi[d] = b.Lo[d] + n - 1
	}
	return b
}

// FaceBox is the footprint of a boundary buffer on one face of a cell
// centered box: inRad cells inside the face, outRad cells outside it and
// extentRad cells beyond the box along every transverse axis.
func (b Box) FaceBox(face Orientation, inRad, outRad, extentRad int) (fb Box) {
	if b.Type != CellType {
		panic(fmt.Sprintf("face boxes are only defined for cell centered boxes, have %s", b))
	}
	var (
		d = face.Dir()
	)
	fb = b.Grow(extentRad)
	if face.IsLow() {
		fb.Lo[d] = b.Lo[d] - outRad
		fb.Hi[d] = b.Lo[d] + inRad - 1
	} else {
		fb.Lo[d] = b.Hi[d] + 1 - inRad
		fb.Hi[d] = b.Hi[d] + outRad
	}
	return
}

func (b Box) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Lo, b.Hi, b.Type)
}
