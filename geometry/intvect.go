// Package geometry holds the integer index-space primitives shared by the
// boundary layer: points, boxes, face orientations and the problem domain.
package geometry

import (
	"fmt"
	"strings"
)

// SpaceDim is the number of spatial dimensions. Lower dimensional problems
// use a single cell along the trailing axes.
const SpaceDim = 3

// IntVect is a point in index space
type IntVect [SpaceDim]int

func NewIntVect(vals ...int) (iv IntVect) {
	if len(vals) > SpaceDim {
		panic(fmt.Sprintf("too many coordinates for IntVect: %d > %d", len(vals), SpaceDim))
	}
	copy(iv[:], vals)
	return
}

// Unit returns the unit vector along dir
func Unit(dir int) (iv IntVect) {
	iv[dir] = 1
	return
}

// Uniform returns a vector with every coordinate set to n
func Uniform(n int) (iv IntVect) {
	for d := range iv {
		iv[d] = n
	}
	return
}

func (iv IntVect) Add(jv IntVect) (r IntVect) {
	for d := range r {
		r[d] = iv[d] + jv[d]
	}
	return
}

func (iv IntVect) Sub(jv IntVect) (r IntVect) {
	for d := range r {
		r[d] = iv[d] - jv[d]
	}
	return
}

func (iv IntVect) Scale(s int) (r IntVect) {
	for d := range r {
		r[d] = iv[d] * s
	}
	return
}

func (iv IntVect) IsZero() bool {
	return iv == IntVect{}
}

func (iv IntVect) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for d, v := range iv {
		if d > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteByte(')')
	return sb.String()
}

// IndexType records the centering of a box, one bit per axis. A set bit is
// node centered along that axis, a clear bit is cell centered.
type IndexType uint8

const CellType IndexType = 0

func NodeType() (t IndexType) {
	for d := 0; d < SpaceDim; d++ {
		t = t.SetNode(d)
	}
	return
}

func (t IndexType) NodeCentered(dir int) bool { return t&(1<<uint(dir)) != 0 }

func (t IndexType) CellCentered(dir int) bool { return !t.NodeCentered(dir) }

func (t IndexType) SetNode(dir int) IndexType { return t | 1<<uint(dir) }

func (t IndexType) SetCell(dir int) IndexType { return t &^ (1 << uint(dir)) }

func (t IndexType) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for d := 0; d < SpaceDim; d++ {
		if d > 0 {
			sb.WriteByte(',')
		}
		if t.NodeCentered(d) {
			sb.WriteByte('N')
		} else {
			sb.WriteByte('C')
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
