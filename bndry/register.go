// Package bndry holds per-face boundary state for a distributed set of
// grids: value registers on every face of every grid, the masks that
// classify boundary cells, and the boundary condition bookkeeping of a
// solver.
package bndry

import (
	"fmt"

	"github.com/notargets/gobndry/fab"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
)

// Register is a FabSet on each face of every grid of a BoxArray. A register
// is either fully defined, with all faces allocated, or undefined.
type Register struct {
	ba                       grids.BoxArray
	dm                       grids.DistributionMap
	comm                     *utils.Comm
	inRad, outRad, extentRad int
	ncomp                    int
	faces                    geometry.FaceArray[*fab.FabSet]
	defined                  bool
}

// NewRegister returns a register defined on (ba, dm) as seen from comm. It
// panics on an empty BoxArray, on ncomp < 1 and on invalid radii.
func NewRegister(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm,
	inRad, outRad, extentRad, ncomp int) (r *Register) {
	r = &Register{}
	r.Define(ba, dm, comm, inRad, outRad, extentRad, ncomp)
	return
}

// Define allocates the buffers of every face for the grids owned by this
// rank. The register must not already be defined.
func (r *Register) Define(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm,
	inRad, outRad, extentRad, ncomp int) {
	if r.defined {
		panic("Register is already defined, Clear it before defining again")
	}
	if ba.Empty() {
		panic("Register defined on an empty BoxArray")
	}
	if !r.ba.Empty() && !r.ba.Equal(ba) {
		panic(fmt.Sprintf("Register boxes were set to %d grids, Define passed a different array of %d",
			r.ba.Size(), ba.Size()))
	}
	if ncomp < 1 {
		panic(fmt.Sprintf("Register needs at least one component, have %d", ncomp))
	}
	var faces geometry.FaceArray[*fab.FabSet]
	for _, face := range geometry.Orientations() {
		*faces.At(face) = fab.NewFabSet(ba, dm, comm, face, inRad, outRad, extentRad, ncomp)
	}
	r.ba, r.dm, r.comm = ba, dm, comm
	r.inRad, r.outRad, r.extentRad, r.ncomp = inRad, outRad, extentRad, ncomp
	r.faces = faces
	r.defined = true
}

// Clear releases every buffer and returns the register to its zero state
func (r *Register) Clear() {
	*r = Register{}
}

// IsDefined is false for the zero value and after Clear or Move
func (r *Register) IsDefined() bool { return r.defined }

func (r *Register) mustBeDefined() {
	if !r.defined {
		panic("Register used before Define")
	}
}

// SetBoxes records the grids of an undefined register ahead of Define
func (r *Register) SetBoxes(ba grids.BoxArray) {
	if !r.ba.Empty() {
		panic(fmt.Sprintf("Register already has %d boxes", r.ba.Size()))
	}
	r.ba = ba
}

// Boxes is the array of grids, not of face boxes. It is set once SetBoxes or
// Define has run.
func (r *Register) Boxes() grids.BoxArray { return r.ba }

// Size is the number of grids over all ranks
func (r *Register) Size() int { return r.ba.Size() }

func (r *Register) DistributionMap() grids.DistributionMap { return r.dm }

func (r *Register) Comm() *utils.Comm { return r.comm }

func (r *Register) NComp() int { return r.ncomp }

func (r *Register) Radii() (inRad, outRad, extentRad int) {
	return r.inRad, r.outRad, r.extentRad
}

// Face returns the buffers of one face, for reading or writing
func (r *Register) Face(face geometry.Orientation) *fab.FabSet {
	r.mustBeDefined()
	return *r.faces.At(face)
}

// SetVal fills every owned buffer on every face. Local.
func (r *Register) SetVal(val float64) {
	r.mustBeDefined()
	for _, fs := range r.faces {
		fs.SetVal(val)
	}
}

// CopyFrom fills every face from mf grown by nghost, periodic images
// included. Collective: all ranks call it in the same order.
func (r *Register) CopyFrom(mf *fab.MultiFab, nghost, srcComp, destComp, numComp int, period geometry.Periodicity) {
	r.mustBeDefined()
	for _, fs := range r.faces {
		fs.CopyFrom(mf, nghost, srcComp, destComp, numComp, period)
	}
}

// PlusFrom is CopyFrom adding into the buffers. Collective.
func (r *Register) PlusFrom(mf *fab.MultiFab, nghost, srcComp, destComp, numComp int, period geometry.Periodicity) {
	r.mustBeDefined()
	for _, fs := range r.faces {
		fs.PlusFrom(mf, nghost, srcComp, destComp, numComp, period)
	}
}

// LinComb sets every face to a*mfa + b*mfb. Collective.
func (r *Register) LinComb(a float64, mfa *fab.MultiFab, aComp int, b float64, mfb *fab.MultiFab, bComp int,
	destComp, numComp, nghost int) {
	r.mustBeDefined()
	for _, fs := range r.faces {
		fs.LinComb(a, mfa, aComp, b, mfb, bComp, destComp, numComp, nghost)
	}
}

func (r *Register) checkCompatible(o *Register) {
	r.mustBeDefined()
	o.mustBeDefined()
	switch {
	case !r.ba.Equal(o.ba):
		panic(fmt.Sprintf("Register BoxArrays differ: %d vs %d grids", r.ba.Size(), o.ba.Size()))
	case r.ncomp != o.ncomp:
		panic(fmt.Sprintf("Register components differ: %d vs %d", r.ncomp, o.ncomp))
	case r.inRad != o.inRad || r.outRad != o.outRad || r.extentRad != o.extentRad:
		panic(fmt.Sprintf("Register radii differ: (%d,%d,%d) vs (%d,%d,%d)",
			r.inRad, r.outRad, r.extentRad, o.inRad, o.outRad, o.extentRad))
	}
}

// Plus adds rhs face by face. Collective when rhs distributes its grids
// differently.
func (r *Register) Plus(rhs *Register) {
	r.Saxpy(1, rhs)
}

// Saxpy is r += a*rhs face by face. Collective when rhs distributes its
// grids differently.
func (r *Register) Saxpy(a float64, rhs *Register) {
	r.checkCompatible(rhs)
	for _, face := range geometry.Orientations() {
		r.Face(face).Saxpy(a, rhs.Face(face))
	}
}

// Copy overwrites the buffers of dst with those of src. Both registers must
// share their layout, no data crosses ranks.
func Copy(dst, src *Register) {
	dst.checkCompatible(src)
	for _, face := range geometry.Orientations() {
		dst.Face(face).Copy(src.Face(face))
	}
}

// Clone deep copies the register, no buffer is shared with r
func (r *Register) Clone() *Register {
	c := *r
	if r.defined {
		for i, fs := range r.faces {
			c.faces[i] = fs.Clone()
		}
	}
	return &c
}

// Move hands the buffers of r to a new register and leaves r cleared
func (r *Register) Move() *Register {
	m := *r
	r.Clear()
	return &m
}

// Equal compares the local buffers of both registers exactly
func (r *Register) Equal(o *Register) bool {
	if r.defined != o.defined {
		return false
	}
	if !r.defined {
		return true
	}
	if !r.ba.Equal(o.ba) || r.ncomp != o.ncomp {
		return false
	}
	for i, fs := range r.faces {
		if !fs.Equal(o.faces[i]) {
			return false
		}
	}
	return true
}
