package fab

import (
	"fmt"

	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
	"gonum.org/v1/gonum/floats"
)

// FabSet holds the boundary buffers on one face of every grid. The buffer of
// grid i covers grids[i].FaceBox(face, inRad, outRad, extentRad) and exists
// only on the rank that owns grid i.
type FabSet struct {
	face                     geometry.Orientation
	grids                    grids.BoxArray
	ba                       grids.BoxArray
	dm                       grids.DistributionMap
	comm                     *utils.Comm
	ncomp                    int
	inRad, outRad, extentRad int
	fabs                     map[int]*FArrayBox
}

// NewFabSet allocates the face buffers of the grids this rank owns. It
// panics when ba, dm and comm disagree, on an invalid face, and on negative
// radii or a layer with no depth.
func NewFabSet(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm, face geometry.Orientation,
	inRad, outRad, extentRad, ncomp int) *FabSet {
	checkLayout(ba, dm, comm)
	if !face.Valid() {
		panic(fmt.Sprintf("invalid face orientation %d", face))
	}
	if inRad < 0 || outRad < 0 || extentRad < 0 || inRad+outRad == 0 {
		panic(fmt.Sprintf("invalid boundary radii in=%d out=%d extent=%d", inRad, outRad, extentRad))
	}
	fs := &FabSet{
		face:      face,
		grids:     ba,
		dm:        dm,
		comm:      comm,
		ncomp:     ncomp,
		inRad:     inRad,
		outRad:    outRad,
		extentRad: extentRad,
		fabs:      make(map[int]*FArrayBox),
	}
	fs.ba = ba.Transform(func(_ int, b geometry.Box) geometry.Box {
		return b.FaceBox(face, inRad, outRad, extentRad)
	})
	for _, i := range dm.LocalIndices(comm.Rank()) {
		fs.fabs[i] = NewFArrayBox(fs.ba.Get(i), ncomp)
	}
	return fs
}

func (fs *FabSet) Face() geometry.Orientation { return fs.face }

// BoxArray is the array of face boxes
func (fs *FabSet) BoxArray() grids.BoxArray { return fs.ba }

// Grids is the array of grid boxes the faces belong to
func (fs *FabSet) Grids() grids.BoxArray { return fs.grids }

func (fs *FabSet) DistributionMap() grids.DistributionMap { return fs.dm }

func (fs *FabSet) Comm() *utils.Comm { return fs.comm }

func (fs *FabSet) NComp() int { return fs.ncomp }

func (fs *FabSet) Radii() (inRad, outRad, extentRad int) {
	return fs.inRad, fs.outRad, fs.extentRad
}

// LocalIndices lists the grids whose buffers this rank holds
func (fs *FabSet) LocalIndices() []int { return fs.dm.LocalIndices(fs.comm.Rank()) }

func (fs *FabSet) Owns(i int) bool {
	_, ok := fs.fabs[i]
	return ok
}

// Fab returns the buffer of grid i, which must be owned by this rank
func (fs *FabSet) Fab(i int) *FArrayBox {
	f, ok := fs.fabs[i]
	if !ok {
		panic(fmt.Sprintf("grid %d is owned by rank %d, not rank %d", i, fs.dm.Owner(i), fs.comm.Rank()))
	}
	return f
}

func (fs *FabSet) SetVal(val float64) {
	for _, f := range fs.fabs {
		f.SetVal(val)
	}
}

func (fs *FabSet) checkComps(scomp, dcomp, ncomp, srcNComp int) {
	if scomp < 0 || ncomp < 1 || scomp+ncomp > srcNComp {
		panic(fmt.Sprintf("source components [%d,%d) outside of [0,%d)", scomp, scomp+ncomp, srcNComp))
	}
	if dcomp < 0 || dcomp+ncomp > fs.ncomp {
		panic(fmt.Sprintf("destination components [%d,%d) outside of [0,%d)", dcomp, dcomp+ncomp, fs.ncomp))
	}
}

func (fs *FabSet) checkSource(mf *MultiFab, ngrow int) {
	if mf.comm != fs.comm {
		panic("source field lives on a different communicator")
	}
	if ngrow < 0 || ngrow > mf.ngrow {
		panic(fmt.Sprintf("requested %d ghost cells from a field with %d", ngrow, mf.ngrow))
	}
}

// CopyFrom fills the buffers where they overlap mf grown by ngrow, including
// periodic images. Collective: every rank must call it in the same order.
func (fs *FabSet) CopyFrom(mf *MultiFab, ngrow, scomp, dcomp, ncomp int, period geometry.Periodicity) {
	fs.fromField("FabSet.CopyFrom", mf, ngrow, scomp, dcomp, ncomp, period, OpCopy)
}

// PlusFrom is CopyFrom adding into the buffers. Collective.
func (fs *FabSet) PlusFrom(mf *MultiFab, ngrow, scomp, dcomp, ncomp int, period geometry.Periodicity) {
	fs.fromField("FabSet.PlusFrom", mf, ngrow, scomp, dcomp, ncomp, period, OpAdd)
}

func (fs *FabSet) fromField(tag string, mf *MultiFab, ngrow, scomp, dcomp, ncomp int,
	period geometry.Periodicity, op Op) {
	fs.checkComps(scomp, dcomp, ncomp, mf.ncomp)
	fs.checkSource(mf, ngrow)
	src := copySource{
		ba:    mf.ba,
		dm:    mf.dm,
		ngrow: ngrow,
		pack: func(i int, region geometry.Box) []float64 {
			return mf.fabs[i].Pack(region, scomp, ncomp)
		},
	}
	parallelCopy(fs.comm, tag, fs.ba, fs.dm, fs.fabs, src, period.ShiftIntVects(), dcomp, op)
}

// LinComb sets the buffers to a*mfa + b*mfb where they overlap the fields
// grown by ngrow. The two fields must share their layout. Collective.
func (fs *FabSet) LinComb(a float64, mfa *MultiFab, acomp int, b float64, mfb *MultiFab, bcomp int,
	dcomp, ncomp, ngrow int) {
	fs.checkComps(acomp, dcomp, ncomp, mfa.ncomp)
	fs.checkComps(bcomp, dcomp, ncomp, mfb.ncomp)
	fs.checkSource(mfa, ngrow)
	fs.checkSource(mfb, ngrow)
	if !mfa.sameLayout(mfb) {
		panic("LinComb fields do not share a BoxArray and DistributionMap")
	}
	src := copySource{
		ba:    mfa.ba,
		dm:    mfa.dm,
		ngrow: ngrow,
		pack: func(i int, region geometry.Box) (vals []float64) {
			vals = mfa.fabs[i].Pack(region, acomp, ncomp)
			floats.Scale(a, vals)
			floats.AddScaled(vals, b, mfb.fabs[i].Pack(region, bcomp, ncomp))
			return
		},
	}
	parallelCopy(fs.comm, "FabSet.LinComb", fs.ba, fs.dm, fs.fabs, src, geometry.NonPeriodic().ShiftIntVects(), dcomp, OpCopy)
}

// SameShape is true when both sets have identical face boxes and components
func (fs *FabSet) SameShape(o *FabSet) bool {
	return fs.face == o.face && fs.ncomp == o.ncomp && fs.ba.Equal(o.ba)
}

func (fs *FabSet) checkShape(o *FabSet) {
	if !fs.SameShape(o) {
		panic(fmt.Sprintf("FabSet mismatch on face %s: %d boxes x %d comps vs face %s: %d boxes x %d comps",
			fs.face, fs.ba.Size(), fs.ncomp, o.face, o.ba.Size(), o.ncomp))
	}
	if fs.comm != o.comm {
		panic("FabSets live on different communicators")
	}
}

// Plus adds rhs into fs. Collective when the two sets distribute their boxes
// differently.
func (fs *FabSet) Plus(rhs *FabSet) {
	fs.Saxpy(1, rhs)
}

// Saxpy is fs += a*rhs. Collective when the two sets distribute their boxes
// differently.
func (fs *FabSet) Saxpy(a float64, rhs *FabSet) {
	fs.checkShape(rhs)
	if fs.dm.Equal(rhs.dm) {
		for i, f := range fs.fabs {
			f.Saxpy(a, rhs.fabs[i])
		}
		return
	}
	redistribute(fs.comm, "FabSet.Saxpy", fs.dm, fs.fabs, rhs.dm, rhs.fabs, a)
}

// Copy overwrites fs with the local buffers of src, the sets must share
// shape and distribution
func (fs *FabSet) Copy(src *FabSet) {
	fs.checkShape(src)
	if !fs.dm.Equal(src.dm) {
		panic("local FabSet copy between different distributions")
	}
	for i, f := range fs.fabs {
		f.CopyFrom(src.fabs[i])
	}
}

func (fs *FabSet) Clone() *FabSet {
	c := *fs
	c.fabs = make(map[int]*FArrayBox, len(fs.fabs))
	for i, f := range fs.fabs {
		c.fabs[i] = f.Clone()
	}
	return &c
}

// Equal compares the local buffers exactly
func (fs *FabSet) Equal(o *FabSet) bool {
	if !fs.SameShape(o) || len(fs.fabs) != len(o.fabs) {
		return false
	}
	for i, f := range fs.fabs {
		of, ok := o.fabs[i]
		if !ok || !f.Equal(of) {
			return false
		}
	}
	return true
}

// Replace installs new local buffers, which must match the existing ones in
// number and shape
func (fs *FabSet) Replace(fabs map[int]*FArrayBox) {
	if len(fabs) != len(fs.fabs) {
		panic(fmt.Sprintf("replacing %d buffers with %d", len(fs.fabs), len(fabs)))
	}
	for i, f := range fs.fabs {
		nf, ok := fabs[i]
		if !ok {
			panic(fmt.Sprintf("replacement is missing grid %d", i))
		}
		f.checkShape(nf)
	}
	fs.fabs = fabs
}
