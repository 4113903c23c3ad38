package fab

import (
	"fmt"

	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
)

// MultiFab is a cell field distributed over a BoxArray. Each rank holds the
// FArrayBoxes of the boxes it owns, grown by ngrow ghost cells.
type MultiFab struct {
	ba    grids.BoxArray
	dm    grids.DistributionMap
	ncomp int
	ngrow int
	comm  *utils.Comm
	fabs  map[int]*FArrayBox
}

// NewMultiFab allocates the grown boxes owned by comm's rank. It panics when
// ba, dm and comm disagree or ngrow is negative.
func NewMultiFab(ba grids.BoxArray, dm grids.DistributionMap, ncomp, ngrow int, comm *utils.Comm) *MultiFab {
	checkLayout(ba, dm, comm)
	if ngrow < 0 {
		panic(fmt.Sprintf("negative ghost width %d", ngrow))
	}
	mf := &MultiFab{
		ba:    ba,
		dm:    dm,
		ncomp: ncomp,
		ngrow: ngrow,
		comm:  comm,
		fabs:  make(map[int]*FArrayBox),
	}
	for _, i := range dm.LocalIndices(comm.Rank()) {
		mf.fabs[i] = NewFArrayBox(ba.Get(i).Grow(ngrow), ncomp)
	}
	return mf
}

func checkLayout(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm) {
	if ba.Size() != dm.Size() {
		panic(fmt.Sprintf("BoxArray has %d boxes, DistributionMap %d", ba.Size(), dm.Size()))
	}
	if dm.NP() != comm.NP() {
		panic(fmt.Sprintf("DistributionMap is for %d ranks, communicator has %d", dm.NP(), comm.NP()))
	}
}

func (mf *MultiFab) BoxArray() grids.BoxArray { return mf.ba }

func (mf *MultiFab) DistributionMap() grids.DistributionMap { return mf.dm }

func (mf *MultiFab) NComp() int { return mf.ncomp }

func (mf *MultiFab) NGrow() int { return mf.ngrow }

func (mf *MultiFab) Comm() *utils.Comm { return mf.comm }

func (mf *MultiFab) LocalIndices() []int { return mf.dm.LocalIndices(mf.comm.Rank()) }

func (mf *MultiFab) Owns(i int) bool {
	_, ok := mf.fabs[i]
	return ok
}

// Fab returns the data of box i, which must be owned by this rank
func (mf *MultiFab) Fab(i int) *FArrayBox {
	f, ok := mf.fabs[i]
	if !ok {
		panic(fmt.Sprintf("box %d is owned by rank %d, not rank %d", i, mf.dm.Owner(i), mf.comm.Rank()))
	}
	return f
}

func (mf *MultiFab) SetVal(val float64) {
	for _, f := range mf.fabs {
		f.SetVal(val)
	}
}

// Fill evaluates fn at every point, ghost cells included, of every owned box
func (mf *MultiFab) Fill(fn func(iv geometry.IntVect, comp int) float64) {
	for _, f := range mf.fabs {
		for n := 0; n < mf.ncomp; n++ {
			row := f.Comp(n)
			f.Box().ForEach(func(iv geometry.IntVect) {
				row[f.Box().Offset(iv)] = fn(iv, n)
			})
		}
	}
}

func (mf *MultiFab) sameLayout(o *MultiFab) bool {
	return mf.ba.Equal(o.ba) && mf.dm.Equal(o.dm)
}
