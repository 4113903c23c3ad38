package bndry

import (
	"fmt"

	"github.com/notargets/gobndry/fab"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
)

// Options sizes the face buffers and masks of a Data object
type Options struct {
	InRad, OutRad, ExtentRad int
}

// DefaultOptions is one cell outside each face with one cell of lateral
// extent, the footprint a linear solver reads its boundary values from
func DefaultOptions() Options {
	return Options{InRad: 0, OutRad: 1, ExtentRad: 1}
}

// BCRecord is one boundary condition per component on every face of a grid
type BCRecord = geometry.FaceArray[[]utils.BCType]

// Data is a Register plus, for every owned grid, the boundary condition of
// each component on each face, the location of each face boundary, and the
// masks that classify the cells under the face buffers.
type Data struct {
	reg     *Register
	opt     Options
	ncomp   int
	geom    geometry.Geometry
	masks   geometry.FaceArray[*fab.MultiMask]
	bcond   map[int]*BCRecord
	bcloc   map[int]*geometry.RealTuple
	defined bool
}

// NewData returns boundary data defined on the partition (ba, dm) as seen
// from comm. It panics on an empty BoxArray or ncomp < 1.
func NewData(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm, ncomp int,
	geom geometry.Geometry, opt Options) (d *Data) {
	d = &Data{}
	d.Define(ba, dm, comm, ncomp, geom, opt)
	return
}

// Define allocates the face buffers, builds the masks and resets every
// boundary condition to BCNone and every location to zero. Defining again on
// the same partition, communicator, components, geometry and options does
// nothing. Any other layout panics until the Data is cleared.
func (d *Data) Define(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm, ncomp int,
	geom geometry.Geometry, opt Options) {
	if d.defined {
		if ba.Equal(d.reg.Boxes()) && dm.Equal(d.reg.DistributionMap()) && comm == d.reg.Comm() &&
			ncomp == d.ncomp && geom == d.geom && opt == d.opt {
			return
		}
		panic("Data is already defined on a different layout, Clear it before defining again")
	}
	reg := NewRegister(ba, dm, comm, opt.InRad, opt.OutRad, opt.ExtentRad, ncomp)
	d.reg = reg
	d.opt = opt
	d.ncomp = ncomp
	d.geom = geom
	d.masks = buildMasks(ba, dm, comm, geom, opt)
	d.bcond = make(map[int]*BCRecord)
	d.bcloc = make(map[int]*geometry.RealTuple)
	for _, i := range dm.LocalIndices(comm.Rank()) {
		rec := &BCRecord{}
		for f := range rec {
			rec[f] = make([]utils.BCType, ncomp)
		}
		d.bcond[i] = rec
		d.bcloc[i] = &geometry.RealTuple{}
	}
	d.defined = true
}

// Clear releases buffers, masks and records
func (d *Data) Clear() {
	*d = Data{}
}

func (d *Data) IsDefined() bool { return d.defined }

func (d *Data) mustBeDefined() {
	if !d.defined {
		panic("Data used before Define")
	}
}

func (d *Data) checkOwned(n int) {
	d.mustBeDefined()
	if _, ok := d.bcloc[n]; !ok {
		owner := -1
		if n >= 0 && n < d.reg.Size() {
			owner = d.reg.DistributionMap().Owner(n)
		}
		panic(fmt.Sprintf("grid %d is not owned by rank %d (owner %d)", n, d.reg.Comm().Rank(), owner))
	}
}

// Register is the face buffer storage of the boundary data
func (d *Data) Register() *Register {
	d.mustBeDefined()
	return d.reg
}

func (d *Data) Options() Options { return d.opt }

func (d *Data) NComp() int { return d.ncomp }

func (d *Data) Domain() geometry.Box { return d.geom.Domain }

func (d *Data) Geom() geometry.Geometry { return d.geom }

func (d *Data) BndryMasks(face geometry.Orientation) *fab.MultiMask {
	d.mustBeDefined()
	return *d.masks.At(face)
}

func (d *Data) BndryValues(face geometry.Orientation) *fab.FabSet {
	return d.Register().Face(face)
}

// SetValue fills the face buffer of owned grid n
func (d *Data) SetValue(face geometry.Orientation, n int, val float64) {
	d.checkOwned(n)
	d.reg.Face(face).Fab(n).SetVal(val)
}

func (d *Data) SetBoundCond(face geometry.Orientation, n, comp int, bc utils.BCType) {
	d.checkOwned(n)
	if comp < 0 || comp >= d.ncomp {
		panic(fmt.Sprintf("component %d outside of [0,%d)", comp, d.ncomp))
	}
	(*d.bcond[n].At(face))[comp] = bc
}

func (d *Data) SetBoundLoc(face geometry.Orientation, n int, val float64) {
	d.checkOwned(n)
	*d.bcloc[n].At(face) = val
}

// BndryConds returns a copy of the boundary conditions of owned grid n
func (d *Data) BndryConds(n int) (rec BCRecord) {
	d.checkOwned(n)
	for f, bcs := range d.bcond[n] {
		rec[f] = append([]utils.BCType(nil), bcs...)
	}
	return
}

// BndryLocs returns the boundary locations of owned grid n
func (d *Data) BndryLocs(n int) geometry.RealTuple {
	d.checkOwned(n)
	return *d.bcloc[n]
}

// MaskCounts tallies the local mask codes of every face
func (d *Data) MaskCounts() (counts geometry.FaceArray[[NumMaskVals]int]) {
	d.mustBeDefined()
	for _, face := range geometry.Orientations() {
		mm := d.BndryMasks(face)
		for val := 0; val < NumMaskVals; val++ {
			counts.At(face)[val] = mm.Count(val)
		}
	}
	return
}

// Clone deep copies buffers, masks and records
func (d *Data) Clone() *Data {
	c := *d
	if !d.defined {
		return &c
	}
	c.reg = d.reg.Clone()
	c.bcond = make(map[int]*BCRecord, len(d.bcond))
	c.bcloc = make(map[int]*geometry.RealTuple, len(d.bcloc))
	for i := range d.bcond {
		rec := d.BndryConds(i)
		loc := *d.bcloc[i]
		c.bcond[i], c.bcloc[i] = &rec, &loc
	}
	for f, mm := range d.masks {
		c.masks[f] = mm.Clone()
	}
	return &c
}

// Move hands everything to a new Data and leaves d cleared
func (d *Data) Move() *Data {
	m := *d
	d.Clear()
	return &m
}
