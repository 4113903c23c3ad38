// Package fab holds dense per-box data: real valued FArrayBoxes, integer
// masks, and their distributed collections over a BoxArray.
package fab

import (
	"fmt"

	"github.com/notargets/gobndry/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Op selects how incoming values combine with the existing ones
type Op uint8

const (
	OpCopy Op = iota
	OpAdd
)

// FArrayBox is ncomp real channels over every point of a box. Storage is a
// dense ncomp x npts matrix, so each component is contiguous.
type FArrayBox struct {
	box   geometry.Box
	ncomp int
	data  *mat.Dense
}

// NewFArrayBox is zero filled. It panics on an empty box or ncomp < 1.
func NewFArrayBox(box geometry.Box, ncomp int) *FArrayBox {
	if !box.Ok() {
		panic(fmt.Sprintf("FArrayBox on empty box %s", box))
	}
	if ncomp < 1 {
		panic(fmt.Sprintf("FArrayBox needs at least one component, have %d", ncomp))
	}
	return &FArrayBox{
		box:   box,
		ncomp: ncomp,
		data:  mat.NewDense(ncomp, box.NumPts(), nil),
	}
}

func (f *FArrayBox) Box() geometry.Box { return f.box }

func (f *FArrayBox) NComp() int { return f.ncomp }

func (f *FArrayBox) NumPts() int { return f.box.NumPts() }

// Data exposes the underlying ncomp x npts matrix
func (f *FArrayBox) Data() *mat.Dense { return f.data }

// Comp is the raw storage of component n in box offset order
func (f *FArrayBox) Comp(n int) []float64 {
	f.checkComps(n, 1)
	return f.data.RawRowView(n)
}

func (f *FArrayBox) At(iv geometry.IntVect, n int) float64 {
	return f.data.At(n, f.offset(iv))
}

func (f *FArrayBox) Set(iv geometry.IntVect, n int, val float64) {
	f.data.Set(n, f.offset(iv), val)
}

func (f *FArrayBox) offset(iv geometry.IntVect) int {
	if !f.box.Contains(iv) {
		panic(fmt.Sprintf("point %s outside of FArrayBox %s", iv, f.box))
	}
	return f.box.Offset(iv)
}

func (f *FArrayBox) checkComps(comp, ncomp int) {
	if comp < 0 || ncomp < 0 || comp+ncomp > f.ncomp {
		panic(fmt.Sprintf("components [%d,%d) outside of [0,%d)", comp, comp+ncomp, f.ncomp))
	}
}

func (f *FArrayBox) checkRegion(region geometry.Box) {
	if !f.box.ContainsBox(region) {
		panic(fmt.Sprintf("region %s outside of FArrayBox %s", region, f.box))
	}
}

func (f *FArrayBox) SetVal(val float64) {
	raw := f.data.RawMatrix().Data
	for i := range raw {
		raw[i] = val
	}
}

// SetValRegion sets components [comp, comp+ncomp) to val inside region
func (f *FArrayBox) SetValRegion(val float64, region geometry.Box, comp, ncomp int) {
	f.checkComps(comp, ncomp)
	region = region.Intersect(f.box)
	for n := comp; n < comp+ncomp; n++ {
		row := f.data.RawRowView(n)
		region.ForEach(func(iv geometry.IntVect) {
			row[f.box.Offset(iv)] = val
		})
	}
}

// Pack gathers components [comp, comp+ncomp) over region, component-major
func (f *FArrayBox) Pack(region geometry.Box, comp, ncomp int) (vals []float64) {
	f.checkComps(comp, ncomp)
	f.checkRegion(region)
	vals = make([]float64, 0, ncomp*region.NumPts())
	for n := comp; n < comp+ncomp; n++ {
		row := f.data.RawRowView(n)
		region.ForEach(func(iv geometry.IntVect) {
			vals = append(vals, row[f.box.Offset(iv)])
		})
	}
	return
}

// Unpack scatters values laid out as by Pack into components starting at comp
func (f *FArrayBox) Unpack(region geometry.Box, comp int, vals []float64, op Op) {
	var (
		npts  = region.NumPts()
		ncomp int
	)
	if npts == 0 {
		return
	}
	if len(vals)%npts != 0 {
		panic(fmt.Sprintf("%d values do not fill region %s", len(vals), region))
	}
	ncomp = len(vals) / npts
	f.checkComps(comp, ncomp)
	f.checkRegion(region)
	var i int
	for n := comp; n < comp+ncomp; n++ {
		row := f.data.RawRowView(n)
		region.ForEach(func(iv geometry.IntVect) {
			switch op {
			case OpAdd:
				row[f.box.Offset(iv)] += vals[i]
			default:
				row[f.box.Offset(iv)] = vals[i]
			}
			i++
		})
	}
}

func (f *FArrayBox) sameShape(o *FArrayBox) bool {
	return f.box == o.box && f.ncomp == o.ncomp
}

func (f *FArrayBox) checkShape(o *FArrayBox) {
	if !f.sameShape(o) {
		panic(fmt.Sprintf("FArrayBox shape mismatch: %s x %d vs %s x %d", f.box, f.ncomp, o.box, o.ncomp))
	}
}

// Plus adds o into f, both must have the same box and components
func (f *FArrayBox) Plus(o *FArrayBox) {
	f.checkShape(o)
	f.data.Add(f.data, o.data)
}

// Saxpy is f += a*o
func (f *FArrayBox) Saxpy(a float64, o *FArrayBox) {
	f.checkShape(o)
	floats.AddScaled(f.data.RawMatrix().Data, a, o.data.RawMatrix().Data)
}

// CopyFrom overwrites f with o
func (f *FArrayBox) CopyFrom(o *FArrayBox) {
	f.checkShape(o)
	f.data.Copy(o.data)
}

func (f *FArrayBox) Clone() *FArrayBox {
	return &FArrayBox{
		box:   f.box,
		ncomp: f.ncomp,
		data:  mat.DenseCopyOf(f.data),
	}
}

// Equal is exact equality of shape and values
func (f *FArrayBox) Equal(o *FArrayBox) bool {
	return f.sameShape(o) && floats.Equal(f.data.RawMatrix().Data, o.data.RawMatrix().Data)
}

// Raw is the complete component-major storage
func (f *FArrayBox) Raw() []float64 {
	return f.data.RawMatrix().Data
}
