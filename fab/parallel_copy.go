package fab

import (
	"fmt"
	"sort"

	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
	"gonum.org/v1/gonum/floats"
)

// copySource describes where the data of a parallel copy comes from. pack
// returns the values of source box i over region, component-major.
type copySource struct {
	ba    grids.BoxArray
	dm    grids.DistributionMap
	ngrow int
	pack  func(i int, region geometry.Box) []float64
}

// Packet header layout of a parallel copy piece
const (
	hdrDst = iota
	hdrSrc
	hdrShift
	hdrRegion
	hdrLen = hdrRegion + 2*geometry.SpaceDim
)

func encodeBox(hdr []int, b geometry.Box) {
	for d := 0; d < geometry.SpaceDim; d++ {
		hdr[d] = b.Lo[d]
		hdr[geometry.SpaceDim+d] = b.Hi[d]
	}
}

func decodeBox(hdr []int, t geometry.IndexType) (b geometry.Box) {
	for d := 0; d < geometry.SpaceDim; d++ {
		b.Lo[d] = hdr[d]
		b.Hi[d] = hdr[geometry.SpaceDim+d]
	}
	b.Type = t
	return
}

// parallelCopy moves, for every periodic shift, the overlap of each grown
// source box with each destination box from the owner of the source to the
// owner of the destination. Pieces are applied in (source index, shift)
// order whatever the number of ranks. This is a collective over comm.
func parallelCopy(comm *utils.Comm, tag string, dstBA grids.BoxArray, dstDM grids.DistributionMap,
	dstFabs map[int]*FArrayBox, src copySource, shifts []geometry.IntVect, dcomp int, op Op) {
	for _, s := range src.dm.LocalIndices(comm.Rank()) {
		sbox := src.ba.Get(s).Grow(src.ngrow)
		for k, shift := range shifts {
			for _, is := range dstBA.Intersections(sbox.Shift(shift), false, 0) {
				hdr := make([]int, hdrLen)
				hdr[hdrDst], hdr[hdrSrc], hdr[hdrShift] = is.Index, s, k
				encodeBox(hdr[hdrRegion:], is.Box)
				comm.Post(dstDM.Owner(is.Index), &utils.Packet{
					Tag:    tag,
					Header: hdr,
					Data:   src.pack(s, is.Box.Shift(shift.Scale(-1))),
				})
			}
		}
	}
	received := comm.Exchange(tag)
	sort.SliceStable(received, func(i, j int) bool {
		hi, hj := received[i].Header, received[j].Header
		if hi[hdrSrc] != hj[hdrSrc] {
			return hi[hdrSrc] < hj[hdrSrc]
		}
		return hi[hdrShift] < hj[hdrShift]
	})
	for _, p := range received {
		d := p.Header[hdrDst]
		f, ok := dstFabs[d]
		if !ok {
			panic(fmt.Sprintf("rank %d received data for box %d it does not own", comm.Rank(), d))
		}
		f.Unpack(decodeBox(p.Header[hdrRegion:], dstBA.IxType()), dcomp, p.Data, op)
	}
}

// redistribute adds a*src into dst box by box, where both collections share
// a BoxArray but not necessarily the owner of each box. Collective over comm.
func redistribute(comm *utils.Comm, tag string, dstDM grids.DistributionMap, dstFabs map[int]*FArrayBox,
	srcDM grids.DistributionMap, srcFabs map[int]*FArrayBox, a float64) {
	for _, i := range srcDM.LocalIndices(comm.Rank()) {
		comm.Post(dstDM.Owner(i), &utils.Packet{
			Tag:    tag,
			Header: []int{i},
			Data:   append([]float64(nil), srcFabs[i].Raw()...),
		})
	}
	for _, p := range comm.Exchange(tag) {
		i := p.Header[0]
		f, ok := dstFabs[i]
		if !ok {
			panic(fmt.Sprintf("rank %d received data for box %d it does not own", comm.Rank(), i))
		}
		dst := f.Raw()
		if len(dst) != len(p.Data) {
			panic(fmt.Sprintf("box %d size mismatch: %d vs %d values", i, len(dst), len(p.Data)))
		}
		floats.AddScaled(dst, a, p.Data)
	}
}
