package fab

import (
	"fmt"

	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
)

// MultiMask holds one Mask per owned grid on a single face, with the same
// footprint as the FabSet of that face
type MultiMask struct {
	face  geometry.Orientation
	ba    grids.BoxArray
	dm    grids.DistributionMap
	comm  *utils.Comm
	masks map[int]*Mask
}

// NewMultiMask builds the masks of one face filled with initVal. It panics
// when ba, dm and comm disagree.
func NewMultiMask(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm, face geometry.Orientation,
	inRad, outRad, extentRad, initVal int) *MultiMask {
	checkLayout(ba, dm, comm)
	mm := &MultiMask{
		face:  face,
		dm:    dm,
		comm:  comm,
		masks: make(map[int]*Mask),
	}
	mm.ba = ba.Transform(func(_ int, b geometry.Box) geometry.Box {
		return b.FaceBox(face, inRad, outRad, extentRad)
	})
	for _, i := range dm.LocalIndices(comm.Rank()) {
		mm.masks[i] = NewMask(mm.ba.Get(i), initVal)
	}
	return mm
}

func (mm *MultiMask) Face() geometry.Orientation { return mm.face }

func (mm *MultiMask) BoxArray() grids.BoxArray { return mm.ba }

func (mm *MultiMask) DistributionMap() grids.DistributionMap { return mm.dm }

func (mm *MultiMask) LocalIndices() []int { return mm.dm.LocalIndices(mm.comm.Rank()) }

// Mask returns the mask of grid i, which must be owned by this rank
func (mm *MultiMask) Mask(i int) *Mask {
	m, ok := mm.masks[i]
	if !ok {
		panic(fmt.Sprintf("grid %d is owned by rank %d, not rank %d", i, mm.dm.Owner(i), mm.comm.Rank()))
	}
	return m
}

// Count is the number of local mask points holding val
func (mm *MultiMask) Count(val int) (n int) {
	for _, m := range mm.masks {
		n += m.Count(val)
	}
	return
}

func (mm *MultiMask) Clone() *MultiMask {
	c := *mm
	c.masks = make(map[int]*Mask, len(mm.masks))
	for i, m := range mm.masks {
		c.masks[i] = m.Clone()
	}
	return &c
}
