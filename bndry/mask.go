package bndry

import (
	"github.com/notargets/gobndry/fab"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
)

// Boundary mask codes
const (
	Covered       = iota // lies in the valid region of some grid
	NotCovered           // inside the domain but on no grid
	OutsideDomain        // beyond a non periodic domain boundary
	NumMaskVals
)

var maskNames = [NumMaskVals]string{"covered", "not_covered", "outside_domain"}

func MaskName(val int) string {
	if val < 0 || val >= NumMaskVals {
		return "invalid"
	}
	return maskNames[val]
}

// periodicReach stands in for an unbounded domain along periodic axes, it
// only needs to exceed any footprint distance from the domain
const periodicReach = 1 << 20

// buildMasks classifies every cell of the face footprints of the grids owned
// by this rank. Cells of other grids, and periodic images of any grid
// including the owner, cover a cell; otherwise the domain decides between
// NotCovered and OutsideDomain. A footprint reaching inside its own grid with
// InRad > 0 is not covered by that grid.
func buildMasks(ba grids.BoxArray, dm grids.DistributionMap, comm *utils.Comm, geom geometry.Geometry,
	opt Options) (masks geometry.FaceArray[*fab.MultiMask]) {
	var (
		domain = geom.PeriodicDomain(periodicReach)
	)
	for _, face := range geometry.Orientations() {
		mm := fab.NewMultiMask(ba, dm, comm, face, opt.InRad, opt.OutRad, opt.ExtentRad, OutsideDomain)
		for _, i := range mm.LocalIndices() {
			var (
				m  = mm.Mask(i)
				fp = m.Box()
			)
			m.SetValRegion(NotCovered, fp.Intersect(domain))
			for _, is := range ba.Intersections(fp, false, 0) {
				if is.Index == i {
					continue
				}
				m.SetValRegion(Covered, is.Box)
			}
			if !geom.IsAnyPeriodic() || geom.Domain.ContainsBox(fp) {
				continue
			}
			for _, shift := range geom.PeriodicShift(geom.Domain, fp) {
				back := shift.Scale(-1)
				for _, is := range ba.Intersections(fp.Shift(shift), false, 0) {
					m.SetValRegion(Covered, is.Box.Shift(back))
				}
			}
		}
		*masks.At(face) = mm
	}
	return
}
