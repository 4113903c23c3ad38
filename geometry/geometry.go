package geometry

import "fmt"

// Periodicity holds the period length along each axis, zero where the axis
// is not periodic
type Periodicity struct {
	Period IntVect
}

func NonPeriodic() Periodicity { return Periodicity{} }

func (p Periodicity) IsPeriodic(dir int) bool { return p.Period[dir] > 0 }

func (p Periodicity) IsAnyPeriodic() bool { return !p.Period.IsZero() }

// ShiftIntVects lists the image offsets of a periodic domain, the zero shift
// first and the remaining images in lexicographic order.
func (p Periodicity) ShiftIntVects() (shifts []IntVect) {
	shifts = append(shifts, IntVect{})
	p.forEachShift(func(s IntVect) {
		if !s.IsZero() {
			shifts = append(shifts, s)
		}
	})
	return
}

func (p Periodicity) forEachShift(fn func(s IntVect)) {
	var (
		lo, hi IntVect
	)
	for d := 0; d < SpaceDim; d++ {
		if p.IsPeriodic(d) {
			lo[d], hi[d] = -1, 1
		}
	}
	NewBox(lo, hi).ForEach(func(k IntVect) {
		var s IntVect
		for d := range s {
			s[d] = k[d] * p.Period[d]
		}
		fn(s)
	})
}

// Geometry is the problem domain in index space with its periodicity and
// physical extent
type Geometry struct {
	Domain         Box
	Periodic       [SpaceDim]bool
	ProbLo, ProbHi [SpaceDim]float64
}

// NewGeometry builds a geometry with a unit physical cell size
func NewGeometry(domain Box, periodic [SpaceDim]bool) Geometry {
	if !domain.Ok() {
		panic(fmt.Sprintf("empty domain %s", domain))
	}
	g := Geometry{
		Domain:   domain,
		Periodic: periodic,
	}
	for d := 0; d < SpaceDim; d++ {
		g.ProbLo[d] = float64(domain.Lo[d])
		g.ProbHi[d] = float64(domain.Hi[d] + 1)
	}
	return g
}

func (g Geometry) IsPeriodic(dir int) bool { return g.Periodic[dir] }

func (g Geometry) IsAnyPeriodic() bool {
	for _, p := range g.Periodic {
		if p {
			return true
		}
	}
	return false
}

func (g Geometry) Period() (p Periodicity) {
	for d := 0; d < SpaceDim; d++ {
		if g.Periodic[d] {
			p.Period[d] = g.Domain.Length(d)
		}
	}
	return
}

func (g Geometry) CellSize(dir int) float64 {
	return (g.ProbHi[dir] - g.ProbLo[dir]) / float64(g.Domain.Length(dir))
}

// PeriodicShift returns every nonzero periodic image offset that moves src
// onto target
func (g Geometry) PeriodicShift(target, src Box) (shifts []IntVect) {
	g.Period().forEachShift(func(s IntVect) {
		if !s.IsZero() && src.Shift(s).Intersects(target) {
			shifts = append(shifts, s)
		}
	})
	return
}

// PeriodicDomain is the domain extended by grow cells along each periodic
// axis; nothing along those axes lies outside the physical domain.
func (g Geometry) PeriodicDomain(grow int) Box {
	var (
		b = g.Domain
	)
	for d := 0; d < SpaceDim; d++ {
		if g.Periodic[d] {
			b = b.GrowDir(d, grow)
		}
	}
	return b
}
