package bndry

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/notargets/gobndry/fab"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv2(x, y int) geometry.IntVect { return geometry.NewIntVect(x, y, 0) }

func box2D(xlo, ylo, xhi, yhi int) geometry.Box {
	return geometry.NewBox(iv2(xlo, ylo), iv2(xhi, yhi))
}

// twoBoxes is two 4x4 grids side by side along x
func twoBoxes() grids.BoxArray {
	return grids.NewBoxArray(box2D(0, 0, 3, 3), box2D(4, 0, 7, 3))
}

// fourBoxes tiles [0,7]x[0,7] with 4x4 grids
func fourBoxes() grids.BoxArray {
	return grids.NewBoxArray(
		box2D(0, 0, 3, 3), box2D(4, 0, 7, 3),
		box2D(0, 4, 3, 7), box2D(4, 4, 7, 7))
}

func field(iv geometry.IntVect, comp int) float64 {
	return float64(1000*comp+100*iv[0]+10*iv[1]+iv[2]) + 0.25
}

func runRanks(t *testing.T, np int, fn func(c *utils.Comm) error) {
	w := utils.NewWorld(np)
	w.CheckTags = true
	require.NoError(t, w.Run(fn))
}

func TestRegisterLifecycle(t *testing.T) {
	var (
		c  = utils.SerialComm()
		ba = twoBoxes()
		dm = grids.Distribute(ba, 1, grids.RoundRobin)
	)
	{ // Undefined registers refuse to be used
		var r Register
		assert.False(t, r.IsDefined())
		assert.Panics(t, func() { r.SetVal(1) })
		assert.Panics(t, func() { r.Face(geometry.NewOrientation(0, geometry.Low)) })
		assert.Panics(t, func() { r.Define(grids.BoxArray{}, dm, c, 0, 1, 0, 1) })
		assert.False(t, r.IsDefined())
		assert.Panics(t, func() { NewRegister(ba, dm, c, 0, 1, 1, 0) })
		assert.Panics(t, func() { NewRegister(ba, dm, c, 0, 0, 1, 1) })
		assert.Panics(t, func() { NewRegister(ba, dm, c, -1, 1, 1, 1) })
	}
	{ // Define allocates every face, a second Define needs a Clear
		r := NewRegister(ba, dm, c, 0, 1, 1, 2)
		assert.True(t, r.IsDefined())
		assert.Equal(t, 2, r.Size())
		assert.Equal(t, 2, r.NComp())
		for _, face := range geometry.Orientations() {
			fs := r.Face(face)
			assert.Equal(t, face, fs.Face())
			assert.Equal(t, []int{0, 1}, fs.LocalIndices())
			assert.Equal(t, ba.Get(1).FaceBox(face, 0, 1, 1), fs.Fab(1).Box())
		}
		assert.Panics(t, func() { r.Define(ba, dm, c, 0, 1, 1, 2) })
		assert.Panics(t, func() { r.SetBoxes(ba) })
		r.Clear()
		assert.False(t, r.IsDefined())
		assert.Equal(t, 0, r.Size())
		r.Define(ba, dm, c, 1, 1, 0, 1)
		assert.True(t, r.IsDefined())
		in, out, ext := r.Radii()
		assert.Equal(t, []int{1, 1, 0}, []int{in, out, ext})
		// Face x extent covers one cell on each side of the face
		assert.Equal(t, 2, r.Face(geometry.NewOrientation(0, geometry.High)).Fab(0).Box().Length(0))
	}
	{ // SetBoxes fixes the grids a later Define must agree with
		var r Register
		r.SetBoxes(ba)
		assert.Equal(t, 2, r.Size())
		other := grids.NewBoxArray(box2D(0, 0, 3, 3))
		assert.Panics(t, func() { r.Define(other, grids.Distribute(other, 1, grids.RoundRobin), c, 0, 1, 0, 1) })
		r.Define(ba, dm, c, 0, 1, 0, 1)
		assert.True(t, r.IsDefined())
	}
	{ // Clone is deep, Move empties the source
		r := NewRegister(ba, dm, c, 0, 1, 1, 1)
		r.SetVal(3)
		cl := r.Clone()
		assert.True(t, cl.Equal(r))
		r.SetVal(4)
		assert.False(t, cl.Equal(r))
		assert.Equal(t, 3., cl.Face(geometry.NewOrientation(1, geometry.High)).Fab(0).Raw()[0])
		m := r.Move()
		assert.False(t, r.IsDefined())
		assert.Equal(t, 0, r.Size())
		assert.True(t, m.IsDefined())
		assert.Equal(t, 4., m.Face(geometry.NewOrientation(1, geometry.High)).Fab(0).Raw()[0])
		// The source can be defined again without touching the moved buffers
		r.Define(ba, dm, c, 0, 1, 1, 1)
		r.SetVal(5)
		assert.Equal(t, 4., m.Face(geometry.NewOrientation(1, geometry.High)).Fab(0).Raw()[0])
	}
}

func TestRegisterSetVal(t *testing.T) {
	runRanks(t, 2, func(c *utils.Comm) error {
		ba := fourBoxes()
		r := NewRegister(ba, grids.Distribute(ba, 2, grids.Contiguous), c, 1, 2, 1, 3)
		r.SetVal(-2.5)
		for _, face := range geometry.Orientations() {
			fs := r.Face(face)
			if len(fs.LocalIndices()) != 2 {
				return fmt.Errorf("rank %d owns %d grids", c.Rank(), len(fs.LocalIndices()))
			}
			for _, i := range fs.LocalIndices() {
				for _, v := range fs.Fab(i).Raw() {
					if v != -2.5 {
						return fmt.Errorf("face %s grid %d holds %v", face, i, v)
					}
				}
			}
		}
		return nil
	})
}

func TestRegisterCopyFrom(t *testing.T) {
	var (
		ba  = fourBoxes()
		xhi = geometry.NewOrientation(0, geometry.High)
		yhi = geometry.NewOrientation(1, geometry.High)
		ylo = geometry.NewOrientation(1, geometry.Low)
	)
	for _, np := range []int{1, 2, 3} {
		runRanks(t, np, func(c *utils.Comm) error {
			dm := grids.Distribute(ba, np, grids.RoundRobin)
			mf := fab.NewMultiFab(ba, dm, 2, 0, c)
			mf.Fill(field)
			r := NewRegister(ba, dm, c, 0, 1, 1, 2)
			r.SetVal(0)
			// Periodic in y only
			r.CopyFrom(mf, 0, 0, 0, 2, geometry.Periodicity{Period: iv2(0, 8)})
			check := func(face geometry.Orientation, grid int, at geometry.IntVect, comp int, want float64) error {
				if !r.Face(face).Owns(grid) {
					return nil
				}
				if got := r.Face(face).Fab(grid).At(at, comp); got != want {
					return fmt.Errorf("np=%d %s grid %d at %s comp %d = %v, want %v", np, face, grid, at, comp, got, want)
				}
				return nil
			}
			for _, err := range []error{
				check(xhi, 0, iv2(4, 2), 1, field(iv2(4, 2), 1)),
				check(yhi, 0, iv2(1, 4), 0, field(iv2(1, 4), 0)),
				// Lateral extent reaches the diagonal neighbor
				check(xhi, 0, iv2(4, 4), 0, field(iv2(4, 4), 0)),
				// Periodic image of the top row
				check(ylo, 0, iv2(2, -1), 0, field(iv2(2, 7), 0)),
				check(ylo, 1, iv2(8, -1), 0, 0),
				// Nothing beyond the non periodic x boundary
				check(xhi, 1, iv2(8, 2), 0, 0),
			} {
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
}

func TestRegisterArithmetic(t *testing.T) {
	var (
		ba = fourBoxes()
	)
	runRanks(t, 2, func(c *utils.Comm) error {
		var (
			dm  = grids.Distribute(ba, 2, grids.RoundRobin)
			alt = grids.Distribute(ba, 2, grids.Contiguous)
			mf  = fab.NewMultiFab(ba, dm, 1, 1, c)
		)
		mf.Fill(field)
		{ // LinComb(1, A, 0, A) is CopyFrom(A)
			copied := NewRegister(ba, dm, c, 0, 1, 1, 1)
			copied.CopyFrom(mf, 1, 0, 0, 1, geometry.NonPeriodic())
			comb := NewRegister(ba, dm, c, 0, 1, 1, 1)
			comb.LinComb(1, mf, 0, 0, mf, 0, 0, 1, 1)
			if !comb.Equal(copied) {
				return fmt.Errorf("rank %d: LinComb(1,A,0,A) differs from CopyFrom(A)", c.Rank())
			}
		}
		{ // A += B; A -= B restores A, also across distributions
			a := NewRegister(ba, dm, c, 0, 1, 1, 1)
			a.CopyFrom(mf, 1, 0, 0, 1, geometry.NonPeriodic())
			before := a.Clone()
			for _, b := range []*Register{NewRegister(ba, dm, c, 0, 1, 1, 1), NewRegister(ba, alt, c, 0, 1, 1, 1)} {
				b.SetVal(7.5)
				a.Plus(b)
				if a.Equal(before) {
					return fmt.Errorf("rank %d: Plus changed nothing", c.Rank())
				}
				a.Saxpy(-1, b)
				if !a.Equal(before) {
					return fmt.Errorf("rank %d: Plus then Saxpy(-1) did not restore", c.Rank())
				}
			}
		}
		{ // PlusFrom accumulates CopyFrom
			a := NewRegister(ba, dm, c, 0, 1, 1, 1)
			a.CopyFrom(mf, 0, 0, 0, 1, geometry.NonPeriodic())
			twice := a.Clone()
			Copy(twice, a)
			twice.PlusFrom(mf, 0, 0, 0, 1, geometry.NonPeriodic())
			a.Plus(a.Clone())
			if !a.Equal(twice) {
				return fmt.Errorf("rank %d: PlusFrom differs from doubling", c.Rank())
			}
		}
		return nil
	})
}

func TestRegisterMismatchPanics(t *testing.T) {
	var (
		c  = utils.SerialComm()
		ba = twoBoxes()
		dm = grids.Distribute(ba, 1, grids.RoundRobin)
		r  = NewRegister(ba, dm, c, 0, 1, 1, 1)
	)
	assert.Panics(t, func() { r.Plus(NewRegister(ba, dm, c, 0, 1, 1, 2)) })
	assert.Panics(t, func() { r.Plus(NewRegister(ba, dm, c, 0, 2, 1, 1)) })
	one := grids.NewBoxArray(box2D(0, 0, 3, 3))
	assert.Panics(t, func() { r.Plus(NewRegister(one, grids.Distribute(one, 1, grids.RoundRobin), c, 0, 1, 1, 1)) })
	assert.Panics(t, func() { Copy(r, &Register{}) })
	mf := fab.NewMultiFab(ba, dm, 1, 0, c)
	assert.Panics(t, func() { r.CopyFrom(mf, 1, 0, 0, 1, geometry.NonPeriodic()) })
	oneMF := fab.NewMultiFab(one, grids.Distribute(one, 1, grids.RoundRobin), 1, 0, c)
	assert.Panics(t, func() { r.LinComb(1, mf, 0, 1, oneMF, 0, 0, 1, 0) })
}

func TestRegisterCheckpoint(t *testing.T) {
	var (
		ba  = fourBoxes()
		np  = 2
		out = make([]bytes.Buffer, np)
	)
	fill := func(r *Register) {
		for _, face := range geometry.Orientations() {
			fs := r.Face(face)
			for _, i := range fs.LocalIndices() {
				raw := fs.Fab(i).Raw()
				for n := range raw {
					raw[n] = math.Pi*float64(n) - 1/float64(int(face)+3*i+1)
				}
			}
		}
	}
	runRanks(t, np, func(c *utils.Comm) error {
		dm := grids.Distribute(ba, np, grids.KnapSack)
		r := NewRegister(ba, dm, c, 1, 1, 1, 2)
		fill(r)
		if err := r.Write("state", &out[c.Rank()]); err != nil {
			return err
		}
		restored := NewRegister(ba, dm, c, 1, 1, 1, 2)
		if err := restored.Read("state", bytes.NewReader(out[c.Rank()].Bytes())); err != nil {
			return err
		}
		if !restored.Equal(r) {
			return fmt.Errorf("rank %d: checkpoint round trip is not bit identical", c.Rank())
		}
		return nil
	})
	// Mismatches fail with ErrCheckpoint and leave the register as it was
	var (
		c    = utils.SerialComm()
		dm   = grids.Distribute(ba, 1, grids.KnapSack)
		r    = NewRegister(ba, dm, c, 1, 1, 1, 2)
		data bytes.Buffer
	)
	fill(r)
	require.NoError(t, r.Write("state", &data))
	raw := data.Bytes()
	for _, tc := range []struct {
		name string
		reg  *Register
		in   []byte
	}{
		{"state", NewRegister(ba, dm, c, 1, 1, 1, 1), raw},
		{"state", NewRegister(ba, dm, c, 0, 1, 1, 2), raw},
		{"other", NewRegister(ba, dm, c, 1, 1, 1, 2), raw},
		{"state", NewRegister(ba, dm, c, 1, 1, 1, 2), raw[:len(raw)-9]},
		{"state", NewRegister(ba, dm, c, 1, 1, 1, 2), raw[:20]},
		{"state", NewRegister(ba, dm, c, 1, 1, 1, 2), append([]byte("NOTAREG!"), raw[8:]...)},
	} {
		tc.reg.SetVal(42)
		before := tc.reg.Clone()
		err := tc.reg.Read(tc.name, bytes.NewReader(tc.in))
		assert.True(t, errors.Is(err, ErrCheckpoint), "error %v", err)
		assert.True(t, tc.reg.Equal(before))
	}
}
