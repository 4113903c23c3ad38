package grids

import (
	"testing"

	"github.com/notargets/gobndry/geometry"
	"github.com/stretchr/testify/assert"
)

func box2D(xlo, ylo, xhi, yhi int) geometry.Box {
	return geometry.NewBox(geometry.NewIntVect(xlo, ylo, 0), geometry.NewIntVect(xhi, yhi, 0))
}

func TestBoxArray(t *testing.T) {
	ba := NewBoxArray(box2D(0, 0, 3, 3), box2D(4, 0, 7, 3), box2D(0, 4, 7, 5))
	assert.Equal(t, 3, ba.Size())
	assert.False(t, ba.Empty())
	assert.True(t, ba.IsDisjoint())
	assert.Equal(t, 48, ba.NumPts())
	assert.Equal(t, box2D(0, 0, 7, 5), ba.MinimalBox())
	assert.True(t, ba.Equal(NewBoxArray(ba.Boxes()...)))
	assert.False(t, ba.Equal(NewBoxArray(box2D(0, 0, 3, 3))))
	{ // Intersections are reported in index order
		isects := ba.Intersections(box2D(3, 3, 4, 4), false, 0)
		assert.Equal(t, []Isect{
			{0, box2D(3, 3, 3, 3)},
			{1, box2D(4, 3, 4, 3)},
			{2, box2D(3, 4, 4, 4)},
		}, isects)
		assert.Len(t, ba.Intersections(box2D(3, 3, 4, 4), true, 0), 1)
		assert.Empty(t, ba.Intersections(box2D(8, 0, 9, 9), false, 0))
		assert.Len(t, ba.Intersections(box2D(8, 0, 9, 9), false, 1), 2)
	}
	overlapping := NewBoxArray(box2D(0, 0, 3, 3), box2D(3, 0, 7, 3))
	assert.False(t, overlapping.IsDisjoint())
	grown := ba.Transform(func(_ int, b geometry.Box) geometry.Box { return b.Grow(1) })
	assert.Equal(t, box2D(-1, -1, 4, 4).GrowDir(2, 1), grown.Get(0))
}

func TestDistribution(t *testing.T) {
	var boxes []geometry.Box
	for i := 0; i < 7; i++ {
		boxes = append(boxes, box2D(4*i, 0, 4*i+3, i))
	}
	ba := NewBoxArray(boxes...)
	{
		dm := Distribute(ba, 3, RoundRobin)
		assert.Equal(t, []int{0, 3, 6}, dm.LocalIndices(0))
		assert.Equal(t, []int{2, 5}, dm.LocalIndices(2))
		assert.Equal(t, 3, dm.NP())
	}
	{
		dm := Distribute(ba, 3, Contiguous)
		assert.Equal(t, []int{0, 1, 2}, dm.LocalIndices(0))
		assert.Equal(t, []int{3, 4}, dm.LocalIndices(1))
		assert.Equal(t, []int{5, 6}, dm.LocalIndices(2))
	}
	{
		dm := Distribute(ba, 2, KnapSack)
		stats := dm.Statistics(ba)
		total := stats[0].NumCells + stats[1].NumCells
		assert.Equal(t, ba.NumPts(), total)
		// Greedy balancing keeps the difference below the largest box
		diff := stats[0].NumCells - stats[1].NumCells
		assert.LessOrEqual(t, max(diff, -diff), ba.Get(6).NumPts())
		dm.LogStatistics(ba)
	}
	{ // More ranks than boxes leaves ranks idle
		dm := Distribute(NewBoxArray(box2D(0, 0, 1, 1)), 4, Contiguous)
		assert.Equal(t, []int{0}, dm.LocalIndices(0))
		assert.Empty(t, dm.LocalIndices(3))
	}
	a := Distribute(ba, 3, RoundRobin)
	assert.True(t, a.Equal(NewDistributionMap([]int{0, 1, 2, 0, 1, 2, 0}, 3)))
	assert.False(t, a.Equal(Distribute(ba, 3, Contiguous)))
	assert.Panics(t, func() { NewDistributionMap([]int{0, 3}, 3) })
	ds, err := NewDistributionStrategy("knapsack")
	assert.NoError(t, err)
	assert.Equal(t, KnapSack, ds)
	_, err = NewDistributionStrategy("sfc")
	assert.Error(t, err)
}
