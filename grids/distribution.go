package grids

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/notargets/gobndry/utils"
)

// DistributionStrategy selects how boxes are assigned to ranks
type DistributionStrategy uint8

const (
	RoundRobin DistributionStrategy = iota
	Contiguous
	// KnapSack balances the number of cells per rank
	KnapSack
)

var strategyNames = map[string]DistributionStrategy{
	"roundrobin": RoundRobin,
	"contiguous": Contiguous,
	"knapsack":   KnapSack,
}

func NewDistributionStrategy(label string) (ds DistributionStrategy, err error) {
	var ok bool
	if ds, ok = strategyNames[label]; !ok {
		err = fmt.Errorf("unknown distribution strategy %q, use roundrobin, contiguous or knapsack", label)
	}
	return
}

// DistributionMap assigns an owning rank to every index of a BoxArray
type DistributionMap struct {
	owners []int
	np     int
}

// NewDistributionMap uses an explicit owner list
func NewDistributionMap(owners []int, np int) (dm DistributionMap) {
	for i, r := range owners {
		if r < 0 || r >= np {
			panic(fmt.Sprintf("box %d assigned to rank %d outside of [0,%d)", i, r, np))
		}
	}
	dm.owners = append([]int(nil), owners...)
	dm.np = np
	return
}

// Distribute assigns the boxes of ba to np ranks
func Distribute(ba BoxArray, np int, strategy DistributionStrategy) DistributionMap {
	var (
		owners = make([]int, ba.Size())
	)
	switch strategy {
	case Contiguous:
		pm := utils.NewPartitionMap(np, ba.Size())
		for k := range owners {
			owners[k], _, _ = pm.GetBucket(k)
		}
	case KnapSack:
		// Largest boxes first, each onto the currently lightest rank
		var (
			order = make([]int, ba.Size())
			load  = make([]int, np)
		)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return ba.Get(order[i]).NumPts() > ba.Get(order[j]).NumPts()
		})
		for _, i := range order {
			lightest := 0
			for r := 1; r < np; r++ {
				if load[r] < load[lightest] {
					lightest = r
				}
			}
			owners[i] = lightest
			load[lightest] += ba.Get(i).NumPts()
		}
	case RoundRobin:
		fallthrough
	default:
		for i := range owners {
			owners[i] = i % np
		}
	}
	return NewDistributionMap(owners, np)
}

func (dm DistributionMap) Size() int { return len(dm.owners) }

func (dm DistributionMap) NP() int { return dm.np }

func (dm DistributionMap) Owner(i int) int { return dm.owners[i] }

func (dm DistributionMap) Equal(o DistributionMap) bool {
	if dm.np != o.np || len(dm.owners) != len(o.owners) {
		return false
	}
	for i := range dm.owners {
		if dm.owners[i] != o.owners[i] {
			return false
		}
	}
	return true
}

// LocalIndices lists, in partition order, the indices owned by rank
func (dm DistributionMap) LocalIndices(rank int) (idx []int) {
	for i, r := range dm.owners {
		if r == rank {
			idx = append(idx, i)
		}
	}
	return
}

// RankStats holds statistics for the boxes of a single rank
type RankStats struct {
	Rank     int
	NumBoxes int
	NumCells int
}

// Statistics summarizes the load on every rank
func (dm DistributionMap) Statistics(ba BoxArray) (stats []RankStats) {
	stats = make([]RankStats, dm.np)
	for r := range stats {
		stats[r].Rank = r
	}
	for i, r := range dm.owners {
		stats[r].NumBoxes++
		stats[r].NumCells += ba.Get(i).NumPts()
	}
	return
}

// LogStatistics reports the load balance of the distribution
func (dm DistributionMap) LogStatistics(ba BoxArray) {
	var (
		stats   = dm.Statistics(ba)
		avgLoad float64
		maxLoad int
		minLoad = math.MaxInt
	)
	for _, s := range stats {
		avgLoad += float64(s.NumCells)
		maxLoad = max(maxLoad, s.NumCells)
		minLoad = min(minLoad, s.NumCells)
	}
	avgLoad /= float64(dm.np)
	imbalance := 0.
	if avgLoad > 0 {
		imbalance = float64(maxLoad)/avgLoad - 1.0
	}
	log.Printf("Distribution Analysis:")
	log.Printf("  Boxes: %d, Cells: %d, Ranks: %d", ba.Size(), ba.NumPts(), dm.np)
	log.Printf("  Load imbalance: %.2f%%", imbalance*100)
	log.Printf("  Load range: [%d, %d], avg: %.1f", minLoad, maxLoad, avgLoad)
	for _, s := range stats {
		log.Printf("  Rank %d: %d boxes, %d cells", s.Rank, s.NumBoxes, s.NumCells)
	}
}
