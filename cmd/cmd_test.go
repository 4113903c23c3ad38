package cmd

import (
	"os"
	"testing"

	"github.com/notargets/gobndry/bndry"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoBoxCase = []byte(`
Title: two boxes
Domain: {Lo: [0,0,0], Hi: [7,3,0]}
Periodic: [false, false, false]
Boxes:
  - {Lo: [0,0,0], Hi: [3,3,0]}
  - {Lo: [4,0,0], Hi: [7,3,0]}
NRanks: 2
NComp: 2
Distribution: roundrobin
BCs: {xlo: dirichlet, xhi: neumann}
BoundLoc: 0.5
`)

func TestRunMasks(t *testing.T) {
	var (
		xlo = geometry.NewOrientation(0, geometry.Low)
		xhi = geometry.NewOrientation(0, geometry.High)
		ylo = geometry.NewOrientation(1, geometry.Low)
	)
	cs, err := parseCase(twoBoxCase)
	require.NoError(t, err)
	assert.True(t, cs.physicalFace(xlo, 0))
	assert.False(t, cs.physicalFace(xhi, 0))
	assert.True(t, cs.physicalFace(ylo, 1))
	summary, err := RunMasks(cs)
	require.NoError(t, err)
	summary.Print()
	assert.Equal(t, [bndry.NumMaskVals]int{4, 0, 32}, *summary.Counts.At(xhi))
	assert.Equal(t, [bndry.NumMaskVals]int{4, 0, 32}, *summary.Counts.At(xlo))
	assert.Equal(t, [bndry.NumMaskVals]int{0, 0, 36}, *summary.Counts.At(ylo))
	assert.Equal(t, map[utils.BCType]int{utils.BCDirichlet: 1, utils.BCInterior: 1}, *summary.BCs.At(xlo))
	assert.Equal(t, map[utils.BCType]int{utils.BCNeumann: 1, utils.BCInterior: 1}, *summary.BCs.At(xhi))
	assert.Equal(t, map[utils.BCType]int{utils.BCNone: 2}, *summary.BCs.At(ylo))
	// The same case on a single rank gives the same totals
	cs.IP.NRanks = 1
	cs.DM = grids.Distribute(cs.BA, 1, grids.RoundRobin)
	serial, err := RunMasks(cs)
	require.NoError(t, err)
	assert.Equal(t, summary.Counts, serial.Counts)
}

func TestRunCheckpoint(t *testing.T) {
	cs, err := parseCase(twoBoxCase)
	require.NoError(t, err)
	dir := t.TempDir()
	identical, err := RunCheckpoint(cs, dir, "reg")
	require.NoError(t, err)
	assert.True(t, identical)
	for r := 0; r < 2; r++ {
		_, err = os.Stat(checkpointFile(dir, "reg", r))
		assert.NoError(t, err)
	}
	// More ranks than grids leaves some ranks with nothing to write
	cs.IP.NRanks = 3
	cs.DM = grids.Distribute(cs.BA, 3, grids.KnapSack)
	identical, err = RunCheckpoint(cs, dir, "reg")
	require.NoError(t, err)
	assert.True(t, identical)
}

func TestReadCase(t *testing.T) {
	_, err := readCase("")
	assert.Error(t, err)
	_, err = readCase("does/not/exist.yaml")
	assert.Error(t, err)
	fileName := t.TempDir() + "/case.yaml"
	require.NoError(t, os.WriteFile(fileName, twoBoxCase, 0o644))
	cs, err := readCase(fileName)
	require.NoError(t, err)
	assert.Equal(t, 2, cs.BA.Size())
	assert.Equal(t, 2, cs.DM.NP())
	_, err = parseCase([]byte("Boxes: []"))
	assert.Error(t, err)
	_, err = startProfile("gpu")
	assert.Error(t, err)
}
