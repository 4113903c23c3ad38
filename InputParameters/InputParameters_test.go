package InputParameters

import (
	"testing"

	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseParameters(t *testing.T) {
	fileInput := []byte(`
Title: two boxes
Domain: {Lo: [0,0], Hi: [7,3]}
Periodic: [true]
Boxes:
  - {Lo: [0,0], Hi: [3,3]}
  - {Lo: [4,0], Hi: [7,3]}
NRanks: 2
Distribution: contiguous
BCs:
  ylo: dirichlet
  yhi: Neumann
BoundLoc: 0.5
ExtentRad: 0
`)
	var ip CaseParameters
	require.NoError(t, ip.Parse(fileInput))
	ip.Print()
	assert.Equal(t, "two boxes", ip.Title)
	assert.Equal(t, 1, ip.NComp)
	assert.Equal(t, 0.5, ip.BoundLoc)
	geom := ip.Geometry()
	assert.Equal(t, geometry.NewBox(geometry.NewIntVect(0, 0, 0), geometry.NewIntVect(7, 3, 0)), geom.Domain)
	assert.True(t, geom.IsPeriodic(0))
	assert.False(t, geom.IsPeriodic(1))
	ba, err := ip.BoxArray()
	require.NoError(t, err)
	assert.Equal(t, 2, ba.Size())
	assert.Equal(t, 32, ba.NumPts())
	ds, err := ip.Strategy()
	require.NoError(t, err)
	assert.Equal(t, grids.Contiguous, ds)
	bcs, err := ip.FaceBCs()
	require.NoError(t, err)
	assert.Equal(t, map[geometry.Orientation]utils.BCType{
		geometry.NewOrientation(1, geometry.Low):  utils.BCDirichlet,
		geometry.NewOrientation(1, geometry.High): utils.BCNeumann,
	}, bcs)
	opt := ip.Options()
	assert.Equal(t, []int{0, 1, 0}, []int{opt.InRad, opt.OutRad, opt.ExtentRad})
}

func TestCaseParametersErrors(t *testing.T) {
	for name, input := range map[string]string{
		"no boxes":     "Domain: {Lo: [0,0], Hi: [3,3]}\n",
		"empty domain": "Domain: {Lo: [4,0], Hi: [3,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\n",
		"overlap":      "Domain: {Lo: [0,0], Hi: [7,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}, {Lo: [3,0], Hi: [7,3]}]\n",
		"bad face":     "Domain: {Lo: [0,0], Hi: [3,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\nBCs: {wlo: dirichlet}\n",
		"bad bc":       "Domain: {Lo: [0,0], Hi: [3,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\nBCs: {xlo: sticky}\n",
		"bad strategy": "Domain: {Lo: [0,0], Hi: [3,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\nDistribution: random\n",
		"bad radii":    "Domain: {Lo: [0,0], Hi: [3,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\nOutRad: 0\n",
		"4D box":       "Domain: {Lo: [0,0,0,0], Hi: [3,3,0,0]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\n",
		"bad ranks":    "Domain: {Lo: [0,0], Hi: [3,3]}\nBoxes: [{Lo: [0,0], Hi: [3,3]}]\nNRanks: -2\n",
		"not yaml":     "Domain: [",
	} {
		var ip CaseParameters
		assert.Error(t, ip.Parse([]byte(input)), name)
	}
}
