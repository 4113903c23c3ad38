/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/notargets/gobndry/InputParameters"
	"github.com/notargets/gobndry/bndry"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
	"github.com/spf13/viper"
)

const exampleCase = `
########################################
Title: "two boxes"
Domain: {Lo: [0,0,0], Hi: [7,3,0]}
Periodic: [false, false, false]
Boxes:
  - {Lo: [0,0,0], Hi: [3,3,0]}
  - {Lo: [4,0,0], Hi: [7,3,0]}
NRanks: 2
NComp: 1
Distribution: roundrobin # or contiguous, knapsack
BCs: {xlo: dirichlet, xhi: neumann}
BoundLoc: 0.5
########################################
`

// Case is a parsed case file with its grids laid out over the ranks
type Case struct {
	IP   *InputParameters.CaseParameters
	BA   grids.BoxArray
	DM   grids.DistributionMap
	Geom geometry.Geometry
	BCs  map[geometry.Orientation]utils.BCType
}

func readCase(fileName string) (cs *Case, err error) {
	var data []byte
	if len(fileName) == 0 {
		fmt.Printf("Example File:%s\n", exampleCase)
		return nil, fmt.Errorf("must supply a case file (-I, --inputConditionsFile)")
	}
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	return parseCase(data)
}

func parseCase(data []byte) (cs *Case, err error) {
	ip := &InputParameters.CaseParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("case file: %w", err)
	}
	if n := viper.GetInt("ranks"); n > 0 {
		ip.NRanks = n
	}
	cs = &Case{
		IP:   ip,
		Geom: ip.Geometry(),
	}
	if cs.BA, err = ip.BoxArray(); err != nil {
		return
	}
	strategy, err := ip.Strategy()
	if err != nil {
		return
	}
	cs.DM = grids.Distribute(cs.BA, ip.NRanks, strategy)
	if cs.BCs, err = ip.FaceBCs(); err != nil {
		return
	}
	return
}

// physicalFace is true when face of grid i lies on a non periodic domain
// boundary
func (cs *Case) physicalFace(face geometry.Orientation, i int) bool {
	var (
		b = cs.BA.Get(i)
		d = face.Dir()
	)
	if cs.Geom.IsPeriodic(d) {
		return false
	}
	if face.IsLow() {
		return b.Lo[d] <= cs.Geom.Domain.Lo[d]
	}
	return b.Hi[d] >= cs.Geom.Domain.Hi[d]
}

// defineData builds the boundary data of one rank and records the case
// boundary conditions on physical faces, interior faces get BCInterior
func (cs *Case) defineData(c *utils.Comm) (d *bndry.Data) {
	d = bndry.NewData(cs.BA, cs.DM, c, cs.IP.NComp, cs.Geom, cs.IP.Options())
	for _, i := range cs.DM.LocalIndices(c.Rank()) {
		for _, face := range geometry.Orientations() {
			bc := utils.BCInterior
			if cs.physicalFace(face, i) {
				bc = cs.BCs[face]
				d.SetBoundLoc(face, i, cs.IP.BoundLoc)
			}
			for n := 0; n < cs.IP.NComp; n++ {
				d.SetBoundCond(face, i, n, bc)
			}
		}
	}
	return
}
