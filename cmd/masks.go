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
	"log"

	"github.com/notargets/gobndry/bndry"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/utils"
	"github.com/spf13/cobra"
)

// MasksCmd represents the masks command
var MasksCmd = &cobra.Command{
	Use:   "masks",
	Short: "Classify the boundary cells of every grid face",
	Long: `
Builds the boundary data of the case on every rank and prints, per face, how
many boundary cells are covered by a grid, open domain, or outside the domain,
along with the boundary conditions applied to the grids on that face.

gobndry masks -I case.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			fileName string
			cs       *Case
			summary  *MaskSummary
		)
		if fileName, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if cs, err = readCase(fileName); err != nil {
			return
		}
		cs.IP.Print()
		cs.DM.LogStatistics(cs.BA)
		if summary, err = RunMasks(cs); err != nil {
			return
		}
		summary.Print()
		log.Printf("Memory: %s", utils.GetMemUsage())
		return
	},
}

func init() {
	rootCmd.AddCommand(MasksCmd)
	MasksCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case file with the domain, grids and BCs")
}

// MaskSummary holds the mask counts of every face summed over all ranks, and
// how many grids carry each boundary condition on that face
type MaskSummary struct {
	Counts geometry.FaceArray[[bndry.NumMaskVals]int]
	BCs    geometry.FaceArray[map[utils.BCType]int]
}

// RunMasks defines the boundary data on every rank and gathers the totals
func RunMasks(cs *Case) (summary *MaskSummary, err error) {
	var (
		nbc = int(utils.BCUserDefined3) + 1
		w   = utils.NewWorld(cs.IP.NRanks)
	)
	summary = &MaskSummary{}
	err = w.Run(func(c *utils.Comm) error {
		var (
			d      = cs.defineData(c)
			counts = d.MaskCounts()
			local  = make([]float64, 0, geometry.NumFaces*(bndry.NumMaskVals+nbc))
		)
		for _, face := range geometry.Orientations() {
			for _, n := range counts.At(face) {
				local = append(local, float64(n))
			}
			bcs := make([]float64, nbc)
			for _, i := range cs.DM.LocalIndices(c.Rank()) {
				rec := d.BndryConds(i)
				bcs[(*rec.At(face))[0]]++
			}
			local = append(local, bcs...)
		}
		total := c.AllReduceSum("masks.summary", local)
		if !c.IOProcessor() {
			return nil
		}
		for _, face := range geometry.Orientations() {
			row := total[int(face)*(bndry.NumMaskVals+nbc):]
			for val := 0; val < bndry.NumMaskVals; val++ {
				summary.Counts.At(face)[val] = int(row[val])
			}
			bcs := make(map[utils.BCType]int)
			for bc, n := range row[bndry.NumMaskVals : bndry.NumMaskVals+nbc] {
				if n > 0 {
					bcs[utils.BCType(bc)] = int(n)
				}
			}
			*summary.BCs.At(face) = bcs
		}
		return nil
	})
	return
}

func (ms *MaskSummary) Print() {
	fmt.Printf("%-6s %10s %12s %15s   %s\n", "Face", "Covered", "NotCovered", "OutsideDomain", "BCs")
	for _, face := range geometry.Orientations() {
		c := ms.Counts.At(face)
		fmt.Printf("%-6s %10d %12d %15d   %v\n", face, c[bndry.Covered], c[bndry.NotCovered],
			c[bndry.OutsideDomain], *ms.BCs.At(face))
	}
}
