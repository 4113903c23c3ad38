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
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/notargets/gobndry/bndry"
	"github.com/notargets/gobndry/fab"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/utils"
	"github.com/spf13/cobra"
)

// CheckpointCmd represents the checkpoint command
var CheckpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Write boundary registers to disk and read them back",
	Long: `
Fills a boundary register on every rank from a manufactured cell field, writes
one checkpoint file per rank into the output directory, reads the files back
into fresh registers and reports whether the round trip is bit identical.

gobndry checkpoint -I case.yaml -o outdir`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			fileName, dir, name string
			cs                  *Case
			identical           bool
		)
		if fileName, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if dir, err = cmd.Flags().GetString("outputDir"); err != nil {
			return
		}
		if name, err = cmd.Flags().GetString("name"); err != nil {
			return
		}
		if cs, err = readCase(fileName); err != nil {
			return
		}
		cs.IP.Print()
		if identical, err = RunCheckpoint(cs, dir, name); err != nil {
			return
		}
		if !identical {
			return fmt.Errorf("checkpoint round trip changed the register contents")
		}
		fmt.Printf("Checkpoint round trip of %q on %d ranks is bit identical\n", name, cs.IP.NRanks)
		return
	},
}

func init() {
	rootCmd.AddCommand(CheckpointCmd)
	CheckpointCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case file with the domain, grids and BCs")
	CheckpointCmd.Flags().StringP("outputDir", "o", ".", "directory for the per rank checkpoint files")
	CheckpointCmd.Flags().String("name", "bndry", "register name stored in the checkpoint")
}

// manufactured is a smooth field with a distinct value per cell and component
func manufactured(iv geometry.IntVect, comp int) float64 {
	return float64(comp+1)*float64(iv[0]) + 0.5*float64(iv[1]) - 0.125*float64(iv[2]) + 1./3.
}

func checkpointFile(dir, name string, rank int) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%05d", name, rank))
}

// anyFailed is a collective telling every rank whether some rank failed
func anyFailed(c *utils.Comm, tag string, err error) bool {
	var flag float64
	if err != nil {
		flag = 1
	}
	return c.AllReduceSum(tag, []float64{flag})[0] > 0
}

// RunCheckpoint writes and reads back the register of every rank and reports
// whether all ranks restored identical buffers
func RunCheckpoint(cs *Case, dir, name string) (identical bool, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	var (
		w       = utils.NewWorld(cs.IP.NRanks)
		matched = make([]bool, cs.IP.NRanks)
	)
	err = w.Run(func(c *utils.Comm) (err error) {
		var (
			opt = cs.IP.Options()
			reg = bndry.NewRegister(cs.BA, cs.DM, c, opt.InRad, opt.OutRad, opt.ExtentRad, cs.IP.NComp)
			mf  = fab.NewMultiFab(cs.BA, cs.DM, cs.IP.NComp, 1, c)
			buf bytes.Buffer
		)
		mf.Fill(manufactured)
		reg.SetVal(0)
		reg.CopyFrom(mf, 1, 0, 0, cs.IP.NComp, cs.Geom.Period())
		if err = reg.Write(name, &buf); err == nil {
			err = os.WriteFile(checkpointFile(dir, name, c.Rank()), buf.Bytes(), 0o644)
		}
		if anyFailed(c, "checkpoint.write", err) {
			return
		}
		data, err := os.ReadFile(checkpointFile(dir, name, c.Rank()))
		if anyFailed(c, "checkpoint.open", err) {
			return
		}
		restored := bndry.NewRegister(cs.BA, cs.DM, c, opt.InRad, opt.OutRad, opt.ExtentRad, cs.IP.NComp)
		if err = restored.Read(name, bytes.NewReader(data)); err != nil {
			return
		}
		matched[c.Rank()] = restored.Equal(reg)
		if c.IOProcessor() {
			log.Printf("Wrote %d checkpoint files of %d bytes on rank 0 to %s", c.NP(), len(data), dir)
		}
		return
	})
	if err != nil {
		return
	}
	identical = true
	for _, m := range matched {
		identical = identical && m
	}
	return
}
