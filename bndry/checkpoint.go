package bndry

import (
	"fmt"
	"io"

	"github.com/notargets/gobndry/fab"
	"github.com/notargets/gobndry/geometry"
)

// ErrCheckpoint is wrapped by every error caused by checkpoint data that is
// malformed or does not match the register it is read into
var ErrCheckpoint = fab.ErrCheckpoint

const (
	checkpointMagic   = "BNDRYREG"
	checkpointVersion = 1
)

func sectionName(name string, face geometry.Orientation) string {
	return name + "_" + face.String()
}

// Write stores the local buffers of every face. Collective: every rank
// writes its own stream and all ranks synchronize before returning.
func (r *Register) Write(name string, w io.Writer) (err error) {
	r.mustBeDefined()
	defer r.comm.Barrier()
	bw := &fab.BinWriter{W: w}
	bw.Write([]byte(checkpointMagic))
	bw.Write(uint32(checkpointVersion))
	bw.WriteString(name)
	bw.Write(uint32(geometry.SpaceDim))
	bw.Write(uint32(r.ncomp))
	bw.Write([]int32{int32(r.inRad), int32(r.outRad), int32(r.extentRad)})
	bw.Write(uint32(geometry.NumFaces))
	if bw.Err != nil {
		return fmt.Errorf("writing register %q: %w", name, bw.Err)
	}
	for _, face := range geometry.Orientations() {
		if err = r.Face(face).WriteSection(w, sectionName(name, face)); err != nil {
			return fmt.Errorf("writing register %q: %w", name, err)
		}
	}
	return
}

// Read restores buffers written by Write into a register defined on the same
// grids, components and radii. Nothing changes unless the whole stream
// decodes. Collective.
func (r *Register) Read(name string, rd io.Reader) (err error) {
	r.mustBeDefined()
	defer r.comm.Barrier()
	if err = r.readHeader(name, rd); err != nil {
		return
	}
	var staged geometry.FaceArray[map[int]*fab.FArrayBox]
	for _, face := range geometry.Orientations() {
		fabs, err := r.Face(face).ReadSection(rd, sectionName(name, face))
		if err != nil {
			return fmt.Errorf("reading register %q: %w", name, err)
		}
		*staged.At(face) = fabs
	}
	for _, face := range geometry.Orientations() {
		r.Face(face).Replace(*staged.At(face))
	}
	return
}

func (r *Register) readHeader(name string, rd io.Reader) error {
	var (
		br    = &fab.BinReader{R: rd}
		magic = make([]byte, len(checkpointMagic))
		radii [3]int32
	)
	br.Read(magic)
	version := br.U32()
	got := br.ReadString()
	dim := br.U32()
	ncomp := br.U32()
	br.Read(&radii)
	nfaces := br.U32()
	switch {
	case br.Err != nil:
		return fmt.Errorf("%w: register %q header: %w", ErrCheckpoint, name, br.Err)
	case string(magic) != checkpointMagic:
		return fmt.Errorf("%w: not a boundary register checkpoint", ErrCheckpoint)
	case version != checkpointVersion:
		return fmt.Errorf("%w: checkpoint version %d, expected %d", ErrCheckpoint, version, checkpointVersion)
	case got != name:
		return fmt.Errorf("%w: checkpoint holds register %q, expected %q", ErrCheckpoint, got, name)
	case dim != geometry.SpaceDim || nfaces != geometry.NumFaces:
		return fmt.Errorf("%w: checkpoint is %d dimensional with %d faces", ErrCheckpoint, dim, nfaces)
	case int(ncomp) != r.ncomp:
		return fmt.Errorf("%w: checkpoint has %d components, register %d", ErrCheckpoint, ncomp, r.ncomp)
	case int(radii[0]) != r.inRad || int(radii[1]) != r.outRad || int(radii[2]) != r.extentRad:
		return fmt.Errorf("%w: checkpoint radii %v, register (%d %d %d)", ErrCheckpoint, radii,
			r.inRad, r.outRad, r.extentRad)
	}
	return nil
}
