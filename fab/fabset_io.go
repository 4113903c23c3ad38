package fab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/notargets/gobndry/geometry"
)

// ErrCheckpoint marks checkpoint data that does not match the object it is
// read into, or that is malformed
var ErrCheckpoint = errors.New("checkpoint mismatch")

// maxNameLen bounds section names read from a stream
const maxNameLen = 1 << 16

// BinWriter writes little endian values and keeps the first error
type BinWriter struct {
	W   io.Writer
	Err error
}

func (bw *BinWriter) Write(val any) {
	if bw.Err == nil {
		bw.Err = binary.Write(bw.W, binary.LittleEndian, val)
	}
}

func (bw *BinWriter) WriteString(s string) {
	bw.Write(uint32(len(s)))
	if bw.Err == nil {
		_, bw.Err = io.WriteString(bw.W, s)
	}
}

// BinReader reads little endian values and keeps the first error
type BinReader struct {
	R   io.Reader
	Err error
}

func (br *BinReader) Read(val any) {
	if br.Err == nil {
		br.Err = binary.Read(br.R, binary.LittleEndian, val)
	}
}

func (br *BinReader) U32() (v uint32) {
	br.Read(&v)
	return
}

func (br *BinReader) I32() (v int32) {
	br.Read(&v)
	return
}

func (br *BinReader) ReadString() string {
	n := br.U32()
	if br.Err != nil {
		return ""
	}
	if n > maxNameLen {
		br.Err = fmt.Errorf("%w: string length %d too large", ErrCheckpoint, n)
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.R, buf); err != nil {
		br.Err = err
	}
	return string(buf)
}

// WriteSection writes the local buffers of the set in partition order
func (fs *FabSet) WriteSection(w io.Writer, name string) error {
	var (
		bw    = &BinWriter{W: w}
		local = fs.LocalIndices()
	)
	bw.WriteString(name)
	bw.Write(uint32(len(local)))
	for _, i := range local {
		f := fs.fabs[i]
		b := f.Box()
		bw.Write(uint32(i))
		for d := 0; d < geometry.SpaceDim; d++ {
			bw.Write(int32(b.Lo[d]))
		}
		for d := 0; d < geometry.SpaceDim; d++ {
			bw.Write(int32(b.Hi[d]))
		}
		bw.Write(uint8(b.Type))
		bw.Write(uint32(f.NComp()))
		bw.Write(uint64(f.NumPts()))
		bw.Write(f.Raw())
	}
	return bw.Err
}

// ReadSection decodes a section written by WriteSection into new buffers
// without touching the set. Every box must match the set's own layout.
func (fs *FabSet) ReadSection(r io.Reader, name string) (fabs map[int]*FArrayBox, err error) {
	var (
		br    = &BinReader{R: r}
		local = fs.LocalIndices()
	)
	defer func() {
		if err != nil && !errors.Is(err, ErrCheckpoint) {
			err = fmt.Errorf("%w: section %q: %w", ErrCheckpoint, name, err)
		}
	}()
	if got := br.ReadString(); br.Err == nil && got != name {
		return nil, fmt.Errorf("%w: expected section %q, found %q", ErrCheckpoint, name, got)
	}
	if n := br.U32(); br.Err == nil && int(n) != len(local) {
		return nil, fmt.Errorf("%w: section %q holds %d boxes, this rank owns %d", ErrCheckpoint, name, n, len(local))
	}
	if br.Err != nil {
		return nil, br.Err
	}
	fabs = make(map[int]*FArrayBox, len(local))
	for _, i := range local {
		var (
			b     geometry.Box
			itype uint8
			npts  uint64
		)
		idx := br.U32()
		for d := 0; d < geometry.SpaceDim; d++ {
			b.Lo[d] = int(br.I32())
		}
		for d := 0; d < geometry.SpaceDim; d++ {
			b.Hi[d] = int(br.I32())
		}
		br.Read(&itype)
		b.Type = geometry.IndexType(itype)
		ncomp := br.U32()
		br.Read(&npts)
		if br.Err != nil {
			return nil, br.Err
		}
		want := fs.fabs[i]
		switch {
		case int(idx) != i:
			return nil, fmt.Errorf("%w: section %q expected grid %d, found %d", ErrCheckpoint, name, i, idx)
		case b != want.Box():
			return nil, fmt.Errorf("%w: grid %d box %s does not match %s", ErrCheckpoint, i, b, want.Box())
		case int(ncomp) != want.NComp():
			return nil, fmt.Errorf("%w: grid %d has %d components, expected %d", ErrCheckpoint, i, ncomp, want.NComp())
		case npts != uint64(b.NumPts()) || npts > math.MaxInt32:
			return nil, fmt.Errorf("%w: grid %d point count %d does not match box %s", ErrCheckpoint, i, npts, b)
		}
		f := NewFArrayBox(b, int(ncomp))
		br.Read(f.Raw())
		if br.Err != nil {
			return nil, br.Err
		}
		fabs[i] = f
	}
	return
}
