package geometry

import "fmt"

// NumFaces is the number of faces of a box
const NumFaces = 2 * SpaceDim

type Side uint8

const (
	Low Side = iota
	High
)

// Orientation identifies one face of a box. Low faces come first, so the
// index of a face is dir + side*SpaceDim.
type Orientation uint8

func NewOrientation(dir int, side Side) Orientation {
	if dir < 0 || dir >= SpaceDim {
		panic(fmt.Sprintf("direction %d out of range [0,%d)", dir, SpaceDim))
	}
	return Orientation(dir + int(side)*SpaceDim)
}

// Orientations lists every face in index order
func Orientations() (faces [NumFaces]Orientation) {
	for i := range faces {
		faces[i] = Orientation(i)
	}
	return
}

func (o Orientation) Valid() bool { return int(o) < NumFaces }

func (o Orientation) Dir() int { return int(o) % SpaceDim }

func (o Orientation) Side() Side { return Side(int(o) / SpaceDim) }

func (o Orientation) IsLow() bool { return o.Side() == Low }

func (o Orientation) IsHigh() bool { return o.Side() == High }

// Flip returns the opposing face along the same direction
func (o Orientation) Flip() Orientation {
	if o.IsLow() {
		return NewOrientation(o.Dir(), High)
	}
	return NewOrientation(o.Dir(), Low)
}

var axisNames = [3]string{"x", "y", "z"}

func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
	if o.IsLow() {
		return axisNames[o.Dir()] + "lo"
	}
	return axisNames[o.Dir()] + "hi"
}

// ParseOrientation accepts the names produced by String, e.g. "xlo", "zhi"
func ParseOrientation(name string) (o Orientation, err error) {
	for _, face := range Orientations() {
		if face.String() == name {
			return face, nil
		}
	}
	err = fmt.Errorf("unknown face orientation %q", name)
	return
}

// FaceArray holds one value per face, indexed by Orientation
type FaceArray[T any] [NumFaces]T

func (fa *FaceArray[T]) At(o Orientation) *T {
	if !o.Valid() {
		panic(fmt.Sprintf("orientation %d out of range [0,%d)", uint8(o), NumFaces))
	}
	return &fa[o]
}

func (fa *FaceArray[T]) Fill(v T) {
	for i := range fa {
		fa[i] = v
	}
}

// RealTuple is one real value per face
type RealTuple = FaceArray[float64]
