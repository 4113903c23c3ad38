package utils

import (
	"fmt"
	"strings"
)

// BCType is the symbolic boundary condition a solver applies to one
// component on one face of a grid
type BCType uint16

// Boundary condition constants for block structured linear operators
const (
	// BCNone marks a record that was never set
	BCNone BCType = iota

	// BCInterior is a face shared with another grid, values come from the neighbor
	BCInterior

	// Mathematical boundary conditions
	BCDirichlet        // Fixed value at the boundary location
	BCNeumann          // Zero normal gradient
	BCInhomogNeumann   // Prescribed normal gradient
	BCRobin            // Mixed a*u + b*du/dn = f
	BCReflectOdd       // Odd reflection, value changes sign across the face
	BCReflectEven      // Even reflection
	BCExtrapolate      // Polynomial extrapolation from the interior
	BCMarshak          // Marshak radiation condition
	BCSanchezPomraning // Sanchez-Pomraning radiation condition

	// Flow boundary conditions
	BCInflow   // Inflow, boundary values carry the inflow state
	BCOutflow  // Outflow
	BCSymmetry // Symmetry plane
	BCPeriodic // Periodic, handled by the domain wraparound

	// User-defined (reserve space for custom BCs)
	BCUserDefined1
	BCUserDefined2
	BCUserDefined3
)

var bcNames = map[BCType]string{
	BCNone:             "None",
	BCInterior:         "Interior",
	BCDirichlet:        "Dirichlet",
	BCNeumann:          "Neumann",
	BCInhomogNeumann:   "InhomogNeumann",
	BCRobin:            "Robin",
	BCReflectOdd:       "ReflectOdd",
	BCReflectEven:      "ReflectEven",
	BCExtrapolate:      "Extrapolate",
	BCMarshak:          "Marshak",
	BCSanchezPomraning: "SanchezPomraning",
	BCInflow:           "Inflow",
	BCOutflow:          "Outflow",
	BCSymmetry:         "Symmetry",
	BCPeriodic:         "Periodic",
	BCUserDefined1:     "UserDefined1",
	BCUserDefined2:     "UserDefined2",
	BCUserDefined3:     "UserDefined3",
}

// String returns the string representation of a BCType
func (bc BCType) String() string {
	if name, ok := bcNames[bc]; ok {
		return name
	}
	return "Unknown"
}

// BCNameMap provides a mapping from common boundary condition names to BCType
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCType{
	"none":     BCNone,
	"interior": BCInterior,
	"internal": BCInterior,

	"dirichlet":         BCDirichlet,
	"neumann":           BCNeumann,
	"inhomog_neumann":   BCInhomogNeumann,
	"robin":             BCRobin,
	"reflect_odd":       BCReflectOdd,
	"reflect_even":      BCReflectEven,
	"extrap":            BCExtrapolate,
	"extrapolate":       BCExtrapolate,
	"marshak":           BCMarshak,
	"sanchez_pomraning": BCSanchezPomraning,

	"inflow":   BCInflow,
	"inlet":    BCInflow,
	"outflow":  BCOutflow,
	"outlet":   BCOutflow,
	"symmetry": BCSymmetry,
	"periodic": BCPeriodic,
}

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) (bc BCType, err error) {
	var (
		ok        bool
		lowerName = strings.ToLower(strings.TrimSpace(name))
	)
	if bc, ok = BCNameMap[lowerName]; !ok {
		err = fmt.Errorf("unknown boundary condition name %q", name)
	}
	return
}
