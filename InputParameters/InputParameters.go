package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/notargets/gobndry/bndry"
	"github.com/notargets/gobndry/geometry"
	"github.com/notargets/gobndry/grids"
	"github.com/notargets/gobndry/utils"
)

// BoxSpec is an inclusive cell range, trailing coordinates default to zero
type BoxSpec struct {
	Lo []int `json:"Lo"`
	Hi []int `json:"Hi"`
}

func (bs BoxSpec) Box() (b geometry.Box, err error) {
	if len(bs.Lo) > geometry.SpaceDim || len(bs.Hi) > geometry.SpaceDim {
		err = fmt.Errorf("box %v-%v has more than %d coordinates", bs.Lo, bs.Hi, geometry.SpaceDim)
		return
	}
	b = geometry.NewBox(geometry.NewIntVect(bs.Lo...), geometry.NewIntVect(bs.Hi...))
	if !b.Ok() {
		err = fmt.Errorf("empty box %s", b)
	}
	return
}

// CaseParameters describes a grid layout and its boundary conditions, read
// from a YAML case file
type CaseParameters struct {
	Title        string            `json:"Title"`
	Domain       BoxSpec           `json:"Domain"`
	Periodic     []bool            `json:"Periodic"`
	Boxes        []BoxSpec         `json:"Boxes"`
	NRanks       int               `json:"NRanks"`
	NComp        int               `json:"NComp"`
	Distribution string            `json:"Distribution"`
	BCs          map[string]string `json:"BCs"` // Face name, e.g. "xlo", to BC name
	BoundLoc     float64           `json:"BoundLoc"`
	InRad        *int              `json:"InRad"`
	OutRad       *int              `json:"OutRad"`
	ExtentRad    *int              `json:"ExtentRad"`
}

func (ip *CaseParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.NRanks == 0 {
		ip.NRanks = 1
	}
	if ip.NComp == 0 {
		ip.NComp = 1
	}
	if len(ip.Distribution) == 0 {
		ip.Distribution = "roundrobin"
	}
	return ip.Validate()
}

// Validate checks everything a case needs before grids are built from it
func (ip *CaseParameters) Validate() (err error) {
	if _, err = ip.Domain.Box(); err != nil {
		return fmt.Errorf("Domain: %w", err)
	}
	if len(ip.Periodic) > geometry.SpaceDim {
		return fmt.Errorf("Periodic has %d entries, at most %d allowed", len(ip.Periodic), geometry.SpaceDim)
	}
	if len(ip.Boxes) == 0 {
		return fmt.Errorf("no Boxes given")
	}
	if _, err = ip.BoxArray(); err != nil {
		return
	}
	if ip.NRanks < 1 || ip.NComp < 1 {
		return fmt.Errorf("NRanks %d and NComp %d must be positive", ip.NRanks, ip.NComp)
	}
	if _, err = ip.Strategy(); err != nil {
		return
	}
	if _, err = ip.FaceBCs(); err != nil {
		return
	}
	opt := ip.Options()
	if opt.InRad < 0 || opt.OutRad < 0 || opt.ExtentRad < 0 || opt.InRad+opt.OutRad == 0 {
		return fmt.Errorf("invalid radii in=%d out=%d extent=%d", opt.InRad, opt.OutRad, opt.ExtentRad)
	}
	return
}

func (ip *CaseParameters) Geometry() geometry.Geometry {
	var (
		periodic [geometry.SpaceDim]bool
	)
	copy(periodic[:], ip.Periodic)
	domain, _ := ip.Domain.Box()
	return geometry.NewGeometry(domain, periodic)
}

func (ip *CaseParameters) BoxArray() (ba grids.BoxArray, err error) {
	boxes := make([]geometry.Box, len(ip.Boxes))
	for i, bs := range ip.Boxes {
		if boxes[i], err = bs.Box(); err != nil {
			err = fmt.Errorf("Boxes[%d]: %w", i, err)
			return
		}
	}
	ba = grids.NewBoxArray(boxes...)
	if !ba.IsDisjoint() {
		err = fmt.Errorf("Boxes overlap")
	}
	return
}

func (ip *CaseParameters) Strategy() (grids.DistributionStrategy, error) {
	return grids.NewDistributionStrategy(ip.Distribution)
}

// FaceBCs maps each face named in BCs to its boundary condition type
func (ip *CaseParameters) FaceBCs() (bcs map[geometry.Orientation]utils.BCType, err error) {
	bcs = make(map[geometry.Orientation]utils.BCType, len(ip.BCs))
	for name, bcName := range ip.BCs {
		var (
			face geometry.Orientation
			bc   utils.BCType
		)
		if face, err = geometry.ParseOrientation(name); err != nil {
			return
		}
		if bc, err = utils.ParseBCName(bcName); err != nil {
			return
		}
		bcs[face] = bc
	}
	return
}

// Options are the boundary buffer radii, unset radii take the defaults
func (ip *CaseParameters) Options() (opt bndry.Options) {
	opt = bndry.DefaultOptions()
	if ip.InRad != nil {
		opt.InRad = *ip.InRad
	}
	if ip.OutRad != nil {
		opt.OutRad = *ip.OutRad
	}
	if ip.ExtentRad != nil {
		opt.ExtentRad = *ip.ExtentRad
	}
	return
}

func (ip *CaseParameters) Print() {
	opt := ip.Options()
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v-%v\t= Domain\n", ip.Domain.Lo, ip.Domain.Hi)
	fmt.Printf("%v\t= Periodic\n", ip.Periodic)
	fmt.Printf("[%d]\t\t\t\t= Boxes\n", len(ip.Boxes))
	fmt.Printf("[%d]\t\t\t\t= Ranks\n", ip.NRanks)
	fmt.Printf("[%d]\t\t\t\t= Components\n", ip.NComp)
	fmt.Printf("[%s]\t\t= Distribution\n", ip.Distribution)
	fmt.Printf("[%d %d %d]\t\t\t= In/Out/Extent radii\n", opt.InRad, opt.OutRad, opt.ExtentRad)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
