// Package ptm reads protein structures, grafts post-translational
// modifications onto their residues and writes the results back out.
package ptm

import (
	"fmt"
	"log"
	"os"
	"strings"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Atom is a single atom record read from a structure file.
type Atom struct {
	// serial number from the input file
	Serial int

	// atom name, eg "CA" or "OG"
	Name string

	// alternate location indicator (usually empty)
	AltLoc string

	// one or two character element symbol, eg "C", "SE"
	Element string

	// coordinates in Angstroms
	X, Y, Z float64

	// occupancy, 0.0 through 1.0
	Occupancy float64

	// temperature factor
	Bfactor float64

	// whether the atom came from a HETATM record
	Het bool
}

// Coord returns the atom's position.
func (a *Atom) Coord() [3]float64 {
	return [3]float64{a.X, a.Y, a.Z}
}

// SetCoord moves the atom.
func (a *Atom) SetCoord(p [3]float64) {
	a.X, a.Y, a.Z = p[0], p[1], p[2]
}

// Residue is a single amino-acid (or hetero) unit within a chain.
type Residue struct {
	// three character residue name, eg "SER"
	Name string

	// residue sequence number from the input file
	Number int

	// insertion code (usually empty)
	ICode string

	// atoms in file order
	Atoms []*Atom
}

// Chain is an ordered list of residues sharing a chain identifier.
type Chain struct {
	// single character chain identifier, eg "A"
	ID string

	// residues in file order
	Residues []*Residue
}

// Modification records one applied change for the structure's log.
type Modification struct {
	// ResidueNumber of the modified residue
	ResidueNumber int `json:"residueNumber"`

	// Chain identifier of the modified residue
	Chain string `json:"chain"`

	// Original residue type before the modification, eg "SER"
	Original string `json:"original"`

	// Target residue type after the modification, eg "SEP"
	Target string `json:"target"`
}

// Structure is a parsed structure file plus the log of modifications
// that have been applied to it.
type Structure struct {
	// Name of the structure (file stem or PDB identifier)
	Name string

	// chains in file order
	Chains []*Chain

	// applied modifications, oldest first
	Log []Modification
}

// Atom returns the first atom with the passed name, or nil.
func (r *Residue) Atom(name string) *Atom {
	for _, a := range r.Atoms {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AtomNames returns the residue's atom names in order.
func (r *Residue) AtomNames() []string {
	names := make([]string, len(r.Atoms))
	for i, a := range r.Atoms {
		names[i] = a.Name
	}
	return names
}

// AddAtom appends an atom to the residue.
func (r *Residue) AddAtom(a *Atom) {
	r.Atoms = append(r.Atoms, a)
}

// RemoveAtom removes the first atom with the passed name.
// It returns false if no atom had the name.
func (r *Residue) RemoveAtom(name string) bool {
	for i, a := range r.Atoms {
		if a.Name == name {
			r.Atoms = append(r.Atoms[:i], r.Atoms[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveHydrogens removes every atom whose name starts with "H" and
// returns the names of the removed atoms.
func (r *Residue) RemoveHydrogens() []string {
	var removed []string
	kept := r.Atoms[:0]
	for _, a := range r.Atoms {
		if strings.HasPrefix(a.Name, "H") {
			removed = append(removed, a.Name)
			continue
		}
		kept = append(kept, a)
	}
	r.Atoms = kept
	return removed
}

// Residue returns the residue with the passed sequence number, or nil.
func (c *Chain) Residue(number int) *Residue {
	for _, r := range c.Residues {
		if r.Number == number {
			return r
		}
	}
	return nil
}

// Chain returns the chain with the passed identifier, or nil.
func (s *Structure) Chain(id string) *Chain {
	for _, c := range s.Chains {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Residue finds a residue by chain identifier and sequence number.
func (s *Structure) Residue(chainID string, number int) (*Residue, error) {
	c := s.Chain(chainID)
	if c == nil {
		return nil, fmt.Errorf("no chain %q in %s", chainID, s.Name)
	}

	r := c.Residue(number)
	if r == nil {
		return nil, fmt.Errorf("no residue %d in chain %q of %s", number, chainID, s.Name)
	}
	return r, nil
}

// AtomCount returns the total number of atoms in the structure.
func (s *Structure) AtomCount() int {
	count := 0
	for _, c := range s.Chains {
		for _, r := range c.Residues {
			count += len(r.Atoms)
		}
	}
	return count
}

// LogModification appends a record to the structure's modification log.
func (s *Structure) LogModification(number int, chainID, original, target string) {
	s.Log = append(s.Log, Modification{
		ResidueNumber: number,
		Chain:         chainID,
		Original:      original,
		Target:        target,
	})
}

// renumber rewrites atom serial numbers sequentially, for writing a
// structure whose atoms were added or removed.
func (s *Structure) renumber() {
	serial := 1
	for _, c := range s.Chains {
		for _, r := range c.Residues {
			for _, a := range r.Atoms {
				a.Serial = serial
				serial++
			}
		}
	}
}

// elementFromName guesses an element symbol from a PDB atom name.
// Hydrogen names may start with a digit, eg "1HB"
func elementFromName(name string) string {
	if name == "" {
		return ""
	}
	if len(name) == 4 || name[0] == 'H' || name[0] >= '0' && name[0] <= '9' {
		return "H"
	}

	switch name[0] {
	case 'C':
		switch name {
		case "CU":
			return "Cu"
		case "CO":
			return "Co"
		case "CL":
			return "Cl"
		}
		return "C"
	case 'N':
		if name == "NA" {
			return "Na"
		}
		return "N"
	case 'O':
		return "O"
	case 'P':
		return "P"
	case 'S':
		if name == "SE" {
			return "Se"
		}
		return "S"
	case 'F':
		if name == "FE" {
			return "Fe"
		}
		return "F"
	case 'Z':
		if name == "ZN" {
			return "Zn"
		}
	case 'M':
		if name == "MG" {
			return "Mg"
		}
	}
	return name[:1]
}
