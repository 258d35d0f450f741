package gromacs

import "fmt"

// pdb2gmx generates a GROMACS topology from the input structure file.
type pdb2gmx struct {
	// the structure file inside the working directory
	in string

	// force field name, eg "amber99sb-ildn"
	forcefield string

	// water model name, eg "tip3p"
	water string
}

// args assembles the gmx pdb2gmx invocation. hydrogens are ignored on
// read since the modification engine strips them anyway, and chains are
// merged so a single topology covers the whole structure.
func (p *pdb2gmx) args() []string {
	return []string{
		"pdb2gmx",
		"-f", p.in,
		"-o", "conf.gro",
		"-p", "topol.top",
		"-i", "posre.itp",
		"-ff", p.forcefield,
		"-water", p.water,
		"-ignh",
		"-chainsep", "id",
		"-merge", "all",
		"-q", "clean.pdb",
		"-v",
	}
}

func (p *pdb2gmx) run(r *runner) error {
	if err := r.run("", false, p.args()...); err != nil {
		return fmt.Errorf("failed to generate topology: %v", err)
	}
	return r.expect("conf.gro", "topol.top")
}
