package gromacs

import "fmt"

// grompp compiles the minimization parameters, structure and topology
// into a run input file.
type grompp struct {
	// minimization parameters file inside the working directory
	mdp string
}

// args assembles the gmx grompp invocation. maxwarn is high because
// freshly grafted residues trigger a flood of harmless warnings about
// missing hydrogens and atom name mismatches.
func (g *grompp) args() []string {
	return []string{
		"grompp",
		"-f", g.mdp,
		"-c", "boxed.gro",
		"-p", "topol.top",
		"-o", "em.tpr",
		"-maxwarn", "50",
	}
}

func (g *grompp) run(r *runner) error {
	if err := r.run("", false, g.args()...); err != nil {
		return fmt.Errorf("failed to preprocess the minimization run: %v", err)
	}
	return r.expect("em.tpr")
}
