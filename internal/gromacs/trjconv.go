package gromacs

import "fmt"

// trjconv converts the minimized coordinates back into a PDB file. The
// "0\n" on stdin selects the System group.
type trjconv struct{}

func (t *trjconv) args() []string {
	return []string{
		"trjconv",
		"-f", "em.gro",
		"-s", "em.tpr",
		"-o", "minimized.pdb",
	}
}

func (t *trjconv) run(r *runner) error {
	if err := r.run("0\n", false, t.args()...); err != nil {
		return fmt.Errorf("failed to convert the minimized structure: %v", err)
	}
	return r.expect("minimized.pdb")
}
