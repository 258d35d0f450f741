package gromacs

import "fmt"

// mdrun performs the energy minimization itself. It is the only step that
// runs under the MPI launcher when one is configured.
type mdrun struct{}

func (m *mdrun) args() []string {
	return []string{
		"mdrun",
		"-v",
		"-deffnm", "em",
	}
}

func (m *mdrun) run(r *runner) error {
	if err := r.run("", true, m.args()...); err != nil {
		return fmt.Errorf("failed to run the energy minimization: %v", err)
	}
	return r.expect("em.gro")
}
