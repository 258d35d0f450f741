package gromacs

import "fmt"

// editconf centers the structure in a cubic box with a 1.0 nm margin.
type editconf struct{}

func (e *editconf) args() []string {
	return []string{
		"editconf",
		"-f", "conf.gro",
		"-o", "boxed.gro",
		"-c",
		"-d", "1.0",
		"-bt", "cubic",
	}
}

func (e *editconf) run(r *runner) error {
	if err := r.run("", false, e.args()...); err != nil {
		return fmt.Errorf("failed to box the structure: %v", err)
	}
	return r.expect("boxed.gro")
}
