package gromacs

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

//go:embed resources/minim.mdp
var defaultMdp []byte

// Options are the settings for one minimization run.
type Options struct {
	// Forcefield passed to pdb2gmx, eg "amber99sb-ildn"
	Forcefield string

	// Water model passed to pdb2gmx, eg "tip3p"
	Water string

	// Mdp is a path to a custom minimization parameters file. Empty
	// means the bundled steepest descent parameters
	Mdp string

	// MPI launcher settings for mdrun
	MPI MPIConfig
}

// step is one stage of the minimization pipeline.
type step interface {
	run(r *runner) error
}

// Minimize energy minimizes the structure at in and writes the minimized
// PDB to out. The five GROMACS steps run in order inside a scratch
// directory that is removed afterwards.
func Minimize(in, out string, opts Options) error {
	if err := opts.MPI.validate(); err != nil {
		return err
	}

	binary, err := FindBinary()
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "viennaptm-minimize-*")
	if err != nil {
		return fmt.Errorf("failed to create a scratch directory: %v", err)
	}
	defer os.RemoveAll(dir)

	r := &runner{binary: binary, dir: dir, mpi: opts.MPI}

	if err := copyFile(in, r.path("input.pdb")); err != nil {
		return fmt.Errorf("failed to stage the input structure: %v", err)
	}
	if err := writeMdp(r.path("minim.mdp"), opts.Mdp); err != nil {
		return err
	}

	slog.Info("minimizing structure", "input", in, "forcefield", opts.Forcefield,
		"water", opts.Water, "mpi", opts.MPI.Enabled)

	steps := []step{
		&pdb2gmx{in: "input.pdb", forcefield: opts.Forcefield, water: opts.Water},
		&editconf{},
		&grompp{mdp: "minim.mdp"},
		&mdrun{},
		&trjconv{},
	}
	for _, s := range steps {
		if err := s.run(r); err != nil {
			return err
		}
	}

	if err := copyFile(r.path("minimized.pdb"), out); err != nil {
		return fmt.Errorf("failed to copy the minimized structure to %s: %v", out, err)
	}
	slog.Info("minimization finished", "output", out)
	return nil
}

// writeMdp places the minimization parameters in the scratch directory:
// the custom file when one was passed, the bundled parameters otherwise.
func writeMdp(dst, custom string) error {
	if custom == "" {
		if err := os.WriteFile(dst, defaultMdp, 0644); err != nil {
			return fmt.Errorf("failed to write the bundled mdp file: %v", err)
		}
		return nil
	}
	if err := copyFile(custom, dst); err != nil {
		return fmt.Errorf("failed to stage the custom mdp file: %v", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
