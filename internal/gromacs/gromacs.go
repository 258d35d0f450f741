// Package gromacs shells out to GROMACS to energy minimize protein
// structures after modification.
package gromacs

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// fatalMarkers are strings in GROMACS output that mean a step failed even
// when the process exited zero (MPI launchers in particular swallow exit
// codes of their ranks).
var fatalMarkers = []string{
	"Fatal error",
	"Segmentation fault",
	"MPI_ABORT",
}

// snippetLines is how many lines of output around a fatal marker are
// included in the returned error.
const snippetLines = 20

// MPIConfig controls whether GROMACS steps run under an MPI launcher.
type MPIConfig struct {
	// Enabled runs mdrun under the launcher
	Enabled bool

	// Ranks is the np passed to the launcher
	Ranks int

	// Launcher binary, eg "mpirun"
	Launcher string
}

// validate checks the MPI settings before any step runs.
func (m MPIConfig) validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Ranks < 1 {
		return fmt.Errorf("MPI rank count must be at least 1, got %d", m.Ranks)
	}
	if m.Launcher == "" {
		return fmt.Errorf("no MPI launcher set")
	}
	return nil
}

// FindBinary locates the gmx executable: the GMX_BIN environment variable
// wins, then gmx on the PATH.
func FindBinary() (string, error) {
	if bin := os.Getenv("GMX_BIN"); bin != "" {
		if _, err := os.Stat(bin); err != nil {
			return "", fmt.Errorf("GMX_BIN points at %s but it does not exist", bin)
		}
		return bin, nil
	}

	bin, err := exec.LookPath("gmx")
	if err != nil {
		return "", fmt.Errorf("no gmx executable on PATH and GMX_BIN is unset. is GROMACS installed?")
	}
	return bin, nil
}

// runner executes gmx subcommands inside one working directory.
type runner struct {
	// path to the gmx executable
	binary string

	// the directory all steps run in
	dir string

	// MPI launcher settings
	mpi MPIConfig
}

// run executes one gmx subcommand and scans its output for fatal markers.
// stdin, when non-empty, is piped to the process (trjconv group
// selection). useMPI wraps the invocation in the MPI launcher.
func (r *runner) run(stdin string, useMPI bool, args ...string) error {
	name := r.binary
	if useMPI && r.mpi.Enabled {
		args = append([]string{"-np", strconv.Itoa(r.mpi.Ranks), r.binary}, args...)
		name = r.mpi.Launcher
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = r.dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	slog.Debug("running gromacs step", "binary", name, "args", args)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to execute %s %s: %v: %s", name, strings.Join(args, " "), err, output)
	}
	if marker, snippet := scanFatal(string(output)); marker != "" {
		return fmt.Errorf("%s %s reported %q:\n%s", name, strings.Join(args, " "), marker, snippet)
	}
	return nil
}

// expect checks that a step wrote the files it was supposed to.
func (r *runner) expect(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(r.path(f)); err != nil {
			return fmt.Errorf("expected output file %s was not created", f)
		}
	}
	return nil
}

// path resolves a file name within the runner's working directory.
func (r *runner) path(file string) string {
	return r.dir + string(os.PathSeparator) + file
}

// scanFatal looks for a fatal marker in step output and returns the
// marker plus up to snippetLines lines around its first occurrence.
func scanFatal(output string) (marker, snippet string) {
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		for _, m := range fatalMarkers {
			if !strings.Contains(line, m) {
				continue
			}

			start := i - snippetLines/2
			if start < 0 {
				start = 0
			}
			end := start + snippetLines
			if end > len(lines) {
				end = len(lines)
			}
			return m, strings.Join(lines[start:end], "\n")
		}
	}
	return "", ""
}
