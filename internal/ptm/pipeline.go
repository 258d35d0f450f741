package ptm

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/viennaptm/viennaptm/config"
	"github.com/viennaptm/viennaptm/internal/gromacs"
)

// Execute is the root command's entrypoint: it parses the flags, applies
// the requested modifications and writes the modified structure.
func Execute(cmd *cobra.Command, args []string) {
	c := config.New()
	if err := setupLogging(c.Logger, c.Debug); err != nil {
		stderr.Fatal(err)
	}

	flags := parseCmdFlags(cmd, c)
	if _, err := Run(flags, c); err != nil {
		stderr.Fatal(err)
	}
}

// Run applies the flags' modification requests to the input structure,
// optionally minimizes, writes the output file, and returns the run
// summary.
func Run(flags *Flags, c *config.Config) (*Output, error) {
	start := time.Now()

	s, err := ReadStructureFile(flags.in)
	if err != nil {
		return nil, err
	}

	library, err := openLibrary(flags.library)
	if err != nil {
		return nil, err
	}
	modifier, err := NewModifier(library)
	if err != nil {
		return nil, err
	}

	var report Report
	for _, r := range flags.requests {
		applied, err := modifier.Apply(s, r.Chain, r.Residue, r.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s: %v", r, err)
		}
		report = report.Add(applied)
	}

	if flags.minimize {
		if s, err = minimizeStructure(s, c.Gromacs); err != nil {
			return nil, err
		}
	}

	if err := WriteStructureFile(flags.out, s); err != nil {
		return nil, err
	}

	out := &Output{
		Input:          s.Name,
		Output:         flags.out,
		Execution:      time.Since(start).Seconds(),
		LibraryVersion: library.Version,
		Modifications:  s.Log,
		Minimized:      flags.minimize,
		Report:         report,
	}
	if flags.report != "" {
		if _, err := writeReport(flags.report, s, flags.out, library.Version, report, flags.minimize, out.Execution); err != nil {
			return nil, err
		}
	}

	stderr.Println(report.String())
	return out, nil
}

// minimizeStructure runs the GROMACS minimization pipeline on the
// structure in a scratch directory and returns the minimized coordinates,
// keeping the original name and modification log. GROMACS only emits PDB,
// so running through a scratch file keeps the caller's output format.
func minimizeStructure(s *Structure, g config.GromacsConfig) (*Structure, error) {
	dir, err := os.MkdirTemp("", "viennaptm-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create a scratch directory: %v", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.pdb")
	out := filepath.Join(dir, "minimized.pdb")
	if err := WriteStructureFile(in, s); err != nil {
		return nil, err
	}

	opts := gromacs.Options{
		Forcefield: g.Forcefield,
		Water:      g.Water,
		Mdp:        g.Mdp,
		MPI: gromacs.MPIConfig{
			Enabled:  g.Np > 1,
			Ranks:    g.Np,
			Launcher: "mpirun",
		},
	}
	if err := gromacs.Minimize(in, out, opts); err != nil {
		return nil, err
	}

	min, err := ReadStructureFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read the minimized structure: %v", err)
	}
	min.Name = s.Name
	min.Log = s.Log
	return min, nil
}

// ExecuteFetch is the entrypoint of the fetch command: download one PDB
// entry into the output directory.
func ExecuteFetch(cmd *cobra.Command, args []string) {
	c := config.New()
	if err := setupLogging(c.Logger, c.Debug); err != nil {
		stderr.Fatal(err)
	}

	if len(args) != 1 {
		cmd.Help()
		stderr.Fatal("fetch needs exactly one PDB identifier")
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil || dir == "" {
		dir = "."
	}

	path, err := FetchStructure(args[0], dir)
	if err != nil {
		stderr.Fatal(err)
	}
	stderr.Printf("wrote %s", path)
}

// ExecuteLibrary is the entrypoint of the library command: list the
// available modifications.
//
//	<Original> -> <Target>
func ExecuteLibrary(cmd *cobra.Command, args []string) {
	c := config.New()
	if err := setupLogging(c.Logger, c.Debug); err != nil {
		stderr.Fatal(err)
	}

	library, err := openLibrary(c.Library)
	if err != nil {
		stderr.Fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	for _, key := range library.Keys() {
		entry := library.entries[key]
		fmt.Fprintf(w, "%s\t->\t%s\n", entry.Original, entry.Target)
	}
	w.Flush()
	stderr.Printf("%d modifications (library version %s)", library.Len(), library.Version)
}

// ExecuteMinimize is the entrypoint of the minimize command: run only the
// energy minimization pipeline on the input structure.
func ExecuteMinimize(cmd *cobra.Command, args []string) {
	c := config.New()
	if err := setupLogging(c.Logger, c.Debug); err != nil {
		stderr.Fatal(err)
	}

	if c.Input == "" {
		cmd.Help()
		stderr.Fatal("no input structure: pass --input with a file path or PDB identifier")
	}

	p := inputParser{}
	in, err := p.resolveInput(c.Input)
	if err != nil {
		stderr.Fatal(err)
	}
	out := c.Output
	if err := p.checkOutput(out); err != nil {
		stderr.Fatal(err)
	}

	s, err := ReadStructureFile(in)
	if err != nil {
		stderr.Fatal(err)
	}
	if s, err = minimizeStructure(s, c.Gromacs); err != nil {
		stderr.Fatal(err)
	}
	if err := WriteStructureFile(out, s); err != nil {
		stderr.Fatal(err)
	}
	stderr.Printf("wrote %s", out)
}

// ExecuteRama is the entrypoint of the rama command: write a Ramachandran
// plot of the input structure.
func ExecuteRama(cmd *cobra.Command, args []string) {
	c := config.New()
	if err := setupLogging(c.Logger, c.Debug); err != nil {
		stderr.Fatal(err)
	}

	if c.Input == "" {
		cmd.Help()
		stderr.Fatal("no input structure: pass --input with a file path or PDB identifier")
	}

	p := inputParser{}
	in, err := p.resolveInput(c.Input)
	if err != nil {
		stderr.Fatal(err)
	}

	out, err := cmd.Flags().GetString("plot")
	if err != nil || out == "" {
		out = structureName(in) + ".rama.png"
	}

	s, err := ReadStructureFile(in)
	if err != nil {
		stderr.Fatal(err)
	}
	if err := WriteRamachandran(s, out); err != nil {
		stderr.Fatal(err)
	}
	stderr.Printf("wrote %s", out)
}
