package ptm

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viennaptm/viennaptm/config"
)

// Request is one parsed "chain:residue=target" modification string.
type Request struct {
	// Chain identifier, a single character
	Chain string

	// Residue sequence number within the chain
	Residue int

	// Target is the three character abbreviation of the modified residue
	Target string
}

// String formats the request back into its flag form.
func (r Request) String() string {
	return fmt.Sprintf("%s:%d=%s", r.Chain, r.Residue, r.Target)
}

// Flags contains parsed cobra Flags like "input", "output", "modify", etc
// that are used by multiple commands.
type Flags struct {
	// the path of the structure file to modify (fetched first if the
	// input was a PDB identifier)
	in string

	// the name of the file to write the modified structure to
	out string

	// parsed modification requests, in flag order
	requests []Request

	// path to a custom library directory ("" means the bundled library)
	library string

	// path the JSON run report is written to ("" means no report)
	report string

	// whether to energy minimize before writing the output
	minimize bool
}

// inputParser contains methods for parsing flags from the input &cobra.Command.
type inputParser struct{}

// NewFlags makes a new flags object manually. for testing.
func NewFlags(in, out string, modifications []string, library, report string, minimize bool) (*Flags, error) {
	p := inputParser{}

	requests, err := p.parseModifications(modifications)
	if err != nil {
		return nil, err
	}
	if out == "" {
		out = p.guessOutput(in)
	}
	if err := p.checkOutput(out); err != nil {
		return nil, err
	}

	return &Flags{
		in:       in,
		out:      out,
		requests: requests,
		library:  library,
		report:   report,
		minimize: minimize,
	}, nil
}

// parseCmdFlags gathers the input path, output path, etc from a cobra cmd
// object plus the viper config. Returns Flags for ptm.Execute.
func parseCmdFlags(cmd *cobra.Command, c *config.Config) *Flags {
	p := inputParser{}

	if c.Input == "" {
		cmd.Help()
		stderr.Fatal("no input structure: pass --input with a file path or PDB identifier")
	}

	in, err := p.resolveInput(c.Input)
	if err != nil {
		stderr.Fatal(err)
	}

	requests, err := p.parseModifications(c.Modifications)
	if err != nil {
		cmd.Help()
		stderr.Fatal(err)
	}

	// config.New always fills Output with the documented output.pdb default
	if err := p.checkOutput(c.Output); err != nil {
		cmd.Help()
		stderr.Fatal(err)
	}

	return &Flags{
		in:       in,
		out:      c.Output,
		requests: requests,
		library:  c.Library,
		report:   c.Report,
		minimize: c.Gromacs.Minimize,
	}
}

// resolveInput turns the input flag into a local file path, downloading
// the entry from RCSB when a PDB identifier was passed instead of a path.
func (p *inputParser) resolveInput(input string) (string, error) {
	if _, err := os.Stat(input); err == nil {
		return input, nil
	}

	if looksLikePDBID(input) {
		return FetchStructure(input, ".")
	}
	return "", fmt.Errorf("input %q is neither a structure file nor a PDB identifier", input)
}

// parseModifications validates and parses "chain:residue=target" strings.
// An empty list is allowed: the pipeline then writes the structure through
// unchanged, with minimization still able to run.
func (p *inputParser) parseModifications(modifications []string) ([]Request, error) {
	if len(modifications) == 0 {
		slog.Warn("no modification input provided - skipping")
		return nil, nil
	}

	requests := make([]Request, len(modifications))
	for i, m := range modifications {
		r, err := p.parseModification(m)
		if err != nil {
			return nil, err
		}
		requests[i] = r
	}
	return requests, nil
}

// parseModification parses a single "chain:residue=target" string.
func (p *inputParser) parseModification(m string) (Request, error) {
	colon := strings.Index(m, ":")
	equals := strings.Index(m, "=")
	if colon < 0 || equals < colon {
		return Request{}, fmt.Errorf("modification %q is not of the chain:residue=target form", m)
	}

	chain := m[:colon]
	if len(chain) != 1 {
		return Request{}, fmt.Errorf("modification %q: chain %q must be a single character", m, chain)
	}

	residue, err := strconv.Atoi(m[colon+1 : equals])
	if err != nil {
		return Request{}, fmt.Errorf("modification %q: residue %q is not a number", m, m[colon+1:equals])
	}

	target := m[equals+1:]
	if len(target) != 3 {
		return Request{}, fmt.Errorf("modification %q: target %q must be a three character abbreviation", m, target)
	}

	return Request{Chain: chain, Residue: residue, Target: strings.ToUpper(target)}, nil
}

// guessOutput names the output file after the input structure.
func (p *inputParser) guessOutput(in string) string {
	if in == "" {
		return "output.pdb"
	}

	ext := ".pdb"
	if isCIFPath(in) {
		ext = ".cif"
	}
	return structureName(in) + ".modified" + ext
}

// checkOutput validates the output file suffix.
func (p *inputParser) checkOutput(out string) error {
	if !isPDBPath(out) && !isCIFPath(out) {
		return fmt.Errorf("output %q must end in .pdb or .cif", out)
	}
	return nil
}

// setupLogging points the default slog logger at the configured
// destination: "console" means stderr, anything else is a file path that
// logs are appended to.
func setupLogging(dest string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	out := os.Stderr
	if dest != "" && dest != "console" {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %v", dest, err)
		}
		out = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, opts)))
	return nil
}

// openLibrary loads the custom library directory when one was passed,
// the bundled library otherwise.
func openLibrary(dir string) (*Library, error) {
	if dir == "" {
		return NewLibrary()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return NewLibraryFromDir(dir)
}
