package ptm

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// libraryVersion is the release date of the bundled modification library.
const libraryVersion = "2025-12-18"

//go:embed resources/library
var libraryFS embed.FS

// AtomPair maps an atom name in the original residue to its name in the
// target residue. An empty From means the atom only exists in the target
// (added by a branch); an empty To means the atom is deleted.
type AtomPair struct {
	From string
	To   string
}

// UnmarshalJSON reads the library's [original, target] pair form, where
// either side may be null.
func (p *AtomPair) UnmarshalJSON(b []byte) error {
	var pair [2]*string
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("atom mapping entries must be [original, target] pairs: %v", err)
	}
	if pair[0] != nil {
		p.From = *pair[0]
	}
	if pair[1] != nil {
		p.To = *pair[1]
	}
	return nil
}

// AddBranch describes how one branch of the original residue is rebuilt:
// the anchors defining the overlay, their weights, and the template atoms
// to transfer once aligned.
type AddBranch struct {
	// atom names defining the overlay between original and template
	AnchorAtoms []string `json:"anchor_atoms"`

	// per anchor weight; anchors contribute to the alignment to a
	// varying extent (tuned manually for new modifications)
	Weights []float64 `json:"weights"`

	// template atom names to be added (removal happens via the mapping)
	AddAtoms []string `json:"add_atoms"`
}

// Entry is a single modification: how to turn one residue type into its
// modified form.
type Entry struct {
	// Original residue abbreviation, eg "SER"
	Original string `json:"-"`

	// Target residue abbreviation, eg "SEP"
	Target string `json:"-"`

	// maps original atom names to target atom names
	AtomMapping []AtomPair `json:"atom_mapping"`

	// most modifications need a single branch, but the list allows
	// rebuilding several regions without truncating to the last
	// common atom
	AddBranches []AddBranch `json:"add_branches"`
}

// Library holds the available modifications plus the directory of
// minimized template structures, one <TARGET>.pdb per target residue.
type Library struct {
	// Version is the library release date, or "custom"
	Version string

	entries   map[string]*Entry
	templates fs.FS
}

// NewLibrary loads the bundled modification library.
func NewLibrary() (*Library, error) {
	sub, err := fs.Sub(libraryFS, path.Join("resources", "library"))
	if err != nil {
		return nil, fmt.Errorf("failed to open bundled library: %v", err)
	}

	l, err := loadLibrary(sub, libraryVersion)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded bundled modification library", "version", l.Version, "modifications", len(l.entries))
	return l, nil
}

// NewLibraryFromDir loads a custom library directory holding library.json
// and the template PDB files.
func NewLibraryFromDir(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("library directory does not exist: %s", dir)
	}

	l, err := loadLibrary(os.DirFS(dir), "custom")
	if err != nil {
		return nil, err
	}
	slog.Info("loaded custom modification library", "dir", dir, "modifications", len(l.entries))
	return l, nil
}

// loadLibrary parses library.json from the passed filesystem and checks
// that template PDB files are present alongside it.
func loadLibrary(fsys fs.FS, version string) (*Library, error) {
	data, err := fs.ReadFile(fsys, "library.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read library.json: %v", err)
	}

	var raw map[string]*Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse library.json: %v", err)
	}

	l := &Library{Version: version, entries: make(map[string]*Entry, len(raw)), templates: fsys}
	for key, entry := range raw {
		parts := strings.Split(key, "_")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("library key %q is not of the ORIGINAL_TARGET form", key)
		}
		entry.Original = parts[0]
		entry.Target = parts[1]

		for i := range entry.AddBranches {
			branch := &entry.AddBranches[i]
			if len(branch.Weights) > 0 && len(branch.Weights) != len(branch.AnchorAtoms) {
				return nil, fmt.Errorf("library entry %s: %d weights for %d anchor atoms",
					key, len(branch.Weights), len(branch.AnchorAtoms))
			}
			if len(branch.Weights) == 0 && len(branch.AnchorAtoms) > 0 {
				slog.Warn("no weights provided for branch, assuming all anchors are equally important",
					"entry", key, "anchors", len(branch.AnchorAtoms))
				branch.Weights = make([]float64, len(branch.AnchorAtoms))
				for j := range branch.Weights {
					branch.Weights[j] = 1.0
				}
			}
		}

		l.entries[key] = entry
		slog.Debug("modification added", "original", entry.Original, "target", entry.Target)
	}

	// the template structures must be available before any lookups
	templates := 0
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list library templates: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".pdb") {
			templates++
		}
	}
	if templates == 0 {
		return nil, fmt.Errorf("library holds no template PDB files")
	}

	return l, nil
}

// Entry finds the modification turning original into target.
func (l *Library) Entry(original, target string) (*Entry, error) {
	entry, ok := l.entries[original+"_"+target]
	if !ok {
		return nil, fmt.Errorf("no modification %s->%s in library (version %s)", original, target, l.Version)
	}
	return entry, nil
}

// Template loads the minimized template residue for a target abbreviation:
// the first residue of <TARGET>.pdb.
func (l *Library) Template(target string) (*Residue, error) {
	name := target + ".pdb"
	f, err := l.templates.Open(name)
	if err != nil {
		return nil, fmt.Errorf("no template structure %s in library", name)
	}
	defer f.Close()

	s, err := readPDB(f, target)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %v", name, err)
	}
	return s.Chains[0].Residues[0], nil
}

// Keys returns the ORIGINAL_TARGET keys of the library, sorted.
func (l *Library) Keys() []string {
	keys := maps.Keys(l.entries)
	sort.Strings(keys)
	return keys
}

// Len returns the number of modifications in the library.
func (l *Library) Len() int {
	return len(l.entries)
}
