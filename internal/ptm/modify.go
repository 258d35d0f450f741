package ptm

import (
	"fmt"
	"log/slog"
)

// Modifier grafts library modifications onto structure residues.
type Modifier struct {
	library *Library
}

// NewModifier creates a modifier around the passed library, or around the
// bundled library when nil is passed.
func NewModifier(library *Library) (*Modifier, error) {
	if library == nil {
		var err error
		if library, err = NewLibrary(); err != nil {
			return nil, err
		}
	}
	return &Modifier{library: library}, nil
}

// Library returns the modification library used by this modifier.
func (m *Modifier) Library() *Library {
	return m.library
}

// Apply turns one residue of the structure into its modified form, in
// place: hydrogens are stripped, each branch of the modification is
// aligned onto the residue's anchor atoms and its new atoms transferred,
// then atoms are deleted or renamed per the entry's atom mapping. The
// change is appended to the structure's modification log.
func (m *Modifier) Apply(s *Structure, chainID string, residueNumber int, target string) (Report, error) {
	var report Report

	residue, err := s.Residue(chainID, residueNumber)
	if err != nil {
		return report, err
	}
	original := residue.Name

	removed := residue.RemoveHydrogens()
	report.AtomsDeleted += len(removed)
	if len(removed) > 0 {
		slog.Debug("removed hydrogens before modification",
			"chain", chainID, "residue", residueNumber, "count", len(removed))
	}

	entry, err := m.library.Entry(original, target)
	if err != nil {
		return report, err
	}
	template, err := m.library.Template(target)
	if err != nil {
		return report, err
	}

	// atom names may differ between the original and modified residue, so
	// anchors are named on the template side and mapped back. In VAL->V3H
	// the template anchor CG1 maps to CG2 in the original residue.
	reverse := make(map[string]string, len(entry.AtomMapping))
	for _, pair := range entry.AtomMapping {
		if pair.To != "" {
			reverse[pair.To] = pair.From
		}
	}

	het := len(residue.Atoms) > 0 && residue.Atoms[0].Het

	for _, branch := range entry.AddBranches {
		reference := make([][3]float64, len(branch.AnchorAtoms))
		anchors := make([][3]float64, len(branch.AnchorAtoms))
		for i, name := range branch.AnchorAtoms {
			originalName, ok := reverse[name]
			if !ok || originalName == "" {
				return report, fmt.Errorf("anchor atom %q of %s->%s has no counterpart in the original residue",
					name, original, target)
			}

			refAtom := residue.Atom(originalName)
			if refAtom == nil {
				return report, fmt.Errorf("residue %s:%d is missing anchor atom %q", chainID, residueNumber, originalName)
			}
			tmplAtom := template.Atom(name)
			if tmplAtom == nil {
				return report, fmt.Errorf("template %s is missing anchor atom %q", target, name)
			}

			reference[i] = refAtom.Coord()
			anchors[i] = tmplAtom.Coord()
		}
		slog.Debug("aligning branch", "original", original, "target", target,
			"anchors", branch.AnchorAtoms)

		trans, err := computeAlignment(reference, anchors, branch.Weights)
		if err != nil {
			return report, fmt.Errorf("failed to align %s->%s onto %s:%d: %v",
				original, target, chainID, residueNumber, err)
		}

		for _, name := range branch.AddAtoms {
			tmplAtom := template.Atom(name)
			if tmplAtom == nil {
				return report, fmt.Errorf("template %s is missing add atom %q", target, name)
			}

			added := &Atom{
				Name:      name,
				Element:   tmplAtom.Element,
				Occupancy: 1.0,
				Bfactor:   0.0,
				Het:       het,
			}
			added.SetCoord(trans.apply(tmplAtom.Coord()))
			residue.AddAtom(added)
			report.AtomsAdded++
		}
	}

	// apply the mapping: a missing target side deletes the atom, a name
	// change renames it. Atoms with no original side were added above.
	for _, pair := range entry.AtomMapping {
		if pair.From == "" {
			continue
		}
		if pair.To == "" {
			if residue.RemoveAtom(pair.From) {
				report.AtomsDeleted++
			}
			continue
		}
		if pair.From != pair.To {
			atom := residue.Atom(pair.From)
			if atom == nil {
				return report, fmt.Errorf("cannot rename atom %q of %s:%d: not present",
					pair.From, chainID, residueNumber)
			}
			atom.Name = pair.To
			report.AtomsRenamed++
		}
	}

	residue.Name = template.Name
	s.LogModification(residueNumber, chainID, original, target)
	slog.Info("applied modification",
		"chain", chainID, "residue", residueNumber, "original", original, "target", target)

	return report, nil
}
