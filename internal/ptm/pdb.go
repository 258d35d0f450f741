package ptm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readPDB parses ATOM and HETATM records from a PDB file into a Structure.
// Only the first model of a multi-model file is read. For atoms with
// alternate locations only the blank or "A" conformer is kept.
func readPDB(r io.Reader, name string) (*Structure, error) {
	s := &Structure{Name: name}
	var chain *Chain
	var residue *Residue

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		if strings.HasPrefix(line, "ENDMDL") || strings.HasPrefix(line, "END ") || line == "END" {
			break
		}

		if strings.HasPrefix(line, "TER") {
			chain = nil
			residue = nil
			continue
		}

		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}

		atom, chainID, resName, resNum, iCode, err := parsePDBLine(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PDB line %d of %s: %v", lineNo, name, err)
		}
		if atom == nil {
			continue // skipped alternate conformer
		}

		if chain == nil || chain.ID != chainID {
			chain = s.Chain(chainID)
			if chain == nil {
				chain = &Chain{ID: chainID}
				s.Chains = append(s.Chains, chain)
			}
			residue = nil
		}

		if residue == nil || residue.Number != resNum || residue.Name != resName || residue.ICode != iCode {
			residue = &Residue{Name: resName, Number: resNum, ICode: iCode}
			chain.Residues = append(chain.Residues, residue)
		}

		residue.Atoms = append(residue.Atoms, atom)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", name, err)
	}

	if len(s.Chains) == 0 {
		return nil, fmt.Errorf("no ATOM or HETATM records in %s", name)
	}
	return s, nil
}

// parsePDBLine reads one ATOM/HETATM record by column ranges. A nil atom
// with a nil error means the line held a discarded alternate conformer.
func parsePDBLine(line string) (atom *Atom, chainID, resName string, resNum int, iCode string, err error) {
	if len(line) < 54 {
		return nil, "", "", 0, "", fmt.Errorf("record too short (%d chars)", len(line))
	}

	altLoc := strings.TrimSpace(line[16:17])
	if altLoc != "" && altLoc != "A" {
		return nil, "", "", 0, "", nil
	}

	atom = &Atom{
		Name:   strings.TrimSpace(line[12:16]),
		AltLoc: altLoc,
		Het:    strings.HasPrefix(line, "HETATM"),
	}

	if atom.Serial, err = strconv.Atoi(strings.TrimSpace(line[6:11])); err != nil {
		return nil, "", "", 0, "", fmt.Errorf("bad serial number: %v", err)
	}

	resName = strings.TrimSpace(line[17:20])
	chainID = strings.TrimSpace(line[21:22])
	if resNum, err = strconv.Atoi(strings.TrimSpace(line[22:26])); err != nil {
		return nil, "", "", 0, "", fmt.Errorf("bad residue number: %v", err)
	}
	iCode = strings.TrimSpace(line[26:27])

	if atom.X, err = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64); err != nil {
		return nil, "", "", 0, "", fmt.Errorf("bad x coordinate: %v", err)
	}
	if atom.Y, err = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64); err != nil {
		return nil, "", "", 0, "", fmt.Errorf("bad y coordinate: %v", err)
	}
	if atom.Z, err = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64); err != nil {
		return nil, "", "", 0, "", fmt.Errorf("bad z coordinate: %v", err)
	}

	// occupancy, b-factor and element are optional in practice
	atom.Occupancy = 1.0
	if len(line) >= 60 {
		if occ := strings.TrimSpace(line[54:60]); occ != "" {
			if atom.Occupancy, err = strconv.ParseFloat(occ, 64); err != nil {
				return nil, "", "", 0, "", fmt.Errorf("bad occupancy: %v", err)
			}
		}
	}
	if len(line) >= 66 {
		if bfac := strings.TrimSpace(line[60:66]); bfac != "" {
			if atom.Bfactor, err = strconv.ParseFloat(bfac, 64); err != nil {
				return nil, "", "", 0, "", fmt.Errorf("bad b-factor: %v", err)
			}
		}
	}
	if len(line) >= 78 {
		atom.Element = strings.TrimSpace(line[76:78])
	}
	if atom.Element == "" {
		atom.Element = elementFromName(atom.Name)
	}

	return atom, chainID, resName, resNum, iCode, nil
}

// writePDB writes the structure as fixed-width ATOM/HETATM records with a
// TER after each chain. Atom serials are renumbered first.
func writePDB(w io.Writer, s *Structure) error {
	s.renumber()

	bw := bufio.NewWriter(w)
	for _, c := range s.Chains {
		var last *Atom
		for _, r := range c.Residues {
			for _, a := range r.Atoms {
				if err := writePDBLine(bw, a, c.ID, r); err != nil {
					return err
				}
				last = a
			}
		}
		if last != nil && !last.Het {
			fmt.Fprintf(bw, "TER   %5d      %3s %1s%4d\n",
				last.Serial+1, c.Residues[len(c.Residues)-1].Name, c.ID, c.Residues[len(c.Residues)-1].Number)
		}
	}
	fmt.Fprint(bw, "END\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PDB: %v", err)
	}
	return nil
}

// writePDBLine writes a single fixed-width atom record. Atom names shorter
// than four characters start one column in, per the PDB format.
func writePDBLine(w io.Writer, a *Atom, chainID string, r *Residue) error {
	record := "ATOM"
	if a.Het {
		record = "HETATM"
	}

	var err error
	if len(a.Name) < 4 {
		_, err = fmt.Fprintf(w, "%-6s%5d  %-3s%1s%3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			record, a.Serial, a.Name, a.AltLoc, r.Name, chainID, r.Number, r.ICode,
			a.X, a.Y, a.Z, a.Occupancy, a.Bfactor, a.Element)
	} else if len(a.Name) == 4 {
		_, err = fmt.Fprintf(w, "%-6s%5d %4s%1s%3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			record, a.Serial, a.Name, a.AltLoc, r.Name, chainID, r.Number, r.ICode,
			a.X, a.Y, a.Z, a.Occupancy, a.Bfactor, a.Element)
	} else {
		err = fmt.Errorf("atom name %q longer than four characters", a.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to write PDB record for atom %d: %v", a.Serial, err)
	}
	return nil
}
