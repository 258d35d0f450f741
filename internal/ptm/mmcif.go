package ptm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// atomSiteFields maps lower-cased _atom_site tag names to their column
// index within the loop being read.
type atomSiteFields map[string]int

// get returns the column index for a tag, or -1.
func (m atomSiteFields) get(tag string) int {
	if i, ok := m[tag]; ok {
		return i
	}
	return -1
}

// str returns the row value of a tag with mmCIF nulls ("." and "?")
// collapsed to the empty string.
func (m atomSiteFields) str(row []string, tag string) string {
	i := m.get(tag)
	if i < 0 || i >= len(row) {
		return ""
	}
	if row[i] == "." || row[i] == "?" {
		return ""
	}
	return strings.Trim(row[i], `"'`)
}

// readMMCIF parses the _atom_site loop of an mmCIF file into a Structure.
// Only the first model is read.
func readMMCIF(r io.Reader, name string) (*Structure, error) {
	s := &Structure{Name: name}
	var chain *Chain
	var residue *Residue

	fields := atomSiteFields{}
	reading := false
	row := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "_atom_site.") {
			tag := strings.Fields(lower)[0]
			fields[tag] = len(fields)
			reading = true
			continue
		}

		if !reading {
			continue
		}
		if strings.HasPrefix(line, "_") || strings.HasPrefix(lower, "loop_") || strings.HasPrefix(lower, "data_") {
			// the _atom_site loop ended
			break
		}

		row++
		data := strings.Fields(line)

		if model := fields.str(data, "_atom_site.pdbx_pdb_model_num"); model != "" && model != "1" {
			break
		}

		atom, chainID, resName, resNum, iCode, err := parseAtomSiteRow(data, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to parse _atom_site row %d of %s: %v", row, name, err)
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
		return nil, fmt.Errorf("no _atom_site records in %s", name)
	}
	return s, nil
}

// parseAtomSiteRow reads one _atom_site data row. The auth_* tags are
// preferred over label_* so numbering matches the deposited PDB entry.
func parseAtomSiteRow(data []string, fields atomSiteFields) (atom *Atom, chainID, resName string, resNum int, iCode string, err error) {
	altLoc := fields.str(data, "_atom_site.label_alt_id")
	if altLoc != "" && altLoc != "A" {
		return nil, "", "", 0, "", nil
	}

	atom = &Atom{
		AltLoc:    altLoc,
		Element:   fields.str(data, "_atom_site.type_symbol"),
		Occupancy: 1.0,
	}
	if v := fields.str(data, "_atom_site.group_pdb"); v != "" {
		atom.Het = v != "ATOM"
	}

	atom.Name = fields.str(data, "_atom_site.auth_atom_id")
	if atom.Name == "" {
		atom.Name = fields.str(data, "_atom_site.label_atom_id")
	}
	if atom.Name == "" {
		return nil, "", "", 0, "", fmt.Errorf("no atom name")
	}
	if atom.Element == "" {
		atom.Element = elementFromName(atom.Name)
	}

	if v := fields.str(data, "_atom_site.id"); v != "" {
		if atom.Serial, err = strconv.Atoi(v); err != nil {
			return nil, "", "", 0, "", fmt.Errorf("bad id %q: %v", v, err)
		}
	}

	resName = fields.str(data, "_atom_site.auth_comp_id")
	if resName == "" {
		resName = fields.str(data, "_atom_site.label_comp_id")
	}

	chainID = fields.str(data, "_atom_site.auth_asym_id")
	if chainID == "" {
		chainID = fields.str(data, "_atom_site.label_asym_id")
	}

	num := fields.str(data, "_atom_site.auth_seq_id")
	if num == "" {
		num = fields.str(data, "_atom_site.label_seq_id")
	}
	if resNum, err = strconv.Atoi(num); err != nil {
		return nil, "", "", 0, "", fmt.Errorf("bad residue number %q: %v", num, err)
	}
	iCode = fields.str(data, "_atom_site.pdbx_pdb_ins_code")

	parse := func(tag string, dst *float64) error {
		v := fields.str(data, tag)
		if v == "" {
			return fmt.Errorf("missing %s", tag)
		}
		*dst, err = strconv.ParseFloat(v, 64)
		return err
	}
	if err = parse("_atom_site.cartn_x", &atom.X); err != nil {
		return nil, "", "", 0, "", err
	}
	if err = parse("_atom_site.cartn_y", &atom.Y); err != nil {
		return nil, "", "", 0, "", err
	}
	if err = parse("_atom_site.cartn_z", &atom.Z); err != nil {
		return nil, "", "", 0, "", err
	}

	if v := fields.str(data, "_atom_site.occupancy"); v != "" {
		if atom.Occupancy, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, "", "", 0, "", fmt.Errorf("bad occupancy %q: %v", v, err)
		}
	}
	if v := fields.str(data, "_atom_site.b_iso_or_equiv"); v != "" {
		if atom.Bfactor, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, "", "", 0, "", fmt.Errorf("bad b-factor %q: %v", v, err)
		}
	}

	return atom, chainID, resName, resNum, iCode, nil
}

// mmcifTags is the column set written by writeMMCIF, in order.
var mmcifTags = []string{
	"_atom_site.group_PDB",
	"_atom_site.id",
	"_atom_site.type_symbol",
	"_atom_site.auth_atom_id",
	"_atom_site.label_alt_id",
	"_atom_site.auth_comp_id",
	"_atom_site.auth_asym_id",
	"_atom_site.auth_seq_id",
	"_atom_site.pdbx_PDB_ins_code",
	"_atom_site.Cartn_x",
	"_atom_site.Cartn_y",
	"_atom_site.Cartn_z",
	"_atom_site.occupancy",
	"_atom_site.B_iso_or_equiv",
	"_atom_site.pdbx_PDB_model_num",
}

// writeMMCIF writes the structure as a single-model _atom_site loop.
func writeMMCIF(w io.Writer, s *Structure) error {
	s.renumber()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "data_%s\n#\nloop_\n", s.Name)
	for _, tag := range mmcifTags {
		fmt.Fprintf(bw, "%s\n", tag)
	}

	orEmpty := func(v string) string {
		if v == "" {
			return "."
		}
		return v
	}

	for _, c := range s.Chains {
		for _, r := range c.Residues {
			for _, a := range r.Atoms {
				record := "ATOM"
				if a.Het {
					record = "HETATM"
				}
				fmt.Fprintf(bw, "%s %d %s %s %s %s %s %d %s %.3f %.3f %.3f %.2f %.2f 1\n",
					record, a.Serial, orEmpty(a.Element), a.Name, orEmpty(a.AltLoc),
					r.Name, c.ID, r.Number, orEmpty(r.ICode),
					a.X, a.Y, a.Z, a.Occupancy, a.Bfactor)
			}
		}
	}
	fmt.Fprint(bw, "#\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write mmCIF: %v", err)
	}
	return nil
}
