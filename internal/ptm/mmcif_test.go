package ptm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCIF = `data_test
#
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_alt_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_seq_id
_atom_site.pdbx_PDB_ins_code
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
_atom_site.B_iso_or_equiv
_atom_site.auth_seq_id
_atom_site.auth_comp_id
_atom_site.auth_asym_id
_atom_site.auth_atom_id
_atom_site.pdbx_PDB_model_num
ATOM 1 N N . SER A 1 ? -0.529 1.360 0.000 1.00 9.80 2 SER A N 1
ATOM 2 C CA . SER A 1 ? 0.000 0.000 0.000 1.00 9.50 2 SER A CA 1
ATOM 3 O OG A SER A 1 ? -1.877 -0.900 -1.584 0.60 9.60 2 SER A OG 1
ATOM 4 O OG B SER A 1 ? -1.800 -0.950 -1.600 0.40 9.60 2 SER A OG 1
HETATM 5 O O . HOH A . ? 8.000 8.000 8.000 1.00 20.00 101 HOH A O 1
ATOM 6 N N . GLY A 2 ? 9.000 9.000 9.000 1.00 5.00 3 GLY A N 2
#
`

func TestReadMMCIF(t *testing.T) {
	s, err := readMMCIF(strings.NewReader(testCIF), "test")
	require.NoError(t, err)

	require.Len(t, s.Chains, 1)
	chain := s.Chains[0]
	assert.Equal(t, "A", chain.ID)

	// the model 2 row ends the read, the B conformer is dropped
	require.Len(t, chain.Residues, 2)

	ser := chain.Residues[0]
	assert.Equal(t, "SER", ser.Name)
	assert.Equal(t, 2, ser.Number) // auth numbering wins over label
	assert.Equal(t, []string{"N", "CA", "OG"}, ser.AtomNames())

	og := ser.Atom("OG")
	require.NotNil(t, og)
	assert.InDelta(t, -1.877, og.X, 1e-9)
	assert.InDelta(t, 0.60, og.Occupancy, 1e-9)
	assert.Equal(t, "O", og.Element)

	water := chain.Residues[1]
	assert.Equal(t, "HOH", water.Name)
	assert.Equal(t, 101, water.Number)
	assert.True(t, water.Atoms[0].Het)
}

func TestReadMMCIF_NoAtoms(t *testing.T) {
	_, err := readMMCIF(strings.NewReader("data_empty\n#\n"), "empty")
	assert.Error(t, err)
}

func TestWriteMMCIF_RoundTrip(t *testing.T) {
	s := readTestStructure(t)

	var buf bytes.Buffer
	require.NoError(t, writeMMCIF(&buf, s))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "data_peptide\n"))
	assert.Contains(t, out, "_atom_site.Cartn_x")

	again, err := readMMCIF(strings.NewReader(out), "peptide")
	require.NoError(t, err)

	if diff := cmp.Diff(atomNamesByResidue(s), atomNamesByResidue(again)); diff != "" {
		t.Errorf("atoms changed across formats (-want +got):\n%s", diff)
	}
}
