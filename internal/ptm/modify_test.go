package ptm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifier_Apply(t *testing.T) {
	s := readTestStructure(t)
	m, err := NewModifier(nil)
	require.NoError(t, err)

	report, err := m.Apply(s, "A", 2, "SEP")
	require.NoError(t, err)

	residue, err := s.Residue("A", 2)
	require.NoError(t, err)
	assert.Equal(t, "SEP", residue.Name)

	// the four hydrogens are gone, the phosphate group is on
	assert.Equal(t, []string{"N", "CA", "C", "O", "CB", "OG", "P", "O1P", "O2P", "O3P"},
		residue.AtomNames())
	assert.Equal(t, Report{AtomsAdded: 4, AtomsDeleted: 4}, report)

	// the fixture's anchors sit exactly at the template's coordinates, so
	// the phosphate lands exactly where the template has it
	p := residue.Atom("P")
	require.NotNil(t, p)
	assert.InDelta(t, -2.905, p.X, 1e-6)
	assert.InDelta(t, -1.723, p.Y, 1e-6)
	assert.InDelta(t, -2.510, p.Z, 1e-6)
	assert.Equal(t, 1.0, p.Occupancy)
	assert.Equal(t, 0.0, p.Bfactor)
	assert.Equal(t, "P", p.Element)
	assert.False(t, p.Het)

	// the change is on the structure's log
	require.Len(t, s.Log, 1)
	assert.Equal(t, Modification{ResidueNumber: 2, Chain: "A", Original: "SER", Target: "SEP"}, s.Log[0])
}

func TestModifier_Apply_Errors(t *testing.T) {
	m, err := NewModifier(nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		chain   string
		residue int
		target  string
	}{
		{"unknown chain", "B", 2, "SEP"},
		{"unknown residue", "A", 99, "SEP"},
		{"no library entry for the residue type", "A", 1, "SEP"},
		{"unknown target", "A", 2, "XXX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := readTestStructure(t)
			_, err := m.Apply(s, tt.chain, tt.residue, tt.target)
			assert.Error(t, err)
			assert.Empty(t, s.Log)
		})
	}
}

func TestModifier_Apply_MissingAnchor(t *testing.T) {
	s := readTestStructure(t)
	residue, err := s.Residue("A", 2)
	require.NoError(t, err)
	require.True(t, residue.RemoveAtom("OG"))

	m, err := NewModifier(nil)
	require.NoError(t, err)

	_, err = m.Apply(s, "A", 2, "SEP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OG")
}

func TestRemoveHydrogens(t *testing.T) {
	s := readTestStructure(t)
	residue, err := s.Residue("A", 2)
	require.NoError(t, err)

	removed := residue.RemoveHydrogens()
	assert.Equal(t, []string{"H", "HB2", "HB3", "HG"}, removed)
	assert.Equal(t, []string{"N", "CA", "C", "O", "CB", "OG"}, residue.AtomNames())

	// a second pass finds nothing left to strip
	assert.Empty(t, residue.RemoveHydrogens())
}
