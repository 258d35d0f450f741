package ptm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructure_Residue(t *testing.T) {
	s := readTestStructure(t)

	r, err := s.Residue("A", 2)
	require.NoError(t, err)
	assert.Equal(t, "SER", r.Name)

	_, err = s.Residue("Z", 2)
	assert.Error(t, err)

	_, err = s.Residue("A", 1000)
	assert.Error(t, err)
}

func TestResidue_RemoveAtom(t *testing.T) {
	r := &Residue{Name: "SER", Number: 1, Atoms: []*Atom{
		{Name: "CA"}, {Name: "CB"}, {Name: "OG"},
	}}

	assert.True(t, r.RemoveAtom("CB"))
	assert.Equal(t, []string{"CA", "OG"}, r.AtomNames())
	assert.False(t, r.RemoveAtom("CB"))
}

func TestStructure_Renumber(t *testing.T) {
	s := readTestStructure(t)
	r, err := s.Residue("A", 2)
	require.NoError(t, err)
	r.AddAtom(&Atom{Name: "P", Serial: 0})

	s.renumber()

	serial := 0
	for _, c := range s.Chains {
		for _, r := range c.Residues {
			for _, a := range r.Atoms {
				serial++
				assert.Equal(t, serial, a.Serial)
			}
		}
	}
}

func TestElementFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"CA", "C"},
		{"N", "N"},
		{"OG1", "O"},
		{"P", "P"},
		{"SD", "S"},
		{"SE", "Se"},
		{"FE", "Fe"},
		{"ZN", "Zn"},
		{"MG", "Mg"},
		{"CL", "Cl"},
		{"HB2", "H"},
		{"1HB", "H"},
		{"HG11", "H"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elementFromName(tt.name))
		})
	}
}
