package ptm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDihedral(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d [3]float64
		want       float64
	}{
		{
			"trans, 180 degrees",
			[3]float64{-1, 1, 0}, [3]float64{0, 1, 0}, [3]float64{0, 0, 0}, [3]float64{1, 0, 0},
			180,
		},
		{
			"cis, 0 degrees",
			[3]float64{-1, 1, 0}, [3]float64{0, 1, 0}, [3]float64{0, 0, 0}, [3]float64{-1, 0, 0},
			0,
		},
		{
			"right angle",
			[3]float64{-1, 1, 0}, [3]float64{0, 1, 0}, [3]float64{0, 0, 0}, [3]float64{0, 0, 1},
			90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dihedral(tt.a, tt.b, tt.c, tt.d)
			if tt.want == 180 {
				// 180 and -180 are the same torsion
				assert.InDelta(t, 180, absf(got), 1e-9)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBackboneTorsions(t *testing.T) {
	s := readTestStructure(t)

	points := backboneTorsions(s)
	// only the middle residue has complete backbone neighbors
	require.Len(t, points, 1)
	assert.Equal(t, "A", points[0].chain)
	assert.Equal(t, 2, points[0].residue)
	assert.GreaterOrEqual(t, points[0].phi, -180.0)
	assert.LessOrEqual(t, points[0].phi, 180.0)
}

func TestWriteRamachandran(t *testing.T) {
	s := readTestStructure(t)

	out := filepath.Join(t.TempDir(), "rama.png")
	require.NoError(t, WriteRamachandran(s, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteRamachandran_NoBackbone(t *testing.T) {
	s := &Structure{
		Name: "waters",
		Chains: []*Chain{{ID: "A", Residues: []*Residue{
			{Name: "HOH", Number: 1, Atoms: []*Atom{{Name: "O"}}},
		}}},
	}

	err := WriteRamachandran(s, filepath.Join(t.TempDir(), "rama.png"))
	assert.Error(t, err)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
