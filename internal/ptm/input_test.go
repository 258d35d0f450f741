package ptm

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModification(t *testing.T) {
	p := inputParser{}

	tests := []struct {
		name    string
		in      string
		want    Request
		wantErr bool
	}{
		{"simple", "A:65=SEP", Request{Chain: "A", Residue: 65, Target: "SEP"}, false},
		{"lowercase target is upcased", "B:7=ptr", Request{Chain: "B", Residue: 7, Target: "PTR"}, false},
		{"negative residue number", "A:-2=SEP", Request{Chain: "A", Residue: -2, Target: "SEP"}, false},
		{"no colon", "A65=SEP", Request{}, true},
		{"no equals", "A:65SEP", Request{}, true},
		{"equals before colon", "A=65:SEP", Request{}, true},
		{"multi character chain", "AB:65=SEP", Request{}, true},
		{"empty chain", ":65=SEP", Request{}, true},
		{"residue not a number", "A:x=SEP", Request{}, true},
		{"target too short", "A:65=SP", Request{}, true},
		{"target too long", "A:65=SEPX", Request{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.parseModification(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModifications(t *testing.T) {
	p := inputParser{}

	requests, err := p.parseModifications([]string{"A:50=SEP", "A:55=TPO"})
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "A:50=SEP", requests[0].String())
	assert.Equal(t, "A:55=TPO", requests[1].String())

	// an empty list is not an error: the structure passes through unchanged
	requests, err = p.parseModifications(nil)
	require.NoError(t, err)
	assert.Empty(t, requests)

	_, err = p.parseModifications([]string{"A:50=SEP", "bad"})
	assert.Error(t, err)
}

func TestGuessOutput(t *testing.T) {
	p := inputParser{}

	assert.Equal(t, "1vii.modified.pdb", p.guessOutput("1vii.pdb"))
	assert.Equal(t, "1vii.modified.cif", p.guessOutput("dir/1vii.cif"))
	assert.Equal(t, "1vii.modified.pdb", p.guessOutput("1vii.pdb.gz"))
	assert.Equal(t, "output.pdb", p.guessOutput(""))
}

func TestCheckOutput(t *testing.T) {
	p := inputParser{}

	assert.NoError(t, p.checkOutput("out.pdb"))
	assert.NoError(t, p.checkOutput("out.cif"))
	assert.Error(t, p.checkOutput("out.png"))
	assert.Error(t, p.checkOutput("out"))
}

func TestResolveInput(t *testing.T) {
	p := inputParser{}

	// an existing file path is passed through untouched
	in := path.Join("testdata", "peptide.pdb")
	got, err := p.resolveInput(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// neither a file nor an identifier
	_, err = p.resolveInput("not-a-pdb-id.pdb")
	assert.Error(t, err)
}

func TestNewFlags(t *testing.T) {
	flags, err := NewFlags("1vii.pdb", "", []string{"A:50=SEP"}, "", "", false)
	require.NoError(t, err)
	assert.Equal(t, "1vii.modified.pdb", flags.out)
	require.Len(t, flags.requests, 1)

	_, err = NewFlags("1vii.pdb", "out.txt", []string{"A:50=SEP"}, "", "", false)
	assert.Error(t, err)

	// a modification-free run is allowed (minimize-only or pass-through)
	flags, err = NewFlags("1vii.pdb", "", nil, "", "", true)
	require.NoError(t, err)
	assert.Empty(t, flags.requests)
}

func TestLooksLikePDBID(t *testing.T) {
	assert.True(t, looksLikePDBID("1vii"))
	assert.True(t, looksLikePDBID("4HHB"))
	assert.False(t, looksLikePDBID("abcd"))  // must start with a digit
	assert.False(t, looksLikePDBID("1vi"))   // too short
	assert.False(t, looksLikePDBID("1viiX")) // too long
	assert.False(t, looksLikePDBID("1vi-"))  // punctuation
}
