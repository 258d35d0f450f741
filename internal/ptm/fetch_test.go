package ptm

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRCSB serves gzipped renditions for the entry names it is given.
func testRCSB(t *testing.T, entries map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := entries[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		gz := gzip.NewWriter(w)
		gz.Write([]byte(body))
		gz.Close()
	}))
}

func TestFetch(t *testing.T) {
	srv := testRCSB(t, map[string]string{
		"1VII.pdb.gz": "ATOM      1  N   GLY A   1       0.000   0.000   0.000  1.00  0.00           N\nEND\n",
	})
	defer srv.Close()

	dir := t.TempDir()
	f := newFetcher(dir)
	f.baseURL = srv.URL

	path, err := f.fetch("1vii")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1vii.pdb"), path)

	// the file on disk is decompressed
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "ATOM"))
}

func TestFetch_FallsBackToCIF(t *testing.T) {
	srv := testRCSB(t, map[string]string{
		"7ABC.cif.gz": "data_7abc\n",
	})
	defer srv.Close()

	dir := t.TempDir()
	f := newFetcher(dir)
	f.baseURL = srv.URL

	path, err := f.fetch("7abc")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "7abc.cif"), path)
}

func TestFetch_NoRendition(t *testing.T) {
	srv := testRCSB(t, nil)
	defer srv.Close()

	f := newFetcher(t.TempDir())
	f.baseURL = srv.URL

	_, err := f.fetch("1vii")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PDB or mmCIF rendition")
}

func TestFetch_BadID(t *testing.T) {
	f := newFetcher(t.TempDir())

	_, err := f.fetch("notanid")
	assert.Error(t, err)
}
