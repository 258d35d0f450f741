package ptm

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// rcsbDownloadURL is where structure entries are fetched from.
const rcsbDownloadURL = "https://files.rcsb.org/download"

// looksLikePDBID reports whether the input names a PDB entry rather than a
// file: four characters, digit first, letters and digits after.
func looksLikePDBID(input string) bool {
	if len(input) != 4 {
		return false
	}
	if input[0] < '0' || input[0] > '9' {
		return false
	}
	for _, c := range input[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// fetcher downloads structure entries over HTTP.
type fetcher struct {
	// base URL of the download service
	baseURL string

	// directory the fetched file is written into
	dir string

	client *http.Client
}

// newFetcher creates a fetcher writing into dir.
func newFetcher(dir string) fetcher {
	return fetcher{
		baseURL: rcsbDownloadURL,
		dir:     dir,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// FetchStructure downloads a PDB entry into dir and returns the path of
// the written file. The PDB rendition is preferred; large entries without
// one fall back to mmCIF. Transfers are gzipped.
func FetchStructure(id, dir string) (string, error) {
	return newFetcher(dir).fetch(id)
}

// fetch tries the gzipped PDB then mmCIF renditions of an entry.
func (f fetcher) fetch(id string) (string, error) {
	if !looksLikePDBID(id) {
		return "", fmt.Errorf("%q is not a PDB identifier", id)
	}

	for _, suffix := range []string{".pdb.gz", ".cif.gz"} {
		url := fmt.Sprintf("%s/%s%s", f.baseURL, strings.ToUpper(id), suffix)

		path, err := f.download(url, strings.ToLower(id)+strings.TrimSuffix(suffix, ".gz"))
		if err == errNoRendition {
			slog.Debug("no rendition at RCSB", "url", url)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to fetch %s: %v", id, err)
		}

		slog.Info("fetched structure", "id", id, "path", path)
		return path, nil
	}
	return "", fmt.Errorf("failed to fetch %s: no PDB or mmCIF rendition at RCSB", id)
}

// errNoRendition marks a 404 for one rendition of an entry.
var errNoRendition = fmt.Errorf("no such rendition")

// download gets one gzipped file and writes it, decompressed, into the
// fetcher's directory.
func (f fetcher) download(url, filename string) (string, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to reach %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errNoRendition
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response from %s: %s", url, resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decompress %s: %v", url, err)
	}
	defer gz.Close()

	path := filepath.Join(f.dir, filename)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, gz); err != nil {
		return "", fmt.Errorf("failed to write %s: %v", path, err)
	}
	return path, nil
}
