package ptm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// structureName returns a structure name from a file path: the base name
// without structure or gzip extensions.
func structureName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// isPDBPath reports whether the path names a PDB file, gzipped or not.
func isPDBPath(path string) bool {
	path = strings.TrimSuffix(strings.ToLower(path), ".gz")
	return strings.HasSuffix(path, ".pdb") || strings.HasSuffix(path, ".ent")
}

// isCIFPath reports whether the path names an mmCIF file, gzipped or not.
func isCIFPath(path string) bool {
	path = strings.TrimSuffix(strings.ToLower(path), ".gz")
	return strings.HasSuffix(path, ".cif") || strings.HasSuffix(path, ".mmcif")
}

// ReadStructureFile reads a structure from a .pdb or .cif file, picked by
// suffix. Files ending in .gz are decompressed while reading.
func ReadStructureFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open structure file: %v", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %v", path, err)
		}
		defer gz.Close()
		r = gz
	}

	name := structureName(path)
	switch {
	case isPDBPath(path):
		return readPDB(r, name)
	case isCIFPath(path):
		return readMMCIF(r, name)
	}
	return nil, fmt.Errorf("unrecognized structure format: %s (want .pdb or .cif)", path)
}

// WriteStructureFile writes a structure to a .pdb or .cif file, picked by
// suffix.
func WriteStructureFile(path string, s *Structure) error {
	switch {
	case isPDBPath(path), isCIFPath(path):
	default:
		return fmt.Errorf("unrecognized output format: %s (want .pdb or .cif)", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer f.Close()

	if isPDBPath(path) {
		return writePDB(f, s)
	}
	return writeMMCIF(f, s)
}
