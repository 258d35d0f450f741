package ptm

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Report tallies the atom level changes made by modifications.
type Report struct {
	// AtomsAdded is the number of atoms transferred from templates
	AtomsAdded int `json:"atomsAdded"`

	// AtomsDeleted counts stripped hydrogens and mapped deletions
	AtomsDeleted int `json:"atomsDeleted"`

	// AtomsRenamed is the number of atoms renamed by the mapping
	AtomsRenamed int `json:"atomsRenamed"`
}

// Add returns the combination of two reports.
func (r Report) Add(other Report) Report {
	return Report{
		AtomsAdded:   r.AtomsAdded + other.AtomsAdded,
		AtomsDeleted: r.AtomsDeleted + other.AtomsDeleted,
		AtomsRenamed: r.AtomsRenamed + other.AtomsRenamed,
	}
}

// String formats the report for log output.
func (r Report) String() string {
	return fmt.Sprintf("Atoms added: \t%d\nAtoms deleted: \t%d\nAtoms renamed: \t%d",
		r.AtomsAdded, r.AtomsDeleted, r.AtomsRenamed)
}

// Output is the JSON run summary written next to the modified structure.
type Output struct {
	// Input structure name (file stem or PDB identifier)
	Input string `json:"input"`

	// Output path the modified structure was written to
	Output string `json:"output"`

	// Time, ex: "2018-01-01 20:41:00"
	Time string `json:"time"`

	// Execution is the number of seconds it took to execute the command
	Execution float64 `json:"execution"`

	// LibraryVersion the modifications came from
	LibraryVersion string `json:"libraryVersion"`

	// Modifications applied, oldest first
	Modifications []Modification `json:"modifications"`

	// Minimized is whether the energy minimization pipeline ran
	Minimized bool `json:"minimized"`

	// Report of atom level changes
	Report Report `json:"report"`
}

// writeReport writes the run summary to filename and returns the JSON.
func writeReport(
	filename string,
	s *Structure,
	outPath string,
	libraryVersion string,
	report Report,
	minimized bool,
	seconds float64,
) (output []byte, err error) {
	// store save time, using same format as log.Println https://golang.org/pkg/log/#Println
	t := time.Now()
	stamp := fmt.Sprintf(
		"%d/%02d/%02d %02d:%02d:%02d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
	)

	out := Output{
		Input:          s.Name,
		Output:         outPath,
		Time:           stamp,
		Execution:      seconds,
		LibraryVersion: libraryVersion,
		Modifications:  s.Log,
		Minimized:      minimized,
		Report:         report,
	}

	if output, err = json.MarshalIndent(out, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to serialize the run report: %v", err)
	}
	if err = os.WriteFile(filename, output, 0644); err != nil {
		return nil, fmt.Errorf("failed to write the run report: %v", err)
	}
	return output, nil
}
