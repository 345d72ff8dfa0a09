// Package scanner defines the threat-scanning capability used by the upload
// pipeline. The default policy is conservative: a single infected verdict
// rejects the whole batch before anything is written.
package scanner

import "context"

// File is one member of a scan batch.
type File struct {
	Name    string
	Content []byte
}

// Verdict is the scan outcome for one file. Verdicts are positional: the
// caller correlates them with the submitted batch by index, never by
// matching threat text back to filenames.
type Verdict struct {
	Clean   bool     `json:"clean"`
	Threats []string `json:"threats,omitempty"`
}

// Scanner inspects a batch of files and returns one verdict per file, in
// input order. Implementations must be safe for concurrent use and must not
// mutate the batch. A returned error means the scan itself could not run
// (dependency down) and is distinct from an infected verdict.
type Scanner interface {
	ScanBatch(ctx context.Context, batch []File) ([]Verdict, error)
}
