package pipeline

import (
	"fmt"
	"os"

	"github.com/dnaspool/infodna/base"
)

// FastaEntry is one record of the info-DNA output file.
type FastaEntry struct {
	Caption string
	Strand  base.Strand
}

// WriteFasta overwrites path with entries in order: each is ">caption\n" followed
// by the strand's base letters, entries separated by a single '\n', file
// ending without a trailing newline. Per spec §5 the destination is removed
// first so a previous run's file is never appended to by accident.
func WriteFasta(path string, entries []FastaEntry) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pipeline: removing stale fasta output %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("pipeline: opening fasta output %s: %w", path, err)
	}
	defer f.Close()

	for i, e := range entries {
		if i > 0 {
			if _, err := f.WriteString("\n"); err != nil {
				return fmt.Errorf("pipeline: writing fasta output %s: %w", path, err)
			}
		}
		if _, err := fmt.Fprintf(f, ">%s\n%s", e.Caption, e.Strand.String()); err != nil {
			return fmt.Errorf("pipeline: writing fasta output %s: %w", path, err)
		}
	}
	return nil
}
