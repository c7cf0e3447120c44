/*
Command infodna is the RQPAP encoder: it reads a batch of byte payloads and
a probe FASTA, and writes an info-DNA FASTA (plus an optional CSV timing
report) such that every output strand satisfies the configured biochemical
and corpus-distance constraints.

Most invocations pass key=value tokens (see config.FromArgs for the
recognized keys), matching the original tool's argument style. A single
subcommand, "validate", breaks from that style and uses a conventional
urfave/cli flag surface to sanity-check a previously produced FASTA/CSV
pair without running the pipeline.
*/
package main

import (
	"os"

	"github.com/lunny/log"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "validate" {
		validateArgs := append([]string{os.Args[0]}, os.Args[2:]...)
		if err := validateApp().Run(validateArgs); err != nil {
			log.Fatalf("validate: %v", err)
		}
		return
	}

	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
