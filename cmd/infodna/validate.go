package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// validateApp builds the urfave/cli app behind the "validate" subcommand:
// a standalone sanity check of an info-DNA FASTA (alphabet and
// caption/sequence pairing) and of its CSV report's header row, without
// re-running the encoding pipeline. The two files are checked separately;
// their contents are not compared with each other.
func validateApp() *cli.App {
	return &cli.App{
		Name:  "infodna validate",
		Usage: "check an info-DNA FASTA and CSV report for basic consistency",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fasta",
				Value: "info-dna.fa",
				Usage: "path to the info-DNA FASTA file to check",
			},
			&cli.StringFlag{
				Name:  "report",
				Value: "RQPAP_report.csv",
				Usage: "path to the CSV timing report to check",
			},
		},
		Action: func(c *cli.Context) error {
			return validateCommand(c.String("fasta"), c.String("report"))
		},
	}
}

func validateCommand(fastaPath, reportPath string) error {
	strandCount, err := validateFasta(fastaPath)
	if err != nil {
		return err
	}
	fmt.Printf("fasta ok: %d strands, alphabet clean\n", strandCount)

	if err := validateReportHeader(reportPath); err != nil {
		return err
	}
	fmt.Println("report ok: header matches expected shape")
	return nil
}

// validateFasta checks that every sequence line consists only of A/C/G/T
// letters, and that every caption line is paired with exactly one sequence
// line.
func validateFasta(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("validate: opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	strandCount := 0
	expectSequence := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if expectSequence {
				return 0, fmt.Errorf("validate: %s: caption with no preceding sequence", path)
			}
			expectSequence = true
			continue
		}
		if !expectSequence {
			return 0, fmt.Errorf("validate: %s: sequence line with no caption", path)
		}
		for _, r := range line {
			if r != 'A' && r != 'C' && r != 'G' && r != 'T' {
				return 0, fmt.Errorf("validate: %s: invalid base %q", path, r)
			}
		}
		strandCount++
		expectSequence = false
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("validate: reading %s: %w", path, err)
	}
	if expectSequence {
		return 0, fmt.Errorf("validate: %s: final caption has no sequence", path)
	}
	return strandCount, nil
}

func validateReportHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("validate: opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return fmt.Errorf("validate: %s: empty report", path)
	}
	expected := "Progress(%),Line Id,Done Id,Trials,Time(ms),Time For,File Size,Total Bytes,Overhead,Length,Max HP Length,Min. Dist To Probes,Min. Dist To Seqs,Encoding Mode,Use DG Server"
	if scanner.Text() != expected {
		return fmt.Errorf("validate: %s: unexpected header %q", path, scanner.Text())
	}
	return nil
}
