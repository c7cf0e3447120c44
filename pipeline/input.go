package pipeline

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dnaspool/infodna/base"
)

// LoadProbes reads a FASTA-shaped file and returns one Strand per sequence
// line. Per spec §6 this is deliberately not a full FASTA parser: the file
// is split on '\n' and any line that is empty or starts with '>' is
// discarded; every remaining line becomes one probe strand, so multi-line
// sequences are treated as several probes rather than being joined.
func LoadProbes(path string) ([]base.Strand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading probes file %s: %w", path, err)
	}
	var probes []base.Strand
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}
		probes = append(probes, base.FromString(line))
	}
	return probes, nil
}

// LoadTextLines reads lines_path as newline-delimited text: each line's raw
// bytes become one payload.
func LoadTextLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening lines file %s: %w", path, err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		payload := make([]byte, len(line))
		copy(payload, line)
		lines = append(lines, payload)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: scanning lines file %s: %w", path, err)
	}
	return lines, nil
}

// LoadBinaryLines reads lines_path as a sequence of length-prefixed records:
// a big-endian uint32 length followed by that many bytes of payload,
// repeated until EOF. EOF exactly on a record boundary ends the file
// cleanly; a short read in the middle of a record (length or payload) is a
// fatal error, since the file is corrupt at that point.
func LoadBinaryLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening lines file %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var lines [][]byte
	for {
		var lenBuf [4]byte
		_, err := io.ReadFull(r, lenBuf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: reading length prefix in %s: %w", path, err)
		}
		length := binary.BigEndian.Uint32(lenBuf[:])
		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("pipeline: reading %d-byte record body in %s: %w", length, path, err)
		}
		lines = append(lines, payload)
	}
	return lines, nil
}
