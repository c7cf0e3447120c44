package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriterWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	rw, err := NewReportWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, rw.AppendRows([]ReportRow{{LineID: 0, DoneID: 0, TimeFor: TimeForTotal}}))
	require.NoError(t, rw.Close())

	rw2, err := NewReportWriter(path, true)
	require.NoError(t, err)
	require.NoError(t, rw2.AppendRows([]ReportRow{{LineID: 1, DoneID: 1, TimeFor: TimeForTotal}}))
	require.NoError(t, rw2.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := splitLines(string(content))
	require.Len(t, lines, 3) // header + 2 data rows
	assert.Equal(t, "Progress(%),Line Id,Done Id,Trials,Time(ms),Time For,File Size,Total Bytes,Overhead,Length,Max HP Length,Min. Dist To Probes,Min. Dist To Seqs,Encoding Mode,Use DG Server", lines[0])
}

func TestBuildRowsEmitsThreeRowsPerLine(t *testing.T) {
	outcomes := []Outcome{{LineID: 0, DoneID: 0}}
	lines := [][]byte{[]byte("x")}
	rows := BuildRows(outcomes, lines, Params{Mode: ModeNaive}, 100)
	require.Len(t, rows, 3)
	assert.Equal(t, TimeForRQ, rows[0].TimeFor)
	assert.Equal(t, TimeForSecStruct, rows[1].TimeFor)
	assert.Equal(t, TimeForTotal, rows[2].TimeFor)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
