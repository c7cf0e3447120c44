package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaspool/infodna/base"
)

func TestWriteFastaFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.fa")

	entries := []FastaEntry{
		{Caption: "line_0", Strand: base.FromString("ACGT")},
		{Caption: "line_1", Strand: base.FromString("TTTT")},
	}
	require.NoError(t, WriteFasta(path, entries))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ">line_0\nACGT\n>line_1\nTTTT", string(got))
}

func TestWriteFastaOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.fa")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	require.NoError(t, WriteFasta(path, []FastaEntry{{Caption: "x", Strand: base.FromString("AC")}}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ">x\nAC", string(got))
}
