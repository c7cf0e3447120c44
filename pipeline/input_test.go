package pipeline

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProbesSkipsHeadersAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probes.fa")
	content := ">probe one\nACGT\n\n>probe two\nTTTT\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	probes, err := LoadProbes(path)
	require.NoError(t, err)
	require.Len(t, probes, 2)
	assert.Equal(t, "ACGT", probes[0].String())
	assert.Equal(t, "TTTT", probes[1].String())
}

func TestLoadTextLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird"), 0o644))

	lines, err := LoadTextLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "second", string(lines[1]))
}

func TestLoadBinaryLinesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.bin")

	var buf []byte
	for _, payload := range [][]byte{[]byte("a"), []byte("bcd"), {}} {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, payload...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	lines, err := LoadBinaryLines(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "a", string(lines[0]))
	assert.Equal(t, "bcd", string(lines[1]))
	assert.Equal(t, []byte{}, lines[2])
}

func TestLoadBinaryLinesFailsOnShortRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.bin")
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 10)
	require.NoError(t, os.WriteFile(path, append(lenBuf[:], []byte("short")...), 0o644))

	_, err := LoadBinaryLines(path)
	assert.Error(t, err)
}
