package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaspool/infodna/pipeline"
)

func TestParseRejectsDuplicateKeys(t *testing.T) {
	_, err := Parse([]string{"overhead=1", "overhead=2"})
	assert.Error(t, err)
}

func TestParseRejectsTokenWithoutEquals(t *testing.T) {
	_, err := Parse([]string{"not-a-kv-pair"})
	assert.Error(t, err)
}

func TestGettersFallBackOnMissingOrBadValues(t *testing.T) {
	a, err := Parse([]string{"overhead=not-a-number", "max_hp_len=7"})
	require.NoError(t, err)

	assert.Equal(t, 0, a.GetInt("overhead", 0))
	assert.Equal(t, 7, a.GetInt("max_hp_len", 99))
	assert.Equal(t, 42, a.GetInt("absent_key", 42))
}

func TestGetBoolAcceptsLenientTruthyForms(t *testing.T) {
	a, err := Parse([]string{"a=1", "b=YES", "c=true", "d=no", "e=0"})
	require.NoError(t, err)

	assert.True(t, a.GetBool("a", false))
	assert.True(t, a.GetBool("b", false))
	assert.True(t, a.GetBool("c", false))
	assert.False(t, a.GetBool("d", true))
	assert.False(t, a.GetBool("e", true))
	assert.True(t, a.GetBool("absent", true))
}

func TestFromArgsAppliesDefaults(t *testing.T) {
	a, err := Parse(nil)
	require.NoError(t, err)

	c, err := FromArgs(a)
	require.NoError(t, err)
	assert.Equal(t, pipeline.ModeLSH, c.EncodingMode)
	assert.Equal(t, "lines.txt", c.LinesPath)
	assert.Equal(t, 0.4, c.MinDistToProbes)
	assert.Equal(t, 200, c.RProbes)
}

func TestFromArgsRejectsUnrecognizedMode(t *testing.T) {
	a, err := Parse([]string{"encoding_mode=bogus"})
	require.NoError(t, err)

	_, err = FromArgs(a)
	assert.Error(t, err)
}

func TestFromArgsRejectsBadLSHShape(t *testing.T) {
	a, err := Parse([]string{"lsh_r_probes=7", "lsh_b_probes=3"})
	require.NoError(t, err)

	_, err = FromArgs(a)
	assert.Error(t, err)
}

func TestFromArgsRejectsKAboveMax(t *testing.T) {
	a, err := Parse([]string{"lsh_k_seqs=40"})
	require.NoError(t, err)

	_, err = FromArgs(a)
	assert.Error(t, err)
}
