package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaspool/infodna/raptor"
)

func testParams(mode Mode) Params {
	return Params{
		Mode:                mode,
		Overhead:            1,
		MaxHPLen:            6,
		MinDistToProbes:     0.1,
		MinDistToSeqs:       0.1,
		KProbes:             4,
		RProbes:             8,
		BProbes:             4,
		KSeqs:               4,
		RSeqs:               8,
		BSeqs:               4,
		PacketsPerBlock:     6,
		MaxBlockEncodeLoops: 40,
		UseDGServer:         false,
		RaptorParams:        raptor.DefaultParams(),
	}
}

func TestRunNaiveModeProducesOneStrandPerLine(t *testing.T) {
	lines := [][]byte{[]byte("a"), []byte("b"), []byte("c")}

	p, err := New(testParams(ModeNaive), nil, nil)
	require.NoError(t, err)

	outcomes, err := p.Run(lines)
	require.NoError(t, err)
	require.Len(t, outcomes, len(lines))

	for i, o := range outcomes {
		assert.Equal(t, i, o.LineID)
		assert.Greater(t, o.Strand.Len(), 0)
		assert.GreaterOrEqual(t, o.Trials, 1)
	}

	for i := range outcomes {
		for j := range outcomes {
			if i == j {
				continue
			}
			assert.GreaterOrEqual(t, outcomes[i].Strand.Jaccard(outcomes[j].Strand, testParams(ModeNaive).KSeqs), testParams(ModeNaive).MinDistToSeqs)
		}
	}
}

func TestRunLSHModeAcceptsEveryLine(t *testing.T) {
	lines := [][]byte{[]byte("x"), []byte("y")}

	p, err := New(testParams(ModeLSH), nil, nil)
	require.NoError(t, err)

	outcomes, err := p.Run(lines)
	require.NoError(t, err)
	require.Len(t, outcomes, len(lines))
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := New(testParams(Mode("bogus")), nil, nil)
	assert.Error(t, err)
}
