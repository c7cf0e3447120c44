package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnaspool/infodna/base"
)

func alwaysTrue(base.Strand) bool { return true }

func TestEncodeToDNAFindsAcceptedStrand(t *testing.T) {
	enc := New(DefaultParams())
	payload := []byte("hello world")

	result, err := enc.EncodeToDNA(payload, 8, 1, 50, alwaysTrue, alwaysTrue, alwaysTrue)
	require.NoError(t, err)
	assert.False(t, result.WholeRuleHit)
	assert.Greater(t, result.Strand.Len(), 0)
	assert.Greater(t, result.PacketsUsed, 0)
}

func TestEncodeToDNARejectsOversizedPayload(t *testing.T) {
	enc := New(DefaultParams())
	payload := make([]byte, 256)

	_, err := enc.EncodeToDNA(payload, 8, 1, 10, alwaysTrue, alwaysTrue, alwaysTrue)
	assert.Error(t, err)
}

func TestEncodeToDNAReturnsBestEffortWhenRulesNeverSatisfied(t *testing.T) {
	enc := New(DefaultParams())
	payload := []byte("x")
	neverAccept := func(base.Strand) bool { return false }

	result, err := enc.EncodeToDNA(payload, 4, 1, 5, alwaysTrue, neverAccept, alwaysTrue)
	require.NoError(t, err)
	assert.True(t, result.WholeRuleHit)
}

func TestEncodeToDNAHonoursPacketLevelFilter(t *testing.T) {
	enc := New(DefaultParams())
	payload := []byte("payload")
	rejectAllPackets := func(base.Strand) bool { return false }

	_, err := enc.EncodeToDNA(payload, 4, 1, 3, rejectAllPackets, alwaysTrue, alwaysTrue)
	assert.Error(t, err, "with no packet ever admitted, no combination can ever be attempted")
}

func TestDecoderReconstructsPayloadFromAnyMinimalSubset(t *testing.T) {
	payload := []byte("reconstruct me exactly")
	be := newBlockEncoder(payload, 6)

	packets, err := be.repairPackets(0, be.numShards+4)
	require.NoError(t, err)

	dec := newDecoder(be.numShards, len(packets), len(payload))
	// Feed only the last numShards packets: decodability must not depend on
	// which subset arrives, only on how many.
	subset := packets[len(packets)-be.numShards:]
	decoded := false
	for _, p := range subset {
		decoded = dec.Insert(p)
	}
	require.True(t, decoded)

	got, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMapBytesToBasesFourBasesPerByte(t *testing.T) {
	bases := mapBytesToBases([]byte{0b00011011})
	require.Len(t, bases, 4)
	assert.Equal(t, base.A, bases[0])
	assert.Equal(t, base.C, bases[1])
	assert.Equal(t, base.G, bases[2])
	assert.Equal(t, base.T, bases[3])
}

func TestRandomOrderIsAPermutation(t *testing.T) {
	order := randomOrder(20)
	require.Len(t, order, 20)
	seen := make(map[int]bool)
	for _, v := range order {
		seen[v] = true
	}
	assert.Len(t, seen, 20)
}
