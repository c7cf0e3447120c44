package raptor

import (
	"bytes"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Packet is one fountain-coded symbol: a repair symbol identified by its
// Encoding Symbol Id, carrying symbolSize bytes of encoded payload.
type Packet struct {
	ESI     uint32
	Payload []byte
}

// blockEncoder turns one payload into a growable stream of repair symbols.
// There is no true rateless fountain code available in the module's
// dependency pack, so blockEncoder simulates one on top of
// klauspost/reedsolomon: each call to repairPackets re-derives an
// erasure-coding matrix sized to cover every ESI requested so far, and reads
// off only the newly requested suffix. This costs more CPU than a real
// incremental fountain code, but preserves the externally observable
// contract the encoder search loop depends on - an ESI-indexed, unbounded
// stream of repair symbols, any k of which (for k == number of data shards)
// reconstruct the original payload.
type blockEncoder struct {
	dataShards []byte // concatenated, not yet split
	symbolSize int
	numShards  int
	payloadLen int
}

func newBlockEncoder(payload []byte, symbolSize int) *blockEncoder {
	numShards := (len(payload) + symbolSize - 1) / symbolSize
	if numShards == 0 {
		numShards = 1
	}
	return &blockEncoder{
		dataShards: payload,
		symbolSize: symbolSize,
		numShards:  numShards,
		payloadLen: len(payload),
	}
}

func (be *blockEncoder) splitDataShards() [][]byte {
	shards := make([][]byte, be.numShards)
	for i := 0; i < be.numShards; i++ {
		shard := make([]byte, be.symbolSize)
		start := i * be.symbolSize
		end := start + be.symbolSize
		if start < len(be.dataShards) {
			if end > len(be.dataShards) {
				end = len(be.dataShards)
			}
			copy(shard, be.dataShards[start:end])
		}
		shards[i] = shard
	}
	return shards
}

// repairPackets returns count repair symbols with ESIs [fromESI, fromESI+count).
func (be *blockEncoder) repairPackets(fromESI, count int) ([]Packet, error) {
	totalParity := fromESI + count
	enc, err := reedsolomon.New(be.numShards, totalParity)
	if err != nil {
		return nil, fmt.Errorf("raptor: building encoder for %d data / %d parity shards: %w", be.numShards, totalParity, err)
	}

	shards := be.splitDataShards()
	for i := 0; i < totalParity; i++ {
		shards = append(shards, make([]byte, be.symbolSize))
	}
	if err := enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("raptor: encoding repair shards: %w", err)
	}

	packets := make([]Packet, count)
	for i := 0; i < count; i++ {
		esi := fromESI + i
		packets[i] = Packet{ESI: uint32(esi), Payload: shards[be.numShards+esi]}
	}
	return packets, nil
}

// decoder accumulates repair symbols for one decode attempt. Once it has
// seen at least numShards distinct ESIs it is able to reconstruct, and
// Insert keeps returning true for every call after that - mirroring a
// RaptorQ decoder, which reports "decoded" once and remains decoded as
// further symbols arrive.
type decoder struct {
	numShards   int
	totalParity int
	shards      [][]byte
	present     int
	decoded     bool
	payloadLen  int
}

func newDecoder(numShards, totalParity, payloadLen int) *decoder {
	return &decoder{
		numShards:   numShards,
		totalParity: totalParity,
		shards:      make([][]byte, numShards+totalParity),
		payloadLen:  payloadLen,
	}
}

// Insert records p if its ESI slot is still empty, and reports whether the
// block is decodable given everything seen so far.
func (d *decoder) Insert(p Packet) bool {
	idx := d.numShards + int(p.ESI)
	if idx >= 0 && idx < len(d.shards) && d.shards[idx] == nil {
		d.shards[idx] = p.Payload
		d.present++
	}
	if d.decoded {
		return true
	}
	if d.present < d.numShards {
		return false
	}

	enc, err := reedsolomon.New(d.numShards, d.totalParity)
	if err != nil {
		return false
	}
	work := make([][]byte, len(d.shards))
	copy(work, d.shards)
	if err := enc.Reconstruct(work); err != nil {
		return false
	}
	d.shards = work
	d.decoded = true
	return true
}

// Decode returns the reconstructed payload. It must only be called after
// Insert has reported true.
func (d *decoder) Decode() ([]byte, error) {
	if !d.decoded {
		return nil, fmt.Errorf("raptor: decode called before block was decodable")
	}
	enc, err := reedsolomon.New(d.numShards, d.totalParity)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc.Join(&buf, d.shards, d.payloadLen); err != nil {
		return nil, fmt.Errorf("raptor: joining decoded shards: %w", err)
	}
	return buf.Bytes(), nil
}
