/*
Package raptor turns a byte payload into a single accepted DNA strand. It
drives a fountain-style encoder (see fountain.go) through an outer search
loop: generate a batch of repair symbols, DNA-map and rule-filter each one
into a pool of "good" packets, then try random combinations of that pool
until one both reconstructs the payload (RaptorQ decodability) and, once
assembled into a full strand, satisfies the caller's whole-strand and
secondary-structure predicates. When a combination cannot be decoded, or
cannot reach the target overhead, the loop grows the packet pool; when a
decodable combination fails a strand predicate, it tries another random
order. This repeats up to a caller-supplied number of outer iterations.

Internally this uses klauspost/reedsolomon as the erasure-coding primitive;
see the blockEncoder docs in fountain.go for why, and for the simplification
that implies.
*/
package raptor

import (
	"fmt"
	"time"

	"github.com/dnaspool/infodna/base"
)

// Params configures the DNA-level packet shape. SymbolSize is the number of
// payload bytes carried by each repair symbol before DNA mapping; it is
// independent of the payload length, which is split into
// ceil(len(payload)/SymbolSize) data shards.
type Params struct {
	SymbolSize int
}

// DefaultParams mirrors the reference configuration: 6 payload bytes per
// symbol, which DNA-maps to a 24-base packet body.
func DefaultParams() Params {
	return Params{SymbolSize: 6}
}

// Encoder drives the search loop described in the package doc.
type Encoder struct {
	params Params
}

// New creates an Encoder with the given packet-shape parameters.
func New(params Params) *Encoder {
	return &Encoder{params: params}
}

// PacketCheck evaluates a single mapped packet's DNA before it is admitted
// to the candidate pool - typically a GC-content and homopolymer check,
// cheap enough to run on every repair symbol the fountain code produces.
type PacketCheck func(base.Strand) bool

// WholeStrandCheck evaluates the fully assembled candidate strand - GC
// content and homopolymer length over the whole thing, plus Jaccard
// distance against the probe set.
type WholeStrandCheck func(base.Strand) bool

// DeltaGCheck evaluates predicted free energy for the assembled strand and
// reports whether it is low enough for the strand to be accepted. Callers
// typically implement this with dgclient plus dgclient.ErrorFromDeltaG.
type DeltaGCheck func(base.Strand) bool

// Result is the outcome of one call to EncodeToDNA.
type Result struct {
	Strand       base.Strand
	PacketsUsed  int
	RQTime       time.Duration
	DeltaGTime   time.Duration
	WholeRuleHit bool // true if the returned strand is a best-effort fallback that failed wholeStrandCheck or dgCheck
}

// maxPayloadLen is the hard limit implied by converting the header's length
// field to a single byte (see finalize). Longer payloads are rejected
// rather than silently truncated. The header itself stores only the low
// four bits of that byte.
const maxPayloadLen = 255

// EncodeToDNA searches for a DNA strand encoding payload that satisfies
// gcHPCheck (per packet), wholeStrandCheck (on the assembled strand before
// DeltaG is even computed - cheap checks first) and dgCheck (the expensive
// external predictor call, only run once a candidate has passed everything
// else).
//
// packetsPerBlock is both the initial packet-pool growth step and the unit
// the pool grows by whenever the decoder reports it cannot yet reconstruct
// the payload. overhead is the number of repair symbols beyond the minimum
// decodable set that must be available before a combination is even
// considered for the whole-strand check - raising it trades search time for
// a strand that tolerates more corruption. maxBlockEncodeLoops bounds the
// outer loop; if every iteration is exhausted without an accepted
// combination, EncodeToDNA returns its last candidate with WholeRuleHit set
// to indicate it did not pass wholeStrandCheck or, having passed it, was
// rejected by dgCheck.
func (e *Encoder) EncodeToDNA(
	payload []byte,
	packetsPerBlock, overhead, maxBlockEncodeLoops int,
	gcHPCheck PacketCheck,
	wholeStrandCheck WholeStrandCheck,
	dgCheck DeltaGCheck,
) (Result, error) {
	if len(payload) == 0 {
		return Result{}, fmt.Errorf("raptor: payload must not be empty")
	}
	if len(payload) > maxPayloadLen {
		return Result{}, fmt.Errorf("raptor: payload length %d exceeds the %d-byte header limit", len(payload), maxPayloadLen)
	}
	if packetsPerBlock <= 0 {
		return Result{}, fmt.Errorf("raptor: packetsPerBlock must be positive")
	}

	start := time.Now()
	var dgTime time.Duration

	blockEnc := newBlockEncoder(payload, e.params.SymbolSize)

	packetsCount := packetsPerBlock
	fromESI := 0
	var goodPackets []goodPacket
	var best base.Strand
	var bestPacketsUsed int
	haveBest := false

	for loop := 0; loop < maxBlockEncodeLoops; loop++ {
		nextFromESI := fromESI + packetsCount

		fresh, err := blockEnc.repairPackets(fromESI, packetsCount)
		if err != nil {
			return Result{}, err
		}
		for _, p := range fresh {
			dnaBases := mapBytesToBases(p.Payload)
			candidate := base.New(dnaBases)
			if gcHPCheck(candidate) {
				goodPackets = append(goodPackets, goodPacket{packet: p, dnaBases: dnaBases})
			}
		}

		advanced := false
		for attempt := 0; attempt < len(goodPackets); attempt++ {
			order := randomOrder(len(goodPackets))
			outcome := combinePacketsToStrand(goodPackets, blockEnc.numShards, nextFromESI, overhead, order, wholeStrandCheck)

			switch outcome.kind {
			case resultFound:
				dgStart := time.Now()
				accepted := dgCheck(outcome.strand)
				dgTime += time.Since(dgStart)
				if accepted {
					finalStrand := finalize(outcome.strand, len(payload), outcome.packetsUsed)
					return Result{
						Strand:      finalStrand,
						PacketsUsed: outcome.packetsUsed,
						RQTime:      time.Since(start) - dgTime,
						DeltaGTime:  dgTime,
					}, nil
				}
				best, bestPacketsUsed, haveBest = outcome.strand, outcome.packetsUsed, true

			case resultRulesNotSatisfied:
				best, bestPacketsUsed, haveBest = outcome.strand, outcome.packetsUsed, true

			case resultOverheadTooBig:
				packetsCount += outcome.missing*packetsPerBlock + 1
				advanced = true

			case resultNotDecodable:
				packetsCount += packetsPerBlock
				advanced = true
			}

			if advanced {
				break
			}
		}

		fromESI = nextFromESI
	}

	if !haveBest {
		return Result{}, fmt.Errorf("raptor: no decodable combination found in %d loops", maxBlockEncodeLoops)
	}
	return Result{
		Strand:       finalize(best, len(payload), bestPacketsUsed),
		PacketsUsed:  bestPacketsUsed,
		RQTime:       time.Since(start) - dgTime,
		DeltaGTime:   dgTime,
		WholeRuleHit: true,
	}, nil
}

type goodPacket struct {
	packet   Packet
	dnaBases []base.Base
}

type packetsResultKind int

const (
	resultNotDecodable packetsResultKind = iota
	resultOverheadTooBig
	resultFound
	resultRulesNotSatisfied
)

type combineOutcome struct {
	kind        packetsResultKind
	strand      base.Strand
	packetsUsed int
	missing     int
}

// combinePacketsToStrand walks goodPackets in the given order, feeding each
// one to a fresh decoder, and as soon as the decoder reports decodable it
// checks whether there is enough spare overhead left in the remaining
// packets to reach the target overhead; if there is, it keeps folding
// packets in until the target is hit and then runs wholeStrandOK once.
func combinePacketsToStrand(
	goodPackets []goodPacket,
	numShards, totalParity, overhead int,
	order []int,
	wholeStrandOK WholeStrandCheck,
) combineOutcome {
	dec := newDecoder(numShards, totalParity, 0)
	currentOverhead := -1
	var strandBases []base.Base
	packetsUsed := 0

	for _, idx := range order {
		gp := goodPackets[idx]
		packetsUsed++
		strandBases = append(strandBases, gp.dnaBases...)

		if dec.Insert(gp.packet) {
			currentOverhead++
			remaining := len(goodPackets) - packetsUsed
			missing := (overhead - currentOverhead) - remaining
			if missing > 0 {
				return combineOutcome{kind: resultOverheadTooBig, missing: missing}
			}
			if currentOverhead >= overhead {
				strand := base.New(strandBases)
				if wholeStrandOK(strand) {
					return combineOutcome{kind: resultFound, strand: strand, packetsUsed: packetsUsed}
				}
				return combineOutcome{kind: resultRulesNotSatisfied, strand: strand, packetsUsed: packetsUsed}
			}
		}
	}
	return combineOutcome{kind: resultNotDecodable}
}

// finalize prepends the 2-base payload-length field and 2-base
// packets-used field to strand, producing the complete info-DNA strand. Each
// header field is converted to a byte and only its low nibble is packed into
// 2 bases, not the 4-bases-per-byte scheme packet payloads use, so values
// above 15 are not recoverable from the header.
func finalize(strand base.Strand, payloadLen, packetsUsed int) base.Strand {
	header := mapHalfByteToBases(byte(payloadLen))
	header = append(header, mapHalfByteToBases(byte(packetsUsed))...)
	return base.New(append(header, strand.Bases()...))
}
