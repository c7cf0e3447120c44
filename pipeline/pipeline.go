/*
Package pipeline orchestrates the concurrent encoding run: it loads the
input lines and probe strands, builds whichever accepted-strand corpus the
chosen encoding mode needs, spawns one encoder worker per line over a
CPU-sized pool, and writes the FASTA output (in input-line order) plus an
optional CSV timing report.
*/
package pipeline

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dnaspool/infodna/base"
	"github.com/dnaspool/infodna/dgclient"
	"github.com/dnaspool/infodna/lsh"
	"github.com/dnaspool/infodna/raptor"
)

// Mode selects which whole-strand predicate the encoder sees and how the
// accepted-strand corpus is represented and checked.
type Mode string

const (
	ModeLSH   Mode = "lsh"
	ModeMixed Mode = "mixed"
	ModeNaive Mode = "naive"
)

// Params bundles every tunable the pipeline needs, mirroring the CLI's
// recognized keys (spec §6).
type Params struct {
	Mode                      Mode
	Overhead                  int
	MaxHPLen                  int
	MinDistToProbes           float64
	MinDistToSeqs             float64
	KProbes, RProbes, BProbes int
	KSeqs, RSeqs, BSeqs       int
	PacketsPerBlock           int
	MaxBlockEncodeLoops       int
	UseDGServer               bool
	Temperature               float32
	RaptorParams              raptor.Params
}

// Pipeline owns every piece of shared state an encoding run needs: the
// probe corpus (and its LSH, in lsh/mixed mode), the accepted-strand
// corpus, the fountain encoder, and an optional predictor client.
type Pipeline struct {
	params Params
	enc    *raptor.Encoder
	dg     *dgclient.Client

	probes   []base.Strand
	probeLSH *lsh.LSH

	corpusLSH  *LSHCorpus
	corpusList *ListCorpus
}

// New builds a Pipeline. probeLSH is constructed eagerly (a single exclusive
// builder pass, spec §5) whenever mode is lsh or mixed; naive mode never
// needs one since its encoder predicate skips probe proximity entirely.
func New(params Params, probes []base.Strand, dg *dgclient.Client) (*Pipeline, error) {
	p := &Pipeline{
		params: params,
		enc:    raptor.New(params.RaptorParams),
		dg:     dg,
		probes: probes,
	}

	switch params.Mode {
	case ModeLSH:
		p.probeLSH = lsh.New(params.KProbes, params.RProbes, params.BProbes)
		for _, probe := range probes {
			p.probeLSH.Insert(probe)
		}
		p.corpusLSH = NewLSHCorpus(params.KSeqs, params.RSeqs, params.BSeqs, params.MinDistToSeqs)
	case ModeMixed:
		p.probeLSH = lsh.New(params.KProbes, params.RProbes, params.BProbes)
		for _, probe := range probes {
			p.probeLSH.Insert(probe)
		}
		p.corpusList = NewListCorpus(params.KSeqs, params.MinDistToSeqs)
	case ModeNaive:
		p.corpusList = NewListCorpus(params.KSeqs, params.MinDistToSeqs)
	default:
		return nil, fmt.Errorf("pipeline: unrecognized encoding mode %q", params.Mode)
	}
	return p, nil
}

// Outcome is one completed line's result, carrying everything the CSV
// report and FASTA writer need.
type Outcome struct {
	LineID     int
	DoneID     int
	Strand     base.Strand
	Trials     int
	RQTime     time.Duration
	DeltaGTime time.Duration
}

// Run encodes every line concurrently over a pool sized to the machine's
// CPU count, and returns one Outcome per line in input order - a slice
// indexed by line id is itself the "reordering buffer keyed on line id"
// spec §5 calls for, since each worker only ever writes its own index.
func (p *Pipeline) Run(lines [][]byte) ([]Outcome, error) {
	outcomes := make([]Outcome, len(lines))
	var doneCounter atomic.Int64

	group := new(errgroup.Group)
	group.SetLimit(runtime.NumCPU())

	for i, payload := range lines {
		i, payload := i, payload
		group.Go(func() error {
			strand, trials, rqTime, dgTime, err := p.encodeOneLine(payload)
			if err != nil {
				return fmt.Errorf("pipeline: encoding line %d: %w", i, err)
			}
			doneID := int(doneCounter.Add(1)) - 1
			outcomes[i] = Outcome{
				LineID:     i,
				DoneID:     doneID,
				Strand:     strand,
				Trials:     trials,
				RQTime:     rqTime,
				DeltaGTime: dgTime,
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// encodeOneLine retries the encoder until a candidate clears the
// accepted-corpus check, per spec §4.6: corpus rejection is an ordinary retry
// signal, and an encoder that exhausts its loops still hands back its last
// candidate, so this loop has no bound other than the encoder eventually
// producing a strand that fits. The only error returned is one from
// EncodeToDNA itself (for example when no decodable combination was found at
// all).
func (p *Pipeline) encodeOneLine(payload []byte) (strand base.Strand, trials int, rqTime, dgTime time.Duration, err error) {
	for {
		trials++

		gcHP := func(s base.Strand) bool {
			return s.GC() >= 0.40 && s.GC() <= 0.60 && s.LongestHomopolymer() <= p.params.MaxHPLen
		}
		whole := func(s base.Strand) bool {
			if !gcHP(s) {
				return false
			}
			if p.probeLSH == nil {
				return true
			}
			neighbours := p.probeLSH.Similar(s)
			return farEnoughFromAll(s, neighbours, p.params.KProbes, p.params.MinDistToProbes)
		}
		attempt := trials
		dgCheck := func(s base.Strand) bool {
			if !p.params.UseDGServer || p.dg == nil {
				return true
			}
			dg := p.dg.DG(s, p.params.Temperature, attempt)
			return dgclient.ErrorFromDeltaG(dg) < dgclient.AcceptanceThreshold
		}

		result, encErr := p.enc.EncodeToDNA(
			payload,
			p.params.PacketsPerBlock,
			p.params.Overhead,
			p.params.MaxBlockEncodeLoops,
			gcHP,
			whole,
			dgCheck,
		)
		if encErr != nil {
			return base.Strand{}, trials, rqTime, dgTime, encErr
		}
		rqTime += result.RQTime
		dgTime += result.DeltaGTime

		if p.accept(result.Strand) {
			return result.Strand, trials, rqTime, dgTime, nil
		}
	}
}

func (p *Pipeline) accept(candidate base.Strand) bool {
	switch p.params.Mode {
	case ModeLSH:
		return p.corpusLSH.TryAccept(candidate)
	case ModeMixed:
		return p.corpusList.TryAccept(candidate)
	case ModeNaive:
		if !farEnoughFromAll(candidate, p.probes, p.params.KProbes, p.params.MinDistToProbes) {
			return false
		}
		return p.corpusList.TryAccept(candidate)
	default:
		return false
	}
}

func numWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
