/*
Package config parses the CLI's key=value argument tokens into a Config.
The format is deliberately not POSIX flags - arguments are bare
"key=value" pairs in any order - so this is a small hand-rolled parser
rather than something built on a flag library: urfave/cli (used elsewhere
in this module for the validate subcommand) assumes dash-prefixed flags and
has no affordance for this shape.
*/
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dnaspool/infodna/pipeline"
	"github.com/dnaspool/infodna/raptor"
)

// Args is a parsed, deduplicated key=value argument set with typed getters
// that fall back to a caller-supplied default whenever the key is absent or
// fails to parse - matching the permissive original tool's behavior rather
// than erroring on a malformed value.
type Args struct {
	values map[string]string
}

// Parse splits each token on '=' into a key/value pair. A token without
// exactly one '=' or a key seen more than once is a fatal configuration
// error.
func Parse(tokens []string) (*Args, error) {
	values := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		eq := strings.Index(tok, "=")
		if eq < 0 || strings.Count(tok, "=") != 1 {
			return nil, fmt.Errorf("config: failed parsing argument: %s", tok)
		}
		key, value := tok[:eq], tok[eq+1:]
		if _, dup := values[key]; dup {
			return nil, fmt.Errorf("config: duplicate argument: %s (already have %s=%s)", tok, key, values[key])
		}
		values[key] = value
	}
	return &Args{values: values}, nil
}

// GetString returns the raw string value for name, or def if absent.
func (a *Args) GetString(name, def string) string {
	if v, ok := a.values[name]; ok {
		return v
	}
	return def
}

// GetInt parses name as an int, falling back to def on absence or a parse
// failure.
func (a *Args) GetInt(name string, def int) int {
	v, ok := a.values[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetFloat64 parses name as a float64, falling back to def on absence or a
// parse failure.
func (a *Args) GetFloat64(name string, def float64) float64 {
	v, ok := a.values[name]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetFloat32 parses name as a float32, falling back to def on absence or a
// parse failure.
func (a *Args) GetFloat32(name string, def float32) float32 {
	v, ok := a.values[name]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// GetBool parses name leniently: "1", "true", "yes", and "y" (case
// insensitive) are true, everything else present is false, and absence
// falls back to def.
func (a *Args) GetBool(name string, def bool) bool {
	v, ok := a.values[name]
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// Config is the fully resolved, typed set of options the pipeline needs,
// with the CLI's documented defaults (spec §6) baked in.
type Config struct {
	LinesPath     string
	ProbesPath    string
	InfoDNAPath   string
	EncodingMode  pipeline.Mode
	Overhead      int
	MaxHPLen      int
	UseDGServer   bool
	ReadAsLines   bool
	Approve       bool
	Report        bool
	AppendReport  bool
	ReportPath    string

	MinDistToProbes float64
	MinDistToSeqs   float64

	KProbes, RProbes, BProbes int
	KSeqs, RSeqs, BSeqs       int

	DGAddress   string
	DGStartPort int

	SecondaryStructTemp float32

	RaptorParams         raptor.Params
	PacketsPerBlock      int
	MaxBlockEncodeLoops  int
}

// FromArgs resolves a Config from parsed CLI arguments, applying the
// original tool's defaults and validating the encoding mode and LSH shape
// constraints (spec §6: r must be a positive multiple of b; k <= 33).
func FromArgs(a *Args) (Config, error) {
	modeStr := a.GetString("encoding_mode", "lsh")
	mode := pipeline.Mode(modeStr)
	switch mode {
	case pipeline.ModeLSH, pipeline.ModeMixed, pipeline.ModeNaive:
	default:
		return Config{}, fmt.Errorf("config: unrecognized encoding_mode %q", modeStr)
	}

	c := Config{
		LinesPath:    a.GetString("lines_path", "lines.txt"),
		ProbesPath:   a.GetString("probes_path", "probes.fa"),
		InfoDNAPath:  a.GetString("info_dna_path", "info-dna.fa"),
		EncodingMode: mode,
		Overhead:     a.GetInt("overhead", 0),
		MaxHPLen:     a.GetInt("max_hp_len", 5),
		UseDGServer:  a.GetBool("use_dg_server", true),
		ReadAsLines:  a.GetBool("read_as_lines", true),
		Approve:      a.GetBool("approve", true),
		Report:       a.GetBool("report", true),
		AppendReport: a.GetBool("append_to_report", true),
		ReportPath:   a.GetString("report_path", "RQPAP_report.csv"),

		MinDistToProbes: a.GetFloat64("min_dist_to_probes", 0.4),
		MinDistToSeqs:   a.GetFloat64("min_dist_to_seqs", 0.4),

		KProbes: a.GetInt("lsh_k_probes", 4),
		RProbes: a.GetInt("lsh_r_probes", 200),
		BProbes: a.GetInt("lsh_b_probes", 20),

		KSeqs: a.GetInt("lsh_k_seqs", 5),
		RSeqs: a.GetInt("lsh_r_seqs", 200),
		BSeqs: a.GetInt("lsh_b_seqs", 20),

		DGAddress:   a.GetString("dg_address", "127.0.0.1"),
		DGStartPort: a.GetInt("dg_start_port", 6000),

		SecondaryStructTemp: a.GetFloat32("secondary_struct_temp", 25.0),

		RaptorParams:        raptor.DefaultParams(),
		PacketsPerBlock:     a.GetInt("packets_per_block", 5),
		MaxBlockEncodeLoops: a.GetInt("max_block_encode_loops", 200),
	}

	if err := validateLSHShape("probes", c.RProbes, c.BProbes, c.KProbes); err != nil {
		return Config{}, err
	}
	if err := validateLSHShape("seqs", c.RSeqs, c.BSeqs, c.KSeqs); err != nil {
		return Config{}, err
	}
	return c, nil
}

func validateLSHShape(label string, r, b, k int) error {
	if b <= 0 || r <= 0 || r%b != 0 {
		return fmt.Errorf("config: lsh_%s: r (%d) must be a positive multiple of b (%d)", label, r, b)
	}
	if k > 33 {
		return fmt.Errorf("config: lsh_%s: k (%d) must be <= 33", label, k)
	}
	return nil
}
