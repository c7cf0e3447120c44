package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/lunny/log"

	"github.com/dnaspool/infodna/config"
	"github.com/dnaspool/infodna/dgclient"
	"github.com/dnaspool/infodna/pipeline"
)

func numWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

func run(args []string) error {
	start := time.Now()

	parsed, err := config.Parse(args)
	if err != nil {
		return err
	}
	cfg, err := config.FromArgs(parsed)
	if err != nil {
		return err
	}

	printParameters(cfg)

	if cfg.Approve && !approveParameters() {
		fmt.Println("------------------------------------------------------")
		fmt.Println("-> Parameters were not approved -> program terminated.")
		return nil
	}
	fmt.Println("------------------------------------------------------")

	var dgClient *dgclient.Client
	if cfg.UseDGServer {
		dgClient, err = dgclient.New(cfg.DGAddress, cfg.DGStartPort, numWorkers())
		if err != nil {
			return fmt.Errorf("main: connecting to dg server: %w", err)
		}
		defer dgClient.Close()
	}

	var lines [][]byte
	if cfg.ReadAsLines {
		lines, err = pipeline.LoadTextLines(cfg.LinesPath)
	} else {
		lines, err = pipeline.LoadBinaryLines(cfg.LinesPath)
	}
	if err != nil {
		return err
	}
	log.Infof("lines imported = %d", len(lines))

	probes, err := pipeline.LoadProbes(cfg.ProbesPath)
	if err != nil {
		return err
	}
	log.Infof("probes imported = %d", len(probes))

	if len(lines) != len(probes) {
		log.Warnf("jobs (%d) != probes (%d)", len(lines), len(probes))
	}
	fmt.Println("------------------------------------------------------")

	params := pipeline.Params{
		Mode:                cfg.EncodingMode,
		Overhead:            cfg.Overhead,
		MaxHPLen:            cfg.MaxHPLen,
		MinDistToProbes:     cfg.MinDistToProbes,
		MinDistToSeqs:       cfg.MinDistToSeqs,
		KProbes:             cfg.KProbes,
		RProbes:             cfg.RProbes,
		BProbes:             cfg.BProbes,
		KSeqs:               cfg.KSeqs,
		RSeqs:               cfg.RSeqs,
		BSeqs:               cfg.BSeqs,
		PacketsPerBlock:     cfg.PacketsPerBlock,
		MaxBlockEncodeLoops: cfg.MaxBlockEncodeLoops,
		UseDGServer:         cfg.UseDGServer,
		Temperature:         cfg.SecondaryStructTemp,
		RaptorParams:        cfg.RaptorParams,
	}

	p, err := pipeline.New(params, probes, dgClient)
	if err != nil {
		return err
	}

	log.Infof("initiating...")
	outcomes, err := p.Run(lines)
	if err != nil {
		return err
	}

	entries := make([]pipeline.FastaEntry, len(outcomes))
	for _, o := range outcomes {
		entries[o.LineID] = pipeline.FastaEntry{
			Caption: strconv.Itoa(o.LineID + 1),
			Strand:  o.Strand,
		}
	}
	if err := pipeline.WriteFasta(cfg.InfoDNAPath, entries); err != nil {
		return err
	}

	if cfg.Report {
		var fileSize int64
		if info, statErr := os.Stat(cfg.InfoDNAPath); statErr == nil {
			fileSize = info.Size()
		}
		rows := pipeline.BuildRows(outcomes, lines, params, fileSize)
		rw, err := pipeline.NewReportWriter(cfg.ReportPath, cfg.AppendReport)
		if err != nil {
			return err
		}
		defer rw.Close()
		if err := rw.AppendRows(rows); err != nil {
			return err
		}
	}

	printRunSummary(time.Since(start))
	return nil
}

func printParameters(cfg config.Config) {
	fmt.Printf("lines_path              = %s\n", cfg.LinesPath)
	fmt.Printf("probes_path             = %s\n", cfg.ProbesPath)
	fmt.Printf("info_dna_path           = %s\n", cfg.InfoDNAPath)
	fmt.Printf("encoding_mode           = %s\n", cfg.EncodingMode)
	fmt.Printf("overhead                = %d\n", cfg.Overhead)
	fmt.Printf("max_hp_len              = %d\n", cfg.MaxHPLen)
	fmt.Printf("use_dg_server           = %v\n", cfg.UseDGServer)
	fmt.Printf("read_as_lines           = %v\n", cfg.ReadAsLines)
	fmt.Printf("approve                 = %v\n", cfg.Approve)
	fmt.Printf("report                  = %v\n", cfg.Report)
	fmt.Printf("report_path             = %s\n", cfg.ReportPath)
	fmt.Printf("append_to_report        = %v\n", cfg.AppendReport)
	fmt.Printf("min_dist_to_probes      = %v\n", cfg.MinDistToProbes)
	fmt.Printf("min_dist_to_seqs        = %v\n", cfg.MinDistToSeqs)
	fmt.Printf("lsh_k_r_b_probes        = %d/%d/%d\n", cfg.KProbes, cfg.RProbes, cfg.BProbes)
	fmt.Printf("lsh_k_r_b_seqs          = %d/%d/%d\n", cfg.KSeqs, cfg.RSeqs, cfg.BSeqs)
}

// approveParameters requires an explicit yes on stdin before the pipeline
// runs - a guard against starting a long encode with the wrong arguments.
func approveParameters() bool {
	fmt.Print("proceed with these parameters? [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	switch answer {
	case "y", "yes", "1", "true":
		return true
	default:
		return false
	}
}

func printRunSummary(elapsed time.Duration) {
	ms := float64(elapsed.Milliseconds())
	fmt.Printf("finished encoding all lines in %.0f millis\n", ms)
	fmt.Printf("finished encoding all lines in %f seconds\n", ms/1000)
	fmt.Printf("finished encoding all lines in %f minutes\n", ms/1000/60)
	fmt.Printf("finished encoding all lines in %f hours\n", ms/1000/60/60)
}
