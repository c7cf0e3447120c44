package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// ReportHeader is the fixed CSV column order spec §6 mandates.
var ReportHeader = []string{
	"Progress(%)", "Line Id", "Done Id", "Trials", "Time(ms)", "Time For",
	"File Size", "Total Bytes", "Overhead", "Length", "Max HP Length",
	"Min. Dist To Probes", "Min. Dist To Seqs", "Encoding Mode", "Use DG Server",
}

// TimeFor enumerates the three row kinds emitted per completed line.
type TimeFor string

const (
	TimeForRQ        TimeFor = "RQ"
	TimeForSecStruct TimeFor = "Sec. Struct."
	TimeForTotal     TimeFor = "Total"
)

// ReportRow is one line of the CSV report. Three rows are written per
// completed line, one per TimeFor value.
type ReportRow struct {
	ProgressPercent float64
	LineID          int
	DoneID          int
	Trials          int
	TimeMS          int64
	TimeFor         TimeFor
	FileSize        int64
	TotalBytes      int64
	Overhead        int
	Length          int
	MaxHPLength     int
	MinDistToProbes float64
	MinDistToSeqs   float64
	EncodingMode    string
	UseDGServer     bool
}

func (r ReportRow) strings() []string {
	return []string{
		strconv.FormatFloat(r.ProgressPercent, 'f', 2, 64),
		strconv.Itoa(r.LineID),
		strconv.Itoa(r.DoneID),
		strconv.Itoa(r.Trials),
		strconv.FormatInt(r.TimeMS, 10),
		string(r.TimeFor),
		strconv.FormatInt(r.FileSize, 10),
		strconv.FormatInt(r.TotalBytes, 10),
		strconv.Itoa(r.Overhead),
		strconv.Itoa(r.Length),
		strconv.Itoa(r.MaxHPLength),
		strconv.FormatFloat(r.MinDistToProbes, 'f', -1, 64),
		strconv.FormatFloat(r.MinDistToSeqs, 'f', -1, 64),
		r.EncodingMode,
		strconv.FormatBool(r.UseDGServer),
	}
}

// BuildRows turns a completed run's Outcomes into the three CSV rows per
// line spec §6 requires: RQ time, secondary-structure (DeltaG) time, and
// their total. fileSize is the size in bytes of the FASTA file once
// written, reported identically on every row since it is only known after
// the whole run completes.
func BuildRows(outcomes []Outcome, lines [][]byte, params Params, fileSize int64) []ReportRow {
	rows := make([]ReportRow, 0, len(outcomes)*3)
	var totalBytes int64
	for _, o := range outcomes {
		totalBytes += int64(o.Strand.Len())
		base := ReportRow{
			ProgressPercent: 100 * float64(o.DoneID+1) / float64(len(outcomes)),
			LineID:          o.LineID,
			DoneID:          o.DoneID,
			Trials:          o.Trials,
			FileSize:        fileSize,
			TotalBytes:      totalBytes,
			Overhead:        params.Overhead,
			Length:          len(lines[o.LineID]),
			MaxHPLength:     params.MaxHPLen,
			MinDistToProbes: params.MinDistToProbes,
			MinDistToSeqs:   params.MinDistToSeqs,
			EncodingMode:    string(params.Mode),
			UseDGServer:     params.UseDGServer,
		}
		rq, secStruct := base, base
		total := base
		rq.TimeFor, rq.TimeMS = TimeForRQ, elapsedMS(o.RQTime)
		secStruct.TimeFor, secStruct.TimeMS = TimeForSecStruct, elapsedMS(o.DeltaGTime)
		total.TimeFor, total.TimeMS = TimeForTotal, elapsedMS(o.RQTime+o.DeltaGTime)
		rows = append(rows, rq, secStruct, total)
	}
	return rows
}

// ReportWriter appends rows to a CSV report file. The header is written when
// the writer is opened on a file that is missing or empty, or that it has
// just truncated (append_to_report off).
type ReportWriter struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

// NewReportWriter opens path in append mode (truncating first unless
// appendToReport is set), writing the header row if the file is new or was
// just truncated.
func NewReportWriter(path string, appendToReport bool) (*ReportWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	writeHeader := false
	if !appendToReport {
		flags |= os.O_TRUNC
		writeHeader = true
	} else if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		writeHeader = true
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pipeline: opening report file %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(ReportHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("pipeline: writing report header: %w", err)
		}
		w.Flush()
	}

	return &ReportWriter{f: f, w: w}, nil
}

// AppendRows writes rows and flushes. Safe for concurrent use.
func (rw *ReportWriter) AppendRows(rows []ReportRow) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	for _, row := range rows {
		if err := rw.w.Write(row.strings()); err != nil {
			return fmt.Errorf("pipeline: writing report row: %w", err)
		}
	}
	rw.w.Flush()
	return rw.w.Error()
}

// Close flushes and closes the underlying file.
func (rw *ReportWriter) Close() error {
	rw.w.Flush()
	return rw.f.Close()
}

func elapsedMS(d time.Duration) int64 {
	return d.Milliseconds()
}
