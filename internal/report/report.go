// Package report renders matcher results for humans and for other programs.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/corey/gapseek/internal/domain/matcher"
)

// Format selects the output encoding.
type Format string

const (
	Text    Format = "text"
	TSV     Format = "tsv"
	JSON    Format = "json"
	Msgpack Format = "msgpack"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, TSV, JSON, Msgpack:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, tsv, json or msgpack)", s)
}

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// Options tune Write.
type Options struct {
	Color bool // ANSI colors in text output
	Count bool // print only the number of matches
}

// Record is one match as written by the structured formats.
type Record struct {
	PatternID int    `json:"pattern_id" msgpack:"pattern_id"`
	Pattern   string `json:"pattern" msgpack:"pattern"`
	Start     int    `json:"start" msgpack:"start"`
	End       int    `json:"end" msgpack:"end"`
}

// Document is the top-level json/msgpack value.
type Document struct {
	Stats   matcher.Stats `json:"stats" msgpack:"stats"`
	Matches []Record      `json:"matches" msgpack:"matches"`
}

// NewDocument pairs each match of res with its pattern string.
func NewDocument(res *matcher.Result, patterns []string) Document {
	doc := Document{Stats: res.Stats, Matches: make([]Record, len(res.Matches))}
	for i, m := range res.Matches {
		doc.Matches[i] = Record{PatternID: m.PatternID, Pattern: patternAt(patterns, m.PatternID), Start: m.Start, End: m.End}
	}
	return doc
}

func patternAt(patterns []string, id int) string {
	if id < 0 || id >= len(patterns) {
		return ""
	}
	return patterns[id]
}

// Write renders res in format f. patterns maps pattern IDs to their source.
//
//	text     3 matches │ 2 patterns │ 1.2ms
//	           ACGT:0-4
//	tsv      0<TAB>ACGT<TAB>0<TAB>4
func Write(w io.Writer, res *matcher.Result, patterns []string, f Format, opts Options) error {
	bw := bufio.NewWriter(w)

	if opts.Count {
		switch f {
		case JSON:
			if err := json.NewEncoder(bw).Encode(map[string]int{"matches": len(res.Matches)}); err != nil {
				return err
			}
		case Msgpack:
			if err := msgpack.NewEncoder(bw).Encode(map[string]int{"matches": len(res.Matches)}); err != nil {
				return err
			}
		default:
			fmt.Fprintf(bw, "%d\n", len(res.Matches))
		}
		return bw.Flush()
	}

	switch f {
	case TSV:
		for _, m := range res.Matches {
			fmt.Fprintf(bw, "%d\t%s\t%d\t%d\n", m.PatternID, patternAt(patterns, m.PatternID), m.Start, m.End)
		}
	case JSON:
		enc := json.NewEncoder(bw)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(res, patterns)); err != nil {
			return err
		}
	case Msgpack:
		if err := msgpack.NewEncoder(bw).Encode(NewDocument(res, patterns)); err != nil {
			return err
		}
	default:
		writeText(bw, res, patterns, opts.Color)
	}
	return bw.Flush()
}

func writeText(w *bufio.Writer, res *matcher.Result, patterns []string, color bool) {
	c := palette(color)
	fmt.Fprintf(w, "%s%d matches%s │ %d patterns │ %s\n",
		c.bold, len(res.Matches), c.reset, res.Stats.Patterns, round(res.Stats.ScanTime))
	for _, m := range res.Matches {
		fmt.Fprintf(w, "  %s%s%s:%s%d-%d%s\n",
			c.cyan, patternAt(patterns, m.PatternID), c.reset,
			c.green, m.Start, m.End, c.reset)
	}
}

// WriteStats prints the statistics block of a run.
func WriteStats(w io.Writer, s matcher.Stats, color bool) error {
	c := palette(color)
	bw := bufio.NewWriter(w)
	row := func(label string, value any) {
		fmt.Fprintf(bw, "  %s%-12s%s %v\n", c.gray, label, c.reset, value)
	}
	fmt.Fprintf(bw, "%sstats%s\n", c.bold, c.reset)
	row("text", fmt.Sprintf("%d bp", s.TextLength))
	row("patterns", s.Patterns)
	row("seeds", s.Seeds)
	row("unseedable", s.Unseedable)
	row("rejected", s.Rejected)
	row("nodes", s.Nodes)
	row("build", round(s.BuildTime))
	row("scan", round(s.ScanTime))
	row("matches", s.Matches)
	return bw.Flush()
}

type colors struct {
	reset, bold, cyan, green, gray string
}

func palette(on bool) colors {
	if !on {
		return colors{}
	}
	return colors{reset: colorReset, bold: colorBold, cyan: colorCyan, green: colorGreen, gray: colorGray}
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	}
	return d.Round(time.Microsecond)
}
