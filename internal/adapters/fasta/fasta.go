// Package fasta reads reference sequences and pattern lists from disk.
//
// Paths may name plain or gzip-compressed files; "-" reads standard input.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const bufSize = 4 << 20 // 4 MiB

// ErrInputUnavailable is returned when an input file cannot be opened or read.
var ErrInputUnavailable = errors.New("input unavailable")

// Record is one FASTA entry (whole chromosome or contig).
type Record struct {
	ID  string
	Seq []byte // upper-case, no line breaks or surrounding whitespace
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	return errors.Join(errs...)
}

// Open returns a buffered reader over path, transparently decompressing gzip.
func Open(path string) (io.ReadCloser, error) {
	var (
		f       io.ReadCloser
		closers []io.Closer
	)
	if path == "-" {
		f = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
		}
		f = file
	}
	closers = append(closers, f)

	br := bufio.NewReaderSize(f, bufSize)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrInputUnavailable, path, err)
		}
		closers = append(closers, zr)
		return &readCloser{Reader: bufio.NewReaderSize(zr, bufSize), closers: closers}, nil
	}
	return &readCloser{Reader: br, closers: closers}, nil
}

// Parse reads FASTA from r and calls fn for each record. Lines before the
// first header form a record with an empty ID. fn must copy Seq to keep it.
func Parse(r io.Reader, fn func(Record) error) error {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, bufSize)
	}

	var (
		id     string
		seq    []byte
		inFile bool // a header or sequence line has been seen
	)
	flush := func() error {
		if !inFile {
			return nil
		}
		return fn(Record{ID: id, Seq: seq})
	}
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("%w: %w", ErrInputUnavailable, err)
		}
		if len(line) > 0 && line[0] == '>' { // header
			if ferr := flush(); ferr != nil {
				return ferr
			}
			id = ""
			if fields := bytes.Fields(line[1:]); len(fields) > 0 {
				id = string(fields[0]) // grab up-to-first-space
			}
			seq = seq[:0]
			inFile = true
		} else if fields := bytes.Fields(line); len(fields) > 0 {
			// Whitespace anywhere in a sequence line is dropped.
			for _, f := range fields {
				seq = append(seq, bytes.ToUpper(f)...)
			}
			inFile = true
		}
		if err == io.EOF {
			return flush()
		}
	}
}

// Stream reads path and sends each record down out. It closes out when done
// or on the first error (returned). Each record owns its Seq.
func Stream(path string, out chan<- Record) error {
	defer close(out)
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	return Parse(rc, func(rec Record) error {
		rec.Seq = bytes.Clone(rec.Seq)
		out <- rec
		return nil
	})
}

// LoadSequence reads every record of path and concatenates their sequences
// into one upper-case text. Header lines are discarded.
func LoadSequence(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var text []byte
	err = Parse(rc, func(rec Record) error {
		text = append(text, rec.Seq...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return text, nil
}

// LoadPatterns reads one pattern per line, with every whitespace byte
// removed, upper-cased. Blank lines are skipped.
func LoadPatterns(path string) ([]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadPatterns(rc)
}

// ReadPatterns is LoadPatterns over an open reader.
func ReadPatterns(r io.Reader) ([]string, error) {
	var pats []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), bufSize)
	for sc.Scan() {
		line := strings.Join(strings.Fields(sc.Text()), "")
		if line == "" {
			continue
		}
		pats = append(pats, strings.ToUpper(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	return pats, nil
}

// WritePatterns writes patterns to path, one per line.
func WritePatterns(path string, patterns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, p := range patterns {
		w.WriteString(p)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
