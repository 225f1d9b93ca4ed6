package binning

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// HitRecord is one (umi, read, editDistance) tuple yielded by
// SamHitReader: either a record's primary alignment, or one of its
// forward-strand secondary alignments.
type HitRecord struct {
	Umi string // raw query name column, may carry an _rc suffix
	Read string
	Err int
}

// SamHitReaderStats counts records SamHitReader skipped (too few fields,
// missing or malformed NM), XA entries it dropped as malformed (the rest of
// such a record is still used), records with at least 11 fields, and hits
// emitted. It exists purely
// for diagnostics (SPEC_FULL.md supplement 3); nothing downstream depends
// on its values.
type SamHitReaderStats struct {
	RecordsRead   int64
	HitsEmitted   int64
	TooFewFields  int64
	MissingNM     int64
	MalformedXA   int64
}

// SamHitReader streams a SAM tabular alignment file and yields HitRecords
// per the rules in spec §4.1: column 1 is the UMI query name, column 3 is
// the read reference name, the NM:i: tag is the primary edit distance, and
// the XA:Z: tag lists forward-strand ("+"-prefixed pos) secondary hits.
// Header lines (leading '@') and short/malformed records are skipped
// silently; SamHitReader tolerates the same heterogeneous SAM content the
// upstream long-read pipeline does.
type SamHitReader struct {
	scanner *bufio.Scanner
	stats   SamHitReaderStats
	pending []HitRecord
}

// NewSamHitReader returns a SamHitReader over r.
func NewSamHitReader(r io.Reader) *SamHitReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &SamHitReader{scanner: s}
}

// Stats returns a snapshot of the reader's skip/emit counters.
func (r *SamHitReader) Stats() SamHitReaderStats {
	return r.stats
}

// Scan advances to the next HitRecord and reports whether one is
// available. It must be called before the first call to Record.
func (r *SamHitReader) Scan() bool {
	for len(r.pending) == 0 {
		if !r.scanner.Scan() {
			return false
		}
		r.pending = r.parseLine(r.scanner.Text())
	}
	return true
}

// Record returns the HitRecord produced by the most recent successful
// call to Scan.
func (r *SamHitReader) Record() HitRecord {
	rec := r.pending[0]
	r.pending = r.pending[1:]
	r.stats.HitsEmitted++
	return rec
}

// Err returns the first non-EOF error encountered while scanning, if any.
func (r *SamHitReader) Err() error {
	return r.scanner.Err()
}

// parseLine turns one SAM line into zero or more HitRecords: the primary
// alignment, plus one per forward-strand XA secondary hit.
func (r *SamHitReader) parseLine(line string) []HitRecord {
	if line == "" || line[0] == '@' {
		return nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) < 11 {
		r.stats.TooFewFields++
		return nil
	}
	r.stats.RecordsRead++
	queryName := fields[0]
	refName := fields[2]

	nm, haveNM := -1, false
	var xa string
	haveXA := false
	for _, tag := range fields[11:] {
		switch {
		case strings.HasPrefix(tag, "NM:i:"):
			v, err := strconv.Atoi(tag[len("NM:i:"):])
			if err != nil {
				continue
			}
			nm, haveNM = v, true
		case strings.HasPrefix(tag, "XA:Z:"):
			xa, haveXA = tag[len("XA:Z:"):], true
		}
	}
	if !haveNM {
		r.stats.MissingNM++
		return nil
	}

	recs := []HitRecord{{Umi: queryName, Read: refName, Err: nm}}
	if haveXA {
		recs = append(recs, r.parseXA(queryName, xa)...)
	}
	return recs
}

// parseXA parses a semicolon-terminated list of comma-separated
// ref,pos,cigar,nm secondary-hit quadruples, keeping only entries whose
// pos begins with '+' (forward-strand mapping of the UMI onto the read;
// see spec §9's note on XA strand polarity).
func (r *SamHitReader) parseXA(queryName, xa string) []HitRecord {
	var recs []HitRecord
	for _, item := range strings.Split(xa, ";") {
		if item == "" {
			continue
		}
		parts := strings.Split(item, ",")
		if len(parts) != 4 {
			r.stats.MalformedXA++
			continue
		}
		ref, pos, nmStr := parts[0], parts[1], parts[3]
		if pos == "" || (pos[0] != '+' && pos[0] != '-') {
			r.stats.MalformedXA++
			continue
		}
		if pos[0] != '+' {
			continue
		}
		nm, err := strconv.Atoi(nmStr)
		if err != nil {
			r.stats.MalformedXA++
			continue
		}
		recs = append(recs, HitRecord{Umi: queryName, Read: ref, Err: nm})
	}
	return recs
}
