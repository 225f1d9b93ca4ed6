package binning

import (
	"sort"
	"strings"
)

// RorState is the per-canonical-UMI classification produced by
// FilterOrientation.
type RorState int

const (
	// RofFail means no orientation balance is possible for this UMI; it
	// is rejected and contributes no reads downstream.
	RofFail RorState = iota
	// RofOk means the minority strand already meets opts.ROFrac; both
	// caps are opts.MaxBinSize.
	RofOk
	// RofSubset means the UMI is kept but both strands are capped to
	// enforce the configured ratio; it still feeds the error-stats and
	// cluster-ratio filters, but per spec §8 invariant 1 only RofOk UMIs
	// are ever emitted to the bin map.
	RofSubset
)

// String renders the state using the filter-value names from spec §4.6's
// report columns.
func (s RorState) String() string {
	switch s {
	case RofFail:
		return "rof_fail"
	case RofOk:
		return "rof_ok"
	case RofSubset:
		return "rof_subset"
	default:
		return "rof_unknown"
	}
}

// OrientationResult is the per-canonical-UMI outcome of FilterOrientation:
// raw (pre-subsample) strand counts, the caps applied, and the resulting
// state.
type OrientationResult struct {
	Canonical string
	PlusCount int
	NegCount  int
	PlusCap   int
	NegCap    int
	State     RorState
	// MinorFrac is min(PlusCount, NegCount) / (PlusCount + NegCount).
	MinorFrac float64
	// filtered is the number of reads that survived the subsampling
	// pass for this UMI; see filteredCount.
	filtered int
}

// filteredCount returns the number of reads that survived subsampling
// for this UMI (read_n_filt in the stats table).
func (r *OrientationResult) filteredCount() int {
	return r.filtered
}

// canonicalUmi strips a trailing "_rc" suffix, reporting the canonical
// UmiId and the strand the raw id represents: '-' if the suffix was
// present, '+' otherwise.
func canonicalUmi(raw string) (canonical string, strand byte) {
	if strings.HasSuffix(raw, "_rc") {
		return raw[:len(raw)-len("_rc")], '-'
	}
	return raw, '+'
}

type orientedRead struct {
	read   ReadID
	strand byte
	a      Assignment
}

// FilterOrientation implements spec §4.3. It groups assignments by
// canonical UmiId, classifies each group's orientation balance, and
// subsamples to enforce it in a single deterministic pass (reads are
// visited in ascending ReadID order per canonical UMI, since Go map
// iteration order is randomized and spec §8 invariant 6 requires
// byte-identical output across runs).
func FilterOrientation(assignments map[ReadID]Assignment, umis *Interner, opts Opts) (map[ReadID]Assignment, map[string]*OrientationResult) {
	groups := make(map[string][]orientedRead)
	for r, a := range assignments {
		raw := umis.String(int32(a.Umi))
		canonical, strand := canonicalUmi(raw)
		groups[canonical] = append(groups[canonical], orientedRead{read: r, strand: strand, a: a})
	}

	results := make(map[string]*OrientationResult, len(groups))
	survivors := make(map[ReadID]Assignment)

	for canonical, reads := range groups {
		sort.Slice(reads, func(i, j int) bool { return reads[i].read < reads[j].read })

		res := &OrientationResult{Canonical: canonical}
		for _, or := range reads {
			if or.strand == '+' {
				res.PlusCount++
			} else {
				res.NegCount++
			}
		}

		minorCount := res.PlusCount
		if res.NegCount < minorCount {
			minorCount = res.NegCount
		}
		if total := res.PlusCount + res.NegCount; total > 0 {
			res.MinorFrac = float64(minorCount) / float64(total)
		}

		switch {
		case res.PlusCount <= 1 || res.NegCount <= 1:
			res.State = RofFail
			res.PlusCap, res.NegCap = 0, 0
		default:
			if res.MinorFrac >= opts.ROFrac {
				res.State = RofOk
				res.PlusCap, res.NegCap = opts.MaxBinSize, opts.MaxBinSize
			} else {
				res.State = RofSubset
				majorCount := res.PlusCount
				if res.NegCount > majorCount {
					majorCount = res.NegCount
				}
				cap := int(float64(majorCount) * (1/opts.ROFrac - 1))
				res.PlusCap, res.NegCap = cap, cap
			}
		}
		results[canonical] = res

		if res.State == RofFail {
			continue
		}
		plusQuota, negQuota := res.PlusCap, res.NegCap
		for _, or := range reads {
			if or.strand == '+' {
				if plusQuota <= 0 {
					continue
				}
				plusQuota--
			} else {
				if negQuota <= 0 {
					continue
				}
				negQuota--
			}
			survivors[or.read] = or.a
			res.filtered++
		}
	}
	return survivors, results
}
