package binning

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// statsHeader is the header row of umi_binning_stats.txt, matching spec
// §4.6's column list exactly.
var statsHeader = []string{
	"umi_name", "read_n_raw", "read_n_filt", "read_n_plus", "read_n_neg",
	"read_max_plus", "read_max_neg", "read_orientation_ratio", "ror_filter",
	"umi_match_error_mean", "umi_match_error_sd", "ume_filter",
	"bin_cluster_ratio", "bcr_filter",
}

// WriteStats writes umi_binning_stats.txt to w: one row per canonical UMI
// present in orientation (every UMI that reached the orientation stage),
// in ascending UmiId order for determinism. A UMI that never reached the
// error-stats or cluster-ratio stage (rof_fail) renders those columns
// empty, per spec §4.6.
func WriteStats(w io.Writer, orientation map[string]*OrientationResult, ume map[string]*ErrorStatsResult, bcr map[string]*ClusterRatioResult) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, joinFields(statsHeader)); err != nil {
		return err
	}

	names := make([]string, 0, len(orientation))
	for name := range orientation {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		or := orientation[name]
		readMaxPlus := or.PlusCap + or.PlusCount
		readMaxNeg := or.NegCap + or.NegCount

		fields := []string{
			name,
			itoa(or.PlusCount + or.NegCount),
			itoa(or.filteredCount()),
			itoa(or.PlusCount),
			itoa(or.NegCount),
			itoa(readMaxPlus),
			itoa(readMaxNeg),
			ftoa(or.MinorFrac),
			or.State.String(),
			emptyUnless(ume[name] != nil, func() string { return ftoa(ume[name].Mean) }),
			emptyUnless(ume[name] != nil, func() string { return ftoa(ume[name].SD) }),
			emptyUnless(ume[name] != nil, func() string { return ume[name].State.String() }),
			emptyUnless(bcr[name] != nil, func() string { return ftoa(bcr[name].Ratio) }),
			emptyUnless(bcr[name] != nil, func() string { return bcr[name].State.String() }),
		}
		if _, err := fmt.Fprintln(bw, joinFields(fields)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteBinMap writes umi_bin_map.txt to w: one unheaded row per retained
// read, sorted by ReadID for determinism. A read is retained iff its
// UMI's ror_filter is exactly rof_ok (per spec §8 invariant 1: rof_subset
// is kept for statistics but never emitted) and both ume_filter and
// bcr_filter are *_ok.
func WriteBinMap(w io.Writer, survivors map[ReadID]Assignment, umis, reads *Interner, orientation map[string]*OrientationResult, ume map[string]*ErrorStatsResult, bcr map[string]*ClusterRatioResult) error {
	bw := bufio.NewWriter(w)

	readIDs := make([]ReadID, 0, len(survivors))
	for r := range survivors {
		readIDs = append(readIDs, r)
	}
	sort.Slice(readIDs, func(i, j int) bool { return readIDs[i] < readIDs[j] })

	for _, r := range readIDs {
		a := survivors[r]
		canonical, _ := canonicalUmi(umis.String(int32(a.Umi)))
		if !emittable(canonical, orientation, ume, bcr) {
			continue
		}
		fields := []string{canonical, reads.String(int32(r)), itoa(a.CombinedErr)}
		if _, err := fmt.Fprintln(bw, joinFields(fields)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func emittable(canonical string, orientation map[string]*OrientationResult, ume map[string]*ErrorStatsResult, bcr map[string]*ClusterRatioResult) bool {
	or, ok := orientation[canonical]
	if !ok || or.State != RofOk {
		return false
	}
	u, ok := ume[canonical]
	if !ok || u.State != UmeOK {
		return false
	}
	b, ok := bcr[canonical]
	if !ok || b.State != BcrOK {
		return false
	}
	return true
}

func joinFields(fields []string) string {
	out := fields[0]
	for _, f := range fields[1:] {
		out += " " + f
	}
	return out
}

func itoa(v int) string {
	return fmt.Sprintf("%d", v)
}

func ftoa(v float64) string {
	return fmt.Sprintf("%g", v)
}

func emptyUnless(ok bool, render func() string) string {
	if !ok {
		return ""
	}
	return render()
}
