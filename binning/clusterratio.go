package binning

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
)

// BcrState is the per-canonical-UMI classification produced by
// FilterClusterRatio.
type BcrState int

const (
	// BcrOK means bin_size/cluster_size is within opts.BinClusterRatio.
	BcrOK BcrState = iota
	// BcrFail means the ratio exceeds opts.BinClusterRatio, or the
	// cluster size embedded in the UMI name could not be parsed (or
	// parsed as zero), which this filter treats identically to an
	// oversized bin rather than dividing by zero.
	BcrFail
)

func (s BcrState) String() string {
	if s == BcrOK {
		return "bcr_ok"
	}
	return "bcr_fail"
}

// ClusterRatioResult is the per-canonical-UMI outcome of
// FilterClusterRatio.
type ClusterRatioResult struct {
	ClusterSize int
	Ratio       float64
	State       BcrState
}

// parseClusterSize extracts the integer S from a UmiId of the form
// "...;size=S;...", per spec §3/§4.5.
func parseClusterSize(canonical string) (int, bool) {
	idx := strings.Index(canonical, "size=")
	if idx < 0 {
		return 0, false
	}
	rest := canonical[idx+len("size="):]
	if end := strings.IndexByte(rest, ';'); end >= 0 {
		rest = rest[:end]
	}
	size, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return size, true
}

// FilterClusterRatio implements spec §4.5 for every canonical UMI that
// reached the error-stats stage (i.e. has at least one surviving read
// after FilterOrientation): bin_size is the pre-subsample orientation-
// stage read count, cluster_size is parsed from the UMI name, and the
// ratio is classified against opts.BinClusterRatio.
func FilterClusterRatio(orientation map[string]*OrientationResult, ume map[string]*ErrorStatsResult, opts Opts) map[string]*ClusterRatioResult {
	results := make(map[string]*ClusterRatioResult, len(ume))
	for canonical := range ume {
		or := orientation[canonical]
		rawN := or.PlusCount + or.NegCount

		clusterSize, ok := parseClusterSize(canonical)
		if !ok || clusterSize <= 0 {
			log.Error.Printf("binning: UMI %q has an unparseable or zero cluster size; treating as bcr_fail", canonical)
			results[canonical] = &ClusterRatioResult{ClusterSize: clusterSize, Ratio: 0, State: BcrFail}
			continue
		}

		ratio := float64(rawN) / float64(clusterSize)
		state := BcrOK
		if ratio > opts.BinClusterRatio {
			state = BcrFail
		}
		results[canonical] = &ClusterRatioResult{ClusterSize: clusterSize, Ratio: ratio, State: state}
	}
	return results
}
