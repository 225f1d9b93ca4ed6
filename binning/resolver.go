package binning

import "sort"

// Assignment is one read's resolved UMI match.
type Assignment struct {
	Read        ReadID
	Umi         UmiID
	CombinedErr int
}

// Resolve intersects index1 and index2 per spec §4.2: for every (umi,
// read) pair with evidence on both ends, admit it if both per-end errors
// are within opts.PerUMIMax and their sum is within opts.CombinedMax, then
// keep the admitted proposal with the smallest combined error for each
// read (ties go to whichever proposal was considered first).
//
// UmiIDs and, within a UMI, ReadIDs are visited in ascending order so that
// the tie-break is deterministic regardless of Go's randomized map
// iteration order (spec §8 invariant 6).
func Resolve(index1, index2 *CandidateIndex, opts Opts) map[ReadID]Assignment {
	assignments := make(map[ReadID]Assignment)

	umiIDs := index1.UmiIDs()
	sort.Slice(umiIDs, func(i, j int) bool { return umiIDs[i] < umiIDs[j] })

	for _, u := range umiIDs {
		reads := index1.Reads(u)
		readIDs := make([]ReadID, 0, len(reads))
		for r := range reads {
			readIDs = append(readIDs, r)
		}
		sort.Slice(readIDs, func(i, j int) bool { return readIDs[i] < readIDs[j] })

		for _, r := range readIDs {
			e1 := reads[r]
			e2, ok := index2.Lookup(u, r)
			if !ok {
				continue
			}
			if e1 > opts.PerUMIMax || e2 > opts.PerUMIMax {
				continue
			}
			combined := e1 + e2
			if combined > opts.CombinedMax {
				continue
			}
			if existing, ok := assignments[r]; ok && existing.CombinedErr <= combined {
				continue
			}
			assignments[r] = Assignment{Read: r, Umi: u, CombinedErr: combined}
		}
	}
	return assignments
}
