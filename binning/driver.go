package binning

import (
	"context"
	"path/filepath"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Summary is a diagnostic-only report of one Run; nothing in its schema is
// part of the contract in spec §6/§7, it exists to give an operator
// visibility into how much input was discarded (SPEC_FULL.md supplement
// 3).
type Summary struct {
	Umi1Stats     SamHitReaderStats
	Umi2Stats     SamHitReaderStats
	UmisResolved  int
	UmisStats     int
	UmisEmitted   int
	ReadsEmitted  int
}

// Run wires the full pipeline described in spec §2's component table:
// SamHitReader -> CandidateIndex (twice) -> AssignmentResolver ->
// OrientationFilter -> ErrorStatsFilter -> ClusterRatioFilter ->
// ReportWriter. It reads
// <opts.OutputDir>/read_binning/{umi1,umi2}_map.sam (transparently
// decompressing if gzipped) and, unless opts.DryRun, writes
// umi_binning_stats.txt and umi_bin_map.txt directly under opts.OutputDir.
func Run(ctx context.Context, opts Opts) (Summary, error) {
	var summary Summary
	if err := opts.Validate(); err != nil {
		return summary, err
	}

	umis := NewInterner()
	reads := NewInterner()

	log.Debug.Printf("binning: loading umi1 candidates")
	index1 := NewCandidateIndex(umis, reads)
	stats1, err := loadIndex(ctx, filepath.Join(opts.OutputDir, "read_binning", "umi1_map.sam"), index1)
	if err != nil {
		return summary, errors.E(err, "binning: failed to load umi1 SAM")
	}
	summary.Umi1Stats = stats1

	log.Debug.Printf("binning: loading umi2 candidates")
	index2 := NewCandidateIndex(umis, reads)
	stats2, err := loadIndex(ctx, filepath.Join(opts.OutputDir, "read_binning", "umi2_map.sam"), index2)
	if err != nil {
		return summary, errors.E(err, "binning: failed to load umi2 SAM")
	}
	summary.Umi2Stats = stats2

	log.Debug.Printf("binning: resolving match assignments")
	assignments := Resolve(index1, index2, opts)
	summary.UmisResolved = len(assignments)

	log.Debug.Printf("binning: applying orientation filter")
	survivors, orientationResults := FilterOrientation(assignments, umis, opts)

	log.Debug.Printf("binning: applying error-mean/sd filter")
	umeResults := FilterErrorStats(survivors, umis, opts)
	summary.UmisStats = len(orientationResults)

	log.Debug.Printf("binning: applying bin/cluster-ratio filter")
	bcrResults := FilterClusterRatio(orientationResults, umeResults, opts)

	for name := range orientationResults {
		if emittable(name, orientationResults, umeResults, bcrResults) {
			summary.UmisEmitted++
		}
	}
	for _, r := range survivors {
		canonical, _ := canonicalUmi(umis.String(int32(r.Umi)))
		if emittable(canonical, orientationResults, umeResults, bcrResults) {
			summary.ReadsEmitted++
		}
	}

	if opts.DryRun {
		log.Debug.Printf("binning: dry-run, skipping report emission")
		logSummary(summary)
		return summary, nil
	}

	log.Debug.Printf("binning: emitting reports")
	if err := writeReportFiles(ctx, opts, survivors, umis, reads, orientationResults, umeResults, bcrResults); err != nil {
		return summary, err
	}

	logSummary(summary)
	return summary, nil
}

func logSummary(s Summary) {
	log.Debug.Printf(
		"binning: summary umi1{records=%d hits=%d skipped_short=%d skipped_no_nm=%d skipped_bad_xa=%d} "+
			"umi2{records=%d hits=%d skipped_short=%d skipped_no_nm=%d skipped_bad_xa=%d} "+
			"resolved=%d umis_at_stats=%d umis_emitted=%d reads_emitted=%d",
		s.Umi1Stats.RecordsRead, s.Umi1Stats.HitsEmitted, s.Umi1Stats.TooFewFields, s.Umi1Stats.MissingNM, s.Umi1Stats.MalformedXA,
		s.Umi2Stats.RecordsRead, s.Umi2Stats.HitsEmitted, s.Umi2Stats.TooFewFields, s.Umi2Stats.MissingNM, s.Umi2Stats.MalformedXA,
		s.UmisResolved, s.UmisStats, s.UmisEmitted, s.ReadsEmitted)
}

func loadIndex(ctx context.Context, path string, index *CandidateIndex) (SamHitReaderStats, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return SamHitReaderStats{}, errors.E(err, "cannot open", path)
	}
	defer func() { _ = f.Close(ctx) }()

	r, _ := compress.NewReader(f.Reader(ctx))
	defer func() { _ = r.Close() }()

	sr := NewSamHitReader(r)
	if err := index.Load(sr); err != nil {
		return sr.Stats(), errors.E(err, "error scanning", path)
	}
	return sr.Stats(), nil
}

func writeReportFiles(
	ctx context.Context,
	opts Opts,
	survivors map[ReadID]Assignment,
	umis, reads *Interner,
	orientation map[string]*OrientationResult,
	ume map[string]*ErrorStatsResult,
	bcr map[string]*ClusterRatioResult,
) error {
	statsPath := filepath.Join(opts.OutputDir, "umi_binning_stats.txt")
	statsFile, err := file.Create(ctx, statsPath)
	if err != nil {
		return errors.E(err, "cannot create", statsPath)
	}
	if err := WriteStats(statsFile.Writer(ctx), orientation, ume, bcr); err != nil {
		_ = statsFile.Close(ctx)
		return errors.E(err, "error writing", statsPath)
	}
	if err := statsFile.Close(ctx); err != nil {
		return errors.E(err, "error closing", statsPath)
	}

	mapPath := filepath.Join(opts.OutputDir, "umi_bin_map.txt")
	mapFile, err := file.Create(ctx, mapPath)
	if err != nil {
		return errors.E(err, "cannot create", mapPath)
	}
	if err := WriteBinMap(mapFile.Writer(ctx), survivors, umis, reads, orientation, ume, bcr); err != nil {
		_ = mapFile.Close(ctx)
		return errors.E(err, "error writing", mapPath)
	}
	if err := mapFile.Close(ctx); err != nil {
		return errors.E(err, "error closing", mapPath)
	}
	return nil
}
