/*Command bio-umi-bin assigns sequencing reads to UMI bins.

It consumes two SAM alignment files, read_binning/umi1_map.sam and
read_binning/umi2_map.sam under -output-dir, each produced by aligning a
catalog of canonical UMI references against one end of every read's UMI
region. It intersects the two alignments, resolves each read to the UMI
with the lowest combined edit distance, and applies orientation-balance,
match-error, and bin/cluster-ratio filters before writing
umi_binning_stats.txt and umi_bin_map.txt directly under -output-dir.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/biobin/umibin/binning"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	outputDir       = flag.String("output-dir", "", "Directory containing read_binning/umi{1,2}_map.sam; reports are written here")
	perUMIMax       = flag.Int("per-umi-max", 0, "Max per-end edit distance; reads exceeding this on either end are discarded")
	combinedMax     = flag.Int("combined-max", 0, "Max combined (e1+e2) edit distance")
	umeMeanMax      = flag.Float64("ume-mean-max", 0, "Per-UMI combined-error mean cutoff")
	umeSDMax        = flag.Float64("ume-sd-max", 0, "Per-UMI combined-error population standard deviation cutoff")
	roFrac          = flag.Float64("ro-frac", 0, "Minimum minority-strand fraction; must satisfy 0 < ro-frac <= 0.5")
	maxBinSize      = flag.Int("max-bin-size", binning.DefaultOpts.MaxBinSize, "Both strand caps when a UMI's orientation is balanced")
	binClusterRatio = flag.Float64("bin-cluster-ratio", binning.DefaultOpts.BinClusterRatio, "Max bin_size/cluster_size ratio")
	dryRun          = flag.Bool("dry-run", false, "Run the full pipeline and log the summary, but skip writing report files")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -output-dir DIR -per-umi-max N -combined-max N -ume-mean-max F -ume-sd-max F -ro-frac F [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range []string{"output-dir", "per-umi-max", "combined-max", "ume-mean-max", "ume-sd-max", "ro-frac"} {
		if !set[name] {
			log.Fatalf("bio-umi-bin: -%s is required", name)
		}
	}

	opts := binning.Opts{
		OutputDir:       *outputDir,
		PerUMIMax:       *perUMIMax,
		CombinedMax:     *combinedMax,
		UMEMeanMax:      *umeMeanMax,
		UMESDMax:        *umeSDMax,
		ROFrac:          *roFrac,
		MaxBinSize:      *maxBinSize,
		BinClusterRatio: *binClusterRatio,
		DryRun:          *dryRun,
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx := vcontext.Background()
	summary, err := binning.Run(ctx, opts)
	if err != nil {
		log.Fatalf("bio-umi-bin: %v", err)
	}
	log.Debug.Printf("bio-umi-bin: done, %d UMIs / %d reads emitted", summary.UmisEmitted, summary.ReadsEmitted)
}
