package binning

import "fmt"

// Opts holds the configuration for one binning run. All fields are
// required unless a DefaultOpts value is documented below.
type Opts struct {
	// OutputDir is a directory containing read_binning/umi1_map.sam and
	// read_binning/umi2_map.sam. The two report files are written
	// directly under OutputDir, not inside read_binning/.
	OutputDir string

	// PerUMIMax is the maximum per-end edit distance (NM) a candidate
	// hit may carry and still be considered.
	PerUMIMax int

	// CombinedMax is the maximum e1+e2 a resolved assignment may carry.
	CombinedMax int

	// UMEMeanMax is the per-UMI combined-error mean cutoff.
	UMEMeanMax float64

	// UMESDMax is the per-UMI combined-error population standard
	// deviation cutoff.
	UMESDMax float64

	// ROFrac is the minimum minority-strand fraction required for a UMI
	// to be classified rof_ok. Must satisfy 0 < ROFrac <= 0.5.
	ROFrac float64

	// MaxBinSize caps both strands' counts when a UMI is rof_ok.
	MaxBinSize int

	// BinClusterRatio is the maximum bin_size/cluster_size ratio a UMI
	// may have and still be classified bcr_ok.
	BinClusterRatio float64

	// DryRun runs the full pipeline and logs the summary line but skips
	// writing the report files.
	DryRun bool
}

// DefaultOpts holds the options that have a documented default; every
// other Opts field is required and has no default.
var DefaultOpts = Opts{
	MaxBinSize:      10000,
	BinClusterRatio: 10,
}

// Validate checks that opts describes a runnable pipeline. It does not
// touch the filesystem; Run surfaces unreadable inputs separately when it
// opens them.
func (o Opts) Validate() error {
	if o.OutputDir == "" {
		return fmt.Errorf("binning: output_dir is required")
	}
	if o.PerUMIMax < 0 {
		return fmt.Errorf("binning: per_umi_max must be >= 0, got %d", o.PerUMIMax)
	}
	if o.CombinedMax < 0 {
		return fmt.Errorf("binning: combined_max must be >= 0, got %d", o.CombinedMax)
	}
	if o.UMEMeanMax < 0 {
		return fmt.Errorf("binning: ume_mean_max must be >= 0, got %g", o.UMEMeanMax)
	}
	if o.UMESDMax < 0 {
		return fmt.Errorf("binning: ume_sd_max must be >= 0, got %g", o.UMESDMax)
	}
	if o.ROFrac <= 0 || o.ROFrac > 0.5 {
		return fmt.Errorf("binning: ro_frac must satisfy 0 < ro_frac <= 0.5, got %g", o.ROFrac)
	}
	if o.MaxBinSize <= 0 {
		return fmt.Errorf("binning: max_bin_size must be > 0, got %d", o.MaxBinSize)
	}
	if o.BinClusterRatio <= 0 {
		return fmt.Errorf("binning: bin_cluster_ratio must be > 0, got %g", o.BinClusterRatio)
	}
	return nil
}
