/*Package binning assigns sequencing reads to UMI bins.

Two upstream SAM files record how a catalog of canonical UMI references
aligns against the UMI1 and UMI2 regions of every read. This package reads
both files, intersects the per-end candidate sets to find reads with
evidence on both ends, resolves conflicts by minimum combined edit
distance, and applies three independent per-UMI filters (strand-orientation
balance, match-error mean/variance, bin/cluster-size ratio) before emitting
a read->UMI bin map and a per-UMI statistics table.

The package is a pure function of its two input files and an Opts value:
no network access, no persisted state, no retries. See Run for the
top-level entry point.
*/
package binning
