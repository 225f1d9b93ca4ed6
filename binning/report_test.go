package binning

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStatsRendersEmptyFieldsForRofFail(t *testing.T) {
	orientation := map[string]*OrientationResult{
		"umi1;size=1;": {Canonical: "umi1;size=1;", PlusCount: 1, NegCount: 0, State: RofFail},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, orientation, nil, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[1], " ")
	require.Len(t, fields, len(statsHeader))
	assert.Equal(t, "umi1;size=1;", fields[0])
	assert.Equal(t, "rof_fail", fields[8])
	assert.Equal(t, "", fields[9])  // umi_match_error_mean
	assert.Equal(t, "", fields[11]) // ume_filter
	assert.Equal(t, "", fields[12]) // bin_cluster_ratio
	assert.Equal(t, "", fields[13]) // bcr_filter
}

func TestWriteStatsDeterministicOrder(t *testing.T) {
	orientation := map[string]*OrientationResult{
		"umi_z;size=1;": {Canonical: "umi_z;size=1;", PlusCount: 2, NegCount: 2, State: RofOk, PlusCap: 100, NegCap: 100},
		"umi_a;size=1;": {Canonical: "umi_a;size=1;", PlusCount: 2, NegCount: 2, State: RofOk, PlusCap: 100, NegCap: 100},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, orientation, nil, nil))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "umi_a;size=1;"))
	assert.True(t, strings.HasPrefix(lines[2], "umi_z;size=1;"))
}

func TestWriteBinMapOnlyEmitsRofOkUmeOkBcrOk(t *testing.T) {
	umis, reads := NewInterner(), NewInterner()
	uOK := UmiID(umis.Intern("umi_ok;size=1;"))
	uSubset := UmiID(umis.Intern("umi_subset;size=1;"))
	rA := ReadID(reads.Intern("read_A"))
	rB := ReadID(reads.Intern("read_B"))

	survivors := map[ReadID]Assignment{
		rA: {Read: rA, Umi: uOK, CombinedErr: 1},
		rB: {Read: rB, Umi: uSubset, CombinedErr: 1},
	}
	orientation := map[string]*OrientationResult{
		"umi_ok;size=1;":     {Canonical: "umi_ok;size=1;", State: RofOk},
		"umi_subset;size=1;": {Canonical: "umi_subset;size=1;", State: RofSubset},
	}
	ume := map[string]*ErrorStatsResult{
		"umi_ok;size=1;":     {State: UmeOK},
		"umi_subset;size=1;": {State: UmeOK},
	}
	bcr := map[string]*ClusterRatioResult{
		"umi_ok;size=1;":     {State: BcrOK},
		"umi_subset;size=1;": {State: BcrOK},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBinMap(&buf, survivors, umis, reads, orientation, ume, bcr))
	out := strings.TrimRight(buf.String(), "\n")
	assert.Equal(t, "umi_ok;size=1; read_A 1", out)
}

func TestWriteBinMapNoReadAppearsTwice(t *testing.T) {
	umis, reads := NewInterner(), NewInterner()
	u := UmiID(umis.Intern("umi1;size=1;"))
	r := ReadID(reads.Intern("read_A"))
	survivors := map[ReadID]Assignment{r: {Read: r, Umi: u, CombinedErr: 1}}
	orientation := map[string]*OrientationResult{"umi1;size=1;": {Canonical: "umi1;size=1;", State: RofOk}}
	ume := map[string]*ErrorStatsResult{"umi1;size=1;": {State: UmeOK}}
	bcr := map[string]*ClusterRatioResult{"umi1;size=1;": {State: BcrOK}}

	var buf bytes.Buffer
	require.NoError(t, WriteBinMap(&buf, survivors, umis, reads, orientation, ume, bcr))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	seen := map[string]bool{}
	for _, l := range lines {
		fields := strings.Split(l, " ")
		require.False(t, seen[fields[1]])
		seen[fields[1]] = true
	}
}
