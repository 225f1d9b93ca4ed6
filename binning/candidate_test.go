package binning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateIndexRetentionRuleKeepsFirstInsertion(t *testing.T) {
	umis, reads := NewInterner(), NewInterner()
	c := NewCandidateIndex(umis, reads)

	c.Add(HitRecord{Umi: "umi1;size=1;", Read: "read_A", Err: 1})   // primary
	c.Add(HitRecord{Umi: "umi1;size=1;", Read: "read_A", Err: 9})   // duplicate secondary ref, ignored

	u, _ := umis.Lookup("umi1;size=1;")
	r, _ := reads.Lookup("read_A")
	err, ok := c.Lookup(UmiID(u), ReadID(r))
	require.True(t, ok)
	assert.Equal(t, 1, err)
}

func TestCandidateIndexSharesInternerAcrossIndices(t *testing.T) {
	umis, reads := NewInterner(), NewInterner()
	c1 := NewCandidateIndex(umis, reads)
	c2 := NewCandidateIndex(umis, reads)

	c1.Add(HitRecord{Umi: "umi1;size=1;", Read: "read_A", Err: 1})
	c2.Add(HitRecord{Umi: "umi1;size=1;", Read: "read_A", Err: 2})

	u, _ := umis.Lookup("umi1;size=1;")
	r, _ := reads.Lookup("read_A")

	e1, ok1 := c1.Lookup(UmiID(u), ReadID(r))
	e2, ok2 := c2.Lookup(UmiID(u), ReadID(r))
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, 1, e1)
	assert.Equal(t, 2, e2)
}

func TestCandidateIndexLoadFromReader(t *testing.T) {
	sam := "umi1;size=1;\t0\tread_A\t1\t60\t20M\t*\t0\t0\tACGT\t****\tNM:i:3\n"
	umis, reads := NewInterner(), NewInterner()
	c := NewCandidateIndex(umis, reads)
	require.NoError(t, c.Load(NewSamHitReader(strings.NewReader(sam))))

	u, _ := umis.Lookup("umi1;size=1;")
	r, _ := reads.Lookup("read_A")
	err, ok := c.Lookup(UmiID(u), ReadID(r))
	require.True(t, ok)
	assert.Equal(t, 3, err)
}
