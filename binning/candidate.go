package binning

// CandidateIndex maps UmiID -> ReadID -> edit distance, built by streaming
// one SAM file's HitRecords through Add. Two independent CandidateIndex
// values are built per run, one per UMI end, sharing the same UMI and
// read Interners so a (umi, read) pair resolves to the same handles on
// both sides.
type CandidateIndex struct {
	umis  *Interner
	reads *Interner
	m     map[UmiID]map[ReadID]int
}

// NewCandidateIndex returns an empty CandidateIndex that interns UMI and
// read identifiers through umis and reads respectively.
func NewCandidateIndex(umis, reads *Interner) *CandidateIndex {
	return &CandidateIndex{umis: umis, reads: reads, m: make(map[UmiID]map[ReadID]int)}
}

// Add records one HitRecord. Per spec §4.1's retention rule, if (umi,
// read) was already present the existing err is kept; callers must add a
// record's primary hit before its secondary hits so the primary's err
// wins ties within one record.
func (c *CandidateIndex) Add(h HitRecord) {
	u := UmiID(c.umis.Intern(h.Umi))
	r := ReadID(c.reads.Intern(h.Read))
	reads, ok := c.m[u]
	if !ok {
		reads = make(map[ReadID]int)
		c.m[u] = reads
	}
	if _, seen := reads[r]; seen {
		return
	}
	reads[r] = h.Err
}

// Load streams every HitRecord from sr into c.
func (c *CandidateIndex) Load(sr *SamHitReader) error {
	for sr.Scan() {
		c.Add(sr.Record())
	}
	return sr.Err()
}

// Lookup returns the retained edit distance for (u, r) and whether it is
// present.
func (c *CandidateIndex) Lookup(u UmiID, r ReadID) (int, bool) {
	reads, ok := c.m[u]
	if !ok {
		return 0, false
	}
	err, ok := reads[r]
	return err, ok
}

// Reads returns the read->err map for u, or nil if u has no candidates.
func (c *CandidateIndex) Reads(u UmiID) map[ReadID]int {
	return c.m[u]
}

// UmiIDs returns every UmiID present in the index. Order is unspecified.
func (c *CandidateIndex) UmiIDs() []UmiID {
	ids := make([]UmiID, 0, len(c.m))
	for u := range c.m {
		ids = append(ids, u)
	}
	return ids
}
