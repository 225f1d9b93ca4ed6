package binning

// UmiID is an interned handle for a raw (possibly _rc-suffixed) UMI
// identifier string.
type UmiID int32

// ReadID is an interned handle for a read identifier string.
type ReadID int32

// Interner assigns small dense integer handles to distinct strings, so
// that downstream maps key on integers instead of re-hashing and
// re-storing strings for every hit. One Interner instance is shared by
// both CandidateIndexes on a given axis (UMI or read), so a string seen on
// both SAM files maps to the same handle.
type Interner struct {
	ids     map[string]int32
	strings []string
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]int32)}
}

// Intern returns the handle for s, assigning a new one if s has not been
// seen before.
func (in *Interner) Intern(s string) int32 {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := int32(len(in.strings))
	in.strings = append(in.strings, s)
	in.ids[s] = id
	return id
}

// Lookup returns the handle for s and whether s has been interned.
func (in *Interner) Lookup(s string) (int32, bool) {
	id, ok := in.ids[s]
	return id, ok
}

// String returns the string that was interned as id. id must have been
// returned by a prior call to Intern on the same Interner.
func (in *Interner) String(id int32) string {
	return in.strings[id]
}

// Len returns the number of distinct strings interned so far.
func (in *Interner) Len() int {
	return len(in.strings)
}
