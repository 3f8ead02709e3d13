package keyword

import "fmt"

// Entry pairs one keyword spelling with the token name it resolves to.
type Entry struct {
	Spelling string
	Name     TokenName
}

// DuplicateKeywordError is returned by NewTable when two entries in the
// same language table map to the same token name, which would make
// translation (TokenName -> spelling) ambiguous.
type DuplicateKeywordError struct {
	Name   TokenName
	First  string
	Second string
}

func (e *DuplicateKeywordError) Error() string {
	return fmt.Sprintf("keyword: duplicate token name %q: %q and %q both map to it", e.Name, e.First, e.Second)
}

// Table is a two-level (FKS-style) minimal perfect hash from spelling to
// TokenName, grounded on the CHD-style perfect hash the Rust original
// names but never actually builds (seen_std/src/toml/perfect_hash.rs wraps
// a plain map); this builds a true collision-free two-level table so
// Lookup is O(1) with no fallback.
type Table struct {
	entries    []Entry
	outerSeed  uint64
	size       int
	bucketOff  []int    // offset into slots for bucket i
	bucketSeed []uint64 // level-2 seed for bucket i
	bucketLen  []int    // subtable length for bucket i (len(bucket)^2; 0 for an empty bucket)
	slots      []int    // flattened subtables; -1 = empty, else index into entries
	nameIndex  map[TokenName]int
}

// NewTable builds a perfect-hash table over entries. It fails with a
// *DuplicateKeywordError if two entries share a TokenName, and returns a
// plain error if two entries share a spelling (a malformed language file).
func NewTable(entries []Entry) (*Table, error) {
	n := len(entries)
	nameIndex := make(map[TokenName]int, n)
	spellingSeen := make(map[string]int, n)
	for i, e := range entries {
		if j, ok := spellingSeen[e.Spelling]; ok {
			return nil, fmt.Errorf("keyword: duplicate spelling %q (entries %d and %d)", e.Spelling, j, i)
		}
		spellingSeen[e.Spelling] = i
		if j, ok := nameIndex[e.Name]; ok {
			return nil, &DuplicateKeywordError{Name: e.Name, First: entries[j].Spelling, Second: e.Spelling}
		}
		nameIndex[e.Name] = i
	}

	t := &Table{entries: entries, nameIndex: nameIndex}
	if n == 0 {
		t.size = 0
		return t, nil
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

func fnvHash(seed uint64, s string) uint64 {
	h := seed ^ 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return h
}

// build assigns every entry to an outer bucket, then finds, per bucket, a
// level-2 seed that places its members into a collision-free subtable of
// size len(bucket)^2 (the classic FKS bound). Flattened subtables share a
// single slots array via per-bucket offsets.
func (t *Table) build() error {
	n := len(t.entries)
	const maxOuterTries = 64
	const maxInnerTries = 4096

	var buckets [][]int
	var outerSeed uint64
	found := false
	for attempt := uint64(0); attempt < maxOuterTries; attempt++ {
		buckets = make([][]int, n)
		for idx, e := range t.entries {
			b := int(fnvHash(attempt, e.Spelling) % uint64(n))
			buckets[b] = append(buckets[b], idx)
		}
		sumSquares := 0
		for _, b := range buckets {
			sumSquares += len(b) * len(b)
		}
		if sumSquares <= 4*n {
			outerSeed = attempt
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("keyword: could not find an outer hash with bounded bucket sizes for %d entries", n)
	}

	bucketOff := make([]int, n)
	bucketSeed := make([]uint64, n)
	bucketLen := make([]int, n)
	offset := 0
	for i, b := range buckets {
		size := len(b) * len(b)
		bucketOff[i] = offset
		bucketLen[i] = size
		offset += size
	}
	slots := make([]int, offset)
	for i := range slots {
		slots[i] = -1
	}

	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		if len(b) == 1 {
			bucketSeed[i] = 0
			slots[bucketOff[i]] = b[0]
			continue
		}
		placed := false
		for seed := uint64(0); seed < maxInnerTries; seed++ {
			collision := false
			positions := make([]int, len(b))
			seen := make(map[int]bool, len(b))
			for j, idx := range b {
				p := int(fnvHash(seed, t.entries[idx].Spelling) % uint64(bucketLen[i]))
				if seen[p] {
					collision = true
					break
				}
				seen[p] = true
				positions[j] = p
			}
			if !collision {
				bucketSeed[i] = seed
				for j, idx := range b {
					slots[bucketOff[i]+positions[j]] = idx
				}
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("keyword: could not build a collision-free subtable for bucket of size %d", len(b))
		}
	}

	t.outerSeed = outerSeed
	t.size = n
	t.bucketOff = bucketOff
	t.bucketSeed = bucketSeed
	t.bucketLen = bucketLen
	t.slots = slots
	return nil
}

// Lookup resolves a spelling to its TokenName in expected O(1). It never
// returns a false positive: the candidate slot's stored spelling must
// match exactly (case included) or Lookup reports a miss.
func (t *Table) Lookup(spelling string) (TokenName, bool) {
	if t.size == 0 {
		return "", false
	}
	b := int(fnvHash(t.outerSeed, spelling) % uint64(t.size))
	bl := t.bucketLen[b]
	if bl == 0 {
		return "", false
	}
	p := int(fnvHash(t.bucketSeed[b], spelling) % uint64(bl))
	idx := t.slots[t.bucketOff[b]+p]
	if idx < 0 {
		return "", false
	}
	if t.entries[idx].Spelling != spelling {
		return "", false
	}
	return t.entries[idx].Name, true
}

// SpellingOf returns the spelling this table uses for a given token name.
func (t *Table) SpellingOf(name TokenName) (string, bool) {
	idx, ok := t.nameIndex[name]
	if !ok {
		return "", false
	}
	return t.entries[idx].Spelling, true
}

// Len reports the number of keywords in the table.
func (t *Table) Len() int { return len(t.entries) }
