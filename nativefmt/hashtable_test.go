package nativefmt

import "testing"

// buildSingleBucketTable lays out a one-bucket native hashtable (shift=0,
// entryIndexSize=0) containing one entry (lowHash, payload) and returns the
// full byte buffer plus the absolute offset its payload begins at.
func buildSingleBucketTable(lowHash byte, payload []byte) []byte {
	// [0] header, [1] bucket0.start, [2] bucket0.end, [3] low_hash,
	// [4] 1-byte relative delta, [5:] payload.
	const (
		headerSize  = 1
		baseOffset  = headerSize
		entryOffset = baseOffset + 2 // past the (start, end) pair
		deltaOffset = entryOffset + 1
	)
	payloadOffset := deltaOffset + 1

	buf := make([]byte, payloadOffset+len(payload))
	buf[0] = 0x00 // shift=0, entryIndexSize=0
	buf[1] = byte(entryOffset - baseOffset)
	buf[2] = byte(payloadOffset - baseOffset)
	buf[3] = lowHash

	delta := int32(payloadOffset - deltaOffset)
	encodedDelta := EncodeSigned(delta)
	if len(encodedDelta) != 1 {
		panic("test fixture assumes a 1-byte relative delta")
	}
	buf[deltaOffset] = encodedDelta[0]
	copy(buf[payloadOffset:], payload)

	return buf
}

func TestHashtableLookupFindsMatch(t *testing.T) {
	payload := EncodeUnsigned(1234)
	data := buildSingleBucketTable(0x07, payload)

	reader, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed, reason: %v", err)
	}
	table, err := NewHashtable(NewParser(reader, 0))
	if err != nil {
		t.Fatalf("NewHashtable failed, reason: %v", err)
	}

	it, err := table.Lookup(0x07)
	if err != nil {
		t.Fatalf("Lookup failed, reason: %v", err)
	}

	p, ok := it.Next()
	if !ok {
		t.Fatalf("Lookup(0x07) yielded no match")
	}
	v, err := p.GetUnsigned()
	if err != nil {
		t.Fatalf("payload decode failed, reason: %v", err)
	}
	if v != 1234 {
		t.Errorf("payload = %d, want 1234", v)
	}

	if _, ok := it.Next(); ok {
		t.Errorf("Lookup(0x07) yielded more than one match")
	}
}

func TestHashtableLookupMissNoMatch(t *testing.T) {
	data := buildSingleBucketTable(0x07, EncodeUnsigned(1))

	reader, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed, reason: %v", err)
	}
	table, err := NewHashtable(NewParser(reader, 0))
	if err != nil {
		t.Fatalf("NewHashtable failed, reason: %v", err)
	}

	it, err := table.Lookup(0x09)
	if err != nil {
		t.Fatalf("Lookup failed, reason: %v", err)
	}
	if _, ok := it.Next(); ok {
		t.Errorf("Lookup(0x09) unexpectedly matched entry keyed 0x07")
	}
}

// bucketEntry is one (low hash byte, payload) pair for buildMultiEntryBucketTable.
type bucketEntry struct {
	lowHash byte
	payload []byte
}

// buildMultiEntryBucketTable lays out a one-bucket table containing several
// entries in the order given, each as [low_hash byte][1-byte relative delta],
// followed by all payloads back to back in the same order. Entries are NOT
// reordered by lowHash, so callers can deliberately place an out-of-order,
// would-otherwise-match entry after one with a larger low_hash to prove the
// lookup short-circuits instead of scanning the whole bucket.
func buildMultiEntryBucketTable(entries []bucketEntry) []byte {
	const (
		headerSize  = 1
		baseOffset  = headerSize
		entryOffset = baseOffset + 2
		entryStride = 2 // low_hash byte + 1-byte delta
	)

	entriesRegionEnd := entryOffset + entryStride*len(entries)
	payloadOffsets := make([]int, len(entries))
	cursor := entriesRegionEnd
	for i, e := range entries {
		payloadOffsets[i] = cursor
		cursor += len(e.payload)
	}

	buf := make([]byte, cursor)
	buf[0] = 0x00 // shift=0, entryIndexSize=0
	buf[1] = byte(entryOffset - baseOffset)
	buf[2] = byte(entriesRegionEnd - baseOffset)

	for i, e := range entries {
		pos := entryOffset + entryStride*i
		deltaOffset := pos + 1
		buf[pos] = e.lowHash

		delta := int32(payloadOffsets[i] - deltaOffset)
		encodedDelta := EncodeSigned(delta)
		if len(encodedDelta) != 1 {
			panic("test fixture assumes a 1-byte relative delta")
		}
		buf[deltaOffset] = encodedDelta[0]

		copy(buf[payloadOffsets[i]:], e.payload)
	}

	return buf
}

func TestHashtableLookupShortCircuitsPastLargerLowHash(t *testing.T) {
	// Deliberately out of sorted order: a real table would never place a
	// low_hash=0x07 entry after one with low_hash=0x09, but doing so here
	// proves the scan actually stops at the first low_hash exceeding the
	// target rather than continuing through the rest of the bucket.
	data := buildMultiEntryBucketTable([]bucketEntry{
		{lowHash: 0x09, payload: EncodeUnsigned(111)},
		{lowHash: 0x07, payload: EncodeUnsigned(222)},
	})

	reader, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed, reason: %v", err)
	}
	table, err := NewHashtable(NewParser(reader, 0))
	if err != nil {
		t.Fatalf("NewHashtable failed, reason: %v", err)
	}

	it, err := table.Lookup(0x07)
	if err != nil {
		t.Fatalf("Lookup failed, reason: %v", err)
	}

	if _, ok := it.Next(); ok {
		t.Errorf("Lookup(0x07) matched an entry past a larger low_hash; short-circuit did not trigger")
	}
}

func TestHashtableEnumerateAll(t *testing.T) {
	data := buildSingleBucketTable(0x07, EncodeUnsigned(42))

	reader, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed, reason: %v", err)
	}
	table, err := NewHashtable(NewParser(reader, 0))
	if err != nil {
		t.Fatalf("NewHashtable failed, reason: %v", err)
	}

	all, err := table.EnumerateAll()
	if err != nil {
		t.Fatalf("EnumerateAll failed, reason: %v", err)
	}

	count := 0
	for {
		p, ok := all.Next()
		if !ok {
			break
		}
		v, err := p.GetUnsigned()
		if err != nil {
			t.Fatalf("payload decode failed, reason: %v", err)
		}
		if v != 42 {
			t.Errorf("payload = %d, want 42", v)
		}
		count++
	}
	if count != 1 {
		t.Errorf("EnumerateAll yielded %d entries, want 1", count)
	}
}
