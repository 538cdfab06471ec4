package nativefmt

// RefTable is a flat array of 32-bit self-relative offsets: resolving
// index i yields the VA of slot i plus the signed offset stored there.
// This implementation assumes MethodTable.SupportsRelativePointers == true,
// matching every known NativeAOT image.
type RefTable struct {
	view  View
	count int
}

// NewRefTable builds a RefTable over view, spanning size bytes.
func NewRefTable(view View, size uint64) RefTable {
	return RefTable{view: view, count: int(size / 4)}
}

// GetVAFromIndex resolves index to an absolute VA, or ok=false if index is
// out of range or the slot can't be read.
func (t RefTable) GetVAFromIndex(index uint32) (va uint64, ok bool) {
	if int(index) > t.count {
		return 0, false
	}

	slot := t.view.WithOffset(uint64(index) * 4)
	data, err := slot.Bytes()
	if err != nil || len(data) < 4 {
		return 0, false
	}

	rel := int32(uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24)
	return uint64(int64(slot.VA()) + int64(rel)), true
}
