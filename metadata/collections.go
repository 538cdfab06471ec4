package metadata

import "github.com/DaXcess/hytale-reversing/nativefmt"

// HandleCollection is a lazy, length-prefixed view over a run of
// variable-length-encoded handle values. It records only the reader and the
// offset of its own length prefix; Count and Iter re-decode the length each
// time rather than caching it, matching the source's stateless collections.
type HandleCollection struct {
	reader *nativefmt.Reader
	offset int
}

// Count decodes and returns the collection's element count without
// consuming an iterator.
func (c HandleCollection) Count() (uint32, error) {
	off := c.offset
	return c.reader.DecodeUnsigned(&off)
}

// Iter returns a fresh iterator positioned at the collection's first
// element.
func (c HandleCollection) Iter() *HandleIterator {
	off := c.offset
	count, err := c.reader.DecodeUnsigned(&off)
	if err != nil {
		return &HandleIterator{err: err}
	}
	return &HandleIterator{reader: c.reader, offset: off, remaining: count}
}

// HandleIterator yields the handles of a HandleCollection in file order.
type HandleIterator struct {
	reader    *nativefmt.Reader
	offset    int
	remaining uint32
	err       error
}

// Next returns the next handle, or ok=false once the collection is
// exhausted or a decode error was hit (permissive: the caller should treat
// a premature false the same as an empty remainder).
func (it *HandleIterator) Next() (BaseHandle, bool) {
	if it.err != nil || it.remaining == 0 {
		return BaseHandle{}, false
	}
	v, err := it.reader.DecodeUnsigned(&it.offset)
	if err != nil {
		it.err = err
		return BaseHandle{}, false
	}
	it.remaining--
	return HandleFromFieldValue(v), true
}

// TypedHandleIterator filters a HandleIterator down to handles matching (or
// nil for) a single expected kind, skipping any mismatched entries rather
// than failing the whole walk (metadata iteration is permissive by design).
type TypedHandleIterator struct {
	inner *HandleIterator
	want  HandleType
}

// Next returns the next handle of the expected kind.
func (it *TypedHandleIterator) Next() (BaseHandle, bool) {
	for {
		h, ok := it.inner.Next()
		if !ok {
			return BaseHandle{}, false
		}
		if h.Kind != it.want && h.Kind != Null {
			continue
		}
		return h, true
	}
}

// typedCollection wires a HandleCollection's Iter to a TypedHandleIterator
// filtering on want; the per-kind collection types below are thin aliases
// over this so every field still carries a self-documenting Go type.
func typedCollection(c HandleCollection, want HandleType) *TypedHandleIterator {
	return &TypedHandleIterator{inner: c.Iter(), want: want}
}

type CustomAttributeHandleCollection struct{ HandleCollection }
type EventHandleCollection struct{ HandleCollection }
type FieldHandleCollection struct{ HandleCollection }
type GenericParameterHandleCollection struct{ HandleCollection }
type MethodHandleCollection struct{ HandleCollection }
type NamespaceDefinitionHandleCollection struct{ HandleCollection }
type PropertyHandleCollection struct{ HandleCollection }
type ScopeDefinitionHandleCollection struct{ HandleCollection }
type TypeDefinitionHandleCollection struct{ HandleCollection }
type TypeForwarderHandleCollection struct{ HandleCollection }

func (c CustomAttributeHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, CustomAttribute)
}
func (c EventHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, Event)
}
func (c FieldHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, Field)
}
func (c GenericParameterHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, GenericParameter)
}
func (c MethodHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, Method)
}
func (c NamespaceDefinitionHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, NamespaceDefinition)
}
func (c PropertyHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, Property)
}
func (c ScopeDefinitionHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, ScopeDefinition)
}
func (c TypeDefinitionHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, TypeDefinition)
}
func (c TypeForwarderHandleCollection) Iter() *TypedHandleIterator {
	return typedCollection(c.HandleCollection, TypeForwarder)
}

// ByteCollection is a lazy, length-prefixed view over a raw byte span
// (public keys, MVIDs, custom-attribute argument blobs).
type ByteCollection struct {
	reader *nativefmt.Reader
	offset int
}

// Bytes decodes the length prefix and returns the referenced span.
func (c ByteCollection) Bytes() ([]byte, error) {
	off := c.offset
	length, err := c.reader.DecodeUnsigned(&off)
	if err != nil {
		return nil, err
	}
	return c.reader.Bytes(off, int(length))
}
