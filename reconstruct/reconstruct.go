// Package reconstruct joins a scanned MethodTable graph against the
// TypeMap and InvokeMap reflection blobs to recover the names the
// compiler erased: a vtable's declaring type, and an entrypoint's
// declaring type plus method name.
package reconstruct

import (
	"fmt"

	"github.com/DaXcess/hytale-reversing/metadata"
	"github.com/DaXcess/hytale-reversing/mtscan"
	"github.com/DaXcess/hytale-reversing/nativefmt"
)

// TypeTableEntry pairs a scanned MethodTable with its recovered (or
// synthesized) name.
type TypeTableEntry struct {
	MT   *mtscan.MethodTable
	Name string
}

// NamedMethod is an entrypoint VA paired with its recovered qualified
// name.
type NamedMethod struct {
	VA   uint64
	Name string
}

// Reconstructor holds everything needed to name the tables and methods
// found by a prior scan: the table graph itself, the two reflection-map
// hashtables, the fixups table that resolves their fixup indices to VAs,
// and the embedded metadata reader that decodes the handles they carry.
type Reconstructor struct {
	Tables    []*mtscan.MethodTable
	TypeMap   *nativefmt.Hashtable
	InvokeMap *nativefmt.Hashtable
	Fixups    nativefmt.RefTable
	Meta      *metadata.Reader
}

// New builds a Reconstructor over an already-scanned table graph and the
// reflection blobs that describe it.
func New(tables []*mtscan.MethodTable, typeMap, invokeMap *nativefmt.Hashtable, fixups nativefmt.RefTable, meta *metadata.Reader) *Reconstructor {
	return &Reconstructor{
		Tables:    tables,
		TypeMap:   typeMap,
		InvokeMap: invokeMap,
		Fixups:    fixups,
		Meta:      meta,
	}
}

// typeName resolves mt's declaring type name by walking the TypeMap
// bucket selected by mt.Hashcode: each candidate entry's fixup index must
// resolve to mt's own VA before its handle is trusted, since the low hash
// byte alone does not disambiguate collisions within a bucket.
func (r *Reconstructor) typeName(mt *mtscan.MethodTable) (string, bool) {
	it, err := r.TypeMap.Lookup(int32(mt.Hashcode))
	if err != nil {
		return "", false
	}

	for {
		payload, ok := it.Next()
		if !ok {
			return "", false
		}

		fixupIndex, err := payload.GetUnsigned()
		if err != nil {
			continue
		}
		va, ok := r.Fixups.GetVAFromIndex(fixupIndex)
		if !ok || va != mt.View.VA() {
			continue
		}

		handleRaw, err := payload.GetUnsigned()
		if err != nil {
			continue
		}
		td, err := metadata.AsTypeDefinitionHandle(metadata.HandleFromRaw(handleRaw))
		if err != nil {
			continue
		}
		typ, err := r.Meta.TypeDefinition(td)
		if err != nil {
			continue
		}
		name, err := typ.NameWithGenerics()
		if err != nil {
			continue
		}
		return name, true
	}
}

// NameMethodTables names every scanned MethodTable, falling back to an
// element-type-and-address name for tables the TypeMap has no entry for.
func (r *Reconstructor) NameMethodTables() []TypeTableEntry {
	entries := make([]TypeTableEntry, 0, len(r.Tables))
	for _, mt := range r.Tables {
		if name, ok := r.typeName(mt); ok {
			entries = append(entries, TypeTableEntry{MT: mt, Name: name + "_vtbl"})
			continue
		}
		entries = append(entries, TypeTableEntry{
			MT:   mt,
			Name: fmt.Sprintf("%s_%x_vtbl", mt.ElementType, mt.View.VA()),
		})
	}
	return entries
}

// entrypointFlag marks an InvokeMap entry as carrying a concrete method
// entrypoint, as opposed to a stub or an abstract/interface slot with
// nothing to name.
const entrypointFlag = 32

// NameMethods enumerates every InvokeMap entry and names the entrypoints
// among them: "{declaring type}.{method name}" at the fixed-up entrypoint
// VA. Entries without the entrypoint flag, or whose fixups or handles
// don't resolve, are silently skipped.
func (r *Reconstructor) NameMethods() ([]NamedMethod, error) {
	byVA := make(map[uint64]*mtscan.MethodTable, len(r.Tables))
	for _, mt := range r.Tables {
		byVA[mt.View.VA()] = mt
	}

	it, err := r.InvokeMap.EnumerateAll()
	if err != nil {
		return nil, err
	}

	var methods []NamedMethod
	for {
		payload, ok := it.Next()
		if !ok {
			break
		}

		flags, err := payload.GetUnsigned()
		if err != nil {
			continue
		}
		if flags&entrypointFlag == 0 {
			continue
		}

		handleRaw, err := payload.GetUnsigned()
		if err != nil {
			continue
		}
		entryTypeFixup, err := payload.GetUnsigned()
		if err != nil {
			continue
		}
		entrypointFixup, err := payload.GetUnsigned()
		if err != nil {
			continue
		}

		mh, err := metadata.AsMethodHandle(metadata.HandleFromRaw(handleRaw))
		if err != nil {
			continue
		}
		method, err := r.Meta.Method(mh)
		if err != nil {
			continue
		}
		methodName, err := method.Name()
		if err != nil {
			continue
		}

		entryTypeVA, ok := r.Fixups.GetVAFromIndex(entryTypeFixup)
		if !ok {
			continue
		}
		entryMT, ok := byVA[entryTypeVA]
		if !ok {
			continue
		}
		typeName, ok := r.typeName(entryMT)
		if !ok {
			continue
		}

		entrypointVA, ok := r.Fixups.GetVAFromIndex(entrypointFixup)
		if !ok {
			continue
		}

		methods = append(methods, NamedMethod{
			VA:   entrypointVA,
			Name: typeName + "." + methodName,
		})
	}

	return methods, nil
}
