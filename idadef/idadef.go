// Package idadef renders a reconstructed type/method universe into the
// hytale_def.json side-file: a flat list of vtable structs and a flat
// list of named functions, addressed by VA, for a disassembler to load.
package idadef

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/DaXcess/hytale-reversing/reconstruct"
)

// MtStruct names one recovered vtable: its declaring type's name, split
// into namespace/type segments, plus the vtable and interface slot counts
// and the table's own address.
type MtStruct struct {
	Name    []string `json:"name"`
	VTables uint16   `json:"vtables"`
	Ifaces  uint16   `json:"ifaces"`
	Address uint64   `json:"address"`
}

// Function names one recovered entrypoint: its flattened qualified name
// and address.
type Function struct {
	Name    string `json:"name"`
	Address uint64 `json:"address"`
}

// Definition is the full hytale_def.json document.
type Definition struct {
	MtStructs []MtStruct `json:"mt_structs"`
	Functions []Function `json:"functions"`
}

// normalize replaces '|' with '_' everywhere, matching the normalization
// every emitted name goes through before it reaches the JSON document.
func normalize(name string) string {
	return strings.ReplaceAll(name, "|", "_")
}

// NewMtStruct builds an MtStruct from a reconstructed vtable name, splitting
// the normalized name on "." into its namespace/type segments.
func NewMtStruct(name string, vtables, ifaces uint16, address uint64) MtStruct {
	segments := strings.Split(normalize(name), ".")
	return MtStruct{Name: segments, VTables: vtables, Ifaces: ifaces, Address: address}
}

// NewFunction builds a Function from a reconstructed method name, additionally
// flattening "." to "_" (functions keep no dotted structure, unlike mt_structs).
func NewFunction(name string, address uint64) Function {
	flat := strings.ReplaceAll(normalize(name), ".", "_")
	return Function{Name: flat, Address: address}
}

// Build assembles a Definition from the Reconstructor's two naming passes.
func Build(mtEntries []reconstruct.TypeTableEntry, methods []reconstruct.NamedMethod) Definition {
	def := Definition{
		MtStructs: make([]MtStruct, 0, len(mtEntries)),
		Functions: make([]Function, 0, len(methods)),
	}
	for _, e := range mtEntries {
		def.MtStructs = append(def.MtStructs, NewMtStruct(
			e.Name,
			uint16(len(e.MT.VTableAddresses)),
			uint16(len(e.MT.IfaceAddresses)),
			e.MT.View.VA(),
		))
	}
	for _, m := range methods {
		def.Functions = append(def.Functions, NewFunction(m.Name, m.VA))
	}
	return def
}

// WriteFile marshals def as indented JSON and writes it to path.
func (d Definition) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
