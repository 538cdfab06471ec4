package idadef

import (
	"reflect"
	"testing"

	"github.com/DaXcess/hytale-reversing/mtscan"
	"github.com/DaXcess/hytale-reversing/nativefmt"
	"github.com/DaXcess/hytale-reversing/reconstruct"
)

func TestNewMtStructSplitsOnDot(t *testing.T) {
	got := NewMtStruct("N.T_vtbl", 3, 1, 0x1000)
	want := []string{"N", "T_vtbl"}
	if !reflect.DeepEqual(got.Name, want) {
		t.Fatalf("got name %v, want %v", got.Name, want)
	}
	if got.VTables != 3 || got.Ifaces != 1 || got.Address != 0x1000 {
		t.Fatalf("unexpected fields: %+v", got)
	}
}

func TestNewFunctionFlattensDots(t *testing.T) {
	f := NewFunction("N.T.Run", 0x1000)
	if f.Name != "N_T_Run" {
		t.Fatalf("got name %q, want %q", f.Name, "N_T_Run")
	}
	if f.Address != 0x1000 {
		t.Fatalf("got address %#x, want %#x", f.Address, 0x1000)
	}
}

func TestNewFunctionReplacesPipeAndDot(t *testing.T) {
	f := NewFunction("N.T|Helper.Run", 0)
	if f.Name != "N_T_Helper_Run" {
		t.Fatalf("got name %q, want %q", f.Name, "N_T_Helper_Run")
	}
}

func TestBuildAssemblesDefinition(t *testing.T) {
	bin := &fakeBinary{}
	mt := &mtscan.MethodTable{
		View:            nativefmt.NewView(bin, 0x2000),
		VTableAddresses: []uint64{1, 2, 3},
		IfaceAddresses:  []uint64{9},
	}
	entries := []reconstruct.TypeTableEntry{{MT: mt, Name: "N.Widget_vtbl"}}
	methods := []reconstruct.NamedMethod{{VA: 0x3000, Name: "N.Widget.Run"}}

	def := Build(entries, methods)
	if len(def.MtStructs) != 1 || len(def.Functions) != 1 {
		t.Fatalf("unexpected definition: %+v", def)
	}
	ms := def.MtStructs[0]
	if !reflect.DeepEqual(ms.Name, []string{"N", "Widget_vtbl"}) || ms.VTables != 3 || ms.Ifaces != 1 || ms.Address != 0x2000 {
		t.Fatalf("unexpected mt_struct: %+v", ms)
	}
	fn := def.Functions[0]
	if fn.Name != "N_Widget_Run" || fn.Address != 0x3000 {
		t.Fatalf("unexpected function: %+v", fn)
	}
}

type fakeBinary struct{}

func (f *fakeBinary) ImageBase() uint64                              { return 0 }
func (f *fakeBinary) RVAToVA(rva uint32) uint64                      { return uint64(rva) }
func (f *fakeBinary) VAToRVA(va uint64) uint32                       { return uint32(va) }
func (f *fakeBinary) Image(rva uint32) ([]byte, error)                { return make([]byte, 64), nil }
func (f *fakeBinary) SectionByName(string) (nativefmt.Section, bool)  { return nativefmt.Section{}, false }
func (f *fakeBinary) SectionByRVA(uint32) (nativefmt.Section, bool)   { return nativefmt.Section{}, false }
