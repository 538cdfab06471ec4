package mtscan

import (
	"encoding/binary"

	"github.com/DaXcess/hytale-reversing/nativefmt"
)

// candidateDataSections lists, in scan order, the sections that may carry
// MethodTable pointers or MethodTable bodies.
var candidateDataSections = []string{".rdata", ".pdata", ".data"}

// FindObjectMT locates the System.Object MethodTable: the first candidate
// section slot whose stored 8-byte value, read as a VA, parses into a
// MethodTable shaped exactly like the runtime's root object type (a
// 3-slot, interface-free Class whose vtable entries all point into
// .text).
func FindObjectMT(bin nativefmt.Binary) (*MethodTable, error) {
	for _, name := range candidateDataSections {
		sect, ok := bin.SectionByName(name)
		if !ok {
			continue
		}

		for off := sect.FileOffsetStart; off+8 <= sect.FileOffsetEnd; off += 8 {
			rva := sect.VirtualAddress + (off - sect.FileOffsetStart)

			data, err := bin.Image(rva)
			if err != nil || len(data) < 8 {
				continue
			}
			va := binary.LittleEndian.Uint64(data[:8])

			mt, err := Parse(nativefmt.NewView(bin, va))
			if err != nil {
				continue
			}

			if mt.ElementType != Class || mt.BaseSize != 0x18 ||
				mt.RelatedTypeAddress != 0 || len(mt.VTableAddresses) != 3 ||
				len(mt.IfaceAddresses) != 0 {
				continue
			}

			if allVTableSlotsInText(bin, mt.VTableAddresses) {
				return mt, nil
			}
		}
	}

	return nil, ErrRootNotFound
}

func allVTableSlotsInText(bin nativefmt.Binary, vtables []uint64) bool {
	for _, va := range vtables {
		sect, ok := bin.SectionByRVA(bin.VAToRVA(va))
		if !ok || sect.Name != ".text" {
			return false
		}
	}
	return true
}

// ScanMethodTables finds the root MethodTable and crawls the fixed point
// of every MethodTable reachable from it: a candidate 8-byte-aligned RVA
// is accepted once its baseType slot resolves to an already-known table,
// at which point it is parsed, linked to that base, and its interface
// slots are attached onto the base (not the subtype) as they're
// discovered.
func ScanMethodTables(bin nativefmt.Binary) ([]*MethodTable, error) {
	root, err := FindObjectMT(bin)
	if err != nil {
		return nil, err
	}

	known := map[uint64]*MethodTable{root.View.VA(): root}

	var min, max uint32 = ^uint32(0), 0
	for _, name := range candidateDataSections {
		sect, ok := bin.SectionByName(name)
		if !ok {
			continue
		}
		if sect.VirtualAddress < min {
			min = sect.VirtualAddress
		}
		if sect.VirtualAddress+sect.VirtualSize > max {
			max = sect.VirtualAddress + sect.VirtualSize
		}
	}

	agenda := make([]uint32, 0, (max-min)/8)
	for rva := min; rva < max; rva += 8 {
		agenda = append(agenda, rva)
	}

	for {
		next := make([]uint32, 0, len(agenda))

		for _, rva := range agenda {
			va := bin.RVAToVA(rva)
			view := nativefmt.NewView(bin, va)

			probe := view.WithOffset(8)
			baseVA, err := probe.TakeU64()
			if err != nil {
				continue
			}

			baseRVA := bin.VAToRVA(baseVA)
			if baseRVA < min || baseRVA >= max {
				continue
			}

			baseMT, ok := known[baseVA]
			if !ok {
				next = append(next, rva)
				continue
			}

			mt, ok := known[va]
			if !ok {
				parsed, err := Parse(view)
				if err != nil {
					continue
				}
				mt = parsed
				known[va] = mt
			}
			mt.RelatedType = baseMT

			for _, ifaceVA := range mt.IfaceAddresses {
				if ifaceVA == 0 {
					continue
				}

				iface, ok := known[ifaceVA]
				if !ok {
					parsed, err := Parse(nativefmt.NewView(bin, ifaceVA))
					if err != nil {
						continue
					}
					iface = parsed
					known[ifaceVA] = iface
				}

				baseMT.Interfaces = append(baseMT.Interfaces, iface)
			}
		}

		if len(next) >= len(agenda) {
			break
		}
		agenda = next
	}

	result := make([]*MethodTable, 0, len(known))
	for _, mt := range known {
		result = append(result, mt)
	}
	return result, nil
}
