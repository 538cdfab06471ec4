package rtr

import "fmt"

// SectionType is the 32-bit tag identifying a ReadyToRun section. Tags
// 100-123 are CoreCLR sections, 200-213 are NativeAOT sections, and
// 300-399 are reserved for reflection-map blobs (see ReflectionMapBlob);
// anything else renders as "Unknown(tag)".
type SectionType uint32

const (
	CompilerIdentifier        SectionType = 100
	ImportSections            SectionType = 101
	RuntimeFunctions          SectionType = 102
	MethodDefEntryPoints      SectionType = 103
	ExceptionInfo             SectionType = 104
	DebugInfo                 SectionType = 105
	DelayLoadMethodCallThunks SectionType = 106
	// 107 is deprecated: an older AvailableTypes format.
	AvailableTypes            SectionType = 108
	InstanceMethodEntryPoints SectionType = 109
	InliningInfo              SectionType = 110
	ProfileDataInfo           SectionType = 111
	ManifestMetadata          SectionType = 112
	AttributePresence         SectionType = 113
	InliningInfo2             SectionType = 114
	ComponentAssemblies       SectionType = 115
	OwnerCompositeExecutable  SectionType = 116
	PgoInstrumentationData    SectionType = 117
	ManifestAssemblyMvids     SectionType = 118
	CrossModuleInlineInfo     SectionType = 119
	HotColdMap                SectionType = 120
	MethodIsGenericMap        SectionType = 121
	EnclosingTypeMap          SectionType = 122
	TypeGenericInfoMap        SectionType = 123

	StringTable            SectionType = 200
	GCStaticRegion         SectionType = 201
	ThreadStaticRegion     SectionType = 202
	TypeManagerIndirection SectionType = 204
	EagerCctor             SectionType = 205
	FrozenObjectRegion     SectionType = 206
	DehydratedData         SectionType = 207
	// 209-211 are unused: formerly ThreadStaticGCDescRegion,
	// ThreadStaticIndex, LoopHijackFlag.
	ThreadStaticOffsetRegion SectionType = 208
	ImportAddressTables      SectionType = 212
	ModuleInitializerList    SectionType = 213
)

var sectionTypeNames = map[SectionType]string{
	CompilerIdentifier:        "CompilerIdentifier",
	ImportSections:            "ImportSections",
	RuntimeFunctions:          "RuntimeFunctions",
	MethodDefEntryPoints:      "MethodDefEntryPoints",
	ExceptionInfo:             "ExceptionInfo",
	DebugInfo:                 "DebugInfo",
	DelayLoadMethodCallThunks: "DelayLoadMethodCallThunks",
	AvailableTypes:            "AvailableTypes",
	InstanceMethodEntryPoints: "InstanceMethodEntryPoints",
	InliningInfo:              "InliningInfo",
	ProfileDataInfo:           "ProfileDataInfo",
	ManifestMetadata:          "ManifestMetadata",
	AttributePresence:         "AttributePresence",
	InliningInfo2:             "InliningInfo2",
	ComponentAssemblies:       "ComponentAssemblies",
	OwnerCompositeExecutable:  "OwnerCompositeExecutable",
	PgoInstrumentationData:    "PgoInstrumentationData",
	ManifestAssemblyMvids:     "ManifestAssemblyMvids",
	CrossModuleInlineInfo:     "CrossModuleInlineInfo",
	HotColdMap:                "HotColdMap",
	MethodIsGenericMap:        "MethodIsGenericMap",
	EnclosingTypeMap:          "EnclosingTypeMap",
	TypeGenericInfoMap:        "TypeGenericInfoMap",

	StringTable:              "StringTable",
	GCStaticRegion:           "GCStaticRegion",
	ThreadStaticRegion:       "ThreadStaticRegion",
	TypeManagerIndirection:   "TypeManagerIndirection",
	EagerCctor:               "EagerCctor",
	FrozenObjectRegion:       "FrozenObjectRegion",
	DehydratedData:           "DehydratedData",
	ThreadStaticOffsetRegion: "ThreadStaticOffsetRegion",
	ImportAddressTables:      "ImportAddressTables",
	ModuleInitializerList:    "ModuleInitializerList",
}

// String renders the section type's name, "ReflectionMapBlob(kind)" for a
// tag in the reserved 300-399 range, or "Unknown(tag)" otherwise.
func (t SectionType) String() string {
	if name, ok := sectionTypeNames[t]; ok {
		return name
	}
	if kind, ok := t.BlobKind(); ok {
		return fmt.Sprintf("ReflectionMapBlob(%s)", kind)
	}
	return fmt.Sprintf("Unknown(%d)", uint32(t))
}

// BlobKind reports the ReflectionMapBlob this tag denotes, if it falls in
// the reserved 300-399 range.
func (t SectionType) BlobKind() (ReflectionMapBlob, bool) {
	if t < 300 || t > 399 {
		return 0, false
	}
	return ReflectionMapBlob(uint32(t) - 300), true
}

// sectionTypeForBlob returns the section tag a given blob kind is reserved
// at (the inverse of BlobKind).
func sectionTypeForBlob(kind ReflectionMapBlob) SectionType {
	return SectionType(300 + uint32(kind))
}

// ReflectionMapBlob enumerates the typed blobs reserved in the 300-399 tag
// range. Index 0 and any index not named below fall back to Unknown.
type ReflectionMapBlob uint32

const (
	ReflectionMapBlobUnknown                ReflectionMapBlob = 0
	TypeMap                                 ReflectionMapBlob = 1
	ArrayMap                                ReflectionMapBlob = 2
	PointerTypeMap                          ReflectionMapBlob = 3
	FunctionPointerTypeMap                  ReflectionMapBlob = 4
	InvokeMap                               ReflectionMapBlob = 6
	VirtualInvokeMap                        ReflectionMapBlob = 7
	CommonFixupsTable                       ReflectionMapBlob = 8
	FieldAccessMap                          ReflectionMapBlob = 9
	CCtorContextMap                         ReflectionMapBlob = 10
	ByRefTypeMap                            ReflectionMapBlob = 11
	EmbeddedMetadata                        ReflectionMapBlob = 13
	UnboxingAndInstantiatingStubMap         ReflectionMapBlob = 15
	StructMarshallingStubMap                ReflectionMapBlob = 16
	DelegateMarshallingStubMap              ReflectionMapBlob = 17
	GenericVirtualMethodTable               ReflectionMapBlob = 18
	InterfaceGenericVirtualMethodTable      ReflectionMapBlob = 19
	TypeTemplateMap                         ReflectionMapBlob = 21
	GenericMethodsTemplateMap               ReflectionMapBlob = 22
	BlobIdResourceIndex                     ReflectionMapBlob = 24
	BlobIdResourceData                      ReflectionMapBlob = 25
	BlobIdStackTraceEmbeddedMetadata        ReflectionMapBlob = 26
	BlobIdStackTraceMethodRvaToTokenMapping ReflectionMapBlob = 27
	BlobIdStackTraceLineNumbers             ReflectionMapBlob = 28
	BlobIdStackTraceDocuments               ReflectionMapBlob = 29
	NativeLayoutInfo                        ReflectionMapBlob = 30
	NativeReferences                        ReflectionMapBlob = 31
	GenericsHashtable                       ReflectionMapBlob = 32
	NativeStatics                           ReflectionMapBlob = 33
	StaticsInfoHashtable                    ReflectionMapBlob = 34
	GenericMethodsHashtable                 ReflectionMapBlob = 35
	ExactMethodInstantiationsHashtable      ReflectionMapBlob = 36
	ExternalTypeMap                         ReflectionMapBlob = 40
	ProxyTypeMap                            ReflectionMapBlob = 41
)

var reflectionMapBlobNames = map[ReflectionMapBlob]string{
	TypeMap:                                 "TypeMap",
	ArrayMap:                                "ArrayMap",
	PointerTypeMap:                          "PointerTypeMap",
	FunctionPointerTypeMap:                  "FunctionPointerTypeMap",
	InvokeMap:                               "InvokeMap",
	VirtualInvokeMap:                        "VirtualInvokeMap",
	CommonFixupsTable:                       "CommonFixupsTable",
	FieldAccessMap:                          "FieldAccessMap",
	CCtorContextMap:                         "CCtorContextMap",
	ByRefTypeMap:                            "ByRefTypeMap",
	EmbeddedMetadata:                        "EmbeddedMetadata",
	UnboxingAndInstantiatingStubMap:         "UnboxingAndInstantiatingStubMap",
	StructMarshallingStubMap:                "StructMarshallingStubMap",
	DelegateMarshallingStubMap:              "DelegateMarshallingStubMap",
	GenericVirtualMethodTable:               "GenericVirtualMethodTable",
	InterfaceGenericVirtualMethodTable:      "InterfaceGenericVirtualMethodTable",
	TypeTemplateMap:                         "TypeTemplateMap",
	GenericMethodsTemplateMap:               "GenericMethodsTemplateMap",
	BlobIdResourceIndex:                     "BlobIdResourceIndex",
	BlobIdResourceData:                      "BlobIdResourceData",
	BlobIdStackTraceEmbeddedMetadata:        "BlobIdStackTraceEmbeddedMetadata",
	BlobIdStackTraceMethodRvaToTokenMapping: "BlobIdStackTraceMethodRvaToTokenMapping",
	BlobIdStackTraceLineNumbers:             "BlobIdStackTraceLineNumbers",
	BlobIdStackTraceDocuments:               "BlobIdStackTraceDocuments",
	NativeLayoutInfo:                        "NativeLayoutInfo",
	NativeReferences:                        "NativeReferences",
	GenericsHashtable:                       "GenericsHashtable",
	NativeStatics:                           "NativeStatics",
	StaticsInfoHashtable:                    "StaticsInfoHashtable",
	GenericMethodsHashtable:                 "GenericMethodsHashtable",
	ExactMethodInstantiationsHashtable:      "ExactMethodInstantiationsHashtable",
	ExternalTypeMap:                         "ExternalTypeMap",
	ProxyTypeMap:                            "ProxyTypeMap",
}

// String renders the blob kind's name, or "Unknown" for index 0 or any
// index outside the enumerated set.
func (b ReflectionMapBlob) String() string {
	if name, ok := reflectionMapBlobNames[b]; ok {
		return name
	}
	return "Unknown"
}
