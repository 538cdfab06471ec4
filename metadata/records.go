package metadata

import "github.com/DaXcess/hytale-reversing/nativefmt"

// fieldKind tags how a single record field is laid out on the wire, so the
// generic decoder below can walk a schema table instead of every record
// kind hand-rolling its own field-by-field parser.
type fieldKind int

const (
	fieldU8 fieldKind = iota
	fieldU16
	fieldU32
	fieldI32
	fieldString
	fieldHandle
	fieldByteCollection
	fieldHandleCollection
)

// fieldDescriptor is one row of a record kind's schema: a name, a wire
// kind, and (for fieldHandle) the kind the decoded handle must carry.
type fieldDescriptor struct {
	name       string
	kind       fieldKind
	handleKind HandleType
}

// schemas is the per-record-kind field table: the record-decoding layer
// is table-driven rather than a hand-written parser per kind.
var schemas = map[HandleType][]fieldDescriptor{
	ScopeDefinition: {
		{name: "flags", kind: fieldU32},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "hash_algorithm", kind: fieldU32},
		{name: "major_version", kind: fieldU16},
		{name: "minor_version", kind: fieldU16},
		{name: "build_number", kind: fieldU16},
		{name: "revision_number", kind: fieldU16},
		{name: "public_key", kind: fieldByteCollection},
		{name: "culture", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "root_namespace_definition", kind: fieldHandle, handleKind: NamespaceDefinition},
		{name: "entrypoint", kind: fieldHandle, handleKind: QualifiedMethod},
		{name: "global_module_type", kind: fieldHandle, handleKind: TypeDefinition},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
		{name: "module_name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "mvid", kind: fieldByteCollection},
		{name: "module_custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	ConstantStringValue: {
		{name: "value", kind: fieldString},
	},
	NamespaceDefinition: {
		{name: "parent_scope_or_namespace", kind: fieldHandle, handleKind: Null},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "type_definitions", kind: fieldHandleCollection, handleKind: TypeDefinition},
		{name: "type_forwarders", kind: fieldHandleCollection, handleKind: TypeForwarder},
		{name: "namespace_definitions", kind: fieldHandleCollection, handleKind: NamespaceDefinition},
	},
	TypeDefinition: {
		{name: "flags", kind: fieldU32},
		{name: "base_type", kind: fieldHandle, handleKind: Null},
		{name: "namespace_definition", kind: fieldHandle, handleKind: NamespaceDefinition},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "size", kind: fieldU32},
		{name: "packing_size", kind: fieldU16},
		{name: "enclosing_type", kind: fieldHandle, handleKind: TypeDefinition},
		{name: "nested_types", kind: fieldHandleCollection, handleKind: TypeDefinition},
		{name: "methods", kind: fieldHandleCollection, handleKind: Method},
		{name: "fields", kind: fieldHandleCollection, handleKind: Field},
		{name: "properties", kind: fieldHandleCollection, handleKind: Property},
		{name: "events", kind: fieldHandleCollection, handleKind: Event},
		{name: "generic_parameters", kind: fieldHandleCollection, handleKind: GenericParameter},
		{name: "interfaces", kind: fieldHandleCollection, handleKind: Null},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	Method: {
		{name: "flags", kind: fieldU32},
		{name: "impl_flags", kind: fieldU32},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "signature", kind: fieldHandle, handleKind: MethodSignature},
		{name: "parameters", kind: fieldHandleCollection, handleKind: Parameter},
		{name: "generic_parameters", kind: fieldHandleCollection, handleKind: GenericParameter},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	Field: {
		{name: "flags", kind: fieldU32},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "signature", kind: fieldHandle, handleKind: FieldSignature},
		{name: "default_value", kind: fieldHandle, handleKind: Null},
		{name: "offset", kind: fieldU32},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	FieldSignature: {
		{name: "type_handle", kind: fieldHandle, handleKind: Null},
	},
	MethodSignature: {
		{name: "calling_convention", kind: fieldU8},
		{name: "generic_parameter_count", kind: fieldI32},
		{name: "return_type", kind: fieldHandle, handleKind: Null},
		{name: "parameters", kind: fieldHandleCollection, handleKind: Null},
		{name: "var_arg_parameters", kind: fieldHandleCollection, handleKind: Null},
	},
	TypeSpecification: {
		{name: "signature", kind: fieldHandle, handleKind: Null},
	},
	TypeInstantiationSignature: {
		{name: "generic_type", kind: fieldHandle, handleKind: Null},
		{name: "generic_args", kind: fieldHandleCollection, handleKind: Null},
	},
	ByReferenceSignature: {
		{name: "type_handle", kind: fieldHandle, handleKind: Null},
	},
	MethodTypeVariableSignature: {
		{name: "number", kind: fieldI32},
	},
	TypeVariableSignature: {
		{name: "number", kind: fieldI32},
	},
	GenericParameter: {
		{name: "number", kind: fieldU16},
		{name: "flags", kind: fieldU32},
		{name: "gp_kind", kind: fieldU8},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "constraints", kind: fieldHandleCollection, handleKind: Null},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	Event: {
		{name: "flags", kind: fieldU32},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "type_handle", kind: fieldHandle, handleKind: Null},
		{name: "add_method", kind: fieldHandle, handleKind: Method},
		{name: "remove_method", kind: fieldHandle, handleKind: Method},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	Property: {
		{name: "flags", kind: fieldU32},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "signature", kind: fieldHandle, handleKind: Null},
		{name: "get_method", kind: fieldHandle, handleKind: Method},
		{name: "set_method", kind: fieldHandle, handleKind: Method},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	Parameter: {
		{name: "flags", kind: fieldU32},
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "sequence", kind: fieldU16},
		{name: "default_value", kind: fieldHandle, handleKind: Null},
		{name: "custom_attributes", kind: fieldHandleCollection, handleKind: CustomAttribute},
	},
	QualifiedMethod: {
		{name: "enclosing_type", kind: fieldHandle, handleKind: TypeDefinition},
		{name: "method", kind: fieldHandle, handleKind: Method},
	},
	CustomAttribute: {
		{name: "constructor", kind: fieldHandle, handleKind: Null},
		{name: "fixed_arguments", kind: fieldByteCollection},
		{name: "named_arguments", kind: fieldHandleCollection, handleKind: NamedArgument},
	},
	TypeForwarder: {
		{name: "name", kind: fieldHandle, handleKind: ConstantStringValue},
		{name: "scope", kind: fieldHandle, handleKind: Null},
	},
}

// Record is a generically-decoded metadata record: a kind plus its fields
// keyed by name, per the schema table above. Per-kind wrapper types (below)
// brand a Record with named, typed accessors.
type Record struct {
	Kind   HandleType
	fields map[string]any
}

func (r Record) u8(name string) uint8           { return r.fields[name].(uint8) }
func (r Record) u16(name string) uint16         { return r.fields[name].(uint16) }
func (r Record) u32(name string) uint32         { return r.fields[name].(uint32) }
func (r Record) i32(name string) int32          { return r.fields[name].(int32) }
func (r Record) str(name string) string         { return r.fields[name].(string) }
func (r Record) handle(name string) BaseHandle  { return r.fields[name].(BaseHandle) }
func (r Record) bytes(name string) ByteCollection {
	return r.fields[name].(ByteCollection)
}
func (r Record) handles(name string) HandleCollection {
	return r.fields[name].(HandleCollection)
}

// decodeRecord decodes kind's schema starting at the parser's current
// cursor, in declared field order, and returns the populated Record. Each
// collection field leaves its own lazy view in the Record and advances the
// cursor past the collection's bytes so the next sibling field lands at
// the correct offset.
func decodeRecord(p *nativefmt.Parser, kind HandleType) (Record, error) {
	schema, ok := schemas[kind]
	if !ok {
		return Record{}, ErrInvalidHandle
	}

	fields := make(map[string]any, len(schema))
	for _, fd := range schema {
		switch fd.kind {
		case fieldU8:
			v, err := p.GetU8()
			if err != nil {
				return Record{}, err
			}
			fields[fd.name] = v
		case fieldU16:
			v, err := p.GetUnsigned()
			if err != nil {
				return Record{}, err
			}
			fields[fd.name] = uint16(v)
		case fieldU32:
			v, err := p.GetUnsigned()
			if err != nil {
				return Record{}, err
			}
			fields[fd.name] = v
		case fieldI32:
			v, err := p.GetSigned()
			if err != nil {
				return Record{}, err
			}
			fields[fd.name] = v
		case fieldString:
			v, err := p.GetString()
			if err != nil {
				return Record{}, err
			}
			fields[fd.name] = v
		case fieldHandle:
			v, err := p.GetUnsigned()
			if err != nil {
				return Record{}, err
			}
			h := HandleFromFieldValue(v)
			if fd.handleKind != Null && h.Kind != fd.handleKind && h.Kind != Null {
				return Record{}, ErrInvalidHandle
			}
			fields[fd.name] = h
		case fieldByteCollection:
			start := p.Offset
			length, err := p.GetUnsigned()
			if err != nil {
				return Record{}, err
			}
			p.Offset += int(length)
			fields[fd.name] = ByteCollection{reader: p.Reader, offset: start}
		case fieldHandleCollection:
			start := p.Offset
			count, err := p.GetSequenceCount()
			if err != nil {
				return Record{}, err
			}
			for i := uint32(0); i < count; i++ {
				if err := p.SkipInteger(); err != nil {
					return Record{}, err
				}
			}
			fields[fd.name] = HandleCollection{reader: p.Reader, offset: start}
		}
	}

	return Record{Kind: kind, fields: fields}, nil
}
