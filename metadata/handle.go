// Package metadata implements the embedded "native format" metadata reader:
// typed handles, table-driven records, lazy collections, and the derived
// name/signature rendering operations built on top of them.
package metadata

import (
	"errors"
	"fmt"
)

// ErrBadImage reports a malformed metadata structure: an out-of-range
// handle offset, a truncated record, or any other encoding failure.
var ErrBadImage = errors.New("metadata: image is corrupt or malformed")

// ErrInvalidHandle reports a handle whose 7-bit kind is outside the
// enumerated set, or whose declared kind does not match its actual kind.
var ErrInvalidHandle = errors.New("metadata: handle kind mismatch")

// HandleType is the 7-bit discriminant tagging every handle in the
// embedded metadata blob.
type HandleType uint8

const (
	Null                         HandleType = 0x0
	ArraySignature               HandleType = 0x1
	ByReferenceSignature         HandleType = 0x2
	ConstantBooleanArray         HandleType = 0x3
	ConstantBooleanValue         HandleType = 0x4
	ConstantByteArray            HandleType = 0x5
	ConstantByteValue            HandleType = 0x6
	ConstantCharArray            HandleType = 0x7
	ConstantCharValue            HandleType = 0x8
	ConstantDoubleArray          HandleType = 0x9
	ConstantDoubleValue          HandleType = 0xa
	ConstantEnumArray            HandleType = 0xb
	ConstantEnumValue            HandleType = 0xc
	ConstantHandleArray          HandleType = 0xd
	ConstantInt16Array           HandleType = 0xe
	ConstantInt16Value           HandleType = 0xf
	ConstantInt32Array           HandleType = 0x10
	ConstantInt32Value           HandleType = 0x11
	ConstantInt64Array           HandleType = 0x12
	ConstantInt64Value           HandleType = 0x13
	ConstantReferenceValue       HandleType = 0x14
	ConstantSByteArray           HandleType = 0x15
	ConstantSByteValue           HandleType = 0x16
	ConstantSingleArray          HandleType = 0x17
	ConstantSingleValue          HandleType = 0x18
	ConstantStringArray          HandleType = 0x19
	ConstantStringValue          HandleType = 0x1a
	ConstantUInt16Array          HandleType = 0x1b
	ConstantUInt16Value          HandleType = 0x1c
	ConstantUInt32Array          HandleType = 0x1d
	ConstantUInt32Value          HandleType = 0x1e
	ConstantUInt64Array          HandleType = 0x1f
	ConstantUInt64Value          HandleType = 0x20
	CustomAttribute              HandleType = 0x21
	Event                        HandleType = 0x22
	Field                        HandleType = 0x23
	FieldSignature               HandleType = 0x24
	FunctionPointerSignature     HandleType = 0x25
	GenericParameter             HandleType = 0x26
	MemberReference              HandleType = 0x27
	Method                       HandleType = 0x28
	MethodInstantiation          HandleType = 0x29
	MethodSemantics              HandleType = 0x2a
	MethodSignature              HandleType = 0x2b
	MethodTypeVariableSignature  HandleType = 0x2c
	ModifiedType                 HandleType = 0x2d
	NamedArgument                HandleType = 0x2e
	NamespaceDefinition          HandleType = 0x2f
	NamespaceReference           HandleType = 0x30
	Parameter                    HandleType = 0x31
	PointerSignature             HandleType = 0x32
	Property                     HandleType = 0x33
	PropertySignature            HandleType = 0x34
	QualifiedField                HandleType = 0x35
	QualifiedMethod              HandleType = 0x36
	SZArraySignature             HandleType = 0x37
	ScopeDefinition              HandleType = 0x38
	ScopeReference               HandleType = 0x39
	TypeDefinition               HandleType = 0x3a
	TypeForwarder                HandleType = 0x3b
	TypeInstantiationSignature   HandleType = 0x3c
	TypeReference                HandleType = 0x3d
	TypeSpecification            HandleType = 0x3e
	TypeVariableSignature        HandleType = 0x3f
	Invalid                      HandleType = 0xff
)

var handleTypeNames = map[HandleType]string{
	Null: "Null", ArraySignature: "ArraySignature", ByReferenceSignature: "ByReferenceSignature",
	ConstantBooleanArray: "ConstantBooleanArray", ConstantBooleanValue: "ConstantBooleanValue",
	ConstantByteArray: "ConstantByteArray", ConstantByteValue: "ConstantByteValue",
	ConstantCharArray: "ConstantCharArray", ConstantCharValue: "ConstantCharValue",
	ConstantDoubleArray: "ConstantDoubleArray", ConstantDoubleValue: "ConstantDoubleValue",
	ConstantEnumArray: "ConstantEnumArray", ConstantEnumValue: "ConstantEnumValue",
	ConstantHandleArray: "ConstantHandleArray",
	ConstantInt16Array:  "ConstantInt16Array", ConstantInt16Value: "ConstantInt16Value",
	ConstantInt32Array: "ConstantInt32Array", ConstantInt32Value: "ConstantInt32Value",
	ConstantInt64Array: "ConstantInt64Array", ConstantInt64Value: "ConstantInt64Value",
	ConstantReferenceValue: "ConstantReferenceValue",
	ConstantSByteArray:     "ConstantSByteArray", ConstantSByteValue: "ConstantSByteValue",
	ConstantSingleArray: "ConstantSingleArray", ConstantSingleValue: "ConstantSingleValue",
	ConstantStringArray: "ConstantStringArray", ConstantStringValue: "ConstantStringValue",
	ConstantUInt16Array: "ConstantUInt16Array", ConstantUInt16Value: "ConstantUInt16Value",
	ConstantUInt32Array: "ConstantUInt32Array", ConstantUInt32Value: "ConstantUInt32Value",
	ConstantUInt64Array: "ConstantUInt64Array", ConstantUInt64Value: "ConstantUInt64Value",
	CustomAttribute: "CustomAttribute", Event: "Event", Field: "Field",
	FieldSignature: "FieldSignature", FunctionPointerSignature: "FunctionPointerSignature",
	GenericParameter: "GenericParameter", MemberReference: "MemberReference", Method: "Method",
	MethodInstantiation: "MethodInstantiation", MethodSemantics: "MethodSemantics",
	MethodSignature: "MethodSignature", MethodTypeVariableSignature: "MethodTypeVariableSignature",
	ModifiedType: "ModifiedType", NamedArgument: "NamedArgument",
	NamespaceDefinition: "NamespaceDefinition", NamespaceReference: "NamespaceReference",
	Parameter: "Parameter", PointerSignature: "PointerSignature", Property: "Property",
	PropertySignature: "PropertySignature", QualifiedField: "QualifiedField",
	QualifiedMethod: "QualifiedMethod", SZArraySignature: "SZArraySignature",
	ScopeDefinition: "ScopeDefinition", ScopeReference: "ScopeReference",
	TypeDefinition: "TypeDefinition", TypeForwarder: "TypeForwarder",
	TypeInstantiationSignature: "TypeInstantiationSignature", TypeReference: "TypeReference",
	TypeSpecification: "TypeSpecification", TypeVariableSignature: "TypeVariableSignature",
	Invalid: "Invalid",
}

// String renders the handle kind's name, or "Unknown(n)" for an
// undiscriminated value outside the closed set.
func (k HandleType) String() string {
	if name, ok := handleTypeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%#x)", uint8(k))
}

// IsValid reports whether k is one of the enumerated kinds.
func (k HandleType) IsValid() bool {
	_, ok := handleTypeNames[k]
	return ok
}

// BaseHandle is an untyped tagged pointer into the embedded metadata blob:
// a 7-bit kind plus a 25-bit offset. Offset 0 denotes nil for that kind.
type BaseHandle struct {
	Kind   HandleType
	Offset uint32
}

// IsNil reports whether h denotes the absence of a value for its kind.
func (h BaseHandle) IsNil() bool {
	return h.Offset == 0
}

// HandleFromFieldValue decodes the encoding used for handle fields inside a
// record: a variable-length-encoded uint32 laid out as kind(7)<<25|offset(25).
func HandleFromFieldValue(raw uint32) BaseHandle {
	return BaseHandle{Kind: HandleType(raw >> 25), Offset: raw & 0x1FFFFFF}
}

// FieldValue re-encodes h using the record-field layout (the inverse of
// HandleFromFieldValue).
func (h BaseHandle) FieldValue() uint32 {
	return uint32(h.Kind)<<25 | (h.Offset & 0x1FFFFFF)
}

// HandleFromRaw decodes the "raw" encoding used by TypeMap/InvokeMap
// payloads: offset(25)<<7|kind(7), the mirror image of the field encoding.
func HandleFromRaw(raw uint32) BaseHandle {
	return BaseHandle{Kind: HandleType(raw & 0x7F), Offset: raw >> 7}
}

// RawValue re-encodes h using the TypeMap/InvokeMap packed layout (the
// inverse of HandleFromRaw).
func (h BaseHandle) RawValue() uint32 {
	return (h.Offset << 7) | (uint32(h.Kind) & 0x7F)
}

func checkKind(h BaseHandle, want HandleType) error {
	if h.Kind != want && h.Kind != Null {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidHandle, want, h.Kind)
	}
	return nil
}

// The handle kinds actually referenced by the record schemas below each get
// a dedicated type so a field can only hold a handle of the expected kind
// (or Null); the constructor brands the raw value after checking its kind.

type ByReferenceSignatureHandle struct{ BaseHandle }
type ConstantStringValueHandle struct{ BaseHandle }
type CustomAttributeHandle struct{ BaseHandle }
type EventHandle struct{ BaseHandle }
type FieldHandle struct{ BaseHandle }
type FieldSignatureHandle struct{ BaseHandle }
type GenericParameterHandle struct{ BaseHandle }
type MethodHandle struct{ BaseHandle }
type MethodSignatureHandle struct{ BaseHandle }
type MethodTypeVariableSignatureHandle struct{ BaseHandle }
type NamespaceDefinitionHandle struct{ BaseHandle }
type ParameterHandle struct{ BaseHandle }
type PropertyHandle struct{ BaseHandle }
type QualifiedMethodHandle struct{ BaseHandle }
type ScopeDefinitionHandle struct{ BaseHandle }
type TypeDefinitionHandle struct{ BaseHandle }
type TypeForwarderHandle struct{ BaseHandle }
type TypeInstantiationSignatureHandle struct{ BaseHandle }
type TypeSpecificationHandle struct{ BaseHandle }
type TypeVariableSignatureHandle struct{ BaseHandle }

func AsByReferenceSignatureHandle(h BaseHandle) (ByReferenceSignatureHandle, error) {
	if err := checkKind(h, ByReferenceSignature); err != nil {
		return ByReferenceSignatureHandle{}, err
	}
	return ByReferenceSignatureHandle{h}, nil
}

func AsConstantStringValueHandle(h BaseHandle) (ConstantStringValueHandle, error) {
	if err := checkKind(h, ConstantStringValue); err != nil {
		return ConstantStringValueHandle{}, err
	}
	return ConstantStringValueHandle{h}, nil
}

func AsCustomAttributeHandle(h BaseHandle) (CustomAttributeHandle, error) {
	if err := checkKind(h, CustomAttribute); err != nil {
		return CustomAttributeHandle{}, err
	}
	return CustomAttributeHandle{h}, nil
}

func AsEventHandle(h BaseHandle) (EventHandle, error) {
	if err := checkKind(h, Event); err != nil {
		return EventHandle{}, err
	}
	return EventHandle{h}, nil
}

func AsFieldHandle(h BaseHandle) (FieldHandle, error) {
	if err := checkKind(h, Field); err != nil {
		return FieldHandle{}, err
	}
	return FieldHandle{h}, nil
}

func AsFieldSignatureHandle(h BaseHandle) (FieldSignatureHandle, error) {
	if err := checkKind(h, FieldSignature); err != nil {
		return FieldSignatureHandle{}, err
	}
	return FieldSignatureHandle{h}, nil
}

func AsGenericParameterHandle(h BaseHandle) (GenericParameterHandle, error) {
	if err := checkKind(h, GenericParameter); err != nil {
		return GenericParameterHandle{}, err
	}
	return GenericParameterHandle{h}, nil
}

func AsMethodHandle(h BaseHandle) (MethodHandle, error) {
	if err := checkKind(h, Method); err != nil {
		return MethodHandle{}, err
	}
	return MethodHandle{h}, nil
}

func AsMethodSignatureHandle(h BaseHandle) (MethodSignatureHandle, error) {
	if err := checkKind(h, MethodSignature); err != nil {
		return MethodSignatureHandle{}, err
	}
	return MethodSignatureHandle{h}, nil
}

func AsMethodTypeVariableSignatureHandle(h BaseHandle) (MethodTypeVariableSignatureHandle, error) {
	if err := checkKind(h, MethodTypeVariableSignature); err != nil {
		return MethodTypeVariableSignatureHandle{}, err
	}
	return MethodTypeVariableSignatureHandle{h}, nil
}

func AsNamespaceDefinitionHandle(h BaseHandle) (NamespaceDefinitionHandle, error) {
	if err := checkKind(h, NamespaceDefinition); err != nil {
		return NamespaceDefinitionHandle{}, err
	}
	return NamespaceDefinitionHandle{h}, nil
}

func AsParameterHandle(h BaseHandle) (ParameterHandle, error) {
	if err := checkKind(h, Parameter); err != nil {
		return ParameterHandle{}, err
	}
	return ParameterHandle{h}, nil
}

func AsPropertyHandle(h BaseHandle) (PropertyHandle, error) {
	if err := checkKind(h, Property); err != nil {
		return PropertyHandle{}, err
	}
	return PropertyHandle{h}, nil
}

func AsQualifiedMethodHandle(h BaseHandle) (QualifiedMethodHandle, error) {
	if err := checkKind(h, QualifiedMethod); err != nil {
		return QualifiedMethodHandle{}, err
	}
	return QualifiedMethodHandle{h}, nil
}

func AsScopeDefinitionHandle(h BaseHandle) (ScopeDefinitionHandle, error) {
	if err := checkKind(h, ScopeDefinition); err != nil {
		return ScopeDefinitionHandle{}, err
	}
	return ScopeDefinitionHandle{h}, nil
}

func AsTypeDefinitionHandle(h BaseHandle) (TypeDefinitionHandle, error) {
	if err := checkKind(h, TypeDefinition); err != nil {
		return TypeDefinitionHandle{}, err
	}
	return TypeDefinitionHandle{h}, nil
}

func AsTypeForwarderHandle(h BaseHandle) (TypeForwarderHandle, error) {
	if err := checkKind(h, TypeForwarder); err != nil {
		return TypeForwarderHandle{}, err
	}
	return TypeForwarderHandle{h}, nil
}

func AsTypeInstantiationSignatureHandle(h BaseHandle) (TypeInstantiationSignatureHandle, error) {
	if err := checkKind(h, TypeInstantiationSignature); err != nil {
		return TypeInstantiationSignatureHandle{}, err
	}
	return TypeInstantiationSignatureHandle{h}, nil
}

func AsTypeSpecificationHandle(h BaseHandle) (TypeSpecificationHandle, error) {
	if err := checkKind(h, TypeSpecification); err != nil {
		return TypeSpecificationHandle{}, err
	}
	return TypeSpecificationHandle{h}, nil
}

func AsTypeVariableSignatureHandle(h BaseHandle) (TypeVariableSignatureHandle, error) {
	if err := checkKind(h, TypeVariableSignature); err != nil {
		return TypeVariableSignatureHandle{}, err
	}
	return TypeVariableSignatureHandle{h}, nil
}
