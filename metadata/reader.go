package metadata

import "github.com/DaXcess/hytale-reversing/nativefmt"

// headerSignature is the constant marking the start of an embedded
// metadata blob.
const headerSignature uint32 = 0xDEADDFFD

// Reader is the embedded metadata blob's entry point: a validated header
// plus the root collection of scope definitions.
type Reader struct {
	reader *nativefmt.Reader
	Scopes ScopeDefinitionHandleCollection
}

// NewReader validates the blob's signature at offset 0 and returns a Reader
// rooted at the scope-definition collection immediately following it.
func NewReader(data []byte) (*Reader, error) {
	r, err := nativefmt.NewReader(data)
	if err != nil {
		return nil, err
	}

	sig, err := r.ReadU32(0)
	if err != nil {
		return nil, ErrBadImage
	}
	if sig != headerSignature {
		return nil, ErrBadImage
	}

	return &Reader{
		reader: r,
		Scopes: ScopeDefinitionHandleCollection{HandleCollection{reader: r, offset: 4}},
	}, nil
}

// decodeAt seeks to h's offset and decodes a record of the given kind.
func (mr *Reader) decodeAt(h BaseHandle, kind HandleType) (Record, error) {
	if h.IsNil() {
		return Record{}, ErrBadImage
	}
	p := nativefmt.NewParser(mr.reader, int(h.Offset))
	return decodeRecord(p, kind)
}

// ScopeDefinition decodes the scope record h refers to.
func (mr *Reader) ScopeDefinition(h ScopeDefinitionHandle) (ScopeDefinition, error) {
	rec, err := mr.decodeAt(h.BaseHandle, ScopeDefinition)
	if err != nil {
		return ScopeDefinition{}, err
	}
	return ScopeDefinition{rec: rec, mr: mr}, nil
}

// String decodes the string record h refers to.
func (mr *Reader) String(h ConstantStringValueHandle) (string, error) {
	if h.IsNil() {
		return "", nil
	}
	rec, err := mr.decodeAt(h.BaseHandle, ConstantStringValue)
	if err != nil {
		return "", err
	}
	return rec.str("value"), nil
}

// NamespaceDefinition decodes the namespace record h refers to.
func (mr *Reader) NamespaceDefinition(h NamespaceDefinitionHandle) (NamespaceDefinition, error) {
	rec, err := mr.decodeAt(h.BaseHandle, NamespaceDefinition)
	if err != nil {
		return NamespaceDefinition{}, err
	}
	return NamespaceDefinition{rec: rec, mr: mr}, nil
}

// TypeDefinition decodes the type record h refers to.
func (mr *Reader) TypeDefinition(h TypeDefinitionHandle) (TypeDefinition, error) {
	rec, err := mr.decodeAt(h.BaseHandle, TypeDefinition)
	if err != nil {
		return TypeDefinition{}, err
	}
	return TypeDefinition{rec: rec, mr: mr}, nil
}

// Method decodes the method record h refers to.
func (mr *Reader) Method(h MethodHandle) (Method, error) {
	rec, err := mr.decodeAt(h.BaseHandle, Method)
	if err != nil {
		return Method{}, err
	}
	return Method{rec: rec, mr: mr}, nil
}

// Field decodes the field record h refers to.
func (mr *Reader) Field(h FieldHandle) (Field, error) {
	rec, err := mr.decodeAt(h.BaseHandle, Field)
	if err != nil {
		return Field{}, err
	}
	return Field{rec: rec, mr: mr}, nil
}

// MethodSignature decodes the method-signature record h refers to.
func (mr *Reader) MethodSignature(h MethodSignatureHandle) (MethodSignature, error) {
	rec, err := mr.decodeAt(h.BaseHandle, MethodSignature)
	if err != nil {
		return MethodSignature{}, err
	}
	return MethodSignature{rec: rec, mr: mr}, nil
}

// GenericParameter decodes the generic-parameter record h refers to.
func (mr *Reader) GenericParameter(h GenericParameterHandle) (GenericParameter, error) {
	rec, err := mr.decodeAt(h.BaseHandle, GenericParameter)
	if err != nil {
		return GenericParameter{}, err
	}
	return GenericParameter{rec: rec, mr: mr}, nil
}

// QualifiedMethod decodes the qualified-method record h refers to.
func (mr *Reader) QualifiedMethod(h QualifiedMethodHandle) (QualifiedMethod, error) {
	rec, err := mr.decodeAt(h.BaseHandle, QualifiedMethod)
	if err != nil {
		return QualifiedMethod{}, err
	}
	return QualifiedMethod{rec: rec, mr: mr}, nil
}
