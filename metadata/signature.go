package metadata

import "strings"

// RenderSignature recursively walks a tagged-variant signature handle,
// used both standalone (printing a type's own name) and nested inside a
// method signature. The enclosing type/method provide the generic-
// parameter names that a type- or method-variable signature resolves
// against; either may be nil.
func RenderSignature(mr *Reader, h BaseHandle, enclosingType *TypeDefinition, enclosingMethod *Method) (string, error) {
	if h.IsNil() {
		return h.Kind.String(), nil
	}

	standalone := enclosingType == nil && enclosingMethod == nil

	switch h.Kind {
	case TypeDefinition:
		td, err := AsTypeDefinitionHandle(h)
		if err != nil {
			return "", err
		}
		t, err := mr.TypeDefinition(td)
		if err != nil {
			return "", err
		}
		if standalone {
			return t.NameWithGenerics()
		}
		return t.FullName()

	case TypeSpecification:
		ts, err := AsTypeSpecificationHandle(h)
		if err != nil {
			return "", err
		}
		rec, err := mr.decodeAt(ts.BaseHandle, TypeSpecification)
		if err != nil {
			return "", err
		}
		return RenderSignature(mr, rec.handle("signature"), enclosingType, enclosingMethod)

	case TypeInstantiationSignature:
		tis, err := AsTypeInstantiationSignatureHandle(h)
		if err != nil {
			return "", err
		}
		rec, err := mr.decodeAt(tis.BaseHandle, TypeInstantiationSignature)
		if err != nil {
			return "", err
		}

		base, err := RenderSignature(mr, rec.handle("generic_type"), enclosingType, enclosingMethod)
		if err != nil {
			return "", err
		}

		var args []string
		it := rec.handles("generic_args").Iter()
		for {
			argHandle, ok := it.Next()
			if !ok {
				break
			}
			s, err := RenderSignature(mr, argHandle, enclosingType, enclosingMethod)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		if len(args) == 0 {
			return base, nil
		}
		return base + "<" + strings.Join(args, ", ") + ">", nil

	case ByReferenceSignature:
		brs, err := AsByReferenceSignatureHandle(h)
		if err != nil {
			return "", err
		}
		rec, err := mr.decodeAt(brs.BaseHandle, ByReferenceSignature)
		if err != nil {
			return "", err
		}
		inner, err := RenderSignature(mr, rec.handle("type_handle"), enclosingType, enclosingMethod)
		if err != nil {
			return "", err
		}
		return "ref " + inner, nil

	case MethodTypeVariableSignature:
		mtvs, err := AsMethodTypeVariableSignatureHandle(h)
		if err != nil {
			return "", err
		}
		rec, err := mr.decodeAt(mtvs.BaseHandle, MethodTypeVariableSignature)
		if err != nil {
			return "", err
		}
		number := rec.i32("number")
		if enclosingMethod != nil {
			if n, ok := enclosingMethod.GenericParameterName(number); ok {
				return n, nil
			}
		}
		return "Unknown", nil

	case TypeVariableSignature:
		tvs, err := AsTypeVariableSignatureHandle(h)
		if err != nil {
			return "", err
		}
		rec, err := mr.decodeAt(tvs.BaseHandle, TypeVariableSignature)
		if err != nil {
			return "", err
		}
		number := rec.i32("number")
		if enclosingType != nil {
			if n, ok := enclosingType.GenericParameterName(number); ok {
				return n, nil
			}
		}
		return "Unknown", nil

	default:
		return h.Kind.String(), nil
	}
}

// RenderMethodSignature renders a method's parameter list the way
// end-to-end scenario 3 expects: "EnclosingType.MethodName(param1, param2)".
func RenderMethodSignature(mr *Reader, enclosingType TypeDefinition, m Method) (string, error) {
	typeName, err := enclosingType.FullName()
	if err != nil {
		return "", err
	}
	methodName, err := m.Name()
	if err != nil {
		return "", err
	}
	sig, err := m.Signature()
	if err != nil {
		return "", err
	}

	var params []string
	it := sig.Parameters()
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		s, err := RenderSignature(mr, h, &enclosingType, &m)
		if err != nil {
			return "", err
		}
		params = append(params, s)
	}

	return typeName + "." + methodName + "(" + strings.Join(params, ", ") + ")", nil
}
