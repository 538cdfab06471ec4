package metadata

import "strings"

// ScopeDefinition is a decoded assembly/module record.
type ScopeDefinition struct {
	rec Record
	mr  *Reader
}

func (s ScopeDefinition) Flags() uint32        { return s.rec.u32("flags") }
func (s ScopeDefinition) HashAlgorithm() uint32 { return s.rec.u32("hash_algorithm") }
func (s ScopeDefinition) MajorVersion() uint16  { return s.rec.u16("major_version") }
func (s ScopeDefinition) MinorVersion() uint16  { return s.rec.u16("minor_version") }
func (s ScopeDefinition) BuildNumber() uint16   { return s.rec.u16("build_number") }
func (s ScopeDefinition) RevisionNumber() uint16 { return s.rec.u16("revision_number") }

// Name decodes the scope's own name string.
func (s ScopeDefinition) Name() (string, error) {
	h, err := AsConstantStringValueHandle(s.rec.handle("name"))
	if err != nil {
		return "", err
	}
	return s.mr.String(h)
}

// RootNamespace decodes the scope's root namespace record.
func (s ScopeDefinition) RootNamespace() (NamespaceDefinition, error) {
	h, err := AsNamespaceDefinitionHandle(s.rec.handle("root_namespace_definition"))
	if err != nil {
		return NamespaceDefinition{}, err
	}
	return s.mr.NamespaceDefinition(h)
}

// AllTypes walks the namespace tree depth-first starting from the root
// namespace, emitting every namespace's type definitions before
// descending into its child namespaces.
func (s ScopeDefinition) AllTypes() ([]TypeDefinition, error) {
	root, err := s.RootNamespace()
	if err != nil {
		return nil, err
	}

	var out []TypeDefinition
	stack := []NamespaceDefinition{root}
	for len(stack) > 0 {
		ns := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		it := ns.TypeDefinitions()
		for {
			h, ok := it.Next()
			if !ok {
				break
			}
			td, err := AsTypeDefinitionHandle(h)
			if err != nil {
				continue
			}
			t, err := s.mr.TypeDefinition(td)
			if err != nil {
				continue
			}
			out = append(out, t)
		}

		nit := ns.ChildNamespaces()
		for {
			h, ok := nit.Next()
			if !ok {
				break
			}
			nh, err := AsNamespaceDefinitionHandle(h)
			if err != nil {
				continue
			}
			child, err := s.mr.NamespaceDefinition(nh)
			if err != nil {
				continue
			}
			stack = append(stack, child)
		}
	}
	return out, nil
}

// NamespaceDefinition is a decoded namespace record.
type NamespaceDefinition struct {
	rec Record
	mr  *Reader
}

// Parent returns the enclosing scope-or-namespace handle, untyped (the
// field may hold either kind; callers dispatch on its Kind).
func (n NamespaceDefinition) Parent() BaseHandle { return n.rec.handle("parent_scope_or_namespace") }

// Name decodes the namespace's own (possibly nil) name segment.
func (n NamespaceDefinition) Name() (string, error) {
	h, err := AsConstantStringValueHandle(n.rec.handle("name"))
	if err != nil {
		return "", err
	}
	if h.IsNil() {
		return "", nil
	}
	return n.mr.String(h)
}

func (n NamespaceDefinition) TypeDefinitions() *TypedHandleIterator {
	return TypeDefinitionHandleCollection{n.rec.handles("type_definitions")}.Iter()
}

func (n NamespaceDefinition) ChildNamespaces() *TypedHandleIterator {
	return NamespaceDefinitionHandleCollection{n.rec.handles("namespace_definitions")}.Iter()
}

// TypeDefinition is a decoded type record.
type TypeDefinition struct {
	rec Record
	mr  *Reader
}

func (t TypeDefinition) Flags() uint32        { return t.rec.u32("flags") }
func (t TypeDefinition) BaseType() BaseHandle { return t.rec.handle("base_type") }
func (t TypeDefinition) Size() uint32         { return t.rec.u32("size") }
func (t TypeDefinition) PackingSize() uint16  { return t.rec.u16("packing_size") }

// Name decodes the type's own (unqualified) name.
func (t TypeDefinition) Name() (string, error) {
	h, err := AsConstantStringValueHandle(t.rec.handle("name"))
	if err != nil {
		return "", err
	}
	return t.mr.String(h)
}

func (t TypeDefinition) Methods() *TypedHandleIterator {
	return MethodHandleCollection{t.rec.handles("methods")}.Iter()
}

func (t TypeDefinition) Fields() *TypedHandleIterator {
	return FieldHandleCollection{t.rec.handles("fields")}.Iter()
}

func (t TypeDefinition) GenericParameters() *TypedHandleIterator {
	return GenericParameterHandleCollection{t.rec.handles("generic_parameters")}.Iter()
}

func (t TypeDefinition) Properties() *TypedHandleIterator {
	return PropertyHandleCollection{t.rec.handles("properties")}.Iter()
}

func (t TypeDefinition) Events() *TypedHandleIterator {
	return EventHandleCollection{t.rec.handles("events")}.Iter()
}

func (t TypeDefinition) NestedTypes() *TypedHandleIterator {
	return TypeDefinitionHandleCollection{t.rec.handles("nested_types")}.Iter()
}

func (t TypeDefinition) Interfaces() *HandleIterator {
	return t.rec.handles("interfaces").Iter()
}

// FullName walks the namespace chain from the type's own namespace handle
// up via parent_scope_or_namespace until the handle's kind is no longer
// NamespaceDefinition or its name is empty, reverses the collected
// segments, joins them with ".", and appends the type's own name. Nested
// types are not separately prefixed with their enclosing type.
func (t TypeDefinition) FullName() (string, error) {
	name, err := t.Name()
	if err != nil {
		return "", err
	}

	nsHandle, err := AsNamespaceDefinitionHandle(t.rec.handle("namespace_definition"))
	if err != nil {
		return name, nil
	}

	var segments []string
	cur := nsHandle.BaseHandle
	for !cur.IsNil() && cur.Kind == NamespaceDefinition {
		nh, err := AsNamespaceDefinitionHandle(cur)
		if err != nil {
			break
		}
		ns, err := t.mr.NamespaceDefinition(nh)
		if err != nil {
			break
		}
		seg, err := ns.Name()
		if err != nil || seg == "" {
			break
		}
		segments = append(segments, seg)
		cur = ns.Parent()
	}

	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	if len(segments) == 0 {
		return name, nil
	}
	return strings.Join(segments, ".") + "." + name, nil
}

// NameWithGenerics returns FullName plus a "<T1, T2, ...>" suffix when the
// type declares generic parameters.
func (t TypeDefinition) NameWithGenerics() (string, error) {
	full, err := t.FullName()
	if err != nil {
		return "", err
	}

	var params []string
	it := t.GenericParameters()
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		gph, err := AsGenericParameterHandle(h)
		if err != nil {
			continue
		}
		gp, err := t.mr.GenericParameter(gph)
		if err != nil {
			continue
		}
		n, err := gp.Name()
		if err != nil {
			continue
		}
		params = append(params, n)
	}

	if len(params) == 0 {
		return full, nil
	}
	return full + "<" + strings.Join(params, ", ") + ">", nil
}

// GenericParameterName returns the name of the number-th generic parameter
// declared on this type, used when rendering a TypeVariableSignature.
func (t TypeDefinition) GenericParameterName(number int32) (string, bool) {
	i := int32(0)
	it := t.GenericParameters()
	for {
		h, ok := it.Next()
		if !ok {
			return "", false
		}
		if i == number {
			gph, err := AsGenericParameterHandle(h)
			if err != nil {
				return "", false
			}
			gp, err := t.mr.GenericParameter(gph)
			if err != nil {
				return "", false
			}
			n, err := gp.Name()
			if err != nil {
				return "", false
			}
			return n, true
		}
		i++
	}
}

// Method is a decoded method record.
type Method struct {
	rec Record
	mr  *Reader
}

func (m Method) Flags() MethodAttributes { return MethodAttributes(m.rec.u32("flags")) }
func (m Method) ImplFlags() uint32       { return m.rec.u32("impl_flags") }

func (m Method) Name() (string, error) {
	h, err := AsConstantStringValueHandle(m.rec.handle("name"))
	if err != nil {
		return "", err
	}
	return m.mr.String(h)
}

func (m Method) Signature() (MethodSignature, error) {
	h, err := AsMethodSignatureHandle(m.rec.handle("signature"))
	if err != nil {
		return MethodSignature{}, err
	}
	return m.mr.MethodSignature(h)
}

func (m Method) GenericParameters() *TypedHandleIterator {
	return GenericParameterHandleCollection{m.rec.handles("generic_parameters")}.Iter()
}

// GenericParameterName returns the name of the number-th generic parameter
// declared on this method, used when rendering a MethodTypeVariableSignature.
func (m Method) GenericParameterName(number int32) (string, bool) {
	i := int32(0)
	it := m.GenericParameters()
	for {
		h, ok := it.Next()
		if !ok {
			return "", false
		}
		if i == number {
			gph, err := AsGenericParameterHandle(h)
			if err != nil {
				return "", false
			}
			gp, err := m.mr.GenericParameter(gph)
			if err != nil {
				return "", false
			}
			n, err := gp.Name()
			if err != nil {
				return "", false
			}
			return n, true
		}
		i++
	}
}

// MethodSignature is a decoded method-signature record.
type MethodSignature struct {
	rec Record
	mr  *Reader
}

func (s MethodSignature) CallingConvention() SignatureCallingConvention {
	return SignatureCallingConvention(s.rec.u8("calling_convention"))
}
func (s MethodSignature) GenericParameterCount() int32 { return s.rec.i32("generic_parameter_count") }
func (s MethodSignature) ReturnType() BaseHandle       { return s.rec.handle("return_type") }
func (s MethodSignature) Parameters() *HandleIterator {
	return s.rec.handles("parameters").Iter()
}
func (s MethodSignature) VarArgParameters() *HandleIterator {
	return s.rec.handles("var_arg_parameters").Iter()
}

// GenericParameter is a decoded generic-parameter record.
type GenericParameter struct {
	rec Record
	mr  *Reader
}

func (g GenericParameter) Number() uint16 { return g.rec.u16("number") }
func (g GenericParameter) Flags() uint32  { return g.rec.u32("flags") }

func (g GenericParameter) Name() (string, error) {
	h, err := AsConstantStringValueHandle(g.rec.handle("name"))
	if err != nil {
		return "", err
	}
	return g.mr.String(h)
}

// Field is a decoded instance/static field record.
type Field struct {
	rec Record
	mr  *Reader
}

func (f Field) Flags() uint32  { return f.rec.u32("flags") }
func (f Field) Offset() uint32 { return f.rec.u32("offset") }

func (f Field) Name() (string, error) {
	h, err := AsConstantStringValueHandle(f.rec.handle("name"))
	if err != nil {
		return "", err
	}
	return f.mr.String(h)
}

// QualifiedMethod is a decoded (enclosing type, method) pair, used as a
// scope's entrypoint handle.
type QualifiedMethod struct {
	rec Record
	mr  *Reader
}

func (q QualifiedMethod) EnclosingType() (TypeDefinition, error) {
	h, err := AsTypeDefinitionHandle(q.rec.handle("enclosing_type"))
	if err != nil {
		return TypeDefinition{}, err
	}
	return q.mr.TypeDefinition(h)
}

func (q QualifiedMethod) Method() (Method, error) {
	h, err := AsMethodHandle(q.rec.handle("method"))
	if err != nil {
		return Method{}, err
	}
	return q.mr.Method(h)
}
