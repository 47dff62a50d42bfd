// Copyright 2024 The PolyGen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ir is the in-memory intermediate representation produced by
// linking a set of parsed schema files: namespaces, structs, enums,
// fields and their type references. The package also supplies the
// lookup primitives (resolve_struct/resolve_enum and friends, see
// lookup.go) that both the template renderer and the filter engine use
// to turn a type reference into a concrete definition.
package ir

// PrimitiveKind enumerates the primitive scalar kinds a field may use.
type PrimitiveKind string

const (
	U8     PrimitiveKind = "u8"
	U16    PrimitiveKind = "u16"
	U32    PrimitiveKind = "u32"
	U64    PrimitiveKind = "u64"
	I8     PrimitiveKind = "i8"
	I16    PrimitiveKind = "i16"
	I32    PrimitiveKind = "i32"
	I64    PrimitiveKind = "i64"
	F32    PrimitiveKind = "f32"
	F64    PrimitiveKind = "f64"
	Bool   PrimitiveKind = "bool"
	String PrimitiveKind = "string"
	Bytes  PrimitiveKind = "bytes"
)

// IsIntegerOrString reports whether a primitive kind may legally be used
// as a Map key: integers and strings only.
func (p PrimitiveKind) IsIntegerOrString() bool {
	switch p {
	case U8, U16, U32, U64, I8, I16, I32, I64, String:
		return true
	default:
		return false
	}
}

// TypeRef is a type expression: a tagged sum over Primitive,
// UserDefined, Optional, List and Map rather than an inheritance
// hierarchy, so resolution stays an exhaustive case analysis. It is a
// closed, sealed interface: every concrete variant lives in this file.
type TypeRef interface {
	typeRef()
}

// PrimitiveType is TypeRef variant Primitive.
type PrimitiveType struct {
	Kind PrimitiveKind
}

func (PrimitiveType) typeRef() {}

// UserDefinedType is TypeRef variant UserDefined: a dotted path as
// written in the schema (e.g. ["common", "Position"] or ["Position"]).
// Resolution to a concrete *Struct or *Enum happens during the IR link
// phase (see build.go) and is cached on resolved; it is nil until then.
type UserDefinedType struct {
	Path     []string
	resolved *resolvedTarget
}

func (*UserDefinedType) typeRef() {}

type resolvedTarget struct {
	Struct *Struct
	Enum   *Enum
}

// Resolved returns the struct/enum this reference was linked to. Both
// are nil before the link phase has run; exactly one is non-nil
// afterwards.
func (u *UserDefinedType) Resolved() (*Struct, *Enum) {
	if u.resolved == nil {
		return nil, nil
	}
	return u.resolved.Struct, u.resolved.Enum
}

// OptionalType is TypeRef variant Optional.
type OptionalType struct {
	Inner TypeRef
}

func (OptionalType) typeRef() {}

// ListType is TypeRef variant List.
type ListType struct {
	Elem TypeRef
}

func (ListType) typeRef() {}

// MapType is TypeRef variant Map.
type MapType struct {
	Key   TypeRef
	Value TypeRef
}

func (MapType) typeRef() {}

// IsPrimitive reports whether t is a Primitive reference.
func IsPrimitive(t TypeRef) bool {
	_, ok := t.(PrimitiveType)
	return ok
}

// IsUserDefined reports whether t is a UserDefined reference.
func IsUserDefined(t TypeRef) bool {
	_, ok := t.(*UserDefinedType)
	return ok
}

// UnwrapOption strips one Optional layer. Returns t unchanged if t is
// not Optional.
func UnwrapOption(t TypeRef) TypeRef {
	if o, ok := t.(OptionalType); ok {
		return o.Inner
	}
	return t
}

// UnwrapList strips one List layer. Returns t unchanged if t is not
// List.
func UnwrapList(t TypeRef) TypeRef {
	if l, ok := t.(ListType); ok {
		return l.Elem
	}
	return t
}

// IsEmbeddedStruct reports whether t refers to a struct carrying the
// `embedded` attribute. Non-UserDefined references, and UserDefined
// references to an Enum, are never embedded.
func IsEmbeddedStruct(t TypeRef) bool {
	u, ok := t.(*UserDefinedType)
	if !ok {
		return false
	}
	s, _ := u.Resolved()
	if s == nil {
		return false
	}
	return s.IsEmbedded()
}
