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

package tmpl

import (
	"strings"

	"github.com/ittodo/polygen/ir"
)

// BindFile projects an *ir.File into the generic Binding tree
// templates walk. Every list here is built from the IR's *Order
// slices, never Go map iteration, so iteration in templates follows
// source declaration order.
func BindFile(f *ir.File) *Binding {
	b := Object()
	b.IRNode = f
	b.QName = f.Path
	b.Set("path", Str(f.Path))
	b.Set("doc", Str(f.Doc))
	b.Set("imports", bindImports(f.Imports))
	b.Set("namespaces", bindNamespaceList(f.NamespaceOrder, f.Namespaces))
	b.Set("structs", bindStructList(f.StructOrder, f.Structs))
	b.Set("enums", bindEnumList(f.EnumOrder, f.Enums))
	return b
}

func bindImports(imports []*ir.Import) *Binding {
	items := make([]*Binding, 0, len(imports))
	for _, im := range imports {
		o := Object()
		o.Set("target", Str(im.TargetPath))
		o.Set("alias", Str(im.Alias))
		o.Set("local_name", Str(im.LocalName()))
		items = append(items, o)
	}
	return List(items...)
}

func bindNamespaceList(order []string, m map[string]*ir.Namespace) *Binding {
	items := make([]*Binding, 0, len(order))
	for _, name := range order {
		items = append(items, BindNamespace(m[name]))
	}
	return List(items...)
}

// BindNamespace projects an *ir.Namespace, recursing into child
// namespaces, structs and enums.
func BindNamespace(n *ir.Namespace) *Binding {
	b := Object()
	b.IRNode = n
	b.QName = n.QualifiedName()
	b.Set("name", Str(n.Name))
	b.Set("qualified_name", Str(n.QualifiedName()))
	b.Set("namespaces", bindNamespaceList(n.ChildOrder, n.Children))
	b.Set("structs", bindStructList(n.StructOrder, n.Structs))
	b.Set("enums", bindEnumList(n.EnumOrder, n.Enums))
	return b
}

func bindStructList(order []string, m map[string]*ir.Struct) *Binding {
	items := make([]*Binding, 0, len(order))
	for _, name := range order {
		items = append(items, BindStruct(m[name]))
	}
	return List(items...)
}

// BindStruct projects an *ir.Struct in full, including its fields and
// inline enums, for use as a render root (one output file per struct
// is the common target-language codegen shape).
func BindStruct(s *ir.Struct) *Binding {
	b := Object()
	b.IRNode = s
	b.QName = s.QualifiedName()
	b.Set("name", Str(s.Name))
	b.Set("qualified_name", Str(s.QualifiedName()))
	b.Set("doc", Str(s.Doc))
	b.Set("is_embedded", Bool(s.IsEmbedded()))

	fields := make([]*Binding, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, BindField(s, f))
	}
	b.Set("fields", List(fields...))
	b.Set("enums", bindEnumList(s.InlineEnumOrder, s.InlineEnums))
	return b
}

// bindStructRef is the shallow projection used wherever a TypeRef
// merely *points at* a struct (UserDefinedType), as opposed to a render
// root expanding that struct's own body: recursing into the full
// BindStruct here would walk back into the referencing field's own
// type and loop forever the moment two structs reference each other
// (a legal shape: only Optional-of-Optional and import cycles are
// rejected at link time).
func bindStructRef(s *ir.Struct) *Binding {
	b := Object()
	b.IRNode = s
	b.QName = s.QualifiedName()
	b.Set("name", Str(s.Name))
	b.Set("qualified_name", Str(s.QualifiedName()))
	b.Set("is_embedded", Bool(s.IsEmbedded()))
	return b
}

func bindEnumRef(e *ir.Enum) *Binding {
	b := Object()
	b.IRNode = e
	b.QName = e.QualifiedName()
	b.Set("name", Str(e.Name))
	b.Set("qualified_name", Str(e.QualifiedName()))
	return b
}

// BindField projects one *ir.Field of owner.
func BindField(owner *ir.Struct, f *ir.Field) *Binding {
	b := Object()
	b.IRNode = f
	b.QName = owner.QualifiedName() + "." + f.Name
	b.Set("name", Str(f.Name))
	b.Set("doc", Str(f.Doc))
	b.Set("ordinal", Int(int64(f.Ordinal)))
	b.Set("type", BindTypeRef(f.Type))
	if f.Default != nil {
		b.Set("default", bindLiteral(f.Default))
	} else {
		b.Set("default", Null())
	}
	return b
}

func bindLiteral(l *ir.Literal) *Binding {
	switch l.Kind {
	case ir.LiteralInt:
		return Int(l.Int)
	case ir.LiteralFloat:
		return Float(l.Flt)
	case ir.LiteralBool:
		return Bool(l.Bool)
	case ir.LiteralString:
		return Str(l.Str)
	default:
		return Null()
	}
}

func bindEnumList(order []string, m map[string]*ir.Enum) *Binding {
	items := make([]*Binding, 0, len(order))
	for _, name := range order {
		items = append(items, BindEnum(m[name]))
	}
	return List(items...)
}

// BindEnum projects an *ir.Enum in full, including its ordered
// variants.
func BindEnum(e *ir.Enum) *Binding {
	b := Object()
	b.IRNode = e
	b.QName = e.QualifiedName()
	b.Set("name", Str(e.Name))
	b.Set("qualified_name", Str(e.QualifiedName()))
	b.Set("doc", Str(e.Doc))
	b.Set("width", Int(int64(e.Width)))

	variants := make([]*Binding, 0, len(e.Variants))
	for _, v := range e.Variants {
		vb := Object()
		vb.IRNode = v
		vb.Set("name", Str(v.Name))
		vb.Set("tag", Int(v.Tag))
		variants = append(variants, vb)
	}
	b.Set("variants", List(variants...))
	return b
}

// BindTypeRef projects a TypeRef into the shape the context-dependent
// filters (lang_type, format, binary_read*, csv_read, is_embedded)
// dispatch on — see renderer.go's applyContextFilter, which reads
// Binding.IRNode back as the original ir.TypeRef rather than walking
// this generic form.
func BindTypeRef(t ir.TypeRef) *Binding {
	b := Object()
	b.IRNode = t
	switch v := t.(type) {
	case ir.PrimitiveType:
		b.Set("kind", Str("primitive"))
		b.Set("primitive", Str(string(v.Kind)))
	case *ir.UserDefinedType:
		b.Set("kind", Str("user_defined"))
		b.Set("path", Str(strings.Join(v.Path, ".")))
		s, e := v.Resolved()
		if s != nil {
			b.Set("struct", bindStructRef(s))
		} else {
			b.Set("struct", Null())
		}
		if e != nil {
			b.Set("enum", bindEnumRef(e))
		} else {
			b.Set("enum", Null())
		}
	case ir.OptionalType:
		b.Set("kind", Str("optional"))
		b.Set("inner", BindTypeRef(v.Inner))
	case ir.ListType:
		b.Set("kind", Str("list"))
		b.Set("elem", BindTypeRef(v.Elem))
	case ir.MapType:
		b.Set("kind", Str("map"))
		b.Set("key", BindTypeRef(v.Key))
		b.Set("value", BindTypeRef(v.Value))
	}
	return b
}
