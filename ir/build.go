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

package ir

import (
	"fmt"
	"strings"

	"github.com/ittodo/polygen/internal/errlist"
	"github.com/ittodo/polygen/schema/ast"
)

// Build links a set of parsed schema files into one immutable IR
// graph. It runs in three passes: (1) construct the File/Namespace/Struct/Enum
// tree and reject locally-detectable problems (duplicate names,
// duplicate enum tags, optional-of-optional); (2) resolve imports and
// detect import cycles; (3) resolve every UserDefined type reference.
// Each pass aborts (returning every error found in that pass) before
// the next begins, since later passes assume the graph from earlier
// ones is well-formed.
func Build(files []*ast.File) (*IR, error) {
	b := &builder{ir: &IR{Files: map[string]*File{}}}

	for _, af := range files {
		b.buildFile(af)
	}
	if err := b.errs.ErrOrNil(); err != nil {
		return nil, err
	}

	b.linkImports()
	if err := b.errs.ErrOrNil(); err != nil {
		return nil, err
	}

	b.resolveTypeRefs()
	if err := b.errs.ErrOrNil(); err != nil {
		return nil, err
	}

	return b.ir, nil
}

type builder struct {
	ir   *IR
	errs errlist.List
}

func (b *builder) buildFile(af *ast.File) {
	f := newFile(af.Path)
	f.ID = b.ir.allocID()
	f.Doc = af.Doc

	for _, aim := range af.Imports {
		f.Imports = append(f.Imports, &Import{
			TargetPath: strings.Join(aim.Path, "."),
			Alias:      aim.Alias,
		})
	}

	for _, item := range af.Items {
		b.buildItem(item, f, nil)
	}

	if _, dup := b.ir.Files[f.Path]; dup {
		b.errs = b.errs.Append(&SemanticError{
			File: af.Path, Message: fmt.Sprintf("duplicate file path %q", f.Path), Name: f.Path,
		})
		return
	}
	b.ir.Files[f.Path] = f
	b.ir.FileOrder = append(b.ir.FileOrder, f.Path)
}

// buildItem builds one namespace, struct or enum item into the scope
// identified by (f, ns): ns == nil means file-level.
func (b *builder) buildItem(item ast.Item, f *File, ns *Namespace) {
	switch it := item.(type) {
	case *ast.Namespace:
		b.buildNamespace(it, f, ns)
	case *ast.Struct:
		b.buildStruct(it, f, ns)
	case *ast.Enum:
		b.buildEnum(it, f, ns, nil)
	}
}

func (b *builder) buildNamespace(an *ast.Namespace, f *File, parent *Namespace) {
	names, children, childOrder := scopeContainers(f, parent)

	if names[an.Name] {
		if _, isNS := children[an.Name]; !isNS {
			b.errs = b.errs.Append(&SemanticError{
				File: an.Pos.Filename, Line: an.Pos.Line, Column: an.Pos.Column,
				Message: fmt.Sprintf("%q already declared as a struct or enum in this scope", an.Name),
				Name:    an.Name,
			})
			return
		}
	} else {
		names[an.Name] = true
		*childOrder = append(*childOrder, an.Name)
	}

	ns, ok := children[an.Name]
	if !ok {
		ns = newNamespace(an.Name, f, parent)
		ns.ID = b.ir.allocID()
		children[an.Name] = ns
	}
	if ns.Name == "" {
		ns.Name = an.Name
	}
	for _, item := range an.Items {
		b.buildItem(item, f, ns)
	}
}

// scopeContainers returns the name-collision set plus the namespace
// child map/order slice for the scope identified by (f, ns): ns == nil
// means file-level.
func scopeContainers(f *File, ns *Namespace) (names map[string]bool, children map[string]*Namespace, childOrder *[]string) {
	if ns == nil {
		return f.localNames, f.Namespaces, &f.NamespaceOrder
	}
	return ns.localNames, ns.Children, &ns.ChildOrder
}

func (b *builder) buildStruct(as *ast.Struct, f *File, ns *Namespace) {
	names, structs, structOrder := structContainers(f, ns)
	if names[as.Name] {
		b.errs = b.errs.Append(&SemanticError{
			File: as.Pos.Filename, Line: as.Pos.Line, Column: as.Pos.Column,
			Message: fmt.Sprintf("duplicate definition of %q in this scope", as.Name),
			Name:    as.Name,
		})
		return
	}
	names[as.Name] = true
	*structOrder = append(*structOrder, as.Name)

	s := newStruct(as.Name, f, ns)
	s.ID = b.ir.allocID()
	s.Doc = as.Doc
	for k, v := range as.Attributes {
		s.Attributes[k] = v
	}
	structs[as.Name] = s

	fieldNames := map[string]bool{}
	for i, af := range as.Fields {
		if fieldNames[af.Name] {
			b.errs = b.errs.Append(&SemanticError{
				File: af.Pos.Filename, Line: af.Pos.Line, Column: af.Pos.Column,
				Message: fmt.Sprintf("duplicate field %q in struct %q", af.Name, as.Name),
				Name:    af.Name,
			})
			continue
		}
		fieldNames[af.Name] = true

		typ, err := b.buildTypeExpr(af.Type, af.Pos)
		if err != nil {
			b.errs = b.errs.Append(err)
			continue
		}
		s.Fields = append(s.Fields, &Field{
			Name:    af.Name,
			Type:    typ,
			Default: buildLiteral(af.Default),
			Doc:     af.Doc,
			Ordinal: i,
		})
	}

	for _, ae := range as.Enums {
		b.buildEnum(ae, f, nil, s)
	}
}

func structContainers(f *File, ns *Namespace) (names map[string]bool, structs map[string]*Struct, structOrder *[]string) {
	if ns == nil {
		return f.localNames, f.Structs, &f.StructOrder
	}
	return ns.localNames, ns.Structs, &ns.StructOrder
}

func (b *builder) buildEnum(ae *ast.Enum, f *File, ns *Namespace, owner *Struct) {
	if owner != nil {
		if _, exists := owner.InlineEnums[ae.Name]; exists {
			b.errs = b.errs.Append(&SemanticError{
				File: ae.Pos.Filename, Line: ae.Pos.Line, Column: ae.Pos.Column,
				Message: fmt.Sprintf("duplicate inline enum %q in struct %q", ae.Name, owner.Name),
				Name:    ae.Name,
			})
			return
		}
	} else {
		names, _, _ := structContainers(f, ns) // reuses the same name-collision set as structs
		if names[ae.Name] {
			b.errs = b.errs.Append(&SemanticError{
				File: ae.Pos.Filename, Line: ae.Pos.Line, Column: ae.Pos.Column,
				Message: fmt.Sprintf("duplicate definition of %q in this scope", ae.Name),
				Name:    ae.Name,
			})
			return
		}
	}

	e := newEnum(ae.Name)
	e.ID = b.ir.allocID()
	e.Doc = ae.Doc
	e.Namespace = ns
	e.OwningStruct = owner
	if ae.Width != 0 {
		e.Width = EnumWidth(ae.Width)
	}

	variantNames := map[string]bool{}
	tags := map[int64]string{}
	for _, v := range ae.Variants {
		if variantNames[v.Name] {
			b.errs = b.errs.Append(&SemanticError{
				File: v.Pos.Filename, Line: v.Pos.Line, Column: v.Pos.Column,
				Message: fmt.Sprintf("duplicate variant name %q in enum %q", v.Name, ae.Name),
				Name:    v.Name,
			})
			continue
		}
		variantNames[v.Name] = true
		if other, dup := tags[v.Tag]; dup {
			b.errs = b.errs.Append(&SemanticError{
				File: v.Pos.Filename, Line: v.Pos.Line, Column: v.Pos.Column,
				Message: fmt.Sprintf("enum %q: tag %d reused by variants %q and %q", ae.Name, v.Tag, other, v.Name),
				Name:    v.Name,
			})
			continue
		}
		tags[v.Tag] = v.Name
		e.Variants = append(e.Variants, Variant{Name: v.Name, Tag: v.Tag})
	}

	if owner != nil {
		owner.InlineEnums[ae.Name] = e
		owner.InlineEnumOrder = append(owner.InlineEnumOrder, ae.Name)
		return
	}

	names, enums, enumOrder := enumContainers(f, ns)
	names[ae.Name] = true
	*enumOrder = append(*enumOrder, ae.Name)
	enums[ae.Name] = e
}

func enumContainers(f *File, ns *Namespace) (names map[string]bool, enums map[string]*Enum, enumOrder *[]string) {
	if ns == nil {
		return f.localNames, f.Enums, &f.EnumOrder
	}
	return ns.localNames, ns.Enums, &ns.EnumOrder
}

// buildTypeExpr converts an ast.TypeExpr into an ir.TypeRef, rejecting
// Optional-of-Optional immediately.
func (b *builder) buildTypeExpr(t ast.TypeExpr, pos ast.Pos) (TypeRef, error) {
	return b.buildTypeExprNested(t, pos, false)
}

func (b *builder) buildTypeExprNested(t ast.TypeExpr, pos ast.Pos, insideOptional bool) (TypeRef, error) {
	switch v := t.(type) {
	case ast.PrimitiveTypeExpr:
		return PrimitiveType{Kind: PrimitiveKind(v.Kind)}, nil
	case ast.NamedTypeExpr:
		return &UserDefinedType{Path: v.Path}, nil
	case ast.OptionalTypeExpr:
		if insideOptional {
			return nil, &SemanticError{
				File: pos.Filename, Line: pos.Line, Column: pos.Column,
				Message: "optional cannot wrap optional",
			}
		}
		inner, err := b.buildTypeExprNested(v.Inner, pos, true)
		if err != nil {
			return nil, err
		}
		if _, nested := inner.(OptionalType); nested {
			return nil, &SemanticError{
				File: pos.Filename, Line: pos.Line, Column: pos.Column,
				Message: "optional cannot wrap optional",
			}
		}
		return OptionalType{Inner: inner}, nil
	case ast.ListTypeExpr:
		elem, err := b.buildTypeExprNested(v.Elem, pos, insideOptional)
		if err != nil {
			return nil, err
		}
		return ListType{Elem: elem}, nil
	case ast.MapTypeExpr:
		key, err := b.buildTypeExprNested(v.Key, pos, insideOptional)
		if err != nil {
			return nil, err
		}
		val, err := b.buildTypeExprNested(v.Value, pos, insideOptional)
		if err != nil {
			return nil, err
		}
		if p, ok := key.(PrimitiveType); !ok || !p.Kind.IsIntegerOrString() {
			return nil, &SemanticError{
				File: pos.Filename, Line: pos.Line, Column: pos.Column,
				Message: "map key must be a primitive integer or string type",
			}
		}
		return MapType{Key: key, Value: val}, nil
	default:
		return nil, &SemanticError{File: pos.Filename, Line: pos.Line, Column: pos.Column, Message: "unrecognized type expression"}
	}
}

func buildLiteral(l *ast.Literal) *Literal {
	if l == nil {
		return nil
	}
	return &Literal{
		Kind: LiteralKind(l.Kind),
		Int:  l.Int,
		Flt:  l.Flt,
		Bool: l.Bool,
		Str:  l.Str,
	}
}
