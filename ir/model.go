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

import "strings"

// ID is a stable, arena-local identifier assigned to every Namespace,
// Struct and Enum at construction time. References between IR nodes
// that could otherwise form cycles (namespace parent/child, struct
// owner) are expressed as plain Go pointers here; the graph is never
// mutated after link, which is what removes the ownership-cycle
// hazard. IDs are retained for diagnostics and stable iteration, not
// as the storage mechanism.
type ID int32

// LiteralKind is the scalar kind of a parsed default-value literal.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
)

// Literal is a field's optional default value, as written in the
// schema.
type Literal struct {
	Kind LiteralKind
	Int  int64
	Flt  float64
	Bool bool
	Str  string
}

// Import is a reference from one File to another.
type Import struct {
	TargetPath string // dotted logical path of the imported file
	Alias      string // "" when no alias was given

	// Resolved is populated during link; nil beforehand.
	Resolved *File
}

// LocalName is the identifier this import exposes as the first segment
// of a dotted reference: the alias if given, otherwise the last
// segment of TargetPath.
func (im *Import) LocalName() string {
	if im.Alias != "" {
		return im.Alias
	}
	parts := strings.Split(im.TargetPath, ".")
	return parts[len(parts)-1]
}

// File is one parsed schema unit.
type File struct {
	ID   ID
	Path string // dotted logical path, e.g. "game.common"
	Doc  string

	Imports []*Import

	// Root-level namespaces, structs and enums declared directly in
	// this file (outside of any namespace block), in source order.
	Namespaces     map[string]*Namespace
	NamespaceOrder []string
	Structs        map[string]*Struct
	StructOrder    []string
	Enums          map[string]*Enum
	EnumOrder      []string

	localNames map[string]bool // namespace/struct/enum names declared directly in this file
}

func newFile(path string) *File {
	return &File{
		Path:       path,
		Namespaces: map[string]*Namespace{},
		Structs:    map[string]*Struct{},
		Enums:      map[string]*Enum{},
		localNames: map[string]bool{},
	}
}

// Namespace is a named lexical scope containing structs, enums and
// nested namespaces.
type Namespace struct {
	ID     ID
	Name   string
	File   *File // file in which this namespace tree is rooted
	Parent *Namespace

	Children    map[string]*Namespace
	ChildOrder  []string
	Structs     map[string]*Struct
	StructOrder []string
	Enums       map[string]*Enum
	EnumOrder   []string

	localNames map[string]bool // namespace/struct/enum names declared directly in this namespace
}

func newNamespace(name string, file *File, parent *Namespace) *Namespace {
	return &Namespace{
		Name:       name,
		File:       file,
		Parent:     parent,
		Children:   map[string]*Namespace{},
		Structs:    map[string]*Struct{},
		Enums:      map[string]*Enum{},
		localNames: map[string]bool{},
	}
}

// QualifiedName returns the dotted fully-qualified name of the
// namespace, e.g. "game.character" (GLOSSARY: "IR path").
func (n *Namespace) QualifiedName() string {
	if n == nil {
		return ""
	}
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.QualifiedName() + "." + n.Name
}

// Struct is a struct definition.
type Struct struct {
	ID         ID
	Name       string
	Namespace  *Namespace // nil = file-level
	File       *File
	Doc        string
	Attributes map[string]string

	Fields []*Field

	InlineEnums     map[string]*Enum
	InlineEnumOrder []string
}

func newStruct(name string, file *File, ns *Namespace) *Struct {
	return &Struct{
		Name:        name,
		File:        file,
		Namespace:   ns,
		Attributes:  map[string]string{},
		InlineEnums: map[string]*Enum{},
	}
}

// IsEmbedded reports whether the `embedded` attribute is set truthy on
// this struct (GLOSSARY: "Embedded struct").
func (s *Struct) IsEmbedded() bool {
	v, ok := s.Attributes["embedded"]
	return ok && v != "" && v != "false"
}

// QualifiedName returns the struct's dotted fully-qualified IR path,
// e.g. "game.character.Player" or, for a file-level struct,
// "game.Player".
func (s *Struct) QualifiedName() string {
	if s.Namespace != nil {
		return s.Namespace.QualifiedName() + "." + s.Name
	}
	return s.File.Path + "." + s.Name
}

// Variant is one (name, tag) pair of an Enum.
type Variant struct {
	Name string
	Tag  int64
}

// EnumWidth is the underlying integer width of an Enum.
type EnumWidth int

const (
	Width8  EnumWidth = 8
	Width16 EnumWidth = 16
	Width32 EnumWidth = 32 // default
	Width64 EnumWidth = 64
)

// Enum is an enum definition. At most one of Namespace or OwningStruct
// is non-nil: an inline enum has OwningStruct set, an enum declared in
// a namespace has Namespace set, and an enum declared at file level has
// neither.
type Enum struct {
	ID           ID
	Name         string
	Namespace    *Namespace
	OwningStruct *Struct
	Doc          string
	Width        EnumWidth
	Variants     []Variant
}

func newEnum(name string) *Enum {
	return &Enum{Name: name, Width: Width32}
}

// QualifiedName returns the enum's dotted fully-qualified IR path. For
// an inline enum this is scoped under the owning struct's name, e.g.
// "game.Order.Status". An enum declared at file level returns its bare
// Name; the file's path is not included.
func (e *Enum) QualifiedName() string {
	switch {
	case e.OwningStruct != nil:
		return e.OwningStruct.QualifiedName() + "." + e.Name
	case e.Namespace != nil:
		return e.Namespace.QualifiedName() + "." + e.Name
	default:
		return e.Name
	}
}

// Field is one field of a Struct. Ordinal position is significant: it
// determines binary layout and CSV column order.
type Field struct {
	Name    string
	Type    TypeRef
	Default *Literal
	Doc     string
	Ordinal int
}

// IR is the complete, linked intermediate representation of every
// schema file passed to Build. After Build returns successfully the
// graph is treated as immutable; the renderer and lookup primitives
// only ever read it.
type IR struct {
	Files     map[string]*File // keyed by File.Path
	FileOrder []string

	nextID ID
}

func (ir *IR) allocID() ID {
	ir.nextID++
	return ir.nextID
}
