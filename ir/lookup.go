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

	"github.com/derekparker/trie"
	"golang.org/x/exp/slices"
)

// Scope is the lexical context a dotted type reference is resolved
// against: the file and namespace the reference was written in, plus
// (for a field declared directly inside a struct) the owning struct,
// so a bare inline-enum name resolves against its own struct first.
type Scope struct {
	File      *File
	Namespace *Namespace // nil when the reference sits at file scope
	Struct    *Struct    // owning struct, if any
}

// container is the uniform view over "a thing that can hold namespaces,
// structs and enums by local name" shared by File and Namespace, so path
// resolution doesn't need to special-case the file root.
type container struct {
	namespaces map[string]*Namespace
	structs    map[string]*Struct
	enums      map[string]*Enum
}

func fileContainer(f *File) container {
	return container{namespaces: f.Namespaces, structs: f.Structs, enums: f.Enums}
}

func namespaceContainer(n *Namespace) container {
	return container{namespaces: n.Children, structs: n.Structs, enums: n.Enums}
}

// resolveInContainer resolves path against c without crossing an
// import boundary. A single-segment path names a struct or enum
// directly; a multi-segment path either descends into a child
// namespace or, for a two-segment path, names an inline enum scoped
// under a struct (e.g. "Order.Status").
func resolveInContainer(c container, path []string) (*Struct, *Enum) {
	if len(path) == 0 {
		return nil, nil
	}
	if len(path) == 1 {
		if s, ok := c.structs[path[0]]; ok {
			return s, nil
		}
		if e, ok := c.enums[path[0]]; ok {
			return nil, e
		}
		return nil, nil
	}
	if ns, ok := c.namespaces[path[0]]; ok {
		return resolveInContainer(namespaceContainer(ns), path[1:])
	}
	if len(path) == 2 {
		if s, ok := c.structs[path[0]]; ok {
			if e, ok := s.InlineEnums[path[1]]; ok {
				return nil, e
			}
		}
	}
	return nil, nil
}

// resolve is the shared implementation behind ResolveStruct and
// ResolveEnum: it walks the scope chain in precedence order — current
// namespace, then ancestor namespaces nearest-first, then imports in
// source order — stopping at the first level that yields a match. A level is only ambiguous against itself:
// since local names are already unique within one namespace (enforced
// at build time), the one case that needs an explicit ambiguity check
// is multiple imports exposing the same local name.
func resolve(scope Scope, path []string) (*Struct, *Enum, error) {
	if len(path) == 0 {
		return nil, nil, fmt.Errorf("empty type reference")
	}

	var searched []string

	if scope.Struct != nil && len(path) == 1 {
		if e, ok := scope.Struct.InlineEnums[path[0]]; ok {
			return nil, e, nil
		}
		searched = append(searched, "struct:"+scope.Struct.Name)
	}

	for ns := scope.Namespace; ns != nil; ns = ns.Parent {
		if s, e := resolveInContainer(namespaceContainer(ns), path); s != nil || e != nil {
			return s, e, nil
		}
		searched = append(searched, "namespace:"+ns.QualifiedName())
	}

	if s, e := resolveInContainer(fileContainer(scope.File), path); s != nil || e != nil {
		return s, e, nil
	}
	searched = append(searched, "file:"+scope.File.Path)

	var matchedImports []string
	var foundStruct *Struct
	var foundEnum *Enum
	for _, im := range scope.File.Imports {
		if im.Resolved == nil || im.LocalName() != path[0] {
			continue
		}
		s, e := resolveInContainer(fileContainer(im.Resolved), path[1:])
		if s == nil && e == nil {
			// A file commonly wraps its declarations in a namespace
			// repeating the file's own name (file "common" holding
			// namespace common { ... }); the import's local name
			// addresses that namespace's members directly.
			if ns, ok := im.Resolved.Namespaces[lastSegment(im.TargetPath)]; ok {
				s, e = resolveInContainer(namespaceContainer(ns), path[1:])
			}
		}
		if s == nil && e == nil {
			continue
		}
		matchedImports = append(matchedImports, im.TargetPath)
		foundStruct, foundEnum = s, e
	}
	if len(matchedImports) > 1 {
		return nil, nil, &SemanticError{
			Message:  fmt.Sprintf("%q is ambiguous: reachable through imports %s", strings.Join(path, "."), strings.Join(matchedImports, ", ")),
			Name:     strings.Join(path, "."),
			Searched: searched,
		}
	}
	if len(matchedImports) == 1 {
		return foundStruct, foundEnum, nil
	}
	searched = append(searched, "imports")

	return nil, nil, &SemanticError{
		Message:  fmt.Sprintf("unresolved type reference %q", strings.Join(path, ".")),
		Name:     strings.Join(path, "."),
		Searched: searched,
	}
}

func lastSegment(dotted string) string {
	parts := strings.Split(dotted, ".")
	return parts[len(parts)-1]
}

// ResolveStruct resolves a dotted type path to a Struct from the given
// scope, per the precedence rules documented on resolve.
func ResolveStruct(scope Scope, path []string) (*Struct, error) {
	s, e, err := resolve(scope, path)
	if err != nil {
		return nil, err
	}
	if e != nil {
		return nil, fmt.Errorf("%q names an enum, not a struct", strings.Join(path, "."))
	}
	return s, nil
}

// ResolveEnum resolves a dotted type path to an Enum from the given
// scope, per the precedence rules documented on resolve.
func ResolveEnum(scope Scope, path []string) (*Enum, error) {
	s, e, err := resolve(scope, path)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return nil, fmt.Errorf("%q names a struct, not an enum", strings.Join(path, "."))
	}
	return e, nil
}

// NameIndex is a prefix index over every struct's and enum's fully
// qualified name, backed by a trie so that tools built on top of the
// IR (an autocomplete panel, an ambiguity report) can do prefix
// lookups without walking the namespace tree themselves.
type NameIndex struct {
	t *trie.Trie
}

// BuildNameIndex indexes every Struct and Enum QualifiedName in ir.
func BuildNameIndex(ir *IR) *NameIndex {
	t := trie.New()
	for _, path := range ir.FileOrder {
		f := ir.Files[path]
		indexFile(t, f)
	}
	return &NameIndex{t: t}
}

func indexFile(t *trie.Trie, f *File) {
	for _, name := range f.StructOrder {
		indexStruct(t, f.Structs[name])
	}
	for _, name := range f.EnumOrder {
		e := f.Enums[name]
		t.Add(e.QualifiedName(), e)
	}
	for _, name := range f.NamespaceOrder {
		indexNamespace(t, f.Namespaces[name])
	}
}

func indexNamespace(t *trie.Trie, n *Namespace) {
	for _, name := range n.StructOrder {
		indexStruct(t, n.Structs[name])
	}
	for _, name := range n.EnumOrder {
		e := n.Enums[name]
		t.Add(e.QualifiedName(), e)
	}
	for _, name := range n.ChildOrder {
		indexNamespace(t, n.Children[name])
	}
}

func indexStruct(t *trie.Trie, s *Struct) {
	t.Add(s.QualifiedName(), s)
	for _, ename := range s.InlineEnumOrder {
		e := s.InlineEnums[ename]
		t.Add(e.QualifiedName(), e)
	}
}

// PrefixSearch returns every fully qualified name in the index that
// starts with prefix, sorted for a stable result regardless of the
// trie's own internal traversal order (an autocomplete panel wants
// alphabetical suggestions, not insertion order).
func (idx *NameIndex) PrefixSearch(prefix string) []string {
	names := idx.t.PrefixSearch(prefix)
	slices.Sort(names)
	return names
}
