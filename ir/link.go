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

import "fmt"

// linkImports is Build's second pass: every Import.TargetPath is
// resolved against the already-built File set, then the resulting
// import graph is checked for cycles.
func (b *builder) linkImports() {
	for _, path := range b.ir.FileOrder {
		f := b.ir.Files[path]
		for _, im := range f.Imports {
			target, ok := b.ir.Files[im.TargetPath]
			if !ok {
				b.errs = b.errs.Append(&SemanticError{
					File:    f.Path,
					Message: fmt.Sprintf("import of unknown file %q", im.TargetPath),
					Name:    im.TargetPath,
				})
				continue
			}
			im.Resolved = target
		}
	}
	if err := b.errs.ErrOrNil(); err != nil {
		return
	}
	b.detectImportCycles()
}

// detectImportCycles runs a DFS over the file-import graph, reporting
// the first cycle found starting from each unvisited file.
func (b *builder) detectImportCycles() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var stack []string

	var visit func(path string) bool
	visit = func(path string) bool {
		switch state[path] {
		case done:
			return false
		case visiting:
			stack = append(stack, path)
			b.errs = b.errs.Append(&SemanticError{
				File:    path,
				Message: fmt.Sprintf("cyclic import: %s", cycleString(stack)),
				Name:    path,
			})
			return true
		}
		state[path] = visiting
		stack = append(stack, path)
		f := b.ir.Files[path]
		for _, im := range f.Imports {
			if im.Resolved == nil {
				continue
			}
			if visit(im.Resolved.Path) {
				stack = stack[:len(stack)-1]
				state[path] = done
				return false
			}
		}
		stack = stack[:len(stack)-1]
		state[path] = done
		return false
	}

	for _, path := range b.ir.FileOrder {
		if state[path] == unvisited {
			visit(path)
		}
	}
}

func cycleString(stack []string) string {
	out := ""
	for i, s := range stack {
		if i > 0 {
			out += " -> "
		}
		out += s
	}
	return out
}

// resolveTypeRefs is Build's third pass: every field's TypeRef is
// walked (through any Optional/List/Map wrapping) and each
// UserDefinedType leaf is resolved against its declaration scope.
func (b *builder) resolveTypeRefs() {
	for _, path := range b.ir.FileOrder {
		f := b.ir.Files[path]
		b.resolveFileRefs(f)
	}
}

func (b *builder) resolveFileRefs(f *File) {
	for _, name := range f.StructOrder {
		b.resolveStructRefs(f.Structs[name], Scope{File: f, Namespace: nil})
	}
	for _, name := range f.NamespaceOrder {
		b.resolveNamespaceRefs(f.Namespaces[name])
	}
}

func (b *builder) resolveNamespaceRefs(ns *Namespace) {
	for _, name := range ns.StructOrder {
		b.resolveStructRefs(ns.Structs[name], Scope{File: ns.File, Namespace: ns})
	}
	for _, name := range ns.ChildOrder {
		b.resolveNamespaceRefs(ns.Children[name])
	}
}

func (b *builder) resolveStructRefs(s *Struct, scope Scope) {
	scope.Struct = s
	for _, field := range s.Fields {
		for _, u := range collectUserDefined(field.Type) {
			target, err := resolveUserDefinedTarget(scope, u.Path)
			if err != nil {
				b.errs = b.errs.Append(err)
				continue
			}
			u.resolved = target
		}
	}
}

func resolveUserDefinedTarget(scope Scope, path []string) (*resolvedTarget, error) {
	s, e, err := resolve(scope, path)
	if err != nil {
		return nil, err
	}
	return &resolvedTarget{Struct: s, Enum: e}, nil
}

// collectUserDefined returns every UserDefinedType leaf reachable from
// t through Optional/List/Map wrapping, in encounter order.
func collectUserDefined(t TypeRef) []*UserDefinedType {
	var out []*UserDefinedType
	var walk func(TypeRef)
	walk = func(t TypeRef) {
		switch v := t.(type) {
		case *UserDefinedType:
			out = append(out, v)
		case OptionalType:
			walk(v.Inner)
		case ListType:
			walk(v.Elem)
		case MapType:
			walk(v.Key)
			walk(v.Value)
		}
	}
	walk(t)
	return out
}
