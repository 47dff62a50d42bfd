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
	"fmt"
	"strings"

	"github.com/ittodo/polygen/filter"
)

// Scope is one level of the render-time name-resolution chain: the
// current "dot" (the binding a bare field name resolves against) plus
// any loop variables introduced by an enclosing `{% for %}`, chained to
// the enclosing scope the same way ir.Scope chains namespaces (nearest
// binding wins, see ir/lookup.go).
type Scope struct {
	dot    *Binding
	name   string
	value  *Binding
	parent *Scope
}

// rootScope starts a render with root bound as dot, root being
// whatever BindStruct/BindEnum/BindFile the caller chose as the render
// target.
func rootScope(root *Binding) *Scope {
	return &Scope{dot: root}
}

// child introduces a `{% for name in ... %}` loop variable. The new
// scope's dot is rebound to value too, so a bare expression inside the
// loop body (e.g. `{{ name }}` on a field binding) resolves against the
// current item without needing the loop variable prefix.
func (s *Scope) child(name string, value *Binding) *Scope {
	return &Scope{dot: value, name: name, value: value, parent: s}
}

func (s *Scope) lookupVar(name string) (*Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.name == name {
			return sc.value, true
		}
	}
	return nil, false
}

// resolve evaluates an expression's path against scope: the first
// segment is checked against bound loop variables (nearest
// enclosing first); if none match, it is resolved as a field of the
// current dot instead. Every subsequent segment is always a field/index
// step from there.
//
// It also returns the IR path (SourceMapEntry.ir_path) the resolved
// value traces back to: the QName of the last object/list Binding
// visited along the way, since a scalar leaf (a field's "name" string,
// say) carries no QName of its own — the IR node being rendered is
// whatever structural node contained that scalar. Rendering
// `field.name` records ir_path as the field's qualified name, not an
// ir_path for the bare string it unwraps to.
func resolve(scope *Scope, path []filter.Segment) (*Binding, string, error) {
	if len(path) == 0 {
		return scope.dot, scope.dot.QName, nil
	}

	var cur *Binding
	rest := path
	if v, ok := scope.lookupVar(path[0].Name); ok && path[0].Index == nil && !path[0].Wildcard {
		cur = v
		rest = path[1:]
	} else {
		cur = scope.dot
	}
	irPath := cur.QName

	wild := false
	for _, seg := range rest {
		if wild {
			// After a `[*]` segment, every further segment projects
			// element-wise: fields[*].name is the list of each field's
			// name, ready for a count/join pipeline stage.
			items := make([]*Binding, 0, len(cur.Items()))
			for _, item := range cur.Items() {
				child, ok := item.Get(seg.Name)
				if !ok {
					return nil, "", fmt.Errorf("undefined path segment %q in %s", seg.Name, pathString(path))
				}
				items = append(items, child)
			}
			cur = List(items...)
			continue
		}
		next, ok := cur.Get(seg.Name)
		if !ok {
			return nil, "", fmt.Errorf("undefined path segment %q in %s", seg.Name, pathString(path))
		}
		cur = next
		if cur.QName != "" {
			irPath = cur.QName
		}
		switch {
		case seg.Wildcard:
			if !cur.IsList() {
				return nil, "", fmt.Errorf("wildcard index on non-list segment %q in %s", seg.Name, pathString(path))
			}
			wild = true
		case seg.Index != nil:
			idx, ok := cur.Index(*seg.Index)
			if !ok {
				return nil, "", fmt.Errorf("index %d out of range for segment %q in %s", *seg.Index, seg.Name, pathString(path))
			}
			cur = idx
			if cur.QName != "" {
				irPath = cur.QName
			}
		}
	}
	return cur, irPath, nil
}

func pathString(path []filter.Segment) string {
	parts := make([]string, len(path))
	for i, seg := range path {
		parts[i] = seg.Name
	}
	return strings.Join(parts, ".")
}
