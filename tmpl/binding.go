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

import "strconv"

type bindKind byte

const (
	bindNull bindKind = iota
	bindString
	bindInt
	bindFloat
	bindBool
	bindList
	bindObject
)

// Binding is the generic, walkable value the renderer evaluates
// expression paths against: the IR, converted once per render target
// into a uniform tree of scalars/lists/objects, the way a JSON document
// would represent it, except every list is materialized in IR
// declaration order by construction (never from unordered Go map
// iteration) so output stays byte-stable across runs.
//
// Each object-kind Binding optionally carries a back-reference (IRNode)
// to the original *ir.Field / ir.TypeRef / *ir.Struct / *ir.Enum it was
// bound from, and its fully-qualified IR path (QName), so the renderer
// can dispatch context-dependent filters (which need the real IR node,
// not its generic projection) and populate SourceMapEntry.ir_path.
type Binding struct {
	kind bindKind

	str string
	i   int64
	f   float64
	b   bool

	list []*Binding

	fields map[string]*Binding
	order  []string

	IRNode any
	QName  string
}

func Null() *Binding { return &Binding{kind: bindNull} }

func Str(s string) *Binding { return &Binding{kind: bindString, str: s} }

func Int(i int64) *Binding { return &Binding{kind: bindInt, i: i} }

func Float(f float64) *Binding { return &Binding{kind: bindFloat, f: f} }

func Bool(b bool) *Binding { return &Binding{kind: bindBool, b: b} }

func List(items ...*Binding) *Binding { return &Binding{kind: bindList, list: items} }

func Object() *Binding {
	return &Binding{kind: bindObject, fields: map[string]*Binding{}}
}

// Set attaches a named child to an object-kind Binding, recording
// insertion order so object-like iteration (rare, but supported for
// completeness) stays deterministic too.
func (b *Binding) Set(key string, v *Binding) *Binding {
	if _, exists := b.fields[key]; !exists {
		b.order = append(b.order, key)
	}
	b.fields[key] = v
	return b
}

// Get resolves a field/method-style name against an object Binding.
func (b *Binding) Get(name string) (*Binding, bool) {
	if b == nil || b.kind != bindObject {
		return nil, false
	}
	v, ok := b.fields[name]
	return v, ok
}

// Index resolves a `[n]` path segment against a list Binding.
func (b *Binding) Index(i int) (*Binding, bool) {
	if b == nil || b.kind != bindList || i < 0 || i >= len(b.list) {
		return nil, false
	}
	return b.list[i], true
}

// Items returns a list Binding's elements in declaration order.
func (b *Binding) Items() []*Binding {
	if b == nil || b.kind != bindList {
		return nil
	}
	return b.list
}

// Truthy implements the conditional truthiness rule: non-null,
// non-empty, non-zero.
func (b *Binding) Truthy() bool {
	if b == nil {
		return false
	}
	switch b.kind {
	case bindNull:
		return false
	case bindString:
		return b.str != ""
	case bindInt:
		return b.i != 0
	case bindFloat:
		return b.f != 0
	case bindBool:
		return b.b
	case bindList:
		return len(b.list) != 0
	case bindObject:
		return len(b.fields) != 0
	default:
		return false
	}
}

// AsString converts a scalar Binding to its string form for the pure
// string filter pipeline; it is an error (caught by the renderer) to
// ask for the string form of a list or object.
func (b *Binding) AsString() (string, bool) {
	if b == nil {
		return "", false
	}
	switch b.kind {
	case bindString:
		return b.str, true
	case bindInt:
		return strconv.FormatInt(b.i, 10), true
	case bindFloat:
		return strconv.FormatFloat(b.f, 'g', -1, 64), true
	case bindBool:
		return strconv.FormatBool(b.b), true
	default:
		return "", false
	}
}

// IsList reports whether b is list-kind. A `{% for %}` path must
// evaluate to one; every IR container this project exposes to
// templates is bound as an ordered list (see bind.go).
func (b *Binding) IsList() bool { return b != nil && b.kind == bindList }
