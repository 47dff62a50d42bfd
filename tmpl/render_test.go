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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ittodo/polygen/ir"
	"github.com/ittodo/polygen/targetconfig"
)

// TestRenderSourceMapFidelity checks that a field rendered through an
// included template traces back to the included template's own
// file/line plus the full include stack and the IR path of the field
// being rendered.
func TestRenderSourceMapFidelity(t *testing.T) {
	ns := &ir.Namespace{Name: "game"}
	player := &ir.Struct{Name: "Player", Namespace: ns}
	hp := &ir.Field{Name: "hp", Type: ir.PrimitiveType{Kind: ir.I32}}
	player.Fields = []*ir.Field{hp}

	root := BindStruct(player)

	src := MapSource{
		"file/main.ptpl":    `{% for field in fields %}{% include "detail/field.ptpl" %}{% endfor %}`,
		"detail/field.ptpl": "{{ field.name }}\n",
	}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{})

	out, sm, err := r.Render("file/main.ptpl", root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hp\n" {
		t.Fatalf("output = %q, want %q", out, "hp\n")
	}
	if sm.Len() != 1 {
		t.Fatalf("source map has %d entries, want 1", sm.Len())
	}
	entry := sm.Entries[0]
	want := SourceMapEntry{
		TemplateFile: "detail/field.ptpl",
		TemplateLine: 1,
		IncludeStack: []string{"file/main.ptpl", "detail/field.ptpl"},
		IRPath:       "game.Player.hp",
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Fatalf("source map entry mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFilterPipeline(t *testing.T) {
	root := Object()
	root.Set("name", Str("hello_world"))

	src := MapSource{"main.ptpl": `{{ name | pascal_case | quote }}`}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{})

	out, _, err := r.Render("main.ptpl", root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != `"HelloWorld"` {
		t.Fatalf("output = %q, want %q", out, `"HelloWorld"`)
	}
}

func TestRenderWildcardJoinAndCount(t *testing.T) {
	s := &ir.Struct{Name: "Player", File: &ir.File{Path: "game"}, Fields: []*ir.Field{
		{Name: "id", Type: ir.PrimitiveType{Kind: ir.U32}},
		{Name: "name", Type: ir.PrimitiveType{Kind: ir.String}},
	}}
	root := BindStruct(s)

	src := MapSource{"main.ptpl": `{{ fields[*].name | join(", ") }} ({{ fields | count }})` + "\n"}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{})

	out, _, err := r.Render("main.ptpl", root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "id, name (2)\n" {
		t.Fatalf("output = %q, want %q", out, "id, name (2)\n")
	}
}

func TestRenderIfElse(t *testing.T) {
	root := Object()
	root.Set("flag", Bool(false))

	src := MapSource{"main.ptpl": "{% if flag %}yes{% else %}no{% endif %}\n"}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{})

	out, _, err := r.Render("main.ptpl", root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "no\n" {
		t.Fatalf("output = %q, want %q", out, "no\n")
	}
}

func TestRenderIncludeCycleDetected(t *testing.T) {
	src := MapSource{
		"a.ptpl": `{% include "b.ptpl" %}`,
		"b.ptpl": `{% include "a.ptpl" %}`,
	}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{})

	_, _, err := r.Render("a.ptpl", Object())
	if err == nil {
		t.Fatal("expected include cycle error, got nil")
	}
}

func TestRenderLangTypeConfigError(t *testing.T) {
	f := &ir.Field{Name: "hp", Type: ir.PrimitiveType{Kind: ir.I32}}
	s := &ir.Struct{Name: "Player", Fields: []*ir.Field{f}, File: &ir.File{Path: "game"}}
	root := BindStruct(s)

	src := MapSource{"main.ptpl": "{% for field in fields %}{{ field.type | lang_type }}{% endfor %}"}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{Primitives: map[string]string{}})

	_, _, err := r.Render("main.ptpl", root)
	if err == nil {
		t.Fatal("expected config error for missing primitive mapping, got nil")
	}
	if _, ok := err.(*targetconfig.ConfigError); !ok {
		t.Fatalf("err = %T, want *targetconfig.ConfigError", err)
	}
}

func TestRenderLangTypeResolved(t *testing.T) {
	f := &ir.Field{Name: "hp", Type: ir.PrimitiveType{Kind: ir.I32}}
	s := &ir.Struct{Name: "Player", Fields: []*ir.Field{f}, File: &ir.File{Path: "game"}}
	root := BindStruct(s)

	src := MapSource{"main.ptpl": "{% for field in fields %}{{ field.type | lang_type }}\n{% endfor %}"}
	r := NewRenderer(NewLoader(src), &targetconfig.Config{Primitives: map[string]string{"i32": "int32_t"}})

	out, _, err := r.Render("main.ptpl", root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "int32_t\n" {
		t.Fatalf("output = %q, want %q", out, "int32_t\n")
	}
}
