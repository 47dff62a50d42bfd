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

package schema

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/ittodo/polygen/schema/ast"
)

func TestParseFileBasic(t *testing.T) {
	src := `
/// namespace doc
namespace game {
  import common;
  struct Player {
    id: u32;
    name: string;
    position: common.Position;
    inventory: [Item];
    nickname: string?;
    status: Status;
    enum Status { Active = 0, Idle = 1, Dead = 2 }
  }
}
`
	f, err := ParseFile("game", "game.pg", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(f.Items) != 1 {
		t.Fatalf("expected 1 top-level item, got %d", len(f.Items))
	}
	ns, ok := f.Items[0].(*ast.Namespace)
	if !ok {
		t.Fatalf("expected *ast.Namespace, got %T", f.Items[0])
	}
	if ns.Name != "game" {
		t.Fatalf("namespace name = %q, want game", ns.Name)
	}
	if ns.Doc != "namespace doc" {
		t.Fatalf("namespace doc = %q, want %q", ns.Doc, "namespace doc")
	}
	if len(f.Imports) != 1 || f.Imports[0].Path[0] != "common" {
		t.Fatalf("unexpected imports: %s", pretty.Sprint(f.Imports))
	}

	if len(ns.Items) != 1 {
		t.Fatalf("expected 1 item inside namespace, got %d", len(ns.Items))
	}
	st, ok := ns.Items[0].(*ast.Struct)
	if !ok {
		t.Fatalf("expected *ast.Struct, got %T", ns.Items[0])
	}
	if st.Name != "Player" {
		t.Fatalf("struct name = %q, want Player", st.Name)
	}
	if len(st.Fields) != 6 {
		t.Fatalf("expected 6 fields, got %d", len(st.Fields))
	}
	if len(st.Enums) != 1 || st.Enums[0].Name != "Status" {
		t.Fatalf("expected inline enum Status, got %+v", st.Enums)
	}

	nickname := st.Fields[4]
	if nickname.Name != "nickname" {
		t.Fatalf("field 4 = %q, want nickname", nickname.Name)
	}
	if _, ok := nickname.Type.(ast.OptionalTypeExpr); !ok {
		t.Fatalf("nickname type = %T, want ast.OptionalTypeExpr", nickname.Type)
	}

	inventory := st.Fields[3]
	lst, ok := inventory.Type.(ast.ListTypeExpr)
	if !ok {
		t.Fatalf("inventory type = %T, want ast.ListTypeExpr", inventory.Type)
	}
	named, ok := lst.Elem.(ast.NamedTypeExpr)
	if !ok || named.Path[0] != "Item" {
		t.Fatalf("inventory elem = %+v, want NamedTypeExpr{Item}", lst.Elem)
	}
}

func TestParseFileDocCommentAdjacency(t *testing.T) {
	src := `
/// attached
// also attached

struct Detached {
  id: u32;
}
`
	f, err := ParseFile("x", "x.pg", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	st := f.Items[0].(*ast.Struct)
	if st.Doc != "" {
		t.Fatalf("expected no doc comment (blank line breaks adjacency), got %q", st.Doc)
	}
}

func TestParseFileFieldDocComment(t *testing.T) {
	src := `
struct S {
  /// the identifier
  id: u32;
}
`
	f, err := ParseFile("x", "x.pg", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	st := f.Items[0].(*ast.Struct)
	if st.Fields[0].Doc != "the identifier" {
		t.Fatalf("field doc = %q, want %q", st.Fields[0].Doc, "the identifier")
	}
}

func TestParseFileAttributes(t *testing.T) {
	src := `
#[embedded]
struct Position {
  x: f32;
  y: f32;
}
`
	f, err := ParseFile("x", "x.pg", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	st := f.Items[0].(*ast.Struct)
	if st.Attributes["embedded"] != "true" {
		t.Fatalf("attributes = %+v, want embedded=true", st.Attributes)
	}
}

func TestParseFileMapType(t *testing.T) {
	src := `
struct S {
  scores: map<string, u32>;
}
`
	f, err := ParseFile("x", "x.pg", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	st := f.Items[0].(*ast.Struct)
	m, ok := st.Fields[0].Type.(ast.MapTypeExpr)
	if !ok {
		t.Fatalf("type = %T, want ast.MapTypeExpr", st.Fields[0].Type)
	}
	if _, ok := m.Key.(ast.PrimitiveTypeExpr); !ok {
		t.Fatalf("map key = %T, want primitive", m.Key)
	}
}

func TestParseFileSyntaxError(t *testing.T) {
	_, err := ParseFile("x", "x.pg", "struct {")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.File != "x.pg" || perr.Line == 0 {
		t.Fatalf("unexpected ParseError: %+v", perr)
	}
}

func TestParseImports(t *testing.T) {
	src := `
namespace game {
  import common;
  import other.thing as ot;
  struct S { id: u32; }
}
`
	recs, err := ParseImports(src)
	if err != nil {
		t.Fatalf("ParseImports: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(recs), recs)
	}
	if recs[0].Path[0] != "common" || recs[0].Alias != "" {
		t.Fatalf("unexpected first import: %+v", recs[0])
	}
	if recs[1].Alias != "ot" {
		t.Fatalf("unexpected second import: %+v", recs[1])
	}
}
