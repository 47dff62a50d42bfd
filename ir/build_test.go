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
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/ittodo/polygen/schema"
	"github.com/ittodo/polygen/schema/ast"
)

func parseOne(t *testing.T, path, filename, src string) *ast.File {
	t.Helper()
	f, err := schema.ParseFile(path, filename, src)
	if err != nil {
		t.Fatalf("ParseFile(%s): %v", path, err)
	}
	return f
}

func TestBuildPrimitiveStruct(t *testing.T) {
	src := `
struct AllTypes {
  a: u8;
  b: i8;
  c: u64;
  d: i64;
  e: f32;
  f: f64;
  g: bool;
  h: string;
  i: bytes;
}
`
	f := parseOne(t, "x", "x.pg", src)
	r, err := Build([]*ast.File{f})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	st := r.Files["x"].Structs["AllTypes"]
	if st == nil {
		t.Fatal("expected struct AllTypes")
	}
	if len(st.Fields) != 9 {
		t.Fatalf("expected 9 fields, got %d", len(st.Fields))
	}
	for i, f := range st.Fields {
		if f.Ordinal != i {
			t.Errorf("field %q ordinal = %d, want %d", f.Name, f.Ordinal, i)
		}
		if !IsPrimitive(f.Type) {
			t.Errorf("field %q type = %T, want PrimitiveType", f.Name, f.Type)
		}
	}
}

func TestBuildDuplicateFieldName(t *testing.T) {
	src := `
struct S {
  id: u32;
  id: u32;
}
`
	f := parseOne(t, "x", "x.pg", src)
	_, err := Build([]*ast.File{f})
	if err == nil || !strings.Contains(err.Error(), "duplicate field") {
		t.Fatalf("expected duplicate field error, got %v", err)
	}
}

func TestBuildDuplicateEnumTag(t *testing.T) {
	src := `
enum Status {
  Active = 0,
  Idle = 0
}
`
	f := parseOne(t, "x", "x.pg", src)
	_, err := Build([]*ast.File{f})
	if err == nil || !strings.Contains(err.Error(), "reused") {
		t.Fatalf("expected duplicate tag error, got %v", err)
	}
}

func TestBuildDuplicateNamespaceMember(t *testing.T) {
	src := `
namespace ns {
  struct Dup { id: u32; }
  struct Dup { id: u32; }
}
`
	f := parseOne(t, "x", "x.pg", src)
	_, err := Build([]*ast.File{f})
	if err == nil || !strings.Contains(err.Error(), "duplicate definition") {
		t.Fatalf("expected duplicate definition error, got %v", err)
	}
}

func TestBuildOptionalOfOptionalRejected(t *testing.T) {
	// The grammar only admits one trailing '?' per type atom, so a
	// literal nested Optional is written as an Optional-wrapped List
	// whose element is itself Optional.
	src := `
struct S {
  name: [string?]?;
}
`
	f := parseOne(t, "x", "x.pg", src)
	_, err := Build([]*ast.File{f})
	if err == nil || !strings.Contains(err.Error(), "optional cannot wrap optional") {
		t.Fatalf("expected optional-of-optional rejection, got %v", err)
	}
}

func TestBuildMapKeyMustBePrimitive(t *testing.T) {
	src := `
struct Item { id: u32; }
struct S {
  byItem: map<Item, u32>;
}
`
	f := parseOne(t, "x", "x.pg", src)
	_, err := Build([]*ast.File{f})
	if err == nil || !strings.Contains(err.Error(), "map key must be") {
		t.Fatalf("expected map key error, got %v", err)
	}
}

func TestBuildCyclicImportDetected(t *testing.T) {
	a := parseOne(t, "a", "a.pg", `import b;`)
	b := parseOne(t, "b", "b.pg", `import a;`)
	_, err := Build([]*ast.File{a, b})
	if err == nil || !strings.Contains(err.Error(), "cyclic import") {
		t.Fatalf("expected cyclic import error, got %v", err)
	}
}

func TestBuildUnresolvedImport(t *testing.T) {
	f := parseOne(t, "a", "a.pg", `import missing;`)
	_, err := Build([]*ast.File{f})
	if err == nil || !strings.Contains(err.Error(), "unknown file") {
		t.Fatalf("expected unknown-import error, got %v", err)
	}
}

func TestBuildCrossNamespaceEmbed(t *testing.T) {
	common := parseOne(t, "common", "common.pg", `
namespace common {
  struct Position { x: f32; y: f32; z: f32; }
  enum Status { Active = 0, Idle = 1, Dead = 2 }
}
`)
	game := parseOne(t, "game", "game.pg", `
import common;
namespace game {
  struct Player {
    id: u32;
    name: string;
    position: common.Position;
    status: common.Status;
  }
}
`)
	r, err := Build([]*ast.File{common, game})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	player := r.Files["game"].Namespaces["game"].Structs["Player"]
	posField := player.Fields[2]
	ud, ok := posField.Type.(*UserDefinedType)
	if !ok {
		t.Fatalf("position type = %T, want *UserDefinedType", posField.Type)
	}
	st, en := ud.Resolved()
	if st == nil || en != nil {
		t.Fatalf("expected position to resolve to a struct, got struct=%v enum=%v", st, en)
	}
	if st.QualifiedName() != "common.Position" {
		t.Fatalf("position resolved to %q, want common.Position", st.QualifiedName())
	}

	statusField := player.Fields[3]
	ud2 := statusField.Type.(*UserDefinedType)
	st2, en2 := ud2.Resolved()
	if en2 == nil || st2 != nil {
		t.Fatalf("expected status to resolve to an enum, got struct=%v enum=%v", st2, en2)
	}
	if en2.QualifiedName() != "common.Status" {
		t.Fatalf("status resolved to %q, want common.Status", en2.QualifiedName())
	}
}

func TestBuildDeeplyNestedNamespaces(t *testing.T) {
	// app.data.models.User and app.services.UserService resolve
	// across sibling namespace branches that share the common "app"
	// ancestor, without an import (the ancestor-namespace leg of the
	// precedence chain).
	src := `
namespace app {
  namespace data {
    namespace models {
      struct User { id: u32; username: string; }
    }
    namespace enums {
      enum Permission { Read = 0, Write = 1, Execute = 2, Admin = 3 }
    }
  }
  namespace services {
    struct UserService {
      id: u32;
      target_user_id: u32;
      permission: data.enums.Permission;
    }
  }
}
`
	f := parseOne(t, "app", "app.pg", src)
	r, err := Build([]*ast.File{f})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	user := r.Files["app"].Namespaces["app"].Children["data"].Children["models"].Structs["User"]
	if user.QualifiedName() != "app.data.models.User" {
		t.Fatalf("unexpected qualified name %q", user.QualifiedName())
	}

	svc := r.Files["app"].Namespaces["app"].Children["services"].Structs["UserService"]
	permField := svc.Fields[2]
	ud := permField.Type.(*UserDefinedType)
	_, en := ud.Resolved()
	if en == nil {
		t.Fatalf("expected permission field to resolve to an enum")
	}
	if en.QualifiedName() != "app.data.enums.Permission" {
		t.Fatalf("permission resolved to %q, want app.data.enums.Permission", en.QualifiedName())
	}
	var admin *Variant
	for i := range en.Variants {
		if en.Variants[i].Name == "Admin" {
			admin = &en.Variants[i]
		}
	}
	if admin == nil || admin.Tag != 3 {
		t.Fatalf("Admin variant = %+v, want tag 3", admin)
	}
}

func TestBuildInlineEnumScope(t *testing.T) {
	src := `
struct Order {
  status: Status;
  priority: Priority;
  enum Status { Paid = 1, Shipped = 2, Delivered = 3, Cancelled = 4 }
  enum Priority { Low = 0, High = 1 }
}
`
	f := parseOne(t, "x", "x.pg", src)
	r, err := Build([]*ast.File{f})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	order := r.Files["x"].Structs["Order"]
	status := order.InlineEnums["Status"]
	if status.QualifiedName() != "x.Order.Status" {
		t.Fatalf("inline enum qualified name = %q, want x.Order.Status", status.QualifiedName())
	}
	wantVariants := []Variant{
		{Name: "Paid", Tag: 1},
		{Name: "Shipped", Tag: 2},
		{Name: "Delivered", Tag: 3},
		{Name: "Cancelled", Tag: 4},
	}
	if diff := pretty.Compare(status.Variants, wantVariants); diff != "" {
		t.Fatalf("inline enum variants diff (-got +want):\n%s", diff)
	}
	statusField := order.Fields[0]
	ud := statusField.Type.(*UserDefinedType)
	_, en := ud.Resolved()
	if en != status {
		t.Fatalf("status field did not resolve to the inline enum")
	}
}
