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

package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSchema = `
namespace game {
    struct Player {
        id: u32;
        nickname: string?;
    }
}
`

// writeFiles writes each (absolute path -> content) pair, creating any
// missing parent directories.
func writeFiles(t *testing.T, files map[string]string) {
	t.Helper()
	for full, content := range files {
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}

func TestPathToLogicalName(t *testing.T) {
	root := filepath.FromSlash("/schemas")
	got := pathToLogicalName(root, filepath.Join(root, "game", "common.pg"))
	if want := "game.common"; got != want {
		t.Fatalf("pathToLogicalName = %q, want %q", got, want)
	}
}

func TestParseSchemaTreeAndWalkIR(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, map[string]string{
		filepath.Join(root, "game", "player.pg"): sampleSchema,
	})

	files, err := parseSchemaTree(root)
	if err != nil {
		t.Fatalf("parseSchemaTree: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].Path != "game.player" {
		t.Fatalf("logical path = %q, want %q", files[0].Path, "game.player")
	}
}

func TestGenerateWritesOneFilePerStruct(t *testing.T) {
	// Generate's layout convention puts "targets" as a sibling of the
	// schema root (schemaRoot/../targets/<target>/...), so both trees
	// are built under one shared parent directory here.
	parent := t.TempDir()
	schemaRoot := filepath.Join(parent, "schema")
	writeFiles(t, map[string]string{
		filepath.Join(schemaRoot, "game", "player.pg"): sampleSchema,
		filepath.Join(parent, "targets", "go", "config.toml"): "" +
			"[primitives]\n" +
			"u32 = \"uint32\"\n" +
			"string = \"string\"\n",
		filepath.Join(parent, "targets", "go", "templates", "struct.ptpl"): "" +
			"type {{ name | pascal_case }} struct {\n" +
			"{% for field in fields %}\t{{ field.name | pascal_case }} {{ field.type | lang_type }}\n" +
			"{% endfor %}}\n",
	})

	outDir := t.TempDir()
	if err := Generate(schemaRoot, "go", outDir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(outDir, "game", "Player"))
	if err != nil {
		t.Fatalf("reading generated output: %v", err)
	}
	if !strings.Contains(string(out), "type Player struct") {
		t.Fatalf("generated output missing struct header:\n%s", out)
	}
	if !strings.Contains(string(out), "uint32") {
		t.Fatalf("generated output missing resolved primitive type:\n%s", out)
	}
}

func TestMigrateAddsAndBumpsVersionMarker(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, map[string]string{
		filepath.Join(root, "a.pg"): "namespace n {\n    struct S {\n        id: u32;\n    }\n}\n",
	})
	if err := Migrate(root, 1, 2); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "a.pg"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "// polygen:schema_version 2\n") {
		t.Fatalf("unexpected marker after migrate:\n%s", data)
	}

	if err := Migrate(root, 1, 3); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(root, "a.pg"))
	if !strings.HasPrefix(string(data), "// polygen:schema_version 2\n") {
		t.Fatalf("file at version 2 should be untouched by a from=1 migrate:\n%s", data)
	}
}

func TestParseImportsDelegatesToSchema(t *testing.T) {
	records, err := ParseImports(`import game.common;
import game.items as items;
namespace game {}
`)
	if err != nil {
		t.Fatalf("ParseImports: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d import records, want 2", len(records))
	}
	if records[1].Alias != "items" {
		t.Fatalf("second import alias = %q, want %q", records[1].Alias, "items")
	}
}

func TestReadWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")
	if err := WriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestVersionIsNonEmpty(t *testing.T) {
	if Version() == "" {
		t.Fatal("Version() returned an empty string")
	}
}
