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

package registry

import (
	"strings"
	"testing"

	"github.com/ittodo/polygen/ir"
	"github.com/ittodo/polygen/targetconfig"
	"github.com/ittodo/polygen/tmpl"
)

func testStruct() *ir.Struct {
	f := &ir.File{Path: "game"}
	s := &ir.Struct{Name: "Player", File: f, Fields: []*ir.Field{
		{Name: "id", Type: ir.PrimitiveType{Kind: ir.U32}, Ordinal: 0},
		{Name: "nickname", Type: ir.OptionalType{Inner: ir.PrimitiveType{Kind: ir.String}}, Ordinal: 1},
	}}
	return s
}

func testCSVConfig() *targetconfig.Config {
	return &targetconfig.Config{CSV: map[string]targetconfig.CSVIO{
		"u32":    {Read: "ParseUInt32"},
		"string": {Read: "ParseString"},
	}}
}

// assertLineEntryParity checks the invariant every helper in this
// package must uphold: one SourceMapEntry per emitted line, all
// sharing the helper's logical template_file and template_line 0.
func assertLineEntryParity(t *testing.T, builtin, text string, entries []tmpl.SourceMapEntry) {
	t.Helper()
	if text == "" {
		t.Fatalf("helper %q produced empty text", builtin)
	}
	if got, want := len(entries), strings.Count(text, "\n"); got != want {
		t.Fatalf("helper %q: %d entries for %d lines", builtin, got, want)
	}
	for _, e := range entries {
		if e.TemplateFile != builtin {
			t.Fatalf("helper %q: entry template_file = %q", builtin, e.TemplateFile)
		}
		if e.TemplateLine != 0 {
			t.Fatalf("helper %q: entry template_line = %d, want 0", builtin, e.TemplateLine)
		}
	}
}

func TestBannerHelper(t *testing.T) {
	text, entries := bannerHelper(testStruct(), &targetconfig.Config{})
	assertLineEntryParity(t, coreBuiltin, text, entries)
	if !strings.Contains(text, "game.Player") {
		t.Fatalf("banner missing qualified name:\n%s", text)
	}
}

func TestCSVScaffoldHelper(t *testing.T) {
	text, entries := csvScaffoldHelper(testStruct(), testCSVConfig())
	assertLineEntryParity(t, csvBuiltin, text, entries)
	if !strings.Contains(text, "ParseUInt32") {
		t.Fatalf("csv scaffold missing u32 read fragment:\n%s", text)
	}
}

func TestCSVScaffoldHelperReportsMissingConfigKey(t *testing.T) {
	text, _ := csvScaffoldHelper(testStruct(), &targetconfig.Config{})
	if !strings.Contains(text, "missing csv.u32.read") {
		t.Fatalf("expected missing-config-key note, got:\n%s", text)
	}
}

func TestCSharpCSVHelperEmitsLoaderShape(t *testing.T) {
	text, entries := csharpCSVHelper(testStruct(), testCSVConfig())
	assertLineEntryParity(t, csharpCSVBuiltin, text, entries)

	for _, want := range []string{
		"public static class PlayerCsv",
		"public static string[] GetHeader()",
		"public static Player FromRow(string[] row)",
		"public static Player FromRowWithPrefix(string[] row, int prefix)",
		"public static void AppendRow(Player obj",
		"public static int ColumnCount()",
		"ParseUInt32(row[prefix + 0])",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("generated C# loader missing %q:\n%s", want, text)
		}
	}
}

func TestRegisterAllWiresEveryHelperIntoRenderer(t *testing.T) {
	reg := tmpl.NewRegistry()
	RegisterAll(reg)

	for _, name := range []string{coreBuiltin, csvBuiltin, csharpCSVBuiltin} {
		src := tmpl.MapSource{"probe.ptpl": `{% script "` + name + `" %}`}
		r := tmpl.NewRenderer(tmpl.NewLoader(src), testCSVConfig()).WithRegistry(reg)
		root := tmpl.BindStruct(testStruct())

		out, _, err := r.Render("probe.ptpl", root)
		if err != nil {
			t.Fatalf("rendering %q: %v", name, err)
		}
		if out == "" {
			t.Fatalf("helper %q produced no output via the renderer", name)
		}
	}
}

func TestUnregisteredScriptNameIsTemplateError(t *testing.T) {
	reg := tmpl.NewRegistry()
	RegisterAll(reg)
	src := tmpl.MapSource{"probe.ptpl": `{% script "<builtin:nope>" %}`}
	r := tmpl.NewRenderer(tmpl.NewLoader(src), &targetconfig.Config{}).WithRegistry(reg)

	_, _, err := r.Render("probe.ptpl", tmpl.BindStruct(testStruct()))
	if err == nil {
		t.Fatal("expected an error for an unregistered helper name")
	}
}

func TestRegisterTwiceUnderSameNamePanics(t *testing.T) {
	reg := tmpl.NewRegistry()
	reg.Register("dup", func(any, *targetconfig.Config) (string, []tmpl.SourceMapEntry) { return "", nil })

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic registering a duplicate helper name")
		}
	}()
	reg.Register("dup", func(any, *targetconfig.Config) (string, []tmpl.SourceMapEntry) { return "", nil })
}
