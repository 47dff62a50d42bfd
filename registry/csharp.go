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
	"fmt"

	"github.com/ittodo/polygen/ir"
	"github.com/ittodo/polygen/targetconfig"
	"github.com/ittodo/polygen/tmpl"
)

// csharpCSVBuiltin is the logical template_file identifier for the C#
// CSV loader helper.
const csharpCSVBuiltin = "<builtin:csharp_csv>"

// RegisterCSharp registers the C# CSV loader helper: for a struct
// `Foo` it emits a `FooCsv` class exposing `GetHeader()`,
// `FromRow(row)`, `FromRowWithPrefix(row, prefix)`,
// `AppendRow(obj, cols)` and `ColumnCount()`.
func RegisterCSharp(reg *tmpl.Registry) {
	reg.Register(csharpCSVBuiltin, csharpCSVHelper)
}

func csharpCSVHelper(irNode any, cfg *targetconfig.Config) (string, []tmpl.SourceMapEntry) {
	s, ok := asStruct(irNode)
	if !ok {
		return "", nil
	}
	className := s.Name + "Csv"
	irPath := s.QualifiedName()

	var lines []string
	add := func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }

	add("public static class %s", className)
	add("{")
	add("    public static string[] GetHeader()")
	add("    {")
	add("        return new[] { %s };", csharpHeaderLiterals(s))
	add("    }")
	add("")
	add("    public static %s FromRow(string[] row)", s.Name)
	add("    {")
	add("        return FromRowWithPrefix(row, 0);")
	add("    }")
	add("")
	add("    public static %s FromRowWithPrefix(string[] row, int prefix)", s.Name)
	add("    {")
	add("        var obj = new %s();", s.Name)
	for i, f := range s.Fields {
		kind, leaf := leafPrimitiveKind(f.Type)
		if !leaf {
			add("        // %s is embedded/composite and is not read by this loader", f.Name)
			continue
		}
		fragment, err := cfg.CSVReadFragment(kind, irPath+"."+f.Name)
		if err != nil {
			add("        // missing csv.%s.read in target config for field %s", kind, f.Name)
			continue
		}
		add("        obj.%s = %s(row[prefix + %d]);", csharpPropertyName(f.Name), fragment, i)
	}
	add("        return obj;")
	add("    }")
	add("")
	add("    public static void AppendRow(%s obj, System.Collections.Generic.List<string> cols)", s.Name)
	add("    {")
	for _, f := range s.Fields {
		add("        cols.Add(obj.%s.ToString());", csharpPropertyName(f.Name))
	}
	add("    }")
	add("")
	add("    public static int ColumnCount()")
	add("    {")
	add("        return %d;", len(s.Fields))
	add("    }")
	add("}")

	return joinHelperLines(lines, csharpCSVBuiltin, irPath)
}

func csharpHeaderLiterals(s *ir.Struct) string {
	out := ""
	for i, f := range s.Fields {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", f.Name)
	}
	return out
}

// csharpPropertyName upper-cases a field's first letter, matching C#
// PascalCase property naming convention without going through the full
// pascal_case filter (field names here are schema identifiers, not
// template-expression strings).
func csharpPropertyName(name string) string {
	if name == "" {
		return name
	}
	first := name[0]
	if first >= 'a' && first <= 'z' {
		first -= 'a' - 'A'
	}
	return string(first) + name[1:]
}
