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

package filter

import "testing"

func TestApplyStringPureFilters(t *testing.T) {
	cases := []struct {
		name  string
		value string
		f     Filter
		want  string
	}{
		{"pascal", "hello_world", Filter{Kind: PascalCase}, "HelloWorld"},
		{"snake", "HelloWorld", Filter{Kind: SnakeCase}, "hello_world"},
		{"camel", "hello_world", Filter{Kind: CamelCase}, "helloWorld"},
		{"upper", "hello", Filter{Kind: Upper}, "HELLO"},
		{"lower", "HELLO", Filter{Kind: Lower}, "hello"},
		{"quote", "value", Filter{Kind: Quote}, `"value"`},
		{"prefix", "World", Filter{Kind: Prefix, Arg: "Hello"}, "HelloWorld"},
		{"suffix", "Hello", Filter{Kind: Suffix, Arg: "World"}, "HelloWorld"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ApplyString(c.value, c.f)
			if !ok {
				t.Fatalf("ApplyString(%q, %v) reported context-required", c.value, c.f)
			}
			if got != c.want {
				t.Errorf("ApplyString(%q, %v) = %q, want %q", c.value, c.f, got, c.want)
			}
		})
	}
}

func TestApplyStringContextDependent(t *testing.T) {
	for _, k := range []Kind{LangType, Format, Count, Join, BinaryRead, BinaryReadOption, BinaryReadList, BinaryReadStruct, CsvRead, IsEmbedded} {
		if _, ok := ApplyString("u32", Filter{Kind: k}); ok {
			t.Errorf("ApplyString reported a value for context-dependent kind %v", k)
		}
	}
}

func TestFilterCaseRoundTrip(t *testing.T) {
	// PascalCase(SnakeCase(PascalCase(s))) == PascalCase(s) for any
	// identifier s.
	for _, s := range []string{"hello", "HelloWorld", "hello_world", "h2", "X"} {
		pc1, _ := ApplyString(s, Filter{Kind: PascalCase})
		sc, _ := ApplyString(pc1, Filter{Kind: SnakeCase})
		pc2, _ := ApplyString(sc, Filter{Kind: PascalCase})
		if pc1 != pc2 {
			t.Errorf("round trip broke for %q: PascalCase=%q but PascalCase(SnakeCase(PascalCase))=%q", s, pc1, pc2)
		}
	}
}

func TestNewFilterUnknownName(t *testing.T) {
	if _, err := NewFilter("not_a_filter", nil); err == nil {
		t.Fatal("expected an error for an unknown filter name")
	}
}

func TestNewFilterArityMismatch(t *testing.T) {
	if _, err := NewFilter("prefix", nil); err == nil {
		t.Fatal("expected an arity error for prefix with no arguments")
	}
	if _, err := NewFilter("upper", []string{"x"}); err == nil {
		t.Fatal("expected an arity error for upper with an argument")
	}
}

func TestParseExpressionPipeline(t *testing.T) {
	expr, err := ParseExpression(`name | pascal_case | quote`)
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if len(expr.Path) != 1 || expr.Path[0].Name != "name" {
		t.Fatalf("unexpected path: %+v", expr.Path)
	}
	if len(expr.Filters) != 2 || expr.Filters[0].Kind != PascalCase || expr.Filters[1].Kind != Quote {
		t.Fatalf("unexpected filters: %+v", expr.Filters)
	}
}

func TestParseExpressionDottedPathAndIndex(t *testing.T) {
	expr, err := ParseExpression(`fields[0].name`)
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if len(expr.Path) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(expr.Path))
	}
	if expr.Path[0].Name != "fields" || expr.Path[0].Index == nil || *expr.Path[0].Index != 0 {
		t.Fatalf("unexpected first segment: %+v", expr.Path[0])
	}
	if expr.Path[1].Name != "name" {
		t.Fatalf("unexpected second segment: %+v", expr.Path[1])
	}
}

func TestParseExpressionWildcard(t *testing.T) {
	expr, err := ParseExpression(`fields[*].name`)
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if !expr.Path[0].Wildcard {
		t.Fatalf("expected wildcard on first segment, got %+v", expr.Path[0])
	}
}

func TestParseExpressionWithFilterArg(t *testing.T) {
	expr, err := ParseExpression(`name | join(", ")`)
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if len(expr.Filters) != 1 || expr.Filters[0].Kind != Join || expr.Filters[0].Arg != ", " {
		t.Fatalf("unexpected filters: %+v", expr.Filters)
	}
}
