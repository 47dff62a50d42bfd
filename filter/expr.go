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

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Segment is one path element of an Expression: an identifier
// optionally followed by an index [n] or the wildcard [*].
type Segment struct {
	Name     string
	Index    *int
	Wildcard bool
}

// Expression is a parsed template placeholder: an ordered path plus an
// ordered filter pipeline.
type Expression struct {
	Path    []Segment
	Filters []Filter
}

// exprLexer tokenizes the content between `{{` and `}}` (or the bare
// path expression used as an `{% if %}`/`{% for %}` condition). It is a
// second, narrower participle lexer than schema.schemaLexer because the
// expression language's token set (path segments, pipes, filter calls)
// differs from the schema grammar's.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[.\|\[\]\(\),\*]`},
})

type grammarExpr struct {
	Segments []*grammarSegment    `parser:"@@ ( '.' @@ )*"`
	Filters  []*grammarFilterCall `parser:"( '|' @@ )*"`
}

type grammarSegment struct {
	Name  string        `parser:"@Ident"`
	Index *grammarIndex `parser:"@@?"`
}

type grammarIndex struct {
	Wildcard bool   `parser:"'[' ( @'*'"`
	Value    *int64 `parser:" | @Int ) ']'"`
}

type grammarFilterCall struct {
	Name string   `parser:"@Ident"`
	Args []string `parser:"( '(' ( @String ( ',' @String )* )? ')' )?"`
}

var exprParser = participle.MustBuild[grammarExpr](
	participle.Lexer(exprLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
)

// ParseExpression parses the inner text of a `{{ ... }}` placeholder
// (braces already stripped by the template loader) into an Expression.
func ParseExpression(raw string) (*Expression, error) {
	g, err := exprParser.ParseString("", raw)
	if err != nil {
		return nil, fmt.Errorf("template error: invalid expression %q: %w", raw, err)
	}

	expr := &Expression{}
	for _, gs := range g.Segments {
		seg := Segment{Name: gs.Name}
		if gs.Index != nil {
			if gs.Index.Wildcard {
				seg.Wildcard = true
			} else if gs.Index.Value != nil {
				v := int(*gs.Index.Value)
				seg.Index = &v
			}
		}
		expr.Path = append(expr.Path, seg)
	}
	for _, gf := range g.Filters {
		f, err := NewFilter(gf.Name, gf.Args)
		if err != nil {
			return nil, err
		}
		expr.Filters = append(expr.Filters, f)
	}
	return expr, nil
}
