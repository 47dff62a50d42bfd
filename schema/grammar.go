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

// Package schema turns schema source text into ast.File values. The
// grammar is declared with struct tags against
// github.com/alecthomas/participle/v2 rather than hand-rolled
// recursive descent, keeping the token definitions and the rule shapes
// in one declarative place.
package schema

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ittodo/polygen/schema/ast"
)

// schemaLexer tokenizes schema source. Comments and whitespace are
// elided from the grammar entirely — doc-comment attachment is a
// separate, line-based pass (see ast.BuildDocCommentIndex) because its
// "no blank line" adjacency rule does not map cleanly onto a
// context-free grammar rule.
var schemaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Comment", Pattern: `//[^\n]*|/\*[\s\S]*?\*/`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `-?[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{}()\[\]<>,.;:=?#|]`},
})

// grammarFile is the raw participle parse tree for one schema file.
type grammarFile struct {
	Items []*grammarItem `parser:"@@*"`
}

type grammarItem struct {
	Pos       lexer.Position
	Import    *grammarImport    `parser:"(  @@"`
	Namespace *grammarNamespace `parser:" | @@"`
	Struct    *grammarStruct    `parser:" | @@"`
	Enum      *grammarEnum      `parser:" | @@ )"`
}

type grammarImport struct {
	Pos   lexer.Position
	Path  []string `parser:"'import' @Ident ( '.' @Ident )*"`
	Alias string   `parser:"( 'as' @Ident )? ';'"`
}

type grammarNamespace struct {
	Pos   lexer.Position
	Name  string         `parser:"'namespace' @Ident '{'"`
	Items []*grammarItem `parser:"@@* '}'"`
}

type grammarAttr struct {
	Key   string `parser:"@Ident"`
	Value string `parser:"( '=' @String )?"`
}

type grammarAttrList struct {
	Attrs []*grammarAttr `parser:"'#' '[' @@ ( ',' @@ )* ']'"`
}

type grammarStructMember struct {
	Field *grammarField `parser:"(  @@"`
	Enum  *grammarEnum  `parser:" | @@ )"`
}

type grammarStruct struct {
	Pos     lexer.Position
	Attrs   *grammarAttrList       `parser:"@@?"`
	Name    string                 `parser:"'struct' @Ident '{'"`
	Members []*grammarStructMember `parser:"@@* '}'"`
}

type grammarField struct {
	Pos     lexer.Position
	Attrs   *grammarAttrList `parser:"@@?"`
	Name    string           `parser:"@Ident ':'"`
	Type    *grammarTypeExpr `parser:"@@"`
	Default *grammarLiteral  `parser:"( '=' @@ )? ';'"`
}

type grammarEnum struct {
	Pos      lexer.Position
	Name     string                `parser:"'enum' @Ident"`
	Width    *int64                `parser:"( ':' @Int )?"`
	Variants []*grammarEnumVariant `parser:"'{' @@ ( ',' @@ )* ','? '}'"`
}

type grammarEnumVariant struct {
	Pos  lexer.Position
	Name string `parser:"@Ident"`
	Tag  int64  `parser:"'=' @Int"`
}

// grammarTypeExpr is the recursive type-expression rule: an optional
// leading `[` ... `]` (List) or `map<K,V>` form, else a dotted path
// (primitive or user-defined), all optionally postfixed with `?`.
type grammarTypeExpr struct {
	Pos      lexer.Position
	List     *grammarTypeExpr `parser:"(  '[' @@ ']'"`
	Map      *grammarMapType  `parser:" | @@"`
	Path     []string         `parser:" | @Ident ( '.' @Ident )* )"`
	Optional bool             `parser:"@'?'?"`
}

type grammarMapType struct {
	Key   *grammarTypeExpr `parser:"'map' '<' @@"`
	Value *grammarTypeExpr `parser:"',' @@ '>'"`
}

type grammarLiteral struct {
	StringVal *string  `parser:"(  @String"`
	FloatVal  *float64 `parser:" | @Float"`
	IntVal    *int64   `parser:" | @Int"`
	BoolVal   *string  `parser:" | @( 'true' | 'false' ) )"`
}

var schemaParser = participle.MustBuild[grammarFile](
	participle.Lexer(schemaLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

func (t *grammarTypeExpr) toAST() ast.TypeExpr {
	var inner ast.TypeExpr
	switch {
	case t.List != nil:
		inner = ast.ListTypeExpr{Elem: t.List.toAST()}
	case t.Map != nil:
		inner = ast.MapTypeExpr{Key: t.Map.Key.toAST(), Value: t.Map.Value.toAST()}
	default:
		if len(t.Path) == 1 && ast.IsPrimitiveName(t.Path[0]) {
			inner = ast.PrimitiveTypeExpr{Kind: t.Path[0]}
		} else {
			inner = ast.NamedTypeExpr{Path: t.Path}
		}
	}
	if t.Optional {
		return ast.OptionalTypeExpr{Inner: inner}
	}
	return inner
}

func (l *grammarLiteral) toAST() *ast.Literal {
	if l == nil {
		return nil
	}
	switch {
	case l.StringVal != nil:
		return &ast.Literal{Kind: ast.LiteralString, Str: *l.StringVal}
	case l.FloatVal != nil:
		return &ast.Literal{Kind: ast.LiteralFloat, Flt: *l.FloatVal}
	case l.IntVal != nil:
		return &ast.Literal{Kind: ast.LiteralInt, Int: *l.IntVal}
	case l.BoolVal != nil:
		return &ast.Literal{Kind: ast.LiteralBool, Bool: *l.BoolVal == "true"}
	default:
		return nil
	}
}

func attrsToMap(a *grammarAttrList) map[string]string {
	out := map[string]string{}
	if a == nil {
		return out
	}
	for _, attr := range a.Attrs {
		v := attr.Value
		if v == "" {
			v = "true"
		}
		out[attr.Key] = v
	}
	return out
}
