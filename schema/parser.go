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
	"github.com/alecthomas/participle/v2"

	"github.com/ittodo/polygen/schema/ast"
)

// ParseFile parses one schema source file into an ast.File. logicalPath
// is the dotted logical path the file is addressed by for imports
// (e.g. "game.common"); filename is used only for diagnostics.
func ParseFile(logicalPath, filename, source string) (*ast.File, error) {
	gf, err := schemaParser.ParseString(filename, source)
	if err != nil {
		if perr, ok := err.(participle.Error); ok {
			pos := perr.Position()
			return nil, &ParseError{
				File:   filename,
				Line:   pos.Line,
				Column: pos.Column,
				Rule:   ruleNameFromMessage(perr.Message()),
				Detail: perr.Message(),
			}
		}
		return nil, &ParseError{File: filename, Detail: err.Error()}
	}

	docIdx := ast.BuildDocCommentIndex(source)

	f := &ast.File{Path: logicalPath}
	firstLine := 0
	for _, it := range gf.Items {
		if it.Import != nil {
			f.Imports = append(f.Imports, importToAST(it.Import, filename))
			continue
		}
		node := itemToAST(it, filename, docIdx, &f.Imports)
		if node == nil {
			continue
		}
		if firstLine == 0 {
			firstLine = itemLine(it)
		}
		f.Items = append(f.Items, node)
	}
	if firstLine != 0 {
		f.Doc = docIdx.DocFor(firstLine)
	}
	return f, nil
}

func importToAST(g *grammarImport, filename string) *ast.Import {
	return &ast.Import{
		Pos:   ast.Pos{Filename: filename, Line: g.Pos.Line, Column: g.Pos.Column},
		Path:  g.Path,
		Alias: g.Alias,
	}
}

func itemLine(it *grammarItem) int {
	switch {
	case it.Namespace != nil:
		return it.Namespace.Pos.Line
	case it.Struct != nil:
		return it.Struct.Pos.Line
	case it.Enum != nil:
		return it.Enum.Pos.Line
	default:
		return 0
	}
}

// itemToAST converts one grammarItem into its ast.Item. Import
// statements found while recursing into nested namespace blocks are
// appended to fileImports rather than producing an ast.Item: imports
// are a File-scoped concept even when written inside a namespace block
// for readability, so the AST parser promotes them as it walks.
func itemToAST(it *grammarItem, filename string, docIdx *ast.DocCommentIndex, fileImports *[]*ast.Import) ast.Item {
	switch {
	case it.Namespace != nil:
		return namespaceToAST(it.Namespace, filename, docIdx, fileImports)
	case it.Struct != nil:
		return structToAST(it.Struct, filename, docIdx)
	case it.Enum != nil:
		return enumToAST(it.Enum, filename, docIdx)
	default:
		return nil
	}
}

func namespaceToAST(g *grammarNamespace, filename string, docIdx *ast.DocCommentIndex, fileImports *[]*ast.Import) *ast.Namespace {
	n := &ast.Namespace{
		Pos:  ast.Pos{Filename: filename, Line: g.Pos.Line, Column: g.Pos.Column},
		Name: g.Name,
		Doc:  docIdx.DocFor(g.Pos.Line),
	}
	for _, it := range g.Items {
		if it.Import != nil {
			*fileImports = append(*fileImports, importToAST(it.Import, filename))
			continue
		}
		if node := itemToAST(it, filename, docIdx, fileImports); node != nil {
			n.Items = append(n.Items, node)
		}
	}
	return n
}

func structToAST(g *grammarStruct, filename string, docIdx *ast.DocCommentIndex) *ast.Struct {
	s := &ast.Struct{
		Pos:        ast.Pos{Filename: filename, Line: g.Pos.Line, Column: g.Pos.Column},
		Name:       g.Name,
		Doc:        docIdx.DocFor(g.Pos.Line),
		Attributes: attrsToMap(g.Attrs),
	}
	for _, m := range g.Members {
		switch {
		case m.Field != nil:
			s.Fields = append(s.Fields, fieldToAST(m.Field, filename, docIdx))
		case m.Enum != nil:
			s.Enums = append(s.Enums, enumToAST(m.Enum, filename, docIdx))
		}
	}
	return s
}

func fieldToAST(g *grammarField, filename string, docIdx *ast.DocCommentIndex) *ast.Field {
	return &ast.Field{
		Pos:        ast.Pos{Filename: filename, Line: g.Pos.Line, Column: g.Pos.Column},
		Name:       g.Name,
		Type:       g.Type.toAST(),
		Default:    g.Default.toAST(),
		Doc:        docIdx.DocFor(g.Pos.Line),
		Attributes: attrsToMap(g.Attrs),
	}
}

func enumToAST(g *grammarEnum, filename string, docIdx *ast.DocCommentIndex) *ast.Enum {
	e := &ast.Enum{
		Pos:  ast.Pos{Filename: filename, Line: g.Pos.Line, Column: g.Pos.Column},
		Name: g.Name,
		Doc:  docIdx.DocFor(g.Pos.Line),
	}
	if g.Width != nil {
		e.Width = int(*g.Width)
	}
	for _, v := range g.Variants {
		e.Variants = append(e.Variants, ast.EnumVariant{
			Pos:  ast.Pos{Filename: filename, Line: v.Pos.Line, Column: v.Pos.Column},
			Name: v.Name,
			Tag:  v.Tag,
		})
	}
	return e
}

// ruleNameFromMessage is a best-effort mapping from participle's error
// message to a human rule name for the (file, line, column, rule)
// diagnostic shape. participle does not expose a structured rule
// identifier on participle.Error, so the message itself stands in as
// the rule description.
func ruleNameFromMessage(msg string) string {
	return msg
}

// ImportRecord is the quick-parse result used by ParseImports: a
// dependency-preview helper that does not require building the full
// IR.
type ImportRecord struct {
	Path  []string
	Alias string
}

// ParseImports parses schemaText far enough to extract import
// statements without constructing a full IR, the way a GUI
// dependency-preview panel would call it. Imports nested
// inside namespace blocks are included — ParseFile already promotes
// them to File.Imports as it walks.
func ParseImports(schemaText string) ([]ImportRecord, error) {
	f, err := ParseFile("", "<parse_imports>", schemaText)
	if err != nil {
		return nil, err
	}
	var out []ImportRecord
	for _, im := range f.Imports {
		out = append(out, ImportRecord{Path: im.Path, Alias: im.Alias})
	}
	return out, nil
}
