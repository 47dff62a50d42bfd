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
	"strconv"
	"strings"

	"github.com/ittodo/polygen/filter"
)

// parseTemplate turns raw template source into a node tree: recursive
// descent over a flat token stream.
func parseTemplate(templateFile, src string) ([]Node, error) {
	toks := tokenize(src)
	pos := 0
	nodes, err := parseBlock(templateFile, toks, &pos)
	if err != nil {
		return nil, err
	}
	if pos != len(toks) {
		return nil, &TemplateError{TemplateFile: templateFile, Message: "unexpected trailing block terminator"}
	}
	return nodes, nil
}

// parseBlock consumes tokens until it encounters a stmt tag whose
// keyword is in terminators (left unconsumed, for the caller to
// inspect) or the token stream runs out (valid only when terminators
// is empty, i.e. the top-level block).
func parseBlock(templateFile string, toks []token, pos *int, terminators ...string) ([]Node, error) {
	var nodes []Node
	for *pos < len(toks) {
		t := toks[*pos]
		switch t.kind {
		case tokText:
			nodes = append(nodes, &TextNode{Text: t.raw, Line: t.line})
			*pos++
		case tokExpr:
			expr, err := filter.ParseExpression(t.raw)
			if err != nil {
				return nil, wrapExprErr(templateFile, t.line, err)
			}
			nodes = append(nodes, &ExprNode{Expr: expr, Line: t.line})
			*pos++
		case tokStmt:
			kw, rest := splitKeyword(t.raw)
			if containsStr(terminators, kw) {
				return nodes, nil
			}
			switch kw {
			case "for":
				node, err := parseFor(templateFile, toks, pos, t.line, rest)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
			case "if":
				node, err := parseIf(templateFile, toks, pos, t.line, rest)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
			case "include":
				*pos++
				path, err := parseIncludePath(rest)
				if err != nil {
					return nil, &TemplateError{TemplateFile: templateFile, Line: t.line, Message: err.Error()}
				}
				nodes = append(nodes, &IncludeNode{Path: path, Line: t.line})
			case "script":
				*pos++
				name, err := parseQuotedArg(rest, "script requires a quoted helper name")
				if err != nil {
					return nil, &TemplateError{TemplateFile: templateFile, Line: t.line, Message: err.Error()}
				}
				nodes = append(nodes, &ScriptNode{Name: name, Line: t.line})
			case "endfor", "endif", "elif", "else":
				return nil, &TemplateError{TemplateFile: templateFile, Line: t.line, Message: "unexpected tag %" + kw + "% with no matching opening tag"}
			default:
				return nil, &TemplateError{TemplateFile: templateFile, Line: t.line, Message: "unknown tag " + strconv.Quote(kw)}
			}
		}
	}
	if len(terminators) > 0 {
		return nil, &TemplateError{TemplateFile: templateFile, Message: "unterminated block, expected one of " + strings.Join(terminators, ", ")}
	}
	return nodes, nil
}

func parseFor(templateFile string, toks []token, pos *int, line int, rest string) (Node, error) {
	*pos++
	varName, pathStr, err := splitForClause(rest)
	if err != nil {
		return nil, &TemplateError{TemplateFile: templateFile, Line: line, Message: err.Error()}
	}
	pathExpr, err := filter.ParseExpression(pathStr)
	if err != nil {
		return nil, wrapExprErr(templateFile, line, err)
	}
	body, err := parseBlock(templateFile, toks, pos, "endfor")
	if err != nil {
		return nil, err
	}
	if *pos >= len(toks) {
		return nil, &TemplateError{TemplateFile: templateFile, Line: line, Message: "missing {% endfor %}"}
	}
	*pos++ // consume endfor
	return &ForNode{Var: varName, Path: pathExpr, Body: body, Line: line}, nil
}

func parseIf(templateFile string, toks []token, pos *int, line int, rest string) (Node, error) {
	*pos++
	cond, err := filter.ParseExpression(rest)
	if err != nil {
		return nil, wrapExprErr(templateFile, line, err)
	}
	body, err := parseBlock(templateFile, toks, pos, "elif", "else", "endif")
	if err != nil {
		return nil, err
	}
	branches := []IfBranch{{Cond: cond, Body: body}}

	for *pos < len(toks) && toks[*pos].kind == tokStmt {
		kw, r := splitKeyword(toks[*pos].raw)
		switch kw {
		case "elif":
			*pos++
			c, err := filter.ParseExpression(r)
			if err != nil {
				return nil, wrapExprErr(templateFile, line, err)
			}
			b, err := parseBlock(templateFile, toks, pos, "elif", "else", "endif")
			if err != nil {
				return nil, err
			}
			branches = append(branches, IfBranch{Cond: c, Body: b})
		case "else":
			*pos++
			b, err := parseBlock(templateFile, toks, pos, "endif")
			if err != nil {
				return nil, err
			}
			branches = append(branches, IfBranch{Cond: nil, Body: b})
		default:
			goto afterLoop
		}
	}
afterLoop:
	if *pos >= len(toks) || !isKeyword(toks[*pos], "endif") {
		return nil, &TemplateError{TemplateFile: templateFile, Line: line, Message: "missing {% endif %}"}
	}
	*pos++
	return &IfNode{Branches: branches, Line: line}, nil
}

func parseIncludePath(rest string) (string, error) {
	return parseQuotedArg(rest, "include requires a quoted template path")
}

// parseQuotedArg parses the single quoted-string argument shared by
// `{% include "..." %}` and `{% script "..." %}`.
func parseQuotedArg(rest, errMsg string) (string, error) {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' {
		return "", &TemplateError{Message: errMsg}
	}
	return strconv.Unquote(rest)
}

func splitKeyword(raw string) (kw, rest string) {
	raw = strings.TrimSpace(raw)
	i := strings.IndexAny(raw, " \t")
	if i < 0 {
		return raw, ""
	}
	return raw[:i], strings.TrimSpace(raw[i+1:])
}

func splitForClause(rest string) (varName, path string, err error) {
	fields := strings.Fields(rest)
	if len(fields) < 3 || fields[1] != "in" {
		return "", "", &TemplateError{Message: "invalid for clause " + strconv.Quote(rest) + `, want "x in path"`}
	}
	return fields[0], strings.Join(fields[2:], " "), nil
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isKeyword(t token, kw string) bool {
	if t.kind != tokStmt {
		return false
	}
	k, _ := splitKeyword(t.raw)
	return k == kw
}

func wrapExprErr(templateFile string, line int, err error) error {
	return &TemplateError{TemplateFile: templateFile, Line: line, Message: err.Error()}
}
