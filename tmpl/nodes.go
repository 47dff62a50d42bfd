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

import "github.com/ittodo/polygen/filter"

// Node is one element of a parsed template's body: text, an
// expression, iteration, a conditional, an include or a script call.
type Node interface {
	nodeLine() int
}

// TextNode is a run of verbatim template text between two delimiters,
// possibly spanning several physical template lines. The renderer
// finalizes one output line per '\n' it contains.
type TextNode struct {
	Text string
	Line int // 1-based line the run starts on
}

func (n *TextNode) nodeLine() int { return n.Line }

// ExprNode is a `{{ expr }}` placeholder. Its result is inlined into
// the current output line, never breaking it.
type ExprNode struct {
	Expr *filter.Expression
	Line int
}

func (n *ExprNode) nodeLine() int { return n.Line }

// ForNode is a `{% for x in path %} … {% endfor %}` block. The body is
// rendered once per element with x bound in a child scope, in IR
// declaration order.
type ForNode struct {
	Var  string
	Path *filter.Expression
	Body []Node
	Line int
}

func (n *ForNode) nodeLine() int { return n.Line }

// IfBranch is one `if`/`elif`/`else` arm. Cond is nil for the trailing
// `else` arm.
type IfBranch struct {
	Cond *filter.Expression
	Body []Node
}

// IfNode is a `{% if %} … {% elif %} … {% else %} … {% endif %}`
// block.
type IfNode struct {
	Branches []IfBranch
	Line     int
}

func (n *IfNode) nodeLine() int { return n.Line }

// IncludeNode is a `{% include "path" %}` directive.
type IncludeNode struct {
	Path string
	Line int
}

func (n *IncludeNode) nodeLine() int { return n.Line }

// ScriptNode is a `{% script "name" %}` directive invoking one of the
// closed script-registry helpers against the current dot. Unlike Include, a script call does not walk a
// template tree — the helper returns finished text plus its own
// source-map entries directly.
type ScriptNode struct {
	Name string
	Line int
}

func (n *ScriptNode) nodeLine() int { return n.Line }
