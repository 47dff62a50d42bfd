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
	"strings"

	"github.com/ittodo/polygen/filter"
	"github.com/ittodo/polygen/ir"
	"github.com/ittodo/polygen/targetconfig"
)

// includeStack is a cheap immutable cons-list snapshot of the active
// include chain: pushing an include never mutates an outer frame's
// view of the stack, since each frame keeps its own *includeStack
// head. No dynamic scoping, no global "current template" state.
type includeStack struct {
	path   string
	parent *includeStack
}

func (s *includeStack) push(path string) *includeStack {
	return &includeStack{path: path, parent: s}
}

func (s *includeStack) contains(path string) bool {
	for c := s; c != nil; c = c.parent {
		if c.path == path {
			return true
		}
	}
	return false
}

// slice returns the stack root-to-leaf, the order the source map's
// include_stack field records (outermost first).
func (s *includeStack) slice() []string {
	var rev []string
	for c := s; c != nil; c = c.parent {
		rev = append(rev, c.path)
	}
	out := make([]string, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}

// Renderer executes a parsed template tree against a bound IR value,
// producing output text plus the matching SourceMap.
type Renderer struct {
	loader *Loader
	cfg    *targetconfig.Config
	reg    *Registry
}

func NewRenderer(loader *Loader, cfg *targetconfig.Config) *Renderer {
	return &Renderer{loader: loader, cfg: cfg}
}

// WithRegistry attaches the closed script-registry helper set a
// `{% script "name" %}` directive dispatches to. A Renderer built
// without one fails any script call it encounters,
// which is the right behavior for templates that are known not to use
// the registry (e.g. unit tests exercising unrelated template
// features).
func (r *Renderer) WithRegistry(reg *Registry) *Renderer {
	r.reg = reg
	return r
}

// lineBuf accumulates one run's output plus the bookkeeping needed to
// flush a SourceMapEntry per emitted newline, blank and whitespace
// lines included.
type lineBuf struct {
	out strings.Builder
	cur strings.Builder
	sm  *SourceMap
}

func (l *lineBuf) emit(s string, file string, line int, stack []string, irPath string) {
	for _, ch := range s {
		if ch == '\n' {
			l.flush(file, line, stack, irPath)
			line++
			continue
		}
		l.cur.WriteRune(ch)
	}
}

func (l *lineBuf) flush(file string, line int, stack []string, irPath string) {
	l.out.WriteString(l.cur.String())
	l.out.WriteByte('\n')
	l.sm.push(SourceMapEntry{
		TemplateFile: file,
		TemplateLine: line,
		IncludeStack: append([]string(nil), stack...),
		IRPath:       irPath,
	})
	l.cur.Reset()
}

// emitScript splices a script helper's finished text and its own
// SourceMapEntry-per-line into the output. Helper entries carry their
// own template_file/template_line, typically the logical
// "<builtin:...>" identifier with line 0, not the calling template's
// coordinates. Any text already pending on the current output line
// (callLine/callStack) is flushed first so the helper's lines start
// cleanly on their own.
func (l *lineBuf) emitScript(text string, entries []SourceMapEntry, callFile string, callLine int, callStack []string) {
	if l.cur.Len() > 0 {
		l.flush(callFile, callLine, callStack, "")
	}
	lines := strings.Split(text, "\n")
	// A trailing "\n" in text produces one empty trailing element from
	// strings.Split; drop it so entries line up 1:1 with real lines.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		l.out.WriteString(ln)
		l.out.WriteByte('\n')
		if i < len(entries) {
			l.sm.push(entries[i])
		} else {
			l.sm.push(SourceMapEntry{TemplateFile: callFile, TemplateLine: callLine, IncludeStack: append([]string(nil), callStack...)})
		}
	}
}

// Render walks the template at templatePath against root, returning the
// generated text and its per-line SourceMap. Text after the last
// newline is appended to the output without a SourceMap entry.
func (r *Renderer) Render(templatePath string, root *Binding) (string, *SourceMap, error) {
	nodes, err := r.loader.Load(templatePath)
	if err != nil {
		return "", nil, err
	}
	lb := &lineBuf{sm: &SourceMap{}}
	scope := rootScope(root)
	stack := (*includeStack)(nil).push(templatePath)

	if err := r.renderNodes(nodes, scope, stack, templatePath, lb); err != nil {
		return "", nil, err
	}
	if lb.cur.Len() > 0 {
		lb.out.WriteString(lb.cur.String())
	}
	return lb.out.String(), lb.sm, nil
}

func (r *Renderer) renderNodes(nodes []Node, scope *Scope, stack *includeStack, file string, lb *lineBuf) error {
	for _, n := range nodes {
		if err := r.renderNode(n, scope, stack, file, lb); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(n Node, scope *Scope, stack *includeStack, file string, lb *lineBuf) error {
	switch v := n.(type) {
	case *TextNode:
		// A text line's entry records the IR path when the current IR
		// scope is non-empty: the dot's qualified name.
		lb.emit(v.Text, file, v.Line, stack.slice(), scope.dot.QName)
		return nil

	case *ExprNode:
		val, irPath, err := r.eval(v.Expr, scope)
		if err != nil {
			return wrapErr(file, v.Line, stack, err)
		}
		s, ok := val.AsString()
		if !ok {
			return &TemplateError{TemplateFile: file, Line: v.Line, IncludeStack: stack.slice(), IRPath: irPath, Message: "expression did not evaluate to a scalar value"}
		}
		lb.emit(s, file, v.Line, stack.slice(), irPath)
		return nil

	case *ForNode:
		listVal, _, err := r.eval(v.Path, scope)
		if err != nil {
			return wrapErr(file, v.Line, stack, err)
		}
		if !listVal.IsList() {
			return &TemplateError{TemplateFile: file, Line: v.Line, IncludeStack: stack.slice(), Message: "for loop path did not evaluate to a list"}
		}
		for _, item := range listVal.Items() {
			childScope := scope.child(v.Var, item)
			if err := r.renderNodes(v.Body, childScope, stack, file, lb); err != nil {
				return err
			}
		}
		return nil

	case *IfNode:
		for _, branch := range v.Branches {
			if branch.Cond == nil {
				return r.renderNodes(branch.Body, scope, stack, file, lb)
			}
			val, _, err := r.eval(branch.Cond, scope)
			if err != nil {
				return wrapErr(file, v.Line, stack, err)
			}
			if val.Truthy() {
				return r.renderNodes(branch.Body, scope, stack, file, lb)
			}
		}
		return nil

	case *IncludeNode:
		if stack.contains(v.Path) {
			return &TemplateError{TemplateFile: file, Line: v.Line, IncludeStack: stack.slice(), Message: "include cycle detected: " + v.Path}
		}
		included, err := r.loader.Load(v.Path)
		if err != nil {
			return wrapErr(file, v.Line, stack, err)
		}
		return r.renderNodes(included, scope, stack.push(v.Path), v.Path, lb)

	case *ScriptNode:
		helper, ok := r.reg.lookup(v.Name)
		if !ok {
			return &TemplateError{TemplateFile: file, Line: v.Line, IncludeStack: stack.slice(), Message: "unknown script helper " + v.Name}
		}
		text, entries := helper(scope.dot.IRNode, r.cfg)
		lb.emitScript(text, entries, file, v.Line, stack.slice())
		return nil

	default:
		return nil
	}
}

func wrapErr(file string, line int, stack *includeStack, err error) error {
	if te, ok := err.(*TemplateError); ok {
		if te.TemplateFile == "" {
			te.TemplateFile = file
		}
		if te.Line == 0 {
			te.Line = line
		}
		if len(te.IncludeStack) == 0 {
			te.IncludeStack = stack.slice()
		}
		return te
	}
	if ce, ok := err.(*targetconfig.ConfigError); ok {
		return ce
	}
	return &TemplateError{TemplateFile: file, Line: line, IncludeStack: stack.slice(), Message: err.Error()}
}

// eval resolves an expression's path and applies its filter pipeline,
// returning the resulting Binding and the IR path it traces back to
// (for SourceMapEntry.IRPath).
func (r *Renderer) eval(expr *filter.Expression, scope *Scope) (*Binding, string, error) {
	val, irPath, err := resolve(scope, expr.Path)
	if err != nil {
		return nil, "", err
	}
	if len(expr.Filters) == 0 {
		return val, irPath, nil
	}
	out, err := r.applyFilters(val, expr.Filters)
	if err != nil {
		return nil, irPath, err
	}
	return out, irPath, nil
}

func (r *Renderer) applyFilters(val *Binding, filters []filter.Filter) (*Binding, error) {
	cur := val
	for _, f := range filters {
		if f.IsContextDependent() {
			out, err := r.applyContextFilter(cur, f)
			if err != nil {
				return nil, err
			}
			cur = out
			continue
		}
		s, ok := cur.AsString()
		if !ok {
			return nil, &TemplateError{Message: "filter " + f.String() + " requires a scalar value"}
		}
		out, ok := filter.ApplyString(s, f)
		if !ok {
			return nil, &TemplateError{Message: "filter " + f.String() + " could not be applied"}
		}
		cur = Str(out)
	}
	return cur, nil
}

// applyContextFilter resolves one of the context-dependent filter
// kinds, which need the IR node a Binding carries (Binding.IRNode)
// plus, for the per-primitive fragments, the active target
// configuration.
func (r *Renderer) applyContextFilter(cur *Binding, f filter.Filter) (*Binding, error) {
	switch f.Kind {
	case filter.Count:
		if !cur.IsList() {
			return nil, &TemplateError{Message: "count filter requires a list"}
		}
		return Int(int64(len(cur.Items()))), nil

	case filter.Join:
		if !cur.IsList() {
			return nil, &TemplateError{Message: "join filter requires a list"}
		}
		parts := make([]string, 0, len(cur.Items()))
		for _, item := range cur.Items() {
			s, ok := item.AsString()
			if !ok {
				return nil, &TemplateError{Message: "join filter requires a list of scalars"}
			}
			parts = append(parts, s)
		}
		return Str(strings.Join(parts, f.Arg)), nil

	case filter.IsEmbedded:
		tref, ok := cur.IRNode.(ir.TypeRef)
		if !ok {
			return nil, &TemplateError{Message: "is_embedded filter requires a type reference"}
		}
		return Bool(ir.IsEmbeddedStruct(tref)), nil

	default:
		return r.applyTypeConfigFilter(cur, f)
	}
}

// applyTypeConfigFilter resolves the per-primitive target-config
// filters (lang_type, format, binary_read family, csv_read) against the
// TypeRef a Binding carries. Composite type references (Optional, List)
// recurse into their inner type and return the innermost primitive's
// result unchanged (lang_type on `string?` yields the native type of
// `string`); the target-config TOML contract only defines per-primitive
// fragments, so there is no composite fragment to look up. A target's
// own template decides how to wrap an Optional/List native type (e.g.
// `std::optional<T>`).
func (r *Renderer) applyTypeConfigFilter(cur *Binding, f filter.Filter) (*Binding, error) {
	tref, ok := cur.IRNode.(ir.TypeRef)
	if !ok {
		return nil, &TemplateError{Message: f.String() + " filter requires a type reference", IRPath: cur.QName}
	}
	return r.resolveTypeConfig(tref, f, cur.QName)
}

func (r *Renderer) resolveTypeConfig(tref ir.TypeRef, f filter.Filter, irPath string) (*Binding, error) {
	switch t := tref.(type) {
	case ir.PrimitiveType:
		return r.primitiveConfigResult(string(t.Kind), f, irPath)

	case ir.OptionalType:
		if f.Kind == filter.BinaryReadOption {
			return r.primitiveFragment(t.Inner, f, irPath)
		}
		return r.resolveTypeConfig(t.Inner, f, irPath)

	case ir.ListType:
		if f.Kind == filter.BinaryReadList {
			return r.primitiveFragment(t.Elem, f, irPath)
		}
		return r.resolveTypeConfig(t.Elem, f, irPath)

	case *ir.UserDefinedType:
		s, e := t.Resolved()
		switch f.Kind {
		case filter.LangType:
			if s != nil {
				return Str(s.QualifiedName()), nil
			}
			if e != nil {
				return Str(e.QualifiedName()), nil
			}
		case filter.BinaryReadStruct:
			if s == nil {
				return nil, &TemplateError{Message: "binary_read_struct filter requires a struct type reference", IRPath: irPath}
			}
			return Str(s.QualifiedName()), nil
		}
		return nil, &TemplateError{Message: f.String() + " filter has no target-config fragment for a user-defined type", IRPath: irPath}

	case ir.MapType:
		return nil, &TemplateError{Message: f.String() + " filter is not supported on map types", IRPath: irPath}

	default:
		return nil, &TemplateError{Message: "unsupported type reference for " + f.String() + " filter", IRPath: irPath}
	}
}

// primitiveFragment requires t to resolve down to a primitive (used by
// binary_read_option/binary_read_list, which read one element's worth
// of the wrapped primitive).
func (r *Renderer) primitiveFragment(t ir.TypeRef, f filter.Filter, irPath string) (*Binding, error) {
	prim, ok := t.(ir.PrimitiveType)
	if !ok {
		return nil, &TemplateError{Message: f.String() + " filter requires an Optional/List of a primitive type", IRPath: irPath}
	}
	return r.primitiveConfigResult(string(prim.Kind), f, irPath)
}

func (r *Renderer) primitiveConfigResult(kind string, f filter.Filter, irPath string) (*Binding, error) {
	switch f.Kind {
	case filter.LangType:
		v, err := r.cfg.NativeType(kind, irPath)
		if err != nil {
			return nil, err
		}
		return Str(v), nil
	case filter.Format:
		v, err := r.cfg.FormatString(kind, irPath)
		if err != nil {
			return nil, err
		}
		return Str(v), nil
	case filter.BinaryRead, filter.BinaryReadOption, filter.BinaryReadList:
		v, err := r.cfg.BinaryReadFragment(kind, irPath)
		if err != nil {
			return nil, err
		}
		return Str(v), nil
	case filter.CsvRead:
		v, err := r.cfg.CSVReadFragment(kind, irPath)
		if err != nil {
			return nil, err
		}
		return Str(v), nil
	default:
		return nil, &TemplateError{Message: "unhandled type-config filter " + f.String(), IRPath: irPath}
	}
}
