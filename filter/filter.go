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

// Package filter is the closed filter sum type of the template
// language: the pure-string variants evaluated here, the
// context-dependent variants left for the renderer (tmpl package) to
// resolve against the IR and target configuration. The set stays a
// closed sum rather than an open registry — an open one would leave
// the target configs under-specified — so every variant this project
// will ever support is named in Kind below.
package filter

import "fmt"

// Kind is one of the closed filter variants.
type Kind int

const (
	PascalCase Kind = iota
	SnakeCase
	CamelCase
	Upper
	Lower
	Quote
	Prefix
	Suffix

	// Context-dependent variants: apply.go always reports these as
	// "not yet resolved"; the renderer resolves them (tmpl/renderer.go).
	LangType
	Format
	Count
	Join
	BinaryRead
	BinaryReadOption
	BinaryReadList
	BinaryReadStruct
	CsvRead
	IsEmbedded
)

// names is the closed mapping between a filter's template-source
// spelling (snake_case, as in `| pascal_case | quote`) and its Kind.
var names = map[string]Kind{
	"pascal_case": PascalCase,
	"snake_case":  SnakeCase,
	"camel_case":  CamelCase,
	"upper":       Upper,
	"lower":       Lower,
	"quote":       Quote,
	"prefix":      Prefix,
	"suffix":      Suffix,

	"lang_type":          LangType,
	"format":             Format,
	"count":              Count,
	"join":               Join,
	"binary_read":        BinaryRead,
	"binary_read_option": BinaryReadOption,
	"binary_read_list":   BinaryReadList,
	"binary_read_struct": BinaryReadStruct,
	"csv_read":           CsvRead,
	"is_embedded":        IsEmbedded,
}

// arity is how many string-literal arguments a filter's parenthesized
// argument list must carry: Prefix/Suffix/Join take exactly one,
// everything else takes none.
var arity = map[Kind]int{
	Prefix: 1,
	Suffix: 1,
	Join:   1,
}

// Filter is one parsed pipeline stage: a Kind plus its argument, if the
// Kind takes one (empty string otherwise).
type Filter struct {
	Kind Kind
	Arg  string
}

// IsContextDependent reports whether f needs the full IR + target
// configuration to evaluate, as opposed to only the current string.
func (f Filter) IsContextDependent() bool {
	switch f.Kind {
	case LangType, Format, Count, Join, BinaryRead, BinaryReadOption, BinaryReadList, BinaryReadStruct, CsvRead, IsEmbedded:
		return true
	default:
		return false
	}
}

func (f Filter) String() string {
	for n, k := range names {
		if k == f.Kind {
			if f.Arg != "" {
				return fmt.Sprintf("%s(%q)", n, f.Arg)
			}
			return n
		}
	}
	return "unknown-filter"
}

// NewFilter builds a Filter from a parsed name and argument list,
// reporting unknown filter names and arity mismatches.
func NewFilter(name string, args []string) (Filter, error) {
	kind, ok := names[name]
	if !ok {
		return Filter{}, &UnknownFilterError{Name: name}
	}
	want := arity[kind]
	if len(args) != want {
		return Filter{}, &ArityError{Name: name, Want: want, Got: len(args)}
	}
	f := Filter{Kind: kind}
	if want == 1 {
		f.Arg = args[0]
	}
	return f, nil
}

// UnknownFilterError reports a filter name outside the closed set.
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("template error: unknown filter %q", e.Name)
}

// ArityError reports a filter applied with the wrong number of
// arguments.
type ArityError struct {
	Name      string
	Want, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("template error: filter %q takes %d argument(s), got %d", e.Name, e.Want, e.Got)
}
