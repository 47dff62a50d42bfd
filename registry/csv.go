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

// csvBuiltin is the logical template_file identifier for the
// target-agnostic CSV scaffolding helper.
const csvBuiltin = "<builtin:csv>"

// RegisterCSV registers the CSV loader scaffolding shared by every
// target that does not need its own bespoke class shape: a per-struct
// header-row listing plus, for each field, the `csv.<P>.read`
// fragment the active target config supplies. Targets with
// a richer native shape for the same concept (C#'s
// GetHeader/FromRow/AppendRow class, see csharp.go) register their own
// helper instead of this one.
func RegisterCSV(reg *tmpl.Registry) {
	reg.Register(csvBuiltin, csvScaffoldHelper)
}

func csvScaffoldHelper(irNode any, cfg *targetconfig.Config) (string, []tmpl.SourceMapEntry) {
	s, ok := asStruct(irNode)
	if !ok {
		return "", nil
	}
	lines := []string{fmt.Sprintf("// CSV columns for %s, in declaration order:", s.QualifiedName())}
	for _, f := range s.Fields {
		kind, ok := leafPrimitiveKind(f.Type)
		if !ok {
			lines = append(lines, fmt.Sprintf("// %d: %s (embedded/composite — see target's own struct loader)", f.Ordinal, f.Name))
			continue
		}
		fragment, err := cfg.CSVReadFragment(kind, s.QualifiedName()+"."+f.Name)
		if err != nil {
			lines = append(lines, fmt.Sprintf("// %d: %s (%s) — missing csv.%s.read in target config", f.Ordinal, f.Name, kind, kind))
			continue
		}
		lines = append(lines, fmt.Sprintf("// %d: %s (%s) -> %s", f.Ordinal, f.Name, kind, fragment))
	}
	return joinHelperLines(lines, csvBuiltin, s.QualifiedName())
}

// leafPrimitiveKind unwraps Optional/List to the primitive kind a CSV
// cell ultimately holds, the same unwrapping BinaryReadOption/
// BinaryReadList apply in tmpl/renderer.go's applyTypeConfigFilter —
// CSV has no nested-structure representation, a field is either one
// flat primitive cell or it is out of this helper's scope entirely.
func leafPrimitiveKind(t ir.TypeRef) (string, bool) {
	switch v := t.(type) {
	case ir.PrimitiveType:
		return string(v.Kind), true
	case ir.OptionalType:
		return leafPrimitiveKind(v.Inner)
	case ir.ListType:
		return leafPrimitiveKind(v.Elem)
	default:
		return "", false
	}
}
