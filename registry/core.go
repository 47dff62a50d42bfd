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
	"strings"

	"github.com/ittodo/polygen/ir"
	"github.com/ittodo/polygen/targetconfig"
	"github.com/ittodo/polygen/tmpl"
)

// coreBuiltin is the logical template_file identifier every core
// helper's source-map entries carry.
const coreBuiltin = "<builtin:core>"

// RegisterCore registers the helpers every target can use regardless
// of its CSV/binary-IO specifics: currently a doc-comment banner
// emitted above a generated type. Name resolution and type unwrapping
// are already exposed through the ir package, so the core group is
// limited to the one piece of generated text every target wants and
// none of them have a reason to spell differently.
func RegisterCore(reg *tmpl.Registry) {
	reg.Register(coreBuiltin, bannerHelper)
}

func bannerHelper(irNode any, _ *targetconfig.Config) (string, []tmpl.SourceMapEntry) {
	s, ok := asStruct(irNode)
	if !ok {
		return "", nil
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("// %s", s.QualifiedName()))
	if s.Doc != "" {
		for _, docLine := range strings.Split(s.Doc, "\n") {
			lines = append(lines, "// "+docLine)
		}
	}
	return joinHelperLines(lines, coreBuiltin, s.QualifiedName())
}

// asStruct recovers the *ir.Struct a ScriptNode's current dot was
// bound from. Script helpers only make sense against a struct-shaped
// render root (the CSV/binary loader scaffolding they emit is always
// struct-scoped), so every helper in this package starts with this
// same guard.
func asStruct(irNode any) (*ir.Struct, bool) {
	s, ok := irNode.(*ir.Struct)
	return s, ok
}

// joinHelperLines is the shared tail of every helper in this package:
// it turns a slice of already-rendered lines into the (text, entries)
// pair tmpl.Helper must return, one SourceMapEntry per line, all
// sharing the same logical template_file and template_line 0, with
// irPath set to the struct the helper was invoked against.
func joinHelperLines(lines []string, builtin, irPath string) (string, []tmpl.SourceMapEntry) {
	entries := make([]tmpl.SourceMapEntry, len(lines))
	for i := range lines {
		entries[i] = tmpl.SourceMapEntry{TemplateFile: builtin, TemplateLine: 0, IRPath: irPath}
	}
	return strings.Join(lines, "\n") + "\n", entries
}
