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

import "fmt"

// TemplateError reports a problem evaluating a template: unknown
// filter name, arity mismatch, include cycle, undefined path. The
// active include stack and IR path are attached when known — the same
// data the source map would have recorded for the failing line.
type TemplateError struct {
	Message      string
	TemplateFile string
	Line         int
	IncludeStack []string
	IRPath       string
}

func (e *TemplateError) Error() string {
	loc := e.TemplateFile
	if e.Line != 0 {
		loc = fmt.Sprintf("%s:%d", e.TemplateFile, e.Line)
	}
	s := fmt.Sprintf("template error: %s: %s", loc, e.Message)
	if len(e.IncludeStack) > 0 {
		s += fmt.Sprintf(" (include stack: %v)", e.IncludeStack)
	}
	if e.IRPath != "" {
		s += fmt.Sprintf(" (ir path: %s)", e.IRPath)
	}
	return s
}
