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
	"strings"

	"github.com/iancoleman/strcase"
)

// ApplyString evaluates a pure-string filter and reports false for a
// context-dependent variant. The pure/context split is a return-value
// signal rather than a panic: the renderer catches the false case and
// consults the target config instead.
func ApplyString(value string, f Filter) (string, bool) {
	switch f.Kind {
	case PascalCase:
		return strcase.ToCamel(value), true
	case SnakeCase:
		return strcase.ToSnake(value), true
	case CamelCase:
		return strcase.ToLowerCamel(value), true
	case Upper:
		return strings.ToUpper(value), true
	case Lower:
		return strings.ToLower(value), true
	case Quote:
		// Inner quotes are not escaped. Schema identifiers never
		// contain them; a documented hazard until one does.
		return `"` + value + `"`, true
	case Prefix:
		return f.Arg + value, true
	case Suffix:
		return value + f.Arg, true
	default:
		return "", false
	}
}

// ApplyPipeline runs value through every pure-string filter in
// pipeline, stopping (and reporting the offending filter) at the first
// context-dependent one — callers that can't supply IR/target context
// (e.g. ParseImports-style quick tooling) use this to fail fast rather
// than silently skip a stage.
func ApplyPipeline(value string, pipeline []Filter) (string, *Filter, error) {
	for i := range pipeline {
		out, ok := ApplyString(value, pipeline[i])
		if !ok {
			f := pipeline[i]
			return value, &f, nil
		}
		value = out
	}
	return value, nil, nil
}
