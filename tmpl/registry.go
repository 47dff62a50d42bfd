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
	"fmt"

	"github.com/ittodo/polygen/targetconfig"
)

// Helper is one script-registry entry: given the IR node the current
// dot was bound from and the active target configuration,
// it returns a finished block of output text plus the SourceMapEntry
// for each line of that text. Helpers are looked up by logical
// identifier (e.g. "<builtin:csv>") from a `{% script "<builtin:csv>" %}`
// template directive; they do not recurse back into the renderer, so a
// helper cannot itself trigger an include cycle.
type Helper func(irNode any, cfg *targetconfig.Config) (string, []SourceMapEntry)

// Registry is the closed set of script helpers a render can invoke.
// Registration is static: every helper is registered up front, none at
// render time. It is populated
// once, outside the tmpl package, by registry.RegisterCore/CSV/CSharp
// and handed to the renderer — tmpl itself defines only the mechanism,
// never a concrete helper, keeping the renderer's dependency graph
// acyclic (the registry package imports tmpl, not the reverse).
type Registry struct {
	helpers map[string]Helper
}

// NewRegistry returns an empty Registry ready for Register calls.
func NewRegistry() *Registry {
	return &Registry{helpers: map[string]Helper{}}
}

// Register adds a helper under name. Registering the same name twice
// is a programming error in the registering package, not a user-facing
// one — it panics immediately rather than silently shadowing a
// previous registration.
func (r *Registry) Register(name string, h Helper) {
	if _, exists := r.helpers[name]; exists {
		panic(fmt.Sprintf("tmpl: helper %q already registered", name))
	}
	r.helpers[name] = h
}

func (r *Registry) lookup(name string) (Helper, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.helpers[name]
	return h, ok
}
