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

// Package registry is PolyGen's script registry: a closed set of named
// helpers a template invokes with `{% script "name" %}` for emission
// patterns too irregular to express as plain template text — currently
// CSV loader scaffolding, one function per target language that needs
// its own idiom for it. Helpers are plain Go closures of type
// tmpl.Helper, registered once per process and looked up by logical
// identifier (`<builtin:core>`, `<builtin:csv>`,
// `<builtin:csharp_csv>`); there is no embedded scripting runtime and
// no way to register a helper at render time.
package registry

import "github.com/ittodo/polygen/tmpl"

// RegisterAll wires every closed helper group into reg: core first,
// then CSV, then the C#-specific set. Adding a new target means adding
// one more RegisterXxx call here plus the target's TOML config.
func RegisterAll(reg *tmpl.Registry) {
	RegisterCore(reg)
	RegisterCSV(reg)
	RegisterCSharp(reg)
}
