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

package ir

import "fmt"

// SemanticError reports a schema-level problem found during linking:
// duplicate names, duplicate enum tags, optional-of-optional, cyclic
// imports, unresolved type references. Location is the defining site;
// for unresolved references Searched records the scope chain that was
// probed.
type SemanticError struct {
	File     string
	Line     int
	Column   int
	Message  string
	Name     string   // the offending/unresolved identifier, if any
	Searched []string // scopes searched, for unresolved-reference errors
}

func (e *SemanticError) Error() string {
	loc := e.File
	if e.Line != 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	}
	if len(e.Searched) > 0 {
		return fmt.Sprintf("semantic error: %s: %s (searched: %v)", loc, e.Message, e.Searched)
	}
	return fmt.Sprintf("semantic error: %s: %s", loc, e.Message)
}
