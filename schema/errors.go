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

package schema

import "fmt"

// ParseError is a grammar mismatch located at (file, line, column).
type ParseError struct {
	File   string
	Line   int
	Column int
	Rule   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Rule, e.Detail)
}
