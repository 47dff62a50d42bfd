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

package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ittodo/polygen/schema"
)

// ReadFile reads one file's raw bytes, surfacing any failure verbatim
// as an i/o error rather than reclassifying it.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i/o error: reading %q: %w", path, err)
	}
	return data, nil
}

// WriteFile writes content to path, creating any missing parent
// directories first (the GUI/editor caller this entry point serves has
// no reason to pre-create output directories itself).
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("i/o error: creating directory for %q: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("i/o error: writing %q: %w", path, err)
	}
	return nil
}

// ImportRecord re-exports schema.ImportRecord at this package's
// boundary so callers need not import the schema package.
type ImportRecord = schema.ImportRecord

// ParseImports extracts the import statements from schemaText without
// building the full IR, for a GUI dependency-preview panel. It
// delegates entirely to schema.ParseImports.
func ParseImports(schemaText string) ([]ImportRecord, error) {
	return schema.ParseImports(schemaText)
}
