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
	"strconv"
	"strings"

	"github.com/ittodo/polygen/internal/errlist"
)

// versionMarkerPrefix is the leading-line marker Migrate reads and
// rewrites. Migration is deliberately text-level — parse a version
// marker, bump it, re-serialize — since no schema unparser exists in
// this repository; templates only ever consume the IR, they never
// produce schema source.
const versionMarkerPrefix = "// polygen:schema_version "

// Migrate rewrites every *.pg file under schemaRoot whose leading
// `// polygen:schema_version N` marker equals fromVersion, bumping it
// to toVersion. A file with no marker is treated as version 1 and only
// touched if fromVersion is 1, matching the convention that unmarked
// schema predates this versioning scheme. Files already at toVersion,
// or at any other version, are left untouched rather than erroring —
// a caller migrating a whole tree typically need not guarantee every
// file in it started at the same version.
func Migrate(schemaRoot string, fromVersion, toVersion int) error {
	var paths []string
	err := filepath.WalkDir(schemaRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, schemaExt) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("i/o error: walking schema root %q: %w", schemaRoot, err)
	}

	var errs errlist.List
	for _, path := range paths {
		if err := migrateFile(path, fromVersion, toVersion); err != nil {
			errs = errs.Append(err)
		}
	}
	return errs.ErrOrNil()
}

func migrateFile(path string, fromVersion, toVersion int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("i/o error: reading %q: %w", path, err)
	}
	text := string(data)

	lines := strings.SplitN(text, "\n", 2)
	firstLine := lines[0]
	rest := ""
	if len(lines) == 2 {
		rest = lines[1]
	}

	current := 1
	hasMarker := strings.HasPrefix(firstLine, versionMarkerPrefix)
	if hasMarker {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(firstLine, versionMarkerPrefix)))
		if err != nil {
			return fmt.Errorf("parse error: %s: malformed schema_version marker: %w", path, err)
		}
		current = n
	}
	if current != fromVersion {
		return nil
	}

	newMarker := versionMarkerPrefix + strconv.Itoa(toVersion)
	var newText string
	if hasMarker {
		newText = newMarker + "\n" + rest
	} else {
		newText = newMarker + "\n" + text
	}

	if err := os.WriteFile(path, []byte(newText), 0o644); err != nil {
		return fmt.Errorf("i/o error: writing %q: %w", path, err)
	}
	return nil
}
