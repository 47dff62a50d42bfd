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
	"os"
	"path/filepath"
)

// Source reads raw template text by logical path. FSSource is the only
// implementation needed for a CLI/GUI generation run; tests supply a
// map-backed Source instead of touching the filesystem.
type Source interface {
	Read(path string) (string, error)
}

// FSSource resolves template paths relative to Root on the local
// filesystem. Template files are read once and cached in memory for
// the duration of a run; the caching half of that lives in Loader,
// this type only does the read.
type FSSource struct {
	Root string
}

func (s FSSource) Read(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, path))
	if err != nil {
		return "", fmt.Errorf("i/o error: reading template %q: %w", path, err)
	}
	return string(data), nil
}

// MapSource is an in-memory Source, used by tests and by callers that
// have already loaded template text some other way.
type MapSource map[string]string

func (s MapSource) Read(path string) (string, error) {
	text, ok := s[path]
	if !ok {
		return "", fmt.Errorf("i/o error: no such template %q", path)
	}
	return text, nil
}

// Loader reads and parses template files, caching the parsed node tree
// per logical path for the duration of one generation run. Include-
// cycle detection is the renderer's job (it walks the live include
// stack, a cheap cons-list), not the Loader's: the same
// template legitimately appears more than once in a render when two
// unrelated branches both include it.
type Loader struct {
	src   Source
	cache map[string][]Node
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src, cache: map[string][]Node{}}
}

// Load returns the parsed node tree for path, parsing and caching it on
// first use.
func (l *Loader) Load(path string) ([]Node, error) {
	if nodes, ok := l.cache[path]; ok {
		return nodes, nil
	}
	text, err := l.src.Read(path)
	if err != nil {
		return nil, err
	}
	nodes, err := parseTemplate(path, text)
	if err != nil {
		return nil, err
	}
	l.cache[path] = nodes
	return nodes, nil
}
