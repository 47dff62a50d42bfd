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

package ast

import "strings"

// ExtractCommentContent strips comment markers from a single raw
// comment token and trims the remainder: triple slash and single slash
// line comments have their prefix stripped, block comments have both
// markers stripped, then both are trimmed.
func ExtractCommentContent(raw string) string {
	switch {
	case strings.HasPrefix(raw, "///"):
		return strings.TrimSpace(strings.TrimPrefix(raw, "///"))
	case strings.HasPrefix(raw, "//"):
		return strings.TrimSpace(strings.TrimPrefix(raw, "//"))
	case strings.HasPrefix(raw, "/*"):
		s := strings.TrimPrefix(raw, "/*")
		s = strings.TrimSuffix(s, "*/")
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(raw)
	}
}

// DocCommentIndex maps the 1-based line number of a declaration to its
// attached doc comment: the contiguous run of comment lines
// immediately preceding it, with no blank-line separation.
type DocCommentIndex struct {
	byEndLine map[int]string
}

// BuildDocCommentIndex scans raw schema source text and produces a
// DocCommentIndex. It is a standalone lexical pass, independent of the
// participle grammar, because the grammar elides comments entirely
// (see schema/grammar.go) — this keeps comment-adjacency rules (a
// line-based, blank-line-sensitive concern) out of the parse grammar.
func BuildDocCommentIndex(source string) *DocCommentIndex {
	lines := strings.Split(source, "\n")
	idx := &DocCommentIndex{byEndLine: map[int]string{}}

	var run []string
	flush := func(attachLine int) {
		if len(run) == 0 {
			return
		}
		idx.byEndLine[attachLine] = strings.Join(run, "\n")
		run = nil
	}

	inBlock := false
	var blockLines []string
	for i, raw := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		if inBlock {
			blockLines = append(blockLines, raw)
			if strings.Contains(raw, "*/") {
				inBlock = false
				run = append(run, ExtractCommentContent(strings.Join(blockLines, "\n")))
				blockLines = nil
			}
			continue
		}

		switch {
		case trimmed == "":
			// Blank line: breaks any run in progress without
			// attaching it (no following declaration line seen yet).
			run = nil
		case strings.HasPrefix(trimmed, "/*"):
			if strings.Contains(trimmed, "*/") {
				run = append(run, ExtractCommentContent(trimmed))
			} else {
				inBlock = true
				blockLines = []string{raw}
			}
		case strings.HasPrefix(trimmed, "//"):
			run = append(run, ExtractCommentContent(trimmed))
		default:
			// A non-comment, non-blank line: if a comment run is in
			// progress, it attaches to this line (the next
			// declaration line) then is cleared.
			flush(lineNo)
		}
	}
	return idx
}

// DocFor returns the doc comment attached to the declaration whose
// first token starts at line, or "" if none.
func (d *DocCommentIndex) DocFor(line int) string {
	if d == nil {
		return ""
	}
	return d.byEndLine[line]
}

// ParseDottedPath splits a dotted identifier path ("game.common") into
// its ordered segments. The grammar already hands the parser a
// []string; this centralizes the splitting behavior for quick-parse
// helpers that work from raw text.
func ParseDottedPath(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
