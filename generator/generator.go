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

// Package generator ties the parser, IR, renderer and script registry
// together behind the handful of entry points cmd/polygen (or any other
// caller) actually needs: Generate, Migrate, Version, ReadFile,
// WriteFile and ParseImports. It is the only package that touches
// the filesystem layout a generation run assumes; everything below it
// (schema, ir, tmpl, targetconfig, registry) works on in-memory values
// and knows nothing about directories or file extensions.
//
// Library functions here return errors rather than logging or exiting;
// glog stays at the generation entry points and the CLI boundary.
package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/golang/glog"

	"github.com/ittodo/polygen/internal/errlist"
	"github.com/ittodo/polygen/ir"
	"github.com/ittodo/polygen/registry"
	"github.com/ittodo/polygen/schema"
	"github.com/ittodo/polygen/schema/ast"
	"github.com/ittodo/polygen/targetconfig"
	"github.com/ittodo/polygen/tmpl"
)

// schemaExt is the file extension a schema source file must carry to
// be picked up by a directory walk. Chosen to read naturally next to
// the "game.common" style logical path it maps to.
const schemaExt = ".pg"

// templateExt is the extension template files are read from.
const templateExt = ".ptpl"

// Per-target layout, rooted at schemaRoot's sibling "targets"
// directory:
//
//	targets/<target>/config.toml        -- targetconfig document
//	targets/<target>/templates/struct.ptpl
//	targets/<target>/templates/enum.ptpl
//
// Either template is optional: a target that only emits code for
// structs (or only enums) simply omits the other file.
const (
	targetsDirName    = "targets"
	configFileName    = "config.toml"
	templatesDirName  = "templates"
	structTemplateRel = "struct" + templateExt
	enumTemplateRel   = "enum" + templateExt
)

// Generate parses every schema file under schemaRoot, links it into a
// single IR, then renders one output file per struct and enum using the
// named target's templates and configuration, writing results under
// outputDir. The on-disk layout is described above; target is looked up
// as schemaRoot/../targets/<target>: a sibling "targets" directory
// next to the schema tree, keeping schema sources and target
// configuration as sibling inputs rather than nesting one inside the
// other.
func Generate(schemaRoot, target, outputDir string) error {
	log.Infof("generating target %q from schema root %q into %q", target, schemaRoot, outputDir)

	files, err := parseSchemaTree(schemaRoot)
	if err != nil {
		return err
	}

	linked, err := ir.Build(files)
	if err != nil {
		return fmt.Errorf("semantic error: %w", err)
	}

	cfg, err := loadTargetConfig(schemaRoot, target)
	if err != nil {
		return err
	}

	reg := tmpl.NewRegistry()
	registry.RegisterAll(reg)

	templatesDir := filepath.Join(targetsRoot(schemaRoot), target, templatesDirName)
	loader := tmpl.NewLoader(tmpl.FSSource{Root: templatesDir})
	renderer := tmpl.NewRenderer(loader, cfg).WithRegistry(reg)

	var errs errlist.List
	structTpl, hasStructTpl := existsRel(templatesDir, structTemplateRel)
	enumTpl, hasEnumTpl := existsRel(templatesDir, enumTemplateRel)

	walkIR(linked, func(s *ir.Struct) {
		if !hasStructTpl {
			return
		}
		if err := renderOne(renderer, structTpl, tmpl.BindStruct(s), outputDir, s.QualifiedName()); err != nil {
			errs = errs.Append(err)
		}
	}, func(e *ir.Enum) {
		if !hasEnumTpl {
			return
		}
		if err := renderOne(renderer, enumTpl, tmpl.BindEnum(e), outputDir, e.QualifiedName()); err != nil {
			errs = errs.Append(err)
		}
	})

	return errs.ErrOrNil()
}

func renderOne(r *tmpl.Renderer, templatePath string, root *tmpl.Binding, outputDir, qualifiedName string) error {
	text, sm, err := r.Render(templatePath, root)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", qualifiedName, err)
	}
	outPath := filepath.Join(outputDir, strings.ReplaceAll(qualifiedName, ".", string(filepath.Separator)))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("i/o error: creating output directory for %s: %w", qualifiedName, err)
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("i/o error: writing %s: %w", outPath, err)
	}

	mapData, err := json.Marshal(sm)
	if err != nil {
		return fmt.Errorf("encoding source map for %s: %w", qualifiedName, err)
	}
	if err := os.WriteFile(outPath+".map.json", mapData, 0o644); err != nil {
		return fmt.Errorf("i/o error: writing %s.map.json: %w", outPath, err)
	}

	log.Infof("wrote %s", outPath)
	return nil
}

func targetsRoot(schemaRoot string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(schemaRoot)), targetsDirName)
}

func loadTargetConfig(schemaRoot, target string) (*targetconfig.Config, error) {
	path := filepath.Join(targetsRoot(schemaRoot), target, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i/o error: reading target config %q: %w", path, err)
	}
	cfg, err := targetconfig.Load(data, target)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func existsRel(dir, rel string) (string, bool) {
	if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
		return "", false
	}
	return rel, true
}

// parseSchemaTree walks schemaRoot for every *.pg file, in a
// deterministic (lexicographic) order, parsing each into an *ast.File.
// A file's logical dotted path is its path relative to schemaRoot with
// the schemaExt suffix stripped and path separators replaced by dots
// (e.g. "game/common.pg" -> "game.common").
func parseSchemaTree(schemaRoot string) ([]*ast.File, error) {
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
		return nil, fmt.Errorf("i/o error: walking schema root %q: %w", schemaRoot, err)
	}

	var errs errlist.List
	files := make([]*ast.File, 0, len(paths))
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			errs = errs.Append(fmt.Errorf("i/o error: reading %q: %w", path, err))
			continue
		}
		logicalPath := pathToLogicalName(schemaRoot, path)
		af, err := schema.ParseFile(logicalPath, path, string(source))
		if err != nil {
			errs = errs.Append(err)
			continue
		}
		files = append(files, af)
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return files, nil
}

func pathToLogicalName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = strings.TrimSuffix(rel, schemaExt)
	rel = filepath.ToSlash(rel)
	return strings.ReplaceAll(rel, "/", ".")
}
