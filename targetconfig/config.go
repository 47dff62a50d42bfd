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

// Package targetconfig decodes the per-target-language TOML
// configuration: the primitive-to-native-type map, format strings,
// binary-IO and CSV code fragments, and the `attribute_map.embedded`
// tag. No filter reads that tag: is_embedded checks the referenced
// struct's own `embedded` attribute instead.
package targetconfig

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
)

// BinaryIO is one primitive kind's `binary_io.<P>` table: the read and
// write code fragments used by the BinaryRead family of context
// filters.
type BinaryIO struct {
	Read  string `toml:"read"`
	Write string `toml:"write"`
}

// CSVIO is one primitive kind's `csv.<P>` table: the CsvRead code
// fragment.
type CSVIO struct {
	Read string `toml:"read"`
}

// AttributeMap carries the decoded `attribute_map.embedded` boolean
// tag. The embedded-struct check (ir.IsEmbeddedStruct, behind the
// is_embedded filter) does not consult it.
type AttributeMap struct {
	Embedded bool `toml:"embedded"`
}

// raw is the shape decoded directly off the TOML document, before a
// specific target's overrides (`[targets.<name>]`) are merged in.
type raw struct {
	Primitives   map[string]string   `toml:"primitives"`
	Format       map[string]string   `toml:"format"`
	BinaryIO     map[string]BinaryIO `toml:"binary_io"`
	CSV          map[string]CSVIO    `toml:"csv"`
	AttributeMap AttributeMap        `toml:"attribute_map"`
	Targets      map[string]raw      `toml:"targets"`
}

// Config is one target language's fully resolved configuration: the
// document's top-level tables with that target's `[targets.<name>]`
// overrides merged in, key by key.
type Config struct {
	Target       string
	Primitives   map[string]string
	Format       map[string]string
	BinaryIO     map[string]BinaryIO
	CSV          map[string]CSVIO
	AttributeMap AttributeMap
}

// Load decodes a target-configuration TOML document and resolves it
// for one target, merging `[targets.<target>]` overrides on top of the
// document's base tables (an override replaces a key wholesale; it does
// not merge nested sub-tables deeper than one level, mirroring how the
// schema sketch's per-target tables are written as complete overrides).
func Load(data []byte, target string) (*Config, error) {
	var r raw
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("config error: decoding target configuration: %w", err)
	}

	cfg := &Config{
		Target:       target,
		Primitives:   maps.Clone(r.Primitives),
		Format:       maps.Clone(r.Format),
		BinaryIO:     maps.Clone(r.BinaryIO),
		CSV:          maps.Clone(r.CSV),
		AttributeMap: r.AttributeMap,
	}
	if cfg.Primitives == nil {
		cfg.Primitives = map[string]string{}
	}
	if cfg.Format == nil {
		cfg.Format = map[string]string{}
	}
	if cfg.BinaryIO == nil {
		cfg.BinaryIO = map[string]BinaryIO{}
	}
	if cfg.CSV == nil {
		cfg.CSV = map[string]CSVIO{}
	}

	if override, ok := r.Targets[target]; ok {
		maps.Copy(cfg.Primitives, override.Primitives)
		maps.Copy(cfg.Format, override.Format)
		maps.Copy(cfg.BinaryIO, override.BinaryIO)
		maps.Copy(cfg.CSV, override.CSV)
		if override.AttributeMap.Embedded {
			cfg.AttributeMap.Embedded = true
		}
	}

	return cfg, nil
}

// ConfigError reports a missing key in the target configuration for a
// primitive/filter required during render.
type ConfigError struct {
	Filter  string
	IRPath  string
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: filter %q at %q: missing key %q", e.Filter, e.IRPath, e.Missing)
}

// NativeType returns the `primitives.<P>` native type name for kind,
// or a *ConfigError if the key is absent (the LangType filter's
// primary data source).
func (c *Config) NativeType(kind string, irPath string) (string, error) {
	v, ok := c.Primitives[kind]
	if !ok {
		return "", &ConfigError{Filter: "lang_type", IRPath: irPath, Missing: "primitives." + kind}
	}
	return v, nil
}

// FormatString returns the `format.<P>` format string for kind.
func (c *Config) FormatString(kind string, irPath string) (string, error) {
	v, ok := c.Format[kind]
	if !ok {
		return "", &ConfigError{Filter: "format", IRPath: irPath, Missing: "format." + kind}
	}
	return v, nil
}

// BinaryReadFragment returns the `binary_io.<P>.read` code fragment.
func (c *Config) BinaryReadFragment(kind string, irPath string) (string, error) {
	v, ok := c.BinaryIO[kind]
	if !ok || v.Read == "" {
		return "", &ConfigError{Filter: "binary_read", IRPath: irPath, Missing: "binary_io." + kind + ".read"}
	}
	return v.Read, nil
}

// BinaryWriteFragment returns the `binary_io.<P>.write` code fragment.
func (c *Config) BinaryWriteFragment(kind string, irPath string) (string, error) {
	v, ok := c.BinaryIO[kind]
	if !ok || v.Write == "" {
		return "", &ConfigError{Filter: "binary_write", IRPath: irPath, Missing: "binary_io." + kind + ".write"}
	}
	return v.Write, nil
}

// CSVReadFragment returns the `csv.<P>.read` code fragment.
func (c *Config) CSVReadFragment(kind string, irPath string) (string, error) {
	v, ok := c.CSV[kind]
	if !ok || v.Read == "" {
		return "", &ConfigError{Filter: "csv_read", IRPath: irPath, Missing: "csv." + kind + ".read"}
	}
	return v.Read, nil
}
