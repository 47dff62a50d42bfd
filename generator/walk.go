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

import "github.com/ittodo/polygen/ir"

// walkIR visits every Struct and Enum in linked, in declaration order
// (file order, then each file's own Order slices, recursing into
// namespaces depth-first) — the same traversal order bind.go's
// BindFile/BindNamespace/BindStruct use to build their Binding lists,
// kept separate here because Generate needs the raw *ir.Struct/*ir.Enum
// values, not their Binding projections.
func walkIR(linked *ir.IR, onStruct func(*ir.Struct), onEnum func(*ir.Enum)) {
	for _, path := range linked.FileOrder {
		f := linked.Files[path]
		walkFile(f, onStruct, onEnum)
	}
}

func walkFile(f *ir.File, onStruct func(*ir.Struct), onEnum func(*ir.Enum)) {
	for _, name := range f.StructOrder {
		walkStruct(f.Structs[name], onStruct, onEnum)
	}
	for _, name := range f.EnumOrder {
		onEnum(f.Enums[name])
	}
	for _, name := range f.NamespaceOrder {
		walkNamespace(f.Namespaces[name], onStruct, onEnum)
	}
}

func walkNamespace(n *ir.Namespace, onStruct func(*ir.Struct), onEnum func(*ir.Enum)) {
	for _, name := range n.StructOrder {
		walkStruct(n.Structs[name], onStruct, onEnum)
	}
	for _, name := range n.EnumOrder {
		onEnum(n.Enums[name])
	}
	for _, name := range n.ChildOrder {
		walkNamespace(n.Children[name], onStruct, onEnum)
	}
}

func walkStruct(s *ir.Struct, onStruct func(*ir.Struct), onEnum func(*ir.Enum)) {
	onStruct(s)
	for _, name := range s.InlineEnumOrder {
		onEnum(s.InlineEnums[name])
	}
}
