// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// ParseResult is a decoded value together with the unified CUE value it came
// from.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// ParseAndDecode compiles schema, unifies data with the definition at
// schemaPath (for example "#Config"), validates and decodes the result into T.
// Errors in user data are reported with the filename and field path.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	prefix := filename
	if o.bareErrors {
		prefix = ""
	}

	if err := CheckFileSize(data, o.maxFileSize, prefix); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if err := userValue.Err(); err != nil {
		return nil, FormatError(err, prefix)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, prefix)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, prefix)
	}
	return &ParseResult[T]{Value: &result, Unified: unified}, nil
}

// Encode renders v as formatted CUE source. A struct is written as top-level
// fields without enclosing braces.
func Encode(v any) ([]byte, error) {
	value := cuecontext.New().Encode(v)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("encode CUE value: %w", err)
	}
	node := value.Syntax(cue.Concrete(true))
	if st, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: st.Elts}
	}
	src, err := format.Node(node)
	if err != nil {
		return nil, fmt.Errorf("format CUE value: %w", err)
	}
	return src, nil
}
