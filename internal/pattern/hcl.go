package pattern

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridlife/internal/ctxlog"
	"github.com/specialistvlad/gridlife/internal/grid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRoot decodes all top-level blocks of a pattern file.
type hclRoot struct {
	Patterns []*hclPattern `hcl:"pattern,block"`
	Remain   hcl.Body      `hcl:",remain"`
}

type hclPattern struct {
	Name        string         `hcl:"name,label"`
	Width       int            `hcl:"width"`
	Height      int            `hcl:"height,optional"`
	Generations int            `hcl:"generations,optional"`
	Rows        hcl.Expression `hcl:"rows"`
	Expect      hcl.Expression `hcl:"expect,optional"`
}

// newEvalContext exposes a few string helpers to pattern files, e.g.
// strrev("0011") for "1100", and the process environment as env.NAME.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
		Functions: map[string]function.Function{
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"strrev": stdlib.ReverseFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

// environment returns the process environment as a cty object.
func environment() cty.Value {
	vars := make(map[string]cty.Value)
	for _, e := range os.Environ() {
		name, value, ok := strings.Cut(e, "=")
		if ok && name != "" {
			vars[name] = cty.StringVal(value)
		}
	}
	return cty.ObjectVal(vars)
}

// parseHCL decodes every pattern block of an HCL document.
func parseHCL(ctx context.Context, parser *hclparse.Parser, src []byte, filename string) ([]Pattern, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	evalCtx := newEvalContext()
	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	patterns := make([]Pattern, 0, len(root.Patterns))
	for _, block := range root.Patterns {
		p := Pattern{
			Name:        block.Name,
			Source:      filename,
			Width:       block.Width,
			Height:      block.Height,
			Generations: block.Generations,
		}

		rows, err := rowsFromExpr(evalCtx, block.Rows, block.Width)
		if err != nil {
			return nil, fmt.Errorf("%s: pattern %q rows: %w", filename, block.Name, err)
		}
		p.Rows = rows

		if isExprDefined(block.Expect) {
			expect, err := rowsFromExpr(evalCtx, block.Expect, block.Width)
			if err != nil {
				return nil, fmt.Errorf("%s: pattern %q expect: %w", filename, block.Name, err)
			}
			p.Expect = expect
		}

		logger.Debug("Decoded HCL pattern.", "file", filename, "pattern", p.Name, "rows", len(p.Rows))
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// isExprDefined reports whether an optional attribute was present in the
// source. gohcl fills omitted optional expressions with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}

// rowsFromExpr evaluates a list of rows. Each element is either a binary
// string or a non-negative integer whose bits are the row's cells; integers
// are re-encoded as width binary digits.
func rowsFromExpr(evalCtx *hcl.EvalContext, expr hcl.Expression, width int) ([]string, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return nil, fmt.Errorf("rows must be a known list")
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("rows must be a list, got %s", ty.FriendlyName())
	}

	var rows []string
	for it := val.ElementIterator(); it.Next(); {
		idx, elem := it.Element()
		i, _ := idx.AsBigFloat().Int64()

		switch {
		case elem.IsNull():
			return nil, fmt.Errorf("element %d is null", i)
		case elem.Type() == cty.String:
			rows = append(rows, elem.AsString())
		case elem.Type() == cty.Number:
			var row uint64
			if err := gocty.FromCtyValue(elem, &row); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			if width < 1 || width > grid.MaxWidth || (width < grid.MaxWidth && row>>uint(width) != 0) {
				return nil, fmt.Errorf("element %d: %w: %d does not fit in %d columns", i, grid.ErrInvalidRowEncoding, row, width)
			}
			rows = append(rows, grid.EncodeRow(row, width))
		default:
			return nil, fmt.Errorf("element %d must be a string or number, got %s", i, elem.Type().FriendlyName())
		}
	}
	return rows, nil
}
