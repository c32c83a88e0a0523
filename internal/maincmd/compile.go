package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/schemec/lang/coreir"
	"github.com/mna/schemec/lang/expander"
	"github.com/mna/schemec/lang/reader"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, args...)
}

// CompileFiles reads, expands and compiles every top-level form in each
// file against one shared namespace, printing the resulting core IR.
func CompileFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	ns := expander.NewNamespace()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}

		data, err := reader.ReadAll(file, src)
		if err != nil {
			return printError(stdio, err)
		}

		for _, form := range introduceAll(ns, file, data) {
			expanded, err := expander.Expand(form, expander.NewContext(ns))
			if err != nil {
				return printError(stdio, err)
			}
			expr, err := coreir.Compile(expanded, ns)
			if err != nil {
				return printError(stdio, err)
			}
			fmt.Fprintln(stdio.Stdout, expr)
		}
	}
	return nil
}
