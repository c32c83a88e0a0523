package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/schemec/lang/coreir"
	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/expander"
	"github.com/mna/schemec/lang/reader"
)

func (c *Cmd) Eval(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return EvalFiles(ctx, stdio, args...)
}

// EvalFiles reads, expands, compiles and evaluates every top-level form in
// each file against one shared namespace, printing each form's results in
// turn. A form that produces zero values prints nothing; one that produces
// more than one prints each on its own line.
func EvalFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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
			vs, err := evaluator.Eval(expr, ns.RunTimeEnv)
			if err != nil {
				return printError(stdio, err)
			}
			for _, v := range vs.Slice() {
				fmt.Fprintln(stdio.Stdout, v)
			}
		}
	}
	return nil
}
