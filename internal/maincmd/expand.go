package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/schemec/lang/expander"
	"github.com/mna/schemec/lang/reader"
)

func (c *Cmd) Expand(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ExpandFiles(ctx, stdio, args...)
}

// ExpandFiles reads every top-level form in each file and fully expands it
// against one shared namespace, printing the expanded syntax. No top-level
// form adds a binding to that namespace (define-syntaxes and define-values
// are rejected outside a body), so a let-syntax macro in one file is not
// visible to the files that follow it.
func ExpandFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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
			fmt.Fprintln(stdio.Stdout, expanded)
		}
	}
	return nil
}
