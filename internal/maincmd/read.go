package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/schemec/lang/reader"
)

func (c *Cmd) Read(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ReadFiles(ctx, stdio, args...)
}

// ReadFiles reads every datum in each file in turn and prints it back out,
// one per line. A reader error aborts the whole command: there is no
// resynchronization across forms or across files.
func ReadFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}

		data, err := reader.ReadAll(file, src)
		for _, d := range data {
			fmt.Fprintln(stdio.Stdout, d)
		}
		if err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
