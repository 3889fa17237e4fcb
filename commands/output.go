// Package commands implements sbm subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sbm/state"
)

// openOutput returns destination named by the first free argument or
// stdout.
func openOutput(ctx context.Context, cmd *cli.Command, first int) (io.WriteCloser, string, error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > first+1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[first+1:]))
	}

	fname := cmd.Args().Get(first)
	if len(fname) == 0 {
		return nopCloser{stdout(cmd)}, "STDOUT", nil
	}
	out, err := os.Create(fname)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return out, fname, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
