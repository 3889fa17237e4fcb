package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sbm/css"
	"sbm/state"
	"sbm/utils/debug"
)

// Compile outputs stylesheet (or its locator) for stored options.
func Compile(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	store, err := env.Options()
	if err != nil {
		return err
	}
	if err := store.InitializeDefaults(); err != nil {
		return err
	}
	o, err := store.Options()
	if err != nil {
		return err
	}
	sheet := env.Compiler().Compile(o)
	env.Rpt.StoreData("stylesheet.css", []byte(sheet.Text))

	data := sheet.Text + "\n"
	switch {
	case cmd.Bool("check"):
		sum, err := css.NewInspector(env.Log).Inspect(sheet.Text)
		if err != nil {
			return fmt.Errorf("generated stylesheet does not parse: %w", err)
		}
		data = summaryTree(sum)
	case cmd.Bool("locator"):
		data = sheet.Locator + "\n"
	}

	out, fname, err := openOutput(ctx, cmd, 0)
	if err != nil {
		return err
	}
	defer out.Close()

	env.Log.Debug("Outputing stylesheet", zap.String("file", fname), zap.Int("size", len(sheet.Text)))
	if _, err := out.Write([]byte(data)); err != nil {
		return fmt.Errorf("unable to write stylesheet: %w", err)
	}
	return nil
}

func summaryTree(sum *css.Summary) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "stylesheet")
	tw.TextBlock(1, "namespace", sum.Namespace)
	tw.TextBlock(1, "document", sum.Document)
	tw.List(1, "hidden", sum.Hidden)
	tw.Line(1, "rules (%d)", len(sum.Other))
	for _, r := range sum.Other {
		tw.Line(2, "- %s", r.Selectors[0])
		for _, sel := range r.Selectors[1:] {
			tw.Line(3, "%s", sel)
		}
		for _, name := range sortedKeys(r.Declarations) {
			tw.Field(3, name, r.Declarations[name])
		}
	}
	return tw.String()
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
