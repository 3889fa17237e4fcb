package commands

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"sbm/options"
	"sbm/state"
	"sbm/utils/debug"
)

var errArguments = errors.New("wrong number of arguments")

func optionName(cmd *cli.Command) (string, error) {
	name := cmd.Args().First()
	if len(name) == 0 {
		return "", fmt.Errorf("%w: option name is required", errArguments)
	}
	if _, ok := options.Lookup(name); !ok {
		return "", fmt.Errorf("%w: %s", options.ErrUnknownOption, name)
	}
	return name, nil
}

// List prints all options with their defaults and current values.
func List(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	store, err := env.Options()
	if err != nil {
		return err
	}
	if err := store.InitializeDefaults(); err != nil {
		return err
	}
	tree, err := optionsTree(store)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(stdout(cmd), tree)
	return err
}

func optionsTree(store *options.Store) (string, error) {
	tw := debug.NewTreeWriter()
	tw.Line(0, "%s", store.Branch().Root())
	for _, d := range options.Definitions() {
		v, err := store.Get(d.Name)
		if err != nil {
			return "", err
		}
		isDefault, err := store.IsDefault(d.Name)
		if err != nil {
			return "", err
		}

		tw.Line(1, "%s", d.Name)
		tw.TextBlock(2, "usage", d.Usage)
		if d.IsEnum() {
			tw.List(2, "choices", d.Choices)
		} else {
			tw.Field(2, "type", d.Default.Kind())
		}
		tw.Field(2, "default", options.Format(d.Name, d.Default))
		if isDefault {
			tw.Field(2, "value", options.Format(d.Name, v))
		} else {
			tw.Field(2, "value", options.Format(d.Name, v)+" (user set)")
		}
	}
	return tw.String(), nil
}

// Get prints current value of a single option.
func Get(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name, err := optionName(cmd)
	if err != nil {
		return err
	}
	store, err := env.Options()
	if err != nil {
		return err
	}
	if err := store.InitializeDefaults(); err != nil {
		return err
	}
	v, err := store.Get(name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout(cmd), options.Format(name, v))
	return err
}

// Set changes option value. It runs inside active lifecycle, so configured
// chrome directory follows the change.
func Set(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name, err := optionName(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("%w: expected NAME VALUE", errArguments)
	}
	v, err := options.ParseValue(name, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	return withAddon(env, false, func(store *options.Store) error {
		if err := store.Set(name, v); err != nil {
			return err
		}
		env.Log.Info("Option set", zap.String("name", name), zap.String("value", options.Format(name, v)))
		return nil
	})
}

// Reset returns option to its default value.
func Reset(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name, err := optionName(cmd)
	if err != nil {
		return err
	}
	return withAddon(env, false, func(store *options.Store) error {
		if err := store.Reset(name); err != nil {
			return err
		}
		env.Log.Info("Option reset to default", zap.String("name", name))
		return nil
	})
}
