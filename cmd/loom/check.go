package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loom-idl/loom/compiler/derive"
	"github.com/loom-idl/loom/compiler/errors"
	"github.com/loom-idl/loom/compiler/loader"
	"github.com/loom-idl/loom/internal/cli/config"
	"github.com/loom-idl/loom/internal/cli/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [definitions file]",
	Short: "Derive every definition and report derivation failures",
	Long: `Check loads a definitions file, runs the derivation pass over every
type definition in it, and reports the first derivation-time failure.
A clean exit means every definition derives.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		path, cfg, err := definitionsPath(args)
		if err != nil {
			return err
		}
		log := logger()
		defer log.Sync()

		defs, err := loader.LoadFile(path)
		if err != nil {
			return err
		}
		log.Info("loaded definitions", zap.String("path", path), zap.Int("count", len(defs)))

		reg := derive.NewRegistry()
		derived, err := reg.DeriveAll(defs)
		if err != nil {
			var de *errors.DeriveError
			if stderrors.As(err, &de) {
				ui.PrintDeriveError(os.Stderr, de, !cfg.Output.Color)
				os.Exit(1)
			}
			return err
		}
		log.Info("derivation complete", zap.Int("definitions", len(derived)))
		fmt.Printf("✓ %d definition(s) derive\n", len(derived))
		return nil
	},
}

// definitionsPath resolves the definitions file from the argument list or
// the loom.yml config.
func definitionsPath(args []string) (string, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", nil, err
	}
	if len(args) > 0 {
		return args[0], cfg, nil
	}
	return cfg.Definitions, cfg, nil
}
