package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loom-idl/loom/compiler/derive"
	"github.com/loom-idl/loom/compiler/loader"
	"github.com/loom-idl/loom/runtime/wire"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <type> [wire file]",
	Short: "Decode a JSON wire value against a type and print it normalized",
	Long: `Decode reads a wire value in JSON form (from a file or stdin), decodes
it with the named definition's derived decoder, then re-encodes and prints
the result. A failure prints the decoder's diagnostic; success proves the
value round-trips.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		typeName := args[0]
		_, cfg, err := definitionsPath(nil)
		if err != nil {
			return err
		}

		var data []byte
		if len(args) > 1 {
			data, err = os.ReadFile(args[1])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		defs, err := loader.LoadFile(cfg.Definitions)
		if err != nil {
			return err
		}
		reg := derive.NewRegistry()
		if _, err := reg.DeriveAll(defs); err != nil {
			return err
		}
		d, ok := reg.Lookup(typeName)
		if !ok {
			return fmt.Errorf("no definition named %q in %s", typeName, cfg.Definitions)
		}

		w, err := wire.FromJSON(data)
		if err != nil {
			return err
		}
		v, err := d.Decode(w)
		if err != nil {
			return fmt.Errorf("decode %s: %w", typeName, err)
		}
		normalized, err := d.Encode(v)
		if err != nil {
			return err
		}
		out, err := normalized.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", out)
		return nil
	},
}
