package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loom-idl/loom/compiler/derive"
	"github.com/loom-idl/loom/compiler/loader"
	"github.com/loom-idl/loom/runtime/schema"
)

var describeJSON bool

var describeCmd = &cobra.Command{
	Use:   "describe [definitions file]",
	Short: "Print structural descriptors for every definition",
	Long: `Describe derives every definition in a definitions file and prints the
resulting structural type descriptors. Parametric definitions print with
their type variables left abstract.`,
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
		reg := derive.NewRegistry()
		derived, err := reg.DeriveAll(defs)
		if err != nil {
			return err
		}
		log.Info("derived definitions", zap.Int("count", len(derived)))

		asJSON := describeJSON || cfg.Output.Format == "json"
		for _, d := range derived {
			// One abstract placeholder per type variable keeps parametric
			// descriptors printable.
			placeholders := make([]*schema.Type, len(d.Params))
			for i, p := range d.Params {
				placeholders[i] = schema.Named("'" + p)
			}
			desc, err := d.Descriptor(placeholders...)
			if err != nil {
				return err
			}
			if asJSON {
				out, err := json.MarshalIndent(desc, "", "  ")
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", out)
				continue
			}
			fmt.Printf("%s: %s\n", d.Name, renderType(desc))
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "print descriptors as JSON")
}

// renderType prints a descriptor in a compact single-line notation.
func renderType(t *schema.Type) string {
	switch t.Kind {
	case schema.KindList, schema.KindArray, schema.KindOption, schema.KindDict:
		return fmt.Sprintf("%s %s", renderType(t.Elem), t.Kind)
	case schema.KindTuple:
		return fmt.Sprintf("(%s * %s)", renderType(t.First), renderType(t.Second))
	case schema.KindNamed:
		return t.Name
	case schema.KindStruct:
		parts := make([]string, 0, len(t.Struct.Fields))
		for _, f := range t.Struct.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Key, renderType(f.Type)))
		}
		return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
	case schema.KindVariant:
		parts := make([]string, 0, len(t.Variant.Cases))
		for _, c := range t.Variant.Cases {
			if c.Payload != nil && c.Payload.Kind == schema.KindUnit {
				parts = append(parts, c.Key)
				continue
			}
			parts = append(parts, fmt.Sprintf("%s of %s", c.Key, renderType(c.Payload)))
		}
		return strings.Join(parts, " | ")
	default:
		return string(t.Kind)
	}
}
