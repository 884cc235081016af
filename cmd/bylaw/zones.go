package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parcelworks/bylaw/vocabulary/zone"
	"github.com/parcelworks/bylaw/zoning/registry"
)

func zonesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "zones [code]",
		Short: "List supported zones or show one zone's regulations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load()
			if err != nil {
				return fmt.Errorf("load zone registry: %w", err)
			}

			if len(args) == 1 {
				code, ok := zone.ParseCode(args[0])
				if !ok {
					return fmt.Errorf("unknown zone code %q", args[0])
				}
				rules, ok := reg.Lookup(code)
				if !ok {
					return fmt.Errorf("zone %s has no registry entry", code)
				}
				return printZone(rules, asJSON)
			}

			if asJSON {
				out := make([]registry.Rules, 0, reg.Len())
				for _, code := range reg.Codes() {
					rules, _ := reg.Lookup(code)
					out = append(out, rules)
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tCATEGORY\tMIN AREA\tMIN FRONTAGE")
			for _, code := range reg.Codes() {
				rules, _ := reg.Lookup(code)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rules.Code, rules.Name, rules.Category,
					squareMetres(rules.MinLotArea), metres(rules.MinLotFrontage))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printZone(rules registry.Rules, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	}

	fmt.Printf("%s  %s (%s)\n", rules.Code, rules.Name, rules.Category)
	fmt.Printf("  minimum lot area:     %s\n", squareMetres(rules.MinLotArea))
	fmt.Printf("  minimum lot frontage: %s\n", metres(rules.MinLotFrontage))
	fmt.Printf("  maximum height:       %s\n", metres(rules.MaxHeight))
	if rules.MaxStoreys != nil {
		fmt.Printf("  maximum storeys:      %d\n", *rules.MaxStoreys)
	}
	if len(rules.PermittedUses) > 0 {
		fmt.Printf("  permitted uses:      ")
		for _, u := range rules.PermittedUses {
			fmt.Printf(" %s", u)
		}
		fmt.Println()
	}
	return nil
}
