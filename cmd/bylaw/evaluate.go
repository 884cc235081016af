package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parcelworks/bylaw/provision"
	"github.com/parcelworks/bylaw/zoning"
	"github.com/parcelworks/bylaw/zoning/registry"
)

// geometryFlags maps command line flags onto a LotGeometry. Only flags the
// user actually set become values; everything else stays absent.
type geometryFlags struct {
	area      float64
	frontage  float64
	depth     float64
	corner    bool
	frontYard float64
	height    float64
}

func (g *geometryFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&g.area, "area", 0, "Lot area in square metres")
	cmd.Flags().Float64Var(&g.frontage, "frontage", 0, "Lot frontage in metres")
	cmd.Flags().Float64Var(&g.depth, "depth", 0, "Lot depth in metres")
	cmd.Flags().BoolVar(&g.corner, "corner", false, "Lot is a corner lot")
	cmd.Flags().Float64Var(&g.frontYard, "existing-front-yard", 0, "Existing front yard in metres (suffix-zero zones)")
	cmd.Flags().Float64Var(&g.height, "height", 0, "Proposed building height in metres")
}

func (g *geometryFlags) geometry(cmd *cobra.Command) zoning.LotGeometry {
	geom := zoning.LotGeometry{CornerLot: g.corner}
	if cmd.Flags().Changed("area") {
		geom.AreaM2 = zoning.Float64(g.area)
	}
	if cmd.Flags().Changed("frontage") {
		geom.FrontageM = zoning.Float64(g.frontage)
	}
	if cmd.Flags().Changed("depth") {
		geom.DepthM = zoning.Float64(g.depth)
	}
	if cmd.Flags().Changed("existing-front-yard") {
		geom.ExistingFrontYardM = zoning.Float64(g.frontYard)
	}
	if cmd.Flags().Changed("height") {
		geom.ProposedHeightM = zoning.Float64(g.height)
	}
	return geom
}

// newEvaluator builds the engine, with provision overrides when a
// provisions file is given.
func newEvaluator(provisionsPath string) (*zoning.Evaluator, error) {
	reg, err := registry.Load()
	if err != nil {
		return nil, fmt.Errorf("load zone registry: %w", err)
	}
	ev := &zoning.Evaluator{Registry: reg}
	if provisionsPath != "" {
		set, err := provision.LoadFile(provisionsPath)
		if err != nil {
			return nil, err
		}
		ev.Overrides = set
	}
	return ev, nil
}

func evaluateCmd() *cobra.Command {
	var (
		geom           geometryFlags
		provisionsPath string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <designation>",
		Short: "Evaluate a zone designation against lot dimensions",
		Example: `  bylaw evaluate RL3 --area 700 --frontage 19 --depth 37
  bylaw evaluate "RL2-0" --area 1898.52 --existing-front-yard 9.5 --height 6.5
  bylaw evaluate "RL3 SP:1" --provisions provisions.yaml --area 600`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := newEvaluator(provisionsPath)
			if err != nil {
				return err
			}

			res, err := ev.Evaluate(args[0], geom.geometry(cmd))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(res)
			return nil
		},
	}

	geom.register(cmd)
	cmd.Flags().StringVar(&provisionsPath, "provisions", "", "Special provisions YAML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON instead of a report")

	return cmd
}

// printResult renders a human-readable report. Absent values print as
// "n/a"; the engine never substitutes defaults for them.
func printResult(res *zoning.DevelopmentPotential) {
	fmt.Printf("Zone %s (%s)\n", res.Designation, res.ZoneName)

	if res.MeetsMinimumRequirements {
		fmt.Println("Status: meets minimum requirements")
	} else {
		fmt.Println("Status: VIOLATIONS")
		for _, v := range res.Violations {
			fmt.Printf("  ✗ %s\n", v)
		}
	}
	for _, w := range res.Warnings {
		fmt.Printf("  ! %s\n", w)
	}

	fmt.Println("\nSetbacks:")
	fmt.Printf("  front:          %s\n", metres(res.Setbacks.Front))
	if res.Setbacks.FrontMax != nil {
		fmt.Printf("  front maximum:  %s\n", metres(res.Setbacks.FrontMax))
	}
	fmt.Printf("  interior side:  %s\n", metres(res.Setbacks.InteriorSide))
	fmt.Printf("  rear:           %s\n", metres(res.Setbacks.Rear))
	if res.Setbacks.Flankage != nil {
		fmt.Printf("  flankage:       %s\n", metres(res.Setbacks.Flankage))
	}

	fmt.Println("\nLimits:")
	if res.CoverageNoMaximum {
		fmt.Println("  lot coverage:   no maximum")
	} else {
		fmt.Printf("  lot coverage:   %s", percent(res.MaxCoveragePercent))
		if res.MaxCoverageAreaM2 != nil {
			fmt.Printf(" (%s)", squareMetres(res.MaxCoverageAreaM2))
		}
		fmt.Println()
	}
	fmt.Printf("  floor area:     %s", squareMetres(res.MaxFloorAreaM2))
	if res.MaxFAR != nil {
		fmt.Printf(" (FAR %.2f)", *res.MaxFAR)
	}
	fmt.Println()
	fmt.Printf("  height:         %s\n", metres(res.MaxHeightM))
	if res.MaxStoreys != nil {
		fmt.Printf("  storeys:        %d\n", *res.MaxStoreys)
	}

	fmt.Println("\nBuildable envelope:")
	fmt.Printf("  usable frontage: %s\n", metres(res.UsableFrontageM))
	fmt.Printf("  usable depth:    %s\n", metres(res.UsableDepthM))
	fmt.Printf("  buildable area:  %s\n", squareMetres(res.BuildableAreaM2))
	if res.EfficiencyRatio != nil {
		fmt.Printf("  efficiency:      %.0f%%\n", *res.EfficiencyRatio*100)
	}

	if fb := res.FinalBuildable; fb != nil && fb.FinalBuildableFt2 != nil {
		fmt.Println("\nFinal buildable estimate:")
		fmt.Printf("  method:     %s (confidence %s)\n", fb.Method, fb.Confidence)
		fmt.Printf("  floor area: %.2f m² (%.2f sq ft)\n", *fb.FinalBuildableM2, *fb.FinalBuildableFt2)
		if fb.Note != "" {
			fmt.Printf("  note:       %s\n", fb.Note)
		}
	}

	if res.PotentialUnits != nil {
		fmt.Printf("\nPotential units: %d\n", *res.PotentialUnits)
	}
	if len(res.PermittedUses) > 0 {
		uses := make([]string, 0, len(res.PermittedUses))
		for _, u := range res.PermittedUses {
			uses = append(uses, string(u))
		}
		fmt.Printf("Permitted uses: %s\n", strings.Join(uses, ", "))
	}
}

func metres(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f m", *v)
}

func squareMetres(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f m²", *v)
}

func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *v)
}
