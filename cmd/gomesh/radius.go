package main

import (
	"fmt"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	radiusVertices []uint
	radiusClean    bool
)

var radiusCmd = &cobra.Command{
	Use:   "radius [file]",
	Short: "Fit a circle through mesh vertices",
	Long: `Fit a circle through the first, middle and last of the given vertices and
report how far all of them deviate from it. List the vertices in order along
the arc; vertex indices refer to the mesh after --clean when it is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runRadius,
}

func init() {
	rootCmd.AddCommand(radiusCmd)

	radiusCmd.Flags().UintSliceVar(&radiusVertices, "vertices", nil, "Vertex indices along the arc, at least 3")
	radiusCmd.Flags().BoolVar(&radiusClean, "clean", false, "Remove duplicate vertices first")
	radiusCmd.MarkFlagRequired("vertices")
}

func runRadius(cmd *cobra.Command, args []string) error {
	model, err := loader.Load(args[0], loadOptions(radiusClean))
	if err != nil {
		return err
	}
	m := model.Mesh

	points := make([]geometry.Vector3, len(radiusVertices))
	for i, id := range radiusVertices {
		if id >= uint(m.NumberOfVertices()) {
			return fmt.Errorf("vertex %d out of range, mesh has %d vertices", id, m.NumberOfVertices())
		}
		points[i] = m.VertexPosition(int(id))
	}

	fit, err := analysis.FitCircle(points)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Circle Fit")
	fmt.Fprintln(out, "==========")
	fmt.Fprintf(out, "Center: %s\n", analysis.FormatVector(fit.Center))
	fmt.Fprintf(out, "Normal: %s\n", analysis.FormatVector(fit.Normal))
	fmt.Fprintf(out, "Radius: %s\n", analysis.FormatMeasurement(fit.Radius, "units"))
	fmt.Fprintf(out, "Diameter: %s\n", analysis.FormatMeasurement(2*fit.Radius, "units"))
	fmt.Fprintf(out, "Deviation: %s\n", analysis.FormatMeasurement(fit.StdDev, "units"))
	return nil
}
