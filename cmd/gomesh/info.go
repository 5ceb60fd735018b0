package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/gomesh/internal/models"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoClean bool

var infoCmd = &cobra.Command{
	Use:   "info [file|dir]...",
	Short: "Display general information about mesh files",
	Long: `Show comprehensive information including dimensions, vertex and face counts,
surface area, volume and edge statistics. Directories are expanded to the
supported files they contain; all files are loaded concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoClean, "clean", false, "Remove duplicate vertices before analysis")
}

func runInfo(cmd *cobra.Command, args []string) error {
	manager := models.NewManager(loadOptions(infoClean), cfg.Load.WorkerCount())

	var loaded []*models.Model
	for _, arg := range args {
		ms, err := manager.Load(cmd.Context(), arg)
		if err != nil {
			return err
		}
		loaded = append(loaded, ms...)
	}

	out := cmd.OutOrStdout()
	for i, model := range loaded {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printInfo(out, model)
	}
	return nil
}

func printInfo(out io.Writer, model *models.Model) {
	result := analysis.AnalyzeMesh(model.Mesh)

	fmt.Fprintln(out, "Mesh File Information")
	fmt.Fprintln(out, "=====================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", model.Path)

	fmt.Fprintln(out, "Mesh Statistics:")
	numbers.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	numbers.Fprintf(out, "  Faces: %d\n", result.FaceCount)
	numbers.Fprintf(out, "  Edges: %d (%d unique, %d boundary)\n", result.EdgeCount, result.UniqueEdges, result.BoundaryEdges)
	if model.DuplicatesRemoved > 0 {
		numbers.Fprintf(out, "  Duplicate vertices removed: %d\n", model.DuplicatesRemoved)
	}
	fmt.Fprintf(out, "  Closed: %t\n", result.IsClosed())
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	if result.VertexCount == 0 {
		fmt.Fprintln(out, "Bounding Box: empty")
		return
	}

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.Bounds.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.Bounds.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.Centroid))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", result.Bounds.Diagonal())
	fmt.Fprintf(out, "  Volume: %.6f cubic units\n\n", result.Volume)

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
}
