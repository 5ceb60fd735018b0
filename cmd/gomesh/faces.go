package main

import (
	"fmt"
	"strings"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/spf13/cobra"
)

var (
	facesCount    int
	facesLargest  bool
	facesSmallest bool
)

var facesCmd = &cobra.Command{
	Use:     "faces [file]",
	Aliases: []string{"triangles"},
	Short:   "Analyze the faces of a mesh",
	Long:    "Display information about faces including area, perimeter, normal and vertex positions.",
	Args:    cobra.ExactArgs(1),
	RunE:    runFaces,
}

func init() {
	rootCmd.AddCommand(facesCmd)

	facesCmd.Flags().IntVarP(&facesCount, "count", "n", 10, "Number of faces to display")
	facesCmd.Flags().BoolVarP(&facesLargest, "largest", "l", false, "Show largest faces by area")
	facesCmd.Flags().BoolVarP(&facesSmallest, "smallest", "s", false, "Show smallest faces by area")
	facesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")
}

func runFaces(cmd *cobra.Command, args []string) error {
	model, err := loader.Load(args[0], loadOptions(false))
	if err != nil {
		return err
	}

	summary := analysis.AnalyzeFaces(model.Mesh)

	var faces []analysis.FaceInfo
	var title string
	switch {
	case facesLargest:
		faces = analysis.FindLargestFaces(summary, facesCount)
		title = fmt.Sprintf("Top %d Largest Faces", len(faces))
	case facesSmallest:
		faces = analysis.FindSmallestFaces(summary, facesCount)
		title = fmt.Sprintf("Top %d Smallest Faces", len(faces))
	default:
		faces = summary.Faces[:min(facesCount, len(summary.Faces))]
		title = fmt.Sprintf("First %d Faces", len(faces))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	numbers.Fprintf(out, "Total faces: %d\n", len(summary.Faces))
	fmt.Fprintf(out, "Total surface area: %.6f square units\n", summary.TotalArea)
	fmt.Fprintf(out, "Min face area: %.6f square units\n", summary.MinArea)
	fmt.Fprintf(out, "Max face area: %.6f square units\n", summary.MaxArea)
	fmt.Fprintf(out, "Avg face area: %.6f square units\n\n", summary.AvgArea())

	for _, face := range faces {
		vertices := make([]string, len(face.Vertices))
		for i, v := range face.Vertices {
			vertices[i] = analysis.FormatVector(v)
		}
		fmt.Fprintf(out, "Face #%d:\n", face.Index)
		fmt.Fprintf(out, "  Area: %.6f square units\n", face.Area)
		fmt.Fprintf(out, "  Perimeter: %.6f units\n", face.Perimeter)
		fmt.Fprintf(out, "  Normal: %s\n", analysis.FormatVector(face.Normal))
		fmt.Fprintf(out, "  Vertices: %s\n\n", strings.Join(vertices, ", "))
	}
	return nil
}
