package main

import (
	"fmt"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	normalsLocation = locationFlag(mesh.FaceLocation)
	normalsCount    int
	normalsClean    bool
)

// locationFlag is a mesh.Location accepted as face or vertex on the command line
type locationFlag mesh.Location

var _ pflag.Value = (*locationFlag)(nil)

func (l *locationFlag) String() string { return mesh.Location(*l).String() }

func (l *locationFlag) Set(s string) error {
	location, err := mesh.ParseLocation(s)
	if err != nil {
		return err
	}
	*l = locationFlag(location)
	return nil
}

func (l *locationFlag) Type() string { return "location" }

var normalsCmd = &cobra.Command{
	Use:   "normals [file]",
	Short: "Print face or vertex normals",
	Long: `Print flat per-face normals or smoothed per-vertex normals. Vertex normals
average the incident faces, so they are only smooth after duplicate vertices
are removed with --clean.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormals,
}

func init() {
	rootCmd.AddCommand(normalsCmd)

	normalsCmd.Flags().Var(&normalsLocation, "location", "Normal location: face or vertex")
	normalsCmd.Flags().IntVarP(&normalsCount, "count", "n", 10, "Number of normals to display, 0 for all")
	normalsCmd.Flags().BoolVar(&normalsClean, "clean", false, "Remove duplicate vertices first")
	normalsCmd.RegisterFlagCompletionFunc("location", cobra.FixedCompletions(
		[]string{"face", "vertex"}, cobra.ShellCompDirectiveNoFileComp))
}

func runNormals(cmd *cobra.Command, args []string) error {
	location := mesh.Location(normalsLocation)

	model, err := loader.Load(args[0], loadOptions(normalsClean))
	if err != nil {
		return err
	}

	normals := model.Mesh.Normals(location)
	total := len(normals) / 3
	shown := total
	if normalsCount > 0 && normalsCount < total {
		shown = normalsCount
	}

	out := cmd.OutOrStdout()
	numbers.Fprintf(out, "%s normals: %d (%d bytes)\n", location, total, mesh.ByteLength(normals))
	for i := 0; i < shown; i++ {
		n := geometry.NewVector3(normals[3*i], normals[3*i+1], normals[3*i+2])
		fmt.Fprintf(out, "%-8d %s\n", i, analysis.FormatVector(n))
	}
	return nil
}
