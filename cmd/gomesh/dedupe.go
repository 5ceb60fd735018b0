package main

import (
	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [input] [output.stl]",
	Short: "Weld duplicate vertices and write binary STL",
	Long: `Merge vertices that coincide within 1e-6 on every axis, rewrite the faces to
the merged vertices and write the result as binary STL.`,
	Args: cobra.ExactArgs(2),
	RunE: runDedupe,
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	model, err := loader.Load(args[0], loadOptions(true))
	if err != nil {
		return err
	}

	if err := model.Mesh.WriteToFile(args[1], nil); err != nil {
		return err
	}

	numbers.Fprintf(cmd.OutOrStdout(), "Removed %d duplicate vertices, %d vertices and %d faces written to %s\n",
		model.DuplicatesRemoved, model.Mesh.NumberOfVertices(), model.Mesh.NumberOfFaces(), args[1])
	return nil
}
