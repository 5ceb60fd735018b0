package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/spf13/cobra"
)

var (
	convertClean     bool
	convertTranslate []float32
	convertScale     float32
	convertRotateX   float32
	convertRotateY   float32
	convertRotateZ   float32
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output.stl]",
	Short: "Convert a mesh to binary STL, optionally transformed",
	Long: `Read an STL or PLY file and write it as binary STL. The vertices are scaled,
then rotated about X, Y and Z, then translated.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertClean, "clean", false, "Remove duplicate vertices before writing")
	convertCmd.Flags().Float32SliceVar(&convertTranslate, "translate", nil, "Translation as x,y,z")
	convertCmd.Flags().Float32Var(&convertScale, "scale", 1, "Uniform scale factor")
	convertCmd.Flags().Float32Var(&convertRotateX, "rotate-x", 0, "Rotation about X in degrees")
	convertCmd.Flags().Float32Var(&convertRotateY, "rotate-y", 0, "Rotation about Y in degrees")
	convertCmd.Flags().Float32Var(&convertRotateZ, "rotate-z", 0, "Rotation about Z in degrees")
}

// convertTransform builds the matrix applying scale, rotations and translation in that order
func convertTransform() (mgl32.Mat4, error) {
	if convertScale == 0 {
		return mgl32.Mat4{}, fmt.Errorf("scale must not be zero")
	}
	var offset mgl32.Vec3
	switch len(convertTranslate) {
	case 0:
	case 3:
		offset = mgl32.Vec3{convertTranslate[0], convertTranslate[1], convertTranslate[2]}
	default:
		return mgl32.Mat4{}, fmt.Errorf("translate needs x,y,z, got %d values", len(convertTranslate))
	}

	rotation := mgl32.HomogRotate3DZ(mgl32.DegToRad(convertRotateZ)).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(convertRotateY))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(convertRotateX)))

	return mgl32.Translate3D(offset.X(), offset.Y(), offset.Z()).
		Mul4(rotation).
		Mul4(mgl32.Scale3D(convertScale, convertScale, convertScale)), nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	transform, err := convertTransform()
	if err != nil {
		return err
	}

	model, err := loader.Load(args[0], loadOptions(convertClean))
	if err != nil {
		return err
	}

	if err := model.Mesh.WriteToFile(args[1], &transform); err != nil {
		return err
	}

	numbers.Fprintf(cmd.OutOrStdout(), "Wrote %d faces to %s\n", model.Mesh.NumberOfFaces(), args[1])
	return nil
}
