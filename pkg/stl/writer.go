package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// DefaultHeader is written when no header text is given
const DefaultHeader = "STL file generated by gomesh"

// Triangle is one binary STL record
type Triangle struct {
	Normal    geometry.Vector3
	Vertices  [3]geometry.Vector3
	Attribute uint16
}

// Write encodes tris as binary STL.
// The header text is padded with zero bytes to 80 bytes and may not be longer.
func Write(w io.Writer, header string, tris []Triangle) error {
	if len(header) > HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, at most %d allowed", ErrFormat, len(header), HeaderSize)
	}
	if uint64(len(tris)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d triangles exceed the 32-bit count", ErrFormat, len(tris))
	}

	bw := bufio.NewWriter(w)

	var head [HeaderSize + countSize]byte
	copy(head[:], header)
	binary.LittleEndian.PutUint32(head[HeaderSize:], uint32(len(tris)))
	if _, err := bw.Write(head[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var record [TriangleSize]byte
	for i, tri := range tris {
		putVector(record[0:], tri.Normal)
		putVector(record[12:], tri.Vertices[0])
		putVector(record[24:], tri.Vertices[1])
		putVector(record[36:], tri.Vertices[2])
		binary.LittleEndian.PutUint16(record[48:], tri.Attribute)

		if _, err := bw.Write(record[:]); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush STL data: %w", err)
	}
	return nil
}

func putVector(dst []byte, v geometry.Vector3) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(v.Z))
}
