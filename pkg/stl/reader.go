// Package stl reads and writes STL (stereolithography) triangle meshes.
//
// Binary files are triangle soups: every triangle carries its own three
// vertices. Readers hand those to a Builder as three fresh vertices and one
// face per triangle; welding shared corners is left to the caller.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	// HeaderSize is the size of the free-form binary header
	HeaderSize = 80
	// TriangleSize is the size of one binary triangle record
	TriangleSize = 50

	countSize = 4
)

var (
	// ErrTruncated is returned when binary data ends before the declared triangle count
	ErrTruncated = errors.New("stl: truncated data")
	// ErrFormat is returned for malformed ASCII data and unwritable input
	ErrFormat = errors.New("stl: invalid format")
)

// Builder receives the geometry decoded from a file
type Builder interface {
	// Initialize reserves room for the expected number of vertices and faces
	Initialize(numVertices, numFaces int)
	// AddVertex appends a vertex and returns its index
	AddVertex(x, y, z float32) uint32
	// AddFace appends a face over previously added vertices
	AddFace(ids ...uint32) error
}

// ReadFile decodes the STL file at path into b and returns the solid name
func ReadFile(path string, b Builder) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file, b)
}

// Read decodes ASCII or binary STL data from r into b and returns the solid
// name: the text after "solid" for ASCII data, the trimmed header for binary.
// The whole input is read into memory to detect the format.
func Read(r io.Reader, b Builder) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read STL data: %w", err)
	}

	if IsBinary(data) {
		return readBinary(data, b)
	}
	name, err := readASCII(data, b)
	if err != nil && fitsBinary(data) {
		// A binary file whose header starts with "solid" and that carries
		// trailing bytes fails the exact size check above.
		slog.Debug("ASCII STL parse failed, reading as binary", "error", err)
		return readBinary(data, b)
	}
	return name, err
}

// IsBinary reports whether data holds a binary STL.
// Data that does not start with "solid" is binary. Some exporters put
// "solid" into the binary header too, so such data is still treated as binary
// when its size matches the triangle count exactly.
func IsBinary(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return true
	}
	if len(data) < HeaderSize+countSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[HeaderSize:])
	return uint64(len(data)) == binarySize(count)
}

// fitsBinary reports whether data is long enough for the triangle count
// stored in its binary header
func fitsBinary(data []byte) bool {
	if len(data) < HeaderSize+countSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[HeaderSize:])
	return uint64(len(data)) >= binarySize(count)
}

func binarySize(count uint32) uint64 {
	return HeaderSize + countSize + uint64(count)*TriangleSize
}

func readBinary(data []byte, b Builder) (string, error) {
	if len(data) < HeaderSize+countSize {
		return "", fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(data), HeaderSize+countSize)
	}

	name := strings.TrimSpace(string(bytes.TrimRight(data[:HeaderSize], "\x00")))
	count := binary.LittleEndian.Uint32(data[HeaderSize:])

	expected := binarySize(count)
	if uint64(len(data)) < expected {
		return "", fmt.Errorf("%w: %d triangles need %d bytes, got %d", ErrTruncated, count, expected, len(data))
	}
	if uint64(len(data)) > expected {
		slog.Debug("ignoring trailing STL data", "bytes", uint64(len(data))-expected)
	}

	b.Initialize(int(count)*3, int(count))

	offset := HeaderSize + countSize
	for i := uint32(0); i < count; i++ {
		// Normals are recomputed from the winding order, skip the stored one
		offset += 12

		var ids [3]uint32
		for v := range ids {
			ids[v] = b.AddVertex(
				readFloat32(data[offset:]),
				readFloat32(data[offset+4:]),
				readFloat32(data[offset+8:]),
			)
			offset += 12
		}
		// attribute byte count
		offset += 2

		if err := b.AddFace(ids[:]...); err != nil {
			return "", fmt.Errorf("failed to add triangle %d: %w", i, err)
		}
	}

	slog.Debug("read binary STL", "name", name, "triangles", count)
	return name, nil
}

func readFloat32(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

// readASCII parses "solid ... facet ... outer loop ... vertex x y z ...
// endloop ... endfacet ... endsolid" text. Every facet must list exactly three
// vertices and any other keyword is a format error. The whole input is parsed
// before b sees any geometry.
func readASCII(data []byte, b Builder) (string, error) {
	name, coords, err := parseASCII(data)
	if err != nil {
		return "", err
	}

	count := len(coords) / 9
	b.Initialize(count*3, count)
	for i := 0; i < count; i++ {
		var ids [3]uint32
		for v := range ids {
			c := coords[9*i+3*v:]
			ids[v] = b.AddVertex(c[0], c[1], c[2])
		}
		if err := b.AddFace(ids[:]...); err != nil {
			return "", fmt.Errorf("failed to add facet %d: %w", i, err)
		}
	}

	slog.Debug("read ASCII STL", "name", name, "triangles", count)
	return name, nil
}

// parseASCII returns the solid name and nine coordinates per facet
func parseASCII(data []byte) (string, []float32, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var name string
	var coords []float32
	vertices := 0
	inSolid, inFacet, ended := false, false, false
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		keyword := strings.ToLower(fields[0])
		if ended {
			return "", nil, fmt.Errorf("%w: line %d: %q after endsolid", ErrFormat, lineNum, fields[0])
		}
		if !inSolid && keyword != "solid" {
			return "", nil, fmt.Errorf("%w: line %d: expected solid, got %q", ErrFormat, lineNum, fields[0])
		}

		switch keyword {
		case "solid":
			if inSolid {
				return "", nil, fmt.Errorf("%w: line %d: solid inside solid", ErrFormat, lineNum)
			}
			inSolid = true
			name = strings.Join(fields[1:], " ")

		case "facet":
			if inFacet {
				return "", nil, fmt.Errorf("%w: line %d: facet inside facet", ErrFormat, lineNum)
			}
			inFacet = true
			vertices = 0

		case "outer", "endloop":
			if !inFacet {
				return "", nil, fmt.Errorf("%w: line %d: %s outside facet", ErrFormat, lineNum, keyword)
			}

		case "vertex":
			if !inFacet {
				return "", nil, fmt.Errorf("%w: line %d: vertex outside facet", ErrFormat, lineNum)
			}
			if len(fields) < 4 {
				return "", nil, fmt.Errorf("%w: line %d: vertex needs x y z", ErrFormat, lineNum)
			}
			for i := 1; i <= 3; i++ {
				value, err := strconv.ParseFloat(fields[i], 32)
				if err != nil {
					return "", nil, fmt.Errorf("%w: line %d: invalid coordinate %q", ErrFormat, lineNum, fields[i])
				}
				coords = append(coords, float32(value))
			}
			vertices++

		case "endfacet":
			if !inFacet {
				return "", nil, fmt.Errorf("%w: line %d: endfacet without facet", ErrFormat, lineNum)
			}
			if vertices != 3 {
				return "", nil, fmt.Errorf("%w: line %d: facet has %d vertices, want 3", ErrFormat, lineNum, vertices)
			}
			inFacet = false

		case "endsolid":
			if inFacet {
				return "", nil, fmt.Errorf("%w: line %d: endsolid inside facet", ErrFormat, lineNum)
			}
			ended = true

		default:
			return "", nil, fmt.Errorf("%w: line %d: unknown keyword %q", ErrFormat, lineNum, fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if inFacet {
		return "", nil, fmt.Errorf("%w: unterminated facet", ErrFormat)
	}
	if !ended {
		return "", nil, fmt.Errorf("%w: missing endsolid", ErrFormat)
	}
	return name, coords, nil
}
