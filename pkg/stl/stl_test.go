package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Builder that keeps everything it is given
type recorder struct {
	reservedVertices int
	reservedFaces    int
	vertices         []geometry.Vector3
	faces            [][]uint32
	failFace         bool
}

func (r *recorder) Initialize(numVertices, numFaces int) {
	r.reservedVertices = numVertices
	r.reservedFaces = numFaces
}

func (r *recorder) AddVertex(x, y, z float32) uint32 {
	r.vertices = append(r.vertices, geometry.NewVector3(x, y, z))
	return uint32(len(r.vertices) - 1)
}

func (r *recorder) AddFace(ids ...uint32) error {
	if r.failFace {
		return errors.New("rejected")
	}
	r.faces = append(r.faces, append([]uint32(nil), ids...))
	return nil
}

func sampleTriangles() []Triangle {
	return []Triangle{
		{
			Normal: geometry.NewVector3(0, 0, 1),
			Vertices: [3]geometry.Vector3{
				geometry.NewVector3(0, 0, 0),
				geometry.NewVector3(1, 0, 0),
				geometry.NewVector3(0, 1, 0),
			},
		},
		{
			Normal: geometry.NewVector3(0, 0, -1),
			Vertices: [3]geometry.Vector3{
				geometry.NewVector3(1.5, -2.25, 3),
				geometry.NewVector3(0, 1, 0),
				geometry.NewVector3(1, 0, 0),
			},
			Attribute: 7,
		},
	}
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "test header", sampleTriangles()))

	data := buf.Bytes()
	require.Len(t, data, HeaderSize+4+2*TriangleSize)
	assert.Equal(t, "test header", string(bytes.TrimRight(data[:HeaderSize], "\x00")))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[HeaderSize:]))

	second := data[HeaderSize+4+TriangleSize:]
	assert.Equal(t, float32(-1), readFloat32(second[8:]))
	assert.Equal(t, float32(1.5), readFloat32(second[12:]))
	assert.Equal(t, float32(-2.25), readFloat32(second[16:]))
	assert.Equal(t, uint16(7), binary.LittleEndian.Uint16(second[48:]))
}

func TestWriteRejectsLongHeader(t *testing.T) {
	header := string(bytes.Repeat([]byte("x"), HeaderSize+1))
	err := Write(&bytes.Buffer{}, header, nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestBinaryRoundTrip(t *testing.T) {
	tris := sampleTriangles()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "round trip", tris))

	rec := &recorder{}
	name, err := Read(&buf, rec)
	require.NoError(t, err)

	assert.Equal(t, "round trip", name)
	assert.Equal(t, 6, rec.reservedVertices)
	assert.Equal(t, 2, rec.reservedFaces)
	require.Len(t, rec.vertices, 6)
	assert.Equal(t, [][]uint32{{0, 1, 2}, {3, 4, 5}}, rec.faces)
	for i, tri := range tris {
		for j, v := range tri.Vertices {
			assert.Equal(t, v, rec.vertices[i*3+j])
		}
	}
}

func TestBinaryHeaderStartingWithSolid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "solid exported by some CAD tool", sampleTriangles()))
	assert.True(t, IsBinary(buf.Bytes()))

	rec := &recorder{}
	_, err := Read(&buf, rec)
	require.NoError(t, err)
	assert.Len(t, rec.faces, 2)
}

func TestBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", sampleTriangles()))
	data := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"header only", data[:HeaderSize]},
		{"missing last triangle", data[:len(data)-TriangleSize]},
		{"partial record", data[:len(data)-1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data), &recorder{})
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}

func TestBinaryBuilderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", sampleTriangles()))

	_, err := Read(&buf, &recorder{failFace: true})
	assert.ErrorContains(t, err, "triangle 0")
}

const asciiSquare = `solid square plate
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid square plate
`

func TestASCII(t *testing.T) {
	assert.False(t, IsBinary([]byte(asciiSquare)))

	rec := &recorder{}
	name, err := Read(bytes.NewReader([]byte(asciiSquare)), rec)
	require.NoError(t, err)

	assert.Equal(t, "square plate", name)
	assert.Equal(t, 6, rec.reservedVertices)
	assert.Len(t, rec.vertices, 6)
	assert.Equal(t, [][]uint32{{0, 1, 2}, {3, 4, 5}}, rec.faces)
	assert.Equal(t, geometry.NewVector3(0, 1, 0), rec.vertices[5])
}

func TestASCIIErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad coordinate", "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 a 0\n"},
		{"vertex outside facet", "solid x\nvertex 0 0 0\n"},
		{"short vertex", "solid x\nfacet normal 0 0 1\nvertex 0 0\n"},
		{"quad facet", "solid x\nfacet\nvertex 0 0 0\nvertex 1 0 0\nvertex 1 1 0\nvertex 0 1 0\nendfacet\n"},
		{"unterminated", "solid x\nfacet\nvertex 0 0 0\n"},
		{"stray endfacet", "solid x\nendfacet\n"},
		{"unknown keyword", "solid\nthis is not an stl file at all\n"},
		{"missing endsolid", "solid x\nfacet\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 1 1 0\nendloop\nendfacet\n"},
		{"data after endsolid", "solid x\nendsolid x\nfacet\n"},
		{"no solid", "facet\nendfacet\n"},
		{"loop outside facet", "solid x\nouter loop\nendsolid\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader([]byte(tt.input)), &recorder{})
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestASCIIErrorLeavesBuilderEmpty(t *testing.T) {
	input := "solid x\nfacet\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 1 1 0\nendloop\nendfacet\nbogus\n"
	rec := &recorder{}

	_, err := Read(bytes.NewReader([]byte(input)), rec)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Empty(t, rec.vertices)
	assert.Empty(t, rec.faces)
}

func TestBinaryWithSolidHeaderAndTrailingBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "solid exported by cad", sampleTriangles()))
	buf.WriteByte(0)
	assert.False(t, IsBinary(buf.Bytes()))

	rec := &recorder{}
	name, err := Read(&buf, rec)
	require.NoError(t, err)
	assert.Equal(t, "solid exported by cad", name)
	assert.Len(t, rec.vertices, 3*len(sampleTriangles()))
	assert.Len(t, rec.faces, len(sampleTriangles()))
}

func TestSolidHeaderTruncatedBinary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "solid exported by cad", sampleTriangles()))
	data := buf.Bytes()[:buf.Len()-1]

	_, err := Read(bytes.NewReader(data), &recorder{})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.stl")
	require.NoError(t, os.WriteFile(path, []byte(asciiSquare), 0o644))

	rec := &recorder{}
	name, err := ReadFile(path, rec)
	require.NoError(t, err)
	assert.Equal(t, "square plate", name)
	assert.Len(t, rec.faces, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.stl"), rec)
	assert.Error(t, err)
}

func BenchmarkReadBinary(b *testing.B) {
	tris := make([]Triangle, 10000)
	for i := range tris {
		f := float32(i)
		tris[i].Vertices = [3]geometry.Vector3{
			geometry.NewVector3(f, 0, 0),
			geometry.NewVector3(f, 1, 0),
			geometry.NewVector3(f, 0, 1),
		}
	}
	var buf bytes.Buffer
	if err := Write(&buf, "bench", tris); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Read(bytes.NewReader(data), &recorder{}); err != nil {
			b.Fatal(err)
		}
	}
}
