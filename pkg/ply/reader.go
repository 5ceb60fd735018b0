// Package ply reads Stanford PLY triangle meshes.
//
// ASCII and binary little endian files are supported. The vertex element must
// carry x, y and z; the face element a vertex_indices list of length three.
// Other elements and properties are read and ignored.
package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
)

var (
	// ErrFormat is returned for malformed headers and data
	ErrFormat = errors.New("ply: invalid format")
	// ErrUnsupported is returned for valid files this reader cannot handle,
	// such as big endian data or non-triangle faces.
	ErrUnsupported = errors.New("ply: unsupported content")
)

// maxReserve caps the capacity requested from a Builder. Header counts are
// untrusted until the data behind them has been read.
const maxReserve = 1 << 20

// Builder receives the geometry decoded from a file
type Builder interface {
	Initialize(numVertices, numFaces int)
	AddVertex(x, y, z float32) uint32
	AddFace(ids ...uint32) error
}

// ReadFile decodes the PLY file at path into b
func ReadFile(path string, b Builder) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file, b)
}

// Read decodes PLY data from r into b
func Read(r io.Reader, b Builder) error {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return err
	}

	vertices := h.element("vertex")
	if vertices == nil {
		return fmt.Errorf("%w: no vertex element", ErrFormat)
	}
	numFaces := 0
	if faces := h.element("face"); faces != nil {
		numFaces = faces.count
	}

	slog.Debug("parsing PLY data", "format", h.format, "vertices", vertices.count, "faces", numFaces)

	var values valueReader
	if h.format == formatASCII {
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &asciiValues{scanner: scanner}
	} else {
		values = &binaryValues{r: br}
	}

	b.Initialize(min(vertices.count, maxReserve), min(numFaces, maxReserve))

	d := decoder{values: values, builder: b}
	for i := range h.elements {
		e := &h.elements[i]
		switch e.name {
		case "vertex":
			err = d.readVertices(e)
		case "face":
			err = d.readFaces(e)
		default:
			err = d.skip(e)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type decoder struct {
	values      valueReader
	builder     Builder
	base        uint32
	hasVertices bool
}

func (d *decoder) readVertices(e *element) error {
	x, y, z := e.find("x"), e.find("y"), e.find("z")
	if x < 0 || y < 0 || z < 0 {
		return fmt.Errorf("%w: vertex element needs x, y and z", ErrFormat)
	}

	row := make([]float64, len(e.properties))
	for i := 0; i < e.count; i++ {
		for p, prop := range e.properties {
			if prop.list {
				if err := d.skipList(prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := d.values.read(prop.typ)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			row[p] = v
		}
		id := d.builder.AddVertex(float32(row[x]), float32(row[y]), float32(row[z]))
		if !d.hasVertices {
			d.base = id
			d.hasVertices = true
		}
	}
	return nil
}

func (d *decoder) readFaces(e *element) error {
	indices := e.find("vertex_indices", "vertex_index")
	if indices < 0 || !e.properties[indices].list {
		return fmt.Errorf("%w: face element needs a vertex_indices list", ErrFormat)
	}

	var ids [3]uint32
	for i := 0; i < e.count; i++ {
		for p, prop := range e.properties {
			if p != indices {
				if err := d.skipProperty(prop); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}
			count, err := d.values.read(prop.countType)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if count != 3 {
				return fmt.Errorf("%w: face %d has %v vertices, only triangles are supported", ErrUnsupported, i, count)
			}
			for k := range ids {
				v, err := d.values.read(prop.typ)
				if err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				if v < 0 || v > math.MaxUint32 {
					return fmt.Errorf("%w: face %d: invalid vertex index %v", ErrFormat, i, v)
				}
				ids[k] = d.base + uint32(v)
			}
		}
		if err := d.builder.AddFace(ids[:]...); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
	}
	return nil
}

func (d *decoder) skip(e *element) error {
	slog.Debug("skipping PLY element", "element", e.name, "count", e.count)
	for i := 0; i < e.count; i++ {
		for _, prop := range e.properties {
			if err := d.skipProperty(prop); err != nil {
				return fmt.Errorf("%s %d: %w", e.name, i, err)
			}
		}
	}
	return nil
}

func (d *decoder) skipProperty(prop property) error {
	if prop.list {
		return d.skipList(prop)
	}
	_, err := d.values.read(prop.typ)
	return err
}

func (d *decoder) skipList(prop property) error {
	count, err := d.values.read(prop.countType)
	if err != nil {
		return err
	}
	for k := 0; k < int(count); k++ {
		if _, err := d.values.read(prop.typ); err != nil {
			return err
		}
	}
	return nil
}

// valueReader yields the next scalar of the body
type valueReader interface {
	read(t dataType) (float64, error)
}

// asciiValues reads whitespace separated numbers, ignoring line structure
type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) read(t dataType) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: unexpected end of data", ErrFormat)
	}
	text := a.scanner.Text()
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", ErrFormat, t.name, text)
	}
	return v, nil
}

// binaryValues reads little endian scalars
type binaryValues struct {
	r   io.Reader
	buf [8]byte
}

func (b *binaryValues) read(t dataType) (float64, error) {
	p := b.buf[:t.size]
	if _, err := io.ReadFull(b.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: unexpected end of data", ErrFormat)
		}
		return 0, err
	}
	le := binary.LittleEndian
	switch {
	case t.float && t.size == 4:
		return float64(math.Float32frombits(le.Uint32(p))), nil
	case t.float:
		return math.Float64frombits(le.Uint64(p)), nil
	case t.size == 1 && t.signed:
		return float64(int8(p[0])), nil
	case t.size == 1:
		return float64(p[0]), nil
	case t.size == 2 && t.signed:
		return float64(int16(le.Uint16(p))), nil
	case t.size == 2:
		return float64(le.Uint16(p)), nil
	case t.signed:
		return float64(int32(le.Uint32(p))), nil
	default:
		return float64(le.Uint32(p)), nil
	}
}
