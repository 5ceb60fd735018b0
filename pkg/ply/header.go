package ply

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

const (
	formatASCII        = "ascii"
	formatBinaryLittle = "binary_little_endian"
	formatBinaryBig    = "binary_big_endian"
)

// dataType is a PLY scalar type
type dataType struct {
	name   string
	size   int
	float  bool
	signed bool
}

var dataTypes = map[string]dataType{
	"char":    {name: "char", size: 1, signed: true},
	"int8":    {name: "int8", size: 1, signed: true},
	"uchar":   {name: "uchar", size: 1},
	"uint8":   {name: "uint8", size: 1},
	"short":   {name: "short", size: 2, signed: true},
	"int16":   {name: "int16", size: 2, signed: true},
	"ushort":  {name: "ushort", size: 2},
	"uint16":  {name: "uint16", size: 2},
	"int":     {name: "int", size: 4, signed: true},
	"int32":   {name: "int32", size: 4, signed: true},
	"uint":    {name: "uint", size: 4},
	"uint32":  {name: "uint32", size: 4},
	"float":   {name: "float", size: 4, float: true, signed: true},
	"float32": {name: "float32", size: 4, float: true, signed: true},
	"double":  {name: "double", size: 8, float: true, signed: true},
	"float64": {name: "float64", size: 8, float: true, signed: true},
}

type property struct {
	name      string
	typ       dataType
	list      bool
	countType dataType
}

type element struct {
	name       string
	count      int
	properties []property
}

func (e *element) find(names ...string) int {
	for i, p := range e.properties {
		for _, name := range names {
			if p.name == name {
				return i
			}
		}
	}
	return -1
}

type header struct {
	format   string
	elements []element
}

func (h *header) element(name string) *element {
	for i := range h.elements {
		if h.elements[i].name == name {
			return &h.elements[i]
		}
	}
	return nil
}

// readHeader parses everything up to and including "end_header"
func readHeader(r *bufio.Reader) (*header, error) {
	h := &header{}
	lineNum := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("%w: header ends before end_header", ErrFormat)
		}
		lineNum++
		line = strings.TrimRight(line, "\r\n")
		fields := strings.Fields(line)

		if lineNum == 1 {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrFormat)
			}
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "comment", "obj_info":
			// ignored

		case "format":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: malformed format line", ErrFormat, lineNum)
			}
			switch fields[1] {
			case formatASCII, formatBinaryLittle:
				h.format = fields[1]
			case formatBinaryBig:
				return nil, fmt.Errorf("%w: %s", ErrUnsupported, fields[1])
			default:
				return nil, fmt.Errorf("%w: line %d: unknown format %q", ErrFormat, lineNum, fields[1])
			}

		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: malformed element line", ErrFormat, lineNum)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid %s count %q", ErrFormat, lineNum, fields[1], fields[2])
			}
			h.elements = append(h.elements, element{name: fields[1], count: count})

		case "property":
			if len(h.elements) == 0 {
				return nil, fmt.Errorf("%w: line %d: property before element", ErrFormat, lineNum)
			}
			p, err := parseProperty(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			e := &h.elements[len(h.elements)-1]
			e.properties = append(e.properties, p)

		case "end_header":
			if h.format == "" {
				return nil, fmt.Errorf("%w: missing format line", ErrFormat)
			}
			return h, nil

		default:
			return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrFormat, lineNum, fields[0])
		}
	}
}

func parseProperty(fields []string) (property, error) {
	if len(fields) == 5 && fields[1] == "list" {
		countType, ok := dataTypes[fields[2]]
		if !ok || countType.float {
			return property{}, fmt.Errorf("%w: invalid list count type %q", ErrFormat, fields[2])
		}
		typ, ok := dataTypes[fields[3]]
		if !ok {
			return property{}, fmt.Errorf("%w: unknown type %q", ErrFormat, fields[3])
		}
		return property{name: fields[4], typ: typ, list: true, countType: countType}, nil
	}
	if len(fields) != 3 {
		return property{}, fmt.Errorf("%w: malformed property line", ErrFormat)
	}
	typ, ok := dataTypes[fields[1]]
	if !ok {
		return property{}, fmt.Errorf("%w: unknown type %q", ErrFormat, fields[1])
	}
	return property{name: fields[2], typ: typ}, nil
}
