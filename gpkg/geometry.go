package gpkg

import (
	"encoding/binary"
	"math"

	m "limitd.dev/limitd/math"
)

// Geometry blobs are a fixed GeoPackage header (magic, version, flags,
// spatial reference id, optional envelope) wrapped around standard
// well-known binary. Producers disagree on envelope size, byte order and
// extra ordinates, so everything is read through a bounds-checked cursor.

const (
	wkbLineString      = 2
	wkbMultiLineString = 5
)

type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) malformed(reason string) error {
	return &ErrMalformedGeometry{Reason: reason, Offset: c.pos}
}

func (c *cursor) skip(n int) error {
	if c.pos+n > len(c.data) {
		return c.malformed("truncated payload")
	}
	c.pos += n
	return nil
}

func (c *cursor) byte() (byte, error) {
	if c.pos+1 > len(c.data) {
		return 0, c.malformed("truncated payload")
	}
	b := c.data[c.pos]
	c.pos += 1
	return b, nil
}

func (c *cursor) uint32(order binary.ByteOrder) (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, c.malformed("truncated payload")
	}
	v := order.Uint32(c.data[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *cursor) float64(order binary.ByteOrder) (float64, error) {
	if c.pos+8 > len(c.data) {
		return 0, c.malformed("truncated payload")
	}
	v := math.Float64frombits(order.Uint64(c.data[c.pos : c.pos+8]))
	c.pos += 8
	return v, nil
}

// byteOrder maps a WKB byte order flag: 0 big endian, 1 little endian.
func (c *cursor) byteOrder() (binary.ByteOrder, error) {
	flag, err := c.byte()
	if err != nil {
		return nil, err
	}
	switch flag {
	case 0:
		return binary.BigEndian, nil
	case 1:
		return binary.LittleEndian, nil
	}
	return nil, c.malformed("invalid byte order flag")
}

// envelopeSize maps the envelope indicator (flag bits 1-3) to the byte size
// of the envelope that follows the header.
func envelopeSize(indicator byte) (int, bool) {
	switch indicator {
	case 0:
		return 0, true
	case 1:
		return 32, true
	case 2, 3:
		return 48, true
	case 4:
		return 64, true
	}
	return 0, false
}

// extraOrdinates maps the thousands block of an ISO WKB type code to the
// number of Z/M ordinates carried per point.
func extraOrdinates(typeCode uint32) int {
	switch typeCode / 1000 {
	case 1, 2: // Z or M
		return 1
	case 3: // ZM
		return 2
	}
	return 0
}

// Decode parses one GeoPackage geometry blob into its polylines. It returns
// ErrMalformedGeometry for truncated or unrecognized payloads and
// ErrUnsupportedGeometry for geometry types other than LineString and
// MultiLineString; callers skip such rows and keep scanning.
func Decode(blob []byte) (m.MultiPolyline, error) {
	c := &cursor{data: blob}

	if len(blob) < 8 {
		return nil, c.malformed("header shorter than 8 bytes")
	}
	if blob[0] != 'G' || blob[1] != 'P' {
		return nil, c.malformed("bad magic")
	}
	if blob[2] != 0 {
		return nil, c.malformed("unknown header version")
	}
	flags := blob[3]
	c.pos = 4

	// bit 5 flags an extended, producer-specific payload
	if flags&0x20 != 0 {
		return nil, c.malformed("extended geometry payload")
	}

	// spatial reference id, already known from the schema
	if err := c.skip(4); err != nil {
		return nil, err
	}

	size, ok := envelopeSize((flags >> 1) & 0x07)
	if !ok {
		return nil, c.malformed("invalid envelope indicator")
	}
	if err := c.skip(size); err != nil {
		return nil, err
	}

	// bit 4 marks an empty geometry: nothing to decode, nothing to match
	if flags&0x10 != 0 {
		return m.MultiPolyline{}, nil
	}

	return decodeWKB(c)
}

func decodeWKB(c *cursor) (m.MultiPolyline, error) {
	order, err := c.byteOrder()
	if err != nil {
		return nil, err
	}
	typeCode, err := c.uint32(order)
	if err != nil {
		return nil, err
	}

	switch typeCode % 1000 {
	case wkbLineString:
		line, err := decodeLineString(c, order, extraOrdinates(typeCode))
		if err != nil {
			return nil, err
		}
		return m.MultiPolyline{line}, nil
	case wkbMultiLineString:
		return decodeMultiLineString(c, order)
	}
	return nil, &ErrUnsupportedGeometry{Type: typeCode}
}

func decodeLineString(c *cursor, order binary.ByteOrder, extra int) (m.Polyline, error) {
	count, err := c.uint32(order)
	if err != nil {
		return nil, err
	}

	// 16 bytes of X/Y per point at minimum, reject counts the remaining
	// bytes cannot possibly satisfy
	pointSize := (2 + extra) * 8
	if int(count) > (len(c.data)-c.pos)/pointSize {
		return nil, c.malformed("point count exceeds payload")
	}

	line := make(m.Polyline, 0, count)
	for range count {
		x, err := c.float64(order)
		if err != nil {
			return nil, err
		}
		y, err := c.float64(order)
		if err != nil {
			return nil, err
		}
		if err := c.skip(extra * 8); err != nil {
			return nil, err
		}
		line = append(line, m.Coordinate{X: x, Y: y})
	}
	return line, nil
}

func decodeMultiLineString(c *cursor, order binary.ByteOrder) (m.MultiPolyline, error) {
	count, err := c.uint32(order)
	if err != nil {
		return nil, err
	}

	// 9 header bytes per component at minimum
	if int(count) > (len(c.data)-c.pos)/9 {
		return nil, c.malformed("component count exceeds payload")
	}

	lines := make(m.MultiPolyline, 0, count)
	for range count {
		// each component re-declares byte order and type
		componentOrder, err := c.byteOrder()
		if err != nil {
			return nil, err
		}
		typeCode, err := c.uint32(componentOrder)
		if err != nil {
			return nil, err
		}
		if typeCode%1000 != wkbLineString {
			return nil, c.malformed("multilinestring component is not a linestring")
		}
		line, err := decodeLineString(c, componentOrder, extraOrdinates(typeCode))
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
