// Package hexgrid provides offset/cube hex coordinates, hex distance and
// overland hex codes.
//
// Grids use "odd-q" offset layout: columns are vertical, odd columns are
// shoved down half a hex. Cube coordinates are derived on demand and only
// used for distance.
package hexgrid

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidHexCode is returned for malformed or out-of-bounds hex codes.
var ErrInvalidHexCode = errors.New("invalid hex code")

// Coord is an offset (row, col) grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cube is a cube coordinate. Q+R+S is always 0.
type Cube struct {
	Q, R, S int
}

// CubeFromOffset converts an offset (row, col) position to cube coordinates.
func CubeFromOffset(row, col int) Cube {
	q := col
	r := row - floorDiv(col-(col&1), 2)
	return Cube{Q: q, R: r, S: -q - r}
}

// Cube returns the cube coordinate of c.
func (c Coord) Cube() Cube {
	return CubeFromOffset(c.Row, c.Col)
}

// Distance returns the number of hex steps between two offset positions.
func Distance(r1, c1, r2, c2 int) int {
	a := CubeFromOffset(r1, c1)
	b := CubeFromOffset(r2, c2)
	return (abs(a.Q-b.Q) + abs(a.R-b.R) + abs(a.S-b.S)) / 2
}

// DistanceTo returns the hex distance between c and other.
func (c Coord) DistanceTo(other Coord) int {
	return Distance(c.Row, c.Col, other.Row, other.Col)
}

// Key returns the "row_col" key used by hex grids.
func (c Coord) Key() string {
	return strconv.Itoa(c.Row) + "_" + strconv.Itoa(c.Col)
}

// Code renders c as a four digit "XXYY" overland code (column, then row).
func (c Coord) Code() string {
	return fmt.Sprintf("%02d%02d", c.Col, c.Row)
}

// ParseCode parses a four digit "XXYY" code. Every byte must be an ASCII
// digit, so a parsed code always round-trips through Code. It does not
// check bounds.
func ParseCode(code string) (Coord, error) {
	if len(code) != 4 {
		return Coord{}, fmt.Errorf("%w: %q must be 4 digits", ErrInvalidHexCode, code)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return Coord{}, fmt.Errorf("%w: %q must be 4 digits", ErrInvalidHexCode, code)
		}
	}
	col, _ := strconv.Atoi(code[:2])
	row, _ := strconv.Atoi(code[2:])
	return Coord{Row: row, Col: col}, nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
