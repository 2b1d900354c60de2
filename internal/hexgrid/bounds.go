package hexgrid

import "fmt"

// MaxDimension is the largest column or row count a four digit code can address.
const MaxDimension = 100

// Bounds describes an overland map of Cols x Rows hexes starting at 0000.
type Bounds struct {
	Cols int `yaml:"cols" json:"cols" env:"COLS"`
	Rows int `yaml:"rows" json:"rows" env:"ROWS"`
}

// Contains reports whether c lies inside the map.
func (b Bounds) Contains(c Coord) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < b.Cols && c.Row < b.Rows
}

// Len returns the number of hexes on the map.
func (b Bounds) Len() int {
	return b.Cols * b.Rows
}

// Each calls fn for every hex on the map, column by column.
func (b Bounds) Each(fn func(Coord)) {
	for col := 0; col < b.Cols; col++ {
		for row := 0; row < b.Rows; row++ {
			fn(Coord{Row: row, Col: col})
		}
	}
}

// Validate checks that the bounds fit the four digit code space.
func (b Bounds) Validate() error {
	if b.Cols <= 0 || b.Rows <= 0 {
		return fmt.Errorf("map bounds must be positive, got %dx%d", b.Cols, b.Rows)
	}
	if b.Cols > MaxDimension || b.Rows > MaxDimension {
		return fmt.Errorf("map bounds %dx%d exceed %d", b.Cols, b.Rows, MaxDimension)
	}
	return nil
}

// ParseCodeIn parses code and checks it against the bounds.
func (b Bounds) ParseCodeIn(code string) (Coord, error) {
	c, err := ParseCode(code)
	if err != nil {
		return Coord{}, err
	}
	if !b.Contains(c) {
		return Coord{}, fmt.Errorf("%w: %s is outside %dx%d map", ErrInvalidHexCode, code, b.Cols, b.Rows)
	}
	return c, nil
}
