package levels

import "fmt"

// Terrain is a height grid over the XZ plane. Each row is a string with
// one cell per character: '.' or ' ' is a hole, '1'..'9' is solid ground
// whose top sits at (n-1)*StepHeight. Row 0 is at OriginZ and columns grow
// along +X.
type Terrain struct {
	CellSize   float64  `yaml:"cell_size"`
	OriginX    float64  `yaml:"origin_x"`
	OriginZ    float64  `yaml:"origin_z"`
	Bottom     float64  `yaml:"bottom"`
	StepHeight float64  `yaml:"step_height"`
	Rows       []string `yaml:"rows"`
}

func (t *Terrain) Validate() error {
	if t.CellSize <= 0 {
		return fmt.Errorf("terrain: cell_size must be positive")
	}
	if t.Bottom >= 0 {
		return fmt.Errorf("terrain: bottom must be below the lowest top")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Rows[0]) {
			return fmt.Errorf("terrain: row %d has %d cells, want %d", i, len(row), len(t.Rows[0]))
		}
		for j, c := range row {
			if c != '.' && c != ' ' && (c < '1' || c > '9') {
				return fmt.Errorf("terrain: row %d col %d: unexpected %q", i, j, c)
			}
		}
	}
	return nil
}

func (t *Terrain) level(x, z int) int {
	c := t.Rows[z][x]
	if c < '1' || c > '9' {
		return 0
	}
	return int(c - '0')
}

// Blocks merges runs of equal cells into as few boxes as a greedy
// row-then-column sweep finds.
func (t *Terrain) Blocks() []Block {
	if t == nil || len(t.Rows) == 0 || t.CellSize <= 0 {
		return nil
	}
	width, depth := len(t.Rows[0]), len(t.Rows)
	visited := make([]bool, width*depth)
	index := func(x, z int) int { return z*width + x }

	var out []Block
	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			lvl := t.level(x, z)
			if visited[index(x, z)] || lvl == 0 {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width; x2++ {
				if visited[index(x2, z)] || t.level(x2, z) != lvl {
					break
				}
				maxW++
			}

			maxD := 1
			for z2 := z + 1; z2 < depth; z2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if visited[index(x2, z2)] || t.level(x2, z2) != lvl {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxD++
			}

			for zz := z; zz < z+maxD; zz++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, zz)] = true
				}
			}

			top := float64(lvl-1) * t.StepHeight
			w := float64(maxW) * t.CellSize
			d := float64(maxD) * t.CellSize
			out = append(out, Block{
				X:      t.OriginX + float64(x)*t.CellSize + w/2,
				Z:      t.OriginZ + float64(z)*t.CellSize + d/2,
				Y:      t.Bottom,
				Width:  w,
				Height: top - t.Bottom,
				Depth:  d,
				Layer:  "ground",
			})
		}
	}
	return out
}
