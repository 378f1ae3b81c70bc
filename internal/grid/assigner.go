// Package grid maps the infinite plane of integer cells to image indices and
// keeps the window of materialized tiles around the camera.
package grid

import (
	"fmt"

	"github.com/Garsondee/Drift-Gallery/internal/prng"
)

// NoImage is returned when the catalog is empty.
const NoImage = -1

// Cell identifies one grid slot.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Chebyshev returns max(|dx|, |dy|) between two cells.
func (c Cell) Chebyshev(o Cell) int {
	dx := c.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Occupancy reports the image index materialized at a cell, if any.
type Occupancy func(Cell) (int, bool)

// Assigner picks an image for a cell so that it differs from its occupied
// neighbours. Results depend only on the cell, the neighbour snapshot and Total.
type Assigner struct {
	Total int
}

// Neighbours returns the image indices of the occupied cells around (x, y),
// scanning dx then dy from -1 to 1 and skipping the centre.
func Neighbours(x, y int, occupied Occupancy) []int {
	var out []int
	if occupied == nil {
		return out
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if idx, ok := occupied(Cell{X: x + dx, Y: y + dy}); ok {
				out = append(out, idx)
			}
		}
	}
	return out
}

// ImageFor returns the image index for cell (x, y).
//
// Candidates are all indices not used by a neighbour. If none remain, indices
// at least 2 away (by value) from every neighbour are used instead, and if that
// is empty too the whole catalog is eligible. The first draw of the cell's own
// generator picks uniformly from the chosen set.
func (a Assigner) ImageFor(x, y int, occupied Occupancy) int {
	if a.Total <= 0 {
		return NoImage
	}
	rng := prng.New(prng.CellSeed(x, y))
	near := Neighbours(x, y, occupied)

	taken := make(map[int]bool, len(near))
	for _, idx := range near {
		taken[idx] = true
	}

	candidates := make([]int, 0, a.Total)
	for i := 0; i < a.Total; i++ {
		if !taken[i] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		candidates = nonAdjacent(a.Total, near)
	}
	if len(candidates) == 0 {
		candidates = make([]int, a.Total)
		for i := range candidates {
			candidates[i] = i
		}
	}
	return candidates[rng.Intn(len(candidates))]
}

// nonAdjacent lists indices whose value differs by at least 2 from every
// neighbour; consecutive numbers are assumed to look alike.
func nonAdjacent(total int, near []int) []int {
	var out []int
	for i := 0; i < total; i++ {
		ok := true
		for _, n := range near {
			d := i - n
			if d < 0 {
				d = -d
			}
			if d < 2 {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}
