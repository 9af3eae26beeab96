package obstacle

import (
	"math"
	"sort"

	"github.com/akmonengine/quill/actor"
)

// Set is an immutable snapshot of obstacles, indexed for the broad phase
type Set struct {
	obstacles []Obstacle
	grid      *SpatialGrid
	skipped   int
}

// NewSet indexes obstacles. The grid cell size is the median diagonal of the finite obstacle bounds.
func NewSet(obstacles []Obstacle) *Set {
	s := &Set{
		obstacles: make([]Obstacle, len(obstacles)),
	}
	copy(s.obstacles, obstacles)

	s.grid = NewSpatialGrid(medianDiagonal(s.obstacles), len(s.obstacles)*8)
	for i, o := range s.obstacles {
		s.grid.Insert(i, o.Bounds)
	}
	s.grid.SortCells()

	return s
}

func medianDiagonal(obstacles []Obstacle) float64 {
	diagonals := make([]float64, 0, len(obstacles))
	for _, o := range obstacles {
		diagonal := o.Bounds.Max.Sub(o.Bounds.Min).Len()
		if diagonal > 0 && !math.IsInf(diagonal, 0) {
			diagonals = append(diagonals, diagonal)
		}
	}
	if len(diagonals) == 0 {
		return 1
	}
	sort.Float64s(diagonals)

	return diagonals[len(diagonals)/2]
}

func (s *Set) Len() int {
	return len(s.obstacles)
}

func (s *Set) At(index int) Obstacle {
	return s.obstacles[index]
}

// All returns a copy of the obstacles, in discovery order
func (s *Set) All() []Obstacle {
	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Skipped is the number of entities rejected by Refresh for invalid bounds
func (s *Set) Skipped() int {
	return s.skipped
}

// Candidates returns, in ascending order, the indices of obstacles whose bounds overlap bounds
func (s *Set) Candidates(bounds actor.AABB) []int {
	indices := s.grid.Query(bounds)

	n := 0
	for _, index := range indices {
		if s.obstacles[index].Bounds.Overlaps(bounds) {
			indices[n] = index
			n++
		}
	}

	return indices[:n]
}
