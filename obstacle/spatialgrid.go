package obstacle

import (
	"math"
	"sort"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// maxCellSpan is the number of cells per axis above which a box is not inserted cell by cell
const maxCellSpan = 32

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordonnées d'une cellule dans l'espace 3D
type CellKey struct {
	X, Y, Z int
}

// Cell - Conteneur d'indices d'obstacles dans une cellule
type Cell struct {
	indices []int
}

// SpatialGrid - Grille spatiale uniforme avec hashing pour broad phase.
// Boxes spanning more than maxCellSpan cells on an axis are kept aside and always reported.
type SpatialGrid struct {
	cellSize  float64
	cells     []Cell
	cellMask  int
	oversized []int
	count     int
}

// ============================================================================
// Constructeur
// ============================================================================

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Insère un index dans toutes les cellules occupées par la boîte
func (sg *SpatialGrid) Insert(index int, aabb actor.AABB) {
	sg.count = max(sg.count, index+1)

	if sg.isOversized(aabb) {
		sg.oversized = append(sg.oversized, index)
		return
	}

	sg.forEachCell(aabb, func(cellIdx int) {
		sg.cells[cellIdx].indices = append(sg.cells[cellIdx].indices, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
	sg.oversized = sg.oversized[:0]
	sg.count = 0
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].indices) > 1 {
			sort.Ints(sg.cells[i].indices)
		}
	}
}

// Query returns, in ascending order and without duplicates, every index whose cells
// intersect aabb. Hash collisions may report extra indices: callers keep an exact overlap test.
func (sg *SpatialGrid) Query(aabb actor.AABB) []int {
	if !aabb.IsValid() || sg.count == 0 {
		return nil
	}

	seen := make([]bool, sg.count)
	if sg.isOversized(aabb) {
		// Une boîte trop grande couvre toute la grille
		for i := range seen {
			seen[i] = true
		}
	} else {
		for _, index := range sg.oversized {
			seen[index] = true
		}
		sg.forEachCell(aabb, func(cellIdx int) {
			for _, index := range sg.cells[cellIdx].indices {
				seen[index] = true
			}
		})
	}

	result := make([]int, 0, len(seen))
	for index, ok := range seen {
		if ok {
			result = append(result, index)
		}
	}

	return result
}

func (sg *SpatialGrid) isOversized(aabb actor.AABB) bool {
	for i := 0; i < 3; i++ {
		span := (aabb.Max[i] - aabb.Min[i]) / sg.cellSize
		// NaN and infinite spans fail the comparison
		if !(span < maxCellSpan) {
			return true
		}
	}

	return false
}

func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
