package game

const SpatialCellSize = 80.0 // ~2x the largest enemy radius plus blast reach

// SpatialGrid is a uniform grid for broad-phase enemy queries, sized to
// the world it covers. Cells hold indexes into the enemy list of the
// current pass.
type SpatialGrid struct {
	cols, rows int
	cells      [][]int
}

// NewSpatialGrid creates a grid covering a width x height world
func NewSpatialGrid(width, height float64) *SpatialGrid {
	cols := int(width/SpatialCellSize) + 1
	rows := int(height/SpatialCellSize) + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]int, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func clampCell(c, n int) int {
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// cellRange returns the inclusive cell bounds of a circle's bounding box.
// Anything outside the grid lands in the border cells.
func (g *SpatialGrid) cellRange(x, y, radius float64) (minCX, maxCX, minCY, maxCY int) {
	minCX = clampCell(int((x-radius)/SpatialCellSize), g.cols)
	maxCX = clampCell(int((x+radius)/SpatialCellSize), g.cols)
	minCY = clampCell(int((y-radius)/SpatialCellSize), g.rows)
	maxCY = clampCell(int((y+radius)/SpatialCellSize), g.rows)
	return
}

// InsertCircle adds an enemy index to all cells overlapping its bounding box
func (g *SpatialGrid) InsertCircle(x, y, radius float64, idx int) {
	minCX, maxCX, minCY, maxCY := g.cellRange(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			c := cy*g.cols + cx
			g.cells[c] = append(g.cells[c], idx)
		}
	}
}

// QueryBuf appends candidate indexes near (x, y) to buf, deduplicated,
// and returns the extended slice.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []int) []int {
	start := len(buf)
	minCX, maxCX, minCY, maxCY := g.cellRange(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, idx := range g.cells[cy*g.cols+cx] {
				dup := false
				for _, seen := range buf[start:] {
					if seen == idx {
						dup = true
						break
					}
				}
				if !dup {
					buf = append(buf, idx)
				}
			}
		}
	}
	return buf
}
