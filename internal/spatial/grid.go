// Package spatial provides a uniform-cell spatial hash for broad-phase
// queries over axis-aligned boxes.
package spatial

import (
	"math"
	"sort"

	"github.com/vovakirdan/beat-runner/internal/core"
)

// DefaultCellSize is the cell edge length in world units.
const DefaultCellSize = 160.0

// Bounded is anything with a world-space box that can key a map.
// Pointer types are the usual choice.
type Bounded interface {
	comparable
	Bounds() core.AABB
}

type cellKey struct {
	x, y int
}

// cellRange is the inclusive range of cells a box overlaps.
// Box coverage is always rectangular, so comparing ranges is set equality.
type cellRange struct {
	minX, minY int
	maxX, maxY int
}

func (r cellRange) each(fn func(k cellKey)) {
	for cy := r.minY; cy <= r.maxY; cy++ {
		for cx := r.minX; cx <= r.maxX; cx++ {
			fn(cellKey{cx, cy})
		}
	}
}

func (r cellRange) contains(k cellKey) bool {
	return k.x >= r.minX && k.x <= r.maxX && k.y >= r.minY && k.y <= r.maxY
}

type entry struct {
	cells cellRange
	seq   uint64 // insertion order, keeps query results deterministic
}

// Grid is a spatial hash over entities of type T.
// The inverse index (entity -> cells) makes Update and Remove O(cells touched).
type Grid[T Bounded] struct {
	cellSize float64
	cells    map[cellKey]map[T]struct{}
	entries  map[T]*entry
	nextSeq  uint64
}

// NewGrid creates an empty grid. Non-positive cell sizes fall back to DefaultCellSize.
func NewGrid[T Bounded](cellSize float64) *Grid[T] {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid[T]{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[T]struct{}),
		entries:  make(map[T]*entry),
	}
}

// CellSize returns the cell edge length.
func (g *Grid[T]) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of indexed entities.
func (g *Grid[T]) Len() int {
	return len(g.entries)
}

// Has reports whether e is indexed.
func (g *Grid[T]) Has(e T) bool {
	_, ok := g.entries[e]
	return ok
}

// rangeFor returns the cells spanned by b. A zero-area box maps to exactly one cell.
func (g *Grid[T]) rangeFor(b core.AABB) cellRange {
	return cellRange{
		minX: int(math.Floor(b.X / g.cellSize)),
		minY: int(math.Floor(b.Y / g.cellSize)),
		maxX: int(math.Floor(b.Right() / g.cellSize)),
		maxY: int(math.Floor(b.Bottom() / g.cellSize)),
	}
}

// Insert indexes e under every cell its bounds overlap.
// Inserting an already indexed entity behaves like Update.
func (g *Grid[T]) Insert(e T) {
	if _, ok := g.entries[e]; ok {
		g.Update(e)
		return
	}
	r := g.rangeFor(e.Bounds())
	r.each(func(k cellKey) { g.addToCell(k, e) })
	g.entries[e] = &entry{cells: r, seq: g.nextSeq}
	g.nextSeq++
}

// Update re-indexes e after its bounds changed. It is a no-op when the
// covered cells are unchanged, and inserts e if it was not indexed.
func (g *Grid[T]) Update(e T) {
	ent, ok := g.entries[e]
	if !ok {
		g.Insert(e)
		return
	}
	next := g.rangeFor(e.Bounds())
	if next == ent.cells {
		return
	}
	prev := ent.cells
	prev.each(func(k cellKey) {
		if !next.contains(k) {
			g.removeFromCell(k, e)
		}
	})
	next.each(func(k cellKey) {
		if !prev.contains(k) {
			g.addToCell(k, e)
		}
	})
	ent.cells = next
}

// Remove drops e from the index. Unknown entities are ignored.
func (g *Grid[T]) Remove(e T) {
	ent, ok := g.entries[e]
	if !ok {
		return
	}
	ent.cells.each(func(k cellKey) { g.removeFromCell(k, e) })
	delete(g.entries, e)
}

// Clear removes every entity.
func (g *Grid[T]) Clear() {
	g.cells = make(map[cellKey]map[T]struct{})
	g.entries = make(map[T]*entry)
	g.nextSeq = 0
}

// Rebuild clears the grid and indexes entities in order.
func (g *Grid[T]) Rebuild(entities []T) {
	g.Clear()
	for _, e := range entities {
		g.Insert(e)
	}
}

// Query returns the de-duplicated union of entities in every cell overlapping r,
// ordered by insertion.
func (g *Grid[T]) Query(r core.AABB) []T {
	seen := make(map[T]struct{})
	var out []T
	g.rangeFor(r).each(func(k cellKey) {
		for e := range g.cells[k] {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return g.entries[out[i]].seq < g.entries[out[j]].seq
	})
	return out
}

// QueryNearPoint returns entities in cells overlapping the square of
// half-size radius centered on (x, y).
func (g *Grid[T]) QueryNearPoint(x, y, radius float64) []T {
	return g.Query(core.AABB{X: x - radius, Y: y - radius, W: 2 * radius, H: 2 * radius})
}

// QueryVisible returns entities inside the camera view plus padding on every side.
func (g *Grid[T]) QueryVisible(cameraX, viewWidth, viewHeight, padding float64) []T {
	return g.Query(core.AABB{
		X: cameraX - padding,
		Y: -padding,
		W: viewWidth + 2*padding,
		H: viewHeight + 2*padding,
	})
}

func (g *Grid[T]) addToCell(k cellKey, e T) {
	set, ok := g.cells[k]
	if !ok {
		set = make(map[T]struct{})
		g.cells[k] = set
	}
	set[e] = struct{}{}
}

func (g *Grid[T]) removeFromCell(k cellKey, e T) {
	set, ok := g.cells[k]
	if !ok {
		return
	}
	delete(set, e)
	if len(set) == 0 {
		delete(g.cells, k)
	}
}
