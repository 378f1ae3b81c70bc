package grid

import (
	"math"
	"sort"
)

// Handle is an opaque render resource issued by a TileRenderer.
type Handle uint64

// Tile is a materialized cell bound to one image.
type Tile struct {
	Cell       Cell
	ImageIndex int
	Handle     Handle
}

// TileRenderer creates and removes the renderable quad for a tile.
type TileRenderer interface {
	Attach(t Tile, worldX, worldY float64) Handle
	Detach(h Handle)
}

// Listener is notified as tiles enter and leave the window.
type Listener interface {
	TileAdded(t Tile)
	TileEvicted(t Tile)
}

// ManagerConfig sizes the window and the world layout.
type ManagerConfig struct {
	GridSize int     // view radius is GridSize + 2 cells
	Spacing  float64 // world units between cell centres
	TileSize float64 // world-space edge length of a tile quad
}

// RefreshStats reports what a Refresh call changed.
type RefreshStats struct {
	Added   int
	Evicted int
}

// Manager keeps exactly the cells within ViewRadius of the camera's cell
// materialized.
type Manager struct {
	cfg      ManagerConfig
	assigner Assigner
	renderer TileRenderer
	listener Listener
	tiles    map[Cell]Tile
	center   Cell
}

// NewManager builds an empty manager. Nothing is materialized until Refresh.
func NewManager(cfg ManagerConfig, assigner Assigner, renderer TileRenderer) *Manager {
	return &Manager{
		cfg:      cfg,
		assigner: assigner,
		renderer: renderer,
		tiles:    make(map[Cell]Tile),
	}
}

// SetListener installs l; nil disables notifications.
func (m *Manager) SetListener(l Listener) {
	m.listener = l
}

// ViewRadius is the Chebyshev radius of the materialized window.
func (m *Manager) ViewRadius() int {
	return m.cfg.GridSize + 2
}

// Spacing returns the world distance between cell centres.
func (m *Manager) Spacing() float64 {
	return m.cfg.Spacing
}

// CellAt returns the cell containing world position (wx, wy) for windowing.
func (m *Manager) CellAt(wx, wy float64) Cell {
	return Cell{
		X: int(math.Floor(wx / m.cfg.Spacing)),
		Y: int(math.Floor(wy / m.cfg.Spacing)),
	}
}

// Refresh evicts tiles outside the window around (camX, camY), then creates
// every missing cell inside it.
func (m *Manager) Refresh(camX, camY float64) RefreshStats {
	var stats RefreshStats
	center := m.CellAt(camX, camY)
	m.center = center
	radius := m.ViewRadius()

	for cell, t := range m.tiles {
		if cell.Chebyshev(center) > radius {
			m.renderer.Detach(t.Handle)
			delete(m.tiles, cell)
			stats.Evicted++
			if m.listener != nil {
				m.listener.TileEvicted(t)
			}
		}
	}

	// x outer, y inner: creation order shapes each new cell's neighbour snapshot.
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			cell := Cell{X: x, Y: y}
			if _, ok := m.tiles[cell]; ok {
				continue
			}
			m.create(cell)
			stats.Added++
		}
	}
	return stats
}

func (m *Manager) create(cell Cell) {
	idx := m.assigner.ImageFor(cell.X, cell.Y, m.occupied)
	t := Tile{Cell: cell, ImageIndex: idx}
	t.Handle = m.renderer.Attach(t, float64(cell.X)*m.cfg.Spacing, float64(cell.Y)*m.cfg.Spacing)
	m.tiles[cell] = t
	if m.listener != nil {
		m.listener.TileAdded(t)
	}
}

func (m *Manager) occupied(c Cell) (int, bool) {
	t, ok := m.tiles[c]
	return t.ImageIndex, ok
}

// Occupancy exposes the live map as a read-only lookup.
func (m *Manager) Occupancy() Occupancy {
	return m.occupied
}

// Len returns the number of materialized tiles.
func (m *Manager) Len() int {
	return len(m.tiles)
}

// Center returns the camera cell used by the last Refresh.
func (m *Manager) Center() Cell {
	return m.center
}

// Tile returns the tile at cell, if materialized.
func (m *Manager) Tile(c Cell) (Tile, bool) {
	t, ok := m.tiles[c]
	return t, ok
}

// Tiles returns a snapshot ordered by X then Y.
func (m *Manager) Tiles() []Tile {
	out := make([]Tile, 0, len(m.tiles))
	for _, t := range m.tiles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cell.X != out[j].Cell.X {
			return out[i].Cell.X < out[j].Cell.X
		}
		return out[i].Cell.Y < out[j].Cell.Y
	})
	return out
}

// HitTest returns the tile whose quad covers world point (wx, wy) on the z=0
// plane. Gaps between quads hit nothing.
func (m *Manager) HitTest(wx, wy float64) (Tile, bool) {
	cell := Cell{
		X: int(math.Floor(wx/m.cfg.Spacing + 0.5)),
		Y: int(math.Floor(wy/m.cfg.Spacing + 0.5)),
	}
	t, ok := m.tiles[cell]
	if !ok {
		return Tile{}, false
	}
	half := m.cfg.TileSize / 2
	if math.Abs(wx-float64(cell.X)*m.cfg.Spacing) > half || math.Abs(wy-float64(cell.Y)*m.cfg.Spacing) > half {
		return Tile{}, false
	}
	return t, true
}

// Clear detaches every tile.
func (m *Manager) Clear() {
	for cell, t := range m.tiles {
		m.renderer.Detach(t.Handle)
		delete(m.tiles, cell)
	}
}
