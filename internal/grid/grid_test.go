package grid

import (
	"testing"

	"github.com/Garsondee/Drift-Gallery/internal/prng"
)

// recordingRenderer hands out sequential handles and tracks live ones.
type recordingRenderer struct {
	next     Handle
	live     map[Handle]Tile
	attached int
	detached int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{live: make(map[Handle]Tile)}
}

func (r *recordingRenderer) Attach(t Tile, _, _ float64) Handle {
	r.next++
	t.Handle = r.next
	r.live[r.next] = t
	r.attached++
	return r.next
}

func (r *recordingRenderer) Detach(h Handle) {
	delete(r.live, h)
	r.detached++
}

func mapOccupancy(m map[Cell]int) Occupancy {
	return func(c Cell) (int, bool) {
		v, ok := m[c]
		return v, ok
	}
}

func newTestManager(total int) (*Manager, *recordingRenderer) {
	r := newRecordingRenderer()
	m := NewManager(ManagerConfig{GridSize: 5, Spacing: 5, TileSize: 4}, Assigner{Total: total}, r)
	return m, r
}

func assertWindow(t *testing.T, m *Manager, center Cell) {
	t.Helper()
	radius := m.ViewRadius()
	side := 2*radius + 1
	if m.Len() != side*side {
		t.Fatalf("expected %d tiles, got %d", side*side, m.Len())
	}
	for _, tile := range m.Tiles() {
		if tile.Cell.Chebyshev(center) > radius {
			t.Fatalf("tile %s outside window around %s", tile.Cell, center)
		}
	}
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			if _, ok := m.Tile(Cell{x, y}); !ok {
				t.Fatalf("missing window cell %d,%d", x, y)
			}
		}
	}
}

func TestImageFor_PureForSameSnapshot(t *testing.T) {
	a := Assigner{Total: 30}
	snap := mapOccupancy(map[Cell]int{{4, 5}: 3, {5, 6}: 9, {3, 3}: 1})
	first := a.ImageFor(4, 4, snap)
	for i := 0; i < 100; i++ {
		if got := a.ImageFor(4, 4, snap); got != first {
			t.Fatalf("call %d returned %d, expected %d", i, got, first)
		}
	}
}

func TestImageFor_IndependentOfCallOrder(t *testing.T) {
	a := Assigner{Total: 30}
	empty := mapOccupancy(nil)
	want := a.ImageFor(-7, 12, empty)
	for x := -3; x <= 3; x++ {
		a.ImageFor(x, x*2, empty)
	}
	if got := a.ImageFor(-7, 12, empty); got != want {
		t.Fatalf("expected %d regardless of prior calls, got %d", want, got)
	}
}

func TestImageFor_EmptyNeighbourhoodUsesFirstDraw(t *testing.T) {
	a := Assigner{Total: 10}
	want := prng.New(prng.CellSeed(2, 3)).Intn(10)
	if got := a.ImageFor(2, 3, nil); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestImageFor_ExcludesNeighbourIndices(t *testing.T) {
	a := Assigner{Total: 9}
	rng := prng.New(2024)
	for trial := 0; trial < 500; trial++ {
		occ := map[Cell]int{}
		cx, cy := rng.Intn(200)-100, rng.Intn(200)-100
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if (dx == 0 && dy == 0) || rng.Next() < 0.3 {
					continue
				}
				occ[Cell{cx + dx, cy + dy}] = rng.Intn(9)
			}
		}
		if len(occ) == 0 {
			continue
		}
		got := a.ImageFor(cx, cy, mapOccupancy(occ))
		for c, idx := range occ {
			if idx == got {
				t.Fatalf("trial %d: picked %d which neighbour %s already shows", trial, got, c)
			}
		}
	}
}

func TestImageFor_CentreCellIgnored(t *testing.T) {
	a := Assigner{Total: 2}
	// The centre is occupied by 0; only the centre. Both images stay eligible.
	occ := mapOccupancy(map[Cell]int{{0, 0}: 0})
	want := a.ImageFor(0, 0, nil)
	if got := a.ImageFor(0, 0, occ); got != want {
		t.Fatalf("centre occupancy changed result: %d vs %d", got, want)
	}
}

func TestImageFor_ExhaustedFallsBackToWholeCatalog(t *testing.T) {
	a := Assigner{Total: 2}
	occ := mapOccupancy(map[Cell]int{{1, 0}: 0, {0, 1}: 1})
	got := a.ImageFor(0, 0, occ)
	want := []int{0, 1}[prng.New(prng.CellSeed(0, 0)).Intn(2)]
	if got != want {
		t.Fatalf("expected last-resort pick %d, got %d", want, got)
	}
}

func TestImageFor_EmptyCatalog(t *testing.T) {
	if got := (Assigner{}).ImageFor(1, 1, nil); got != NoImage {
		t.Fatalf("expected NoImage, got %d", got)
	}
}

func TestNonAdjacent_SkipsNeighbourValues(t *testing.T) {
	got := nonAdjacent(10, []int{3, 7})
	want := []int{0, 1, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRefresh_WindowInvariant(t *testing.T) {
	m, r := newTestManager(20)
	stats := m.Refresh(0, 0)
	assertWindow(t, m, Cell{0, 0})
	if stats.Added != 15*15 || stats.Evicted != 0 {
		t.Fatalf("unexpected first refresh stats: %+v", stats)
	}
	if len(r.live) != m.Len() {
		t.Fatalf("renderer holds %d quads for %d tiles", len(r.live), m.Len())
	}
}

func TestRefresh_NegativeCameraFloorsCell(t *testing.T) {
	m, _ := newTestManager(20)
	m.Refresh(-0.1, -5.1)
	if m.Center() != (Cell{-1, -2}) {
		t.Fatalf("expected centre -1,-2, got %s", m.Center())
	}
	assertWindow(t, m, Cell{-1, -2})
}

func TestRefresh_MovingEvictsAndCreatesBoundary(t *testing.T) {
	m, r := newTestManager(20)
	m.Refresh(0, 0)
	stats := m.Refresh(5, 0) // one cell to the right
	if stats.Evicted != 15 || stats.Added != 15 {
		t.Fatalf("expected one column swapped, got %+v", stats)
	}
	assertWindow(t, m, Cell{1, 0})
	if r.attached-r.detached != m.Len() {
		t.Fatalf("renderer leak: attached=%d detached=%d tiles=%d", r.attached, r.detached, m.Len())
	}
}

func TestRefresh_StationaryIsNoop(t *testing.T) {
	m, _ := newTestManager(20)
	m.Refresh(1, 1)
	before := m.Tiles()
	stats := m.Refresh(2, 3)
	if stats != (RefreshStats{}) {
		t.Fatalf("expected no changes inside the same cell, got %+v", stats)
	}
	after := m.Tiles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("tile %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestRefresh_JumpReplacesWholeWindow(t *testing.T) {
	m, _ := newTestManager(20)
	m.Refresh(0, 0)
	stats := m.Refresh(1000, -1000)
	if stats.Evicted != 225 || stats.Added != 225 {
		t.Fatalf("expected full replacement, got %+v", stats)
	}
	assertWindow(t, m, Cell{200, -200})
}

func TestRefresh_AdjacentTilesDiffer(t *testing.T) {
	m, _ := newTestManager(12)
	for step := 0; step < 10; step++ {
		m.Refresh(float64(step)*3.7, float64(step)*-2.2)
		for _, tile := range m.Tiles() {
			for _, n := range Neighbours(tile.Cell.X, tile.Cell.Y, m.Occupancy()) {
				if n == tile.ImageIndex {
					t.Fatalf("step %d: tile %s shares image %d with a neighbour", step, tile.Cell, n)
				}
			}
		}
	}
}

func TestRefresh_Deterministic(t *testing.T) {
	a, _ := newTestManager(15)
	b, _ := newTestManager(15)
	a.Refresh(12, -8)
	b.Refresh(12, -8)
	ta, tb := a.Tiles(), b.Tiles()
	for i := range ta {
		if ta[i].Cell != tb[i].Cell || ta[i].ImageIndex != tb[i].ImageIndex {
			t.Fatalf("tile %d differs: %+v vs %+v", i, ta[i], tb[i])
		}
	}
}

type countingListener struct{ added, evicted int }

func (c *countingListener) TileAdded(Tile) { c.added++ }
func (c *countingListener) TileEvicted(Tile) { c.evicted++ }

func TestRefresh_NotifiesListener(t *testing.T) {
	m, _ := newTestManager(20)
	l := &countingListener{}
	m.SetListener(l)
	m.Refresh(0, 0)
	m.Refresh(0, 5)
	if l.added != 225+15 || l.evicted != 15 {
		t.Fatalf("unexpected notifications: %+v", *l)
	}
}

func TestHitTest_QuadAndGap(t *testing.T) {
	m, _ := newTestManager(20)
	m.Refresh(0, 0)
	tile, ok := m.HitTest(10.5, -4.9)
	if !ok || tile.Cell != (Cell{2, -1}) {
		t.Fatalf("expected hit on 2,-1, got %+v ok=%v", tile, ok)
	}
	// 2.4 units from centre of cell 0 lies in the 1-unit gutter.
	if _, ok := m.HitTest(2.4, 0); ok {
		t.Fatal("expected miss in the gap between quads")
	}
	if _, ok := m.HitTest(500, 500); ok {
		t.Fatal("expected miss outside the window")
	}
}

func TestClear_DetachesEverything(t *testing.T) {
	m, r := newTestManager(5)
	m.Refresh(0, 0)
	m.Clear()
	if m.Len() != 0 || len(r.live) != 0 {
		t.Fatalf("expected empty manager and renderer, got %d / %d", m.Len(), len(r.live))
	}
}
