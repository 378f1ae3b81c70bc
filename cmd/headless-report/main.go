package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Garsondee/Drift-Gallery/internal/grid"
	"github.com/Garsondee/Drift-Gallery/internal/scene"
)

type runStats struct {
	runIndex int
	seed     uint32
	images   int
	pairs    int

	summary    scene.Summary
	liveTiles  int
	clashes    int
	opened     []int
	firstSlow  int // first frame the rate dropped below half speed
	settleTick int // frames of coasting until the camera stopped
}

// gesture is one step of a scripted session.
type gesture struct {
	kind   string // fling, tap, hold, coast
	dx, dy float64
	frames int
}

var scenarios = map[string][]gesture{
	"fling-tour": {
		{kind: "fling", dx: 300, frames: 10},
		{kind: "coast", frames: 120},
		{kind: "fling", dy: -300, frames: 10},
		{kind: "coast", frames: 120},
		{kind: "tap"},
		{kind: "fling", dx: -600, dy: 200, frames: 20},
		{kind: "coast", frames: 240},
		{kind: "tap"},
	},
	"slow-browse": {
		{kind: "hold", frames: 90},
		{kind: "tap"},
		{kind: "fling", dx: 40, frames: 30},
		{kind: "coast", frames: 60},
		{kind: "tap"},
		{kind: "fling", dy: 40, frames: 30},
		{kind: "coast", frames: 60},
		{kind: "tap"},
	},
}

func main() {
	var runs int
	var frames int
	var images int
	var gridSize int
	var seedBase int64
	var seedStep int64
	var scenario string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless gallery runs")
	flag.IntVar(&frames, "frames", 0, "extra coasting frames appended to each run")
	flag.IntVar(&images, "images", 24, "catalog size")
	flag.IntVar(&gridSize, "grid", 10, "grid size (view radius is grid+2)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base pairing seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "fling-tour", "scripted session: "+strings.Join(scenarioNames(), ", "))
	flag.BoolVar(&verbose, "verbose", false, "print the frame event log of each run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if frames < 0 {
		fmt.Println("error: -frames must be >= 0")
		os.Exit(2)
	}
	script, ok := scenarios[scenario]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, strings.Join(scenarioNames(), ", "))
		os.Exit(2)
	}

	fmt.Printf("=== Headless Gallery Report ===\n")
	fmt.Printf("scenario=%s runs=%d images=%d grid=%d seed_base=%d seed_step=%d\n\n",
		scenario, runs, images, gridSize, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := uint32(seedBase + int64(i)*seedStep)
		h := scene.NewHarness(
			scene.WithImages(images),
			scene.WithSeed(seed),
			scene.WithGridSize(gridSize),
			scene.WithVerbose(verbose),
		)
		rs, err := runScript(i+1, h, script, frames)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, rs)
		if verbose {
			fmt.Printf("--- Run %d events ---\n%s\n", rs.runIndex, h.Log.Format())
		}
	}

	printRuns(os.Stdout, all)
	printAggregate(os.Stdout, all)
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for k := range scenarios {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func runScript(runIndex int, h *scene.Harness, script []gesture, extra int) (runStats, error) {
	rs := runStats{runIndex: runIndex, seed: h.Seed, images: h.Images, pairs: len(h.Pairs), firstSlow: -1, settleTick: -1}
	cx, cy := h.Width/2, h.Height/2

	for _, g := range script {
		switch g.kind {
		case "fling":
			if _, err := h.Fling(g.dx, g.dy, g.frames); err != nil {
				return rs, err
			}
		case "tap":
			if _, err := h.Tap(cx, cy); err != nil {
				return rs, err
			}
		case "hold":
			h.Press(cx, cy)
			if err := h.RunFrames(g.frames); err != nil {
				return rs, err
			}
			h.Release()
		case "coast":
			start := h.Loop.Last().Frame
			at, err := h.RunUntil(func(h *scene.Harness) bool {
				return h.Controller.Camera().Speed() < 1e-3
			}, g.frames)
			if err != nil {
				return rs, err
			}
			if at < 0 {
				continue
			}
			if rs.settleTick < 0 {
				rs.settleTick = at - start
			}
			if err := h.RunFrames(g.frames - (at - start)); err != nil {
				return rs, err
			}
		default:
			return rs, fmt.Errorf("unknown gesture %q", g.kind)
		}
	}
	if err := h.RunFrames(extra); err != nil {
		return rs, err
	}

	for _, s := range h.Log.Samples() {
		if s.Rate < 0.5 {
			rs.firstSlow = s.Frame
			break
		}
	}
	rs.summary = h.Log.Summarize()
	rs.liveTiles = h.LiveQuads()
	rs.clashes = neighbourClashes(h.Grid.Tiles())
	rs.opened = append([]int(nil), h.Opened()...)
	return rs, nil
}

// neighbourClashes counts adjacent live tiles (including diagonals) that
// show the same image. Each pair is counted once.
func neighbourClashes(tiles []grid.Tile) int {
	byCell := make(map[grid.Cell]int, len(tiles))
	for _, t := range tiles {
		byCell[t.Cell] = t.ImageIndex
	}
	n := 0
	for _, t := range tiles {
		for _, d := range [][2]int{{1, -1}, {1, 0}, {1, 1}, {0, 1}} {
			img, ok := byCell[grid.Cell{X: t.Cell.X + d[0], Y: t.Cell.Y + d[1]}]
			if ok && img == t.ImageIndex {
				n++
			}
		}
	}
	return n
}

func printRuns(w io.Writer, all []runStats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Runs")
	tw.AppendHeader(table.Row{"Run", "Seed", "Pairs", "Frames", "Distance", "Peak speed", "Min rate", "Peak warp", "Added", "Evicted", "Live", "Clashes", "First slow", "Settle", "Opened"})
	for _, rs := range all {
		s := rs.summary
		tw.AppendRow(table.Row{
			rs.runIndex, rs.seed, rs.pairs, s.Frames,
			fmt.Sprintf("%.1f", s.Distance),
			fmt.Sprintf("%.3f", s.PeakSpeed),
			fmt.Sprintf("%.2f", s.MinRate),
			fmt.Sprintf("%.3f", s.PeakWarp),
			s.TilesAdded, s.TilesEvicts, rs.liveTiles, rs.clashes,
			markerString(rs.firstSlow), markerString(rs.settleTick),
			joinInts(rs.opened),
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	var distance, peakWarp float64
	var added, evicted, clashes, taps int
	settle := make([]int, 0, len(all))
	opened := map[int]int{}
	for _, rs := range all {
		distance += rs.summary.Distance
		peakWarp = max(peakWarp, rs.summary.PeakWarp)
		added += rs.summary.TilesAdded
		evicted += rs.summary.TilesEvicts
		clashes += rs.clashes
		taps += rs.summary.Taps
		if rs.settleTick >= 0 {
			settle = append(settle, rs.settleTick)
		}
		for _, idx := range rs.opened {
			opened[idx]++
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Aggregate")
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"runs", len(all)},
		{"avg distance", fmt.Sprintf("%.1f", avgFloat(distance, len(all)))},
		{"peak warp", fmt.Sprintf("%.3f", peakWarp)},
		{"avg tiles added", fmt.Sprintf("%.1f", avg(added, len(all)))},
		{"avg tiles evicted", fmt.Sprintf("%.1f", avg(evicted, len(all)))},
		{"neighbour clashes", clashes},
		{"tile taps", taps},
		{"avg settle frames", avgMarkerString(settle)},
		{"distinct images opened", len(opened)},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func avg(sum int, n int) float64 {
	return avgFloat(float64(sum), n)
}

func avgFloat(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func markerString(v int) string {
	if v < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", v)
}

func avgMarkerString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinInts(vals []int) string {
	if len(vals) == 0 {
		return "none"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
